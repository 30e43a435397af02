package bind

// BareSentinel is the reserved token that string-typed settings (struct tags,
// CLI flags, config) use to say "no prefix". Marker itself tracks the prefix as
// an optional, so the token never reaches a bind variable name.
const BareSentinel = "__bind_bare__"

// Marker describes how a marked value is turned into bind variables.
// A bare marker binds each field under its own name; a prefixed marker binds
// each field under prefix + separator + field name.
//
// Marker is a value type without setters, so it never changes once built.
type Marker struct {
	prefix   string
	prefixed bool
}

// Bare returns a marker without a prefix.
func Bare() Marker {
	return Marker{}
}

// Prefixed returns a marker that binds fields under prefix.
// Passing BareSentinel yields a bare marker. An empty prefix is kept as is and
// rejected by Factory.Bind with ErrInvalidPrefix.
func Prefixed(prefix string) Marker {
	if prefix == BareSentinel {
		return Marker{}
	}
	return Marker{prefix: prefix, prefixed: true}
}

// ParseMarker interprets a string-typed setting. Empty strings and
// BareSentinel mean bare; anything else is used as the prefix.
func ParseMarker(s string) Marker {
	if s == "" {
		return Bare()
	}
	return Prefixed(s)
}

// Prefix returns the prefix and whether one was set.
func (m Marker) Prefix() (string, bool) {
	return m.prefix, m.prefixed
}

// IsBare reports whether the marker has no prefix.
func (m Marker) IsBare() bool {
	return !m.prefixed
}

// Value returns the prefix, or BareSentinel for a bare marker.
func (m Marker) Value() string {
	if !m.prefixed {
		return BareSentinel
	}
	return m.prefix
}

// String implements fmt.Stringer.
func (m Marker) String() string {
	if !m.prefixed {
		return "bind(bare)"
	}
	return "bind(" + m.prefix + ")"
}

// Arg is a call parameter together with its Marker.
type Arg struct {
	value  any
	marker Marker
}

// Product marks v for binding without a prefix.
func Product(v any) Arg {
	return Arg{value: v}
}

// Marked attaches an explicit marker to v.
func Marked(v any, m Marker) Arg {
	return Arg{value: v, marker: m}
}

// WithPrefix returns a copy of the arg whose fields bind under prefix.
// WithPrefix("") does not mean bare: binding the arg fails with
// ErrInvalidPrefix instead of producing names like ".name". Use ParseMarker
// for settings where an empty string means no prefix.
func (a Arg) WithPrefix(prefix string) Arg {
	a.marker = Prefixed(prefix)
	return a
}

// Value returns the marked value.
func (a Arg) Value() any {
	return a.value
}

// Marker returns the marker attached to the value.
func (a Arg) Marker() Marker {
	return a.marker
}

package bind

import (
	"database/sql/driver"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
)

const (
	// DefaultSeparator joins a prefix and a field name for the Default factory.
	DefaultSeparator = "."

	// ParamSeparator joins names so they stay valid @name placeholders in
	// Spanner GoogleSQL and pgx named arguments.
	ParamSeparator = "_"
)

// Default binds with DefaultSeparator and the bind, spanner and db struct tags.
var Default = NewFactory()

// Binding is a single named bind variable.
type Binding struct {
	// Name is the full bind variable name, prefix included.
	Name string
	// Field is the name without the marker prefix.
	Field string
	Value any
}

// Bindings is an ordered list of bind variables.
type Bindings []Binding

// Map returns the bindings keyed by name.
func (bs Bindings) Map() map[string]any {
	m := make(map[string]any, len(bs))
	for _, b := range bs {
		m[b.Name] = b.Value
	}
	return m
}

// Names returns the bind variable names in order.
func (bs Bindings) Names() []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}
	return names
}

// Fields returns the unprefixed field names in order.
func (bs Bindings) Fields() []string {
	fields := make([]string, len(bs))
	for i, b := range bs {
		fields[i] = b.Field
	}
	return fields
}

// Values returns the bound values in order.
func (bs Bindings) Values() []any {
	values := make([]any, len(bs))
	for i, b := range bs {
		values[i] = b.Value
	}
	return values
}

// Lookup returns the value bound under name.
func (bs Bindings) Lookup(name string) (any, bool) {
	for _, b := range bs {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

// Option configures a Factory.
type Option func(*Factory)

// WithSeparator sets the string placed between a prefix and a field name,
// and between nested struct names.
func WithSeparator(sep string) Option {
	return func(f *Factory) {
		f.sep = sep
	}
}

// WithTagNames sets the struct tags consulted for field names, in order.
func WithTagNames(tags ...string) Option {
	return func(f *Factory) {
		f.tags = append([]string(nil), tags...)
	}
}

// WithNameMapper sets the mapping applied to untagged field names.
func WithNameMapper(m NameMapper) Option {
	return func(f *Factory) {
		f.mapper = m
	}
}

// WithLogger sets the logger used for type inspection diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// Factory turns marked values into bind variables.
// A Factory is safe for concurrent use; per-type field metadata is computed
// once and cached.
type Factory struct {
	sep    string
	tags   []string
	mapper NameMapper
	logger *zap.Logger

	types sync.Map // reflect.Type -> *typeInfo
}

// NewFactory creates a Factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		sep:    DefaultSeparator,
		tags:   []string{"bind", "spanner", "db"},
		mapper: SnakeCase,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Separator returns the separator used by the factory.
func (f *Factory) Separator() string {
	return f.sep
}

// ParamSafe reports whether names joined by the separator stay valid @name
// placeholders and column names.
func (f *Factory) ParamSafe() bool {
	return ValidName("a" + f.sep + "b")
}

// Bind returns the bind variables for a single marked value.
func (f *Factory) Bind(a Arg) (Bindings, error) {
	prefix, prefixed := a.marker.Prefix()
	if prefixed && prefix == "" {
		return nil, ErrInvalidPrefix
	}

	v, err := indirect(reflect.ValueOf(a.value))
	if err != nil {
		return nil, err
	}

	var out Bindings
	switch {
	case v.Kind() == reflect.Struct && !isLeaf(v.Type()):
		info, err := f.typeInfo(v.Type())
		if err != nil {
			return nil, err
		}
		out = make(Bindings, 0, len(info.fields))
		for _, fi := range info.fields {
			fv, ok := fieldByIndex(v, fi.index)
			if !ok {
				// Nil embedded pointer: nothing to bind below it.
				continue
			}
			if fi.omitEmpty && fv.IsZero() {
				continue
			}
			out = append(out, Binding{Name: f.join(prefix, fi.name), Field: fi.name, Value: fv.Interface()})
		}
	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		out = make(Bindings, 0, len(keys))
		for _, k := range keys {
			name := k.String()
			out = append(out, Binding{Name: f.join(prefix, name), Field: name, Value: v.MapIndex(k).Interface()})
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotIntrospectable, v.Type())
	}

	return out, nil
}

// BindAll binds every arg in order and rejects names bound more than once.
func (f *Factory) BindAll(args ...Arg) (Bindings, error) {
	var out Bindings
	seen := make(map[string]struct{})
	for i, a := range args {
		bs, err := f.Bind(a)
		if err != nil {
			return nil, fmt.Errorf("arg %d (%s): %w", i, a.marker, err)
		}
		for _, b := range bs {
			if _, dup := seen[b.Name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, b.Name)
			}
			seen[b.Name] = struct{}{}
		}
		out = append(out, bs...)
	}
	return out, nil
}

func (f *Factory) join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + f.sep + name
}

////////////////////////////////////////////////////////////////////////////////

type fieldInfo struct {
	name      string
	index     []int
	omitEmpty bool
}

type typeInfo struct {
	fields []fieldInfo
}

func (f *Factory) typeInfo(t reflect.Type) (*typeInfo, error) {
	if cached, ok := f.types.Load(t); ok {
		return cached.(*typeInfo), nil
	}

	fields, err := f.collect(t, nil, "", map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(fields))
	for _, fi := range fields {
		if _, dup := seen[fi.name]; dup {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateName, fi.name, t)
		}
		seen[fi.name] = struct{}{}
	}

	info := &typeInfo{fields: fields}
	actual, loaded := f.types.LoadOrStore(t, info)
	if !loaded {
		f.logger.Debug("cached bind fields",
			zap.Stringer("type", t),
			zap.Int("fields", len(fields)),
		)
	}
	return actual.(*typeInfo), nil
}

// collect flattens the bindable fields of t. Nested non-leaf structs are
// joined with the separator; untagged embedded structs are promoted.
func (f *Factory) collect(t reflect.Type, index []int, path string, visiting map[reflect.Type]bool) ([]fieldInfo, error) {
	if visiting[t] {
		return nil, nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var out []fieldInfo

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft := sf.Type
		if sf.Anonymous {
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if !sf.IsExported() && ft.Kind() != reflect.Struct {
				continue
			}
		} else if !sf.IsExported() {
			continue
		}

		tag := f.lookupTag(sf)
		if tag == "-" {
			continue
		}
		name, opts := parseTag(tag)
		tagged := name != ""
		if !tagged {
			name = f.mapper(sf.Name)
		}
		if path != "" {
			name = path + f.sep + name
		}

		idx := make([]int, len(index)+1)
		copy(idx, index)
		idx[len(index)] = i

		if ft.Kind() == reflect.Struct && !isLeaf(ft) && !opts.Contains("leaf") {
			switch {
			case sf.Anonymous && !tagged:
				nested, err := f.collect(ft, idx, path, visiting)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
				continue
			case sf.Type.Kind() == reflect.Struct:
				nested, err := f.collect(ft, idx, name, visiting)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		out = append(out, fieldInfo{
			name:      name,
			index:     idx,
			omitEmpty: opts.Contains("omitempty"),
		})
	}

	return out, nil
}

func (f *Factory) lookupTag(sf reflect.StructField) string {
	for _, key := range f.tags {
		if tag, ok := sf.Tag.Lookup(key); ok {
			return tag
		}
	}
	return ""
}

////////////////////////////////////////////////////////////////////////////////

var (
	timeType    = reflect.TypeOf(time.Time{})
	ratType     = reflect.TypeOf(big.Rat{})
	valuerType  = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	encoderType = reflect.TypeOf((*spanner.Encoder)(nil)).Elem()
)

const (
	spannerPkg = "cloud.google.com/go/spanner"
	civilPkg   = "cloud.google.com/go/civil"
)

// isLeaf reports whether a struct type is bound as a single value.
func isLeaf(t reflect.Type) bool {
	switch t {
	case timeType, ratType:
		return true
	}
	switch t.PkgPath() {
	case spannerPkg, civilPkg:
		return true
	}
	pt := reflect.PointerTo(t)
	return t.Implements(valuerType) || pt.Implements(valuerType) ||
		t.Implements(encoderType) || pt.Implements(encoderType)
}

func indirect(v reflect.Value) (reflect.Value, error) {
	for {
		switch v.Kind() {
		case reflect.Invalid:
			return v, ErrNilValue
		case reflect.Pointer, reflect.Interface:
			if v.IsNil() {
				return v, ErrNilValue
			}
			v = v.Elem()
		default:
			return v, nil
		}
	}
}

// fieldByIndex walks index, stopping at nil embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// String describes the factory configuration for logs.
func (f *Factory) String() string {
	return fmt.Sprintf("bind.Factory(sep=%q, tags=%s)", f.sep, strings.Join(f.tags, ","))
}

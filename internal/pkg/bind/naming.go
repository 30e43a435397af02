package bind

import (
	"strings"
	"unicode"
)

// NameMapper converts a Go struct field name into a bind variable name.
type NameMapper func(field string) string

// SnakeCase maps Go field names to snake_case, keeping acronyms together:
// ProductID -> product_id, HTTPServer -> http_server.
func SnakeCase(field string) string {
	runes := []rune(field)
	var b strings.Builder
	b.Grow(len(field) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Identity keeps the Go field name unchanged.
func Identity(field string) string {
	return field
}

// tagOptions is the string following a comma in a struct field tag.
type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opt, _ := strings.Cut(tag, ",")
	return name, tagOptions(opt)
}

// Contains reports whether a comma-separated list of options contains name.
func (o tagOptions) Contains(name string) bool {
	s := string(o)
	for s != "" {
		var opt string
		opt, s, _ = strings.Cut(s, ",")
		if opt == name {
			return true
		}
	}
	return false
}

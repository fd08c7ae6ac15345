package markup

import (
	"fmt"
	"reflect"
	"strings"
)

var (
	whitespace = strings.NewReplacer("\t", "", "\r", "", "\n", "")
	escaper    = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// Template joins literals[0], values[0], literals[1], values[1], ... and
// removes every tab, carriage return and newline from the joined string.
// Values past len(literals)-1 are ignored and missing values render empty.
//
// A slice or array value renders as its elements concatenated without a
// separator. nil renders as "null", []byte as its string. Everything else
// uses fmt's %v.
func Template(literals []string, values ...any) string {
	var b strings.Builder
	for i, lit := range literals {
		b.WriteString(lit)
		if i < len(values) && i < len(literals)-1 {
			b.WriteString(formatValue(values[i]))
		}
	}
	return whitespace.Replace(b.String())
}

// Escape replaces & < > " ' with their HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

func formatValue(v any) string {
	rv := reflect.ValueOf(v)
	if !isList(rv) {
		return stringify(v)
	}
	var b strings.Builder
	for i := 0; i < rv.Len(); i++ {
		b.WriteString(stringifyElem(rv.Index(i).Interface()))
	}
	return b.String()
}

// stringifyElem renders a list element. Nested lists are comma separated.
func stringifyElem(v any) string {
	rv := reflect.ValueOf(v)
	if !isList(rv) {
		return stringify(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = stringifyElem(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case []byte:
		return string(v)
	}
	return fmt.Sprintf("%v", v)
}

func isList(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

package common

import (
	"reflect"
	"runtime"
	"strings"
	"unicode"
)

// PrivatePrefix marks a parameter name that is never exposed as a flag.
const PrivatePrefix = "_"

// FlagName converts an internal parameter name into its long flag spelling.
// Every run of word separators becomes a single hyphen.
func FlagName(name string) string {
	return "--" + strings.Join(splitWords(name), "-")
}

// IsPrivate reports whether name carries the private marker.
func IsPrivate(name string) bool {
	return strings.HasPrefix(name, PrivatePrefix)
}

func splitWords(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
}

// SnakeCase converts a Go identifier into the internal parameter naming
// convention, e.g. RetryCount -> retry_count and HTTPPort -> http_port.
func SnakeCase(ident string) string {
	runes := []rune(ident)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
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

// GetFieldTags retrieves the flag metadata declared on a struct field.
func GetFieldTags(field reflect.StructField) map[string]string {
	tags := make(map[string]string)
	for _, key := range []string{"flag", "alias", "short", "default", "desc"} {
		if val, ok := field.Tag.Lookup(key); ok {
			tags[key] = val
		}
	}
	return tags
}

// SplitList splits a comma separated tag value, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Indirect returns the struct type behind t and whether t was a pointer.
func Indirect(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		return t.Elem(), true
	}
	return t, false
}

// FuncName returns a printable name for a function value.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() {
		return "<nil>"
	}
	if v.Kind() == reflect.Func && !v.IsNil() {
		if f := runtime.FuncForPC(v.Pointer()); f != nil {
			return f.Name()
		}
	}
	return v.Type().String()
}

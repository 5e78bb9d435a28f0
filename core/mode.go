package core

import (
	"reflect"

	"github.com/chriso345/sigcli/internal/common"
)

// detectMode selects structured mode when the callable takes exactly one
// parameter whose type, or pointed-to type, is a struct embedding Namespace.
// It returns the target struct type and whether the parameter is a pointer.
func detectMode(ft reflect.Type) (Mode, reflect.Type, bool) {
	if ft.NumIn() != 1 {
		return FunctionMode, nil, false
	}
	t, isPtr := common.Indirect(ft.In(0))
	if t.Kind() != reflect.Struct || !IsNamespace(t) {
		return FunctionMode, nil, false
	}
	return StructuredMode, t, isPtr
}

// IsNamespace reports whether t is a struct that embeds the Namespace marker.
func IsNamespace(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		field := t.Field(i)
		if field.Anonymous && field.Type == namespaceType {
			return true
		}
	}
	return false
}

package core

import "reflect"

// These types are declarative markers consumed by reflection. Namespace is
// embedded in a struct to make it a structured-mode target; Optional and
// Kwargs shape individual parameters.

// === META TAGS ===

type Namespace struct{}

// Kwargs receives the keyword-only parameters of a function-mode callable.
// It must be the callable's last parameter.
type Kwargs map[string]any

// Defaulter is implemented by structured-mode targets that assign default
// field values on a freshly allocated instance.
type Defaulter interface {
	SetDefaults()
}

// === OPTIONAL ===

// Optional holds a value of type T or explicitly no value. A flag declared
// with an Optional type is never required; when the flag is omitted and no
// default exists the parameter receives the zero Optional.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// Get returns the held value and whether one is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

func (Optional[T]) optionalElem() reflect.Type {
	return reflect.TypeFor[T]()
}

type optionalMarker interface {
	optionalElem() reflect.Type
}

var (
	namespaceType      = reflect.TypeFor[Namespace]()
	kwargsType         = reflect.TypeFor[Kwargs]()
	optionalMarkerType = reflect.TypeFor[optionalMarker]()
	errorType          = reflect.TypeFor[error]()
)

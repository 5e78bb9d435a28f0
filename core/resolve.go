package core

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"

	"github.com/spf13/pflag"

	"github.com/chriso345/sigcli/errors"
)

var (
	stringType     = reflect.TypeFor[string]()
	durationType   = reflect.TypeFor[time.Duration]()
	pflagValueType = reflect.TypeFor[pflag.Value]()
)

// Resolution is the flag-level interpretation of a declared type.
type Resolution struct {
	// Base is the value type handed to the flag parser.
	Base     reflect.Type
	Toggle   bool
	Optional bool
	Aliases  []string
}

// Resolve interprets a declared type for the parameter named field:
//
//  1. alias annotations are recorded and the inner type is resolved;
//  2. a bool type is a toggle;
//  3. a *T or Optional[T] type is optional with base T;
//  4. any other type is used as the base verbatim.
//
// A type without a flag representation, including nested optionals such as
// **T, is rejected with an UnsupportedTypeError.
func Resolve(field string, ref TypeRef) (Resolution, error) {
	res := Resolution{Aliases: slices.Clone(ref.Aliases)}

	t := ref.Type
	if t == nil {
		res.Base = stringType
		return res, nil
	}

	if t.Kind() == reflect.Bool {
		res.Toggle = true
		res.Base = t
		return res, nil
	}

	if elem, ok := optionalElem(t); ok {
		if _, nested := optionalElem(elem); nested {
			return Resolution{}, errors.NewUnsupportedType(field, t.String())
		}
		res.Optional = true
		t = elem
	}

	if _, ok := storageType(t); !ok {
		return Resolution{}, errors.NewUnsupportedType(field, t.String())
	}
	res.Base = t
	return res, nil
}

// optionalElem returns T for the absence-union shapes *T and Optional[T].
func optionalElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		return t.Elem(), true
	}
	if t.Implements(optionalMarkerType) {
		return reflect.Zero(t).Interface().(optionalMarker).optionalElem(), true
	}
	return nil, false
}

// wrapOptional lifts v into the optional type t.
func wrapOptional(t reflect.Type, v reflect.Value) reflect.Value {
	if t.Kind() == reflect.Pointer {
		p := reflect.New(t.Elem())
		p.Elem().Set(v.Convert(t.Elem()))
		return p
	}
	o := reflect.New(t).Elem()
	value := o.FieldByName("Value")
	value.Set(v.Convert(value.Type()))
	o.FieldByName("Valid").SetBool(true)
	return o
}

// storageType returns the type the flag parser stores values of base in.
// Named types with a builtin kind are stored in that builtin and converted
// back when read.
func storageType(base reflect.Type) (reflect.Type, bool) {
	if base == durationType || reflect.PointerTo(base).Implements(pflagValueType) {
		return base, true
	}
	switch base.Kind() {
	case reflect.Bool:
		return reflect.TypeFor[bool](), true
	case reflect.String:
		return stringType, true
	case reflect.Int:
		return reflect.TypeFor[int](), true
	case reflect.Int8:
		return reflect.TypeFor[int8](), true
	case reflect.Int16:
		return reflect.TypeFor[int16](), true
	case reflect.Int32:
		return reflect.TypeFor[int32](), true
	case reflect.Int64:
		return reflect.TypeFor[int64](), true
	case reflect.Uint:
		return reflect.TypeFor[uint](), true
	case reflect.Uint8:
		return reflect.TypeFor[uint8](), true
	case reflect.Uint16:
		return reflect.TypeFor[uint16](), true
	case reflect.Uint32:
		return reflect.TypeFor[uint32](), true
	case reflect.Uint64:
		return reflect.TypeFor[uint64](), true
	case reflect.Float32:
		return reflect.TypeFor[float32](), true
	case reflect.Float64:
		return reflect.TypeFor[float64](), true
	}
	return nil, false
}

// convertValue converts v to the declared type t. Numeric conversions must
// round-trip exactly; nil is accepted for optional types only.
func convertValue(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if _, ok := optionalElem(t); ok {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", t)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}

	if elem, ok := optionalElem(t); ok {
		inner, err := convertValue(v, elem)
		if err != nil {
			return reflect.Value{}, err
		}
		return wrapOptional(t, inner), nil
	}

	if sameFamily(rv.Kind(), t.Kind()) && rv.Type().ConvertibleTo(t) {
		out := rv.Convert(t)
		if isNumeric(rv.Kind()) && !fits(rv, out) {
			return reflect.Value{}, fmt.Errorf("%v does not fit in %s", v, t)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), t)
}

// fits reports whether the numeric conversion from -> to kept the value.
// Float narrowing only has to stay in range; everything else must round-trip.
func fits(from, to reflect.Value) bool {
	if from.CanFloat() && to.CanFloat() {
		return !math.IsInf(to.Float(), 0) || math.IsInf(from.Float(), 0)
	}
	return to.Convert(from.Type()).Equal(from) && !signFlip(from, to)
}

// signFlip reports a negative number converted into an unsigned type.
func signFlip(from, to reflect.Value) bool {
	if !to.CanUint() {
		return false
	}
	switch {
	case from.CanInt():
		return from.Int() < 0
	case from.CanFloat():
		return from.Float() < 0
	}
	return false
}

func sameFamily(a, b reflect.Kind) bool {
	return a == b || (isNumeric(a) && isNumeric(b))
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

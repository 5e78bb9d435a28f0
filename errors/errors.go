package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ErrHelp is returned by Parse when the user asked for help. The help text has
// already been written by the time the caller sees it.
var ErrHelp = pflag.ErrHelp

// ErrVersion is returned by Parse when the user asked for the version string.
var ErrVersion = stderrors.New("version requested")

// IntrospectError reports that a callable could not be turned into a
// parameter list. It is a programming error, raised when the command is built.
type IntrospectError struct{ Func, Reason string }

func (e IntrospectError) Error() string {
	return fmt.Sprintf("cannot introspect %s: %s", e.Func, e.Reason)
}

// UnsupportedTypeError indicates a parameter or field whose declared type has
// no flag representation, such as a slice or a nested optional.
type UnsupportedTypeError struct{ Field, Type string }

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type for field %s: %s", e.Field, e.Type)
}

// AliasError indicates an alias spelling that cannot be registered.
type AliasError struct{ Field, Alias, Reason string }

func (e AliasError) Error() string {
	return fmt.Sprintf("invalid alias %q for field %s: %s", e.Alias, e.Field, e.Reason)
}

// DuplicateFlagError indicates two parameters that map onto the same flag.
type DuplicateFlagError struct {
	Flag   string
	Fields []string
}

func (e DuplicateFlagError) Error() string {
	return fmt.Sprintf("flag %s is declared by more than one field: %s", e.Flag, strings.Join(e.Fields, ", "))
}

// DefaultError indicates a default value that does not fit the declared type.
type DefaultError struct {
	Field string
	Err   error
}

func (e DefaultError) Error() string {
	return fmt.Sprintf("invalid default for field %s: %v", e.Field, e.Err)
}

func (e DefaultError) Unwrap() error { return e.Err }

// Helper constructors
func NewIntrospect(fn, reason string) error { return IntrospectError{Func: fn, Reason: reason} }
func NewUnsupportedType(field, typ string) error {
	return UnsupportedTypeError{Field: field, Type: typ}
}
func NewAlias(field, alias, reason string) error {
	return AliasError{Field: field, Alias: alias, Reason: reason}
}
func NewDuplicateFlag(flag string, fields ...string) error {
	return DuplicateFlagError{Flag: flag, Fields: fields}
}
func NewDefault(field string, err error) error { return DefaultError{Field: field, Err: err} }

package core

import (
	"reflect"
	"slices"
)

// Kind tells whether a parameter is passed positionally or by name.
type Kind int

const (
	Positional Kind = iota
	KeywordOnly
)

func (k Kind) String() string {
	if k == KeywordOnly {
		return "keyword-only"
	}
	return "positional"
}

// Mode is the invocation shape of a callable.
type Mode int

const (
	// FunctionMode maps every parameter onto its own flag.
	FunctionMode Mode = iota
	// StructuredMode maps the fields of the single Namespace parameter onto flags.
	StructuredMode
)

func (m Mode) String() string {
	if m == StructuredMode {
		return "structured"
	}
	return "function"
}

// TypeRef is a declared type together with its alias annotation.
// A nil Type means the declaration carried no type.
type TypeRef struct {
	Type    reflect.Type
	Aliases []string
}

// ParameterDescriptor describes one callable parameter or one structured field.
type ParameterDescriptor struct {
	Name       string
	Kind       Kind
	Type       reflect.Type
	HasDefault bool
	Default    any
	Aliases    []string
	Usage      string
	Private    bool

	// Index is the argument position in function mode and the struct field
	// index in structured mode. Keyword-only parameters use -1.
	Index int
}

// Ref returns the declared type and aliases as a TypeRef.
func (p ParameterDescriptor) Ref() TypeRef {
	return TypeRef{Type: p.Type, Aliases: p.Aliases}
}

// FlagSpec is the flag definition derived from one ParameterDescriptor.
type FlagSpec struct {
	Name         string
	FlagName     string
	Aliases      []string
	ValueType    reflect.Type
	DeclaredType reflect.Type
	Required     bool
	HasDefault   bool
	Default      any
	Toggle       bool
	Optional     bool
	Usage        string
}

// Plan is the immutable result of introspecting a callable.
type Plan struct {
	mode   Mode
	fn     reflect.Value
	params []ParameterDescriptor
	flags  []FlagSpec

	// structured mode
	target      reflect.Type
	targetIsPtr bool

	// function mode
	hasKwargs bool
}

// Mode returns the invocation shape selected for the callable.
func (p *Plan) Mode() Mode { return p.mode }

// Params returns a copy of the parameter descriptors in declaration order.
func (p *Plan) Params() []ParameterDescriptor { return slices.Clone(p.params) }

// Flags returns a copy of the flag definitions in registration order.
func (p *Plan) Flags() []FlagSpec { return slices.Clone(p.flags) }

// Target returns the structured-mode target type, or nil in function mode.
func (p *Plan) Target() reflect.Type { return p.target }

// Flag looks up a flag definition by its internal parameter name.
func (p *Plan) Flag(name string) (FlagSpec, bool) {
	for _, f := range p.flags {
		if f.Name == name {
			return f, true
		}
	}
	return FlagSpec{}, false
}

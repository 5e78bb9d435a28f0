package sigcli

import "github.com/chriso345/sigcli/core"

// Namespace is the marker for structured-mode targets.
//
// A callable that takes exactly one parameter whose type embeds Namespace
// gets one flag per exported field of that type instead of one flag per
// parameter. Field metadata is declared with struct tags:
//
//	flag:"name"      internal name, default is the snake_case field name; "-" skips the field
//	alias:"-v,--vv"  additional literal spellings
//	short:"v"        shorthand, same as alias:"-v"
//	default:"8080"   default value, parsed like a command-line value
//	desc:"..."       help text
//
// Usage:
//
//	type Server struct {
//		sigcli.Namespace
//
//		Host    string `desc:"Address to bind"`
//		Port    int    `default:"8080"`
//		Verbose bool   `short:"v"`
//		secret  string // unexported fields never become flags
//	}
//
// A type that implements SetDefaults may assign defaults in code instead;
// any field it leaves non-zero counts as having a default.
type Namespace = core.Namespace

// Optional is the explicit "value or nothing" parameter type. Optional flags
// are never required; when omitted without a default the parameter receives
// an Optional with Valid set to false. A pointer type *T behaves the same.
//
// Usage:
//
//	greet := func(name sigcli.Optional[string]) {
//		if n, ok := name.Get(); ok {
//			fmt.Println("Hello,", n)
//		}
//	}
type Optional[T any] = core.Optional[T]

// Kwargs collects keyword-only parameters declared with Keyword. It must be
// the callable's last parameter.
//
// Usage:
//
//	fetch := func(url string, kw sigcli.Kwargs) {
//		retries := kw["retries"].(int)
//		...
//	}
//
//	sigcli.New(fetch, sigcli.Params(
//		sigcli.Arg("url"),
//		sigcli.Keyword("retries", sigcli.Default(3)),
//	))
type Kwargs = core.Kwargs

// Defaulter is implemented by structured-mode targets that set default field
// values in code.
type Defaulter = core.Defaulter

type (
	// Command is a callable together with the parser derived from it.
	Command = core.Command
	// Invocation is a parsed command line ready to be dispatched.
	Invocation = core.Invocation
	// Plan is the immutable flag layout derived from a callable.
	Plan = core.Plan
	// FlagSpec is the definition of one generated flag.
	FlagSpec = core.FlagSpec
	// ParameterDescriptor describes one parameter or structured field.
	ParameterDescriptor = core.ParameterDescriptor
	// TypeRef is a declared type plus alias annotations.
	TypeRef = core.TypeRef
	// Resolution is the flag-level interpretation of a declared type.
	Resolution = core.Resolution

	Option      = core.Option
	Param       = core.Param
	ParamOption = core.ParamOption
	Mode        = core.Mode
	Kind        = core.Kind
)

const (
	FunctionMode   = core.FunctionMode
	StructuredMode = core.StructuredMode

	Positional  = core.Positional
	KeywordOnly = core.KeywordOnly
)

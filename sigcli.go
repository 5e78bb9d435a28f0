package sigcli

import (
	"github.com/chriso345/sigcli/core"
)

// New derives a command-line parser from the parameters of fn.
//
// In function mode every parameter of fn becomes a long flag. Go does not
// keep parameter names at runtime, so they are declared with Params, in
// signature order. Keyword-only parameters are declared with Keyword and
// delivered through a trailing Kwargs parameter.
//
// In structured mode fn takes a single struct, or struct pointer, that embeds
// Namespace; each exported field becomes a flag and no declarations are
// needed.
//
// Usage:
//
//	serve := func(host string, port int, verbose bool) error { ... }
//
//	cmd, err := sigcli.New(serve, sigcli.Params(
//		sigcli.Arg("host"),
//		sigcli.Arg("port", sigcli.Default(8080)),
//		sigcli.Arg("verbose", sigcli.Alias("-v")),
//	))
//	if err != nil {
//		log.Fatal(err)
//	}
//	cmd.Main() // --host example.org --port 9000 -v
//
// A flag is required when its parameter has no default, is not a bool and is
// not optional (*T or Optional[T]). Configuration mistakes, such as an
// unsupported parameter type or a clashing alias, are all returned by New.
var New = core.New

// Must panics if err is non-nil and returns c otherwise.
var Must = core.Must

// Run builds the command for fn and runs it against os.Args, exiting the
// process when done. It panics on a configuration error.
//
// Example:
//
//	type Options struct {
//		sigcli.Namespace
//		Host string `desc:"Address to bind"`
//		Port int    `default:"8080"`
//	}
//
//	func main() {
//		sigcli.Run(func(o Options) error { return serve(o) })
//	}
var Run = core.Run

// Resolve interprets a declared type the way New does for every parameter:
// bool types are toggles, *T and Optional[T] are optional with base type T,
// and anything else is passed to the flag parser verbatim.
var Resolve = core.Resolve

// IsNamespace reports whether t embeds the Namespace marker.
var IsNamespace = core.IsNamespace

// === OPTIONS ===

var (
	// WithName sets the program name shown in usage text.
	WithName = core.WithName
	// WithDescription sets the text printed below the usage line.
	WithDescription = core.WithDescription
	// WithVersion enables --version. An empty version is read from build info.
	WithVersion = core.WithVersion
	// WithOutput sets where help, version and usage text are written.
	WithOutput = core.WithOutput
	// WithErrOutput sets where parse errors and callable errors are written.
	WithErrOutput = core.WithErrOutput
	// WithLogger sets the hclog.Logger used while building and parsing.
	WithLogger = core.WithLogger

	// Params names the parameters of a function-mode callable.
	Params = core.Params
	// Defaults supplies defaults for trailing positional parameters.
	Defaults = core.Defaults
	// KeywordDefaults supplies defaults for keyword-only parameters by name.
	KeywordDefaults = core.KeywordDefaults
)

// === PARAMETERS ===

var (
	// Arg declares the next positional parameter.
	Arg = core.Arg
	// Keyword declares a keyword-only parameter delivered through Kwargs.
	Keyword = core.Keyword
	// Default sets a parameter's default value.
	Default = core.Default
	// Alias adds literal flag spellings such as "-v" or "--verb".
	Alias = core.Alias
	// Usage sets a parameter's help text.
	Usage = core.Usage
)

// Type declares the value type of a keyword-only parameter.
func Type[T any]() ParamOption { return core.Type[T]() }

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] { return core.Some(v) }

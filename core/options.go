package core

import (
	"io"
	"os"
	"reflect"

	"github.com/hashicorp/go-hclog"
)

type config struct {
	name        string
	description string
	version     string
	versionSet  bool
	out         io.Writer
	errOut      io.Writer
	logger      hclog.Logger

	params          []Param
	defaults        []any
	keywordDefaults map[string]any
}

func defaultConfig() *config {
	return &config{
		out:    os.Stdout,
		errOut: os.Stderr,
		logger: hclog.NewNullLogger(),
	}
}

// Option configures a Command.
type Option func(*config)

// WithName sets the program name shown in usage text. It defaults to the
// base name of os.Args[0].
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithDescription sets the text printed below the usage line.
func WithDescription(desc string) Option {
	return func(c *config) { c.description = desc }
}

// WithVersion enables the --version flag. An empty version is read from the
// main module's build info.
func WithVersion(version string) Option {
	return func(c *config) {
		c.version = version
		c.versionSet = true
	}
}

// WithOutput sets where help, version and usage text are written.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithErrOutput sets where parse errors and callable errors are written.
func WithErrOutput(w io.Writer) Option {
	return func(c *config) { c.errOut = w }
}

// WithLogger sets the logger used while building and invoking the command.
func WithLogger(l hclog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Params names the parameters of a function-mode callable. Positional
// parameters are listed with Arg in signature order; keyword-only parameters
// are listed with Keyword and collected into the callable's trailing Kwargs.
func Params(params ...Param) Option {
	return func(c *config) { c.params = append(c.params, params...) }
}

// Defaults supplies defaults for the trailing positional parameters, paired
// from the right: with parameters (a, b, c), Defaults(2, 3) defaults b and c.
func Defaults(values ...any) Option {
	return func(c *config) { c.defaults = values }
}

// KeywordDefaults supplies defaults for keyword-only parameters by name.
func KeywordDefaults(values map[string]any) Option {
	return func(c *config) {
		if c.keywordDefaults == nil {
			c.keywordDefaults = make(map[string]any, len(values))
		}
		for k, v := range values {
			c.keywordDefaults[k] = v
		}
	}
}

// Param is a named parameter declaration for function mode.
type Param struct {
	name       string
	kind       Kind
	typ        reflect.Type
	hasDefault bool
	def        any
	aliases    []string
	usage      string
}

// ParamOption configures a Param.
type ParamOption func(*Param)

// Arg declares the next positional parameter of the callable.
func Arg(name string, opts ...ParamOption) Param {
	p := Param{name: name, kind: Positional}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Keyword declares a keyword-only parameter, delivered through Kwargs.
func Keyword(name string, opts ...ParamOption) Param {
	p := Param{name: name, kind: KeywordOnly}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Default sets the parameter's default value.
func Default(v any) ParamOption {
	return func(p *Param) {
		p.hasDefault = true
		p.def = v
	}
}

// Alias adds literal flag spellings, such as "-v" or "--verb", accepted in
// addition to the derived long flag.
func Alias(spellings ...string) ParamOption {
	return func(p *Param) { p.aliases = append(p.aliases, spellings...) }
}

// Usage sets the help text of the flag.
func Usage(text string) ParamOption {
	return func(p *Param) { p.usage = text }
}

// Type declares the value type of a keyword-only parameter. Positional
// parameters take their type from the function signature and ignore it.
func Type[T any]() ParamOption {
	return func(p *Param) { p.typ = reflect.TypeFor[T]() }
}

// Package sigcli derives a command-line parser from the parameters of a Go
// function, or from the fields of a single structured parameter, so a
// program's entry point can be declared once as an ordinary function.
//
// Parameter names become long flags (retry_count becomes --retry-count),
// bool parameters become toggles, optional parameters (*T or Optional[T])
// and parameters with defaults become optional flags, and everything else is
// required. Tokenizing, value parsing, usage output and --help are handled
// by cobra and pflag; sigcli only configures them and relays the result.
package sigcli

//go:generate gomarkdoc ./ -o docs/sigcli.md

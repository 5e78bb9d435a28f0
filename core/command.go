package core

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/chriso345/sigcli/errors"
)

var osExit = os.Exit // Mockable for testing

// Command is a callable together with the flag parser derived from it.
type Command struct {
	plan *Plan
	cfg  *config
}

// New derives a command-line parser from fn. In structured mode fn takes a
// single struct (or struct pointer) embedding Namespace and needs no further
// declarations; in function mode its parameters are named with Params.
//
// Every configuration problem is reported here rather than at parse time.
func New(fn any, opts ...Option) (*Command, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.name == "" {
		cfg.name = filepath.Base(os.Args[0])
	}

	plan, err := buildPlan(fn, cfg)
	if err != nil {
		return nil, err
	}
	return &Command{plan: plan, cfg: cfg}, nil
}

// Must panics if err is non-nil and returns c otherwise.
func Must(c *Command, err error) *Command {
	if err != nil {
		panic(err)
	}
	return c
}

// Run builds the command for fn and runs it against the process arguments.
// A configuration error panics.
func Run(fn any, opts ...Option) {
	Must(New(fn, opts...)).Main()
}

// Plan returns the parse plan derived from the callable.
func (c *Command) Plan() *Plan { return c.plan }

// Main parses os.Args and calls the callable, then exits following the
// collaborator's convention: 0 after help or version output, 2 after a parse
// failure, 1 when the callable returns an error.
func (c *Command) Main() {
	inv, err := c.Parse(os.Args[1:])
	switch {
	case stderrors.Is(err, errors.ErrHelp), stderrors.Is(err, errors.ErrVersion):
		osExit(0)
		return
	case err != nil:
		// already reported together with the usage line
		osExit(2)
		return
	}

	if _, err := inv.Call(); err != nil {
		_, _ = fmt.Fprintln(c.cfg.errOut, color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
		osExit(1)
	}
}

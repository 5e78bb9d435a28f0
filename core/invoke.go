package core

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/chriso345/sigcli/display"
	"github.com/chriso345/sigcli/errors"
)

// Invocation is a parsed command line bound to the callable's arguments.
type Invocation struct {
	fn   reflect.Value
	args []reflect.Value
}

// Args returns the arguments the callable will receive, in call order.
func (inv *Invocation) Args() []any {
	out := make([]any, len(inv.args))
	for i, a := range inv.args {
		out[i] = a.Interface()
	}
	return out
}

// Call invokes the callable. A trailing error result is returned as the
// error; all other results are returned in order.
func (inv *Invocation) Call() ([]any, error) {
	out := inv.fn.Call(inv.args)

	var err error
	if n := len(out); n > 0 && inv.fn.Type().Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		out = out[:n-1]
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, err
}

// Parse parses args against a freshly configured collaborator and binds the
// result to the callable's parameters. Parse failures are returned exactly as
// the collaborator reports them, after it has printed usage. A help or
// version request returns errors.ErrHelp or errors.ErrVersion.
func (c *Command) Parse(args []string) (*Invocation, error) {
	parsed := false
	cmd := c.newCollaborator(func() { parsed = true })
	bindings := register(cmd, c.plan.flags, c.cfg.logger)

	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	if !parsed {
		if f := cmd.Flags().Lookup("version"); c.cfg.versionSet && f != nil && f.Changed {
			return nil, errors.ErrVersion
		}
		return nil, errors.ErrHelp
	}

	inv := &Invocation{fn: c.plan.fn}
	switch c.plan.mode {
	case StructuredMode:
		inv.args = []reflect.Value{c.bindStructured(bindings)}
	default:
		inv.args = c.bindFunction(bindings)
	}
	c.cfg.logger.Debug("parsed arguments", "mode", c.plan.mode, "flags", len(bindings))
	return inv, nil
}

// Call parses args and invokes the callable.
func (c *Command) Call(args []string) ([]any, error) {
	inv, err := c.Parse(args)
	if err != nil {
		return nil, err
	}
	return inv.Call()
}

// bindFunction lays out positional values by signature position and collects
// keyword-only values into the trailing Kwargs.
func (c *Command) bindFunction(bindings map[string]*binding) []reflect.Value {
	ft := c.plan.fn.Type()
	args := make([]reflect.Value, ft.NumIn())

	var kwargs Kwargs
	if c.plan.hasKwargs {
		kwargs = make(Kwargs)
		args[len(args)-1] = reflect.ValueOf(kwargs)
	}

	for _, d := range c.plan.params {
		v := paramValue(d, bindings)
		if d.Kind == KeywordOnly {
			kwargs[d.Name] = v.Interface()
			continue
		}
		args[d.Index] = v
	}
	return args
}

// bindStructured fills a fresh target instance from the parsed flags.
// Private fields keep whatever the instance was initialized with.
func (c *Command) bindStructured(bindings map[string]*binding) reflect.Value {
	ptr := newTarget(c.plan.target)
	for _, d := range c.plan.params {
		if b, ok := bindings[d.Name]; ok {
			ptr.Elem().Field(d.Index).Set(b.value())
		}
	}
	if c.plan.targetIsPtr {
		return ptr
	}
	return ptr.Elem()
}

// paramValue returns the value bound to d, or for a parameter without a flag
// its default or zero value.
func paramValue(d ParameterDescriptor, bindings map[string]*binding) reflect.Value {
	if b, ok := bindings[d.Name]; ok {
		return b.value()
	}
	t := d.Type
	if t == nil {
		t = stringType
	}
	if d.HasDefault && d.Default != nil {
		return reflect.ValueOf(d.Default)
	}
	return reflect.Zero(t)
}

// newCollaborator configures the cobra command that tokenizes and parses the
// arguments. run is called once parsing succeeded.
func (c *Command) newCollaborator(run func()) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.cfg.name,
		Short: c.cfg.description,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			run()
			return nil
		},
	}
	cmd.SetOut(c.cfg.out)
	cmd.SetErr(c.cfg.errOut)

	if c.cfg.versionSet {
		cmd.Version = display.BuildVersion(c.cfg.name, c.cfg.version)
		cmd.SetVersionTemplate("{{.Version}}\n")
	}

	cmd.SetHelpFunc(func(cc *cobra.Command, _ []string) {
		_, _ = fmt.Fprint(cc.OutOrStdout(), display.BuildHelp(c.helpInfo(cc)))
	})
	cmd.SetUsageFunc(func(cc *cobra.Command) error {
		_, err := fmt.Fprint(cc.OutOrStderr(), display.BuildUsage(c.helpInfo(cc)))
		return err
	})
	return cmd
}

// helpInfo describes the generated flags for the help screen.
func (c *Command) helpInfo(cmd *cobra.Command) display.Info {
	info := display.Info{
		Name:        c.cfg.name,
		Description: c.cfg.description,
		Version:     c.cfg.versionSet,
	}
	if f := cmd.Flags().Lookup("help"); f != nil {
		info.HelpShort = f.Shorthand
	}
	if f := cmd.Flags().Lookup("version"); f != nil {
		info.VersionShort = f.Shorthand
	}

	for _, spec := range c.plan.flags {
		f := display.Flag{
			Long:     long(spec),
			Usage:    spec.Usage,
			Required: spec.Required,
			Toggle:   spec.Toggle,
		}
		short, longs, _ := splitAliases(spec)
		f.Short = short
		for _, l := range longs {
			f.Aliases = append(f.Aliases, "--"+l)
		}
		if v, ok := defaultBase(spec); ok {
			f.Default = fmt.Sprint(v.Interface())
		}
		info.Flags = append(info.Flags, f)
	}
	return info
}

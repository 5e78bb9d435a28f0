package core

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chriso345/sigcli/errors"
	"github.com/chriso345/sigcli/internal/common"
)

// buildPlan introspects fn, selects its invocation mode and derives the flag
// definitions. Every configuration problem found is returned at once.
func buildPlan(fn any, cfg *config) (*Plan, error) {
	name := common.FuncName(fn)
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, errors.NewIntrospect(name, "not a function")
	}

	plan := &Plan{fn: fv}
	plan.mode, plan.target, plan.targetIsPtr = detectMode(fv.Type())
	cfg.logger.Debug("selected invocation mode", "func", name, "mode", plan.mode)

	var descs []ParameterDescriptor
	var err error
	switch plan.mode {
	case StructuredMode:
		if len(cfg.params) > 0 || len(cfg.defaults) > 0 || len(cfg.keywordDefaults) > 0 {
			return nil, errors.NewIntrospect(name,
				fmt.Sprintf("parameters of a %s callable come from its fields and cannot be declared", plan.target))
		}
		descs, err = introspectStruct(plan.target)
	default:
		descs, plan.hasKwargs, err = introspectFunc(fv, cfg)
	}

	var errs *multierror.Error
	if err != nil {
		if descs == nil {
			return nil, err
		}
		errs = multierror.Append(errs, err)
	}
	plan.params = descs

	for _, d := range descs {
		if d.Private {
			continue
		}
		res, err := Resolve(d.Name, d.Ref())
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		spec := newFlagSpec(d, res)
		if res.Toggle && d.HasDefault && d.Default != nil && !reflect.ValueOf(d.Default).IsZero() {
			cfg.logger.Warn("toggle flags default to false, ignoring declared default", "flag", spec.FlagName)
		}
		cfg.logger.Debug("derived flag",
			"flag", spec.FlagName,
			"aliases", spec.Aliases,
			"type", spec.ValueType.String(),
			"required", spec.Required,
			"toggle", spec.Toggle,
			"optional", spec.Optional)
		plan.flags = append(plan.flags, spec)
	}

	if err := validateFlags(plan.flags, builtinFlags(cfg)); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return plan, nil
}

// newFlagSpec derives the flag definition of one parameter. A flag is
// required only when it has no default and is neither a toggle nor optional.
func newFlagSpec(d ParameterDescriptor, res Resolution) FlagSpec {
	spec := FlagSpec{
		Name:         d.Name,
		FlagName:     common.FlagName(d.Name),
		Aliases:      res.Aliases,
		ValueType:    res.Base,
		DeclaredType: d.Type,
		Required:     !d.HasDefault && !res.Toggle && !res.Optional,
		HasDefault:   d.HasDefault,
		Default:      d.Default,
		Toggle:       res.Toggle,
		Optional:     res.Optional,
		Usage:        d.Usage,
	}
	if spec.DeclaredType == nil {
		spec.DeclaredType = res.Base
	}
	if spec.Toggle {
		spec.HasDefault = true
		spec.Default = reflect.Zero(spec.DeclaredType).Interface()
	}
	return spec
}

// splitAliases sorts alias spellings into the single pflag shorthand and the
// additional long names.
func splitAliases(spec FlagSpec) (string, []string, error) {
	var short string
	var longs []string
	for _, a := range spec.Aliases {
		switch {
		case strings.HasPrefix(a, "--") && len(a) > 2:
			name := a[2:]
			if name == long(spec) {
				return "", nil, errors.NewAlias(spec.Name, a, "repeats the flag name")
			}
			longs = append(longs, name)
		case len(a) == 2 && a[0] == '-' && a[1] != '-':
			if short != "" {
				return "", nil, errors.NewAlias(spec.Name, a, "only one single-letter alias is allowed, -"+short+" is already set")
			}
			short = a[1:]
		default:
			return "", nil, errors.NewAlias(spec.Name, a, "aliases must be spelled -x or --name")
		}
	}
	return short, longs, nil
}

func long(spec FlagSpec) string {
	return strings.TrimPrefix(spec.FlagName, "--")
}

// builtinFlags returns the long names the collaborator registers itself.
func builtinFlags(cfg *config) []string {
	names := []string{"help"}
	if cfg.versionSet {
		names = append(names, "version")
	}
	return names
}

// validateFlags rejects alias spellings the collaborator cannot register and
// parameters that collapse onto the same flag name, including the reserved
// built-in flags.
func validateFlags(specs []FlagSpec, reserved []string) error {
	var errs *multierror.Error

	owners := make(map[string]string, len(specs)+len(reserved))
	for _, name := range reserved {
		owners[name] = "built-in --" + name
	}
	for _, spec := range specs {
		name := long(spec)
		if owner, ok := owners[name]; ok {
			errs = multierror.Append(errs, errors.NewDuplicateFlag(spec.FlagName, owner, spec.Name))
			continue
		}
		owners[name] = spec.Name
	}

	shorts := make(map[string]string)
	for _, spec := range specs {
		short, longs, err := splitAliases(spec)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if short != "" {
			if owner, ok := shorts[short]; ok {
				errs = multierror.Append(errs, errors.NewAlias(spec.Name, "-"+short, "already used by "+owner))
			}
			shorts[short] = spec.Name
		}
		for _, l := range longs {
			if owner, ok := owners[l]; ok {
				errs = multierror.Append(errs, errors.NewAlias(spec.Name, "--"+l, "already used by "+owner))
				continue
			}
			owners[l] = spec.Name
		}
	}

	return errs.ErrorOrNil()
}

// binding ties one registered flag to the storage it parses into.
type binding struct {
	spec  FlagSpec
	store store
	flag  *pflag.Flag
}

// register defines every flag of specs on cmd. The specs must have passed
// validateFlags.
func register(cmd *cobra.Command, specs []FlagSpec, logger hclog.Logger) map[string]*binding {
	canonical := make(map[string]string)
	shorts := make(map[string]string, len(specs))
	for _, spec := range specs {
		short, longs, _ := splitAliases(spec)
		shorts[spec.Name] = short
		for _, l := range longs {
			canonical[l] = long(spec)
		}
	}

	// Long aliases resolve onto the canonical flag when names are normalized.
	cmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if c, ok := canonical[name]; ok {
			return pflag.NormalizedName(c)
		}
		return pflag.NormalizedName(name)
	})

	fs := cmd.Flags()
	bindings := make(map[string]*binding, len(specs))
	for _, spec := range specs {
		st := newStore(spec.ValueType)
		if v, ok := defaultBase(spec); ok {
			st.set(v)
		}

		flag := fs.VarPF(st.value, long(spec), shorts[spec.Name], spec.Usage)
		if spec.ValueType.Kind() == reflect.Bool {
			flag.NoOptDefVal = "true"
		}
		if spec.Required {
			_ = cmd.MarkFlagRequired(long(spec))
		}

		logger.Trace("registered flag", "flag", spec.FlagName, "shorthand", flag.Shorthand)

		bindings[spec.Name] = &binding{spec: spec, store: st, flag: flag}
	}
	return bindings
}

// defaultBase returns the default of spec as a base-typed value.
func defaultBase(spec FlagSpec) (reflect.Value, bool) {
	if !spec.HasDefault || spec.Default == nil || spec.Toggle {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(spec.Default)
	if !spec.Optional {
		return v, true
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		return v.Elem(), true
	}
	if !v.FieldByName("Valid").Bool() {
		return reflect.Value{}, false
	}
	return v.FieldByName("Value"), true
}

// value returns the parsed value converted to the parameter's declared type.
func (b *binding) value() reflect.Value {
	spec := b.spec
	if !spec.Optional {
		return b.store.get(spec.DeclaredType)
	}
	// The store already holds the default, if any, when the flag is omitted.
	if _, hasDefault := defaultBase(spec); b.flag.Changed || hasDefault {
		return wrapOptional(spec.DeclaredType, b.store.get(spec.ValueType))
	}
	return reflect.Zero(spec.DeclaredType)
}

// store is the collaborator-owned value a flag parses into.
type store struct {
	ptr   reflect.Value
	value pflag.Value
}

// newStore allocates storage for base and the pflag.Value that parses into
// it. Builtin kinds reuse pflag's own value parsers.
func newStore(base reflect.Type) store {
	st, _ := storageType(base)
	ptr := reflect.New(st)
	if v, ok := ptr.Interface().(pflag.Value); ok {
		return store{ptr: ptr, value: v}
	}

	fs := pflag.NewFlagSet("store", pflag.ContinueOnError)
	switch p := ptr.Interface().(type) {
	case *bool:
		fs.BoolVar(p, "value", *p, "")
	case *string:
		fs.StringVar(p, "value", *p, "")
	case *int:
		fs.IntVar(p, "value", *p, "")
	case *int8:
		fs.Int8Var(p, "value", *p, "")
	case *int16:
		fs.Int16Var(p, "value", *p, "")
	case *int32:
		fs.Int32Var(p, "value", *p, "")
	case *int64:
		fs.Int64Var(p, "value", *p, "")
	case *uint:
		fs.UintVar(p, "value", *p, "")
	case *uint8:
		fs.Uint8Var(p, "value", *p, "")
	case *uint16:
		fs.Uint16Var(p, "value", *p, "")
	case *uint32:
		fs.Uint32Var(p, "value", *p, "")
	case *uint64:
		fs.Uint64Var(p, "value", *p, "")
	case *float32:
		fs.Float32Var(p, "value", *p, "")
	case *float64:
		fs.Float64Var(p, "value", *p, "")
	case *time.Duration:
		fs.DurationVar(p, "value", *p, "")
	}
	return store{ptr: ptr, value: fs.Lookup("value").Value}
}

func (s store) get(t reflect.Type) reflect.Value {
	return s.ptr.Elem().Convert(t)
}

func (s store) set(v reflect.Value) {
	elem := s.ptr.Elem()
	elem.Set(v.Convert(elem.Type()))
}

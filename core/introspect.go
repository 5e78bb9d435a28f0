package core

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"

	"github.com/chriso345/sigcli/errors"
	"github.com/chriso345/sigcli/internal/common"
)

// introspectFunc builds the descriptor list of a function-mode callable from
// its signature and the declared Params. Positional descriptors come first in
// signature order, followed by keyword-only descriptors in declaration order.
func introspectFunc(fn reflect.Value, cfg *config) ([]ParameterDescriptor, bool, error) {
	name := common.FuncName(fn.Interface())
	ft := fn.Type()

	if ft.IsVariadic() {
		return nil, false, errors.NewIntrospect(name, "variadic functions are not supported")
	}

	arity := ft.NumIn()
	hasKwargs := arity > 0 && ft.In(arity-1) == kwargsType
	if hasKwargs {
		arity--
	}

	var positional, keyword []Param
	for _, p := range cfg.params {
		if p.kind == KeywordOnly {
			keyword = append(keyword, p)
		} else {
			positional = append(positional, p)
		}
	}

	if len(positional) != arity {
		return nil, false, errors.NewIntrospect(name,
			fmt.Sprintf("%d positional parameters declared, function takes %d", len(positional), arity))
	}
	if len(keyword) > 0 && !hasKwargs {
		return nil, false, errors.NewIntrospect(name, "keyword parameters declared but the function has no trailing Kwargs parameter")
	}
	if len(cfg.defaults) > len(positional) {
		return nil, false, errors.NewIntrospect(name,
			fmt.Sprintf("%d positional defaults for %d positional parameters", len(cfg.defaults), len(positional)))
	}

	seen := make(map[string]bool, len(cfg.params))
	for _, p := range cfg.params {
		if p.name == "" {
			return nil, false, errors.NewIntrospect(name, "parameter with empty name")
		}
		if !common.IsPrivate(p.name) && common.FlagName(p.name) == "--" {
			return nil, false, errors.NewIntrospect(name, fmt.Sprintf("parameter %q has no flag name", p.name))
		}
		if seen[p.name] {
			return nil, false, errors.NewIntrospect(name, fmt.Sprintf("parameter %q declared twice", p.name))
		}
		seen[p.name] = true
	}
	for k := range cfg.keywordDefaults {
		if !seen[k] || paramKind(cfg.params, k) != KeywordOnly {
			return nil, false, errors.NewIntrospect(name, fmt.Sprintf("keyword default for unknown keyword parameter %q", k))
		}
	}

	// Shared positional defaults pair with the trailing parameters.
	shared := make(map[string]any, len(cfg.defaults))
	offset := len(positional) - len(cfg.defaults)
	for i, v := range cfg.defaults {
		shared[positional[offset+i].name] = v
	}

	var errs *multierror.Error
	descs := make([]ParameterDescriptor, 0, len(cfg.params))

	for i, p := range positional {
		d := ParameterDescriptor{
			Name:    p.name,
			Kind:    Positional,
			Type:    ft.In(i),
			Aliases: p.aliases,
			Usage:   p.usage,
			Private: common.IsPrivate(p.name),
			Index:   i,
		}
		if v, ok := shared[p.name]; ok {
			d.HasDefault, d.Default = true, v
		}
		if p.hasDefault {
			d.HasDefault, d.Default = true, p.def
		}
		if err := normalizeDefault(&d); err != nil {
			errs = multierror.Append(errs, err)
		}
		descs = append(descs, d)
	}

	for _, p := range keyword {
		d := ParameterDescriptor{
			Name:    p.name,
			Kind:    KeywordOnly,
			Type:    p.typ,
			Aliases: p.aliases,
			Usage:   p.usage,
			Private: common.IsPrivate(p.name),
			Index:   -1,
		}
		if v, ok := cfg.keywordDefaults[p.name]; ok {
			d.HasDefault, d.Default = true, v
		}
		if p.hasDefault {
			d.HasDefault, d.Default = true, p.def
		}
		if d.Type == nil && d.HasDefault && d.Default != nil {
			d.Type = reflect.TypeOf(d.Default)
		}
		if err := normalizeDefault(&d); err != nil {
			errs = multierror.Append(errs, err)
		}
		descs = append(descs, d)
	}

	return descs, hasKwargs, errs.ErrorOrNil()
}

func paramKind(params []Param, name string) Kind {
	for _, p := range params {
		if p.name == name {
			return p.kind
		}
	}
	return Positional
}

// introspectStruct builds one descriptor per exported field of a structured
// target. Defaults come from the `default` tag or, failing that, from the
// value a fresh instance holds after its SetDefaults hook.
func introspectStruct(target reflect.Type) ([]ParameterDescriptor, error) {
	proto := newTarget(target).Elem()

	var errs *multierror.Error
	var descs []ParameterDescriptor

	for i := range target.NumField() {
		field := target.Field(i)
		if field.Anonymous {
			continue
		}

		tags := common.GetFieldTags(field)
		if tags["flag"] == "-" {
			continue
		}

		name := tags["flag"]
		if name == "" {
			name = common.SnakeCase(field.Name)
		}

		d := ParameterDescriptor{
			Name:    name,
			Kind:    KeywordOnly,
			Type:    field.Type,
			Usage:   tags["desc"],
			Private: !field.IsExported() || common.IsPrivate(name),
			Index:   i,
		}
		if short := tags["short"]; short != "" {
			d.Aliases = append(d.Aliases, "-"+short)
		}
		d.Aliases = append(d.Aliases, common.SplitList(tags["alias"])...)

		if raw, ok := tags["default"]; ok && !d.Private {
			v, ok, err := parseDefault(d, raw)
			if err != nil {
				errs = multierror.Append(errs, err)
			}
			d.HasDefault, d.Default = ok, v
		} else if fv := proto.Field(i); field.IsExported() && !fv.IsZero() {
			d.HasDefault, d.Default = true, fv.Interface()
		}

		descs = append(descs, d)
	}

	return descs, errs.ErrorOrNil()
}

// newTarget allocates a structured-mode target and applies its defaults hook.
func newTarget(target reflect.Type) reflect.Value {
	ptr := reflect.New(target)
	if d, ok := ptr.Interface().(Defaulter); ok {
		d.SetDefaults()
	}
	return ptr
}

// parseDefault converts a `default` tag through the same value parser the
// flag itself uses.
func parseDefault(d ParameterDescriptor, raw string) (any, bool, error) {
	res, err := Resolve(d.Name, d.Ref())
	if err != nil {
		// reported when the flag is built
		return nil, false, nil
	}
	st := newStore(res.Base)
	if err := st.value.Set(raw); err != nil {
		return nil, false, errors.NewDefault(d.Name, err)
	}
	v := st.get(res.Base)
	if res.Optional {
		v = wrapOptional(d.Type, v)
	}
	return v.Interface(), true, nil
}

// normalizeDefault converts a descriptor's default to its declared type.
func normalizeDefault(d *ParameterDescriptor) error {
	if !d.HasDefault || d.Type == nil {
		return nil
	}
	v, err := convertValue(d.Default, d.Type)
	if err != nil {
		return errors.NewDefault(d.Name, err)
	}
	d.Default = v.Interface()
	return nil
}

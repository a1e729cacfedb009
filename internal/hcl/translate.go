package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/parser"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateSystem converts the HCL system schema into the agnostic model.
func translateSystem(file string, b *systemBlock) (*config.System, error) {
	bindings, err := decodeBindings(b.Bindings)
	if err != nil {
		return nil, fmt.Errorf("system %q in %s: %w", b.Name, file, err)
	}
	return &config.System{
		Name:        b.Name,
		Description: b.Description,
		Source:      file,
		Equations:   b.Equations,
		Bindings:    bindings,
	}, nil
}

// decodeBindings evaluates the `bindings` object. Numbers (or strings that
// convert to numbers) become values and null marks a variable as unset.
func decodeBindings(expr hcl.Expression) (map[string]*float64, error) {
	out := make(map[string]*float64)
	if expr == nil {
		return out, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate bindings: %w", diags)
	}
	if val.IsNull() {
		return out, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("bindings must be an object, got %s", val.Type().FriendlyName())
	}

	for name, v := range val.AsValueMap() {
		if !parser.IsSymbol(name) {
			return nil, fmt.Errorf("binding %q is not a valid symbol name", name)
		}
		f, err := decodeNumber(v)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		out[name] = f
	}
	return out, nil
}

func decodeNumber(v cty.Value) (*float64, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	num, err := convert.Convert(v, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to number: %w", v.Type().FriendlyName(), err)
	}
	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

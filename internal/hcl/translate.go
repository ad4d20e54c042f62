package hcl

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/buildgridgo/internal/config"
	"github.com/vk/buildgridgo/internal/ref"
	"github.com/vk/buildgridgo/internal/schema"
)

// translateTarget converts the HCL-specific target schema into the agnostic
// model, evaluating and converting its attribute expressions.
func (l *Loader) translateTarget(file string, src *schema.Target) (*config.Target, error) {
	if !ref.ValidName(src.Kind) {
		return nil, fmt.Errorf("%s: target kind %q is not a valid label", file, src.Kind)
	}
	if !ref.ValidName(src.Name) {
		return nil, fmt.Errorf("%s: target name %q is not a valid label", file, src.Name)
	}

	target := &config.Target{
		Kind:        src.Kind,
		Name:        src.Name,
		Description: src.Description,
	}

	if err := decodeExpression(src.Sources, &target.Sources); err != nil {
		return nil, fmt.Errorf("%s: target %q: attribute %q: %w", file, src.Name, "sources", err)
	}
	if exprDefined(src.Deps) {
		if err := decodeExpression(src.Deps, &target.Deps); err != nil {
			return nil, fmt.Errorf("%s: target %q: attribute %q: %w", file, src.Name, "deps", err)
		}
	}
	if exprDefined(src.AllowEmpty) {
		if err := decodeExpression(src.AllowEmpty, &target.AllowEmpty); err != nil {
			return nil, fmt.Errorf("%s: target %q: attribute %q: %w", file, src.Name, "allow_empty", err)
		}
	}

	return target, nil
}

// exprDefined reports whether an optional attribute was actually present in
// the source. The decoder populates omitted optional expressions with
// zero-width placeholder ranges rather than leaving them nil, so a plain nil
// check is insufficient.
func exprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// decodeExpression evaluates a manifest expression and decodes the result
// into the Go value behind ptr, converting between compatible types where
// possible. Manifest expressions are static: no variables or functions are in
// scope, so anything that needs an EvalContext fails here.
func decodeExpression(expr hcl.Expression, ptr any) error {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}

	impliedType, err := gocty.ImpliedType(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return gocty.FromCtyValue(val, ptr)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w",
			val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	return gocty.FromCtyValue(converted, ptr)
}

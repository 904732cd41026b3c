package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ExprAsSymbol reads an expression that names a symbol. A bare keyword
// (`in_processes`) is taken literally without evaluation; anything else must
// evaluate to a string.
func ExprAsSymbol(expr hcl.Expression, evalCtx *hcl.EvalContext) (string, hcl.Diagnostics) {
	// true, false and null are literals, not keywords.
	if _, literal := expr.(*hclsyntax.LiteralValueExpr); !literal {
		if kw := hcl.ExprAsKeyword(expr); kw != "" {
			return kw, nil
		}
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid symbol",
			Detail:   fmt.Sprintf("Expected a bare keyword or a string, got %s.", friendlyName(val)),
			Subject:  expr.Range().Ptr(),
		})
		return "", diags
	}
	return val.AsString(), diags
}

func friendlyName(val cty.Value) string {
	if val.IsNull() {
		return "null"
	}
	return val.Type().FriendlyName()
}

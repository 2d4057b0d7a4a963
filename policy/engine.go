// Package policy evaluates whether business operations are permitted.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/kohara42/supportdesk/domain"
)

// Engine is the OPA policy engine for cancellation decisions.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.cancel_policy.decision"),
		rego.Module("cancel_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// CanCancel reports whether an order in the given status may be
// cancelled. Returns the decision and a human-readable reason when the
// cancellation is denied.
func (e *Engine) CanCancel(ctx context.Context, orderNumber string, status domain.OrderStatus) (bool, string, error) {
	input := map[string]interface{}{
		"order_number": orderNumber,
		"status":       string(status),
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result means the
		// module is malformed.
		return false, "", fmt.Errorf("cancel policy returned no decision")
	}

	decision, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return false, "", fmt.Errorf("cancel policy returned unexpected type %T", results[0].Expressions[0].Value)
	}

	switch decision {
	case "allow":
		return true, "", nil
	case "deny_delivered":
		return false, "already delivered", nil
	case "deny_cancelled":
		return false, "already cancelled", nil
	default:
		return false, decision, nil
	}
}

// DefaultPolicy is the default cancellation policy content.
const DefaultPolicy = `
package cancel_policy

default decision := "allow"

decision := "deny_delivered" if input.status == "Delivered"

decision := "deny_cancelled" if input.status == "Cancelled"
`

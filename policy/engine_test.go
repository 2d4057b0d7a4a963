package policy

import (
	"context"
	"testing"

	"github.com/kohara42/supportdesk/domain"
)

func TestDefaultPolicyDecisions(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	cases := []struct {
		status domain.OrderStatus
		allow  bool
	}{
		{domain.OrderStatusInTransit, true},
		{domain.OrderStatusOutForDelivery, true},
		{domain.OrderStatusProcessing, true},
		{domain.OrderStatusDelivered, false},
		{domain.OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		allow, reason, err := engine.CanCancel(ctx, "ORD12345", tc.status)
		if err != nil {
			t.Fatalf("CanCancel(%s) failed: %v", tc.status, err)
		}
		if allow != tc.allow {
			t.Fatalf("CanCancel(%s) = %v, want %v", tc.status, allow, tc.allow)
		}
		if !allow && reason == "" {
			t.Fatalf("denied cancellation for %s must carry a reason", tc.status)
		}
	}
}

func TestNewEngineRejectsBrokenPolicy(t *testing.T) {
	if _, err := NewEngine(context.Background(), "not rego at all {{{"); err == nil {
		t.Fatalf("expected error for malformed policy")
	}
}

package orders

import (
	"context"
	"testing"

	"github.com/kohara42/supportdesk/domain"
	"github.com/kohara42/supportdesk/store"
)

func TestSyntheticLookupStable(t *testing.T) {
	ctx := context.Background()
	lookup := NewSyntheticLookup()

	first, err := lookup.Status(ctx, "ORD12345")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	second, err := lookup.Status(ctx, "ORD12345")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if *first != *second {
		t.Fatalf("synthetic lookup not stable: %+v vs %+v", first, second)
	}
	if first.OrderNumber != "ORD12345" || first.Status == "" {
		t.Fatalf("unexpected info: %+v", first)
	}
}

func TestDescribeFields(t *testing.T) {
	delivered := Describe("ORD1", domain.OrderStatusDelivered)
	if delivered.ExpectedDelivery != "Delivered" || delivered.Location != "Customer address" {
		t.Fatalf("unexpected delivered info: %+v", delivered)
	}

	transit := Describe("ORD2", domain.OrderStatusInTransit)
	if transit.ExpectedDelivery != "Tomorrow" || transit.Location != "City warehouse" {
		t.Fatalf("unexpected in-transit info: %+v", transit)
	}
}

func TestStoreLookup(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if err := s.UpsertOrder(ctx, "ORD-2024-001", domain.OrderStatusInTransit); err != nil {
		t.Fatalf("UpsertOrder failed: %v", err)
	}

	lookup := NewStoreLookup(s)
	info, err := lookup.Status(ctx, "ORD-2024-001")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if info == nil || info.Status != domain.OrderStatusInTransit {
		t.Fatalf("unexpected info: %+v", info)
	}

	missing, err := lookup.Status(ctx, "ORD-9999-999")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("unknown order should return nil, got %+v", missing)
	}
}

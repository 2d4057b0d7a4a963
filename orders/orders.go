// Package orders provides the order status lookup capability.
package orders

import (
	"context"
	"hash/fnv"

	"github.com/kohara42/supportdesk/domain"
	"github.com/kohara42/supportdesk/store"
)

// Lookup resolves an order number to its current status view.
// A nil OrderInfo with a nil error means the order is unknown; that is
// a conversational outcome, not a failure.
type Lookup interface {
	Status(ctx context.Context, orderNumber string) (*domain.OrderInfo, error)
}

// SyntheticLookup derives a stable status from the order number alone.
// It stands in for a fulfillment backend and never misses.
type SyntheticLookup struct{}

// NewSyntheticLookup creates a synthetic order lookup.
func NewSyntheticLookup() *SyntheticLookup {
	return &SyntheticLookup{}
}

// Ensure implementations satisfy the interface.
var (
	_ Lookup = (*SyntheticLookup)(nil)
	_ Lookup = (*StoreLookup)(nil)
)

var syntheticStatuses = []domain.OrderStatus{
	domain.OrderStatusOutForDelivery,
	domain.OrderStatusInTransit,
	domain.OrderStatusDelivered,
}

// Status synthesizes order details deterministically from the order number.
func (l *SyntheticLookup) Status(ctx context.Context, orderNumber string) (*domain.OrderInfo, error) {
	h := fnv.New32a()
	h.Write([]byte(orderNumber))
	status := syntheticStatuses[h.Sum32()%uint32(len(syntheticStatuses))]
	return Describe(orderNumber, status), nil
}

// StoreLookup resolves order status from the backing store.
type StoreLookup struct {
	store store.Store
}

// NewStoreLookup creates a store-backed order lookup.
func NewStoreLookup(s store.Store) *StoreLookup {
	return &StoreLookup{store: s}
}

// Status reads the order from the store. Unknown orders return (nil, nil).
func (l *StoreLookup) Status(ctx context.Context, orderNumber string) (*domain.OrderInfo, error) {
	info, err := l.store.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	return Describe(info.OrderNumber, info.Status), nil
}

// Describe fills in the delivery estimate and location for a status.
func Describe(orderNumber string, status domain.OrderStatus) *domain.OrderInfo {
	info := &domain.OrderInfo{
		OrderNumber: orderNumber,
		Status:      status,
	}
	switch status {
	case domain.OrderStatusDelivered:
		info.ExpectedDelivery = "Delivered"
		info.Location = "Customer address"
	case domain.OrderStatusCancelled:
		info.ExpectedDelivery = "Cancelled"
		info.Location = "Returned to warehouse"
	default:
		info.ExpectedDelivery = "Tomorrow"
		info.Location = "City warehouse"
	}
	return info
}

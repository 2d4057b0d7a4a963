package domain

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// OrderStatus represents the fulfillment status of an order.
type OrderStatus string

const (
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusOutForDelivery OrderStatus = "Out for delivery"
	OrderStatusInTransit      OrderStatus = "In transit"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// FlowKind identifies the pending multi-turn flow of a session.
type FlowKind string

const (
	FlowNone              FlowKind = "NONE"
	FlowAwaitingOrderID   FlowKind = "AWAITING_ORDER_ID"
	FlowAwaitingRefund    FlowKind = "AWAITING_REFUND_REASON"
	FlowAwaitingCancelAck FlowKind = "AWAITING_CANCEL_CONFIRMATION"
)

// RoutingPolicy selects the top-level turn routing strategy.
type RoutingPolicy string

const (
	// RoutingKeyword routes neutral turns through the fixed keyword rules;
	// the classifier is consulted only to enrich the message log.
	RoutingKeyword RoutingPolicy = "keyword"

	// RoutingClassifier gates neutral turns on the classifier: below the
	// confidence threshold the turn gets a fallback response.
	RoutingClassifier RoutingPolicy = "classifier"
)

// Entity kinds produced by the extractor.
const (
	EntityOrderNumber = "order_number"
	EntityEmail       = "email"
	EntityPhone       = "phone"
)

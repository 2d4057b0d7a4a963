package dialog

import (
	"context"
	"regexp"
	"strings"

	"github.com/kohara42/supportdesk/classifier"
	"github.com/kohara42/supportdesk/domain"
	"github.com/kohara42/supportdesk/extract"
	"github.com/kohara42/supportdesk/orders"
)

// CancelPolicy decides whether an order may be cancelled.
type CancelPolicy interface {
	CanCancel(ctx context.Context, orderNumber string, status domain.OrderStatus) (bool, string, error)
}

// Decision is the outcome of one turn: the reply to send, the updated
// dialogue state, and the classifier's view of the turn when it was
// consulted.
type Decision struct {
	Reply string
	State State

	// Intent and Confidence are set only when the classifier ran.
	Intent     string
	Confidence *float64

	// IntentTrusted reports whether Confidence met the threshold.
	IntentTrusted bool
}

// Controller turns (state, user text) into (reply, next state). It is
// stateless itself and safe for concurrent use across sessions; callers
// serialize turns within a session.
type Controller struct {
	orders     orders.Lookup
	policy     CancelPolicy
	classifier classifier.Classifier
	routing    domain.RoutingPolicy
	threshold  float64
	picker     Picker
}

// Option configures a Controller.
type Option func(*Controller)

// WithClassifier attaches an intent classifier. Under keyword routing it
// enriches turns with an intent label; under classifier routing it gates
// keyword dispatch behind the confidence threshold.
func WithClassifier(c classifier.Classifier, routing domain.RoutingPolicy, threshold float64) Option {
	return func(ctrl *Controller) {
		ctrl.classifier = c
		ctrl.routing = routing
		ctrl.threshold = threshold
	}
}

// WithPicker overrides the fallback variant picker.
func WithPicker(p Picker) Option {
	return func(ctrl *Controller) {
		ctrl.picker = p
	}
}

// NewController creates a dialogue controller.
func NewController(lookup orders.Lookup, policy CancelPolicy, opts ...Option) *Controller {
	ctrl := &Controller{
		orders:    lookup,
		policy:    policy,
		routing:   domain.RoutingKeyword,
		threshold: 0.5,
		picker:    globalRand{},
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

var greetPattern = regexp.MustCompile(`\b(?:hi|hello)\b`)

// Decide processes one user turn. Rules are checked in strict priority
// order; the first match consumes the turn:
//
//  1. pending cancel confirmation
//  2. undo with a backup present
//  3. pending order ID prompt
//  4. pending refund reason prompt
//  5. keyword or classifier routing
//
// The input state is not mutated; the updated state is returned in the
// Decision. Only infrastructure failures surface as errors; business
// outcomes such as unknown orders or denied cancellations are replies.
func (c *Controller) Decide(ctx context.Context, state State, text string) (*Decision, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if state.Flow == domain.FlowAwaitingCancelAck {
		return c.resolveCancelAck(ctx, state, lower)
	}

	if strings.Contains(lower, "undo") && state.Snapshot.UndoBackup != "" {
		restored := state.Snapshot.UndoBackup
		state.Snapshot.OrderNumber = restored
		state.Snapshot.Status = domain.OrderStatusInTransit
		state.Snapshot.UndoBackup = ""
		return &Decision{Reply: undone(restored), State: state}, nil
	}

	if state.Flow == domain.FlowAwaitingOrderID {
		return c.resolveOrderID(ctx, state, text)
	}

	if state.Flow == domain.FlowAwaitingRefund {
		state.clearFlow()
		return &Decision{Reply: refundSubmitted, State: state}, nil
	}

	return c.routeNeutral(ctx, state, text, lower)
}

func (c *Controller) resolveCancelAck(ctx context.Context, state State, lower string) (*Decision, error) {
	switch lower {
	case "yes", "y":
		order := state.CancelOrder
		allow, reason, err := c.policy.CanCancel(ctx, order, state.Snapshot.Status)
		if err != nil {
			return nil, err
		}
		state.clearFlow()
		if !allow {
			return &Decision{Reply: cannotCancel(order, reason), State: state}, nil
		}
		state.Snapshot.UndoBackup = order
		state.Snapshot.OrderNumber = ""
		state.Snapshot.Status = ""
		return &Decision{Reply: cancelled(order), State: state}, nil
	case "no", "n":
		state.clearFlow()
		return &Decision{Reply: cancelAborted, State: state}, nil
	default:
		return &Decision{Reply: yesNoPrompt, State: state}, nil
	}
}

func (c *Controller) resolveOrderID(ctx context.Context, state State, text string) (*Decision, error) {
	orderNumber := extract.OrderNumber(text)
	if orderNumber == "" {
		return &Decision{Reply: invalidOrderID, State: state}, nil
	}

	info, err := c.orders.Status(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if info == nil {
		// Keep the prompt pending so the user can retry.
		return &Decision{Reply: orderNotFound(orderNumber), State: state}, nil
	}

	state.Snapshot.OrderNumber = info.OrderNumber
	state.Snapshot.Status = info.Status
	state.clearFlow()
	return &Decision{Reply: orderDetails(info), State: state}, nil
}

func (c *Controller) routeNeutral(ctx context.Context, state State, text, lower string) (*Decision, error) {
	d := &Decision{State: state}

	if c.classifier != nil {
		pred, err := c.classifier.Classify(ctx, text)
		if err != nil {
			return nil, err
		}
		conf := pred.Confidence
		d.Intent = pred.Label
		d.Confidence = &conf
		d.IntentTrusted = conf >= c.threshold

		if c.routing == domain.RoutingClassifier && !d.IntentTrusted {
			d.Reply = fallbackVariants[c.picker.Intn(len(fallbackVariants))]
			return d, nil
		}
	}

	c.routeKeywords(d, lower)
	return d, nil
}

// routeKeywords dispatches a neutral turn on keyword matches, checked in
// a fixed order so that "cancel my order" hits cancellation, not status.
func (c *Controller) routeKeywords(d *Decision, lower string) {
	switch {
	case strings.Contains(lower, "cancel"):
		if d.State.Snapshot.OrderNumber == "" {
			d.State.Flow = domain.FlowAwaitingOrderID
			d.Reply = cancelOrderIDPrompt
			return
		}
		d.State.Flow = domain.FlowAwaitingCancelAck
		d.State.CancelOrder = d.State.Snapshot.OrderNumber
		d.Reply = confirmCancel(d.State.CancelOrder)

	case strings.Contains(lower, "order"),
		strings.Contains(lower, "delivery"),
		strings.Contains(lower, "where is"):
		d.State.Flow = domain.FlowAwaitingOrderID
		d.Reply = orderIDPrompt

	case strings.Contains(lower, "refund"),
		strings.Contains(lower, "money back"):
		d.State.Flow = domain.FlowAwaitingRefund
		d.Reply = refundPrompt

	case greetPattern.MatchString(lower):
		if d.State.Greeted {
			d.Reply = shortGreeting
			return
		}
		d.State.Greeted = true
		d.Reply = menuGreeting

	case strings.Contains(lower, "human"),
		strings.Contains(lower, "agent"):
		d.Reply = humanHandoff

	case strings.Contains(lower, "undo"):
		// Undo with no backup to restore.
		d.Reply = nothingToUndo

	default:
		d.Reply = helpFallback
	}
}

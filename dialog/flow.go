// Package dialog implements the per-session conversation state machine.
package dialog

import "github.com/kohara42/supportdesk/domain"

// OrderSnapshot is the last order discussed in the session, plus a
// one-slot undo backup holding the most recently cancelled order.
// A second cancellation without an intervening undo overwrites the
// backup (last-cancel-wins).
type OrderSnapshot struct {
	OrderNumber string             `json:"order_number,omitempty"`
	Status      domain.OrderStatus `json:"status,omitempty"`
	UndoBackup  string             `json:"undo_backup,omitempty"`
}

// State is the transient dialogue state of one session. It is held only
// in the live session context, never persisted in the message log, and
// resets on rehydration.
type State struct {
	// Flow is the pending multi-turn flow. At most one flow is
	// pending at a time; entering a new flow discards the previous one.
	Flow domain.FlowKind `json:"flow"`

	// CancelOrder is the order under confirmation while Flow is
	// FlowAwaitingCancelAck.
	CancelOrder string `json:"cancel_order,omitempty"`

	// Snapshot tracks the current order and the undo backup.
	Snapshot OrderSnapshot `json:"snapshot"`

	// Greeted records whether the expanded menu greeting was shown.
	Greeted bool `json:"greeted"`
}

// NewState returns the neutral dialogue state.
func NewState() State {
	return State{Flow: domain.FlowNone}
}

// clearFlow returns to the neutral state without touching the snapshot.
func (s *State) clearFlow() {
	s.Flow = domain.FlowNone
	s.CancelOrder = ""
}

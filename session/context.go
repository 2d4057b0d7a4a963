// Package session holds the live per-session conversation context and
// serializes turn processing within a session.
package session

import (
	"time"

	"github.com/kohara42/supportdesk/dialog"
	"github.com/kohara42/supportdesk/domain"
	"github.com/kohara42/supportdesk/extract"
)

// Context is the in-memory view of one conversation. Dialogue state is
// transient; entities, intent, and message counters are rebuilt from the
// persisted log on rehydration.
type Context struct {
	SessionID string
	UserID    string

	State    dialog.State
	Entities map[string]string

	// LastIntent is the label of the most recent user turn the
	// classifier was confident about.
	LastIntent string

	MessageCount   int
	FirstMessageAt time.Time
	LastMessageAt  time.Time
}

// NewContext creates an empty context for a fresh session.
func NewContext(sessionID, userID string) *Context {
	return &Context{
		SessionID: sessionID,
		UserID:    userID,
		State:     dialog.NewState(),
		Entities:  map[string]string{},
	}
}

// Rehydrate rebuilds a context from the persisted message log. Messages
// must be in timestamp order. Entities are re-extracted from user turns
// with later mentions overwriting earlier ones; the last confidently
// labelled user turn sets LastIntent. Flow state does not survive
// rehydration.
func Rehydrate(sessionID, userID string, messages []domain.Message, threshold float64) *Context {
	c := NewContext(sessionID, userID)
	for i := range messages {
		c.observe(&messages[i], threshold)
	}
	return c
}

// RecordTurn folds one completed turn into the context. The caller
// persists the messages first; the context is only updated after the
// write succeeds so a failed turn leaves no trace here.
func (c *Context) RecordTurn(userMsg, botMsg *domain.Message, state dialog.State, threshold float64) {
	c.State = state
	c.observe(userMsg, threshold)
	c.observe(botMsg, threshold)
}

func (c *Context) observe(m *domain.Message, threshold float64) {
	if c.MessageCount == 0 {
		c.FirstMessageAt = m.CreatedAt
	}
	c.LastMessageAt = m.CreatedAt
	c.MessageCount++

	if m.Sender != domain.SenderUser {
		return
	}
	for kind, value := range extract.Entities(m.Content) {
		c.Entities[kind] = value
	}
	if m.Intent != "" && m.Confidence != nil && *m.Confidence >= threshold {
		c.LastIntent = m.Intent
	}
}

// Summary reports the session at a glance. Duration is the span between
// the first and last message in seconds; with fewer than two messages it
// is zero.
func (c *Context) Summary() *domain.Summary {
	entities := make(map[string]string, len(c.Entities))
	for k, v := range c.Entities {
		entities[k] = v
	}

	var duration float64
	if c.MessageCount >= 2 {
		duration = c.LastMessageAt.Sub(c.FirstMessageAt).Seconds()
	}

	return &domain.Summary{
		SessionID:    c.SessionID,
		MessageCount: c.MessageCount,
		LastIntent:   c.LastIntent,
		Entities:     entities,
		Duration:     duration,
	}
}

// Package engine coordinates one dialogue turn end to end: session
// lookup, controller decision, durable append, context update.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kohara42/supportdesk/dialog"
	"github.com/kohara42/supportdesk/domain"
	"github.com/kohara42/supportdesk/session"
	"github.com/kohara42/supportdesk/store"
)

var (
	// ErrEmptyText is returned for a turn with no usable input.
	ErrEmptyText = errors.New("turn text is empty")
	// ErrSessionNotFound is returned when an operation references an
	// unknown session.
	ErrSessionNotFound = errors.New("session not found")
)

// Engine processes dialogue turns. Turns within a session are
// serialized; distinct sessions run concurrently.
type Engine struct {
	store        store.Store
	controller   *dialog.Controller
	registry     *session.Registry
	threshold    float64
	historyLimit int
}

// New creates a dialogue engine. historyLimit caps how many persisted
// messages a rehydration reads; zero means unlimited.
func New(s store.Store, ctrl *dialog.Controller, threshold float64, historyLimit int) *Engine {
	return &Engine{
		store:        s,
		controller:   ctrl,
		registry:     session.NewRegistry(),
		threshold:    threshold,
		historyLimit: historyLimit,
	}
}

func newMessageID() string {
	return "msg_" + uuid.New().String()[:8]
}

// ProcessTurn runs one user turn through the controller and persists
// both sides of the exchange atomically. The live context is updated
// only after the append succeeds, so a storage failure leaves the
// session exactly as it was before the turn.
func (e *Engine) ProcessTurn(ctx context.Context, req *domain.TurnRequest) (*domain.TurnResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	unlock := e.registry.Lock(req.SessionID)
	defer unlock()

	sess, err := e.store.GetOrCreateSession(ctx, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}

	c, ok := e.registry.Get(req.SessionID)
	if !ok {
		c, err = e.rehydrate(ctx, sess)
		if err != nil {
			return nil, err
		}
	}

	decision, err := e.controller.Decide(ctx, c.State, text)
	if err != nil {
		return nil, err
	}

	userAt := time.Now().UTC()
	botAt := time.Now().UTC()
	if !botAt.After(userAt) {
		botAt = userAt.Add(time.Nanosecond)
	}

	userMsg := &domain.Message{
		MessageID:  newMessageID(),
		SessionID:  req.SessionID,
		Sender:     domain.SenderUser,
		Content:    text,
		Intent:     decision.Intent,
		Confidence: decision.Confidence,
		CreatedAt:  userAt,
	}
	botMsg := &domain.Message{
		MessageID: newMessageID(),
		SessionID: req.SessionID,
		Sender:    domain.SenderBot,
		Content:   decision.Reply,
		CreatedAt: botAt,
	}

	if err := e.store.AppendTurn(ctx, userMsg, botMsg); err != nil {
		return nil, err
	}

	c.RecordTurn(userMsg, botMsg, decision.State, e.threshold)
	e.registry.Put(c)

	return &domain.TurnResponse{
		SessionID:  req.SessionID,
		Reply:      decision.Reply,
		Intent:     decision.Intent,
		Confidence: decision.Confidence,
		Flow:       decision.State.Flow,
	}, nil
}

func (e *Engine) rehydrate(ctx context.Context, sess *domain.Session) (*session.Context, error) {
	messages, err := e.store.RecentMessages(ctx, sess.SessionID, e.historyLimit)
	if err != nil {
		return nil, err
	}
	return session.Rehydrate(sess.SessionID, sess.UserID, messages, e.threshold), nil
}

// Summary reports the session at a glance, rehydrating from the store
// if the session is not live.
func (e *Engine) Summary(ctx context.Context, sessionID string) (*domain.Summary, error) {
	unlock := e.registry.Lock(sessionID)
	defer unlock()

	if c, ok := e.registry.Get(sessionID); ok {
		return c.Summary(), nil
	}

	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	c, err := e.rehydrate(ctx, sess)
	if err != nil {
		return nil, err
	}
	return c.Summary(), nil
}

// History returns the persisted messages of a session in append order.
func (e *Engine) History(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return e.store.GetMessages(ctx, sessionID, limit, before)
}

// EndSession archives the session and drops its live context. The
// message log is retained for analytics.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	unlock := e.registry.Lock(sessionID)
	defer unlock()

	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}
	if err := e.store.EndSession(ctx, sessionID); err != nil {
		return err
	}
	e.registry.Evict(sessionID)
	return nil
}

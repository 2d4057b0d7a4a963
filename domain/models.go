// Package domain defines the core domain models for the dialogue engine.
package domain

import "time"

// Session represents one conversation between a user and the engine.
type Session struct {
	SessionID string     `json:"session_id"`
	UserID    string     `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Message represents a single utterance in a session. Messages are
// immutable once recorded; ordering is append order within the session.
type Message struct {
	MessageID  string    `json:"message_id"`
	SessionID  string    `json:"session_id"`
	Sender     Sender    `json:"sender"`
	Content    string    `json:"content"`
	Intent     string    `json:"intent,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderInfo is the status view returned by an order lookup.
type OrderInfo struct {
	OrderNumber      string      `json:"order_number"`
	Status           OrderStatus `json:"status"`
	ExpectedDelivery string      `json:"expected_delivery"`
	Location         string      `json:"location"`
}

// User represents a registered or anonymous caller.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog entry, consulted by the product search endpoint.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
}

// Feedback is a user rating attached to a bot message.
type Feedback struct {
	ID        int64     `json:"id"`
	MessageID string    `json:"message_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary describes a session at a point in time.
type Summary struct {
	SessionID    string            `json:"session_id"`
	MessageCount int               `json:"message_count"`
	LastIntent   string            `json:"last_intent,omitempty"`
	Entities     map[string]string `json:"entities,omitempty"`
	Duration     float64           `json:"duration_seconds"`
}

// TurnRequest is the input for one dialogue turn.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	Text      string `json:"text"`
}

// TurnResponse is the engine's answer to one dialogue turn.
type TurnResponse struct {
	SessionID  string   `json:"session_id"`
	Reply      string   `json:"reply"`
	Intent     string   `json:"intent,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Flow       FlowKind `json:"flow"`
}

// ConversationStats aggregates message and session counts.
type ConversationStats struct {
	TotalConversations int           `json:"total_conversations"`
	TotalMessages      int           `json:"total_messages"`
	AvgMessages        float64       `json:"avg_messages_per_conversation"`
	IntentDistribution []IntentCount `json:"intent_distribution"`
	Feedback           FeedbackStats `json:"feedback"`
	ActiveUsers        int           `json:"active_users"`
}

// IntentCount is one row of the intent distribution.
type IntentCount struct {
	Intent string `json:"intent"`
	Count  int    `json:"count"`
}

// FeedbackStats summarizes collected feedback.
type FeedbackStats struct {
	Total            int     `json:"total"`
	Positive         int     `json:"positive"`
	Negative         int     `json:"negative"`
	SatisfactionRate float64 `json:"satisfaction_rate"`
}

// IntentPerformance reports per-intent classifier behavior.
type IntentPerformance struct {
	Intent        string  `json:"intent"`
	TotalMessages int     `json:"total_messages"`
	AvgConfidence float64 `json:"avg_confidence"`
	FeedbackCount int     `json:"feedback_count"`
	Positive      int     `json:"positive_feedback"`
}

// TrainingExample is a high-confidence user utterance suitable for
// retraining the external classifier.
type TrainingExample struct {
	Pattern    string  `json:"pattern"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

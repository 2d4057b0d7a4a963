// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/kohara42/supportdesk/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID string) error

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	// AppendTurn writes a user message and the bot reply in one
	// transaction so a failed turn leaves no partial history behind.
	AppendTurn(ctx context.Context, userMsg, botMsg *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error)
	// RecentMessages returns the newest limit messages of a session,
	// still in append order. Zero limit means the full history.
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// User operations
	GetOrCreateUser(ctx context.Context, username, email string) (*domain.User, error)

	// Order and product operations
	GetOrder(ctx context.Context, orderNumber string) (*domain.OrderInfo, error)
	UpsertOrder(ctx context.Context, orderNumber string, status domain.OrderStatus) error
	SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error)

	// Feedback operations
	AddFeedback(ctx context.Context, feedback *domain.Feedback) (int64, error)

	// Analytics operations
	ConversationStats(ctx context.Context) (*domain.ConversationStats, error)
	IntentPerformance(ctx context.Context) ([]domain.IntentPerformance, error)

	// Learning operations
	LowConfidenceMessages(ctx context.Context, threshold float64, limit int) ([]domain.Message, error)
	TrainingExamples(ctx context.Context, minConfidence float64) ([]domain.TrainingExample, error)

	// Lifecycle
	Close() error
}

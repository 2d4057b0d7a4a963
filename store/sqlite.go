package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kohara42/supportdesk/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			intent TEXT,
			confidence REAL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_number TEXT UNIQUE NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT,
			price REAL,
			stock INTEGER,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL,
			rating INTEGER,
			comment TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (message_id) REFERENCES messages(message_id)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, created_at) VALUES (?, ?, ?)`,
		session.SessionID, session.UserID, session.CreatedAt)
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var userID sql.NullString
	var endedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, created_at, ended_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &userID, &session.CreatedAt, &endedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		session.UserID = userID.String
	}
	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	return &session, nil
}

// GetOrCreateSession gets an existing session or creates a new one.
func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &domain.Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession marks a session as ended. Sessions are archived, never deleted.
func (s *SQLiteStore) EndSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE session_id = ? AND ended_at IS NULL`,
		time.Now(), sessionID)
	return err
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, sender, content, intent, confidence, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, message.Sender, message.Content,
		nullStr(message.Intent), message.Confidence, message.CreatedAt)
	return err
}

// AppendTurn writes a user message and the bot reply atomically.
func (s *SQLiteStore) AppendTurn(ctx context.Context, userMsg, botMsg *domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin turn transaction: %w", err)
	}

	for _, msg := range []*domain.Message{userMsg, botMsg} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (message_id, session_id, sender, content, intent, confidence, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			msg.MessageID, msg.SessionID, msg.Sender, msg.Content,
			nullStr(msg.Intent), msg.Confidence, msg.CreatedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to append turn: %w", err)
		}
	}

	return tx.Commit()
}

// GetMessages retrieves messages for a session in append order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error) {
	query := `SELECT message_id, session_id, sender, content, intent, confidence, created_at FROM messages WHERE session_id = ?`
	args := []interface{}{sessionID}

	if before != "" {
		query += ` AND message_id < ?`
		args = append(args, before)
	}

	query += ` ORDER BY created_at ASC, message_id ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var intent sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.Sender, &msg.Content, &intent, &confidence, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if intent.Valid {
			msg.Intent = intent.String
		}
		if confidence.Valid {
			c := confidence.Float64
			msg.Confidence = &c
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// RecentMessages returns the newest limit messages in append order.
func (s *SQLiteStore) RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		return s.GetMessages(ctx, sessionID, 0, "")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, sender, content, intent, confidence, created_at
		 FROM messages WHERE session_id = ?
		 ORDER BY created_at DESC, message_id DESC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var intent sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.Sender, &msg.Content, &intent, &confidence, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if intent.Valid {
			msg.Intent = intent.String
		}
		if confidence.Valid {
			c := confidence.Float64
			msg.Confidence = &c
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Flip back to append order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetOrCreateUser gets a user by username or creates one.
func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, username, email string) (*domain.User, error) {
	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, created_at) VALUES (?, ?, ?)`,
		username, nullStr(email), now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: id, Username: username, Email: email, CreatedAt: now}, nil
}

func (s *SQLiteStore) getUser(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE username = ?`,
		username).Scan(&user.ID, &user.Username, &email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		user.Email = email.String
	}
	return &user, nil
}

// GetOrder retrieves an order by order number.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderNumber string) (*domain.OrderInfo, error) {
	var number string
	var status domain.OrderStatus
	err := s.db.QueryRowContext(ctx,
		`SELECT order_number, status FROM orders WHERE order_number = ?`,
		orderNumber).Scan(&number, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.OrderInfo{OrderNumber: number, Status: status}, nil
}

// UpsertOrder inserts or updates an order's status.
func (s *SQLiteStore) UpsertOrder(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (order_number, status) VALUES (?, ?)
		 ON CONFLICT(order_number) DO UPDATE SET status = excluded.status`,
		orderNumber, status)
	return err
}

// SearchProducts searches products by name or category.
func (s *SQLiteStore) SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, price, stock, description FROM products
		 WHERE name LIKE ? OR category LIKE ? LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var category, description sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.Price, &p.Stock, &description); err != nil {
			return nil, err
		}
		if category.Valid {
			p.Category = category.String
		}
		if description.Valid {
			p.Description = description.String
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// AddFeedback records feedback for a message.
func (s *SQLiteStore) AddFeedback(ctx context.Context, feedback *domain.Feedback) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (message_id, rating, comment, created_at) VALUES (?, ?, ?, ?)`,
		feedback.MessageID, feedback.Rating, nullStr(feedback.Comment), time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ConversationStats aggregates session, message and feedback counts.
func (s *SQLiteStore) ConversationStats(ctx context.Context) (*domain.ConversationStats, error) {
	stats := &domain.ConversationStats{}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions`).Scan(&stats.TotalConversations); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages`).Scan(&stats.TotalMessages); err != nil {
		return nil, err
	}
	if stats.TotalConversations > 0 {
		stats.AvgMessages = float64(stats.TotalMessages) / float64(stats.TotalConversations)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM sessions WHERE user_id IS NOT NULL AND user_id != ''`).Scan(&stats.ActiveUsers); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT intent, COUNT(*) AS count FROM messages
		 WHERE intent IS NOT NULL GROUP BY intent ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ic domain.IntentCount
		if err := rows.Scan(&ic.Intent, &ic.Count); err != nil {
			return nil, err
		}
		stats.IntentDistribution = append(stats.IntentDistribution, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN rating > 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN rating < 0 THEN 1 ELSE 0 END), 0)
		 FROM feedback`).Scan(&stats.Feedback.Total, &stats.Feedback.Positive, &stats.Feedback.Negative); err != nil {
		return nil, err
	}
	if stats.Feedback.Total > 0 {
		stats.Feedback.SatisfactionRate = float64(stats.Feedback.Positive) / float64(stats.Feedback.Total) * 100
	}

	return stats, nil
}

// IntentPerformance reports message counts and confidence per intent.
func (s *SQLiteStore) IntentPerformance(ctx context.Context) ([]domain.IntentPerformance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.intent,
		        COUNT(*) AS total,
		        COALESCE(AVG(m.confidence), 0),
		        COUNT(f.id),
		        COALESCE(SUM(CASE WHEN f.rating > 0 THEN 1 ELSE 0 END), 0)
		 FROM messages m
		 LEFT JOIN feedback f ON f.message_id = m.message_id
		 WHERE m.intent IS NOT NULL AND m.sender = 'user'
		 GROUP BY m.intent
		 ORDER BY total DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.IntentPerformance
	for rows.Next() {
		var p domain.IntentPerformance
		if err := rows.Scan(&p.Intent, &p.TotalMessages, &p.AvgConfidence, &p.FeedbackCount, &p.Positive); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// LowConfidenceMessages returns user messages below the confidence threshold.
func (s *SQLiteStore) LowConfidenceMessages(ctx context.Context, threshold float64, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, sender, content, intent, confidence, created_at
		 FROM messages
		 WHERE sender = 'user' AND confidence IS NOT NULL AND confidence < ?
		 ORDER BY created_at DESC LIMIT ?`,
		threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var intent sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.Sender, &msg.Content, &intent, &confidence, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if intent.Valid {
			msg.Intent = intent.String
		}
		if confidence.Valid {
			c := confidence.Float64
			msg.Confidence = &c
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// TrainingExamples returns distinct high-confidence labeled utterances.
func (s *SQLiteStore) TrainingExamples(ctx context.Context, minConfidence float64) ([]domain.TrainingExample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content, intent, MAX(confidence)
		 FROM messages
		 WHERE sender = 'user' AND intent IS NOT NULL AND confidence > ?
		 GROUP BY content, intent`,
		minConfidence)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var examples []domain.TrainingExample
	for rows.Next() {
		var e domain.TrainingExample
		if err := rows.Scan(&e.Pattern, &e.Intent, &e.Confidence); err != nil {
			return nil, err
		}
		examples = append(examples, e)
	}
	return examples, rows.Err()
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

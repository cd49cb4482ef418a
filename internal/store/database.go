package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rajat933788/cancerdetect-backend/internal/db"
)

// DatabaseStore persists testimonials, newsletter subscriptions, chat
// questions, and auth sessions in PostgreSQL.
type DatabaseStore struct {
	db *db.DB
}

func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

// AuthSession is the identity-provider token bound to a browser session.
type AuthSession struct {
	SessionID   string
	AccessToken string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaveAuthSession saves or updates the identity token for a session.
func (ds *DatabaseStore) SaveAuthSession(sessionID, accessToken, email string) error {
	if sessionID == "" || accessToken == "" {
		return fmt.Errorf("session_id and access_token are required")
	}

	query := `
		INSERT INTO auth_sessions (session_id, access_token, email, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			email = EXCLUDED.email,
			updated_at = NOW()
	`
	if _, err := ds.db.Exec(query, sessionID, accessToken, email); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// GetAuthSession retrieves the identity token for a session; nil when absent.
func (ds *DatabaseStore) GetAuthSession(sessionID string) (*AuthSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	var auth AuthSession
	query := `
		SELECT session_id, access_token, email, created_at, updated_at
		FROM auth_sessions
		WHERE session_id = $1
	`
	err := ds.db.QueryRow(query, sessionID).Scan(
		&auth.SessionID,
		&auth.AccessToken,
		&auth.Email,
		&auth.CreatedAt,
		&auth.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth session: %w", err)
	}
	return &auth, nil
}

// DeleteAuthSession removes the identity token for a session.
func (ds *DatabaseStore) DeleteAuthSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if _, err := ds.db.Exec(`DELETE FROM auth_sessions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete auth session: %w", err)
	}
	return nil
}

// SaveTestimonial appends a testimonial; the timestamp is server-assigned.
func (ds *DatabaseStore) SaveTestimonial(name, message string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(message) == "" {
		return fmt.Errorf("name and message are required")
	}
	query := `INSERT INTO testimonials (name, message, created_at) VALUES ($1, $2, NOW())`
	if _, err := ds.db.Exec(query, name, message); err != nil {
		return fmt.Errorf("failed to save testimonial: %w", err)
	}
	return nil
}

// ListTestimonials returns all testimonials, oldest first.
func (ds *DatabaseStore) ListTestimonials() ([]Testimonial, error) {
	rows, err := ds.db.Query(`
		SELECT id, name, message, created_at
		FROM testimonials
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	var out []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Message, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AddSubscriber records a newsletter subscription; duplicates are ignored.
func (ds *DatabaseStore) AddSubscriber(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	query := `
		INSERT INTO newsletter_subscribers (email, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (email) DO NOTHING
	`
	if _, err := ds.db.Exec(query, email); err != nil {
		return fmt.Errorf("failed to add subscriber: %w", err)
	}
	return nil
}

// RecordQuestion implements the chatbot analytics sink against Postgres.
func (ds *DatabaseStore) RecordQuestion(ctx context.Context, question string) error {
	query := `INSERT INTO chat_questions (question, created_at) VALUES ($1, NOW())`
	if _, err := ds.db.ExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("failed to record chat question: %w", err)
	}
	return nil
}

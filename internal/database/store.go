package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a write targets a record that does not exist.
var ErrNotFound = errors.New("record not found")

// DefaultConversationTitle names conversations created without a title.
const DefaultConversationTitle = "New Conversation"

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// GetUserProfile retrieves a user profile by user ID. Returns nil, nil if not found.
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)

	// SaveUserProfile creates the profile or updates its non-nil fields and
	// returns the stored result.
	SaveUserProfile(ctx context.Context, profile *UserProfile) (*UserProfile, error)

	// DeleteUserProfile removes a profile. Returns false if there was none.
	DeleteUserProfile(ctx context.Context, userID string) (bool, error)

	// CreateConversation starts a new conversation for a user.
	CreateConversation(ctx context.Context, userID, title string) (*Conversation, error)

	// EnsureConversation returns the conversation with the given ID, creating
	// it for userID when missing.
	EnsureConversation(ctx context.Context, id, userID, title string) (*Conversation, error)

	// GetConversation retrieves a conversation owned by userID. Returns nil, nil if not found.
	GetConversation(ctx context.Context, id, userID string) (*Conversation, error)

	// ListConversations returns the most recently updated conversations of a user.
	ListConversations(ctx context.Context, userID string, limit int) ([]Conversation, error)

	// UpdateConversationTitle renames a conversation owned by userID.
	UpdateConversationTitle(ctx context.Context, id, userID, title string) (*Conversation, error)

	// DeleteConversation removes a conversation and its messages. Returns
	// false if the user owns no such conversation.
	DeleteConversation(ctx context.Context, id, userID string) (bool, error)

	// AddMessage appends a message and bumps the conversation's updated_at.
	AddMessage(ctx context.Context, conversationID, role, content string) (*Message, error)

	// ListMessages returns the first limit messages in chronological order.
	ListMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)

	// ListRecentMessages returns the last limit messages in chronological order.
	ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)

	// DeleteConversationsBefore removes conversations not updated since cutoff
	// and returns how many were removed.
	DeleteConversationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM cannot run inside a transaction
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

const profileColumns = `id, created_at, updated_at, user_id, academic_background, interests, career_goals, preferences, test_scores`

// GetUserProfile retrieves a user profile by user ID. Returns nil, nil if not found.
func (s *sqlxStore) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	return s.getUserProfile(ctx, s.db, userID)
}

func (s *sqlxStore) getUserProfile(ctx context.Context, q sqlx.QueryerContext, userID string) (*UserProfile, error) {
	var profile UserProfile
	err := sqlx.GetContext(ctx, q, &profile,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = ?`, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user profile found", "user_id", userID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching user profile",
			"user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user profile for user %s: %w", userID, err)
	}

	return &profile, nil
}

// SaveUserProfile inserts a profile or updates the fields the caller set.
// Missing fields of a new profile get empty defaults; test scores stay NULL.
func (s *sqlxStore) SaveUserProfile(ctx context.Context, profile *UserProfile) (*UserProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("cannot save nil user profile")
	}
	if profile.UserID == "" {
		return nil, fmt.Errorf("user profile must have a user_id")
	}

	now := s.now()
	row := *profile
	row.ID = uuid.NewString()
	row.CreatedAt = now
	row.UpdatedAt = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving user profile",
			"user_id", profile.UserID, "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	query := `
        INSERT INTO user_profiles (id, user_id, academic_background, interests, career_goals, preferences, test_scores, created_at, updated_at)
        VALUES (:id, :user_id,
                COALESCE(:academic_background, '{}'),
                COALESCE(:interests, '[]'),
                COALESCE(:career_goals, '{}'),
                COALESCE(:preferences, '{}'),
                :test_scores, :created_at, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            academic_background = COALESCE(:academic_background, user_profiles.academic_background),
            interests           = COALESCE(:interests, user_profiles.interests),
            career_goals        = COALESCE(:career_goals, user_profiles.career_goals),
            preferences         = COALESCE(:preferences, user_profiles.preferences),
            test_scores         = COALESCE(:test_scores, user_profiles.test_scores),
            updated_at          = :updated_at;
    `
	if _, err := tx.NamedExecContext(ctx, query, &row); err != nil {
		s.logger.ErrorContext(ctx, "Error saving user profile", "user_id", profile.UserID, "error", err)
		return nil, fmt.Errorf("failed to save user profile for user %s: %w", profile.UserID, err)
	}

	saved, err := s.getUserProfile(ctx, tx, profile.UserID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("user profile for user %s vanished after save", profile.UserID)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "user_id", profile.UserID, "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.DebugContext(ctx, "User profile saved successfully", "user_id", profile.UserID, "profile_id", saved.ID)
	return saved, nil
}

// DeleteUserProfile removes the profile of userID.
func (s *sqlxStore) DeleteUserProfile(ctx context.Context, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user profile", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to delete user profile for user %s: %w", userID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// CreateConversation starts a new conversation with a random UUID.
func (s *sqlxStore) CreateConversation(ctx context.Context, userID, title string) (*Conversation, error) {
	return s.EnsureConversation(ctx, uuid.NewString(), userID, title)
}

// EnsureConversation creates the conversation if it does not exist yet.
// An existing conversation owned by another user is reported as ErrNotFound.
func (s *sqlxStore) EnsureConversation(ctx context.Context, id, userID, title string) (*Conversation, error) {
	if id == "" || userID == "" {
		return nil, fmt.Errorf("conversation id and user_id are required")
	}
	if title == "" {
		title = DefaultConversationTitle
	}

	now := s.now()
	conv := Conversation{ID: id, UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}

	if _, err := s.db.NamedExecContext(ctx, `
        INSERT INTO conversations (id, user_id, title, created_at, updated_at)
        VALUES (:id, :user_id, :title, :created_at, :updated_at)
        ON CONFLICT (id) DO NOTHING;
    `, &conv); err != nil {
		s.logger.ErrorContext(ctx, "Error creating conversation", "conversation_id", id, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	stored, err := s.GetConversation(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return stored, nil
}

// GetConversation retrieves a conversation owned by userID. Returns nil, nil if not found.
func (s *sqlxStore) GetConversation(ctx context.Context, id, userID string) (*Conversation, error) {
	var conv Conversation
	err := s.db.GetContext(ctx, &conv,
		`SELECT id, created_at, updated_at, user_id, title FROM conversations WHERE id = ? AND user_id = ?`,
		id, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting conversation", "conversation_id", id, "error", err)
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return &conv, nil
}

// ListConversations returns up to limit conversations, most recently updated first.
func (s *sqlxStore) ListConversations(ctx context.Context, userID string, limit int) ([]Conversation, error) {
	limit = clampLimit(limit, 20, 100)

	conversations := []Conversation{}
	err := s.db.SelectContext(ctx, &conversations, `
        SELECT id, created_at, updated_at, user_id, title
        FROM conversations
        WHERE user_id = ?
        ORDER BY updated_at DESC, rowid DESC
        LIMIT ?;
    `, userID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing conversations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list conversations for user %s: %w", userID, err)
	}
	return conversations, nil
}

// UpdateConversationTitle renames a conversation.
func (s *sqlxStore) UpdateConversationTitle(ctx context.Context, id, userID, title string) (*Conversation, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		title, s.now(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to rename conversation %s: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return s.GetConversation(ctx, id, userID)
}

// DeleteConversation removes the messages and then the conversation in one transaction.
func (s *sqlxStore) DeleteConversation(ctx context.Context, id, userID string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	var owned int
	err = tx.GetContext(ctx, &owned, `SELECT COUNT(*) FROM conversations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check conversation %s: %w", id, err)
	}
	if owned == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete messages of conversation %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete conversation %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.DebugContext(ctx, "Conversation deleted", "conversation_id", id, "user_id", userID)
	return true, nil
}

// AddMessage appends a message to an existing conversation.
func (s *sqlxStore) AddMessage(ctx context.Context, conversationID, role, content string) (*Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return nil, fmt.Errorf("invalid message role %q", role)
	}

	now := s.now()
	msg := Message{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	result, err := tx.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ?`, now, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to touch conversation %s: %w", conversationID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}

	if _, err := tx.NamedExecContext(ctx, `
        INSERT INTO messages (id, conversation_id, role, content, created_at)
        VALUES (:id, :conversation_id, :role, :content, :created_at);
    `, &msg); err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("failed to save message in conversation %s: %w", conversationID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &msg, nil
}

// ListMessages returns the first limit messages in chronological order.
func (s *sqlxStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	limit = clampLimit(limit, 50, 500)

	messages := []Message{}
	err := s.db.SelectContext(ctx, &messages, `
        SELECT id, created_at, conversation_id, role, content
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at ASC, rowid ASC
        LIMIT ?;
    `, conversationID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing messages", "conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("failed to list messages for conversation %s: %w", conversationID, err)
	}
	return messages, nil
}

// ListRecentMessages returns the last limit messages in chronological order.
func (s *sqlxStore) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	limit = clampLimit(limit, 10, 500)

	messages := []Message{}
	err := s.db.SelectContext(ctx, &messages, `
        SELECT id, created_at, conversation_id, role, content
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?;
    `, conversationID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing recent messages", "conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("failed to list recent messages for conversation %s: %w", conversationID, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteConversationsBefore removes idle conversations and their messages.
func (s *sqlxStore) DeleteConversationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	cutoff = cutoff.UTC()
	if _, err := tx.ExecContext(ctx, `
        DELETE FROM messages
        WHERE conversation_id IN (SELECT id FROM conversations WHERE updated_at < ?);
    `, cutoff); err != nil {
		return 0, fmt.Errorf("failed to delete messages of idle conversations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle conversations: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Idle conversations pruned", "removed", removed, "cutoff", cutoff)
	return removed, nil
}

func (s *sqlxStore) rollback(ctx context.Context, tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.logger.WarnContext(ctx, "Error rolling back transaction", "error", err)
	}
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

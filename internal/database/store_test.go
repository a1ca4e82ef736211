package database_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/logger"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })
	return database.NewStore(db, logger.Discard())
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "again.db")
	db, err := database.NewDB(path)
	require.NoError(t, err)
	database.CloseDB(db)

	db, err = database.NewDB(path)
	require.NoError(t, err)
	database.CloseDB(db)
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"counsellor.db", "counsellor.db"},
		{"file:counsellor.db?_pragma=foreign_keys(1)", "counsellor.db"},
		{"/var/lib/my%20data.db", "/var/lib/my data.db"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, database.ExtractDBNameFromPath(tt.in))
	}
}

func TestUserProfile_CreateAndPartialUpdate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	missing, err := store.GetUserProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := store.SaveUserProfile(ctx, &database.UserProfile{
		UserID:    "user-1",
		Interests: database.StringList{"AI", "Robotics"},
		Preferences: database.JSONMap{
			"countries": []any{"Canada"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, database.JSONMap{}, created.AcademicBackground)
	assert.Equal(t, database.JSONMap{}, created.CareerGoals)
	assert.Nil(t, created.TestScores)
	assert.Equal(t, database.StringList{"AI", "Robotics"}, created.Interests)

	updated, err := store.SaveUserProfile(ctx, &database.UserProfile{
		UserID:      "user-1",
		CareerGoals: database.JSONMap{"target_field": "Software"},
		TestScores:  database.JSONMap{"GRE": float64(320)},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, database.StringList{"AI", "Robotics"}, updated.Interests, "unset fields keep stored values")
	assert.Equal(t, database.JSONMap{"countries": []any{"Canada"}}, updated.Preferences)
	assert.Equal(t, database.JSONMap{"target_field": "Software"}, updated.CareerGoals)
	assert.Equal(t, database.JSONMap{"GRE": float64(320)}, updated.TestScores)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	cleared, err := store.SaveUserProfile(ctx, &database.UserProfile{UserID: "user-1", Interests: database.StringList{}})
	require.NoError(t, err)
	assert.Equal(t, database.StringList{}, cleared.Interests, "empty list overwrites")

	fetched, err := store.GetUserProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cleared.Preferences, fetched.Preferences)

	deleted, err := store.DeleteUserProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = store.DeleteUserProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserProfile_Validation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveUserProfile(ctx, nil)
	assert.Error(t, err)
	_, err = store.SaveUserProfile(ctx, &database.UserProfile{})
	assert.Error(t, err)
	_, err = store.GetUserProfile(ctx, "")
	assert.Error(t, err)
}

func TestConversations(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateConversation(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, database.DefaultConversationTitle, first.Title)

	second, err := store.CreateConversation(ctx, "alice", "Visa questions")
	require.NoError(t, err)
	_, err = store.CreateConversation(ctx, "bob", "Bob's")
	require.NoError(t, err)

	// a new message moves the first conversation to the top
	_, err = store.AddMessage(ctx, first.ID, database.RoleUser, "hello")
	require.NoError(t, err)

	list, err := store.ListConversations(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	got, err := store.GetConversation(ctx, first.ID, "bob")
	require.NoError(t, err)
	assert.Nil(t, got, "conversations are scoped to their owner")

	renamed, err := store.UpdateConversationTitle(ctx, second.ID, "alice", "Scholarships")
	require.NoError(t, err)
	assert.Equal(t, "Scholarships", renamed.Title)

	_, err = store.UpdateConversationTitle(ctx, second.ID, "bob", "Hijack")
	assert.ErrorIs(t, err, database.ErrNotFound)

	ok, err := store.DeleteConversation(ctx, first.ID, "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.DeleteConversation(ctx, first.ID, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	msgs, err := store.ListMessages(ctx, first.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestEnsureConversation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.EnsureConversation(ctx, "fixed-id", "telegram:1", "Telegram chat")
	require.NoError(t, err)
	b, err := store.EnsureConversation(ctx, "fixed-id", "telegram:1", "ignored")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Telegram chat", b.Title)

	_, err = store.EnsureConversation(ctx, "fixed-id", "telegram:2", "")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestMessages(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "alice", "Chat")
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		role := database.RoleUser
		if i%2 == 1 {
			role = database.RoleAssistant
		}
		_, err := store.AddMessage(ctx, conv.ID, role, fmt.Sprintf("m%02d", i))
		require.NoError(t, err)
	}

	firstTen, err := store.ListMessages(ctx, conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, firstTen, 10)
	assert.Equal(t, "m00", firstTen[0].Content)
	assert.Equal(t, "m09", firstTen[9].Content)

	lastTen, err := store.ListRecentMessages(ctx, conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, lastTen, 10)
	assert.Equal(t, "m05", lastTen[0].Content)
	assert.Equal(t, "m14", lastTen[9].Content)
	assert.Equal(t, database.RoleAssistant, lastTen[0].Role)

	_, err = store.AddMessage(ctx, conv.ID, "system", "nope")
	assert.Error(t, err)

	_, err = store.AddMessage(ctx, "missing", database.RoleUser, "nope")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteConversationsBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	old, err := store.CreateConversation(ctx, "alice", "Old")
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, old.ID, database.RoleUser, "hi")
	require.NoError(t, err)

	cutoff := time.Now().Add(time.Second)
	removed, err := store.DeleteConversationsBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	recent, err := store.CreateConversation(ctx, "alice", "Recent")
	require.NoError(t, err)
	removed, err = store.DeleteConversationsBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	got, err := store.GetConversation(ctx, recent.ID, "alice")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.RunSQLMaintenance(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, store.RunSQLMaintenance(ctx))
}

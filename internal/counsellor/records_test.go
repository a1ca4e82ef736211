package counsellor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/database"
)

func TestProfileFromRecord(t *testing.T) {
	t.Parallel()

	assert.Nil(t, counsellor.ProfileFromRecord(nil))

	rec := &database.UserProfile{
		UserID:      "u",
		Interests:   database.StringList{"art"},
		Preferences: database.JSONMap{"budget": "low"},
	}
	p := counsellor.ProfileFromRecord(rec)
	assert.Equal(t, []string{"art"}, p.Interests)
	assert.Equal(t, map[string]any{"budget": "low"}, p.Preferences)
	assert.Equal(t, "Interests: art\nPreferences: {\"budget\":\"low\"}", counsellor.BuildContext(p))
}

func TestTurnsFromMessages(t *testing.T) {
	t.Parallel()

	turns := counsellor.TurnsFromMessages([]database.Message{
		{Role: database.RoleUser, Content: "q"},
		{Role: database.RoleAssistant, Content: "a"},
	})
	assert.Equal(t, []counsellor.Turn{
		{Role: counsellor.RoleUser, Content: "q"},
		{Role: counsellor.RoleAssistant, Content: "a"},
	}, turns)
	assert.NotNil(t, counsellor.TurnsFromMessages(nil))
}

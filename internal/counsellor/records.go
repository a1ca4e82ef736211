package counsellor

import "github.com/edgard/counsellor/internal/database"

// ProfileFromRecord converts a stored profile. A nil record yields a nil
// profile, which BuildContext renders as NoProfileContext.
func ProfileFromRecord(rec *database.UserProfile) *Profile {
	if rec == nil {
		return nil
	}
	return &Profile{
		AcademicBackground: rec.AcademicBackground,
		Interests:          rec.Interests,
		CareerGoals:        rec.CareerGoals,
		Preferences:        rec.Preferences,
		TestScores:         rec.TestScores,
	}
}

// TurnsFromMessages converts stored messages to history turns, keeping order.
func TurnsFromMessages(msgs []database.Message) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

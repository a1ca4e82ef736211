package counsellor

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NoProfileContext is returned by BuildContext when there is no profile.
const NoProfileContext = "No user profile available."

// BuildContext renders the populated profile fields as labelled lines, in a
// fixed order. Structured fields are serialised as compact JSON with sorted
// keys; interests are comma-joined. Test scores are never rendered.
func BuildContext(p *Profile) string {
	if p == nil {
		return NoProfileContext
	}

	var lines []string
	if len(p.AcademicBackground) > 0 {
		lines = append(lines, "Academic Background: "+marshalField(p.AcademicBackground))
	}
	if len(p.Interests) > 0 {
		lines = append(lines, "Interests: "+strings.Join(p.Interests, ", "))
	}
	if len(p.CareerGoals) > 0 {
		lines = append(lines, "Career Goals: "+marshalField(p.CareerGoals))
	}
	if len(p.Preferences) > 0 {
		lines = append(lines, "Preferences: "+marshalField(p.Preferences))
	}
	return strings.Join(lines, "\n")
}

func marshalField(v map[string]any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// only reachable with values JSON cannot represent, such as NaN
		return "{}"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

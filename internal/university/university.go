// Package university is a client for the public universities directory
// (GET /search?country=&name=) with optional Redis caching.
package university

// Unknown fills missing names and countries.
const Unknown = "Unknown"

// RawRecord is one directory entry exactly as received.
type RawRecord map[string]any

// University is a normalised directory entry.
type University struct {
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	WebPages      []string `json:"web_pages"`
	Domains       []string `json:"domains"`
	AlphaTwoCode  string   `json:"alpha_two_code"`
	StateProvince *string  `json:"state_province"`
}

// Normalize maps a raw record onto University. Missing or mistyped name and
// country become Unknown, missing lists become empty, a missing alpha-two
// code becomes "" and a missing or null state-province stays nil.
func Normalize(raw RawRecord) University {
	u := University{
		Name:         stringOr(raw, "name", Unknown),
		Country:      stringOr(raw, "country", Unknown),
		WebPages:     stringList(raw, "web_pages"),
		Domains:      stringList(raw, "domains"),
		AlphaTwoCode: stringOr(raw, "alpha_two_code", ""),
	}
	if s, ok := raw["state-province"].(string); ok {
		u.StateProvince = &s
	}
	return u
}

// NormalizeAll normalises every record, preserving order.
func NormalizeAll(raw []RawRecord) []University {
	out := make([]University, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}

func stringOr(raw RawRecord, key, def string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return def
}

func stringList(raw RawRecord, key string) []string {
	switch v := raw[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

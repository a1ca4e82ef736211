package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edgard/counsellor/internal/apierr"
	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/server/middleware"
	"github.com/edgard/counsellor/internal/university"
)

const (
	// maxPreferredCountries caps how many preferred countries are searched.
	maxPreferredCountries = 3
	// candidatesPerCountry is how many entries each country contributes.
	candidatesPerCountry = 10
)

// DefaultPreferredCountries applies when a profile names no countries.
var DefaultPreferredCountries = []string{"United States", "United Kingdom", "Canada"}

// Recommendation is a directory entry, with the model's score and
// reasoning when the list was ranked. MatchScore is nil for unranked
// entries; a ranked score of 0 is still reported.
type Recommendation struct {
	university.University
	MatchScore *float64 `json:"match_score,omitempty"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// UniversityHandler serves the directory endpoints.
type UniversityHandler struct {
	deps Deps
}

// NewUniversityHandler creates the university handler.
func NewUniversityHandler(deps Deps) *UniversityHandler { return &UniversityHandler{deps: deps} }

// Search looks up universities by country and name.
func (h *UniversityHandler) Search(c *gin.Context) {
	limit, err := queryLimit(c, "limit", 10, 1, 50)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	unis := h.deps.Directory.SearchUniversities(c.Request.Context(), c.Query("country"), c.Query("name"), limit)
	RespondOK(c, gin.H{"count": len(unis), "universities": unis})
}

// Countries lists popular study destinations.
func (h *UniversityHandler) Countries(c *gin.Context) {
	RespondOK(c, gin.H{"countries": university.PopularCountries()})
}

// ByCountry lists universities of one country.
func (h *UniversityHandler) ByCountry(c *gin.Context) {
	limit, err := queryLimit(c, "limit", 20, 1, 100)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	country := c.Param("country")
	unis := h.deps.Directory.SearchUniversities(c.Request.Context(), country, "", limit)
	RespondOK(c, gin.H{"country": country, "count": len(unis), "universities": unis})
}

// Recommendations ranks universities from the caller's preferred countries.
// When ranking fails the candidates are returned unranked in directory
// order, and status says why.
func (h *UniversityHandler) Recommendations(c *gin.Context) {
	limit, err := queryLimit(c, "limit", counsellor.DefaultUniversityLimit, 1, 20)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	ctx := c.Request.Context()

	rec, err := h.deps.Store.GetUserProfile(ctx, middleware.UserID(c))
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	if rec == nil {
		RespondError(c, h.deps.Logger, apierr.NotFound("Please complete onboarding first to get recommendations"))
		return
	}

	countries := PreferredCountries(rec.Preferences)
	byCountry := h.deps.Directory.FetchMultiCountry(ctx, countries, candidatesPerCountry)
	var candidates []university.University
	for _, country := range countries {
		candidates = append(candidates, byCountry[country]...)
	}
	basedOn := gin.H{
		"countries":    countries,
		"interests":    rec.Interests,
		"career_goals": rec.CareerGoals,
	}

	if len(candidates) == 0 {
		RespondOK(c, gin.H{
			"count":           0,
			"recommendations": []Recommendation{},
			"message":         "No universities found for your preferred countries",
			"based_on":        basedOn,
		})
		return
	}

	matches, status := h.deps.Counsellor.RecommendUniversities(ctx, counsellor.ProfileFromRecord(rec), candidates, limit)
	ranked := status == counsellor.StatusOK && len(matches) > 0
	var out []Recommendation
	if ranked {
		out = mergeMatches(matches, candidates)
	} else {
		out = unranked(candidates, limit)
	}

	RespondOK(c, gin.H{
		"count":           len(out),
		"recommendations": out,
		"ranked":          ranked,
		"status":          status,
		"based_on":        basedOn,
	})
}

// PreferredCountries reads preferences.countries, falling back to
// DefaultPreferredCountries, and keeps at most three distinct non-blank names.
func PreferredCountries(prefs map[string]any) []string {
	var countries []string
	if raw, ok := prefs["countries"].([]any); ok {
		seen := make(map[string]bool, len(raw))
		for _, v := range raw {
			s, _ := v.(string)
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				countries = append(countries, s)
			}
		}
	}
	if len(countries) == 0 {
		countries = DefaultPreferredCountries
	}
	if len(countries) > maxPreferredCountries {
		countries = countries[:maxPreferredCountries]
	}
	return append([]string(nil), countries...)
}

// mergeMatches attaches each match to the candidate of the same name. A
// name the directory never returned keeps only the model's fields.
func mergeMatches(matches []counsellor.UniversityMatch, candidates []university.University) []Recommendation {
	byName := make(map[string]university.University, len(candidates))
	for _, u := range candidates {
		key := strings.ToLower(u.Name)
		if _, seen := byName[key]; !seen {
			byName[key] = u
		}
	}
	out := make([]Recommendation, 0, len(matches))
	for _, m := range matches {
		u, ok := byName[strings.ToLower(m.UniversityName)]
		if !ok {
			u = university.University{Name: m.UniversityName, WebPages: []string{}, Domains: []string{}}
		}
		score := m.MatchScore
		out = append(out, Recommendation{University: u, MatchScore: &score, Reasoning: m.Reasoning})
	}
	return out
}

func unranked(candidates []university.University, limit int) []Recommendation {
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Recommendation, 0, len(candidates))
	for _, u := range candidates {
		out = append(out, Recommendation{University: u})
	}
	return out
}

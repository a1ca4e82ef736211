// Package counsellor turns a student profile and a request into a model
// prompt, invokes the model and recovers a typed answer from its reply.
//
// Every exported operation degrades to a documented fallback instead of
// failing and reports how it got there through a Status.
package counsellor

// Profile is the read-only view of a student profile used to build the
// context block.
type Profile struct {
	AcademicBackground map[string]any `json:"academic_background,omitempty"`
	Interests          []string       `json:"interests,omitempty"`
	CareerGoals        map[string]any `json:"career_goals,omitempty"`
	Preferences        map[string]any `json:"preferences,omitempty"`
	TestScores         map[string]any `json:"test_scores,omitempty"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior conversation message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Status tells the caller whether a result came from the model or from a
// fallback.
type Status string

const (
	// StatusOK means the model replied and the reply was usable.
	StatusOK Status = "ok"
	// StatusModelUnavailable means the model call failed.
	StatusModelUnavailable Status = "model_unavailable"
	// StatusUnparsable means the model replied but no structured payload
	// could be recovered.
	StatusUnparsable Status = "unparsable"
)

// UniversityMatch is one ranked university recommendation.
type UniversityMatch struct {
	UniversityName string  `json:"university_name"`
	MatchScore     float64 `json:"match_score"`
	Reasoning      string  `json:"reasoning"`
}

// CareerOption is one suggested career path.
type CareerOption struct {
	CareerTitle        string   `json:"career_title"`
	Description        string   `json:"description"`
	RequiredEducation  []string `json:"required_education"`
	AverageSalaryRange string   `json:"average_salary_range"`
	GrowthOutlook      string   `json:"growth_outlook"`
	KeySkills          []string `json:"key_skills"`
}

// CourseRecommendation is one suggested course or degree program.
type CourseRecommendation struct {
	CourseName      string   `json:"course_name"`
	InstitutionType string   `json:"institution_type"`
	Duration        string   `json:"duration"`
	Description     string   `json:"description"`
	Prerequisites   []string `json:"prerequisites"`
	CareerOutcomes  []string `json:"career_outcomes"`
}

// DocumentAnalysis is the feedback produced for a submitted document.
type DocumentAnalysis struct {
	Analysis     string   `json:"analysis"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Suggestions  []string `json:"suggestions"`
}

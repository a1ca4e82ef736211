package counsellor

import (
	"fmt"
	"strings"

	"github.com/edgard/counsellor/internal/university"
)

// HistoryWindow is the maximum number of prior turns sent with a chat prompt.
const HistoryWindow = 10

// DefaultDocumentType labels documents submitted without a type.
const DefaultDocumentType = "general"

// CounsellorPersona is the system instruction that opens every chat prompt.
const CounsellorPersona = `You are an expert AI Career and Education Counsellor. Your role is to:
- Provide personalized career guidance
- Recommend suitable universities and courses
- Help students make informed decisions about their education
- Analyze academic profiles and suggest improvement areas
- Be empathetic, supportive, and professional

Always provide detailed, actionable advice tailored to the student's profile.`

// UniversityRankingInstruction asks for a ranked JSON array. The format
// string expects the limit, the context block and the candidate list.
const UniversityRankingInstruction = `Based on the following student profile, rank and recommend the top %d universities from the list below.

**Student Profile:**
%s

**Universities:**
%s

Provide recommendations in JSON format:
[
  {
    "university_name": "...",
    "match_score": 85,
    "reasoning": "Why this university is a good fit..."
  }
]

Consider factors like:
- Academic fit
- Career goals alignment
- Location preferences
- Budget considerations (if mentioned)
- Program offerings
`

// CareerSuggestionInstruction expects the field qualifier and the context block.
const CareerSuggestionInstruction = `Based on the student profile below, suggest 5 suitable career paths%s.

**Student Profile:**
%s

Provide suggestions in JSON format:
[
  {
    "career_title": "...",
    "description": "Brief description...",
    "required_education": ["Degree 1", "Degree 2"],
    "average_salary_range": "$X - $Y",
    "growth_outlook": "High/Medium/Low with explanation",
    "key_skills": ["Skill 1", "Skill 2", "Skill 3"]
  }
]
`

// CourseRecommendationInstruction expects the career qualifier and the context block.
const CourseRecommendationInstruction = `Based on the student profile, recommend 5 suitable courses/degree programs%s.

**Student Profile:**
%s

Provide recommendations in JSON format:
[
  {
    "course_name": "...",
    "institution_type": "University/College/Online",
    "duration": "X years",
    "description": "What the course covers...",
    "prerequisites": ["Requirement 1", "Requirement 2"],
    "career_outcomes": ["Career 1", "Career 2", "Career 3"]
  }
]
`

// DocumentAnalysisInstruction expects the document type and the document text.
const DocumentAnalysisInstruction = `Analyze the following %s document and provide detailed feedback.

**Document Content:**
%s

Provide analysis in JSON format:
{
  "analysis": "Overall assessment...",
  "strengths": ["Strength 1", "Strength 2", "Strength 3"],
  "improvements": ["Improvement 1", "Improvement 2", "Improvement 3"],
  "suggestions": ["Suggestion 1", "Suggestion 2", "Suggestion 3"]
}
`

// LastTurns returns at most n trailing turns of history, in order.
func LastTurns(history []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// ChatPrompt composes the persona, the profile context, the recent history
// and the new message, ending with the cue for the counsellor's reply.
func ChatPrompt(message, profileContext string, history []Turn) string {
	parts := []string{CounsellorPersona}

	if profileContext != "" {
		parts = append(parts, "\n**Student Profile:**\n"+profileContext+"\n")
	}

	if recent := LastTurns(history, HistoryWindow); len(recent) > 0 {
		parts = append(parts, "\n**Previous Conversation:**")
		for _, turn := range recent {
			speaker := "Student"
			if turn.Role != RoleUser {
				speaker = "Counsellor"
			}
			parts = append(parts, speaker+": "+turn.Content)
		}
	}

	parts = append(parts, "\nStudent: "+message, "\nCounsellor:")
	return strings.Join(parts, "\n")
}

// UniversityRankingPrompt lists the candidates as "N. name - country" and
// asks for up to limit ranked matches.
func UniversityRankingPrompt(profileContext string, candidates []university.University, limit int) string {
	lines := make([]string, 0, len(candidates))
	for i, u := range candidates {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, u.Name, u.Country))
	}
	return fmt.Sprintf(UniversityRankingInstruction, limit, profileContext, strings.Join(lines, "\n"))
}

// CareerSuggestionPrompt asks for five career paths, optionally in one field.
func CareerSuggestionPrompt(profileContext, fieldOfInterest string) string {
	var qualifier string
	if fieldOfInterest != "" {
		qualifier = " in the field of " + fieldOfInterest
	}
	return fmt.Sprintf(CareerSuggestionInstruction, qualifier, profileContext)
}

// CourseRecommendationPrompt asks for five programs, optionally towards one career.
func CourseRecommendationPrompt(profileContext, careerGoal string) string {
	var qualifier string
	if careerGoal != "" {
		qualifier = " to pursue a career as " + careerGoal
	}
	return fmt.Sprintf(CourseRecommendationInstruction, qualifier, profileContext)
}

// DocumentAnalysisPrompt asks for feedback on text of the given type.
func DocumentAnalysisPrompt(text, documentType string) string {
	if documentType == "" {
		documentType = DefaultDocumentType
	}
	return fmt.Sprintf(DocumentAnalysisInstruction, documentType, text)
}

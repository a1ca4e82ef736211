package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/counsellor/internal/apierr"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/server/middleware"
)

// ProfileRequest is a partial profile update. Omitted or null fields keep
// their stored value; an empty list or object overwrites it.
type ProfileRequest struct {
	AcademicBackground database.JSONMap    `json:"academic_background"`
	Interests          database.StringList `json:"interests" binding:"omitempty,max=50,dive,required,max=100"`
	CareerGoals        database.JSONMap    `json:"career_goals"`
	Preferences        database.JSONMap    `json:"preferences"`
	TestScores         database.JSONMap    `json:"test_scores"`
}

// OnboardingRequest captures a full profile. Only test scores are optional.
type OnboardingRequest struct {
	AcademicBackground database.JSONMap    `json:"academic_background" binding:"required"`
	Interests          database.StringList `json:"interests" binding:"required,max=50,dive,required,max=100"`
	CareerGoals        database.JSONMap    `json:"career_goals" binding:"required"`
	Preferences        database.JSONMap    `json:"preferences" binding:"required"`
	TestScores         database.JSONMap    `json:"test_scores"`
}

// ProfileResponse is the stored profile as returned by the API.
type ProfileResponse struct {
	ID                  string              `json:"id"`
	UserID              string              `json:"user_id"`
	OnboardingCompleted bool                `json:"onboarding_completed"`
	AcademicBackground  database.JSONMap    `json:"academic_background"`
	Interests           database.StringList `json:"interests"`
	CareerGoals         database.JSONMap    `json:"career_goals"`
	Preferences         database.JSONMap    `json:"preferences"`
	TestScores          database.JSONMap    `json:"test_scores"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func profileResponse(p *database.UserProfile) ProfileResponse {
	return ProfileResponse{
		ID:                  p.ID,
		UserID:              p.UserID,
		OnboardingCompleted: true,
		AcademicBackground:  p.AcademicBackground,
		Interests:           p.Interests,
		CareerGoals:         p.CareerGoals,
		Preferences:         p.Preferences,
		TestScores:          p.TestScores,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// ProfileHandler serves the profile and onboarding endpoints. A user counts
// as onboarded once a profile row exists.
type ProfileHandler struct {
	deps Deps
}

// NewProfileHandler creates the profile handler.
func NewProfileHandler(deps Deps) *ProfileHandler { return &ProfileHandler{deps: deps} }

// GetProfile returns the caller's profile or 404.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.deps.Store.GetUserProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	if profile == nil {
		RespondError(c, h.deps.Logger, apierr.NotFound(msgNoProfile))
		return
	}
	RespondOK(c, profileResponse(profile))
}

// UpdateProfile applies a partial update, creating the profile if needed.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	h.save(c, &database.UserProfile{
		AcademicBackground: req.AcademicBackground,
		Interests:          req.Interests,
		CareerGoals:        req.CareerGoals,
		Preferences:        req.Preferences,
		TestScores:         req.TestScores,
	}, "Profile updated successfully")
}

// DeleteProfile removes the caller's profile, which resets onboarding.
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID := middleware.UserID(c)
	deleted, err := h.deps.Store.DeleteUserProfile(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	h.deps.Logger.InfoContext(c.Request.Context(), "Profile deleted", "user_id", userID, "existed", deleted)
	RespondOK(c, gin.H{"message": "Profile deleted successfully", "user_id": userID})
}

// CompleteOnboarding stores the full onboarding profile.
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	var req OnboardingRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	h.save(c, &database.UserProfile{
		AcademicBackground: req.AcademicBackground,
		Interests:          req.Interests,
		CareerGoals:        req.CareerGoals,
		Preferences:        req.Preferences,
		TestScores:         req.TestScores,
	}, "Onboarding completed successfully")
}

// SkipOnboarding creates an empty profile so the user counts as onboarded.
func (h *ProfileHandler) SkipOnboarding(c *gin.Context) {
	h.save(c, &database.UserProfile{}, "Onboarding skipped")
}

// OnboardingStatus reports whether the caller has a profile.
func (h *ProfileHandler) OnboardingStatus(c *gin.Context) {
	userID := middleware.UserID(c)
	profile, err := h.deps.Store.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	RespondOK(c, gin.H{"completed": profile != nil, "user_id": userID})
}

func (h *ProfileHandler) save(c *gin.Context, profile *database.UserProfile, message string) {
	profile.UserID = middleware.UserID(c)
	saved, err := h.deps.Store.SaveUserProfile(c.Request.Context(), profile)
	if err != nil {
		RespondError(c, h.deps.Logger, err)
		return
	}
	h.deps.Logger.InfoContext(c.Request.Context(), "Profile saved", "user_id", saved.UserID, "profile_id", saved.ID)
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"user_id":    saved.UserID,
		"profile_id": saved.ID,
		"profile":    profileResponse(saved),
	})
}

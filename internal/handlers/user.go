package handlers

import (
	"database/sql"
	"errors"
	"math"
	"net/http"

	"jobready-portal/internal/middleware"
	"jobready-portal/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler serves the profile and dashboard endpoints
type UserHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB, logger *zap.Logger) *UserHandler {
	return &UserHandler{db: db, logger: logger}
}

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	Email             *string `json:"email"`
	Location          *string `json:"location"`
	Bio               *string `json:"bio"`
	PreferredLanguage *string `json:"preferred_language"`
}

// GetProfile returns the authenticated user's profile
// @Summary Get own profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Failed to load user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondOK(c, gin.H{"data": user.ToResponse()})
}

// UpdateProfile partially updates the authenticated user's profile.
// The timestamp is only touched when at least one field actually changes.
// @Summary Update own profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.PreferredLanguage != nil && !models.IsSupportedLanguage(*req.PreferredLanguage) {
		respondValidation(c, []FieldError{
			{Field: "preferred_language", Message: "Unsupported language"},
		})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Failed to load user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil && *req.FullName != user.FullName {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		if user.Email == nil || *req.Email != *user.Email {
			updates["email"] = *req.Email
		}
	}
	if req.Location != nil && *req.Location != user.Location {
		updates["location"] = *req.Location
	}
	if req.Bio != nil && *req.Bio != user.Bio {
		updates["bio"] = *req.Bio
	}
	if req.PreferredLanguage != nil && *req.PreferredLanguage != user.PreferredLanguage {
		updates["preferred_language"] = *req.PreferredLanguage
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			h.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
			respondError(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		h.logger.Error("Failed to reload user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondOK(c, gin.H{
		"message": "Profile updated",
		"data":    user.ToResponse(),
	})
}

// GetStats returns dashboard counters for the authenticated user
// @Summary Get own dashboard stats
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/users/me/stats [get]
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var applications, savedJobs, cvs, completedCourses int64

	if err := h.db.Model(&models.JobApplication{}).Where("user_id = ?", userID).Count(&applications).Error; err != nil {
		h.logger.Error("Failed to count applications", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	if err := h.db.Model(&models.SavedJob{}).Where("user_id = ?", userID).Count(&savedJobs).Error; err != nil {
		h.logger.Error("Failed to count saved jobs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	if err := h.db.Model(&models.CV{}).Where("user_id = ?", userID).Count(&cvs).Error; err != nil {
		h.logger.Error("Failed to count CVs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	if err := h.db.Model(&models.UserTraining{}).Where("user_id = ? AND completed = ?", userID, true).Count(&completedCourses).Error; err != nil {
		h.logger.Error("Failed to count completed courses", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	var avgProgress sql.NullFloat64
	if err := h.db.Model(&models.UserTraining{}).
		Where("user_id = ?", userID).
		Select("AVG(progress)").
		Scan(&avgProgress).Error; err != nil {
		h.logger.Error("Failed to average training progress", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	averageTrainingProgress := 0
	if avgProgress.Valid {
		averageTrainingProgress = int(math.Round(avgProgress.Float64))
	}

	respondOK(c, gin.H{
		"data": gin.H{
			"applications":              applications,
			"saved_jobs":                savedJobs,
			"cvs":                       cvs,
			"completed_courses":         completedCourses,
			"average_training_progress": averageTrainingProgress,
		},
	})
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"jobready-portal/internal/middleware"
	"jobready-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrainingHandler serves the course catalog and progress endpoints
type TrainingHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(db *gorm.DB, logger *zap.Logger) *TrainingHandler {
	return &TrainingHandler{db: db, logger: logger}
}

type UpdateProgressRequest struct {
	Progress *int    `json:"progress"`
	ModuleID *string `json:"module_id"`
}

// CourseListItem is a course plus the caller's enrollment state. Enrollment
// fields are omitted for anonymous callers.
type CourseListItem struct {
	models.TrainingCourse
	Enrolled  *bool `json:"enrolled,omitempty"`
	Progress  *int  `json:"progress,omitempty"`
	Completed *bool `json:"completed,omitempty"`
}

// ListCourses returns active courses with optional category and language
// filters, joined with the caller's progress when authenticated
// @Summary List training courses
// @Tags training
// @Produce json
// @Param category query string false "Category ID"
// @Param language query string false "Course language"
// @Success 200 {object} map[string]interface{}
// @Router /api/training/courses [get]
func (h *TrainingHandler) ListCourses(c *gin.Context) {
	query := h.db.Model(&models.TrainingCourse{}).Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if language := c.Query("language"); language != "" {
		query = query.Where("language = ?", language)
	}

	var courses []models.TrainingCourse
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		h.logger.Error("Failed to load courses", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load courses")
		return
	}

	items := make([]CourseListItem, len(courses))
	for i := range courses {
		items[i] = CourseListItem{TrainingCourse: courses[i]}
	}

	if userID, ok := middleware.CurrentUserID(c); ok && len(courses) > 0 {
		courseIDs := make([]uuid.UUID, len(courses))
		for i := range courses {
			courseIDs[i] = courses[i].ID
		}

		var enrollments []models.UserTraining
		if err := h.db.
			Where("user_id = ? AND course_id IN ?", userID, courseIDs).
			Find(&enrollments).Error; err != nil {
			h.logger.Error("Failed to load enrollments", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to load courses")
			return
		}

		byCourse := make(map[uuid.UUID]*models.UserTraining, len(enrollments))
		for i := range enrollments {
			byCourse[enrollments[i].CourseID] = &enrollments[i]
		}

		for i := range items {
			enrolled := false
			if enrollment, found := byCourse[items[i].ID]; found {
				enrolled = true
				items[i].Progress = &enrollment.Progress
				items[i].Completed = &enrollment.Completed
			}
			items[i].Enrolled = &enrolled
		}
	}

	respondOK(c, gin.H{"data": items})
}

// GetCourse returns a course with its ordered modules
// @Summary Get course detail
// @Tags training
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/training/courses/{id} [get]
func (h *TrainingHandler) GetCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Course not found")
		return
	}

	var course models.TrainingCourse
	if err := h.db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Course not found")
			return
		}
		h.logger.Error("Failed to load course", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load course")
		return
	}

	item := CourseListItem{TrainingCourse: course}
	if userID, ok := middleware.CurrentUserID(c); ok {
		var enrollment models.UserTraining
		err := h.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
		enrolled := err == nil
		item.Enrolled = &enrolled
		if enrolled {
			item.Progress = &enrollment.Progress
			item.Completed = &enrollment.Completed
		}
	}

	respondOK(c, gin.H{"data": item})
}

// Enroll enrolls the caller in a course at zero progress
// @Summary Enroll in a course
// @Tags training
// @Security BearerAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/training/courses/{id}/enroll [post]
func (h *TrainingHandler) Enroll(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Course not found")
		return
	}

	var course models.TrainingCourse
	if err := h.db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Course not found")
			return
		}
		h.logger.Error("Failed to load course", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to enroll")
		return
	}
	if !course.IsActive {
		respondError(c, http.StatusNotFound, "Course not found")
		return
	}

	var existing int64
	if err := h.db.Model(&models.UserTraining{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&existing).Error; err != nil {
		h.logger.Error("Failed to check enrollment", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to enroll")
		return
	}
	if existing > 0 {
		respondError(c, http.StatusConflict, "Already enrolled in this course")
		return
	}

	now := time.Now().UTC()
	enrollment := models.UserTraining{
		UserID:     userID,
		CourseID:   courseID,
		Progress:   0,
		EnrolledAt: now,
		LastAccess: now,
	}

	if err := h.db.Create(&enrollment).Error; err != nil {
		h.logger.Error("Failed to create enrollment", zap.Error(err),
			zap.String("user_id", userID.String()), zap.String("course_id", courseID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to enroll")
		return
	}

	respondCreated(c, gin.H{
		"message": "Enrolled successfully",
		"data":    gin.H{"enrollment_id": enrollment.ID},
	})
}

// UpdateProgress stores course progress for the caller. Completion derives
// from progress reaching 100; completed_at is stamped on that transition
// and cleared when progress drops below 100. An optional module ID upserts
// a per-module completion record.
// @Summary Update course progress
// @Tags training
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body UpdateProgressRequest true "Progress data"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/training/courses/{id}/progress [put]
func (h *TrainingHandler) UpdateProgress(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Course not found")
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Progress == nil {
		respondValidation(c, []FieldError{
			{Field: "progress", Message: "Progress is required"},
		})
		return
	}

	var moduleID *uuid.UUID
	if req.ModuleID != nil && *req.ModuleID != "" {
		parsed, err := uuid.Parse(*req.ModuleID)
		if err != nil {
			respondValidation(c, []FieldError{
				{Field: "module_id", Message: "Invalid module ID"},
			})
			return
		}
		moduleID = &parsed
	}

	var enrollment models.UserTraining
	if err := h.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Not enrolled in this course")
			return
		}
		h.logger.Error("Failed to load enrollment", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	now := time.Now().UTC()
	progress := *req.Progress
	completed := progress >= 100

	updates := map[string]interface{}{
		"progress":      progress,
		"completed":     completed,
		"last_accessed": now,
	}
	if completed && !enrollment.Completed {
		updates["completed_at"] = now
	} else if !completed {
		updates["completed_at"] = nil
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&enrollment).Updates(updates).Error; err != nil {
			return err
		}

		if moduleID != nil {
			record := models.UserModuleProgress{
				UserID:      userID,
				ModuleID:    *moduleID,
				Completed:   true,
				CompletedAt: &now,
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"completed":    true,
					"completed_at": now,
				}),
			}).Create(&record).Error
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Failed to update progress", zap.Error(err),
			zap.String("user_id", userID.String()), zap.String("course_id", courseID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	respondOK(c, gin.H{
		"message": "Progress updated",
		"data": gin.H{
			"progress":  progress,
			"completed": completed,
		},
	})
}

// MyCourses lists the caller's enrollments, most recently accessed first
// @Summary List own courses
// @Tags training
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/training/my-courses [get]
func (h *TrainingHandler) MyCourses(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var enrollments []models.UserTraining
	if err := h.db.
		Where("user_id = ?", userID).
		Preload("Course").
		Order("last_accessed DESC").
		Find(&enrollments).Error; err != nil {
		h.logger.Error("Failed to load enrollments", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load courses")
		return
	}

	respondOK(c, gin.H{"data": enrollments})
}

// ListCategories returns the fixed course category catalog
// @Summary List training categories
// @Tags training
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/training/categories [get]
func (h *TrainingHandler) ListCategories(c *gin.Context) {
	respondOK(c, gin.H{"data": models.TrainingCategories})
}

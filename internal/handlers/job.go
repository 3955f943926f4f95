package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"jobready-portal/internal/database"
	"jobready-portal/internal/middleware"
	"jobready-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobHandler serves job listing, detail, application and bookmark endpoints
type JobHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(db *gorm.DB, logger *zap.Logger) *JobHandler {
	return &JobHandler{db: db, logger: logger}
}

type ApplyRequest struct {
	CVID        string `json:"cv_id"`
	CoverLetter string `json:"cover_letter"`
}

// JobListItem is a posting plus the caller's relationship to it. The flags
// are omitted entirely for anonymous callers.
type JobListItem struct {
	models.Job
	HasApplied *bool `json:"has_applied,omitempty"`
	IsSaved    *bool `json:"is_saved,omitempty"`
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

// ListJobs returns active, open postings matching the query filters
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Param search query string false "Title, company or description substring"
// @Param location query string false "Location substring"
// @Param jobType query string false "full-time, part-time, contract or temporary"
// @Param minSalary query number false "Minimum salary"
// @Param maxSalary query number false "Maximum salary"
// @Param language query string false "Posting language"
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size, 1 to 50"
// @Success 200 {object} map[string]interface{}
// @Router /api/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, limit := parsePagination(c)
	now := time.Now().UTC()

	query := h.db.Model(&models.Job{}).
		Where("is_active = ?", true).
		Where("application_deadline >= ?", now)

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR company_name LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
	}
	if jobType := c.Query("jobType"); jobType != "" {
		if !models.IsValidJobType(jobType) {
			respondValidation(c, []FieldError{
				{Field: "jobType", Message: "Invalid job type"},
			})
			return
		}
		query = query.Where("job_type = ?", jobType)
	}
	if minSalary := c.Query("minSalary"); minSalary != "" {
		value, err := strconv.ParseFloat(minSalary, 64)
		if err != nil {
			respondValidation(c, []FieldError{
				{Field: "minSalary", Message: "Minimum salary must be a number"},
			})
			return
		}
		query = query.Where("salary_max >= ?", value)
	}
	if maxSalary := c.Query("maxSalary"); maxSalary != "" {
		value, err := strconv.ParseFloat(maxSalary, 64)
		if err != nil {
			respondValidation(c, []FieldError{
				{Field: "maxSalary", Message: "Maximum salary must be a number"},
			})
			return
		}
		query = query.Where("salary_min <= ?", value)
	}
	if language := c.Query("language"); language != "" {
		query = query.Where("language = ?", language)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("Failed to count jobs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load jobs")
		return
	}

	var jobs []models.Job
	if err := query.
		Order("posted_date DESC").
		Scopes(database.Paginate(page, limit)).
		Find(&jobs).Error; err != nil {
		h.logger.Error("Failed to load jobs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load jobs")
		return
	}

	items := make([]JobListItem, len(jobs))
	for i := range jobs {
		items[i] = JobListItem{Job: jobs[i]}
	}

	if userID, ok := middleware.CurrentUserID(c); ok && len(jobs) > 0 {
		jobIDs := make([]uuid.UUID, len(jobs))
		for i := range jobs {
			jobIDs[i] = jobs[i].ID
		}

		var appliedIDs []uuid.UUID
		if err := h.db.Model(&models.JobApplication{}).
			Where("user_id = ? AND job_id IN ?", userID, jobIDs).
			Pluck("job_id", &appliedIDs).Error; err != nil {
			h.logger.Error("Failed to load applied flags", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to load jobs")
			return
		}

		var savedIDs []uuid.UUID
		if err := h.db.Model(&models.SavedJob{}).
			Where("user_id = ? AND job_id IN ?", userID, jobIDs).
			Pluck("job_id", &savedIDs).Error; err != nil {
			h.logger.Error("Failed to load saved flags", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to load jobs")
			return
		}

		applied := make(map[uuid.UUID]bool, len(appliedIDs))
		for _, id := range appliedIDs {
			applied[id] = true
		}
		saved := make(map[uuid.UUID]bool, len(savedIDs))
		for _, id := range savedIDs {
			saved[id] = true
		}

		for i := range items {
			hasApplied := applied[items[i].ID]
			isSaved := saved[items[i].ID]
			items[i].HasApplied = &hasApplied
			items[i].IsSaved = &isSaved
		}
	}

	respondOK(c, gin.H{
		"data":       items,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// GetJob returns a single posting and bumps its view counter. The counter
// is advisory; an increment failure never fails the read.
// @Summary Get job detail
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	var job models.Job
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("Failed to load job", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load job")
		return
	}

	if err := h.db.Model(&models.Job{}).
		Where("id = ?", jobID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		h.logger.Warn("Failed to increment view count", zap.Error(err), zap.String("job_id", jobID.String()))
	} else {
		job.ViewCount++
	}

	item := JobListItem{Job: job}
	if userID, ok := middleware.CurrentUserID(c); ok {
		var count int64
		hasApplied := false
		if err := h.db.Model(&models.JobApplication{}).
			Where("user_id = ? AND job_id = ?", userID, jobID).
			Count(&count).Error; err == nil {
			hasApplied = count > 0
		}
		isSaved := false
		if err := h.db.Model(&models.SavedJob{}).
			Where("user_id = ? AND job_id = ?", userID, jobID).
			Count(&count).Error; err == nil {
			isSaved = count > 0
		}
		item.HasApplied = &hasApplied
		item.IsSaved = &isSaved
	}

	respondOK(c, gin.H{"data": item})
}

// Apply submits an application for a job with one of the caller's CVs
// @Summary Apply to a job
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body ApplyRequest true "Application data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/jobs/{id}/apply [post]
func (h *JobHandler) Apply(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	cvID, err := uuid.Parse(req.CVID)
	if err != nil {
		respondValidation(c, []FieldError{
			{Field: "cv_id", Message: "A CV is required to apply"},
		})
		return
	}

	var job models.Job
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("Failed to load job", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	// Deadline is checked before the active flag so an expired posting
	// reports 400 even after being deactivated
	if job.DeadlinePassed(time.Now().UTC()) {
		respondError(c, http.StatusBadRequest, "Application deadline has passed")
		return
	}
	if !job.IsActive {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	var existing int64
	if err := h.db.Model(&models.JobApplication{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&existing).Error; err != nil {
		h.logger.Error("Failed to check existing application", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}
	if existing > 0 {
		respondError(c, http.StatusConflict, "You have already applied to this job")
		return
	}

	var cvCount int64
	if err := h.db.Model(&models.CV{}).
		Where("id = ? AND user_id = ?", cvID, userID).
		Count(&cvCount).Error; err != nil {
		h.logger.Error("Failed to check CV ownership", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}
	if cvCount == 0 {
		respondError(c, http.StatusNotFound, "CV not found")
		return
	}

	application := models.JobApplication{
		JobID:       jobID,
		UserID:      userID,
		CVID:        cvID,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusPending,
		AppliedAt:   time.Now().UTC(),
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&application).Error; err != nil {
			return err
		}
		return tx.Model(&models.Job{}).
			Where("id = ?", jobID).
			UpdateColumn("application_count", gorm.Expr("application_count + 1")).Error
	})
	if err != nil {
		h.logger.Error("Failed to create application", zap.Error(err),
			zap.String("user_id", userID.String()), zap.String("job_id", jobID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	h.logger.Info("Application submitted",
		zap.String("user_id", userID.String()), zap.String("job_id", jobID.String()))

	respondCreated(c, gin.H{
		"message": "Application submitted",
		"data": gin.H{
			"application_id": application.ID,
		},
	})
}

// ToggleSave bookmarks a job, or removes the bookmark if one exists
// @Summary Save or unsave a job
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/jobs/{id}/save [post]
func (h *JobHandler) ToggleSave(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	var jobCount int64
	if err := h.db.Model(&models.Job{}).Where("id = ?", jobID).Count(&jobCount).Error; err != nil {
		h.logger.Error("Failed to check job", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save job")
		return
	}
	if jobCount == 0 {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	var saved models.SavedJob
	err = h.db.Where("user_id = ? AND job_id = ?", userID, jobID).First(&saved).Error
	if err == nil {
		if err := h.db.Delete(&saved).Error; err != nil {
			h.logger.Error("Failed to unsave job", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to save job")
			return
		}
		respondOK(c, gin.H{
			"message": "Job removed from saved jobs",
			"data":    gin.H{"saved": false},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("Failed to check saved job", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save job")
		return
	}

	saved = models.SavedJob{
		JobID:   jobID,
		UserID:  userID,
		SavedAt: time.Now().UTC(),
	}
	if err := h.db.Create(&saved).Error; err != nil {
		h.logger.Error("Failed to save job", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to save job")
		return
	}

	respondOK(c, gin.H{
		"message": "Job saved",
		"data":    gin.H{"saved": true},
	})
}

// MyApplications lists the caller's applications, newest first
// @Summary List own applications
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, reviewed, shortlisted, rejected or accepted"
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size, 1 to 50"
// @Success 200 {object} map[string]interface{}
// @Router /api/jobs/applications/my [get]
func (h *JobHandler) MyApplications(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, limit := parsePagination(c)

	query := h.db.Model(&models.JobApplication{}).Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		if !models.IsValidApplicationStatus(status) {
			respondValidation(c, []FieldError{
				{Field: "status", Message: "Invalid application status"},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("Failed to count applications", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load applications")
		return
	}

	var applications []models.JobApplication
	if err := query.
		Preload("Job").
		Order("applied_at DESC").
		Scopes(database.Paginate(page, limit)).
		Find(&applications).Error; err != nil {
		h.logger.Error("Failed to load applications", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load applications")
		return
	}

	respondOK(c, gin.H{
		"data":       applications,
		"pagination": database.CalculatePagination(page, limit, total),
	})
}

// MySavedJobs lists the caller's bookmarks whose postings are still active
// @Summary List own saved jobs
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/jobs/saved/my [get]
func (h *JobHandler) MySavedJobs(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var saved []models.SavedJob
	if err := h.db.
		Joins("JOIN jobs ON jobs.id = saved_jobs.job_id").
		Where("saved_jobs.user_id = ? AND jobs.is_active = ?", userID, true).
		Preload("Job").
		Order("saved_jobs.saved_at DESC").
		Find(&saved).Error; err != nil {
		h.logger.Error("Failed to load saved jobs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load saved jobs")
		return
	}

	respondOK(c, gin.H{"data": saved})
}

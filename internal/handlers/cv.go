package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobready-portal/internal/middleware"
	"jobready-portal/internal/models"
	"jobready-portal/internal/pdf"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CVHandler serves the CV builder endpoints
type CVHandler struct {
	db       *gorm.DB
	logger   *zap.Logger
	renderer *pdf.Renderer
}

// NewCVHandler creates a new CV handler
func NewCVHandler(db *gorm.DB, logger *zap.Logger) *CVHandler {
	return &CVHandler{
		db:       db,
		logger:   logger,
		renderer: pdf.NewRenderer(),
	}
}

type CreateCVRequest struct {
	Title        string `json:"title"`
	Language     string `json:"language"`
	Template     string `json:"template"`
	PersonalInfo string `json:"personal_info"`
	IsDefault    bool   `json:"is_default"`
}

type UpdateCVRequest struct {
	Title        *string `json:"title"`
	PersonalInfo *string `json:"personal_info"`
	Template     *string `json:"template"`
}

type AddEducationRequest struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartYear   int    `json:"start_year"`
	EndYear     *int   `json:"end_year"`
	Description string `json:"description"`
}

type AddExperienceRequest struct {
	Company      string  `json:"company"`
	Position     string  `json:"position"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Description  string  `json:"description"`
	IsCurrentJob bool    `json:"is_current_job"`
}

type SkillEntry struct {
	SkillName        string `json:"skill_name"`
	ProficiencyLevel string `json:"proficiency_level"`
}

type ReplaceSkillsRequest struct {
	Skills []SkillEntry `json:"skills"`
}

func isValidTemplate(t string) bool {
	switch t {
	case models.CVTemplateModern, models.CVTemplateClassic, models.CVTemplateCreative:
		return true
	}
	return false
}

// loadOwnedCV fetches a CV by id for the given owner. Not-owned and absent
// are indistinguishable to the caller.
func (h *CVHandler) loadOwnedCV(c *gin.Context, userID uuid.UUID, preload bool) (*models.CV, bool) {
	cvID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "CV not found")
		return nil, false
	}

	query := h.db.Where("id = ? AND user_id = ?", cvID, userID)
	if preload {
		query = query.
			Preload("Education", func(db *gorm.DB) *gorm.DB { return db.Order("start_year DESC") }).
			Preload("Experience", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC") }).
			Preload("Skills").
			Preload("Languages").
			Preload("References")
	}

	var cv models.CV
	if err := query.First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "CV not found")
			return nil, false
		}
		h.logger.Error("Failed to load CV", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load CV")
		return nil, false
	}

	return &cv, true
}

func (h *CVHandler) touchCV(cvID uuid.UUID) {
	if err := h.db.Model(&models.CV{}).
		Where("id = ?", cvID).
		UpdateColumn("updated_at", time.Now().UTC()).Error; err != nil {
		h.logger.Warn("Failed to touch CV timestamp", zap.Error(err), zap.String("cv_id", cvID.String()))
	}
}

// ListCVs returns the caller's CVs, default CV first then newest first
// @Summary List own CVs
// @Tags cv
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/cv [get]
func (h *CVHandler) ListCVs(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var cvs []models.CV
	if err := h.db.
		Where("user_id = ?", userID).
		Order("is_default DESC, updated_at DESC").
		Find(&cvs).Error; err != nil {
		h.logger.Error("Failed to load CVs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load CVs")
		return
	}

	respondOK(c, gin.H{"data": cvs})
}

// GetCV returns a full CV with all sections
// @Summary Get a CV
// @Tags cv
// @Security BearerAuth
// @Produce json
// @Param id path string true "CV ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/cv/{id} [get]
func (h *CVHandler) GetCV(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	cv, ok := h.loadOwnedCV(c, userID, true)
	if !ok {
		return
	}

	respondOK(c, gin.H{"data": cv})
}

// CreateCV creates a new CV document
// @Summary Create a CV
// @Tags cv
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateCVRequest true "CV data"
// @Success 201 {object} map[string]interface{}
// @Router /api/cv [post]
func (h *CVHandler) CreateCV(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fieldErrors []FieldError
	if req.Title == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "title", Message: "Title is required"})
	}
	if req.Language != "" && !models.IsSupportedLanguage(req.Language) {
		fieldErrors = append(fieldErrors, FieldError{Field: "language", Message: "Unsupported language"})
	}
	if req.Template != "" && !isValidTemplate(req.Template) {
		fieldErrors = append(fieldErrors, FieldError{Field: "template", Message: "Unknown template"})
	}
	if len(fieldErrors) > 0 {
		respondValidation(c, fieldErrors)
		return
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	cv := models.CV{
		UserID:       userID,
		Title:        req.Title,
		Language:     language,
		Template:     req.Template,
		PersonalInfo: req.PersonalInfo,
		IsDefault:    req.IsDefault,
	}

	if err := h.db.Create(&cv).Error; err != nil {
		h.logger.Error("Failed to create CV", zap.Error(err), zap.String("user_id", userID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to create CV")
		return
	}

	respondCreated(c, gin.H{
		"message": "CV created",
		"data":    gin.H{"cv_id": cv.ID},
	})
}

// UpdateCV partially updates a CV. The timestamp is only touched when at
// least one field is supplied.
// @Summary Update a CV
// @Tags cv
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "CV ID"
// @Param request body UpdateCVRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/cv/{id} [put]
func (h *CVHandler) UpdateCV(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Template != nil && !isValidTemplate(*req.Template) {
		respondValidation(c, []FieldError{
			{Field: "template", Message: "Unknown template"},
		})
		return
	}

	cv, ok := h.loadOwnedCV(c, userID, false)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.PersonalInfo != nil {
		updates["personal_info"] = *req.PersonalInfo
	}
	if req.Template != nil {
		updates["template"] = *req.Template
	}

	if len(updates) > 0 {
		if err := h.db.Model(cv).Updates(updates).Error; err != nil {
			h.logger.Error("Failed to update CV", zap.Error(err), zap.String("cv_id", cv.ID.String()))
			respondError(c, http.StatusInternalServerError, "Failed to update CV")
			return
		}
	}

	respondOK(c, gin.H{"message": "CV updated"})
}

// DeleteCV removes a CV and all of its sections
// @Summary Delete a CV
// @Tags cv
// @Security BearerAuth
// @Produce json
// @Param id path string true "CV ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/cv/{id} [delete]
func (h *CVHandler) DeleteCV(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	cv, ok := h.loadOwnedCV(c, userID, false)
	if !ok {
		return
	}

	// Child rows are removed explicitly so SQLite setups without foreign
	// key enforcement stay consistent
	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.CVEducation{}, &models.CVExperience{}, &models.CVSkill{},
			&models.CVLanguage{}, &models.CVReference{},
		} {
			if err := tx.Where("cv_id = ?", cv.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(cv).Error
	})
	if err != nil {
		h.logger.Error("Failed to delete CV", zap.Error(err), zap.String("cv_id", cv.ID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to delete CV")
		return
	}

	respondOK(c, gin.H{"message": "CV deleted"})
}

// AddEducation appends an education entry to a CV
// @Summary Add education to a CV
// @Tags cv
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "CV ID"
// @Param request body AddEducationRequest true "Education entry"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/cv/{id}/education [post]
func (h *CVHandler) AddEducation(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fieldErrors []FieldError
	if req.Institution == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "institution", Message: "Institution is required"})
	}
	if req.Degree == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "degree", Message: "Degree is required"})
	}
	if req.StartYear == 0 {
		fieldErrors = append(fieldErrors, FieldError{Field: "start_year", Message: "Start year is required"})
	}
	if len(fieldErrors) > 0 {
		respondValidation(c, fieldErrors)
		return
	}

	cv, ok := h.loadOwnedCV(c, userID, false)
	if !ok {
		return
	}

	entry := models.CVEducation{
		CVID:        cv.ID,
		Institution: req.Institution,
		Degree:      req.Degree,
		StartYear:   req.StartYear,
		EndYear:     req.EndYear,
		Description: req.Description,
	}

	if err := h.db.Create(&entry).Error; err != nil {
		h.logger.Error("Failed to add education", zap.Error(err), zap.String("cv_id", cv.ID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to add education")
		return
	}
	h.touchCV(cv.ID)

	respondCreated(c, gin.H{
		"message": "Education added",
		"data":    gin.H{"entry_id": entry.ID},
	})
}

// AddExperience appends a work-experience entry to a CV
// @Summary Add experience to a CV
// @Tags cv
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "CV ID"
// @Param request body AddExperienceRequest true "Experience entry"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/cv/{id}/experience [post]
func (h *CVHandler) AddExperience(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fieldErrors []FieldError
	if req.Company == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "company", Message: "Company is required"})
	}
	if req.Position == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "position", Message: "Position is required"})
	}

	var startDate time.Time
	if req.StartDate == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "start_date", Message: "Start date is required"})
	} else {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "start_date", Message: "Start date must use YYYY-MM-DD"})
		} else {
			startDate = parsed
		}
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "end_date", Message: "End date must use YYYY-MM-DD"})
		} else {
			endDate = &parsed
		}
	}

	if len(fieldErrors) > 0 {
		respondValidation(c, fieldErrors)
		return
	}

	cv, ok := h.loadOwnedCV(c, userID, false)
	if !ok {
		return
	}

	entry := models.CVExperience{
		CVID:        cv.ID,
		Company:     req.Company,
		Position:    req.Position,
		StartDate:   startDate,
		EndDate:     endDate,
		Description: req.Description,
		IsCurrent:   req.IsCurrentJob,
	}

	if err := h.db.Create(&entry).Error; err != nil {
		h.logger.Error("Failed to add experience", zap.Error(err), zap.String("cv_id", cv.ID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to add experience")
		return
	}
	h.touchCV(cv.ID)

	respondCreated(c, gin.H{
		"message": "Experience added",
		"data":    gin.H{"entry_id": entry.ID},
	})
}

// ReplaceSkills replaces the CV's skill set wholesale. An empty list
// clears all skills.
// @Summary Replace CV skills
// @Tags cv
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "CV ID"
// @Param request body ReplaceSkillsRequest true "Complete skill set"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/cv/{id}/skills [post]
func (h *CVHandler) ReplaceSkills(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ReplaceSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, skill := range req.Skills {
		if skill.SkillName == "" {
			respondValidation(c, []FieldError{
				{Field: "skills", Message: "Every skill needs a name"},
			})
			return
		}
	}

	cv, ok := h.loadOwnedCV(c, userID, false)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cv_id = ?", cv.ID).Delete(&models.CVSkill{}).Error; err != nil {
			return err
		}
		if len(req.Skills) == 0 {
			return nil
		}
		rows := make([]models.CVSkill, len(req.Skills))
		for i, skill := range req.Skills {
			rows[i] = models.CVSkill{
				CVID:             cv.ID,
				SkillName:        skill.SkillName,
				ProficiencyLevel: skill.ProficiencyLevel,
			}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		h.logger.Error("Failed to replace skills", zap.Error(err), zap.String("cv_id", cv.ID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to update skills")
		return
	}
	h.touchCV(cv.ID)

	respondOK(c, gin.H{"message": "Skills updated"})
}

// DownloadCV renders the CV as a PDF attachment
// @Summary Download a CV as PDF
// @Tags cv
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "CV ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /api/cv/{id}/download [get]
func (h *CVHandler) DownloadCV(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	cv, ok := h.loadOwnedCV(c, userID, true)
	if !ok {
		return
	}

	document, err := h.renderer.Render(cv)
	if err != nil {
		h.logger.Error("Failed to render CV PDF", zap.Error(err), zap.String("cv_id", cv.ID.String()))
		respondError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	filename := fmt.Sprintf("cv-%s.pdf", cv.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", document)
}

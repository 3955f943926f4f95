package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"jobready-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gorm.io/gorm"
)

// TranslationHandler serves placeholder machine-translation endpoints.
// Translations are tagged rather than translated until a real backend
// is connected.
type TranslationHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(db *gorm.DB, logger *zap.Logger) *TranslationHandler {
	return &TranslationHandler{db: db, logger: logger}
}

type TranslateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type TranslateBatchRequest struct {
	Texts          []string `json:"texts"`
	SourceLanguage string   `json:"source_language"`
	TargetLanguage string   `json:"target_language"`
}

type DetectRequest struct {
	Text string `json:"text"`
}

type TranslateJobRequest struct {
	JobID          string `json:"job_id"`
	TargetLanguage string `json:"target_language"`
}

func translateText(text, source, target string) string {
	if source == target {
		return text
	}
	return fmt.Sprintf("[Translation to %s]: %s", target, text)
}

// Translate returns a tagged placeholder translation of one text
// @Summary Translate text
// @Tags translation
// @Accept json
// @Produce json
// @Param request body TranslateRequest true "Text and language pair"
// @Success 200 {object} map[string]interface{}
// @Router /api/translation/translate [post]
func (h *TranslationHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fieldErrors []FieldError
	if req.Text == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "text", Message: "Text is required"})
	}
	if !models.IsSupportedLanguage(req.TargetLanguage) {
		fieldErrors = append(fieldErrors, FieldError{Field: "target_language", Message: "Unsupported language"})
	}
	if req.SourceLanguage != "" && !models.IsSupportedLanguage(req.SourceLanguage) {
		fieldErrors = append(fieldErrors, FieldError{Field: "source_language", Message: "Unsupported language"})
	}
	if len(fieldErrors) > 0 {
		respondValidation(c, fieldErrors)
		return
	}

	source := req.SourceLanguage
	if source == "" {
		source = "en"
	}

	respondOK(c, gin.H{
		"data": gin.H{
			"original_text":   req.Text,
			"translated_text": translateText(req.Text, source, req.TargetLanguage),
			"source_language": source,
			"target_language": req.TargetLanguage,
			"note":            "Machine translation service pending integration",
		},
	})
}

// TranslateBatch translates a list of texts
// @Summary Translate a batch of texts
// @Tags translation
// @Accept json
// @Produce json
// @Param request body TranslateBatchRequest true "Texts and language pair"
// @Success 200 {object} map[string]interface{}
// @Router /api/translation/translate-batch [post]
func (h *TranslationHandler) TranslateBatch(c *gin.Context) {
	var req TranslateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fieldErrors []FieldError
	if len(req.Texts) == 0 {
		fieldErrors = append(fieldErrors, FieldError{Field: "texts", Message: "At least one text is required"})
	}
	if !models.IsSupportedLanguage(req.TargetLanguage) {
		fieldErrors = append(fieldErrors, FieldError{Field: "target_language", Message: "Unsupported language"})
	}
	if len(fieldErrors) > 0 {
		respondValidation(c, fieldErrors)
		return
	}

	source := req.SourceLanguage
	if source == "" {
		source = "en"
	}

	translations := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		translations[i] = translateText(text, source, req.TargetLanguage)
	}

	respondOK(c, gin.H{
		"data": gin.H{
			"translations":    translations,
			"source_language": source,
			"target_language": req.TargetLanguage,
		},
	})
}

// Detect returns a placeholder language detection result
// @Summary Detect text language
// @Tags translation
// @Accept json
// @Produce json
// @Param request body DetectRequest true "Text"
// @Success 200 {object} map[string]interface{}
// @Router /api/translation/detect [post]
func (h *TranslationHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		respondValidation(c, []FieldError{
			{Field: "text", Message: "Text is required"},
		})
		return
	}

	respondOK(c, gin.H{
		"data": gin.H{
			"language":   "en",
			"confidence": 0.95,
		},
	})
}

// TranslateJob returns a posting with tagged translations of its text fields
// @Summary Translate a job posting
// @Tags translation
// @Accept json
// @Produce json
// @Param request body TranslateJobRequest true "Job and target language"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/translation/translate-job [post]
func (h *TranslationHandler) TranslateJob(c *gin.Context) {
	var req TranslateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !models.IsSupportedLanguage(req.TargetLanguage) {
		respondValidation(c, []FieldError{
			{Field: "target_language", Message: "Unsupported language"},
		})
		return
	}

	jobID, err := uuid.Parse(req.JobID)
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
		respondError(c, http.StatusInternalServerError, "Failed to translate job")
		return
	}

	respondOK(c, gin.H{
		"data": gin.H{
			"job_id":          job.ID,
			"source_language": job.Language,
			"target_language": req.TargetLanguage,
			"original": gin.H{
				"title":            job.Title,
				"description":      job.Description,
				"requirements":     job.Requirements,
				"responsibilities": job.Responsibilities,
			},
			"translated": gin.H{
				"title":            translateText(job.Title, job.Language, req.TargetLanguage),
				"description":      translateText(job.Description, job.Language, req.TargetLanguage),
				"requirements":     translateText(job.Requirements, job.Language, req.TargetLanguage),
				"responsibilities": translateText(job.Responsibilities, job.Language, req.TargetLanguage),
			},
		},
	})
}

// ListLanguages returns the supported languages with English and native
// display names
// @Summary List supported languages
// @Tags translation
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/translation/languages [get]
func (h *TranslationHandler) ListLanguages(c *gin.Context) {
	english := display.English.Languages()

	languages := make([]gin.H, 0, len(models.SupportedLanguages))
	for _, code := range models.SupportedLanguages {
		tag := language.MustParse(code)
		languages = append(languages, gin.H{
			"code":        code,
			"name":        english.Name(tag),
			"native_name": display.Self.Name(tag),
		})
	}

	respondOK(c, gin.H{"data": languages})
}

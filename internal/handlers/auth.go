package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"jobready-portal/internal/middleware"
	"jobready-portal/internal/models"
	"jobready-portal/pkg/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// South African local format: leading zero plus nine digits
var phonePattern = regexp.MustCompile(`^0\d{9}$`)

// AuthHandler handles registration, login and token verification
type AuthHandler struct {
	db         *gorm.DB
	logger     *zap.Logger
	jwtService *auth.JWTService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, logger *zap.Logger, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		db:         db,
		logger:     logger,
		jwtService: jwtService,
	}
}

type RegisterRequest struct {
	FullName          string  `json:"full_name"`
	Phone             string  `json:"phone"`
	Email             *string `json:"email"`
	Password          string  `json:"password"`
	PreferredLanguage string  `json:"preferred_language"`
	Location          string  `json:"location"`
	DateOfBirth       *string `json:"date_of_birth"`
	IDNumber          string  `json:"id_number"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a new user account
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fieldErrors []FieldError
	if req.FullName == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "full_name", Message: "Full name is required"})
	}
	if !phonePattern.MatchString(req.Phone) {
		fieldErrors = append(fieldErrors, FieldError{Field: "phone", Message: "Phone number must start with 0 and contain 10 digits"})
	}
	if len(req.Password) < 6 {
		fieldErrors = append(fieldErrors, FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if req.PreferredLanguage != "" && !models.IsSupportedLanguage(req.PreferredLanguage) {
		fieldErrors = append(fieldErrors, FieldError{Field: "preferred_language", Message: "Unsupported language"})
	}
	if req.Location == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "location", Message: "Location is required"})
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "date_of_birth", Message: "Date of birth must use YYYY-MM-DD"})
		} else {
			dateOfBirth = &parsed
		}
	}

	if len(fieldErrors) > 0 {
		respondValidation(c, fieldErrors)
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("phone = ?", req.Phone).Count(&count).Error; err != nil {
		h.logger.Error("Failed to check phone uniqueness", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "Phone number already registered")
		return
	}

	if req.Email != nil && *req.Email != "" {
		if err := h.db.Model(&models.User{}).Where("email = ?", *req.Email).Count(&count).Error; err != nil {
			h.logger.Error("Failed to check email uniqueness", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Registration failed")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, "Email already registered")
			return
		}
	}

	language := req.PreferredLanguage
	if language == "" {
		language = "en"
	}

	var email *string
	if req.Email != nil && *req.Email != "" {
		email = req.Email
	}

	user := models.User{
		FullName:          req.FullName,
		Phone:             req.Phone,
		Email:             email,
		Password:          req.Password,
		PreferredLanguage: language,
		Location:          req.Location,
		DateOfBirth:       dateOfBirth,
		IDNumber:          req.IDNumber,
	}

	if err := h.db.Create(&user).Error; err != nil {
		h.logger.Error("Failed to create user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.Error(err), zap.String("user_id", user.ID.String()))
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID.String()))

	respondCreated(c, gin.H{
		"message": "Registration successful",
		"data": gin.H{
			"user_id":  user.ID,
			"token":    token,
			"language": user.PreferredLanguage,
		},
	})
}

// Login authenticates a user by phone number and password
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Phone == "" || req.Password == "" {
		respondValidation(c, []FieldError{
			{Field: "phone", Message: "Phone number and password are required"},
		})
		return
	}

	// Same message for unknown phone and wrong password
	var user models.User
	err := h.db.Where("phone = ?", req.Phone).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Error("Failed to look up user", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Login failed")
			return
		}
		respondError(c, http.StatusUnauthorized, "Invalid phone number or password")
		return
	}

	if !user.CheckPassword(req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid phone number or password")
		return
	}

	now := time.Now().UTC()
	if err := h.db.Model(&user).Update("last_login", now).Error; err != nil {
		h.logger.Warn("Failed to update last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.Error(err), zap.String("user_id", user.ID.String()))
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	respondOK(c, gin.H{
		"message": "Login successful",
		"data": gin.H{
			"user_id":   user.ID,
			"full_name": user.FullName,
			"token":     token,
			"language":  user.PreferredLanguage,
		},
	})
}

// Verify confirms the bearer token and returns the caller's identity
// @Summary Verify token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, "User no longer exists")
			return
		}
		h.logger.Error("Failed to load user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Verification failed")
		return
	}

	respondOK(c, gin.H{
		"data": gin.H{
			"user_id":   user.ID,
			"full_name": user.FullName,
			"phone":     user.Phone,
			"language":  user.PreferredLanguage,
		},
	})
}

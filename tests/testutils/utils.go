package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobready-portal/config"
	"jobready-portal/internal/database"
	"jobready-portal/internal/models"
	"jobready-portal/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestContext holds common test dependencies
type TestContext struct {
	DB         *gorm.DB
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
}

// SetupTestContext creates a test context backed by a temporary SQLite database
func SetupTestContext(t *testing.T) *TestContext {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	cfg := &config.Config{
		Server: config.ServerConfig{
			Env: "test",
		},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: dbPath,
		},
		JWT: config.JWTConfig{
			Secret: "test-secret-key-for-jwt-tokens",
			Expiry: 7 * 24 * time.Hour,
		},
		Log: config.LogConfig{
			Level:  "silent",
			Format: "json",
		},
		Dev: config.DevConfig{
			AutoMigrate: true,
		},
		RateLimit: config.RateLimitConfig{
			Requests: 1000,
			Window:   60,
		},
		CORS: config.CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
	}

	testLogger := zap.NewNop()

	err := database.Connect(cfg, testLogger)
	require.NoError(t, err)
	require.NotNil(t, database.DB)

	t.Cleanup(func() {
		database.Close()
		database.DB = nil
	})

	return &TestContext{
		DB:         database.DB,
		Config:     cfg,
		Logger:     testLogger,
		JWTService: auth.NewJWTService(cfg),
	}
}

// CreateTestUser creates a user with a unique phone number
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	suffix := uuid.New().String()
	email := "test-" + suffix[:8] + "@example.com"
	user := &models.User{
		FullName:          "Test User",
		Phone:             "08" + digitsFrom(suffix, 8),
		Email:             &email,
		Password:          "password123",
		PreferredLanguage: "en",
		Location:          "Johannesburg",
	}

	err := db.Create(user).Error
	require.NoError(t, err)
	return user
}

// CreateTestJob creates an active job posting with an open deadline
func CreateTestJob(t *testing.T, db *gorm.DB) *models.Job {
	job := &models.Job{
		Title:               "Test Job - " + uuid.New().String()[:8],
		CompanyName:         "Test Company",
		Location:            "Johannesburg, Gauteng",
		JobType:             models.JobTypeFullTime,
		Description:         "A job posting for automated testing",
		Language:            "en",
		PostedDate:          time.Now().UTC(),
		ApplicationDeadline: time.Now().UTC().AddDate(0, 0, 30),
		IsActive:            true,
	}

	err := db.Create(job).Error
	require.NoError(t, err)
	return job
}

// CreateTestCV creates a CV owned by the given user
func CreateTestCV(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.CV {
	cv := &models.CV{
		UserID:       userID,
		Title:        "Test CV",
		Language:     "en",
		PersonalInfo: `{"full_name":"Test User","phone":"0821234567"}`,
	}

	err := db.Create(cv).Error
	require.NoError(t, err)
	return cv
}

// CreateTestCourse creates an active training course with two modules
func CreateTestCourse(t *testing.T, db *gorm.DB) *models.TrainingCourse {
	course := &models.TrainingCourse{
		Title:           "Test Course - " + uuid.New().String()[:8],
		Description:     "A course for automated testing",
		Category:        "digital-literacy",
		DifficultyLevel: "beginner",
		DurationHours:   2,
		Language:        "en",
		IsActive:        true,
		Modules: []models.TrainingModule{
			{Title: "Module One", OrderIndex: 1, DurationMinutes: 30},
			{Title: "Module Two", OrderIndex: 2, DurationMinutes: 45},
		},
	}

	err := db.Create(course).Error
	require.NoError(t, err)
	return course
}

// GenerateAuthToken issues a token for the given user
func GenerateAuthToken(t *testing.T, jwtService *auth.JWTService, userID uuid.UUID) string {
	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// CreateAuthenticatedRequest builds an HTTP request with an optional JSON
// body and bearer token
func CreateAuthenticatedRequest(method, url, body, token string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// ParseJSONResponse parses the recorded response body into target
func ParseJSONResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	err := json.Unmarshal(w.Body.Bytes(), target)
	require.NoError(t, err)
}

// digitsFrom maps a UUID string onto n decimal digits so generated phone
// numbers stay unique across test users
func digitsFrom(s string, n int) string {
	digits := make([]byte, 0, n)
	for i := 0; i < len(s) && len(digits) < n; i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		} else if c >= 'a' && c <= 'f' {
			digits = append(digits, '0'+(c-'a'))
		}
	}
	for len(digits) < n {
		digits = append(digits, '0')
	}
	return string(digits)
}

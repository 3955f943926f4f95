package database

import (
	"path/filepath"
	"testing"

	"jobready-portal/config"
	"jobready-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCalculatePagination(t *testing.T) {
	cases := []struct {
		name  string
		page  int
		limit int
		total int64
		pages int
	}{
		{"exact multiple", 1, 10, 30, 3},
		{"remainder rounds up", 1, 10, 31, 4},
		{"single partial page", 1, 10, 3, 1},
		{"empty result", 1, 10, 0, 0},
		{"limit one", 2, 1, 5, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := CalculatePagination(tc.page, tc.limit, tc.total)
			assert.Equal(t, tc.pages, info.Pages)
			assert.Equal(t, tc.total, info.Total)
		})
	}
}

func TestCalculatePaginationNormalizesInput(t *testing.T) {
	info := CalculatePagination(0, 0, 25)
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 3, info.Pages)
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "test.db"),
		},
		Log: config.LogConfig{Level: "silent"},
		Dev: config.DevConfig{AutoMigrate: true},
	}

	require.NoError(t, Connect(cfg, zap.NewNop()))
	t.Cleanup(func() {
		Close()
		DB = nil
	})

	require.NoError(t, IsHealthy())

	// migrated schema accepts writes across the model set
	user := &models.User{
		FullName: "Test User",
		Phone:    "0821234567",
		Password: "secret1",
		Location: "Johannesburg",
	}
	require.NoError(t, DB.Create(user).Error)

	var count int64
	require.NoError(t, DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "oracle"},
	}
	err := Connect(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

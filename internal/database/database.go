package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"jobready-portal/config"
	"jobready-portal/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes the database connection and configures the pool.
// The pool is bounded; when it is exhausted requests fail instead of
// queuing without limit.
func Connect(cfg *config.Config, zapLogger *zap.Logger) error {
	var err error
	var db *gorm.DB

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  getLogLevel(cfg.Log.Level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  cfg.IsDevelopment(),
		},
	)

	gormConfig := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	switch cfg.Database.Driver {
	case "postgres":
		dsn := cfg.GetDSN()
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		zapLogger.Info("Connected to PostgreSQL database")

	case "sqlite":
		if err := ensureDir(filepath.Dir(cfg.Database.SQLitePath)); err != nil {
			return fmt.Errorf("failed to create SQLite directory: %w", err)
		}

		db, err = gorm.Open(sqlite.Open(cfg.Database.SQLitePath), gormConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		zapLogger.Info("Connected to SQLite database", zap.String("path", cfg.Database.SQLitePath))

		// Enable foreign key constraints for SQLite
		db.Exec("PRAGMA foreign_keys = ON;")

	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	maxOpen := cfg.Database.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.Database.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	if cfg.Dev.AutoMigrate {
		if err := AutoMigrate(); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		zapLogger.Info("Database auto-migration completed")
	}

	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	tables := []interface{}{
		&models.User{},
		&models.Job{},
		&models.JobApplication{},
		&models.SavedJob{},
		&models.CV{},
		&models.CVEducation{},
		&models.CVExperience{},
		&models.CVSkill{},
		&models.CVLanguage{},
		&models.CVReference{},
		&models.TrainingCourse{},
		&models.TrainingModule{},
		&models.UserTraining{},
		&models.UserModuleProgress{},
	}

	for _, table := range tables {
		if err := DB.AutoMigrate(table); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", table, err)
		}
	}

	if err := createCustomIndexes(); err != nil {
		return fmt.Errorf("failed to create custom indexes: %w", err)
	}

	return nil
}

// createCustomIndexes creates indexes for the hot list queries
func createCustomIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_jobs_active_deadline_posted ON jobs(is_active, application_deadline, posted_date DESC);",
		"CREATE INDEX IF NOT EXISTS idx_applications_user_applied_at ON job_applications(user_id, applied_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_saved_jobs_user_saved_at ON saved_jobs(user_id, saved_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_cvs_user_updated_at ON cvs(user_id, updated_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_user_training_user_last_accessed ON user_trainings(user_id, last_accessed DESC);",
	}

	for _, indexSQL := range indexes {
		if err := DB.Exec(indexSQL).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, error: %v", indexSQL, err)
		}
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// IsHealthy checks if the database connection is healthy
func IsHealthy() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// Paginate creates a pagination scope for GORM queries
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 {
			page = 1
		}
		if pageSize <= 0 {
			pageSize = 10
		}
		if pageSize > 50 {
			pageSize = 50
		}

		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// CalculatePagination calculates pagination info. Pages is always
// ceil(total/limit) for the same filter set the total was counted with.
func CalculatePagination(page, limit int, total int64) PaginationInfo {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return PaginationInfo{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// getLogLevel converts string log level to GORM log level
func getLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Info
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingCourse is a catalog entry with ordered modules
type TrainingCourse struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"type:text"`
	Category        string    `json:"category" gorm:"not null;index"`
	DifficultyLevel string    `json:"difficulty_level" gorm:""`
	DurationHours   int       `json:"duration_hours" gorm:"not null;default:0"`
	Language        string    `json:"language" gorm:"not null;default:'en'"`
	ThumbnailURL    string    `json:"thumbnail_url" gorm:""`
	IsActive        bool      `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`

	Modules []TrainingModule `json:"modules,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (c *TrainingCourse) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TrainingModule is one unit of a course, ordered by OrderIndex
type TrainingModule struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	CourseID        uuid.UUID `json:"course_id" gorm:"type:char(36);not null;index"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"type:text"`
	OrderIndex      int       `json:"order_index" gorm:"not null;default:0"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null;default:0"`
}

func (m *TrainingModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserTraining tracks one user's enrollment in one course. Completed derives
// from progress reaching 100; CompletedAt is stamped on that transition and
// cleared when progress drops below 100 again.
type UserTraining struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primary_key"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_user_training_user_course"`
	CourseID    uuid.UUID  `json:"course_id" gorm:"type:char(36);not null;uniqueIndex:idx_user_training_user_course"`
	Progress    int        `json:"progress" gorm:"not null;default:0"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time `json:"completed_at" gorm:""`
	EnrolledAt  time.Time  `json:"enrolled_at" gorm:"not null"`
	LastAccess  time.Time  `json:"last_accessed" gorm:"column:last_accessed;not null"`

	Course *TrainingCourse `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (ut *UserTraining) BeforeCreate(tx *gorm.DB) error {
	if ut.ID == uuid.Nil {
		ut.ID = uuid.New()
	}
	return nil
}

// UserModuleProgress marks a module completed for a user; upserted, so
// repeated completions are idempotent
type UserModuleProgress struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primary_key"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_module_progress_user_module"`
	ModuleID    uuid.UUID  `json:"module_id" gorm:"type:char(36);not null;uniqueIndex:idx_module_progress_user_module"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time `json:"completed_at" gorm:""`
}

func (mp *UserModuleProgress) BeforeCreate(tx *gorm.DB) error {
	if mp.ID == uuid.Nil {
		mp.ID = uuid.New()
	}
	return nil
}

// TrainingCategory is a fixed catalog grouping, not computed from data
type TrainingCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// TrainingCategories is the hard-coded category enumeration
var TrainingCategories = []TrainingCategory{
	{ID: "customer-service", Name: "Customer Service", Icon: "briefcase"},
	{ID: "cv-writing", Name: "CV Writing", Icon: "pencil"},
	{ID: "interview-skills", Name: "Interview Skills", Icon: "handshake"},
	{ID: "digital-literacy", Name: "Digital Literacy", Icon: "laptop"},
	{ID: "workplace-skills", Name: "Workplace Skills", Icon: "building"},
	{ID: "language-skills", Name: "Language Skills", Icon: "speech"},
}

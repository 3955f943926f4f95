package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobType string

const (
	JobTypeFullTime  JobType = "full-time"
	JobTypePartTime  JobType = "part-time"
	JobTypeContract  JobType = "contract"
	JobTypeTemporary JobType = "temporary"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
)

// IsValidApplicationStatus reports whether s is a known application status
func IsValidApplicationStatus(s string) bool {
	switch ApplicationStatus(s) {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted,
		ApplicationStatusRejected, ApplicationStatusAccepted:
		return true
	}
	return false
}

// IsValidJobType reports whether s is a known job type
func IsValidJobType(s string) bool {
	switch JobType(s) {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeTemporary:
		return true
	}
	return false
}

// Job represents an employer-posted listing. View and application counters
// are advisory metrics, not authoritative audit data.
type Job struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	Title       string    `json:"title" gorm:"not null"`
	CompanyName string    `json:"company_name" gorm:"not null"`
	Location    string    `json:"location" gorm:"not null"`
	JobType     JobType   `json:"job_type" gorm:"not null"`
	SalaryMin   *float64  `json:"salary_min" gorm:""`
	SalaryMax   *float64  `json:"salary_max" gorm:""`

	Description      string `json:"description" gorm:"type:text"`
	Requirements     string `json:"requirements" gorm:"type:text"`
	Responsibilities string `json:"responsibilities" gorm:"type:text"`
	Language         string `json:"language" gorm:"not null;default:'en'"`

	PostedDate          time.Time `json:"posted_date" gorm:"not null"`
	ApplicationDeadline time.Time `json:"application_deadline" gorm:"not null"`
	IsActive            bool      `json:"is_active" gorm:"not null;default:true"`

	ViewCount        int `json:"view_count" gorm:"not null;default:0"`
	ApplicationCount int `json:"application_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// DeadlinePassed reports whether the application deadline is in the past
func (j *Job) DeadlinePassed(now time.Time) bool {
	return j.ApplicationDeadline.Before(now)
}

// JobApplication links a user, a job and the CV snapshot the user applied
// with. At most one application exists per (user, job) pair.
type JobApplication struct {
	ID          uuid.UUID         `json:"id" gorm:"type:char(36);primary_key"`
	JobID       uuid.UUID         `json:"job_id" gorm:"type:char(36);not null;uniqueIndex:idx_applications_job_user"`
	UserID      uuid.UUID         `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_applications_job_user"`
	CVID        uuid.UUID         `json:"cv_id" gorm:"type:char(36);not null"`
	CoverLetter string            `json:"cover_letter" gorm:"type:text"`
	Status      ApplicationStatus `json:"status" gorm:"not null;default:'pending'"`
	AppliedAt   time.Time         `json:"applied_at" gorm:"not null"`

	Job *Job `json:"job,omitempty" gorm:"foreignKey:JobID"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// SavedJob is a user's bookmark on a posting, toggled on and off
type SavedJob struct {
	ID      uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	JobID   uuid.UUID `json:"job_id" gorm:"type:char(36);not null;uniqueIndex:idx_saved_jobs_job_user"`
	UserID  uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_saved_jobs_job_user"`
	SavedAt time.Time `json:"saved_at" gorm:"not null"`

	Job *Job `json:"job,omitempty" gorm:"foreignKey:JobID"`
}

func (s *SavedJob) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.PostedDate.IsZero() {
		j.PostedDate = time.Now()
	}
	return nil
}

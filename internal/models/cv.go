package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CVTemplateModern   = "modern"
	CVTemplateClassic  = "classic"
	CVTemplateCreative = "creative"
)

// CV is a document owned by exactly one user. PersonalInfo is a free-form
// JSON blob; the structured sections live in the child tables and are
// removed with the CV.
type CV struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Title        string    `json:"title" gorm:"not null"`
	Language     string    `json:"language" gorm:"not null;default:'en'"`
	Template     string    `json:"template" gorm:"not null;default:'modern'"`
	PersonalInfo string    `json:"personal_info" gorm:"type:text"`
	IsDefault    bool      `json:"is_default" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`

	Education  []CVEducation  `json:"education,omitempty" gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE"`
	Experience []CVExperience `json:"experience,omitempty" gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE"`
	Skills     []CVSkill      `json:"skills,omitempty" gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE"`
	Languages  []CVLanguage   `json:"languages,omitempty" gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE"`
	References []CVReference  `json:"references,omitempty" gorm:"foreignKey:CVID;constraint:OnDelete:CASCADE"`
}

func (cv *CV) BeforeCreate(tx *gorm.DB) error {
	if cv.ID == uuid.Nil {
		cv.ID = uuid.New()
	}
	if cv.Template == "" {
		cv.Template = CVTemplateModern
	}
	return nil
}

// CVEducation is one education entry, newest start year first in listings
type CVEducation struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	CVID        uuid.UUID `json:"cv_id" gorm:"type:char(36);not null;index"`
	Institution string    `json:"institution" gorm:"not null"`
	Degree      string    `json:"degree" gorm:"not null"`
	StartYear   int       `json:"start_year" gorm:"not null"`
	EndYear     *int      `json:"end_year" gorm:""`
	Description string    `json:"description" gorm:"type:text"`
}

func (e *CVEducation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CVExperience is one work-experience entry
type CVExperience struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primary_key"`
	CVID        uuid.UUID  `json:"cv_id" gorm:"type:char(36);not null;index"`
	Company     string     `json:"company" gorm:"not null"`
	Position    string     `json:"position" gorm:"not null"`
	StartDate   time.Time  `json:"start_date" gorm:"not null"`
	EndDate     *time.Time `json:"end_date" gorm:""`
	Description string     `json:"description" gorm:"type:text"`
	IsCurrent   bool       `json:"is_current" gorm:"not null;default:false"`
}

func (e *CVExperience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CVSkill rows are replaced wholesale on every skills write, never merged
type CVSkill struct {
	ID               uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	CVID             uuid.UUID `json:"cv_id" gorm:"type:char(36);not null;index"`
	SkillName        string    `json:"skill_name" gorm:"not null"`
	ProficiencyLevel string    `json:"proficiency_level" gorm:""`
}

func (s *CVSkill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CVLanguage is a language-proficiency entry
type CVLanguage struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	CVID        uuid.UUID `json:"cv_id" gorm:"type:char(36);not null;index"`
	Language    string    `json:"language" gorm:"not null"`
	Proficiency string    `json:"proficiency" gorm:""`
}

func (l *CVLanguage) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// CVReference is a contactable reference entry
type CVReference struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	CVID         uuid.UUID `json:"cv_id" gorm:"type:char(36);not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Relationship string    `json:"relationship" gorm:""`
	Phone        string    `json:"phone" gorm:""`
	Email        string    `json:"email" gorm:""`
}

func (r *CVReference) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SupportedLanguages is the closed set of language codes the portal serves:
// English, isiZulu, Sesotho and Setswana.
var SupportedLanguages = []string{"en", "zu", "st", "tn"}

// IsSupportedLanguage reports whether code is one of the portal languages
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// User represents a registered job seeker. Phone is the login identifier;
// email is optional but unique when present.
type User struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	FullName          string    `json:"full_name" gorm:"not null"`
	Phone             string    `json:"phone" gorm:"uniqueIndex;not null"`
	Email             *string   `json:"email" gorm:"uniqueIndex"`
	Password          string    `json:"-" gorm:"not null"`
	PreferredLanguage string    `json:"preferred_language" gorm:"not null;default:'en'"`
	Location          string    `json:"location" gorm:""`

	// Profile information
	DateOfBirth       *time.Time `json:"date_of_birth" gorm:""`
	IDNumber          string     `json:"id_number" gorm:""`
	ProfilePictureURL string     `json:"profile_picture_url" gorm:""`
	Bio               string     `json:"bio" gorm:"type:text"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"not null"`
	LastLogin *time.Time `json:"last_login" gorm:""`

	// Relationships
	CVs          []CV             `json:"cvs,omitempty" gorm:"foreignKey:UserID"`
	Applications []JobApplication `json:"applications,omitempty" gorm:"foreignKey:UserID"`
	SavedJobs    []SavedJob       `json:"saved_jobs,omitempty" gorm:"foreignKey:UserID"`
	Enrollments  []UserTraining   `json:"enrollments,omitempty" gorm:"foreignKey:UserID"`
}

// UserResponse represents the user data returned in API responses
type UserResponse struct {
	ID                uuid.UUID  `json:"id"`
	FullName          string     `json:"full_name"`
	Phone             string     `json:"phone"`
	Email             *string    `json:"email"`
	PreferredLanguage string     `json:"preferred_language"`
	Location          string     `json:"location"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	IDNumber          string     `json:"id_number"`
	ProfilePictureURL string     `json:"profile_picture_url"`
	Bio               string     `json:"bio"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLogin         *time.Time `json:"last_login"`
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return u.HashPassword()
}

// HashPassword hashes the user's password
func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword checks if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ToResponse converts a User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                u.ID,
		FullName:          u.FullName,
		Phone:             u.Phone,
		Email:             u.Email,
		PreferredLanguage: u.PreferredLanguage,
		Location:          u.Location,
		DateOfBirth:       u.DateOfBirth,
		IDNumber:          u.IDNumber,
		ProfilePictureURL: u.ProfilePictureURL,
		Bio:               u.Bio,
		CreatedAt:         u.CreatedAt,
		LastLogin:         u.LastLogin,
	}
}

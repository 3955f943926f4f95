package database

import (
	"fmt"
	"time"

	"jobready-portal/internal/models"

	"go.uber.org/zap"
)

// SeedData populates the database with development data. It is a no-op
// when jobs or courses already exist.
func SeedData(zapLogger *zap.Logger) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := seedJobs(); err != nil {
		return fmt.Errorf("failed to seed jobs: %w", err)
	}

	if err := seedCourses(); err != nil {
		return fmt.Errorf("failed to seed training courses: %w", err)
	}

	zapLogger.Info("Database seeding completed")
	return nil
}

func seedJobs() error {
	var count int64
	if err := DB.Model(&models.Job{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	deadline := func(days int) time.Time {
		return now.AddDate(0, 0, days)
	}
	salary := func(v float64) *float64 { return &v }

	jobs := []models.Job{
		{
			Title:               "Retail Sales Assistant",
			CompanyName:         "Shoprite Holdings",
			Location:            "Johannesburg, Gauteng",
			JobType:             models.JobTypeFullTime,
			SalaryMin:           salary(6500),
			SalaryMax:           salary(9000),
			Description:         "Assist customers on the shop floor, manage stock and operate the till in a busy retail environment.",
			Requirements:        "Matric certificate. Good communication skills. Willing to work weekends.",
			Responsibilities:    "Customer service, stock replenishment, point of sale operation.",
			Language:            "en",
			ApplicationDeadline: deadline(30),
			IsActive:            true,
		},
		{
			Title:               "Call Centre Agent",
			CompanyName:         "Telkom SA",
			Location:            "Pretoria, Gauteng",
			JobType:             models.JobTypeFullTime,
			SalaryMin:           salary(8000),
			SalaryMax:           salary(12000),
			Description:         "Handle inbound customer queries in English and at least one other South African language.",
			Requirements:        "Matric. Fluent in English plus isiZulu, Sesotho or Setswana. Basic computer literacy.",
			Responsibilities:    "Answer calls, log queries, escalate faults.",
			Language:            "en",
			ApplicationDeadline: deadline(21),
			IsActive:            true,
		},
		{
			Title:               "Umsizi Wokuthengisa",
			CompanyName:         "Pick n Pay",
			Location:            "Durban, KwaZulu-Natal",
			JobType:             models.JobTypePartTime,
			SalaryMin:           salary(4500),
			SalaryMax:           salary(6000),
			Description:         "Sisiza amakhasimende esitolo, sihlele izimpahla futhi sisebenze ngemali.",
			Requirements:        "Umatikuletsheni. Amakhono okuxhumana amahle.",
			Responsibilities:    "Ukusiza amakhasimende nokuhlela izimpahla.",
			Language:            "zu",
			ApplicationDeadline: deadline(14),
			IsActive:            true,
		},
		{
			Title:               "General Worker",
			CompanyName:         "City of Cape Town",
			Location:            "Cape Town, Western Cape",
			JobType:             models.JobTypeContract,
			SalaryMin:           salary(5000),
			SalaryMax:           salary(7500),
			Description:         "Six month contract for general municipal maintenance work.",
			Requirements:        "No formal qualification required. Physically fit.",
			Responsibilities:    "Cleaning, basic maintenance, grounds work.",
			Language:            "en",
			ApplicationDeadline: deadline(10),
			IsActive:            true,
		},
		{
			Title:               "Seasonal Farm Hand",
			CompanyName:         "Boland Agri",
			Location:            "Paarl, Western Cape",
			JobType:             models.JobTypeTemporary,
			SalaryMin:           salary(4000),
			SalaryMax:           salary(5500),
			Description:         "Temporary harvest season work on a fruit farm.",
			Requirements:        "Able to work outdoors. Transport to Paarl.",
			Responsibilities:    "Picking, sorting and packing fruit.",
			Language:            "en",
			ApplicationDeadline: deadline(7),
			IsActive:            true,
		},
	}

	return DB.Create(&jobs).Error
}

func seedCourses() error {
	var count int64
	if err := DB.Model(&models.TrainingCourse{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	courses := []models.TrainingCourse{
		{
			Title:           "Customer Service Basics",
			Description:     "Learn how to communicate with customers, handle complaints and represent your employer well.",
			Category:        "customer-service",
			DifficultyLevel: "beginner",
			DurationHours:   4,
			Language:        "en",
			IsActive:        true,
			Modules: []models.TrainingModule{
				{Title: "Greeting Customers", Description: "First impressions and professional greetings.", OrderIndex: 1, DurationMinutes: 40},
				{Title: "Handling Complaints", Description: "Staying calm and resolving problems.", OrderIndex: 2, DurationMinutes: 50},
				{Title: "Telephone Etiquette", Description: "Answering and directing calls professionally.", OrderIndex: 3, DurationMinutes: 45},
			},
		},
		{
			Title:           "Writing a Winning CV",
			Description:     "Step by step guide to building a CV that gets noticed by South African employers.",
			Category:        "cv-writing",
			DifficultyLevel: "beginner",
			DurationHours:   3,
			Language:        "en",
			IsActive:        true,
			Modules: []models.TrainingModule{
				{Title: "CV Structure", Description: "What sections every CV needs.", OrderIndex: 1, DurationMinutes: 35},
				{Title: "Describing Your Experience", Description: "Turning tasks into achievements.", OrderIndex: 2, DurationMinutes: 45},
			},
		},
		{
			Title:           "Interview Skills",
			Description:     "Prepare for interviews with confidence, from dress code to answering hard questions.",
			Category:        "interview-skills",
			DifficultyLevel: "intermediate",
			DurationHours:   5,
			Language:        "en",
			IsActive:        true,
			Modules: []models.TrainingModule{
				{Title: "Before the Interview", Description: "Research and preparation.", OrderIndex: 1, DurationMinutes: 40},
				{Title: "Common Questions", Description: "Practising strong answers.", OrderIndex: 2, DurationMinutes: 60},
				{Title: "After the Interview", Description: "Following up professionally.", OrderIndex: 3, DurationMinutes: 30},
			},
		},
		{
			Title:           "Amakhono Okusebenzisa Ikhompyutha",
			Description:     "Izisekelo zokusebenzisa ikhompyutha, i-imeyili ne-inthanethi emsebenzini.",
			Category:        "digital-literacy",
			DifficultyLevel: "beginner",
			DurationHours:   6,
			Language:        "zu",
			IsActive:        true,
			Modules: []models.TrainingModule{
				{Title: "Izisekelo Zekhompyutha", Description: "Ukuvula nokusebenzisa ikhompyutha.", OrderIndex: 1, DurationMinutes: 60},
				{Title: "I-imeyili Nomsebenzi", Description: "Ukubhala nokuthumela i-imeyili.", OrderIndex: 2, DurationMinutes: 50},
			},
		},
		{
			Title:           "Workplace Readiness",
			Description:     "Punctuality, teamwork and professional behaviour for your first job.",
			Category:        "workplace-skills",
			DifficultyLevel: "beginner",
			DurationHours:   4,
			Language:        "en",
			IsActive:        true,
			Modules: []models.TrainingModule{
				{Title: "Your First Week", Description: "What to expect and how to prepare.", OrderIndex: 1, DurationMinutes: 40},
				{Title: "Working in a Team", Description: "Communication and cooperation.", OrderIndex: 2, DurationMinutes: 45},
			},
		},
		{
			Title:           "English for the Workplace",
			Description:     "Improve your workplace English, from emails to meetings.",
			Category:        "language-skills",
			DifficultyLevel: "intermediate",
			DurationHours:   8,
			Language:        "en",
			IsActive:        true,
			Modules: []models.TrainingModule{
				{Title: "Workplace Vocabulary", Description: "Words and phrases used on the job.", OrderIndex: 1, DurationMinutes: 55},
				{Title: "Writing Emails", Description: "Clear and polite written communication.", OrderIndex: 2, DurationMinutes: 50},
			},
		},
	}

	return DB.Create(&courses).Error
}

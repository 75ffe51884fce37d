package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Instructor struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio"`
	Title           string    `json:"title"`
	Image           string    `json:"image"`
	ExperienceYears int       `json:"experience_years"`
	LinkedinURL     string    `json:"linkedin_url"`
	GithubURL       string    `json:"github_url"`
	TwitterURL      string    `json:"twitter_url"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type CourseInstructor struct {
	Instructor
	Role  string `json:"role"`
	Order int    `json:"order"`
}

type CourseModule struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=1000"`
	Duration    string   `json:"duration" validate:"max=50"`
	Topics      []string `json:"topics" validate:"dive,max=200"`
}

type Course struct {
	ID                  int64              `json:"id"`
	Title               string             `json:"title"`
	Slug                string             `json:"slug"`
	Description         string             `json:"description"`
	LongDescription     string             `json:"long_description,omitempty"`
	LongDescriptionHTML string             `json:"long_description_html,omitempty"`
	Level               string             `json:"level"`
	Status              string             `json:"status"`
	Duration            string             `json:"duration"`
	Price               decimal.Decimal    `json:"price"`
	OriginalPrice       *decimal.Decimal   `json:"original_price"`
	DiscountPercentage  int                `json:"discount_percentage"`
	StudentsCount       int                `json:"students_count"`
	Rating              *decimal.Decimal   `json:"rating"`
	Image               string             `json:"image"`
	EnrollmentURL       string             `json:"enrollment_url"`
	IsFeatured          bool               `json:"is_featured"`
	Order               int                `json:"order"`
	Modules             []CourseModule     `json:"modules"`
	Technologies        []string           `json:"technologies"`
	Projects            []string           `json:"projects"`
	Instructors         []CourseInstructor `json:"instructors"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// Discount: процент скидки от original_price; 0, если скидки нет.
func Discount(price decimal.Decimal, original *decimal.Decimal) int {
	if original == nil || !original.IsPositive() || !price.LessThan(*original) {
		return 0
	}
	return int(original.Sub(price).Div(*original).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

type CourseFilter struct {
	Level    string
	Status   string
	Featured *bool
	Search   string
	Ordering string
}

type CourseInstructorInput struct {
	InstructorID int64  `json:"instructor_id" validate:"required"`
	Role         string `json:"role" validate:"max=50"`
	Order        int    `json:"order"`
}

type CreateCourseRequest struct {
	Title           string                  `json:"title" validate:"required,notblank,max=200"`
	Description     string                  `json:"description" validate:"required,notblank,max=500"`
	LongDescription string                  `json:"long_description"`
	Level           string                  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced beginner_to_advanced"`
	Status          string                  `json:"status" validate:"omitempty,oneof=active coming_soon archived"`
	Duration        string                  `json:"duration" validate:"max=50"`
	Price           string                  `json:"price" example:"15000.00"`
	OriginalPrice   *string                 `json:"original_price" example:"20000.00"`
	Rating          *string                 `json:"rating"`
	StudentsCount   int                     `json:"students_count" validate:"min=0"`
	Image           string                  `json:"image" validate:"omitempty,url"`
	EnrollmentURL   string                  `json:"enrollment_url" validate:"omitempty,url"`
	IsFeatured      bool                    `json:"is_featured"`
	Order           int                     `json:"order"`
	Modules         []CourseModule          `json:"modules" validate:"dive"`
	Technologies    []string                `json:"technologies" validate:"dive,max=50"`
	Projects        []string                `json:"projects" validate:"dive,max=200"`
	Instructors     []CourseInstructorInput `json:"instructors" validate:"dive"`
}

type UpdateCourseRequest struct {
	Title           *string                  `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description     *string                  `json:"description,omitempty" validate:"omitempty,notblank,max=500"`
	LongDescription *string                  `json:"long_description,omitempty"`
	Level           *string                  `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced beginner_to_advanced"`
	Status          *string                  `json:"status,omitempty" validate:"omitempty,oneof=active coming_soon archived"`
	Duration        *string                  `json:"duration,omitempty" validate:"omitempty,max=50"`
	Price           *string                  `json:"price,omitempty"`
	OriginalPrice   *string                  `json:"original_price,omitempty"`
	Rating          *string                  `json:"rating,omitempty"`
	StudentsCount   *int                     `json:"students_count,omitempty" validate:"omitempty,min=0"`
	Image           *string                  `json:"image,omitempty" validate:"omitempty,url"`
	EnrollmentURL   *string                  `json:"enrollment_url,omitempty" validate:"omitempty,url"`
	IsFeatured      *bool                    `json:"is_featured,omitempty"`
	Order           *int                     `json:"order,omitempty"`
	Modules         *[]CourseModule          `json:"modules,omitempty" validate:"omitempty,dive"`
	Technologies    *[]string                `json:"technologies,omitempty" validate:"omitempty,dive,max=50"`
	Projects        *[]string                `json:"projects,omitempty" validate:"omitempty,dive,max=200"`
	Instructors     *[]CourseInstructorInput `json:"instructors,omitempty" validate:"omitempty,dive"`
}

type CreateInstructorRequest struct {
	Name            string `json:"name" validate:"required,notblank,max=100"`
	Bio             string `json:"bio"`
	Title           string `json:"title" validate:"max=100"`
	Image           string `json:"image" validate:"omitempty,url"`
	ExperienceYears int    `json:"experience_years" validate:"min=0,max=60"`
	LinkedinURL     string `json:"linkedin_url" validate:"omitempty,url"`
	GithubURL       string `json:"github_url" validate:"omitempty,url"`
	TwitterURL      string `json:"twitter_url" validate:"omitempty,url"`
}

type CourseStats struct {
	TotalCourses    int            `json:"total_courses"`
	ActiveCourses   int            `json:"active_courses"`
	TotalStudents   int            `json:"total_students"`
	AverageRating   string         `json:"average_rating"`
	CoursesByLevel  map[string]int `json:"courses_by_level"`
	InstructorCount int            `json:"instructor_count"`
}

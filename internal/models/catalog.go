package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metric: пара «подпись/значение» для карточек продукта и кейса.
type Metric struct {
	Label string `json:"label" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=50"`
}

type Feature struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

// ---- Продукты ----

type Product struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Tagline          string           `json:"tagline"`
	Description      string           `json:"description"`
	DescriptionHTML  string           `json:"description_html,omitempty"`
	Icon             string           `json:"icon"`
	Image            string           `json:"image"`
	Status           string           `json:"status"`
	URL              string           `json:"url"`
	GithubURL        string           `json:"github_url"`
	DocumentationURL string           `json:"documentation_url"`
	UserCount        string           `json:"user_count"`
	Rating           *decimal.Decimal `json:"rating"`
	IsFeatured       bool             `json:"is_featured"`
	Order            int              `json:"order"`
	Features         []Feature        `json:"features"`
	Technologies     []string         `json:"technologies"`
	Metrics          []Metric         `json:"metrics"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type ProductFilter struct {
	Status   string
	Featured *bool
	Search   string
	Ordering string
}

type CreateProductRequest struct {
	Name             string    `json:"name" validate:"required,notblank,max=100"`
	Tagline          string    `json:"tagline" validate:"max=200"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon" validate:"max=50"`
	Image            string    `json:"image" validate:"omitempty,url"`
	Status           string    `json:"status" validate:"omitempty,oneof=live beta development coming_soon archived"`
	URL              string    `json:"url" validate:"omitempty,url"`
	GithubURL        string    `json:"github_url" validate:"omitempty,url"`
	DocumentationURL string    `json:"documentation_url" validate:"omitempty,url"`
	UserCount        string    `json:"user_count" validate:"max=20"`
	Rating           *string   `json:"rating"`
	IsFeatured       bool      `json:"is_featured"`
	Order            int       `json:"order"`
	Features         []Feature `json:"features" validate:"dive"`
	Technologies     []string  `json:"technologies" validate:"dive,max=50"`
	Metrics          []Metric  `json:"metrics" validate:"dive"`
}

type UpdateProductRequest struct {
	Name             *string    `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Tagline          *string    `json:"tagline,omitempty" validate:"omitempty,max=200"`
	Description      *string    `json:"description,omitempty"`
	Icon             *string    `json:"icon,omitempty" validate:"omitempty,max=50"`
	Image            *string    `json:"image,omitempty" validate:"omitempty,url"`
	Status           *string    `json:"status,omitempty" validate:"omitempty,oneof=live beta development coming_soon archived"`
	URL              *string    `json:"url,omitempty" validate:"omitempty,url"`
	GithubURL        *string    `json:"github_url,omitempty" validate:"omitempty,url"`
	DocumentationURL *string    `json:"documentation_url,omitempty" validate:"omitempty,url"`
	UserCount        *string    `json:"user_count,omitempty" validate:"omitempty,max=20"`
	Rating           *string    `json:"rating,omitempty"`
	IsFeatured       *bool      `json:"is_featured,omitempty"`
	Order            *int       `json:"order,omitempty"`
	Features         *[]Feature `json:"features,omitempty" validate:"omitempty,dive"`
	Technologies     *[]string  `json:"technologies,omitempty" validate:"omitempty,dive,max=50"`
	Metrics          *[]Metric  `json:"metrics,omitempty" validate:"omitempty,dive"`
}

// ---- Портфолио ----

type Technology struct {
	Name     string `json:"name" validate:"required,max=50"`
	Category string `json:"category" validate:"omitempty,oneof=frontend backend database devops mobile other"`
}

type GalleryImage struct {
	Image   string `json:"image" validate:"required,url"`
	Caption string `json:"caption" validate:"max=200"`
}

type Project struct {
	ID                  int64          `json:"id"`
	Title               string         `json:"title"`
	Slug                string         `json:"slug"`
	Description         string         `json:"description"`
	LongDescription     string         `json:"long_description,omitempty"`
	LongDescriptionHTML string         `json:"long_description_html,omitempty"`
	Category            string         `json:"category"`
	Status              string         `json:"status"`
	ClientName          string         `json:"client_name"`
	DurationWeeks       int            `json:"duration_weeks"`
	TeamSize            int            `json:"team_size"`
	Image               string         `json:"image"`
	LiveURL             string         `json:"live_url"`
	GithubURL           string         `json:"github_url"`
	CaseStudyURL        string         `json:"case_study_url"`
	IsFeatured          bool           `json:"is_featured"`
	Order               int            `json:"order"`
	Technologies        []Technology   `json:"technologies"`
	Challenges          []string       `json:"challenges"`
	Results             []string       `json:"results"`
	Metrics             []Metric       `json:"metrics"`
	Gallery             []GalleryImage `json:"gallery"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

type ProjectFilter struct {
	Category     string
	Status       string
	Featured     *bool
	Client       string
	Technologies []string
	DurationMin  *int
	DurationMax  *int
	TeamSizeMin  *int
	TeamSizeMax  *int
	Search       string
	Ordering     string
}

type CreateProjectRequest struct {
	Title           string         `json:"title" validate:"required,notblank,max=200"`
	Description     string         `json:"description" validate:"required,notblank,max=500"`
	LongDescription string         `json:"long_description"`
	Category        string         `json:"category" validate:"omitempty,oneof=web mobile saas api other"`
	Status          string         `json:"status" validate:"omitempty,oneof=completed in_progress maintenance"`
	ClientName      string         `json:"client_name" validate:"max=100"`
	DurationWeeks   int            `json:"duration_weeks" validate:"min=0,max=520"`
	TeamSize        int            `json:"team_size" validate:"min=0,max=500"`
	Image           string         `json:"image" validate:"omitempty,url"`
	LiveURL         string         `json:"live_url" validate:"omitempty,url"`
	GithubURL       string         `json:"github_url" validate:"omitempty,url"`
	CaseStudyURL    string         `json:"case_study_url" validate:"omitempty,url"`
	IsFeatured      bool           `json:"is_featured"`
	Order           int            `json:"order"`
	Technologies    []Technology   `json:"technologies" validate:"dive"`
	Challenges      []string       `json:"challenges" validate:"dive,max=500"`
	Results         []string       `json:"results" validate:"dive,max=500"`
	Metrics         []Metric       `json:"metrics" validate:"dive"`
	Gallery         []GalleryImage `json:"gallery" validate:"dive"`
}

type UpdateProjectRequest struct {
	Title           *string         `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,notblank,max=500"`
	LongDescription *string         `json:"long_description,omitempty"`
	Category        *string         `json:"category,omitempty" validate:"omitempty,oneof=web mobile saas api other"`
	Status          *string         `json:"status,omitempty" validate:"omitempty,oneof=completed in_progress maintenance"`
	ClientName      *string         `json:"client_name,omitempty" validate:"omitempty,max=100"`
	DurationWeeks   *int            `json:"duration_weeks,omitempty" validate:"omitempty,min=0,max=520"`
	TeamSize        *int            `json:"team_size,omitempty" validate:"omitempty,min=0,max=500"`
	Image           *string         `json:"image,omitempty" validate:"omitempty,url"`
	LiveURL         *string         `json:"live_url,omitempty" validate:"omitempty,url"`
	GithubURL       *string         `json:"github_url,omitempty" validate:"omitempty,url"`
	CaseStudyURL    *string         `json:"case_study_url,omitempty" validate:"omitempty,url"`
	IsFeatured      *bool           `json:"is_featured,omitempty"`
	Order           *int            `json:"order,omitempty"`
	Technologies    *[]Technology   `json:"technologies,omitempty" validate:"omitempty,dive"`
	Challenges      *[]string       `json:"challenges,omitempty" validate:"omitempty,dive,max=500"`
	Results         *[]string       `json:"results,omitempty" validate:"omitempty,dive,max=500"`
	Metrics         *[]Metric       `json:"metrics,omitempty" validate:"omitempty,dive"`
	Gallery         *[]GalleryImage `json:"gallery,omitempty" validate:"omitempty,dive"`
}

type TechnologyCount struct {
	Name         string `json:"name"`
	ProjectCount int    `json:"project_count"`
}

type TechnologyGroup struct {
	Category     string            `json:"category"`
	Technologies []TechnologyCount `json:"technologies"`
}

type PortfolioStats struct {
	TotalProjects        int            `json:"total_projects"`
	CompletedProjects    int            `json:"completed_projects"`
	FeaturedProjects     int            `json:"featured_projects"`
	ProjectsByCategory   map[string]int `json:"projects_by_category"`
	TotalTechnologies    int            `json:"total_technologies"`
	AverageDurationWeeks float64        `json:"average_duration_weeks"`
	AverageTeamSize      float64        `json:"average_team_size"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PositionOpen   = "open"
	PositionClosed = "closed"
	PositionPaused = "paused"
	PositionFilled = "filled"
)

const ApplicationSubmitted = "submitted"

type JobPosition struct {
	ID                   int64            `json:"id"`
	Title                string           `json:"title"`
	Slug                 string           `json:"slug"`
	Department           string           `json:"department"`
	JobType              string           `json:"job_type"`
	Level                string           `json:"level"`
	Location             string           `json:"location"`
	IsRemote             bool             `json:"is_remote"`
	Description          string           `json:"description,omitempty"`
	DescriptionHTML      string           `json:"description_html,omitempty"`
	Requirements         string           `json:"requirements,omitempty"`
	RequirementsHTML     string           `json:"requirements_html,omitempty"`
	Responsibilities     string           `json:"responsibilities,omitempty"`
	ResponsibilitiesHTML string           `json:"responsibilities_html,omitempty"`
	Benefits             string           `json:"benefits,omitempty"`
	BenefitsHTML         string           `json:"benefits_html,omitempty"`
	SalaryMin            *decimal.Decimal `json:"salary_min"`
	SalaryMax            *decimal.Decimal `json:"salary_max"`
	SalaryCurrency       string           `json:"salary_currency"`
	SalaryRange          string           `json:"salary_range"`
	Status               string           `json:"status"`
	IsFeatured           bool             `json:"is_featured"`
	Skills               []string         `json:"skills"`
	ApplicationDeadline  *time.Time       `json:"application_deadline"`
	ApplicationsCount    int              `json:"applications_count"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// IsAcceptingApplications: вакансия открыта и срок подачи не истёк.
func (p *JobPosition) IsAcceptingApplications(now time.Time) bool {
	if p.Status != PositionOpen {
		return false
	}
	return p.ApplicationDeadline == nil || now.Before(*p.ApplicationDeadline)
}

type PositionFilter struct {
	Department string
	JobType    string
	Level      string
	Status     string
	Featured   *bool
	Search     string
	Ordering   string
}

type CreatePositionRequest struct {
	Title               string     `json:"title" validate:"required,notblank,max=200"`
	Department          string     `json:"department" validate:"omitempty,oneof=engineering design product marketing sales operations training"`
	JobType             string     `json:"job_type" validate:"omitempty,oneof=full_time part_time contract internship"`
	Level               string     `json:"level" validate:"omitempty,oneof=entry mid senior lead"`
	Location            string     `json:"location" validate:"max=100"`
	IsRemote            bool       `json:"is_remote"`
	Description         string     `json:"description" validate:"required,notblank"`
	Requirements        string     `json:"requirements"`
	Responsibilities    string     `json:"responsibilities"`
	Benefits            string     `json:"benefits"`
	SalaryMin           *string    `json:"salary_min"`
	SalaryMax           *string    `json:"salary_max"`
	SalaryCurrency      string     `json:"salary_currency" validate:"omitempty,len=3"`
	Status              string     `json:"status" validate:"omitempty,oneof=open closed paused filled"`
	IsFeatured          bool       `json:"is_featured"`
	Skills              []string   `json:"skills" validate:"dive,max=50"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

type UpdatePositionRequest struct {
	Title               *string    `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Department          *string    `json:"department,omitempty" validate:"omitempty,oneof=engineering design product marketing sales operations training"`
	JobType             *string    `json:"job_type,omitempty" validate:"omitempty,oneof=full_time part_time contract internship"`
	Level               *string    `json:"level,omitempty" validate:"omitempty,oneof=entry mid senior lead"`
	Location            *string    `json:"location,omitempty" validate:"omitempty,max=100"`
	IsRemote            *bool      `json:"is_remote,omitempty"`
	Description         *string    `json:"description,omitempty" validate:"omitempty,notblank"`
	Requirements        *string    `json:"requirements,omitempty"`
	Responsibilities    *string    `json:"responsibilities,omitempty"`
	Benefits            *string    `json:"benefits,omitempty"`
	SalaryMin           *string    `json:"salary_min,omitempty"`
	SalaryMax           *string    `json:"salary_max,omitempty"`
	SalaryCurrency      *string    `json:"salary_currency,omitempty" validate:"omitempty,len=3"`
	Status              *string    `json:"status,omitempty" validate:"omitempty,oneof=open closed paused filled"`
	IsFeatured          *bool      `json:"is_featured,omitempty"`
	Skills              *[]string  `json:"skills,omitempty" validate:"omitempty,dive,max=50"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
}

type JobApplication struct {
	ID                int64            `json:"id"`
	PositionID        int64            `json:"position_id"`
	PositionTitle     string           `json:"position_title"`
	PositionSlug      string           `json:"position_slug"`
	FirstName         string           `json:"first_name"`
	LastName          string           `json:"last_name"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
	Location          string           `json:"location"`
	CoverLetter       string           `json:"cover_letter"`
	Resume            string           `json:"-"`
	HasResume         bool             `json:"has_resume"`
	PortfolioURL      string           `json:"portfolio_url"`
	LinkedinURL       string           `json:"linkedin_url"`
	GithubURL         string           `json:"github_url"`
	YearsOfExperience int              `json:"years_of_experience"`
	CurrentSalary     *decimal.Decimal `json:"current_salary"`
	ExpectedSalary    *decimal.Decimal `json:"expected_salary"`
	Status            string           `json:"status"`
	AdminNotes        string           `json:"admin_notes"`
	IPAddress         string           `json:"ip_address"`
	UserAgent         string           `json:"-"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (a *JobApplication) FullName() string {
	return a.FirstName + " " + a.LastName
}

// ApplyRequest: поля multipart-формы отклика.
type ApplyRequest struct {
	FirstName         string `form:"first_name" validate:"required,notblank,max=100"`
	LastName          string `form:"last_name" validate:"required,notblank,max=100"`
	Email             string `form:"email" validate:"required,email,max=254"`
	Phone             string `form:"phone" validate:"phone"`
	Location          string `form:"location" validate:"max=100"`
	CoverLetter       string `form:"cover_letter" validate:"max=5000"`
	PortfolioURL      string `form:"portfolio_url" validate:"omitempty,url"`
	LinkedinURL       string `form:"linkedin_url" validate:"omitempty,url"`
	GithubURL         string `form:"github_url" validate:"omitempty,url"`
	YearsOfExperience int    `form:"years_of_experience" validate:"min=0,max=60"`
	CurrentSalary     string `form:"current_salary"`
	ExpectedSalary    string `form:"expected_salary"`
}

type ApplicationReceipt struct {
	Message       string `json:"message"`
	ApplicationID int64  `json:"application_id"`
	Position      string `json:"position"`
}

type ApplicationFilter struct {
	Status   string
	Position string
	Search   string
}

// UpdateApplicationRequest: админ меняет только статус и заметки.
type UpdateApplicationRequest struct {
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=submitted reviewing interview offer hired rejected withdrawn"`
	AdminNotes *string `json:"admin_notes,omitempty" validate:"omitempty,max=5000"`
}

type CareerStats struct {
	OpenPositions          int            `json:"open_positions"`
	TotalPositions         int            `json:"total_positions"`
	TotalApplications      int            `json:"total_applications"`
	ApplicationsLast30Days int            `json:"applications_last_30_days"`
	ApplicationsByStatus   map[string]int `json:"applications_by_status"`
	PositionsByDepartment  map[string]int `json:"positions_by_department"`
}

package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/markdown"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"
	"appnity/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const featuredPositionsLimit = 6

// ResumeStorage: файловое хранилище резюме.
type ResumeStorage interface {
	Save(up storage.Upload) (string, error)
	Open(key string) (*os.File, error)
	Delete(key string) error
}

type CareersService struct {
	repo    repository.CareersRepo
	resumes ResumeStorage
	notify  *Notifier
	now     func() time.Time
}

func NewCareersService(repo repository.CareersRepo, resumes ResumeStorage, notify *Notifier) *CareersService {
	return &CareersService{repo: repo, resumes: resumes, notify: notify, now: time.Now}
}

func (s *CareersService) List(ctx context.Context, f models.PositionFilter, p pagination.Params) ([]*models.JobPosition, int, error) {
	list, total, err := s.repo.ListPositions(ctx, f, p.Limit(), p.Offset())
	return decoratePositions(list), total, err
}

func (s *CareersService) Open(ctx context.Context, f models.PositionFilter, p pagination.Params) ([]*models.JobPosition, int, error) {
	f.Status = models.PositionOpen
	return s.List(ctx, f, p)
}

func (s *CareersService) Featured(ctx context.Context) ([]*models.JobPosition, error) {
	yes := true
	list, _, err := s.repo.ListPositions(ctx, models.PositionFilter{Featured: &yes, Status: models.PositionOpen, Ordering: "-created_at"}, featuredPositionsLimit, 0)
	return decoratePositions(list), err
}

// Get: вакансия с HTML-версиями markdown-полей.
func (s *CareersService) Get(ctx context.Context, slug string) (*models.JobPosition, error) {
	p, err := s.repo.GetPositionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	renderPosition(p)
	return p, nil
}

func (s *CareersService) Create(ctx context.Context, req *models.CreatePositionRequest) (*models.JobPosition, error) {
	logger.WithCtx(ctx).Info("Создание вакансии (service)", zap.String("title", req.Title))
	salMin, err := parseDecimal("salary_min", req.SalaryMin, salaryRange)
	if err != nil {
		return nil, err
	}
	salMax, err := parseDecimal("salary_max", req.SalaryMax, salaryRange)
	if err != nil {
		return nil, err
	}
	if err := checkSalaryRange(salMin, salMax); err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, req.Title, s.repo.PositionSlugExists)
	if err != nil {
		return nil, err
	}
	p := &models.JobPosition{
		Title:               strings.TrimSpace(req.Title),
		Slug:                slug,
		Department:          req.Department,
		JobType:             req.JobType,
		Level:               req.Level,
		Location:            req.Location,
		IsRemote:            req.IsRemote,
		Description:         req.Description,
		Requirements:        req.Requirements,
		Responsibilities:    req.Responsibilities,
		Benefits:            req.Benefits,
		SalaryMin:           salMin,
		SalaryMax:           salMax,
		SalaryCurrency:      strings.ToUpper(req.SalaryCurrency),
		Status:              req.Status,
		IsFeatured:          req.IsFeatured,
		Skills:              req.Skills,
		ApplicationDeadline: req.ApplicationDeadline,
	}
	setPositionDefaults(p)
	out, err := s.repo.CreatePosition(ctx, p)
	if err != nil {
		return nil, err
	}
	renderPosition(out)
	return out, nil
}

func (s *CareersService) Update(ctx context.Context, slug string, req *models.UpdatePositionRequest) (*models.JobPosition, error) {
	p, err := s.repo.GetPositionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if req.SalaryMin != nil {
		if p.SalaryMin, err = parseDecimal("salary_min", req.SalaryMin, salaryRange); err != nil {
			return nil, err
		}
	}
	if req.SalaryMax != nil {
		if p.SalaryMax, err = parseDecimal("salary_max", req.SalaryMax, salaryRange); err != nil {
			return nil, err
		}
	}
	if err := checkSalaryRange(p.SalaryMin, p.SalaryMax); err != nil {
		return nil, err
	}
	patch(&p.Title, req.Title)
	patch(&p.Department, req.Department)
	patch(&p.JobType, req.JobType)
	patch(&p.Level, req.Level)
	patch(&p.Location, req.Location)
	patch(&p.IsRemote, req.IsRemote)
	patch(&p.Description, req.Description)
	patch(&p.Requirements, req.Requirements)
	patch(&p.Responsibilities, req.Responsibilities)
	patch(&p.Benefits, req.Benefits)
	patch(&p.SalaryCurrency, req.SalaryCurrency)
	patch(&p.Status, req.Status)
	patch(&p.IsFeatured, req.IsFeatured)
	patch(&p.Skills, req.Skills)
	if req.ApplicationDeadline != nil {
		p.ApplicationDeadline = req.ApplicationDeadline
	}
	p.SalaryCurrency = strings.ToUpper(p.SalaryCurrency)

	out, err := s.repo.UpdatePosition(ctx, p)
	if err != nil {
		return nil, err
	}
	renderPosition(out)
	return out, nil
}

func (s *CareersService) Delete(ctx context.Context, slug string) error {
	p, err := s.repo.GetPositionBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if p.ApplicationsCount > 0 {
		return apperr.Conflict("Position has applications and cannot be deleted; close it instead.")
	}
	logger.WithCtx(ctx).Info("Удаление вакансии (service)", zap.Int64("id", p.ID))
	return s.repo.DeletePosition(ctx, p.ID)
}

// ---- Отклики ----

// ApplyInput: данные отклика вместе с метаданными запроса.
type ApplyInput struct {
	Form      models.ApplyRequest
	Resume    *storage.Upload
	IPAddress string
	UserAgent string
}

// Apply сохраняет отклик на открытую вакансию. Резюме необязательно;
// если запись в БД не удалась, сохранённый файл удаляется.
func (s *CareersService) Apply(ctx context.Context, slug string, in ApplyInput) (*models.ApplicationReceipt, error) {
	log := logger.WithCtx(ctx)
	pos, err := s.repo.GetPositionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !pos.IsAcceptingApplications(s.now()) {
		log.Info("Отклик на закрытую вакансию (service)", zap.String("slug", slug), zap.String("status", pos.Status))
		return nil, apperr.Validation("This position is no longer accepting applications.")
	}

	curSalary, err := parseDecimal("current_salary", &in.Form.CurrentSalary, salaryRange)
	if err != nil {
		return nil, err
	}
	expSalary, err := parseDecimal("expected_salary", &in.Form.ExpectedSalary, salaryRange)
	if err != nil {
		return nil, err
	}

	var resumeKey string
	if in.Resume != nil {
		if resumeKey, err = s.resumes.Save(*in.Resume); err != nil {
			return nil, err
		}
	}

	f := in.Form
	app, err := s.repo.CreateApplication(ctx, &models.JobApplication{
		PositionID:        pos.ID,
		FirstName:         strings.TrimSpace(f.FirstName),
		LastName:          strings.TrimSpace(f.LastName),
		Email:             strings.TrimSpace(f.Email),
		Phone:             f.Phone,
		Location:          f.Location,
		CoverLetter:       f.CoverLetter,
		Resume:            resumeKey,
		PortfolioURL:      f.PortfolioURL,
		LinkedinURL:       f.LinkedinURL,
		GithubURL:         f.GithubURL,
		YearsOfExperience: f.YearsOfExperience,
		CurrentSalary:     curSalary,
		ExpectedSalary:    expSalary,
		IPAddress:         in.IPAddress,
		UserAgent:         in.UserAgent,
	})
	if err != nil {
		if resumeKey != "" {
			if derr := s.resumes.Delete(resumeKey); derr != nil {
				log.Warn("Не удалось удалить резюме после ошибки", zap.String("key", resumeKey), zap.Error(derr))
			}
		}
		return nil, err
	}

	app.PositionTitle, app.PositionSlug = pos.Title, pos.Slug
	log.Info("Отклик сохранён (service)", zap.Int64("application_id", app.ID), zap.String("position", pos.Slug))
	s.notify.ApplicationReceived(ctx, app)

	return &models.ApplicationReceipt{
		Message:       "Application submitted successfully",
		ApplicationID: app.ID,
		Position:      pos.Title,
	}, nil
}

func (s *CareersService) Applications(ctx context.Context, f models.ApplicationFilter, p pagination.Params) ([]*models.JobApplication, int, error) {
	return s.repo.ListApplications(ctx, f, p.Limit(), p.Offset())
}

func (s *CareersService) Application(ctx context.Context, id int64) (*models.JobApplication, error) {
	return s.repo.GetApplication(ctx, id)
}

// UpdateApplication меняет статус и заметки; данные заявителя не трогаются.
func (s *CareersService) UpdateApplication(ctx context.Context, id int64, req *models.UpdateApplicationRequest) (*models.JobApplication, error) {
	logger.WithCtx(ctx).Info("Обновление отклика (service)", zap.Int64("id", id))
	return s.repo.UpdateApplication(ctx, id, req)
}

// ResumeFile открывает файл резюме отклика. Вызывающий закрывает файл.
func (s *CareersService) ResumeFile(ctx context.Context, id int64) (*os.File, string, string, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	if app.Resume == "" {
		return nil, "", "", apperr.NotFound("application has no resume")
	}
	f, err := s.resumes.Open(app.Resume)
	if err != nil {
		return nil, "", "", err
	}
	name := strings.ToLower(app.FirstName+"_"+app.LastName) + "_resume" + filepath.Ext(app.Resume)
	return f, name, storage.ContentTypeFor(app.Resume), nil
}

func (s *CareersService) Stats(ctx context.Context) (*models.CareerStats, error) {
	return s.repo.Stats(ctx)
}

func setPositionDefaults(p *models.JobPosition) {
	if p.Department == "" {
		p.Department = "engineering"
	}
	if p.JobType == "" {
		p.JobType = "full_time"
	}
	if p.Level == "" {
		p.Level = "mid"
	}
	if p.Status == "" {
		p.Status = models.PositionOpen
	}
	if p.SalaryCurrency == "" {
		p.SalaryCurrency = "KES"
	}
}

func checkSalaryRange(min, max *decimal.Decimal) error {
	if min != nil && max != nil && min.GreaterThan(*max) {
		return apperr.Field("salary_max", "Maximum salary must be greater than or equal to minimum salary.")
	}
	return nil
}

func renderPosition(p *models.JobPosition) {
	p.DescriptionHTML = markdown.ToHTML(p.Description)
	p.RequirementsHTML = markdown.ToHTML(p.Requirements)
	p.ResponsibilitiesHTML = markdown.ToHTML(p.Responsibilities)
	p.BenefitsHTML = markdown.ToHTML(p.Benefits)
	p.SalaryRange = salaryRangeText(p)
}

// в списках длинные тексты не отдаём
func decoratePositions(list []*models.JobPosition) []*models.JobPosition {
	for _, p := range list {
		p.SalaryRange = salaryRangeText(p)
		p.Requirements, p.Responsibilities, p.Benefits = "", "", ""
	}
	if list == nil {
		return []*models.JobPosition{}
	}
	return list
}

// salaryRangeText: "KES 100,000 - 150,000", "KES 100,000+" или "Competitive".
func salaryRangeText(p *models.JobPosition) string {
	switch {
	case p.SalaryMin != nil && p.SalaryMax != nil:
		return p.SalaryCurrency + " " + groupThousands(*p.SalaryMin) + " - " + groupThousands(*p.SalaryMax)
	case p.SalaryMin != nil:
		return p.SalaryCurrency + " " + groupThousands(*p.SalaryMin) + "+"
	default:
		return "Competitive"
	}
}

func groupThousands(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

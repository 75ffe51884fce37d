package services

import (
	"context"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/markdown"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"

	"go.uber.org/zap"
)

const featuredProjectsLimit = 6

var projectCategories = map[string]bool{"web": true, "mobile": true, "saas": true, "api": true, "other": true}

type PortfolioService struct {
	repo repository.PortfolioRepo
}

func NewPortfolioService(repo repository.PortfolioRepo) *PortfolioService {
	return &PortfolioService{repo: repo}
}

func (s *PortfolioService) List(ctx context.Context, f models.ProjectFilter, p pagination.Params) ([]*models.Project, int, error) {
	return s.repo.List(ctx, f, p.Limit(), p.Offset())
}

func (s *PortfolioService) Featured(ctx context.Context) ([]*models.Project, error) {
	yes := true
	list, _, err := s.repo.List(ctx, models.ProjectFilter{Featured: &yes, Ordering: "-created_at"}, featuredProjectsLimit, 0)
	return list, err
}

// ByCategory отдаёт проекты одной категории; на неизвестную категорию 404.
func (s *PortfolioService) ByCategory(ctx context.Context, category string, p pagination.Params) ([]*models.Project, int, error) {
	if !projectCategories[category] {
		return nil, 0, apperr.NotFound("unknown project category")
	}
	return s.repo.List(ctx, models.ProjectFilter{Category: category}, p.Limit(), p.Offset())
}

func (s *PortfolioService) Search(ctx context.Context, q string, p pagination.Params) ([]*models.Project, int, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, 0, apperr.Field("q", "Search query parameter 'q' is required.")
	}
	return s.repo.List(ctx, models.ProjectFilter{Search: q}, p.Limit(), p.Offset())
}

func (s *PortfolioService) Technologies(ctx context.Context) ([]models.TechnologyGroup, error) {
	groups, err := s.repo.TechnologyGroups(ctx)
	if groups == nil {
		groups = []models.TechnologyGroup{}
	}
	return groups, err
}

func (s *PortfolioService) Stats(ctx context.Context) (*models.PortfolioStats, error) {
	return s.repo.Stats(ctx)
}

func (s *PortfolioService) Get(ctx context.Context, slug string) (*models.Project, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.LongDescriptionHTML = markdown.ToHTML(p.LongDescription)
	return p, nil
}

func (s *PortfolioService) Create(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	logger.WithCtx(ctx).Info("Создание проекта (service)", zap.String("title", req.Title))
	slug, err := uniqueSlug(ctx, req.Title, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &models.Project{
		Title:           strings.TrimSpace(req.Title),
		Slug:            slug,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Category:        req.Category,
		Status:          req.Status,
		ClientName:      req.ClientName,
		DurationWeeks:   req.DurationWeeks,
		TeamSize:        req.TeamSize,
		Image:           req.Image,
		LiveURL:         req.LiveURL,
		GithubURL:       req.GithubURL,
		CaseStudyURL:    req.CaseStudyURL,
		IsFeatured:      req.IsFeatured,
		Order:           req.Order,
		Technologies:    req.Technologies,
		Challenges:      req.Challenges,
		Results:         req.Results,
		Metrics:         req.Metrics,
		Gallery:         req.Gallery,
	}
	if p.Category == "" {
		p.Category = "web"
	}
	if p.Status == "" {
		p.Status = "completed"
	}
	out, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	out.LongDescriptionHTML = markdown.ToHTML(out.LongDescription)
	return out, nil
}

func (s *PortfolioService) Update(ctx context.Context, slug string, req *models.UpdateProjectRequest) (*models.Project, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	patch(&p.Title, req.Title)
	patch(&p.Description, req.Description)
	patch(&p.LongDescription, req.LongDescription)
	patch(&p.Category, req.Category)
	patch(&p.Status, req.Status)
	patch(&p.ClientName, req.ClientName)
	patch(&p.DurationWeeks, req.DurationWeeks)
	patch(&p.TeamSize, req.TeamSize)
	patch(&p.Image, req.Image)
	patch(&p.LiveURL, req.LiveURL)
	patch(&p.GithubURL, req.GithubURL)
	patch(&p.CaseStudyURL, req.CaseStudyURL)
	patch(&p.IsFeatured, req.IsFeatured)
	patch(&p.Order, req.Order)
	patch(&p.Technologies, req.Technologies)
	patch(&p.Challenges, req.Challenges)
	patch(&p.Results, req.Results)
	patch(&p.Metrics, req.Metrics)
	patch(&p.Gallery, req.Gallery)

	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	out.LongDescriptionHTML = markdown.ToHTML(out.LongDescription)
	return out, nil
}

func (s *PortfolioService) Delete(ctx context.Context, slug string) error {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Удаление проекта (service)", zap.Int64("id", p.ID))
	return s.repo.Delete(ctx, p.ID)
}

package services

import (
	"context"
	"strings"

	"appnity/internal/logger"
	"appnity/internal/markdown"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"

	"go.uber.org/zap"
)

const featuredProductsLimit = 6

type ProductService struct {
	repo repository.ProductRepo
}

func NewProductService(repo repository.ProductRepo) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context, f models.ProductFilter, p pagination.Params) ([]*models.Product, int, error) {
	return s.repo.List(ctx, f, p.Limit(), p.Offset())
}

func (s *ProductService) Featured(ctx context.Context) ([]*models.Product, error) {
	yes := true
	list, _, err := s.repo.List(ctx, models.ProductFilter{Featured: &yes, Ordering: "-created_at"}, featuredProductsLimit, 0)
	return list, err
}

func (s *ProductService) Get(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.DescriptionHTML = markdown.ToHTML(p.Description)
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	logger.WithCtx(ctx).Info("Создание продукта (service)", zap.String("name", req.Name))
	rating, err := parseDecimal("rating", req.Rating, ratingRange)
	if err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, req.Name, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &models.Product{
		Name:             strings.TrimSpace(req.Name),
		Slug:             slug,
		Tagline:          req.Tagline,
		Description:      req.Description,
		Icon:             req.Icon,
		Image:            req.Image,
		Status:           req.Status,
		URL:              req.URL,
		GithubURL:        req.GithubURL,
		DocumentationURL: req.DocumentationURL,
		UserCount:        req.UserCount,
		Rating:           rating,
		IsFeatured:       req.IsFeatured,
		Order:            req.Order,
		Features:         req.Features,
		Technologies:     req.Technologies,
		Metrics:          req.Metrics,
	}
	if p.Status == "" {
		p.Status = "development"
	}
	out, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	out.DescriptionHTML = markdown.ToHTML(out.Description)
	return out, nil
}

func (s *ProductService) Update(ctx context.Context, slug string, req *models.UpdateProductRequest) (*models.Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if req.Rating != nil {
		if p.Rating, err = parseDecimal("rating", req.Rating, ratingRange); err != nil {
			return nil, err
		}
	}
	patch(&p.Name, req.Name)
	patch(&p.Tagline, req.Tagline)
	patch(&p.Description, req.Description)
	patch(&p.Icon, req.Icon)
	patch(&p.Image, req.Image)
	patch(&p.Status, req.Status)
	patch(&p.URL, req.URL)
	patch(&p.GithubURL, req.GithubURL)
	patch(&p.DocumentationURL, req.DocumentationURL)
	patch(&p.UserCount, req.UserCount)
	patch(&p.IsFeatured, req.IsFeatured)
	patch(&p.Order, req.Order)
	patch(&p.Features, req.Features)
	patch(&p.Technologies, req.Technologies)
	patch(&p.Metrics, req.Metrics)

	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	out.DescriptionHTML = markdown.ToHTML(out.Description)
	return out, nil
}

func (s *ProductService) Delete(ctx context.Context, slug string) error {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Удаление продукта (service)", zap.Int64("id", p.ID))
	return s.repo.Delete(ctx, p.ID)
}

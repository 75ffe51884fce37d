package services

import (
	"context"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"

	"go.uber.org/zap"
)

const featuredTestimonialsLimit = 6

var testimonialTypes = map[string]bool{"customer": true, "user": true, "student": true, "partner": true, "employee": true}

type TestimonialService struct {
	repo   repository.TestimonialRepo
	notify *Notifier
}

func NewTestimonialService(repo repository.TestimonialRepo, notify *Notifier) *TestimonialService {
	return &TestimonialService{repo: repo, notify: notify}
}

// List: публичный список, только одобренные отзывы.
func (s *TestimonialService) List(ctx context.Context, f models.TestimonialFilter, p pagination.Params) ([]*models.Testimonial, int, error) {
	yes := true
	f.Approved = &yes
	return s.repo.List(ctx, f, p.Limit(), p.Offset())
}

func (s *TestimonialService) Featured(ctx context.Context) ([]*models.Testimonial, error) {
	yes := true
	list, _, err := s.repo.List(ctx, models.TestimonialFilter{Approved: &yes, Featured: &yes, Ordering: "-created_at"}, featuredTestimonialsLimit, 0)
	return list, err
}

func (s *TestimonialService) ByType(ctx context.Context, typ string, p pagination.Params) ([]*models.Testimonial, int, error) {
	if !testimonialTypes[typ] {
		return nil, 0, apperr.NotFound("unknown testimonial type")
	}
	return s.List(ctx, models.TestimonialFilter{Type: typ}, p)
}

// Get: неодобренный отзыв виден только персоналу.
func (s *TestimonialService) Get(ctx context.Context, id int64, staff bool) (*models.Testimonial, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsApproved && !staff {
		return nil, apperr.NotFound("testimonial not found")
	}
	return t, nil
}

// Create: отзыв от персонала, публикуется сразу.
func (s *TestimonialService) Create(ctx context.Context, req *models.CreateTestimonialRequest) (*models.Testimonial, error) {
	t := &models.Testimonial{
		Name:            strings.TrimSpace(req.Name),
		Role:            req.Role,
		Company:         req.Company,
		Avatar:          req.Avatar,
		Content:         strings.TrimSpace(req.Content),
		Rating:          req.Rating,
		TestimonialType: req.TestimonialType,
		Product:         req.Product,
		Course:          req.Course,
		IsFeatured:      req.IsFeatured,
		IsApproved:      true,
		Order:           req.Order,
	}
	setTestimonialDefaults(t)
	return s.repo.Create(ctx, t)
}

// Submit принимает публичную форму; отзыв ждёт модерации.
func (s *TestimonialService) Submit(ctx context.Context, req *models.SubmitTestimonialRequest, ip, userAgent string) (*models.Testimonial, error) {
	t := &models.Testimonial{
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Role:            req.Role,
		Company:         req.Company,
		Content:         strings.TrimSpace(req.Content),
		Rating:          req.Rating,
		TestimonialType: req.TestimonialType,
		Product:         req.Product,
		Course:          req.Course,
		IPAddress:       ip,
		UserAgent:       userAgent,
	}
	setTestimonialDefaults(t)
	out, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Отзыв отправлен на модерацию (service)", zap.Int64("id", out.ID))
	s.notify.TestimonialSubmitted(ctx, out)
	return out, nil
}

func (s *TestimonialService) Update(ctx context.Context, id int64, req *models.UpdateTestimonialRequest) (*models.Testimonial, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch(&t.Name, req.Name)
	patch(&t.Role, req.Role)
	patch(&t.Company, req.Company)
	patch(&t.Avatar, req.Avatar)
	if req.Content != nil {
		t.Content = strings.TrimSpace(*req.Content)
	}
	patch(&t.Rating, req.Rating)
	patch(&t.TestimonialType, req.TestimonialType)
	patch(&t.IsFeatured, req.IsFeatured)
	patch(&t.IsApproved, req.IsApproved)
	patch(&t.Order, req.Order)
	return s.repo.Update(ctx, t)
}

func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	logger.WithCtx(ctx).Info("Удаление отзыва (service)", zap.Int64("id", id))
	return s.repo.Delete(ctx, id)
}

// Submissions: отзывы, ожидающие одобрения.
func (s *TestimonialService) Submissions(ctx context.Context, p pagination.Params) ([]*models.Testimonial, int, error) {
	no := false
	return s.repo.List(ctx, models.TestimonialFilter{Approved: &no}, p.Limit(), p.Offset())
}

func (s *TestimonialService) Approve(ctx context.Context, id int64) (*models.Testimonial, error) {
	logger.WithCtx(ctx).Info("Одобрение отзыва (service)", zap.Int64("id", id))
	return s.repo.SetApproved(ctx, id, true)
}

func (s *TestimonialService) Stats(ctx context.Context) (*models.TestimonialStats, error) {
	return s.repo.Stats(ctx)
}

func setTestimonialDefaults(t *models.Testimonial) {
	if t.TestimonialType == "" {
		t.TestimonialType = "customer"
	}
}

package services

import (
	"context"
	"strings"

	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"

	"go.uber.org/zap"
)

type ContactService struct {
	repo   repository.ContactRepo
	notify *Notifier
}

func NewContactService(repo repository.ContactRepo, notify *Notifier) *ContactService {
	return &ContactService{repo: repo, notify: notify}
}

// Create сохраняет обращение и уведомляет администратора.
func (s *ContactService) Create(ctx context.Context, req *models.CreateContactRequest, ip, userAgent string) (*models.ContactReceipt, error) {
	c := &models.Contact{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Company:     req.Company,
		Phone:       req.Phone,
		InquiryType: req.InquiryType,
		Subject:     req.Subject,
		Message:     strings.TrimSpace(req.Message),
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
	if c.InquiryType == "" {
		c.InquiryType = "general"
	}
	out, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Новое обращение (service)", zap.Int64("id", out.ID), zap.String("type", out.InquiryType))
	s.notify.ContactReceived(ctx, out)
	return &models.ContactReceipt{
		Message: "Thank you for contacting us. We will get back to you soon.",
		ID:      out.ID,
	}, nil
}

func (s *ContactService) List(ctx context.Context, f models.ContactFilter, p pagination.Params) ([]*models.Contact, int, error) {
	return s.repo.List(ctx, f, p.Limit(), p.Offset())
}

func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	return s.repo.Get(ctx, id)
}

func (s *ContactService) Update(ctx context.Context, id int64, req *models.UpdateContactRequest) (*models.Contact, error) {
	logger.WithCtx(ctx).Info("Обновление обращения (service)", zap.Int64("id", id))
	return s.repo.Update(ctx, id, req)
}

func (s *ContactService) Stats(ctx context.Context) (*models.ContactStats, error) {
	return s.repo.Stats(ctx)
}

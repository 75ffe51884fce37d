package services

import (
	"context"
	"net/http"
	"strings"

	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"

	"go.uber.org/zap"
)

type NewsletterService struct {
	repo   repository.NewsletterRepo
	notify *Notifier
}

func NewNewsletterService(repo repository.NewsletterRepo, notify *Notifier) *NewsletterService {
	return &NewsletterService{repo: repo, notify: notify}
}

// SubscribeResult: ответ на подписку и HTTP-статус для него.
type SubscribeResult struct {
	Message    string             `json:"message"`
	Subscriber *models.Subscriber `json:"subscriber"`
	Status     int                `json:"-"`
}

// Subscribe отвечает 201 на новую подписку и 200 на повторную или уже активную.
// Приветственное письмо уходит только новым и вернувшимся подписчикам.
func (s *NewsletterService) Subscribe(ctx context.Context, req *models.SubscribeRequest) (*SubscribeResult, error) {
	email := strings.TrimSpace(req.Email)
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "website"
	}
	sub, outcome, err := s.repo.Subscribe(ctx, email, source)
	if err != nil {
		return nil, err
	}
	log := logger.WithCtx(ctx).With(zap.Int64("subscriber_id", sub.ID))

	res := &SubscribeResult{Subscriber: sub}
	switch outcome {
	case models.SubscriptionCreated:
		log.Info("Новый подписчик (service)")
		res.Message, res.Status = "Successfully subscribed to newsletter", http.StatusCreated
		s.notify.NewsletterWelcome(ctx, sub.Email)
	case models.SubscriptionReactivated:
		log.Info("Подписка восстановлена (service)")
		res.Message, res.Status = "Successfully resubscribed to newsletter", http.StatusOK
		s.notify.NewsletterWelcome(ctx, sub.Email)
	default:
		res.Message, res.Status = "Email is already subscribed", http.StatusOK
	}
	return res, nil
}

// Unsubscribe отключает активную подписку; иначе repo вернёт ошибку поля email.
func (s *NewsletterService) Unsubscribe(ctx context.Context, req *models.UnsubscribeRequest) error {
	sub, err := s.repo.Unsubscribe(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Отписка от рассылки (service)", zap.Int64("subscriber_id", sub.ID))
	s.notify.NewsletterUnsubscribed(ctx, sub.Email)
	return nil
}

func (s *NewsletterService) List(ctx context.Context, f models.SubscriberFilter, p pagination.Params) ([]*models.Subscriber, int, error) {
	return s.repo.List(ctx, f, p.Limit(), p.Offset())
}

func (s *NewsletterService) Stats(ctx context.Context) (*models.NewsletterStats, error) {
	return s.repo.Stats(ctx)
}

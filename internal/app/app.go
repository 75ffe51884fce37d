package app

import (
	"context"
	"time"

	"appnity/internal/apidoc"
	"appnity/internal/config"
	"appnity/internal/db"
	"appnity/internal/handlers"
	"appnity/internal/logger"
	"appnity/internal/mailer"
	"appnity/internal/repository"
	"appnity/internal/routes"
	"appnity/internal/services"
	"appnity/internal/storage"
	"appnity/internal/utils"
	helpers "appnity/internal/utils/helpers"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const tokenCleanupInterval = time.Hour

type App struct {
	Router *mux.Router
	Docs   *apidoc.Registry
	Pool   *pgxpool.Pool
	Mailer *mailer.Dispatcher

	stopCleaner context.CancelFunc
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	helpers.Debug = cfg.Debug
	helpers.TrustProxy = cfg.TrustProxy
	if cfg.PageSize > 0 {
		handlers.PageSize = cfg.PageSize
	}
	if cfg.MaxPageSize > 0 {
		handlers.MaxPageSize = cfg.MaxPageSize
	}

	// Почта
	dispatcher := mailer.NewDispatcher(mailer.NewSender(cfg), cfg.EmailWorkers, cfg.EmailQueueSize)
	dispatcher.Start()
	notifier := services.NewNotifier(dispatcher, cfg.SiteURL, cfg.AdminEmail)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	resumes := storage.NewResumeStore(cfg.MediaRoot, cfg.ResumeMaxBytes)

	// Сервисы
	authService := services.NewAuthService(repository.NewUserRepository(conn), tokens, notifier)
	blogService := services.NewBlogService(repository.NewBlogRepo(conn))
	productService := services.NewProductService(repository.NewProductRepo(conn))
	portfolioService := services.NewPortfolioService(repository.NewPortfolioRepo(conn))
	trainingService := services.NewTrainingService(repository.NewTrainingRepo(conn))
	careersService := services.NewCareersService(repository.NewCareersRepo(conn), resumes, notifier)
	testimonialService := services.NewTestimonialService(repository.NewTestimonialRepo(conn), notifier)
	contactService := services.NewContactService(repository.NewContactRepo(conn), notifier)
	newsletterService := services.NewNewsletterService(repository.NewNewsletterRepo(conn), notifier)

	// Маршруты
	router := mux.NewRouter()
	reg := routes.InitRoutes(router, &routes.Handlers{
		Tokens:          tokens,
		Auth:            handlers.NewAuthHandler(authService),
		Blog:            handlers.NewBlogHandler(blogService),
		Products:        handlers.NewProductHandler(productService),
		Portfolio:       handlers.NewPortfolioHandler(portfolioService),
		Training:        handlers.NewTrainingHandler(trainingService),
		Careers:         handlers.NewCareersHandler(careersService, resumes.MaxBytes()),
		Testimonials:    handlers.NewTestimonialHandler(testimonialService),
		Contacts:        handlers.NewContactHandler(contactService),
		Newsletter:      handlers.NewNewsletterHandler(newsletterService),
		Health:          handlers.NewHealthHandler(conn),
		SubmitRateLimit: cfg.SubmitRateLimit,
		LoginRateLimit:  cfg.LoginRateLimit,
	})

	cleanerCtx, stop := context.WithCancel(context.Background())
	StartTokenCleaner(cleanerCtx, authService, tokenCleanupInterval)

	return &App{Router: router, Docs: reg, Pool: conn, Mailer: dispatcher, stopCleaner: stop}, nil
}

// Close останавливает фоновые задачи, дожидается отправки писем и закрывает пул.
func (a *App) Close(ctx context.Context) {
	a.stopCleaner()
	if err := a.Mailer.Shutdown(ctx); err != nil {
		logger.Log.Warn("Очередь писем не разобрана до конца", zap.Error(err))
	}
	a.Pool.Close()
}

type tokenCleaner interface {
	CleanupTokens(ctx context.Context) (int64, error)
}

// StartTokenCleaner периодически чистит просроченные refresh-токены.
func StartTokenCleaner(ctx context.Context, svc tokenCleaner, every time.Duration) {
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := svc.CleanupTokens(ctx)
				if err != nil {
					logger.Log.Warn("Не удалось почистить refresh-токены", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Log.Info("Удалены просроченные refresh-токены", zap.Int64("count", n))
				}
			}
		}
	}()
}

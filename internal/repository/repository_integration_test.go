//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"appnity/internal/apperr"
	"appnity/internal/db"
	"appnity/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPool поднимает Postgres в контейнере и накатывает миграции.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("appnity"),
		postgres.WithUsername("appnity"),
		postgres.WithPassword("appnity"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("не удалось остановить контейнер: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = db.Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, repo *UserRepository, email, username, role string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Username: username, PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func TestIntegration(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	t.Run("migrations are idempotent", func(t *testing.T) {
		applied, err := db.Migrate(ctx, pool)
		require.NoError(t, err)
		assert.Empty(t, applied)
	})

	users := NewUserRepository(pool)
	author := createUser(t, users, "Editor@Appnity.co.ke", "editor", models.RoleEditor)

	t.Run("user email is unique case-insensitively", func(t *testing.T) {
		err := users.CreateUser(ctx, &models.User{Email: "editor@appnity.co.ke", Username: "other", PasswordHash: "x", Role: models.RoleUser})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		taken, err := users.IsEmailTaken(ctx, "EDITOR@appnity.co.ke")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("refresh tokens can be revoked once", func(t *testing.T) {
		jti := uuid.New()
		require.NoError(t, users.SaveRefreshToken(ctx, jti, author.ID, time.Now().Add(time.Hour)))

		active, err := users.IsRefreshTokenActive(ctx, jti, author.ID)
		require.NoError(t, err)
		assert.True(t, active)

		ok, err := users.RevokeRefreshToken(ctx, jti, author.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = users.RevokeRefreshToken(ctx, jti, author.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("blog list hides drafts and filters by tag", func(t *testing.T) {
		blogs := NewBlogRepo(pool)
		tag, err := blogs.CreateTag(ctx, &models.Tag{Name: "Go", Slug: "go"})
		require.NoError(t, err)

		_, err = blogs.Create(ctx, &models.BlogPost{
			Title: "Published", Slug: "published", Content: "body", Author: models.AuthorRef{ID: author.ID},
			Status: models.PostStatusPublished, ReadTime: 3,
		}, []int64{tag.ID})
		require.NoError(t, err)
		_, err = blogs.Create(ctx, &models.BlogPost{
			Title: "Draft", Slug: "draft", Content: "body", Author: models.AuthorRef{ID: author.ID},
			Status: models.PostStatusDraft, ReadTime: 3,
		}, nil)
		require.NoError(t, err)

		list, total, err := blogs.List(ctx, models.BlogFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "published", list[0].Slug)
		assert.NotNil(t, list[0].PublishedAt)
		require.Len(t, list[0].Tags, 1)

		_, total, err = blogs.List(ctx, models.BlogFilter{Tags: []string{"rust"}}, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, total)

		_, err = blogs.GetBySlug(ctx, "missing")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("course discount and instructors", func(t *testing.T) {
		training := NewTrainingRepo(pool)
		inst, err := training.CreateInstructor(ctx, &models.Instructor{Name: "Ann Mwangi", Title: "Lead", IsActive: true})
		require.NoError(t, err)

		orig := decimal.NewFromInt(20000)
		c, err := training.CreateCourse(ctx, &models.Course{
			Title: "Go Backend", Slug: "go-backend", Description: "d", Level: "beginner", Status: "active",
			Price: decimal.NewFromInt(15000), OriginalPrice: &orig,
		}, []models.CourseInstructorInput{{InstructorID: inst.ID}})
		require.NoError(t, err)
		assert.Equal(t, 25, c.DiscountPercentage)
		require.Len(t, c.Instructors, 1)
		assert.Equal(t, "Lead Instructor", c.Instructors[0].Role)
	})

	t.Run("applications require an open position", func(t *testing.T) {
		careers := NewCareersRepo(pool)
		open, err := careers.CreatePosition(ctx, &models.JobPosition{
			Title: "Go Engineer", Slug: "go-engineer", Department: "engineering", JobType: "full_time",
			Level: "mid", Description: "d", SalaryCurrency: "KES", Status: models.PositionOpen,
		})
		require.NoError(t, err)
		closed, err := careers.CreatePosition(ctx, &models.JobPosition{
			Title: "Designer", Slug: "designer", Department: "design", JobType: "full_time",
			Level: "mid", Description: "d", SalaryCurrency: "KES", Status: models.PositionClosed,
		})
		require.NoError(t, err)

		app, err := careers.CreateApplication(ctx, &models.JobApplication{
			PositionID: open.ID, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationSubmitted, app.Status)
		assert.Equal(t, "go-engineer", app.PositionSlug)

		_, err = careers.CreateApplication(ctx, &models.JobApplication{
			PositionID: closed.ID, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		got, err := careers.GetPositionBySlug(ctx, "go-engineer")
		require.NoError(t, err)
		assert.Equal(t, 1, got.ApplicationsCount)
	})

	t.Run("newsletter subscribe twice does not duplicate", func(t *testing.T) {
		news := NewNewsletterRepo(pool)

		_, outcome, err := news.Subscribe(ctx, "reader@example.com", "website")
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionCreated, outcome)

		_, outcome, err = news.Subscribe(ctx, "Reader@Example.com", "website")
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionAlreadyActive, outcome)

		_, err = news.Unsubscribe(ctx, "reader@example.com")
		require.NoError(t, err)
		_, err = news.Unsubscribe(ctx, "reader@example.com")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		sub, outcome, err := news.Subscribe(ctx, "reader@example.com", "footer")
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionReactivated, outcome)
		assert.True(t, sub.IsActive)
		assert.Nil(t, sub.UnsubscribedAt)

		_, total, err := news.List(ctx, models.SubscriberFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		st, err := news.Stats(ctx)
		require.NoError(t, err)
		assert.Len(t, st.GrowthTrend, 7)
	})

	t.Run("testimonial rating out of range is rejected", func(t *testing.T) {
		repo := NewTestimonialRepo(pool)
		_, err := repo.Create(ctx, &models.Testimonial{Name: "x", Content: "long enough content here", Rating: 6, TestimonialType: "customer"})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("featured products newest first", func(t *testing.T) {
		repo := NewProductRepo(pool)
		for _, name := range []string{"Old", "Mid", "New"} {
			_, err := repo.Create(ctx, &models.Product{Name: name, Slug: "p-" + uuid.NewString()[:8], Status: "live", IsFeatured: true})
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, &models.Product{Name: "Plain", Slug: "plain", Status: "live"})
		require.NoError(t, err)

		yes := true
		list, total, err := repo.List(ctx, models.ProductFilter{Featured: &yes, Ordering: "-created_at"}, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, list, 2)
		assert.Equal(t, "New", list[0].Name)
		assert.Equal(t, "Mid", list[1].Name)

		_, err = repo.Create(ctx, &models.Product{Name: "Dup", Slug: "plain", Status: "live"})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("portfolio technologies filter and groups", func(t *testing.T) {
		repo := NewPortfolioRepo(pool)
		_, err := repo.Create(ctx, &models.Project{Title: "Shop", Slug: "shop", Category: "web", Status: "completed",
			Technologies: []models.Technology{{Name: "Go", Category: "backend"}, {Name: "React", Category: "frontend"}}})
		require.NoError(t, err)
		_, err = repo.Create(ctx, &models.Project{Title: "Api", Slug: "api", Category: "api", Status: "completed",
			Technologies: []models.Technology{{Name: "Go", Category: "backend"}}})
		require.NoError(t, err)

		list, total, err := repo.List(ctx, models.ProjectFilter{Technologies: []string{"react"}}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "shop", list[0].Slug)

		groups, err := repo.TechnologyGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "backend", groups[0].Category)
		assert.Equal(t, models.TechnologyCount{Name: "Go", ProjectCount: 2}, groups[0].Technologies[0])
	})
}

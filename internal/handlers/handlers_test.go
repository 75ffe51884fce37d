package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"appnity/internal/apperr"
	"appnity/internal/models"
	"appnity/internal/services"
	"appnity/internal/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- фейки репозиториев ---

type memContacts struct {
	mu    sync.Mutex
	items []*models.Contact
}

func (m *memContacts) Create(_ context.Context, c *models.Contact) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = int64(len(m.items) + 1)
	c.Status = "new"
	m.items = append(m.items, c)
	return c, nil
}

func (m *memContacts) List(context.Context, models.ContactFilter, int, int) ([]*models.Contact, int, error) {
	return m.items, len(m.items), nil
}

func (m *memContacts) Get(_ context.Context, id int64) (*models.Contact, error) {
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperr.NotFound("Not found.")
}

func (m *memContacts) Update(ctx context.Context, id int64, in *models.UpdateContactRequest) (*models.Contact, error) {
	return m.Get(ctx, id)
}

func (m *memContacts) Stats(context.Context) (*models.ContactStats, error) {
	return &models.ContactStats{Total: len(m.items)}, nil
}

type memNewsletter struct {
	subs map[string]*models.Subscriber
}

func (m *memNewsletter) Subscribe(_ context.Context, email, source string) (*models.Subscriber, models.SubscribeOutcome, error) {
	email = strings.ToLower(email)
	if s, ok := m.subs[email]; ok {
		if s.IsActive {
			return s, models.SubscriptionAlreadyActive, nil
		}
		s.IsActive = true
		return s, models.SubscriptionReactivated, nil
	}
	s := &models.Subscriber{ID: int64(len(m.subs) + 1), Email: email, Source: source, IsActive: true}
	m.subs[email] = s
	return s, models.SubscriptionCreated, nil
}

func (m *memNewsletter) Unsubscribe(_ context.Context, email string) (*models.Subscriber, error) {
	s, ok := m.subs[strings.ToLower(email)]
	if !ok || !s.IsActive {
		return nil, apperr.Field("email", "Email not found in active subscriptions.")
	}
	s.IsActive = false
	return s, nil
}

func (m *memNewsletter) List(context.Context, models.SubscriberFilter, int, int) ([]*models.Subscriber, int, error) {
	return nil, 0, nil
}

func (m *memNewsletter) Stats(context.Context) (*models.NewsletterStats, error) {
	return &models.NewsletterStats{}, nil
}

// memCareers реализует только то, что нужно для откликов.
type memCareers struct {
	positions map[string]*models.JobPosition
	apps      []*models.JobApplication
}

func (m *memCareers) ListPositions(context.Context, models.PositionFilter, int, int) ([]*models.JobPosition, int, error) {
	return nil, 0, nil
}

func (m *memCareers) GetPositionBySlug(_ context.Context, slug string) (*models.JobPosition, error) {
	if p, ok := m.positions[slug]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("Not found.")
}

func (m *memCareers) PositionSlugExists(_ context.Context, slug string) (bool, error) {
	_, ok := m.positions[slug]
	return ok, nil
}

func (m *memCareers) CreatePosition(_ context.Context, p *models.JobPosition) (*models.JobPosition, error) {
	m.positions[p.Slug] = p
	return p, nil
}

func (m *memCareers) UpdatePosition(_ context.Context, p *models.JobPosition) (*models.JobPosition, error) {
	return p, nil
}

func (m *memCareers) DeletePosition(context.Context, int64) error { return nil }

func (m *memCareers) CreateApplication(_ context.Context, a *models.JobApplication) (*models.JobApplication, error) {
	a.ID = int64(len(m.apps) + 1)
	a.Status = "submitted"
	m.apps = append(m.apps, a)
	return a, nil
}

func (m *memCareers) ListApplications(context.Context, models.ApplicationFilter, int, int) ([]*models.JobApplication, int, error) {
	return m.apps, len(m.apps), nil
}

func (m *memCareers) GetApplication(_ context.Context, id int64) (*models.JobApplication, error) {
	return nil, apperr.NotFound("Not found.")
}

func (m *memCareers) UpdateApplication(context.Context, int64, *models.UpdateApplicationRequest) (*models.JobApplication, error) {
	return nil, apperr.NotFound("Not found.")
}

func (m *memCareers) Stats(context.Context) (*models.CareerStats, error) {
	return &models.CareerStats{}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// --- тесты ---

func TestContactCreate(t *testing.T) {
	repo := &memContacts{}
	h := NewContactHandler(services.NewContactService(repo, nil))

	t.Run("короткое сообщение принимается", func(t *testing.T) {
		rec := postJSON(t, h.Create, "/api/v1/contacts/", `{"name":"A","email":"a@b.co","message":"Hi"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.EqualValues(t, 1, body["id"])
		assert.Equal(t, "Thank you for contacting us. We will get back to you soon.", body["message"])
		require.Len(t, repo.items, 1)
		assert.Equal(t, "general", repo.items[0].InquiryType)
	})

	t.Run("невалидный email", func(t *testing.T) {
		rec := postJSON(t, h.Create, "/api/v1/contacts/", `{"name":"A","email":"nope","message":"Hi"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		details, ok := body["details"].(map[string]any)
		require.True(t, ok, rec.Body.String())
		assert.Equal(t, "Enter a valid email address.", details["email"])
	})

	t.Run("пустое тело", func(t *testing.T) {
		rec := postJSON(t, h.Create, "/api/v1/contacts/", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Request body is empty.", decode(t, rec)["error"])
	})

	t.Run("неизвестный тип обращения", func(t *testing.T) {
		rec := postJSON(t, h.Create, "/api/v1/contacts/", `{"name":"A","email":"a@b.co","message":"Hi","inquiry_type":"spam"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNewsletterSubscribe(t *testing.T) {
	h := NewNewsletterHandler(services.NewNewsletterService(&memNewsletter{subs: map[string]*models.Subscriber{}}, nil))

	rec := postJSON(t, h.Subscribe, "/api/v1/newsletter/subscribe/", `{"email":"x@y.co"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Successfully subscribed to newsletter", body["message"])
	sub := body["subscriber"].(map[string]any)
	assert.Equal(t, "website", sub["source"])

	rec = postJSON(t, h.Subscribe, "/api/v1/newsletter/subscribe/", `{"email":"x@y.co"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email is already subscribed", decode(t, rec)["message"])

	rec = postJSON(t, h.Unsubscribe, "/api/v1/newsletter/unsubscribe/", `{"email":"x@y.co"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully unsubscribed from newsletter", decode(t, rec)["message"])

	// повторная отписка: подписка уже неактивна
	rec = postJSON(t, h.Unsubscribe, "/api/v1/newsletter/unsubscribe/", `{"email":"x@y.co"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Subscribe, "/api/v1/newsletter/subscribe/", `{"email":"x@y.co"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully resubscribed to newsletter", decode(t, rec)["message"])
}

func applyRequest(t *testing.T, slug string, fields map[string]string, resume []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if resume != nil {
		fw, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(t, err)
		_, err = fw.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/careers/positions/"+slug+"/apply/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return mux.SetURLVars(req, map[string]string{"slug": slug})
}

func TestCareersApply(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	repo := &memCareers{positions: map[string]*models.JobPosition{
		"go-developer": {ID: 1, Title: "Go Developer", Slug: "go-developer", Status: models.PositionOpen},
		"designer":     {ID: 2, Title: "Designer", Slug: "designer", Status: models.PositionClosed},
		"late":         {ID: 3, Title: "Late", Slug: "late", Status: models.PositionOpen, ApplicationDeadline: &past},
	}}
	store := storage.NewResumeStore(t.TempDir(), 1<<20)
	h := NewCareersHandler(services.NewCareersService(repo, store, nil), store.MaxBytes())

	valid := map[string]string{"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com", "years_of_experience": "4"}

	t.Run("без резюме", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Apply(rec, applyRequest(t, "go-developer", valid, nil))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "Application submitted successfully", body["message"])
		assert.Equal(t, "Go Developer", body["position"])
		assert.EqualValues(t, 1, body["application_id"])
		assert.Equal(t, 4, repo.apps[0].YearsOfExperience)
		assert.Empty(t, repo.apps[0].Resume)
	})

	t.Run("с pdf", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Apply(rec, applyRequest(t, "go-developer", valid, []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n")))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.NotEmpty(t, repo.apps[len(repo.apps)-1].Resume)
	})

	tests := []struct {
		name   string
		slug   string
		fields map[string]string
		status int
		field  string
	}{
		{"закрытая вакансия", "designer", valid, http.StatusBadRequest, ""},
		{"срок истёк", "late", valid, http.StatusBadRequest, ""},
		{"нет вакансии", "nope", valid, http.StatusNotFound, ""},
		{"опыт не число", "go-developer", map[string]string{"first_name": "J", "last_name": "D", "email": "j@d.co", "years_of_experience": "много"}, http.StatusBadRequest, "years_of_experience"},
		{"нет имени", "go-developer", map[string]string{"last_name": "D", "email": "j@d.co"}, http.StatusBadRequest, "first_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Apply(rec, applyRequest(t, tt.slug, tt.fields, nil))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.field != "" {
				details := decode(t, rec)["details"].(map[string]any)
				assert.Contains(t, details, tt.field)
			}
		})
	}

	t.Run("слишком большой файл", func(t *testing.T) {
		// больше лимита хранилища, но в пределах запаса на форму
		big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 3<<19)...)
		rec := httptest.NewRecorder()
		h.Apply(rec, applyRequest(t, "go-developer", valid, big))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		details := decode(t, rec)["details"].(map[string]any)
		assert.Contains(t, details, "resume")
	})
}

func TestHealth(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	h := NewHealthHandler(pinger{})
	h.now = func() time.Time { return fixed }
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "2025-01-02T03:04:05Z", body["time"])

	h = NewHealthHandler(pinger{err: errors.New("connection refused")})
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health/", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode(t, rec)["database"])
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query string
		limit int
		err   bool
	}{
		{"", PageSize, false},
		{"page_size=5", 5, false},
		{"page_size=100000", MaxPageSize, false},
		{"page=0", 0, true},
		{"page=abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p, err := pageParams(httptest.NewRequest(http.MethodGet, "/x/?"+tt.query, nil))
			if tt.err {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.limit, p.Limit())
		})
	}
}

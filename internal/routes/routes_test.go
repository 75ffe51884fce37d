package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"appnity/internal/handlers"
	"appnity/internal/models"
	"appnity/internal/services"
	"appnity/internal/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// contactsRepo: только Create, остальное в этих тестах не вызывается.
type contactsRepo struct{ n int64 }

func (c *contactsRepo) Create(_ context.Context, in *models.Contact) (*models.Contact, error) {
	c.n++
	in.ID = c.n
	return in, nil
}

func (c *contactsRepo) List(context.Context, models.ContactFilter, int, int) ([]*models.Contact, int, error) {
	return nil, 0, nil
}

func (c *contactsRepo) Get(context.Context, int64) (*models.Contact, error) { return nil, nil }

func (c *contactsRepo) Update(context.Context, int64, *models.UpdateContactRequest) (*models.Contact, error) {
	return nil, nil
}

func (c *contactsRepo) Stats(context.Context) (*models.ContactStats, error) {
	return &models.ContactStats{}, nil
}

func newRouter(t *testing.T, submitLimit int) (*mux.Router, *utils.TokenManager) {
	t.Helper()
	tm := utils.NewTokenManager("secret", time.Minute, time.Hour)
	r := mux.NewRouter()
	InitRoutes(r, &Handlers{
		Tokens:          tm,
		Auth:            handlers.NewAuthHandler(nil),
		Blog:            handlers.NewBlogHandler(nil),
		Products:        handlers.NewProductHandler(nil),
		Portfolio:       handlers.NewPortfolioHandler(nil),
		Training:        handlers.NewTrainingHandler(nil),
		Careers:         handlers.NewCareersHandler(nil, 5<<20),
		Testimonials:    handlers.NewTestimonialHandler(nil),
		Contacts:        handlers.NewContactHandler(services.NewContactService(&contactsRepo{}, nil)),
		Newsletter:      handlers.NewNewsletterHandler(nil),
		Health:          handlers.NewHealthHandler(okPinger{}),
		SubmitRateLimit: submitLimit,
	})
	return r, tm
}

func serve(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Access(t *testing.T) {
	r, tm := newRouter(t, 0)
	userToken, _, err := tm.GenerateToken(1, models.RoleUser, utils.TokenAccess)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health", http.MethodGet, "/health/", "", http.StatusOK},
		{"health под /api/v1", http.MethodGet, "/api/v1/health/", "", http.StatusOK},
		{"без слеша: редирект", http.MethodGet, "/health", "", http.StatusMovedPermanently},
		{"неизвестный путь", http.MethodGet, "/api/v1/nope/", "", http.StatusNotFound},
		{"неверный метод", http.MethodDelete, "/health/", "", http.StatusMethodNotAllowed},
		{"список обращений без токена", http.MethodGet, "/api/v1/contacts/list/", "", http.StatusUnauthorized},
		{"список обращений обычному пользователю", http.MethodGet, "/api/v1/contacts/list/", userToken, http.StatusForbidden},
		{"профиль без токена", http.MethodGet, "/api/v1/auth/profile/", "", http.StatusUnauthorized},
		{"публичный маршрут с битым токеном", http.MethodGet, "/api/v1/blogs/", "garbage", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status >= http.StatusBadRequest {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestRoutes_SubmitRateLimit(t *testing.T) {
	r, _ := newRouter(t, 2)
	body := `{"name":"A","email":"a@b.co","message":"Hi"}`

	for i := 0; i < 2; i++ {
		rec := serve(r, http.MethodPost, "/api/v1/contacts/", "", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := serve(r, http.MethodPost, "/api/v1/contacts/", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// лимит у каждой формы свой
	rec = serve(r, http.MethodPost, "/api/v1/newsletter/subscribe/", "", `{"email":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes_SubmitRateLimit_SpoofedHeaders(t *testing.T) {
	r, _ := newRouter(t, 2)
	body := `{"name":"A","email":"a@b.co","message":"Hi"}`

	codes := make([]int, 0, 6)
	for i := range 6 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		req.Header.Set("X-Real-IP", "10.0.1."+strconv.Itoa(i))
		req.Header.Set("True-Client-IP", "10.0.2."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{201, 201, 429, 429, 429, 429}, codes)
}

func TestRoutes_Schema(t *testing.T) {
	r, _ := newRouter(t, 0)
	rec := serve(r, http.MethodGet, "/api/schema/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Info    struct{ Title string }    `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Appnity API", doc.Info.Title)

	for _, p := range []string{
		"/api/v1/contacts/",
		"/api/v1/contacts/{id}/",
		"/api/v1/careers/positions/{slug}/apply/",
		"/api/v1/newsletter/subscribe/",
		"/api/v1/testimonials/submit/",
	} {
		assert.Contains(t, doc.Paths, p)
	}
	for p := range doc.Paths {
		assert.NotContains(t, p, ":", "регулярка осталась в пути %s", p)
	}
	assert.Contains(t, doc.Paths["/api/v1/contacts/"], "post")
}

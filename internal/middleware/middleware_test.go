package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"appnity/internal/models"
	"appnity/internal/reqctx"
	"appnity/internal/utils"
	helpers "appnity/internal/utils/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := reqctx.GetUserID(r.Context())
	role, _ := reqctx.GetRole(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]any{"user_id": uid, "role": role})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	tm := utils.NewTokenManager("secret", time.Minute, time.Hour)
	access, _, err := tm.GenerateToken(7, models.RoleEditor, utils.TokenAccess)
	require.NoError(t, err)
	refresh, _, err := tm.GenerateToken(7, models.RoleEditor, utils.TokenRefresh)
	require.NoError(t, err)

	h := JWTAuth(tm)(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"без заголовка", "", http.StatusUnauthorized},
		{"не Bearer", "Token " + access, http.StatusUnauthorized},
		{"refresh вместо access", "Bearer " + refresh, http.StatusUnauthorized},
		{"мусор", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"валидный", "Bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.EqualValues(t, http.StatusUnauthorized, decodeError(t, rec)["status"])
			} else {
				body := decodeError(t, rec)
				assert.EqualValues(t, 7, body["user_id"])
				assert.Equal(t, models.RoleEditor, body["role"])
			}
		})
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	tm := utils.NewTokenManager("secret", time.Minute, time.Hour)
	rec := httptest.NewRecorder()
	OptionalAuth(tm)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoles(t *testing.T) {
	withRole := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if role != "" {
			req = req.WithContext(reqctx.WithRole(req.Context(), role))
		}
		return req
	}
	staff := RequireStaff(http.HandlerFunc(okHandler))
	// без ролей: только админ
	adminOnly := AnyRole()(http.HandlerFunc(okHandler))

	cases := []struct {
		h      http.Handler
		role   string
		status int
	}{
		{staff, models.RoleUser, http.StatusForbidden},
		{staff, models.RoleEditor, http.StatusOK},
		{staff, models.RoleAdmin, http.StatusOK},
		{staff, "", http.StatusUnauthorized},
		{adminOnly, models.RoleEditor, http.StatusForbidden},
		{adminOnly, models.RoleAdmin, http.StatusOK},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		c.h.ServeHTTP(rec, withRole(c.role))
		assert.Equal(t, c.status, rec.Code, "role=%q", c.role)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2, time.Hour)(http.HandlerFunc(okHandler))
	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// другой IP считается отдельно
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/", nil)
	req.RemoteAddr = "192.0.2.11:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	hit := func(h http.Handler, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/", nil)
		req.RemoteAddr = "192.0.2.20:5555"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// клиент сам подставляет X-Forwarded-For: считаем по адресу соединения
	h := RateLimit(2, time.Hour)(http.HandlerFunc(okHandler))
	codes := make([]int, 0, 4)
	for i := range 4 {
		codes = append(codes, hit(h, "10.0.0."+strconv.Itoa(i)))
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	// за доверенным прокси каждый клиент из заголовка считается отдельно
	helpers.TrustProxy = true
	t.Cleanup(func() { helpers.TrustProxy = false })
	h = RateLimit(1, time.Hour)(http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.1.1"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.1.2"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.1.1"))
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, time.Hour)(http.HandlerFunc(okHandler))
	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = reqctx.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-42", seen)
}

func TestLogging_CapturesStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/testimonials/submit/", nil)
	r.RemoteAddr = "192.0.2.7:41000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r.Header.Set("X-Real-IP", "203.0.113.10")

	// без доверенного прокси заголовки игнорируются
	assert.Equal(t, "192.0.2.7", ClientIP(r))

	TrustProxy = true
	t.Cleanup(func() { TrustProxy = false })
	assert.Equal(t, "203.0.113.9", ClientIP(r))

	r.Header.Del("X-Forwarded-For")
	assert.Equal(t, "203.0.113.10", ClientIP(r))

	r.Header.Del("X-Real-IP")
	assert.Equal(t, "192.0.2.7", ClientIP(r))
}

package middleware

import (
	"net/http"
	"time"

	"appnity/internal/logger"
	helpers "appnity/internal/utils/helpers"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimit ограничивает число запросов с одного IP за окно.
// limit <= 0 отключает ограничение. Ключ: адрес соединения, заголовки
// прокси учитываются только при helpers.TrustProxy.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	key := httprate.KeyByIP
	if helpers.TrustProxy {
		key = httprate.KeyByRealIP
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WithCtx(r.Context()).Warn("Превышен лимит запросов", zap.String("path", r.URL.Path), zap.String("ip", helpers.ClientIP(r)))
			helpers.Fail(w, http.StatusTooManyRequests, "Request was throttled. Please try again later.", nil)
		}),
	)
}

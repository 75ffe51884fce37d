package middleware

import (
	"context"
	"net/http"
	"time"

	"appnity/internal/logger"
	"appnity/internal/reqctx"

	"go.uber.org/zap"
)

type metaKey struct{}

// requestMeta заполняется auth-мидлварью ниже по цепочке.
type requestMeta struct {
	userID int64
}

func setMetaUser(ctx context.Context, id int64) {
	if m, ok := ctx.Value(metaKey{}).(*requestMeta); ok {
		m.userID = id
	}
}

// Logging пишет по строке на запрос.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		meta := &requestMeta{}
		r = r.WithContext(context.WithValue(r.Context(), metaKey{}, meta))

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if rid, ok := reqctx.GetRequestID(r.Context()); ok {
			fields = append(fields, zap.String("request_id", rid))
		}
		if meta.userID != 0 {
			fields = append(fields, zap.Int64("user_id", meta.userID))
		}

		switch {
		case lrw.statusCode >= 500:
			logger.Log.Error("HTTP-запрос", fields...)
		case lrw.statusCode >= 400:
			logger.Log.Warn("HTTP-запрос", fields...)
		default:
			logger.Log.Info("HTTP-запрос", fields...)
		}
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if !lrw.wroteHeader {
		lrw.statusCode = code
		lrw.wroteHeader = true
	}
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	lrw.wroteHeader = true
	return lrw.ResponseWriter.Write(b)
}

// Unwrap нужен http.ResponseController.
func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter { return lrw.ResponseWriter }

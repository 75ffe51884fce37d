package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	helpers "appnity/internal/utils/helpers"

	"go.uber.org/zap"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.WithCtx(r.Context()).Error("panic recovered",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)
			helpers.WriteError(w, r, apperr.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		next.ServeHTTP(w, r)
	})
}

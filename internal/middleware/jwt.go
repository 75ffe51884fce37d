package middleware

import (
	"net/http"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/reqctx"
	"appnity/internal/utils"
	helpers "appnity/internal/utils/helpers"

	"go.uber.org/zap"
)

// JWTAuth требует действующий access-токен в заголовке Authorization.
func JWTAuth(tokens *utils.TokenManager) func(http.Handler) http.Handler {
	return auth(tokens, true)
}

// OptionalAuth кладёт пользователя в контекст, если токен передан.
// Неверный токен всё равно даёт 401.
func OptionalAuth(tokens *utils.TokenManager) func(http.Handler) http.Handler {
	return auth(tokens, false)
}

func auth(tokens *utils.TokenManager, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				if required {
					logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token", zap.String("path", r.URL.Path))
					helpers.WriteError(w, r, apperr.Unauthorized("Authentication credentials were not provided."))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				helpers.WriteError(w, r, apperr.Unauthorized("Authorization header must contain a Bearer token."))
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw), utils.TokenAccess)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				helpers.WriteError(w, r, apperr.Unauthorized("Given token not valid for any token type"))
				return
			}

			setMetaUser(r.Context(), claims.UserID)
			ctx := reqctx.WithUserID(r.Context(), claims.UserID)
			ctx = reqctx.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Package helpers: запись JSON-ответов и разбор тел запросов.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/validation"

	"go.uber.org/zap"
)

// Debug включает вывод причины внутренних ошибок в ответе.
var Debug bool

const maxJSONBody = 1 << 20

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Warn("Не удалось записать ответ", zap.Error(err))
	}
}

func Action(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, models.ActionResponse{Status: "success", Message: message, Data: data})
}

// Fail пишет ошибку с произвольным статусом (например, 429 от лимитера).
func Fail(w http.ResponseWriter, status int, message string, details map[string]string) {
	JSON(w, status, models.ErrorResponse{Error: message, Details: details, Status: status})
}

// WriteError переводит ошибку в HTTP-ответ по её виду.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.As(err)
	status := e.Kind.HTTPStatus()
	log := logger.WithCtx(r.Context())

	msg := e.Message
	var details map[string]string
	switch e.Kind {
	case apperr.KindInternal:
		log.Error("Внутренняя ошибка", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "Internal server error"
		if Debug {
			details = map[string]string{"cause": err.Error()}
		}
	case apperr.KindValidation:
		details = e.Fields
		if len(details) > 0 {
			msg = "Invalid input."
		}
		log.Info("Ошибка валидации", zap.String("path", r.URL.Path), zap.Any("fields", e.Fields), zap.String("message", e.Message))
	default:
		log.Info("Запрос отклонён", zap.String("path", r.URL.Path), zap.Int("status", status), zap.String("message", e.Message))
	}
	Fail(w, status, msg, details)
}

// DecodeJSON читает тело запроса в dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is empty.")
		case errors.As(err, &maxErr):
			return apperr.Validation("Request body is too large.")
		default:
			return apperr.Validation("JSON parse error - " + err.Error())
		}
	}
	return nil
}

// Bind = DecodeJSON + проверка тегов validate.
func Bind(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}

// TrustProxy: сервис стоит за доверенным прокси, заголовки X-Forwarded-For
// и X-Real-IP выставляет он. Иначе их присылает клиент и им верить нельзя.
var TrustProxy bool

// ClientIP: RemoteAddr, а за доверенным прокси первый адрес из X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if TrustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			return strings.TrimSpace(ip)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

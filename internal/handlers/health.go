package handlers

import (
	"context"
	"net/http"
	"time"

	"appnity/internal/logger"
	"appnity/internal/models"
	helpers "appnity/internal/utils/helpers"

	"go.uber.org/zap"
)

// Pinger: то, что умеет проверить соединение с БД (pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Health godoc
// @Summary Проверка живости сервиса и БД
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health/ [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{Status: "ok", Database: "ok", Time: h.now().UTC()}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		logger.WithCtx(r.Context()).Error("БД недоступна", zap.Error(err))
		resp.Status, resp.Database = "unavailable", "unavailable"
		status = http.StatusServiceUnavailable
	}
	helpers.JSON(w, status, resp)
}

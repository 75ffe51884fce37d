package handlers

import (
	"net/http"

	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"
)

type NewsletterHandler struct {
	newsletter *services.NewsletterService
}

func NewNewsletterHandler(newsletter *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter}
}

// Subscribe godoc
// @Summary Подписаться на рассылку
// @Description Новая подписка отвечает 201, повторная или уже активная 200.
// @Tags newsletter
// @Accept json
// @Produce json
// @Param input body models.SubscribeRequest true "Email и источник"
// @Success 201 {object} services.SubscribeResult
// @Success 200 {object} services.SubscribeResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/newsletter/subscribe/ [post]
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	res, err := h.newsletter.Subscribe(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, res.Status, res)
}

// Unsubscribe godoc
// @Summary Отписаться от рассылки
// @Tags newsletter
// @Accept json
// @Produce json
// @Param input body models.UnsubscribeRequest true "Email"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/newsletter/unsubscribe/ [post]
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.UnsubscribeRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if err := h.newsletter.Unsubscribe(r.Context(), &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.Action(w, http.StatusOK, "Successfully unsubscribed from newsletter", nil)
}

// Subscribers godoc
// @Summary Подписчики (персонал)
// @Tags newsletter
// @Security BearerAuth
// @Produce json
// @Param is_active query bool false "Активные"
// @Param source query string false "Источник"
// @Param search query string false "Поиск по email"
// @Success 200 {object} pagination.Page[models.Subscriber]
// @Router /api/v1/newsletter/list/ [get]
func (h *NewsletterHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	active, aerr := queryBool(r, "is_active")
	if err := firstErr(err, aerr); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.newsletter.List(r.Context(), models.SubscriberFilter{
		IsActive: active,
		Source:   query(r, "source"),
		Search:   query(r, "search"),
	}, p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Stats godoc
// @Summary Статистика рассылки (персонал)
// @Tags newsletter
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.NewsletterStats
// @Router /api/v1/newsletter/stats/ [get]
func (h *NewsletterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.newsletter.Stats(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

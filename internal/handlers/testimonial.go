package handlers

import (
	"net/http"

	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type TestimonialHandler struct {
	testimonials *services.TestimonialService
}

func NewTestimonialHandler(testimonials *services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

// List godoc
// @Summary Одобренные отзывы
// @Tags testimonials
// @Produce json
// @Param testimonial_type query string false "customer, user, student, partner, employee"
// @Param is_featured query bool false "Только избранные"
// @Param rating query int false "Оценка"
// @Param search query string false "Поиск"
// @Param page query int false "Страница"
// @Success 200 {object} pagination.Page[models.Testimonial]
// @Router /api/v1/testimonials/ [get]
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	featured, ferr := queryBool(r, "is_featured")
	rating, rerr := queryInt(r, "rating")
	if err := firstErr(err, ferr, rerr); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.testimonials.List(r.Context(), models.TestimonialFilter{
		Type:     query(r, "testimonial_type"),
		Featured: featured,
		Rating:   rating,
		Search:   query(r, "search"),
		Ordering: query(r, "ordering"),
	}, p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Featured godoc
// @Summary Избранные отзывы
// @Tags testimonials
// @Produce json
// @Success 200 {array} models.Testimonial
// @Router /api/v1/testimonials/featured/ [get]
func (h *TestimonialHandler) Featured(w http.ResponseWriter, r *http.Request) {
	list, err := h.testimonials.Featured(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// ByType godoc
// @Summary Отзывы по типу
// @Tags testimonials
// @Produce json
// @Param type path string true "customer, user, student, partner, employee"
// @Success 200 {object} pagination.Page[models.Testimonial]
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/testimonials/type/{type}/ [get]
func (h *TestimonialHandler) ByType(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.testimonials.ByType(r.Context(), mux.Vars(r)["type"], p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Get godoc
// @Summary Отзыв по id
// @Tags testimonials
// @Produce json
// @Param id path int true "id отзыва"
// @Success 200 {object} models.Testimonial
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/testimonials/{id}/ [get]
func (h *TestimonialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	t, err := h.testimonials.Get(r.Context(), id, isStaff(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, t)
}

// Submit godoc
// @Summary Оставить отзыв (уходит на модерацию)
// @Tags testimonials
// @Accept json
// @Produce json
// @Param input body models.SubmitTestimonialRequest true "Отзыв"
// @Success 201 {object} models.ActionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /api/v1/testimonials/submit/ [post]
func (h *TestimonialHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitTestimonialRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	t, err := h.testimonials.Submit(r.Context(), &req, helpers.ClientIP(r), r.UserAgent())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.Action(w, http.StatusCreated,
		"Thank you for your testimonial! It will be reviewed before publishing.",
		map[string]int64{"id": t.ID})
}

// Create godoc
// @Summary Создать отзыв (персонал, сразу одобрен)
// @Tags testimonials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateTestimonialRequest true "Отзыв"
// @Success 201 {object} models.Testimonial
// @Router /api/v1/testimonials/ [post]
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTestimonialRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	t, err := h.testimonials.Create(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, t)
}

// Update godoc
// @Summary Изменить отзыв (персонал)
// @Tags testimonials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "id отзыва"
// @Param input body models.UpdateTestimonialRequest true "Изменяемые поля"
// @Success 200 {object} models.Testimonial
// @Router /api/v1/testimonials/{id}/ [patch]
func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	var req models.UpdateTestimonialRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	t, err := h.testimonials.Update(r.Context(), id, &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, t)
}

// Delete godoc
// @Summary Удалить отзыв (персонал)
// @Tags testimonials
// @Security BearerAuth
// @Param id path int true "id отзыва"
// @Success 204
// @Router /api/v1/testimonials/{id}/ [delete]
func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if err := h.testimonials.Delete(r.Context(), id); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submissions godoc
// @Summary Отзывы на модерации (персонал)
// @Tags testimonials
// @Security BearerAuth
// @Produce json
// @Success 200 {object} pagination.Page[models.Testimonial]
// @Router /api/v1/testimonials/submissions/ [get]
func (h *TestimonialHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.testimonials.Submissions(r.Context(), p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Approve godoc
// @Summary Одобрить отзыв (персонал)
// @Tags testimonials
// @Security BearerAuth
// @Produce json
// @Param id path int true "id отзыва"
// @Success 200 {object} models.ActionResponse
// @Router /api/v1/testimonials/{id}/approve/ [post]
func (h *TestimonialHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	t, err := h.testimonials.Approve(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.Action(w, http.StatusOK, "Testimonial approved", t)
}

// Stats godoc
// @Summary Статистика отзывов (персонал)
// @Tags testimonials
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.TestimonialStats
// @Router /api/v1/testimonials/stats/ [get]
func (h *TestimonialHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.testimonials.Stats(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

package handlers

import (
	"net/http"

	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"
)

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Create godoc
// @Summary Отправить обращение
// @Tags contacts
// @Accept json
// @Produce json
// @Param input body models.CreateContactRequest true "Обращение"
// @Success 201 {object} models.ContactReceipt
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /api/v1/contacts/ [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContactRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	receipt, err := h.contacts.Create(r.Context(), &req, helpers.ClientIP(r), r.UserAgent())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, receipt)
}

// List godoc
// @Summary Обращения (персонал)
// @Tags contacts
// @Security BearerAuth
// @Produce json
// @Param status query string false "new, in_progress, resolved, closed"
// @Param inquiry_type query string false "Тип обращения"
// @Param search query string false "Поиск"
// @Success 200 {object} pagination.Page[models.Contact]
// @Router /api/v1/contacts/list/ [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.contacts.List(r.Context(), models.ContactFilter{
		Status:      query(r, "status"),
		InquiryType: query(r, "inquiry_type"),
		Search:      query(r, "search"),
	}, p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Get godoc
// @Summary Обращение по id (персонал)
// @Tags contacts
// @Security BearerAuth
// @Produce json
// @Param id path int true "id обращения"
// @Success 200 {object} models.Contact
// @Router /api/v1/contacts/{id}/ [get]
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	c, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// Update godoc
// @Summary Статус и заметки обращения (персонал)
// @Tags contacts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "id обращения"
// @Param input body models.UpdateContactRequest true "Статус и заметки"
// @Success 200 {object} models.Contact
// @Router /api/v1/contacts/{id}/ [patch]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	var req models.UpdateContactRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	c, err := h.contacts.Update(r.Context(), id, &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// Stats godoc
// @Summary Статистика обращений (персонал)
// @Tags contacts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.ContactStats
// @Router /api/v1/contacts/stats/ [get]
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.contacts.Stats(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

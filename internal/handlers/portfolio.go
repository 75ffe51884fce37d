package handlers

import (
	"net/http"

	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type PortfolioHandler struct {
	portfolio *services.PortfolioService
}

func NewPortfolioHandler(portfolio *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

func projectFilter(r *http.Request) (models.ProjectFilter, error) {
	featured, err1 := queryBool(r, "featured")
	durMin, err2 := queryInt(r, "duration_min")
	durMax, err3 := queryInt(r, "duration_max")
	teamMin, err4 := queryInt(r, "team_size_min")
	teamMax, err5 := queryInt(r, "team_size_max")
	if err := firstErr(err1, err2, err3, err4, err5); err != nil {
		return models.ProjectFilter{}, err
	}
	return models.ProjectFilter{
		Category:     query(r, "category"),
		Status:       query(r, "status"),
		Featured:     featured,
		Client:       query(r, "client"),
		Technologies: queryList(r, "technologies"),
		DurationMin:  durMin,
		DurationMax:  durMax,
		TeamSizeMin:  teamMin,
		TeamSizeMax:  teamMax,
		Search:       query(r, "search"),
		Ordering:     query(r, "ordering"),
	}, nil
}

// List godoc
// @Summary Проекты портфолио
// @Tags portfolio
// @Produce json
// @Param category query string false "web, mobile, saas, api, other"
// @Param status query string false "Статус проекта"
// @Param featured query bool false "Только избранные"
// @Param client query string false "Клиент (подстрока)"
// @Param technologies query string false "Технологии через запятую"
// @Param duration_min query int false "Длительность от, недель"
// @Param duration_max query int false "Длительность до, недель"
// @Param team_size_min query int false "Команда от"
// @Param team_size_max query int false "Команда до"
// @Param search query string false "Поиск"
// @Param page query int false "Страница"
// @Success 200 {object} pagination.Page[models.Project]
// @Router /api/v1/portfolio/ [get]
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	f, err := projectFilter(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.portfolio.List(r.Context(), f, p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Featured godoc
// @Summary Избранные проекты (не больше 6)
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.Project
// @Router /api/v1/portfolio/featured/ [get]
func (h *PortfolioHandler) Featured(w http.ResponseWriter, r *http.Request) {
	list, err := h.portfolio.Featured(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// ByCategory godoc
// @Summary Проекты категории
// @Tags portfolio
// @Produce json
// @Param category path string true "web, mobile, saas, api, other"
// @Success 200 {object} pagination.Page[models.Project]
// @Router /api/v1/portfolio/category/{category}/ [get]
func (h *PortfolioHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.portfolio.ByCategory(r.Context(), mux.Vars(r)["category"], p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Search godoc
// @Summary Поиск по проектам
// @Tags portfolio
// @Produce json
// @Param q query string true "Строка поиска"
// @Success 200 {object} pagination.Page[models.Project]
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/portfolio/search/ [get]
func (h *PortfolioHandler) Search(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.portfolio.Search(r.Context(), query(r, "q"), p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Technologies godoc
// @Summary Технологии по категориям с числом проектов
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.TechnologyGroup
// @Router /api/v1/portfolio/technologies/ [get]
func (h *PortfolioHandler) Technologies(w http.ResponseWriter, r *http.Request) {
	groups, err := h.portfolio.Technologies(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, groups)
}

// Stats godoc
// @Summary Статистика портфолио
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.PortfolioStats
// @Router /api/v1/portfolio/stats/ [get]
func (h *PortfolioHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.portfolio.Stats(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Get godoc
// @Summary Проект по slug
// @Tags portfolio
// @Produce json
// @Param slug path string true "slug проекта"
// @Success 200 {object} models.Project
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/portfolio/{slug}/ [get]
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.portfolio.Get(r.Context(), pathSlug(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Create godoc
// @Summary Создать проект
// @Tags portfolio
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateProjectRequest true "Проект"
// @Success 201 {object} models.Project
// @Router /api/v1/portfolio/ [post]
func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	p, err := h.portfolio.Create(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, p)
}

// Update godoc
// @Summary Изменить проект
// @Tags portfolio
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "slug проекта"
// @Param input body models.UpdateProjectRequest true "Изменяемые поля"
// @Success 200 {object} models.Project
// @Router /api/v1/portfolio/{slug}/ [patch]
func (h *PortfolioHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProjectRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	p, err := h.portfolio.Update(r.Context(), pathSlug(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Delete godoc
// @Summary Удалить проект
// @Tags portfolio
// @Security BearerAuth
// @Param slug path string true "slug проекта"
// @Success 204
// @Router /api/v1/portfolio/{slug}/ [delete]
func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolio.Delete(r.Context(), pathSlug(r)); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

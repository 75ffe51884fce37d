package handlers

import (
	"net/http"

	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"
)

type TrainingHandler struct {
	training *services.TrainingService
}

func NewTrainingHandler(training *services.TrainingService) *TrainingHandler {
	return &TrainingHandler{training: training}
}

// Courses godoc
// @Summary Курсы
// @Tags training
// @Produce json
// @Param level query string false "beginner, intermediate, advanced"
// @Param status query string false "active, coming_soon, archived"
// @Param featured query bool false "Только избранные"
// @Param search query string false "Поиск"
// @Param page query int false "Страница"
// @Success 200 {object} pagination.Page[models.Course]
// @Router /api/v1/training/courses/ [get]
func (h *TrainingHandler) Courses(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	featured, ferr := queryBool(r, "featured")
	if err := firstErr(err, ferr); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.training.List(r.Context(), models.CourseFilter{
		Level:    query(r, "level"),
		Status:   query(r, "status"),
		Featured: featured,
		Search:   query(r, "search"),
		Ordering: query(r, "ordering"),
	}, p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// FeaturedCourses godoc
// @Summary Избранные активные курсы (не больше 3)
// @Tags training
// @Produce json
// @Success 200 {array} models.Course
// @Router /api/v1/training/courses/featured/ [get]
func (h *TrainingHandler) FeaturedCourses(w http.ResponseWriter, r *http.Request) {
	list, err := h.training.Featured(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// CourseStats godoc
// @Summary Статистика курсов
// @Tags training
// @Produce json
// @Success 200 {object} models.CourseStats
// @Router /api/v1/training/courses/stats/ [get]
func (h *TrainingHandler) CourseStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.training.Stats(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Course godoc
// @Summary Курс по slug
// @Tags training
// @Produce json
// @Param slug path string true "slug курса"
// @Success 200 {object} models.Course
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/training/courses/{slug}/ [get]
func (h *TrainingHandler) Course(w http.ResponseWriter, r *http.Request) {
	c, err := h.training.Get(r.Context(), pathSlug(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// CreateCourse godoc
// @Summary Создать курс
// @Tags training
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateCourseRequest true "Курс"
// @Success 201 {object} models.Course
// @Router /api/v1/training/courses/ [post]
func (h *TrainingHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	c, err := h.training.Create(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

// UpdateCourse godoc
// @Summary Изменить курс
// @Tags training
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "slug курса"
// @Param input body models.UpdateCourseRequest true "Изменяемые поля"
// @Success 200 {object} models.Course
// @Router /api/v1/training/courses/{slug}/ [patch]
func (h *TrainingHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCourseRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	c, err := h.training.Update(r.Context(), pathSlug(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// DeleteCourse godoc
// @Summary Удалить курс
// @Tags training
// @Security BearerAuth
// @Param slug path string true "slug курса"
// @Success 204
// @Router /api/v1/training/courses/{slug}/ [delete]
func (h *TrainingHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.training.Delete(r.Context(), pathSlug(r)); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Instructors godoc
// @Summary Преподаватели
// @Tags training
// @Produce json
// @Success 200 {array} models.Instructor
// @Router /api/v1/training/instructors/ [get]
func (h *TrainingHandler) Instructors(w http.ResponseWriter, r *http.Request) {
	list, err := h.training.Instructors(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// CreateInstructor godoc
// @Summary Добавить преподавателя
// @Tags training
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateInstructorRequest true "Преподаватель"
// @Success 201 {object} models.Instructor
// @Router /api/v1/training/instructors/ [post]
func (h *TrainingHandler) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInstructorRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	in, err := h.training.CreateInstructor(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, in)
}

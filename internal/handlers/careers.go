package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/services"
	"appnity/internal/storage"
	helpers "appnity/internal/utils/helpers"
	"appnity/internal/validation"

	"go.uber.org/zap"
)

// запас на текстовые поля формы сверх лимита файла
const formOverhead = 1 << 20

type CareersHandler struct {
	careers   *services.CareersService
	maxResume int64
}

func NewCareersHandler(careers *services.CareersService, maxResume int64) *CareersHandler {
	return &CareersHandler{careers: careers, maxResume: maxResume}
}

func positionFilter(r *http.Request) (models.PositionFilter, error) {
	featured, err := queryBool(r, "featured")
	return models.PositionFilter{
		Department: query(r, "department"),
		JobType:    query(r, "job_type"),
		Level:      query(r, "level"),
		Status:     query(r, "status"),
		Featured:   featured,
		Search:     query(r, "search"),
		Ordering:   query(r, "ordering"),
	}, err
}

// Positions godoc
// @Summary Вакансии
// @Tags careers
// @Produce json
// @Param department query string false "Отдел"
// @Param job_type query string false "full_time, part_time, contract, internship"
// @Param level query string false "entry, mid, senior, lead"
// @Param status query string false "open, closed, paused, filled"
// @Param featured query bool false "Только избранные"
// @Param search query string false "Поиск"
// @Param page query int false "Страница"
// @Success 200 {object} pagination.Page[models.JobPosition]
// @Router /api/v1/careers/positions/ [get]
func (h *CareersHandler) Positions(w http.ResponseWriter, r *http.Request) {
	h.listPositions(w, r, false)
}

// OpenPositions godoc
// @Summary Открытые вакансии
// @Tags careers
// @Produce json
// @Success 200 {object} pagination.Page[models.JobPosition]
// @Router /api/v1/careers/positions/open/ [get]
func (h *CareersHandler) OpenPositions(w http.ResponseWriter, r *http.Request) {
	h.listPositions(w, r, true)
}

func (h *CareersHandler) listPositions(w http.ResponseWriter, r *http.Request, onlyOpen bool) {
	p, err := pageParams(r)
	f, ferr := positionFilter(r)
	if err := firstErr(err, ferr); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	var (
		list  []*models.JobPosition
		total int
	)
	if onlyOpen {
		list, total, err = h.careers.Open(r.Context(), f, p)
	} else {
		list, total, err = h.careers.List(r.Context(), f, p)
	}
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// FeaturedPositions godoc
// @Summary Избранные открытые вакансии (не больше 6)
// @Tags careers
// @Produce json
// @Success 200 {array} models.JobPosition
// @Router /api/v1/careers/positions/featured/ [get]
func (h *CareersHandler) FeaturedPositions(w http.ResponseWriter, r *http.Request) {
	list, err := h.careers.Featured(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// Position godoc
// @Summary Вакансия по slug
// @Tags careers
// @Produce json
// @Param slug path string true "slug вакансии"
// @Success 200 {object} models.JobPosition
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/careers/positions/{slug}/ [get]
func (h *CareersHandler) Position(w http.ResponseWriter, r *http.Request) {
	p, err := h.careers.Get(r.Context(), pathSlug(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// CreatePosition godoc
// @Summary Создать вакансию
// @Tags careers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreatePositionRequest true "Вакансия"
// @Success 201 {object} models.JobPosition
// @Router /api/v1/careers/positions/ [post]
func (h *CareersHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePositionRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	p, err := h.careers.Create(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, p)
}

// UpdatePosition godoc
// @Summary Изменить вакансию
// @Tags careers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "slug вакансии"
// @Param input body models.UpdatePositionRequest true "Изменяемые поля"
// @Success 200 {object} models.JobPosition
// @Router /api/v1/careers/positions/{slug}/ [patch]
func (h *CareersHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePositionRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	p, err := h.careers.Update(r.Context(), pathSlug(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// DeletePosition godoc
// @Summary Удалить вакансию без откликов
// @Tags careers
// @Security BearerAuth
// @Param slug path string true "slug вакансии"
// @Success 204
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/careers/positions/{slug}/ [delete]
func (h *CareersHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	if err := h.careers.Delete(r.Context(), pathSlug(r)); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Apply godoc
// @Summary Откликнуться на вакансию
// @Tags careers
// @Accept multipart/form-data
// @Produce json
// @Param slug path string true "slug вакансии"
// @Param first_name formData string true "Имя"
// @Param last_name formData string true "Фамилия"
// @Param email formData string true "Email"
// @Param phone formData string false "Телефон"
// @Param location formData string false "Город"
// @Param cover_letter formData string false "Сопроводительное письмо"
// @Param portfolio_url formData string false "Портфолио"
// @Param linkedin_url formData string false "LinkedIn"
// @Param github_url formData string false "GitHub"
// @Param years_of_experience formData int false "Опыт, лет"
// @Param current_salary formData string false "Текущая зарплата"
// @Param expected_salary formData string false "Ожидаемая зарплата"
// @Param resume formData file false "Резюме: PDF, DOC, DOCX"
// @Success 201 {object} models.ApplicationReceipt
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/careers/positions/{slug}/apply/ [post]
func (h *CareersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxResume+formOverhead)
	if err := r.ParseMultipartForm(h.maxResume + formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			helpers.WriteError(w, r, apperr.Field("resume", fmt.Sprintf("File size cannot exceed %dMB.", h.maxResume>>20)))
			return
		}
		log.Warn("Ошибка разбора multipart-формы", zap.Error(err))
		helpers.WriteError(w, r, apperr.Validation("Multipart form parse error."))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	form, err := applyForm(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if err := validation.Struct(&form); err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	in := services.ApplyInput{Form: form, IPAddress: helpers.ClientIP(r), UserAgent: r.UserAgent()}
	file, hdr, err := r.FormFile("resume")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		helpers.WriteError(w, r, apperr.Field("resume", "The submitted data was not a file."))
		return
	default:
		defer file.Close()
		in.Resume = &storage.Upload{
			Filename:    hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Body:        file,
		}
	}

	receipt, err := h.careers.Apply(r.Context(), pathSlug(r), in)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, receipt)
}

func applyForm(r *http.Request) (models.ApplyRequest, error) {
	f := models.ApplyRequest{
		FirstName:      strings.TrimSpace(r.FormValue("first_name")),
		LastName:       strings.TrimSpace(r.FormValue("last_name")),
		Email:          strings.TrimSpace(r.FormValue("email")),
		Phone:          strings.TrimSpace(r.FormValue("phone")),
		Location:       strings.TrimSpace(r.FormValue("location")),
		CoverLetter:    r.FormValue("cover_letter"),
		PortfolioURL:   strings.TrimSpace(r.FormValue("portfolio_url")),
		LinkedinURL:    strings.TrimSpace(r.FormValue("linkedin_url")),
		GithubURL:      strings.TrimSpace(r.FormValue("github_url")),
		CurrentSalary:  strings.TrimSpace(r.FormValue("current_salary")),
		ExpectedSalary: strings.TrimSpace(r.FormValue("expected_salary")),
	}
	if raw := strings.TrimSpace(r.FormValue("years_of_experience")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, apperr.Field("years_of_experience", "A valid integer is required.")
		}
		f.YearsOfExperience = n
	}
	return f, nil
}

// Applications godoc
// @Summary Отклики (персонал)
// @Tags careers
// @Security BearerAuth
// @Produce json
// @Param status query string false "Статус отклика"
// @Param position query string false "slug вакансии"
// @Param search query string false "Поиск по имени и email"
// @Success 200 {object} pagination.Page[models.JobApplication]
// @Router /api/v1/careers/applications/ [get]
func (h *CareersHandler) Applications(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.careers.Applications(r.Context(), models.ApplicationFilter{
		Status:   query(r, "status"),
		Position: query(r, "position"),
		Search:   query(r, "search"),
	}, p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, list)
}

// Application godoc
// @Summary Отклик по id (персонал)
// @Tags careers
// @Security BearerAuth
// @Produce json
// @Param id path int true "id отклика"
// @Success 200 {object} models.JobApplication
// @Router /api/v1/careers/applications/{id}/ [get]
func (h *CareersHandler) Application(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	a, err := h.careers.Application(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, a)
}

// UpdateApplicationStatus godoc
// @Summary Статус и заметки отклика (персонал)
// @Tags careers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "id отклика"
// @Param input body models.UpdateApplicationRequest true "Статус и заметки"
// @Success 200 {object} models.JobApplication
// @Router /api/v1/careers/applications/{id}/status/ [patch]
func (h *CareersHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	var req models.UpdateApplicationRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	a, err := h.careers.UpdateApplication(r.Context(), id, &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, a)
}

// DownloadResume godoc
// @Summary Скачать резюме (персонал)
// @Tags careers
// @Security BearerAuth
// @Produce application/octet-stream
// @Param id path int true "id отклика"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/careers/applications/{id}/resume/ [get]
func (h *CareersHandler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	f, name, ctype, err := h.careers.ResumeFile(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		helpers.WriteError(w, r, apperr.Internal(err))
		return
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, st.ModTime(), f)
}

// Stats godoc
// @Summary Статистика вакансий и откликов (персонал)
// @Tags careers
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.CareerStats
// @Router /api/v1/careers/stats/ [get]
func (h *CareersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.careers.Stats(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

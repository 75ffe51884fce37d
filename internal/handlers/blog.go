package handlers

import (
	"net/http"
	"strconv"

	"appnity/internal/apperr"
	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"
)

type BlogHandler struct {
	blog *services.BlogService
}

func NewBlogHandler(blog *services.BlogService) *BlogHandler {
	return &BlogHandler{blog: blog}
}

// List godoc
// @Summary Опубликованные посты блога
// @Tags blogs
// @Produce json
// @Param category query string false "slug категории"
// @Param tags query string false "slug тегов через запятую"
// @Param author query string false "username автора"
// @Param featured query bool false "Только избранные"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param search query string false "Поиск по заголовку, анонсу и тексту"
// @Param ordering query string false "created_at, published_at, views_count (с - по убыванию)"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} pagination.Page[models.BlogPost]
// @Router /api/v1/blogs/ [get]
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	featured, ferr := queryBool(r, "featured")
	from, fromErr := queryDate(r, "date_from")
	to, toErr := queryDate(r, "date_to")
	if err := firstErr(err, ferr, fromErr, toErr); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	f := models.BlogFilter{
		Category: query(r, "category"),
		Tags:     queryList(r, "tags"),
		Author:   query(r, "author"),
		Featured: featured,
		DateFrom: from,
		DateTo:   to,
		Search:   query(r, "search"),
		Ordering: query(r, "ordering"),
	}
	posts, total, err := h.blog.List(r.Context(), f, p)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writePage(w, r, p, total, posts)
}

// Featured godoc
// @Summary Избранные посты (не больше 3)
// @Tags blogs
// @Produce json
// @Success 200 {array} models.BlogPost
// @Router /api/v1/blogs/featured/ [get]
func (h *BlogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.Featured(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, posts)
}

// Recent godoc
// @Summary Последние посты
// @Tags blogs
// @Produce json
// @Param limit query int false "Сколько постов (по умолчанию 5, максимум 20)"
// @Success 200 {array} models.BlogPost
// @Router /api/v1/blogs/recent/ [get]
func (h *BlogHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := query(r, "limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			helpers.WriteError(w, r, apperr.Field("limit", "Enter a positive number."))
			return
		}
		limit = n
	}
	posts, err := h.blog.Recent(r.Context(), limit)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, posts)
}

// Get godoc
// @Summary Пост по slug (черновики видит только персонал)
// @Tags blogs
// @Produce json
// @Param slug path string true "slug поста"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/blogs/{slug}/ [get]
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.Get(r.Context(), pathSlug(r), isStaff(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// Create godoc
// @Summary Создать пост
// @Tags blogs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreatePostRequest true "Пост"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/v1/blogs/ [post]
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	post, err := h.blog.Create(r.Context(), userID(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, post)
}

// Update godoc
// @Summary Изменить пост
// @Tags blogs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "slug поста"
// @Param input body models.UpdatePostRequest true "Изменяемые поля"
// @Success 200 {object} models.BlogPost
// @Router /api/v1/blogs/{slug}/ [patch]
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	post, err := h.blog.Update(r.Context(), pathSlug(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// Delete godoc
// @Summary Удалить пост
// @Tags blogs
// @Security BearerAuth
// @Param slug path string true "slug поста"
// @Success 204
// @Router /api/v1/blogs/{slug}/ [delete]
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.Delete(r.Context(), pathSlug(r)); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories godoc
// @Summary Категории блога
// @Tags blogs
// @Produce json
// @Success 200 {array} models.Category
// @Router /api/v1/blogs/categories/ [get]
func (h *BlogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	list, err := h.blog.Categories(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// CreateCategory godoc
// @Summary Создать категорию
// @Tags blogs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateCategoryRequest true "Категория"
// @Success 201 {object} models.Category
// @Router /api/v1/blogs/categories/ [post]
func (h *BlogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	c, err := h.blog.CreateCategory(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

// Tags godoc
// @Summary Теги блога
// @Tags blogs
// @Produce json
// @Success 200 {array} models.Tag
// @Router /api/v1/blogs/tags/ [get]
func (h *BlogHandler) Tags(w http.ResponseWriter, r *http.Request) {
	list, err := h.blog.Tags(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// CreateTag godoc
// @Summary Создать тег
// @Tags blogs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateTagRequest true "Тег"
// @Success 201 {object} models.Tag
// @Router /api/v1/blogs/tags/ [post]
func (h *BlogHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTagRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	t, err := h.blog.CreateTag(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, t)
}

// Comments godoc
// @Summary Комментарии поста деревом
// @Tags blogs
// @Produce json
// @Param slug path string true "slug поста"
// @Success 200 {array} models.Comment
// @Router /api/v1/blogs/{slug}/comments/ [get]
func (h *BlogHandler) Comments(w http.ResponseWriter, r *http.Request) {
	list, err := h.blog.Comments(r.Context(), pathSlug(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// AddComment godoc
// @Summary Добавить комментарий
// @Tags blogs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "slug поста"
// @Param input body models.CreateCommentRequest true "Комментарий"
// @Success 201 {object} models.Comment
// @Router /api/v1/blogs/{slug}/comments/ [post]
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	c, err := h.blog.AddComment(r.Context(), pathSlug(r), userID(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

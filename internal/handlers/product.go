package handlers

import (
	"net/http"

	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"
)

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List godoc
// @Summary Продукты
// @Tags products
// @Produce json
// @Param status query string false "live, beta, development, coming_soon, archived"
// @Param featured query bool false "Только избранные"
// @Param search query string false "Поиск по названию, слогану и описанию"
// @Param ordering query string false "order, created_at, name"
// @Param page query int false "Страница"
// @Success 200 {object} pagination.Page[models.Product]
// @Router /api/v1/products/ [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pageParams(r)
	featured, ferr := queryBool(r, "featured")
	if err := firstErr(err, ferr); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	list, total, err := h.products.List(r.Context(), models.ProductFilter{
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

// Featured godoc
// @Summary Избранные продукты (не больше 6)
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /api/v1/products/featured/ [get]
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.Featured(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	writeResults(w, r, list)
}

// Get godoc
// @Summary Продукт по slug
// @Tags products
// @Produce json
// @Param slug path string true "slug продукта"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/products/{slug}/ [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), pathSlug(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Create godoc
// @Summary Создать продукт
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.CreateProductRequest true "Продукт"
// @Success 201 {object} models.Product
// @Router /api/v1/products/ [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	p, err := h.products.Create(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, p)
}

// Update godoc
// @Summary Изменить продукт
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "slug продукта"
// @Param input body models.UpdateProductRequest true "Изменяемые поля"
// @Success 200 {object} models.Product
// @Router /api/v1/products/{slug}/ [patch]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProductRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	p, err := h.products.Update(r.Context(), pathSlug(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Delete godoc
// @Summary Удалить продукт
// @Tags products
// @Security BearerAuth
// @Param slug path string true "slug продукта"
// @Success 204
// @Router /api/v1/products/{slug}/ [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), pathSlug(r)); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Package pagination: постраничная выдача списков (page/page_size)
// и сортировка по белому списку полей.
package pagination

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"appnity/internal/apperr"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params: разобранные параметры страницы.
type Params struct {
	Page     int
	PageSize int
}

func (p Params) Limit() int  { return p.PageSize }
func (p Params) Offset() int { return (p.Page - 1) * p.PageSize }

// Page содержит count/next/previous/results плюс служебные поля.
type Page[T any] struct {
	Count       int     `json:"count"`
	Next        *string `json:"next"`
	Previous    *string `json:"previous"`
	PageSize    int     `json:"page_size"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
	Results     []T     `json:"results"`
}

// FromRequest читает ?page= и ?page_size=. defSize/maxSize <= 0: берём константы пакета.
func FromRequest(r *http.Request, defSize, maxSize int) (Params, error) {
	if defSize <= 0 {
		defSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	p := Params{Page: 1, PageSize: defSize}

	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		// смещение (page-1)*page_size не должно переполнять int
		if err != nil || n < 1 || n > math.MaxInt/maxSize {
			return p, apperr.Field("page", "Invalid page.")
		}
		p.Page = n
	}
	if raw := strings.TrimSpace(q.Get("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, apperr.Field("page_size", "Invalid page size.")
		}
		p.PageSize = min(n, maxSize)
	}
	return p, nil
}

// New собирает страницу. Ссылки next/previous абсолютные и сохраняют
// остальные параметры запроса (фильтры, поиск, сортировку).
// Страница за последней даёт NotFound.
func New[T any](r *http.Request, p Params, total int, items []T) (Page[T], error) {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	// пустой список отдаёт только первую страницу
	if p.Page > max(totalPages, 1) {
		return Page[T]{}, apperr.NotFound("Invalid page.")
	}
	out := Page[T]{
		Count:       total,
		PageSize:    p.PageSize,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		Results:     items,
	}
	if p.Page < totalPages {
		out.Next = pageURL(r, p.Page+1)
	}
	if p.Page > 1 {
		out.Previous = pageURL(r, p.Page-1)
	}
	return out, nil
}

func pageURL(r *http.Request, page int) *string {
	u := url.URL{
		Scheme: scheme(r),
		Host:   r.Host,
		Path:   r.URL.Path,
	}
	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func scheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.Split(proto, ",")[0])
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// Ordering переводит ?ordering=-field в "column DESC" по белому списку allowed
// (имя параметра -> колонка). Неизвестные поля молча заменяются на def.
func Ordering(raw string, allowed map[string]string, def string) string {
	var parts []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(f, "-") {
			dir = "DESC"
			f = f[1:]
		}
		col, ok := allowed[f]
		if !ok {
			continue
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return def
	}
	return strings.Join(parts, ", ")
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"appnity/internal/apperr"
	"appnity/internal/pagination"
	"appnity/internal/reqctx"
	helpers "appnity/internal/utils/helpers"

	"github.com/gorilla/mux"
)

// Размер страницы по умолчанию и максимальный; выставляются из конфига при старте.
var (
	PageSize    = pagination.DefaultPageSize
	MaxPageSize = pagination.MaxPageSize
)

func pageParams(r *http.Request) (pagination.Params, error) {
	return pagination.FromRequest(r, PageSize, MaxPageSize)
}

// writePage пишет {count, next, previous, results}.
func writePage[T any](w http.ResponseWriter, r *http.Request, p pagination.Params, total int, items []T) {
	page, err := pagination.New(r, p, total, items)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// writeResults: ответ без пагинации, но в том же конверте.
func writeResults[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	helpers.JSON(w, http.StatusOK, map[string]any{"count": len(items), "results": items})
}

func pathSlug(r *http.Request) string {
	return mux.Vars(r)["slug"]
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("Not found.")
	}
	return id, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name)))
	switch raw {
	case "":
		return nil, nil
	case "true", "1", "yes":
		v := true
		return &v, nil
	case "false", "0", "no":
		v := false
		return &v, nil
	}
	return nil, apperr.Field(name, "Select a valid choice. That choice is not one of the available choices.")
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Field(name, "Enter a number.")
	}
	return &n, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apperr.Field(name, "Enter a valid date.")
	}
	return &t, nil
}

func queryList(r *http.Request, name string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func query(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

func userID(r *http.Request) int64 {
	id, _ := reqctx.GetUserID(r.Context())
	return id
}

func isStaff(r *http.Request) bool {
	return reqctx.IsStaff(r.Context())
}

// firstErr возвращает первую ненулевую ошибку разбора параметров.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

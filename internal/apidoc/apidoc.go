// Package apidoc собирает Swagger 2.0 из метаданных зарегистрированных маршрутов.
package apidoc

import (
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-openapi/spec"
)

type Access int

const (
	Public Access = iota
	Auth
	Staff
)

// Shape: форма успешного ответа.
type Shape int

const (
	Object Shape = iota
	// Page: {count, next, previous, ..., results}
	Page
	// Results: {count, results} без пагинации
	Results
	File
	Empty
)

type Param struct {
	Name        string
	Type        string // string (по умолчанию), integer, boolean
	Description string
	Required    bool
}

type Route struct {
	Method    string
	Path      string
	Summary   string
	Tag       string
	Access    Access
	Request   any
	Response  any
	Status    int
	Shape     Shape
	Multipart bool
	Query     []Param
}

type Info struct {
	Title       string
	Version     string
	Description string
}

const securityName = "BearerAuth"

type Registry struct {
	mu     sync.Mutex
	routes []Route
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (reg *Registry) Add(rt Route) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.routes = append(reg.routes, rt)
}

func (reg *Registry) Routes() []Route {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return append([]Route(nil), reg.routes...)
}

var pathVar = regexp.MustCompile(`\{([A-Za-z_]+)(:[^}]*)?\}`)

// Swagger строит документ по всем маршрутам реестра.
func (reg *Registry) Swagger(info Info) *spec.Swagger {
	b := &builder{defs: spec.Definitions{}}
	paths := map[string]spec.PathItem{}
	tags := map[string]bool{}

	for _, rt := range reg.Routes() {
		path := pathVar.ReplaceAllString(rt.Path, "{$1}")
		item := paths[path]
		op := b.operation(rt)
		switch rt.Method {
		case http.MethodGet:
			item.Get = op
		case http.MethodPost:
			item.Post = op
		case http.MethodPut:
			item.Put = op
		case http.MethodPatch:
			item.Patch = op
		case http.MethodDelete:
			item.Delete = op
		}
		paths[path] = item
		if rt.Tag != "" {
			tags[rt.Tag] = true
		}
	}

	sw := &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger:  "2.0",
		BasePath: "/",
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		}},
		Consumes:    []string{"application/json"},
		Produces:    []string{"application/json"},
		Paths:       &spec.Paths{Paths: paths},
		Definitions: b.defs,
		SecurityDefinitions: spec.SecurityDefinitions{
			securityName: spec.APIKeyAuth("Authorization", "header"),
		},
	}}
	names := make([]string, 0, len(tags))
	for t := range tags {
		names = append(names, t)
	}
	sort.Strings(names)
	for _, t := range names {
		sw.Tags = append(sw.Tags, spec.NewTag(t, "", nil))
	}
	return sw
}

func (b *builder) operation(rt Route) *spec.Operation {
	op := spec.NewOperation(operationID(rt)).WithSummary(rt.Summary)
	if rt.Tag != "" {
		op.WithTags(rt.Tag)
	}
	if rt.Access != Public {
		op.SecuredWith(securityName)
	}

	for _, m := range pathVar.FindAllStringSubmatch(rt.Path, -1) {
		typ := "string"
		if m[1] == "id" {
			typ = "integer"
		}
		op.AddParam(spec.PathParam(m[1]).Typed(typ, ""))
	}
	query := append([]Param(nil), rt.Query...)
	if rt.Shape == Page {
		query = append(query,
			Param{Name: "page", Type: "integer", Description: "Номер страницы"},
			Param{Name: "page_size", Type: "integer", Description: "Размер страницы"},
		)
	}
	for _, q := range query {
		p := spec.QueryParam(q.Name).Typed(paramType(q.Type), "").WithDescription(q.Description)
		if q.Required {
			p.AsRequired()
		}
		op.AddParam(p)
	}

	if rt.Request != nil {
		if rt.Multipart {
			op.WithConsumes("multipart/form-data")
			b.formParams(op, reflect.TypeOf(rt.Request))
		} else {
			op.AddParam(spec.BodyParam("input", b.schema(reflect.TypeOf(rt.Request))).AsRequired())
		}
	}

	status := rt.Status
	if status == 0 {
		status = http.StatusOK
	}
	resp := spec.NewResponse().WithDescription(http.StatusText(status))
	switch rt.Shape {
	case Page:
		resp.WithSchema(pageSchema(b.item(rt.Response)))
	case Results:
		resp.WithSchema(resultsSchema(b.item(rt.Response)))
	case File:
		op.WithProduces("application/octet-stream")
		resp.WithSchema(&spec.Schema{SchemaProps: spec.SchemaProps{Type: spec.StringOrArray{"file"}}})
	case Empty:
	default:
		if rt.Response != nil {
			resp.WithSchema(b.schema(reflect.TypeOf(rt.Response)))
		}
	}
	op.RespondsWith(status, resp)

	errRef := b.schema(reflect.TypeOf(errorResponse{}))
	for _, code := range errorCodes(rt) {
		op.RespondsWith(code, spec.NewResponse().WithDescription(http.StatusText(code)).WithSchema(errRef))
	}
	return op
}

// errorResponse повторяет формат ошибок API.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Status  int               `json:"status"`
}

func errorCodes(rt Route) []int {
	var codes []int
	if rt.Request != nil || len(rt.Query) > 0 {
		codes = append(codes, http.StatusBadRequest)
	}
	switch rt.Access {
	case Auth:
		codes = append(codes, http.StatusUnauthorized)
	case Staff:
		codes = append(codes, http.StatusUnauthorized, http.StatusForbidden)
	}
	if strings.Contains(rt.Path, "{") {
		codes = append(codes, http.StatusNotFound)
	}
	return codes
}

func operationID(rt Route) string {
	var parts []string
	for _, seg := range strings.Split(pathVar.ReplaceAllString(rt.Path, "by_$1"), "/") {
		if seg != "" && seg != "api" && seg != "v1" {
			parts = append(parts, strings.ReplaceAll(seg, "-", "_"))
		}
	}
	return strings.ToLower(rt.Method) + "_" + strings.Join(parts, "_")
}

func paramType(t string) string {
	if t == "" {
		return "string"
	}
	return t
}

// item строит схему элемента списка; Response может быть T или []T.
func (b *builder) item(v any) *spec.Schema {
	if v == nil {
		return &spec.Schema{}
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return b.schema(t)
}

func pageSchema(item *spec.Schema) *spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	s.SetProperty("count", *spec.Int64Property())
	s.SetProperty("next", *spec.StrFmtProperty("uri"))
	s.SetProperty("previous", *spec.StrFmtProperty("uri"))
	s.SetProperty("page_size", *spec.Int64Property())
	s.SetProperty("total_pages", *spec.Int64Property())
	s.SetProperty("current_page", *spec.Int64Property())
	s.SetProperty("results", *spec.ArrayProperty(item))
	return s
}

func resultsSchema(item *spec.Schema) *spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	s.SetProperty("count", *spec.Int64Property())
	s.SetProperty("results", *spec.ArrayProperty(item))
	return s
}

package apidoc

import (
	"encoding/json"
	"net/http"
	"reflect"
	"testing"
	"time"

	"appnity/internal/models"

	"github.com/go-openapi/spec"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Name     string `json:"name"`
	Children []node `json:"children"`
}

type priced struct {
	Price   decimal.Decimal  `json:"price"`
	Old     *decimal.Decimal `json:"old_price"`
	Created time.Time        `json:"created_at"`
	Secret  string           `json:"-"`
}

func paramByName(op *spec.Operation, name string) *spec.Parameter {
	for i := range op.Parameters {
		if op.Parameters[i].Name == name {
			return &op.Parameters[i]
		}
	}
	return nil
}

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Add(Route{Method: http.MethodPost, Path: "/api/v1/contacts/", Tag: "contacts", Summary: "Отправить обращение",
		Request: models.CreateContactRequest{}, Response: models.ContactReceipt{}, Status: http.StatusCreated})
	reg.Add(Route{Method: http.MethodGet, Path: "/api/v1/contacts/list/", Tag: "contacts", Access: Staff,
		Response: models.Contact{}, Shape: Page, Query: []Param{{Name: "status"}}})
	reg.Add(Route{Method: http.MethodGet, Path: "/api/v1/contacts/{id:[0-9]+}/", Tag: "contacts", Access: Staff,
		Response: models.Contact{}})
	reg.Add(Route{Method: http.MethodPost, Path: "/api/v1/careers/positions/{slug}/apply/", Tag: "careers",
		Request: models.ApplyRequest{}, Response: models.ApplicationReceipt{}, Status: http.StatusCreated, Multipart: true})
	reg.Add(Route{Method: http.MethodGet, Path: "/api/v1/nodes/", Tag: "misc", Response: []node{}, Shape: Results})
	reg.Add(Route{Method: http.MethodDelete, Path: "/api/v1/nodes/{slug}/", Tag: "misc", Access: Auth, Shape: Empty, Status: http.StatusNoContent})
	return reg
}

func TestSwagger_Paths(t *testing.T) {
	sw := testRegistry().Swagger(Info{Title: "Appnity API", Version: "1.0"})
	require.NotNil(t, sw.Paths)

	assert.Equal(t, "2.0", sw.Swagger)
	assert.Contains(t, sw.SecurityDefinitions, "BearerAuth")
	require.Len(t, sw.Tags, 3)
	assert.Equal(t, "careers", sw.Tags[0].Name)

	t.Run("регулярка в пути убирается", func(t *testing.T) {
		item, ok := sw.Paths.Paths["/api/v1/contacts/{id}/"]
		require.True(t, ok)
		require.NotNil(t, item.Get)
		id := paramByName(item.Get, "id")
		require.NotNil(t, id)
		assert.Equal(t, "path", id.In)
		assert.Equal(t, "integer", id.Type)
		assert.Equal(t, "get_contacts_by_id", item.Get.ID)
	})

	t.Run("публичный POST", func(t *testing.T) {
		op := sw.Paths.Paths["/api/v1/contacts/"].Post
		require.NotNil(t, op)
		assert.Empty(t, op.Security)
		assert.Contains(t, op.Responses.StatusCodeResponses, http.StatusCreated)
		assert.Contains(t, op.Responses.StatusCodeResponses, http.StatusBadRequest)
		assert.NotContains(t, op.Responses.StatusCodeResponses, http.StatusUnauthorized)
		body := paramByName(op, "input")
		require.NotNil(t, body)
		assert.Equal(t, "body", body.In)
		assert.Equal(t, "#/definitions/CreateContactRequest", body.Schema.Ref.String())
	})

	t.Run("список для персонала", func(t *testing.T) {
		op := sw.Paths.Paths["/api/v1/contacts/list/"].Get
		require.NotNil(t, op)
		require.Len(t, op.Security, 1)
		assert.Contains(t, op.Security[0], "BearerAuth")
		for _, code := range []int{http.StatusOK, http.StatusUnauthorized, http.StatusForbidden} {
			assert.Contains(t, op.Responses.StatusCodeResponses, code)
		}
		assert.NotNil(t, paramByName(op, "status"))
		assert.NotNil(t, paramByName(op, "page"))
		assert.NotNil(t, paramByName(op, "page_size"))
		page := op.Responses.StatusCodeResponses[http.StatusOK].Schema
		require.NotNil(t, page)
		assert.Contains(t, page.Properties, "next")
		assert.Equal(t, "#/definitions/Contact", page.Properties["results"].Items.Schema.Ref.String())
	})

	t.Run("multipart-отклик", func(t *testing.T) {
		op := sw.Paths.Paths["/api/v1/careers/positions/{slug}/apply/"].Post
		require.NotNil(t, op)
		assert.Equal(t, []string{"multipart/form-data"}, op.Consumes)
		first := paramByName(op, "first_name")
		require.NotNil(t, first)
		assert.Equal(t, "formData", first.In)
		assert.True(t, first.Required)
		years := paramByName(op, "years_of_experience")
		require.NotNil(t, years)
		assert.Equal(t, "integer", years.Type)
		resume := paramByName(op, "resume")
		require.NotNil(t, resume)
		assert.Equal(t, "file", resume.Type)
		assert.Nil(t, paramByName(op, "input"))
	})

	t.Run("пустой ответ", func(t *testing.T) {
		op := sw.Paths.Paths["/api/v1/nodes/{slug}/"].Delete
		require.NotNil(t, op)
		resp := op.Responses.StatusCodeResponses[http.StatusNoContent]
		assert.Nil(t, resp.Schema)
		assert.Contains(t, op.Responses.StatusCodeResponses, http.StatusNotFound)
	})
}

func TestSwagger_Definitions(t *testing.T) {
	sw := testRegistry().Swagger(Info{Title: "Appnity API", Version: "1.0"})

	contact, ok := sw.Definitions["CreateContactRequest"]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"name", "email", "message"}, contact.Required)
	assert.Equal(t, "jane@example.com", contact.Properties["email"].Example)

	n, ok := sw.Definitions["node"]
	require.True(t, ok)
	assert.Equal(t, "#/definitions/node", n.Properties["children"].Items.Schema.Ref.String())

	_, ok = sw.Definitions["errorResponse"]
	assert.True(t, ok)

	raw, err := json.Marshal(sw)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"BearerAuth"`)
}

func TestSchema_Scalars(t *testing.T) {
	b := &builder{defs: spec.Definitions{}}
	ref := b.schema(reflect.TypeOf(priced{}))
	assert.Equal(t, "#/definitions/priced", ref.Ref.String())

	s := b.defs["priced"]
	assert.Equal(t, "decimal", s.Properties["price"].Format)
	assert.Equal(t, "decimal", s.Properties["old_price"].Format)
	assert.Equal(t, "date-time", s.Properties["created_at"].Format)
	assert.NotContains(t, s.Properties, "Secret")
	assert.NotContains(t, s.Properties, "-")
}

func TestDefinitionName(t *testing.T) {
	assert.Equal(t, "Contact", definitionName(reflect.TypeOf(models.Contact{})))
	assert.Equal(t, "decimal.Decimal", definitionName(reflect.TypeOf(decimal.Decimal{})))
	assert.Equal(t, "", definitionName(reflect.TypeOf(struct{ A int }{})))
}

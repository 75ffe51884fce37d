package validation

import (
	"strings"
	"testing"

	"appnity/internal/apperr"
	"appnity/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string   `json:"name" validate:"required,max=10"`
	Email  string   `json:"email" validate:"required,email"`
	Rating int      `json:"rating" validate:"min=1,max=5"`
	Kind   string   `json:"kind" validate:"oneof=general press"`
	Color  string   `json:"color,omitempty" validate:"omitempty,hexcolor6"`
	Phone  string   `json:"phone" validate:"phone"`
	Tags   []string `json:"tags" validate:"max=2,dive,slug"`
}

func valid() sample {
	return sample{Name: "Jane", Email: "jane@example.com", Rating: 5, Kind: "general"}
}

func TestStruct_OK(t *testing.T) {
	s := valid()
	s.Color = "#3B82F6"
	s.Phone = "+254700000000"
	s.Tags = []string{"go", "web-dev"}
	require.NoError(t, Struct(s))
}

func TestStruct_FieldNamesFromJSON(t *testing.T) {
	s := valid()
	s.Email = "not-an-email"
	s.Rating = 6

	err := Struct(s)
	require.Error(t, err)

	ae := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "email")
	assert.Contains(t, ae.Fields, "rating")
	assert.NotContains(t, ae.Fields, "name")
}

func TestStruct_RatingBounds(t *testing.T) {
	for _, r := range []int{1, 5} {
		s := valid()
		s.Rating = r
		assert.NoError(t, Struct(s), "rating %d", r)
	}
	for _, r := range []int{0, 6} {
		s := valid()
		s.Rating = r
		assert.Error(t, Struct(s), "rating %d", r)
	}
}

func TestStruct_CustomRules(t *testing.T) {
	s := valid()
	s.Color = "blue"
	s.Phone = "12"
	s.Tags = []string{"bad slug"}

	ae := apperr.As(Struct(s))
	assert.Contains(t, ae.Fields, "color")
	assert.Contains(t, ae.Fields, "phone")
	assert.Contains(t, ae.Fields, "tags[0]")
}

func TestStruct_TestimonialContentTrimmed(t *testing.T) {
	req := models.SubmitTestimonialRequest{
		Name: "Grace", Email: "grace@example.com", Rating: 4,
		Content: strings.Repeat(" ", 20) + "x",
	}
	ae := apperr.As(Struct(req))
	require.NotNil(t, ae)
	assert.Equal(t, "Ensure this field has at least 20 characters.", ae.Fields["content"])

	req.Content = "  Appnity shipped our app fast.  "
	assert.NoError(t, Struct(req))

	short := "   too short   "
	upd := models.UpdateTestimonialRequest{Content: &short}
	assert.Contains(t, apperr.As(Struct(upd)).Fields, "content")

	// рейтинг обязателен: 0 не проходит
	req.Rating = 0
	assert.Contains(t, apperr.As(Struct(req)).Fields, "rating")
}

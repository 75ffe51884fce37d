package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInternal:     http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.HTTPStatus(), k.String())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFound("post not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, NotFound("")))
	assert.False(t, errors.Is(err, Conflict("")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "post"))
	assert.Equal(t, KindNotFound, KindOf(FromDB(pgx.ErrNoRows, "post")))
	assert.Equal(t, KindConflict, KindOf(FromDB(&pgconn.PgError{Code: "23505"}, "subscriber")))
	assert.Equal(t, KindValidation, KindOf(FromDB(&pgconn.PgError{Code: "23503"}, "application")))
	assert.Equal(t, KindValidation, KindOf(FromDB(&pgconn.PgError{Code: "23514"}, "testimonial")))
	assert.Equal(t, KindInternal, KindOf(FromDB(errors.New("conn reset"), "post")))

	orig := Forbidden("nope")
	assert.Same(t, orig, FromDB(orig, "post"))
}

func TestFieldErrors(t *testing.T) {
	e := Field("email", "enter a valid email address")
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "enter a valid email address", e.Fields["email"])
}

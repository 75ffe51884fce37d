package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWhere(t *testing.T) {
	var w where
	assert.Equal(t, "", w.sql())

	w.add("status = ?", "published")
	w.add("views_count BETWEEN ? AND ?", 1, 10)
	w.search("50%_off", "title", "excerpt")
	limit := w.next(20)

	assert.Equal(t, " WHERE status = $1 AND views_count BETWEEN $2 AND $3 AND (title ILIKE $4 OR excerpt ILIKE $5)", w.sql())
	assert.Equal(t, "$6", limit)
	assert.Equal(t, []any{"published", 1, 10, `%50\%\_off%`, `%50\%\_off%`, 20}, w.args)
}

func TestWhere_EmptySearch(t *testing.T) {
	var w where
	w.search("   ", "title")
	assert.Empty(t, w.conds)
}

func TestJSONB(t *testing.T) {
	assert.Equal(t, "[]", string(toJSONB[string](nil)))
	assert.Equal(t, []string{"go", "pgx"}, fromJSONB[string]([]byte(`["go","pgx"]`)))
	assert.Equal(t, []string{}, fromJSONB[string](nil))
}

func TestDecimalText(t *testing.T) {
	s := "15000.50"
	d := decFromText(&s)
	if assert.NotNil(t, d) {
		assert.True(t, d.Equal(decimal.RequireFromString("15000.5")))
	}
	assert.Nil(t, decFromText(nil))
	assert.Equal(t, "15000.5", *decToText(d))
	assert.Nil(t, decToText(nil))
}

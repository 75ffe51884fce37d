package pagination

import (
	"math"
	"net/http/httptest"
	"strconv"
	"testing"

	"appnity/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/blogs/", nil)
	p, err := FromRequest(r, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 1, PageSize: 20}, p)

	r = httptest.NewRequest("GET", "/api/v1/blogs/?page=3&page_size=500", nil)
	p, err = FromRequest(r, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset())

	for _, q := range []string{"page=0", "page=abc", "page_size=-1"} {
		_, err := FromRequest(httptest.NewRequest("GET", "/x/?"+q, nil), 20, 100)
		assert.Error(t, err, q)
	}

	// огромная страница: смещение переполнило бы int
	for _, n := range []int{math.MaxInt, math.MaxInt/100 + 1} {
		_, err := FromRequest(httptest.NewRequest("GET", "/x/?page="+strconv.Itoa(n), nil), 20, 100)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "Invalid page.", apperr.As(err).Fields["page"])
	}
	p, err = FromRequest(httptest.NewRequest("GET", "/x/?page="+strconv.Itoa(math.MaxInt/100), nil), 20, 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Offset(), 0)
}

func TestNew_Links(t *testing.T) {
	r := httptest.NewRequest("GET", "http://api.test/api/v1/products/?page=2&page_size=2&status=live", nil)
	p, err := FromRequest(r, 20, 100)
	require.NoError(t, err)

	page, err := New(r, p, 5, []int{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://api.test/api/v1/products/?page=3&page_size=2&status=live", *page.Next)
	// первая страница без параметра page
	assert.Equal(t, "http://api.test/api/v1/products/?page_size=2&status=live", *page.Previous)
}

func TestNew_Edges(t *testing.T) {
	r := httptest.NewRequest("GET", "http://api.test/api/v1/products/", nil)
	page, err := New[string](r, Params{Page: 1, PageSize: 20}, 0, nil)
	require.NoError(t, err)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.NotNil(t, page.Results)
	assert.Len(t, page.Results, 0)

	// пустой список: только первая страница
	_, err = New[string](r, Params{Page: 2, PageSize: 20}, 0, nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	r.Header.Set("X-Forwarded-Proto", "https")
	page, err = New(r, Params{Page: 1, PageSize: 1}, 2, []string{"a"})
	require.NoError(t, err)
	require.NotNil(t, page.Next)
	assert.Equal(t, "https://api.test/api/v1/products/?page=2", *page.Next)
}

func TestOrdering(t *testing.T) {
	allowed := map[string]string{"created_at": "p.created_at", "views_count": "p.views_count"}
	def := "p.published_at DESC"

	assert.Equal(t, def, Ordering("", allowed, def))
	assert.Equal(t, "p.views_count DESC", Ordering("-views_count", allowed, def))
	assert.Equal(t, "p.created_at ASC, p.views_count DESC", Ordering("created_at,-views_count", allowed, def))
	assert.Equal(t, def, Ordering("password;drop", allowed, def))
}

func TestNew_PastLastPage(t *testing.T) {
	r := httptest.NewRequest("GET", "http://api.test/api/v1/blogs/?page=4&page_size=2", nil)
	p, err := FromRequest(r, 20, 100)
	require.NoError(t, err)

	_, err = New(r, p, 5, []int{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Invalid page.", apperr.As(err).Message)

	// последняя страница существует, previous указывает на предыдущую
	p.Page = 3
	page, err := New(r, p, 5, []int{5})
	require.NoError(t, err)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://api.test/api/v1/blogs/?page=2&page_size=2", *page.Previous)
}

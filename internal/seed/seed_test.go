package seed

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Fixtures(t *testing.T) {
	f, err := os.Open("testdata/fixtures.yaml")
	require.NoError(t, err)
	defer f.Close()

	fx, err := Load(f)
	require.NoError(t, err)

	assert.Len(t, fx.Categories, 2)
	assert.Len(t, fx.Tags, 3)
	require.Len(t, fx.Products, 1)
	require.NotNil(t, fx.Products[0].Rating)
	assert.Equal(t, "4.7", *fx.Products[0].Rating)
	assert.Equal(t, "Pipelines", fx.Products[0].Features[0].Title)

	require.Len(t, fx.Projects, 1)
	assert.Equal(t, 8, fx.Projects[0].DurationWeeks)
	assert.Equal(t, "backend", fx.Projects[0].Technologies[0].Category)

	require.Len(t, fx.Courses, 1)
	assert.Equal(t, "25000.00", fx.Courses[0].Course.Price)
	assert.Empty(t, fx.Courses[0].Course.Instructors)
	assert.Equal(t, []InstructorRef{{Name: "Jane Wanjiku", Role: "Lead instructor", Order: 1}}, fx.Courses[0].Instructors)

	require.Len(t, fx.Positions, 1)
	require.NotNil(t, fx.Positions[0].SalaryMin)
	assert.Equal(t, "150000", *fx.Positions[0].SalaryMin)

	require.Len(t, fx.Testimonials, 1)
	assert.Equal(t, 5, fx.Testimonials[0].Rating)
}

func TestLoad_Empty(t *testing.T) {
	fx, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Products)
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "неизвестное поле",
			doc:  "products:\n  - name: X\n    colour: red\n",
			want: "products[0]",
		},
		{
			name: "правила валидации",
			doc:  "testimonials:\n  - name: A\n    content: short\n    rating: 7\n",
			want: "rating:",
		},
		{
			name: "число вместо строки",
			doc:  "courses:\n  - title: T\n    description: D\n    price: 100\n",
			want: "courses[0]",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestReport_String(t *testing.T) {
	r := Report{Created: map[string]int{"products": 2}, Skipped: map[string]int{"tags": 1}}
	assert.Equal(t, "tags: +0 (пропущено 1), products: +2 (пропущено 0)", r.String())
	assert.Equal(t, "нечего загружать", Report{}.String())
}

package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	ms, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)

	assert.Equal(t, "0001", ms[0].Version)
	assert.Equal(t, "init", ms[0].Name)
	for i := 1; i < len(ms); i++ {
		assert.Less(t, ms[i-1].Version, ms[i].Version)
	}

	for _, table := range []string{"users", "blog_posts", "job_applications", "newsletter_subscribers", "course_instructors"} {
		assert.True(t, strings.Contains(ms[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
}

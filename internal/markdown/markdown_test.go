package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	out := ToHTML("# Hello\n\nSome **bold** text.")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Hello</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestToHTML_StripsScripts(t *testing.T) {
	out := ToHTML("hi <script>alert(1)</script>\n\n[x](javascript:alert(1))")
	assert.False(t, strings.Contains(out, "<script"), out)
	assert.False(t, strings.Contains(out, "javascript:"), out)
}

func TestToHTML_Empty(t *testing.T) {
	assert.Equal(t, "", ToHTML(""))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "<p>ok</p>", Sanitize(`<p onclick="x()">ok</p>`))
}

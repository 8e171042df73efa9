package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntroFrontMatterAndMarkdown(t *testing.T) {
	src := "---\ntitle: Engagement Rings\nsummary: Hand-finished bands\n---\n\nBrowse **gold** colors.\n"
	intro, err := ParseIntro([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Engagement Rings", intro.Title)
	assert.Equal(t, "Hand-finished bands", intro.Summary)
	assert.Contains(t, string(intro.Body), "<strong>gold</strong>")
}

func TestParseIntroSanitizesBody(t *testing.T) {
	src := "Hello <script>alert(1)</script> [link](https://example.com)\n"
	intro, err := ParseIntro([]byte(src))
	require.NoError(t, err)
	body := string(intro.Body)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, `rel="nofollow"`)
	assert.Empty(t, intro.Title)
}

func TestParseIntroBadFrontMatter(t *testing.T) {
	_, err := ParseIntro([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "front matter"))
}

func TestLoadIntro(t *testing.T) {
	intro, err := LoadIntro("")
	require.NoError(t, err)
	assert.Equal(t, Intro{}, intro)

	intro, err = LoadIntro(filepath.Join(t.TempDir(), "missing.md"))
	require.NoError(t, err)
	assert.Equal(t, Intro{}, intro)

	path := filepath.Join(t.TempDir(), "intro.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: Rings\n---\nText\n"), 0o600))
	intro, err = LoadIntro(path)
	require.NoError(t, err)
	assert.Equal(t, "Rings", intro.Title)
	assert.Contains(t, string(intro.Body), "<p>Text</p>")
}

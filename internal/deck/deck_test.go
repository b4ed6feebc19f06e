package deck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "deck.yaml", `pages:
  - label: Home
    body: hello
  - label: "  "
    body: unnamed
`)
	pages, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Page{{Label: "Home", Body: "hello"}, {Label: "Page 2", Body: "unnamed"}}, pages)
	require.Equal(t, "Home", pages[0].TabLabel())
}

func TestLoadYAMLRejectsInvalidDocument(t *testing.T) {
	path := writeFile(t, "deck.yml", "pages: [")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEmptyDeck(t *testing.T) {
	path := writeFile(t, "deck.yaml", "pages: []\n")
	_, err := Load(path)
	require.True(t, errors.Is(err, ErrEmptyDeck))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
}

func TestParseText(t *testing.T) {
	pages := ParseText("# Intro\nfirst body\n---\n\nsecond body\n---\n---\n# Last\n")
	require.Equal(t, []Page{
		{Label: "Intro", Body: "first body"},
		{Label: "Page 2", Body: "second body"},
		{Label: "Last", Body: ""},
	}, pages)
}

func TestParseTextKeepsInlineDashes(t *testing.T) {
	pages := ParseText("a --- b\n----\nc")
	require.Len(t, pages, 1)
}

func TestDefaultDeckHasVaryingLabels(t *testing.T) {
	pages := Default()
	require.Greater(t, len(pages), 3)
	widths := map[int]bool{}
	for _, p := range pages {
		widths[len(p.Label)] = true
	}
	require.Greater(t, len(widths), 2)
}

package reference

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonkit/internal/document"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, opts Options, dir string) string {
	t.Helper()
	l, err := NewLoader(opts, nil)
	require.NoError(t, err)
	out, err := l.Load(context.Background(), dir)
	require.NoError(t, err)
	return out
}

func TestLoad_SkipsUnsupported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "The Silk Road linked Chang'an and Rome.")
	writeFile(t, dir, "image.png", "\x89PNG")

	out := load(t, Options{}, dir)
	assert.Equal(t, 1, strings.Count(out, "Document: "))
	assert.Equal(t, "Document: notes.txt\nThe Silk Road linked Chang'an and Rome.\n\n", out)
}

func TestLoad_JoinsSectionsInDirectoryOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "# Second")
	writeFile(t, dir, "a.TXT", "First")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	out := load(t, Options{}, dir)
	assert.Equal(t, "Document: a.TXT\nFirst\n\n\nDocument: b.md\n# Second\n\n", out)
}

func TestLoad_Pattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "unit1-primary.txt", "primary source")
	writeFile(t, dir, "unit1-notes.md", "teacher notes")
	writeFile(t, dir, "unit2-primary.txt", "other unit")

	out := load(t, Options{Pattern: "unit1-*"}, dir)
	assert.Contains(t, out, "Document: unit1-primary.txt")
	assert.Contains(t, out, "Document: unit1-notes.md")
	assert.NotContains(t, out, "unit2")

	out = load(t, Options{Pattern: "*.{md,pdf}"}, dir)
	assert.Equal(t, 1, strings.Count(out, "Document: "))
}

func TestNewLoader_InvalidPattern(t *testing.T) {
	_, err := NewLoader(Options{Pattern: "[unclosed"}, nil)
	assert.Error(t, err)
}

func TestLoad_ExtractionErrorsInline(t *testing.T) {
	dir := t.TempDir()
	pdf := writeFile(t, dir, "broken.pdf", "not really a pdf")
	doc := writeFile(t, dir, "broken.docx", "not really a zip")

	out := load(t, Options{}, dir)
	assert.Contains(t, out, "Document: broken.docx\nError reading DOCX ("+doc+"): ")
	assert.Contains(t, out, "Document: broken.pdf\nError reading PDF ("+pdf+"): ")
}

func TestLoad_DOCX(t *testing.T) {
	dir := t.TempDir()
	data, err := document.DOCX(document.Render("Timeline", "Key events of the **Meiji** era."))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timeline.docx"), data, 0o644))

	out := load(t, Options{}, dir)
	assert.True(t, strings.HasPrefix(out, "Document: timeline.docx\n"))
	assert.Contains(t, out, "Timeline")
	assert.Contains(t, out, "Key events of the Meiji era.")
}

func TestLoad_NormalizesToNFC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "names.txt", "Jose\u0301 Marti\u0301")

	out := load(t, Options{}, dir)
	assert.Contains(t, out, "Jos\u00e9 Mart\u00ed")
}

func TestLoad_MissingDirectory(t *testing.T) {
	l, err := NewLoader(Options{}, nil)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadOrEmpty(t *testing.T) {
	l, err := NewLoader(Options{}, nil)
	require.NoError(t, err)

	assert.Empty(t, l.LoadOrEmpty(context.Background(), filepath.Join(t.TempDir(), "nope")))

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "hello")
	assert.Contains(t, l.LoadOrEmpty(context.Background(), dir), "Document: a.md\nhello")
}

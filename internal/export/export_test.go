package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/docx"

	"github.com/abhisek/lessonkit/internal/document"
	"github.com/abhisek/lessonkit/internal/generation"
)

func haltedOutcome() *generation.Outcome {
	return &generation.Outcome{
		Title:      "The Boston Tea Party",
		HasResults: true,
		Halted:     true,
		Results: map[generation.Stage]generation.Result{
			generation.StageBlueprint: {
				Stage:   generation.StageBlueprint,
				Content: "# Causes\n\n- Tea Act of 1773\n\n| Term | Meaning |\n|---|---|\n| tariff | a tax on imports |",
			},
			generation.StageAssessment: {
				Stage: generation.StageAssessment,
				Err:   errors.New("quota exhausted"),
			},
		},
	}
}

func docText(t *testing.T, data []byte) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "member.docx")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := docx.Open(path)
	require.NoError(t, err)
	defer r.Close()

	text, err := r.Text()
	require.NoError(t, err)
	return text, r.Metadata().Title
}

func TestWriteArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, haltedOutcome()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	members := map[string][]byte{}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		members[f.Name] = data
	}
	assert.Equal(t, []string{
		"Lesson_Blueprint.docx",
		"Assessment_Items.docx",
		"Media_Suggestions.docx",
		"DEI_Fact_Check_Reports.docx",
	}, names)

	text, title := docText(t, members[BlueprintFile])
	assert.Equal(t, "The Boston Tea Party - Lesson Blueprint", title)
	assert.Contains(t, text, "Tea Act of 1773")
	assert.Contains(t, text, "a tax on imports")

	text, _ = docText(t, members[AssessmentFile])
	assert.Contains(t, text, "Error generating assessment items: quota exhausted")

	text, _ = docText(t, members[MediaFile])
	assert.Contains(t, text, NotGenerated)

	text, _ = docText(t, members[ReviewFile])
	assert.Contains(t, text, "Fact-Check Report")
	assert.Contains(t, text, "DEI Review")
}

func TestWriteArchive_NoResults(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteArchive(&buf, nil))
	assert.Error(t, WriteArchive(&buf, &generation.Outcome{}))
	assert.Zero(t, buf.Len())
}

func TestSaveArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path, err := SaveArchive(haltedOutcome(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "The_Boston_Tea_Party_lesson_materials.zip"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, len(Members))
}

func TestSaveFile_RemovesPartialArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.zip")
	require.Error(t, SaveFile(&generation.Outcome{Title: "x"}, path))
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = SaveArchive(nil, t.TempDir())
	assert.Error(t, err)
}

func TestDocuments_ReviewHeadings(t *testing.T) {
	out := haltedOutcome()
	out.Results[generation.StageFactCheck] = generation.Result{
		Stage:   generation.StageFactCheck,
		Content: "**Summary:** fine\n\nNo issues found.",
	}

	docs := Documents(out)
	require.Len(t, docs, 4)

	review := docs[ReviewFile]
	assert.Equal(t, "The Boston Tea Party - DEI and Fact-Check Reports", review.Title)
	require.GreaterOrEqual(t, len(review.Blocks), 4)
	assert.Equal(t, document.Heading{Level: 2, Text: "Fact-Check Report"}, review.Blocks[0])
	assert.Equal(t, document.KindParagraph, review.Blocks[1].Kind())

	last := review.Blocks[len(review.Blocks)-1]
	assert.Equal(t, document.Paragraph{Runs: []document.Run{{Text: NotGenerated}}}, last)
	assert.Equal(t, document.Heading{Level: 2, Text: "DEI Review"}, review.Blocks[len(review.Blocks)-2])
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("media_suggestions.docx")
	require.True(t, ok)
	assert.Equal(t, MediaFile, m.File)

	_, ok = Lookup("../etc/passwd")
	assert.False(t, ok)
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "Media Suggestions", DocumentTitle("  ", "Media Suggestions"))
	assert.Equal(t, "Rivers - Media Suggestions", DocumentTitle("Rivers", "Media Suggestions"))
}

func TestArchiveName(t *testing.T) {
	tests := map[string]string{
		"The Boston Tea Party":   "The_Boston_Tea_Party_lesson_materials.zip",
		"  ../Civil War: 1861! ": "Civil_War_1861_lesson_materials.zip",
		"":                       "lesson_materials.zip",
		"???":                    "lesson_materials.zip",
	}
	for in, want := range tests {
		assert.Equal(t, want, ArchiveName(in), "ArchiveName(%q)", in)
	}
}

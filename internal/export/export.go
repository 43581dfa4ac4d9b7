// Package export turns a generation outcome into Word documents and bundles
// them into a ZIP archive.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/lessonkit/internal/document"
	"github.com/abhisek/lessonkit/internal/generation"
)

// Archive member names, in archive order.
const (
	BlueprintFile  = "Lesson_Blueprint.docx"
	AssessmentFile = "Assessment_Items.docx"
	MediaFile      = "Media_Suggestions.docx"
	ReviewFile     = "DEI_Fact_Check_Reports.docx"
)

// NotGenerated is the body of a document whose stage never ran.
const NotGenerated = "Not generated: an earlier stage failed."

// Member describes one document in the archive.
type Member struct {
	File   string
	Name   string
	Stages []generation.Stage
}

// Members lists the archive contents in order. The review document holds
// both review stages.
var Members = []Member{
	{File: BlueprintFile, Name: "Lesson Blueprint", Stages: []generation.Stage{generation.StageBlueprint}},
	{File: AssessmentFile, Name: "Assessment Items", Stages: []generation.Stage{generation.StageAssessment}},
	{File: MediaFile, Name: "Media Suggestions", Stages: []generation.Stage{generation.StageMedia}},
	{File: ReviewFile, Name: "DEI and Fact-Check Reports", Stages: []generation.Stage{generation.StageFactCheck, generation.StageDEICheck}},
}

// Lookup finds a member by file name.
func Lookup(file string) (Member, bool) {
	for _, m := range Members {
		if strings.EqualFold(m.File, file) {
			return m, true
		}
	}
	return Member{}, false
}

// Render builds the document for one member.
func (m Member) Render(outcome *generation.Outcome) *document.Document {
	doc := &document.Document{Title: DocumentTitle(outcome.Title, m.Name)}

	if len(m.Stages) == 1 {
		doc.Append(stageText(outcome, m.Stages[0]))
		return doc
	}
	for _, stage := range m.Stages {
		doc.AppendHeading(2, stage.Title())
		doc.Append(stageText(outcome, stage))
	}
	return doc
}

// DocumentTitle is "<lesson title> - <document name>", or just the
// document name when the lesson has no title.
func DocumentTitle(lessonTitle, name string) string {
	lessonTitle = strings.TrimSpace(lessonTitle)
	if lessonTitle == "" {
		return name
	}
	return lessonTitle + " - " + name
}

func stageText(outcome *generation.Outcome, stage generation.Stage) string {
	res, ok := outcome.Result(stage)
	if !ok {
		return NotGenerated
	}
	return res.Text()
}

// Documents renders every member, keyed by file name.
func Documents(outcome *generation.Outcome) map[string]*document.Document {
	out := make(map[string]*document.Document, len(Members))
	for _, m := range Members {
		out[m.File] = m.Render(outcome)
	}
	return out
}

// WriteArchive writes the ZIP archive of all members to w.
func WriteArchive(w io.Writer, outcome *generation.Outcome) error {
	if outcome == nil || !outcome.HasResults {
		return fmt.Errorf("nothing to export: no generated content")
	}

	modified := outcome.CreatedAt
	if modified.IsZero() {
		modified = time.Now()
	}

	zw := zip.NewWriter(w)
	for _, m := range Members {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     m.File,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", m.File, err)
		}
		if err := document.WriteDOCX(fw, m.Render(outcome)); err != nil {
			return fmt.Errorf("write %s: %w", m.File, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// ArchiveName builds a download file name from the lesson title, e.g.
// "The_Boston_Tea_Party_lesson_materials.zip".
func ArchiveName(title string) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(title, "_"), "_")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "_")
	}
	if slug == "" {
		return "lesson_materials.zip"
	}
	return slug + "_lesson_materials.zip"
}

// SaveArchive writes the outcome's archive into dir under ArchiveName and
// returns the file path.
func SaveArchive(outcome *generation.Outcome, dir string) (string, error) {
	if outcome == nil {
		return "", errors.New("no generated materials to save")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, ArchiveName(outcome.Title))
	return path, SaveFile(outcome, path)
}

// SaveFile writes the archive to path. A partially written file is removed.
func SaveFile(outcome *generation.Outcome, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := WriteArchive(f, outcome); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// Package reference collects the supporting documents a lesson developer
// drops into the reference directory into one text blob for the prompts.
package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/docx"
	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/lessonkit/internal/logger"
)

// Options tunes a Loader.
type Options struct {
	// Pattern is a doublestar glob matched against each file name.
	// Empty matches everything.
	Pattern string
}

// Loader reads .txt, .md, .pdf and .docx files from a directory.
type Loader struct {
	opts Options
	log  *logger.Logger
}

func NewLoader(opts Options, log *logger.Logger) (*Loader, error) {
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, fmt.Errorf("invalid reference pattern %q", opts.Pattern)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{opts: opts, log: log}, nil
}

// Load returns the concatenated reference text of dir. Each supported file
// becomes a "Document: <name>" section. Files that fail to extract are
// reported inline and do not stop the load.
func (l *Loader) Load(ctx context.Context, dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read reference directory: %w", err)
	}

	var sections []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if l.opts.Pattern != "" {
			if ok, _ := doublestar.Match(l.opts.Pattern, name); !ok {
				continue
			}
		}

		text, ok := l.extract(filepath.Join(dir, name))
		if !ok {
			l.log.Debug("skipping unsupported reference file", "file", name)
			continue
		}
		sections = append(sections, fmt.Sprintf("Document: %s\n%s\n\n", name, norm.NFC.String(text)))
	}

	l.log.Info("reference materials loaded", "dir", dir, "documents", len(sections))
	return strings.Join(sections, "\n"), nil
}

// LoadOrEmpty is Load for callers that proceed without reference material
// when the directory cannot be read. The failure is logged.
func (l *Loader) LoadOrEmpty(ctx context.Context, dir string) string {
	text, err := l.Load(ctx, dir)
	if err != nil {
		l.log.Warn("continuing without reference materials", "dir", dir, "error", err)
		return ""
	}
	return text
}

// extract returns the text of path and whether its type is supported.
func (l *Loader) extract(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("Error reading file (%s): %v", path, err), true
		}
		return string(data), true
	case ".pdf":
		return l.extractPDF(path), true
	case ".docx":
		return extractDOCX(path), true
	}
	return "", false
}

func (l *Loader) extractPDF(path string) string {
	text, warnings, err := tabula.Open(path).Text()
	if err != nil {
		return fmt.Sprintf("Error reading PDF (%s): %v", path, err)
	}
	if len(warnings) > 0 {
		l.log.Debug("pdf extraction warnings", "file", filepath.Base(path), "count", len(warnings))
	}
	return text
}

func extractDOCX(path string) string {
	r, err := docx.Open(path)
	if err != nil {
		return fmt.Sprintf("Error reading DOCX (%s): %v", path, err)
	}
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return fmt.Sprintf("Error reading DOCX (%s): %v", path, err)
	}
	return text
}

// Package document turns markdown-like generated text into structured
// documents and serializes them as OOXML word-processing files.
package document

import "strings"

// Kind identifies the type of a Block.
type Kind int

const (
	KindHeading Kind = iota
	KindBullet
	KindParagraph
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindBullet:
		return "bullet"
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block is one structural element of a rendered document.
type Block interface {
	Kind() Kind
}

// Heading is a section heading. Level 0 is reserved for the document title.
type Heading struct {
	Level int
	Text  string
}

func (Heading) Kind() Kind { return KindHeading }

// BulletItem is a single entry of a bulleted list.
type BulletItem struct {
	Text string
}

func (BulletItem) Kind() Kind { return KindBullet }

// Run is a span of paragraph text with uniform emphasis.
type Run struct {
	Text       string
	Emphasized bool
}

// Paragraph is a line of text made of one or more runs.
type Paragraph struct {
	Runs []Run
}

func (Paragraph) Kind() Kind { return KindParagraph }

// Text returns the paragraph text without emphasis information.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Table is a grid of cell strings. Rows[0] is the header row.
type Table struct {
	Rows    [][]string
	Columns int
}

func (Table) Kind() Kind { return KindTable }

// Cell returns the cell at row, col, or "" for cells beyond a short row.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// PaddedRows returns the rows with every row padded to Columns cells.
func (t Table) PaddedRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i := range t.Rows {
		row := make([]string, t.Columns)
		for j := range row {
			row[j] = t.Cell(i, j)
		}
		out[i] = row
	}
	return out
}

func (t *Table) addRow(cells []string) {
	t.Rows = append(t.Rows, cells)
	if len(cells) > t.Columns {
		t.Columns = len(cells)
	}
}

// Document is a rendered document: a centered title followed by blocks.
type Document struct {
	Title  string
	Blocks []Block
}

// Render builds a Document from a title and a body of markdown-like text.
func Render(title, content string) *Document {
	return &Document{
		Title:  title,
		Blocks: Parse(content),
	}
}

// Append adds the blocks parsed from content to the end of the document.
func (d *Document) Append(content string) {
	d.Blocks = append(d.Blocks, Parse(content)...)
}

// AppendHeading adds a heading block.
func (d *Document) AppendHeading(level int, text string) {
	d.Blocks = append(d.Blocks, Heading{Level: clampLevel(level), Text: text})
}

package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// tableWidth is the usable page width in twentieths of a point.
const tableWidth = 9000

// DOCX serializes doc into an in-memory .docx file.
func DOCX(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDOCX(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDOCX writes doc to w as an OOXML word-processing package.
func WriteDOCX(w io.Writer, doc *Document) error {
	body, err := marshalDocument(doc)
	if err != nil {
		return fmt.Errorf("marshal document.xml: %w", err)
	}

	var title bytes.Buffer
	if err := xml.EscapeText(&title, []byte(doc.Title)); err != nil {
		return fmt.Errorf("escape title: %w", err)
	}

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"docProps/core.xml", fmt.Sprintf(corePropsTemplate, title.String())},
		{"word/document.xml", body},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close docx archive: %w", err)
	}
	return nil
}

func marshalDocument(doc *Document) (string, error) {
	root := xDocument{NS: wordNamespace}

	elements := make([]any, 0, len(doc.Blocks)+1)
	elements = append(elements, titleParagraph(doc.Title))
	for _, b := range doc.Blocks {
		switch b := b.(type) {
		case Heading:
			elements = append(elements, headingParagraph(b))
		case BulletItem:
			elements = append(elements, bulletParagraph(b))
		case Paragraph:
			elements = append(elements, xParagraph{Runs: toRuns(b.Runs)})
		case Table:
			elements = append(elements, tableElement(b))
		}
	}
	root.Body.Elements = elements

	out, err := xml.Marshal(root)
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}

func titleParagraph(title string) xParagraph {
	return xParagraph{
		Props: &xParagraphProps{
			Style:   &xVal{Val: "Title"},
			Justify: &xVal{Val: "center"},
		},
		Runs: []xRun{textRun(title, false)},
	}
}

func headingParagraph(h Heading) xParagraph {
	level := clampLevel(h.Level)
	return xParagraph{
		Props: &xParagraphProps{Style: &xVal{Val: "Heading" + strconv.Itoa(level)}},
		Runs:  []xRun{textRun(h.Text, false)},
	}
}

func bulletParagraph(b BulletItem) xParagraph {
	return xParagraph{
		Props: &xParagraphProps{
			Style: &xVal{Val: "ListBullet"},
			NumPr: &xNumPr{Level: xVal{Val: "0"}, NumID: xVal{Val: "1"}},
		},
		Runs: toRuns(SplitEmphasis(b.Text)),
	}
}

func tableElement(t Table) xTable {
	cols := t.Columns
	if cols == 0 {
		cols = 1
	}
	colWidth := tableWidth / cols

	tbl := xTable{
		Props: xTableProps{
			Style: xVal{Val: "TableGrid"},
			Width: xWidth{W: tableWidth, Type: "dxa"},
		},
	}
	for range cols {
		tbl.Grid.Cols = append(tbl.Grid.Cols, xGridCol{W: colWidth})
	}

	for i, row := range t.PaddedRows() {
		tr := xTableRow{}
		for _, cell := range row {
			// Word requires at least one paragraph in every cell.
			p := xParagraph{Runs: []xRun{textRun(cell, i == 0)}}
			tr.Cells = append(tr.Cells, xTableCell{
				Props:      xCellProps{Width: xWidth{W: colWidth, Type: "dxa"}},
				Paragraphs: []xParagraph{p},
			})
		}
		tbl.Rows = append(tbl.Rows, tr)
	}
	return tbl
}

func toRuns(runs []Run) []xRun {
	out := make([]xRun, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		out = append(out, textRun(r.Text, r.Emphasized))
	}
	return out
}

func textRun(text string, bold bool) xRun {
	r := xRun{Text: xText{Value: text}}
	if strings.TrimSpace(text) != text {
		r.Text.Space = "preserve"
	}
	if bold {
		r.Props = &xRunProps{Bold: &struct{}{}}
	}
	return r
}

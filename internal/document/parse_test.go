package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Block
	}{
		{
			name:    "heading and paragraph",
			content: "# Title\n\nSome text.",
			want: []Block{
				Heading{Level: 1, Text: "Title"},
				Paragraph{Runs: []Run{{Text: "Some text."}}},
			},
		},
		{
			name:    "table",
			content: "| A | B |\n|---|---|\n| 1 | 2 |",
			want: []Block{
				Table{Rows: [][]string{{"A", "B"}, {"1", "2"}}, Columns: 2},
			},
		},
		{
			name:    "bullets",
			content: "- first\n- second",
			want: []Block{
				BulletItem{Text: "first"},
				BulletItem{Text: "second"},
			},
		},
		{
			name:    "emphasis runs",
			content: "Plain **bold** end.",
			want: []Block{
				Paragraph{Runs: []Run{
					{Text: "Plain "},
					{Text: "bold", Emphasized: true},
					{Text: " end."},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.content))
		})
	}
}

func TestParsePlainLinesOnePerParagraph(t *testing.T) {
	content := "first line\n\n  second line  \n\n\nthird line\n"
	blocks := Parse(content)

	require.Len(t, blocks, 3)
	for i, want := range []string{"first line", "second line", "third line"} {
		p, ok := blocks[i].(Paragraph)
		require.True(t, ok, "block %d is %T", i, blocks[i])
		require.Len(t, p.Runs, 1)
		assert.Equal(t, want, p.Runs[0].Text)
		assert.False(t, p.Runs[0].Emphasized)
	}
}

func TestParseHeadingLevelClamped(t *testing.T) {
	blocks := Parse("######## Deep")
	require.Len(t, blocks, 1)
	assert.Equal(t, Heading{Level: 6, Text: "Deep"}, blocks[0])
}

func TestParseHeadingLevels(t *testing.T) {
	for level := 1; level <= 6; level++ {
		line := strings.Repeat("#", level) + " Section"
		blocks := Parse(line)
		require.Len(t, blocks, 1)
		h, ok := blocks[0].(Heading)
		require.True(t, ok)
		assert.Equal(t, level, h.Level)
	}
}

func TestParseHeadingStripsEmphasis(t *testing.T) {
	blocks := Parse("## **Lesson Question**")
	require.Len(t, blocks, 1)
	assert.Equal(t, Heading{Level: 2, Text: "Lesson Question"}, blocks[0])
}

func TestParseHashWithoutSpaceIsParagraph(t *testing.T) {
	blocks := Parse("#hashtag")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindParagraph, blocks[0].Kind())
}

func TestParseBulletLikeRowStaysInTable(t *testing.T) {
	content := "| Item |\n|------|\n| - item |\n| * other |"
	blocks := Parse(content)

	require.Len(t, blocks, 1)
	tbl, ok := blocks[0].(Table)
	require.True(t, ok)
	assert.Equal(t, [][]string{{"Item"}, {"- item"}, {"* other"}}, tbl.Rows)
}

func TestParseTableEndsAtLineWithoutPipe(t *testing.T) {
	content := strings.Join([]string{
		"Intro",
		"| Term | Definition |",
		"| ---- | ---------- |",
		"| tariff | tax on imported goods |",
		"| amendment | change to a legal document |",
		"After the table",
		"- a bullet",
	}, "\n")

	blocks := Parse(content)
	require.Len(t, blocks, 4)

	assert.Equal(t, KindParagraph, blocks[0].Kind())
	tbl, ok := blocks[1].(Table)
	require.True(t, ok)
	assert.Equal(t, []string{"Term", "Definition"}, tbl.Rows[0])
	assert.Len(t, tbl.Rows, 3)
	assert.Equal(t, Paragraph{Runs: []Run{{Text: "After the table"}}}, blocks[2])
	assert.Equal(t, BulletItem{Text: "a bullet"}, blocks[3])
}

func TestParseTableEndsAtBlankLine(t *testing.T) {
	content := "| A | B |\n|---|---|\n| 1 | 2 |\n\n| not | a table |"
	blocks := Parse(content)

	require.Len(t, blocks, 2)
	assert.Equal(t, KindTable, blocks[0].Kind())
	// Second pipe line has no separator after it, so it is plain text.
	assert.Equal(t, Paragraph{Runs: []Run{{Text: "| not | a table |"}}}, blocks[1])
}

func TestParseTableColumnsIsWidestRow(t *testing.T) {
	content := "| A | B |\n| --- | --- |\n| 1 | 2 | 3 |\n| x |"
	blocks := Parse(content)

	require.Len(t, blocks, 1)
	tbl := blocks[0].(Table)
	assert.Equal(t, 3, tbl.Columns)
	assert.Equal(t, []string{"x", "", ""}, tbl.PaddedRows()[2])
	assert.Equal(t, "", tbl.Cell(1, 5))
}

func TestParseTableWithoutLeadingPipeKeepsAllSegments(t *testing.T) {
	content := "A | B\n--- | ---\n1 | 2"
	blocks := Parse(content)

	require.Len(t, blocks, 1)
	tbl := blocks[0].(Table)
	assert.Equal(t, [][]string{{"A", "B"}, {"1", "2"}}, tbl.Rows)
}

func TestParseSeparatorNeedsDash(t *testing.T) {
	// A pipe line followed by a line of only pipes and spaces is not a table.
	blocks := Parse("| A |\n|   |")
	for _, b := range blocks {
		assert.NotEqual(t, KindTable, b.Kind())
	}
}

func TestParseSeparatorNeverEmitted(t *testing.T) {
	blocks := Parse("| A |\n| --- |\n| 1 |")
	require.Len(t, blocks, 1)
	tbl := blocks[0].(Table)
	for _, row := range tbl.Rows {
		assert.NotContains(t, row, "---")
	}
}

func TestParseWindowsLineEndings(t *testing.T) {
	blocks := Parse("# Title\r\n\r\n- item\r\n")
	assert.Equal(t, []Block{
		Heading{Level: 1, Text: "Title"},
		BulletItem{Text: "item"},
	}, blocks)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n   \n"))
}

func TestSplitEmphasis(t *testing.T) {
	tests := []struct {
		in   string
		want []Run
	}{
		{"no markers", []Run{{Text: "no markers"}}},
		{"__under__ score", []Run{{Text: "under", Emphasized: true}, {Text: " score"}}},
		{"a **b** c **d**", []Run{
			{Text: "a "}, {Text: "b", Emphasized: true}, {Text: " c "}, {Text: "d", Emphasized: true},
		}},
		{"unpaired ** marker", []Run{{Text: "unpaired ** marker"}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitEmphasis(tt.in))
		})
	}
}

func TestRenderKeepsTitle(t *testing.T) {
	doc := Render("Alabama Regions", "Body")
	assert.Equal(t, "Alabama Regions", doc.Title)
	require.Len(t, doc.Blocks, 1)

	doc.AppendHeading(9, "Appendix")
	doc.Append("More")
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, Heading{Level: 6, Text: "Appendix"}, doc.Blocks[1])
}

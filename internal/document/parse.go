package document

import (
	"regexp"
	"strings"
)

// MaxHeadingLevel is the deepest heading level a document can hold.
const MaxHeadingLevel = 6

var headingPattern = regexp.MustCompile(`^(#+)\s+(.+)$`)

// parseState is the state of the line classifier.
type parseState int

const (
	stateScanning parseState = iota
	stateInTable
)

// parser classifies lines one at a time. A table is opened when a pipe
// line is followed by a separator line and stays open while lines keep
// containing a pipe.
type parser struct {
	state  parseState
	table  *Table
	blocks []Block
}

// Parse classifies content line by line into blocks. Lines that match no
// markup become plain paragraphs; Parse never fails.
func Parse(content string) []Block {
	lines := splitLines(content)
	p := &parser{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if p.state == stateInTable {
			if strings.Contains(line, "|") {
				p.table.addRow(splitRow(line))
				continue
			}
			p.closeTable()
		}

		if line == "" {
			continue
		}

		if strings.Contains(line, "|") && i+1 < len(lines) && isSeparator(lines[i+1]) {
			p.openTable(splitRow(line))
			i++
			continue
		}

		p.blocks = append(p.blocks, classifyLine(line))
	}
	p.closeTable()

	return p.blocks
}

func (p *parser) openTable(header []string) {
	p.table = &Table{}
	p.table.addRow(header)
	p.state = stateInTable
}

func (p *parser) closeTable() {
	if p.state != stateInTable {
		return
	}
	p.blocks = append(p.blocks, *p.table)
	p.table = nil
	p.state = stateScanning
}

// classifyLine handles a non-blank line outside of a table.
func classifyLine(line string) Block {
	if m := headingPattern.FindStringSubmatch(line); m != nil {
		return Heading{
			Level: clampLevel(len(m[1])),
			Text:  strings.TrimSpace(StripEmphasis(m[2])),
		}
	}

	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return BulletItem{Text: line[2:]}
	}

	if HasEmphasis(line) {
		return Paragraph{Runs: SplitEmphasis(line)}
	}

	return Paragraph{Runs: []Run{{Text: line}}}
}

// isSeparator reports whether line is a table separator row: once pipes
// are removed only dashes and spaces remain, with at least one dash.
func isSeparator(line string) bool {
	rest := strings.ReplaceAll(line, "|", "")
	if !strings.Contains(rest, "-") {
		return false
	}
	for _, r := range rest {
		if r != '-' && r != ' ' {
			return false
		}
	}
	return true
}

// splitRow splits a pipe-delimited line into trimmed cells. A leading pipe
// marks the first and last segments as delimiter artifacts.
func splitRow(line string) []string {
	segments := strings.Split(line, "|")
	if strings.HasPrefix(line, "|") {
		if len(segments) <= 2 {
			return []string{}
		}
		segments = segments[1 : len(segments)-1]
	}

	cells := make([]string, len(segments))
	for i, s := range segments {
		cells[i] = strings.TrimSpace(s)
	}
	return cells
}

func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

func clampLevel(level int) int {
	if level > MaxHeadingLevel {
		return MaxHeadingLevel
	}
	if level < 1 {
		return 1
	}
	return level
}

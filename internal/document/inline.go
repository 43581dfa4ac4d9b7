package document

import "regexp"

var emphasisPattern = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)

// HasEmphasis reports whether s contains a paired ** or __ marker.
func HasEmphasis(s string) bool {
	return emphasisPattern.MatchString(s)
}

// SplitEmphasis splits s into alternating plain and emphasized runs.
// Unpaired markers are kept as literal text.
func SplitEmphasis(s string) []Run {
	matches := emphasisPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []Run{{Text: s}}
	}

	runs := make([]Run, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			runs = append(runs, Run{Text: s[last:m[0]]})
		}
		inner := ""
		if m[2] >= 0 {
			inner = s[m[2]:m[3]]
		} else {
			inner = s[m[4]:m[5]]
		}
		runs = append(runs, Run{Text: inner, Emphasized: true})
		last = m[1]
	}
	if last < len(s) {
		runs = append(runs, Run{Text: s[last:]})
	}
	return runs
}

// StripEmphasis removes paired emphasis markers, keeping the inner text.
func StripEmphasis(s string) string {
	return emphasisPattern.ReplaceAllString(s, "$1$2")
}

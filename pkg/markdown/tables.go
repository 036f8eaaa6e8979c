package markdown

import (
	"regexp"
	"strings"
)

var (
	emptyListRE = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s*$`)
	tableSepRE  = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)+\|?\s*$`)
	sepCellRE   = regexp.MustCompile(`^:?-{3,}:?$`)
	imageCellRE = regexp.MustCompile(`^!\[[^\]]*\]\([^)]*\)$`)
)

// postprocess drops empty list items and repairs tables that were emitted
// without a header separator. Layout tables holding a single image collapse
// to the image.
func postprocess(markdown string, opts Options) string {
	var lines []string
	for _, line := range strings.Split(markdown, "\n") {
		if !opts.KeepEmptyListItems && emptyListRE.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}

	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		if !isTableRow(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}

		var block []string
		for i < len(lines) && isTableRow(lines[i]) {
			block = append(block, lines[i])
			i++
		}
		out = append(out, fixTable(block)...)
	}
	return strings.Join(out, "\n")
}

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func fixTable(block []string) []string {
	if len(block) == 2 && separatorLikeRow(block[1]) {
		if cells := tableCells(block[0]); len(cells) == 1 && imageCellRE.MatchString(cells[0]) {
			return []string{cells[0]}
		}
	}

	var data []string
	for _, row := range block {
		if !tableSepRE.MatchString(row) {
			data = append(data, row)
		}
	}
	if len(data) == 1 {
		if cells := tableCells(data[0]); len(cells) == 1 && imageCellRE.MatchString(cells[0]) {
			return []string{cells[0]}
		}
	}

	if len(block) >= 2 && tableSepRE.MatchString(block[1]) {
		return block
	}

	header := strings.Trim(strings.TrimSpace(block[0]), "|")
	columns := max(len(strings.Split(header, "|")), 1)
	sep := "|" + strings.Join(repeat(" --- ", columns), "|") + "|"

	out := []string{block[0], sep}
	rest := block[1:]
	if len(block) > 1 && separatorLikeRow(block[1]) {
		rest = block[2:]
	}
	return append(out, rest...)
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func tableCells(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func separatorLikeRow(line string) bool {
	cells := tableCells(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c != "" && !sepCellRE.MatchString(c) {
			return false
		}
	}
	return true
}

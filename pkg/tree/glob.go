package tree

import (
	"fmt"
	"regexp"
	"strings"
)

// CompileGlob turns a glob into an anchored, case-insensitive regular
// expression. "*" matches any run of characters and "?" exactly one.
func CompileGlob(glob string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '.', '+', '(', ')', '|', '^', '$', '{', '}', '[', ']', '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	return re, nil
}

// Blocked returns the ids excluded by re together with all their
// descendants. A nil re blocks nothing.
func Blocked(nodes []Node, re *regexp.Regexp) map[string]bool {
	blocked := make(map[string]bool)
	if re == nil {
		return blocked
	}
	for _, n := range nodes {
		if re.MatchString(n.Title) {
			blocked[n.ID] = true
		}
	}

	// Propagate to descendants until nothing changes.
	for changed := true; changed; {
		changed = false
		for _, n := range nodes {
			if !blocked[n.ID] && blocked[n.ParentID] {
				blocked[n.ID] = true
				changed = true
			}
		}
	}
	return blocked
}

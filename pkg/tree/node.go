// Package tree walks, filters, copies and exports page hierarchies.
package tree

import (
	"sort"
)

// Node is one page discovered below a root page.
type Node struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Title    string `json:"title"`

	// Position is the sibling order key reported by the API.
	Position int `json:"childPosition"`

	// Depth is 1 for direct children of the root.
	Depth int `json:"depth"`
}

// ChildrenMap groups nodes by parent id, skipping blocked nodes. Siblings are
// ordered by Position, ties keep discovery order.
func ChildrenMap(nodes []Node, blocked map[string]bool) map[string][]Node {
	children := make(map[string][]Node)
	for _, n := range nodes {
		if blocked[n.ID] {
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}
	for _, kids := range children {
		sort.SliceStable(kids, func(i, j int) bool {
			return kids[i].Position < kids[j].Position
		})
	}
	return children
}

// Line is one row of an outline.
type Line struct {
	Node
	Indent int
}

// Outline flattens nodes into pre-order rows. Nodes whose parent is not in
// the set become top level rows.
func Outline(nodes []Node) []Line {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	var roots []Node
	var rest []Node
	for _, n := range nodes {
		if n.ParentID == "" || !known[n.ParentID] {
			roots = append(roots, n)
			continue
		}
		rest = append(rest, n)
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Position < roots[j].Position })
	children := ChildrenMap(rest, nil)

	type frame struct {
		node   Node
		indent int
	}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}

	lines := make([]Line, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[f.node.ID] {
			continue
		}
		seen[f.node.ID] = true
		lines = append(lines, Line{Node: f.node, Indent: f.indent})

		kids := children[f.node.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: kids[i], indent: f.indent + 1})
		}
	}
	return lines
}

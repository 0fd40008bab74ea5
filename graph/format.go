package graph

import (
	"fmt"
	"strings"
)

// DOT renders the graph in Graphviz dot format, nodes in insertion order.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph deps {\n")
	for _, id := range g.order {
		n := g.nodes[id]
		label := n.Module + "@" + n.Version
		if n.Variant != "" {
			label += "\\n(" + n.Variant + ")"
		}
		fmt.Fprintf(&b, "  %q [label=%q];\n", id, label)
	}
	for _, id := range g.order {
		for _, e := range g.out[id] {
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From, e.To, e.Requirement)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// Tree renders the graph as an indented dependency tree from the root.
// Nodes already printed on the current path are marked as cycles; nodes
// printed on another branch are truncated with an ellipsis.
func (g *Graph) Tree() string {
	var b strings.Builder
	if g.root == "" {
		return ""
	}
	printed := map[string]bool{}
	g.tree(&b, g.root, "", map[string]bool{}, printed)
	return b.String()
}

func (g *Graph) tree(b *strings.Builder, id, indent string, onPath, printed map[string]bool) {
	n := g.nodes[id]
	fmt.Fprintf(b, "%s%s@%s", indent, n.Module, n.Version)
	switch {
	case onPath[id]:
		b.WriteString(" (cycle)\n")
		return
	case printed[id] && len(g.out[id]) > 0:
		b.WriteString(" (*)\n")
		return
	}
	b.WriteString("\n")
	printed[id] = true
	onPath[id] = true
	for _, e := range g.out[id] {
		g.tree(b, e.To, indent+"  ", onPath, printed)
	}
	delete(onPath, id)
}

package graph

import (
	"fmt"
	"slices"

	"github.com/modgraph/go-modgraph/conflicts"
)

// Node is one selected component variant in the result graph. ID is unique
// within the graph; by convention "module@version/variant".
type Node struct {
	ID      string
	Module  string
	Version string
	Variant string
	// Causes is the selection audit trail of the node's component, in the
	// order the causes were recorded.
	Causes []conflicts.Cause
}

// Edge is one resolved dependency between two nodes. Requirement is the
// version string as declared, which may differ from the version selected.
type Edge struct {
	From        string
	To          string
	Requirement string
}

// Graph is an immutable dependency graph. Construct one with a Builder.
type Graph struct {
	root  string
	nodes map[string]*Node
	order []string
	out   map[string][]Edge
	in    map[string][]Edge
}

// Root returns the ID of the root node.
func (g *Graph) Root() string { return g.root }

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Dependencies returns the outgoing edges of a node.
func (g *Graph) Dependencies(id string) []Edge {
	return slices.Clone(g.out[id])
}

// Dependents returns the incoming edges of a node.
func (g *Graph) Dependents(id string) []Edge {
	return slices.Clone(g.in[id])
}

// Walk visits every node reachable from the root in breadth-first order,
// stopping early if fn returns false.
func (g *Graph) Walk(fn func(n *Node) bool) {
	if g.root == "" {
		return
	}
	seen := map[string]bool{g.root: true}
	queue := []string{g.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if !fn(g.nodes[id]) {
			return
		}
		for _, e := range g.out[id] {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
}

// PathTo returns one shortest chain of edges from the root to the given
// node, or nil when the node is unknown or unreachable.
func (g *Graph) PathTo(id string) []Edge {
	if _, ok := g.nodes[id]; !ok || g.root == "" {
		return nil
	}
	if id == g.root {
		return []Edge{}
	}
	via := map[string]Edge{}
	seen := map[string]bool{g.root: true}
	queue := []string{g.root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.out[cur] {
			if seen[e.To] {
				continue
			}
			seen[e.To] = true
			via[e.To] = e
			if e.To == id {
				var path []Edge
				for at := id; at != g.root; at = via[at].From {
					path = append(path, via[at])
				}
				slices.Reverse(path)
				return path
			}
			queue = append(queue, e.To)
		}
	}
	return nil
}

// Builder accumulates nodes and edges and validates them into a Graph.
type Builder struct {
	g   *Graph
	err error
}

// NewBuilder starts a graph rooted at the given node ID.
func NewBuilder(root string) *Builder {
	return &Builder{g: &Graph{
		root:  root,
		nodes: make(map[string]*Node),
		out:   make(map[string][]Edge),
		in:    make(map[string][]Edge),
	}}
}

// AddNode records a node. Adding the same ID twice is an error.
func (b *Builder) AddNode(n Node) *Builder {
	if b.err != nil {
		return b
	}
	if _, ok := b.g.nodes[n.ID]; ok {
		b.err = fmt.Errorf("graph: duplicate node %q", n.ID)
		return b
	}
	node := n
	b.g.nodes[n.ID] = &node
	b.g.order = append(b.g.order, n.ID)
	return b
}

// AddEdge records an edge between two already-added nodes.
func (b *Builder) AddEdge(e Edge) *Builder {
	if b.err != nil {
		return b
	}
	for _, id := range []string{e.From, e.To} {
		if _, ok := b.g.nodes[id]; !ok {
			b.err = fmt.Errorf("graph: edge %s -> %s references unknown node %q", e.From, e.To, id)
			return b
		}
	}
	b.g.out[e.From] = append(b.g.out[e.From], e)
	b.g.in[e.To] = append(b.g.in[e.To], e)
	return b
}

// Build finalizes the graph, failing when the root was never added or any
// prior add failed.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if _, ok := b.g.nodes[b.g.root]; !ok {
		return nil, fmt.Errorf("graph: root node %q was not added", b.g.root)
	}
	return b.g, nil
}

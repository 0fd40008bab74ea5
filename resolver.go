package modgraph

import "github.com/modgraph/go-modgraph/graph"

func graphNodeID(n *NodeState) string {
	return n.component.id.String() + "/" + n.variant.Name
}

// buildGraph freezes the selected part of the final state into the immutable
// result graph, walking from the root over attached edges only. Unattached
// and failed edges contribute nothing; they live in the report.
func (rs *ResolveState) buildGraph(root *NodeState) (*graph.Graph, error) {
	b := graph.NewBuilder(graphNodeID(root))

	var order []*NodeState
	added := map[*NodeState]bool{}
	var addNode func(n *NodeState)
	addNode = func(n *NodeState) {
		if added[n] {
			return
		}
		added[n] = true
		order = append(order, n)
		b.AddNode(graph.Node{
			ID:      graphNodeID(n),
			Module:  n.component.id.Module,
			Version: n.component.id.Version,
			Variant: n.variant.Name,
			Causes:  n.component.Causes(),
		})
		for _, e := range n.outgoing {
			for _, t := range e.targets {
				addNode(t)
			}
		}
	}
	addNode(root)

	for _, n := range order {
		for _, e := range n.outgoing {
			for _, t := range e.targets {
				b.AddEdge(graph.Edge{
					From:        graphNodeID(n),
					To:          graphNodeID(t),
					Requirement: e.decl.Version,
				})
			}
		}
	}
	return b.Build()
}

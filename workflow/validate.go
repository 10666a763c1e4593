package workflow

// CleanResult is the outcome of a pre-run topology cleanup.
type CleanResult struct {
	Nodes   []*Node
	Edges   []*Edge
	Removed int
}

// Clean removes edges that reference missing nodes, along with duplicate
// edge ids, and reports how many were dropped. Graphs arriving from the
// editor can carry edges left dangling by node deletions; executions must
// always run on the cleaned topology when Removed > 0.
func Clean(nodes []*Node, edges []*Edge) *CleanResult {
	nodeIDs := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		nodeIDs[node.ID] = true
	}
	seen := make(map[string]bool, len(edges))
	kept := make([]*Edge, 0, len(edges))
	removed := 0
	for _, edge := range edges {
		if !nodeIDs[edge.Source] || !nodeIDs[edge.Target] {
			removed++
			continue
		}
		if edge.ID != "" && seen[edge.ID] {
			removed++
			continue
		}
		seen[edge.ID] = true
		kept = append(kept, edge)
	}
	return &CleanResult{Nodes: nodes, Edges: kept, Removed: removed}
}

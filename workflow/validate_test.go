package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanDropsDanglingEdges(t *testing.T) {
	nodes := []*Node{
		{ID: "a", Type: NodeTypeStart},
		{ID: "b", Type: NodeTypeEnd},
	}
	edges := []*Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "a", Target: "deleted"},
		{ID: "e3", Source: "ghost", Target: "b"},
	}

	result := Clean(nodes, edges)
	require.Equal(t, 2, result.Removed)
	require.Len(t, result.Edges, 1)
	require.Equal(t, "e1", result.Edges[0].ID)
}

func TestCleanDropsDuplicateEdgeIDs(t *testing.T) {
	nodes := []*Node{
		{ID: "a", Type: NodeTypeStart},
		{ID: "b", Type: NodeTypeEnd},
	}
	edges := []*Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e1", Source: "b", Target: "a"},
	}

	result := Clean(nodes, edges)
	require.Equal(t, 1, result.Removed)
	require.Len(t, result.Edges, 1)
	require.Equal(t, "b", result.Edges[0].Target)
}

func TestCleanKeepsHealthyGraph(t *testing.T) {
	nodes := []*Node{
		{ID: "a", Type: NodeTypeStart},
		{ID: "b", Type: NodeTypeCondition},
		{ID: "c", Type: NodeTypeEnd},
	}
	edges := []*Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "c", Branch: "true"},
		{ID: "e3", Source: "b", Target: "c", Branch: "false"},
	}

	result := Clean(nodes, edges)
	require.Zero(t, result.Removed)
	require.Len(t, result.Edges, 3)
}

package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeUnmarshalSelectsConfigVariant(t *testing.T) {
	data := []byte(`{
		"id": "n1",
		"type": "agent",
		"position": {"x": 120, "y": 40},
		"config": {
			"name": "Planner",
			"model": "gpt-4o",
			"prompt": "Plan a shoot for {{topic}}",
			"outputVariable": "plan"
		}
	}`)
	var node Node
	require.NoError(t, json.Unmarshal(data, &node))
	require.Equal(t, "n1", node.ID)
	require.Equal(t, NodeTypeAgent, node.Type)
	require.Equal(t, 120.0, node.Position.X)

	config, ok := node.Config.(*AgentConfig)
	require.True(t, ok)
	require.Equal(t, "Planner", config.Name)
	require.Equal(t, "plan", config.OutputVariable)
}

func TestNodeUnmarshalMissingConfig(t *testing.T) {
	var node Node
	require.NoError(t, json.Unmarshal([]byte(`{"id": "s", "type": "start"}`), &node))
	config, ok := node.Config.(*StartConfig)
	require.True(t, ok)
	require.Empty(t, config.Variables)
}

func TestNodeUnmarshalUnknownType(t *testing.T) {
	var node Node
	err := json.Unmarshal([]byte(`{"id": "x", "type": "teleport"}`), &node)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown node type")
}

func TestWorkflowRoundTrip(t *testing.T) {
	wf := &Workflow{
		ID:   "wf-1",
		Name: "storyboard",
		Nodes: []*Node{
			{ID: "s", Type: NodeTypeStart, Config: &StartConfig{Variables: map[string]any{"tier": "low"}}},
			{ID: "c", Type: NodeTypeCondition, Config: &ConditionConfig{Expression: "tier == 'low'"}},
			{ID: "e", Type: NodeTypeEnd, Config: &EndConfig{}},
		},
		Edges: []*Edge{
			{ID: "e1", Source: "s", Target: "c"},
			{ID: "e2", Source: "c", Target: "e", Branch: "true"},
		},
	}

	data, err := json.Marshal(wf)
	require.NoError(t, err)

	var decoded Workflow
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "storyboard", decoded.Name)
	require.Len(t, decoded.Nodes, 3)

	condition, ok := decoded.Nodes[1].Config.(*ConditionConfig)
	require.True(t, ok)
	require.Equal(t, "tier == 'low'", condition.Expression)
	require.Equal(t, "true", decoded.Edges[1].Branch)
}

func TestWorkflowStartAndOutgoingEdges(t *testing.T) {
	wf := &Workflow{
		Name: "w",
		Nodes: []*Node{
			{ID: "a", Type: NodeTypeStart},
			{ID: "b", Type: NodeTypeEnd},
		},
		Edges: []*Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "a"},
		},
	}
	require.Equal(t, "a", wf.Start().ID)

	edges := wf.OutgoingEdges("a")
	require.Len(t, edges, 1)
	require.Equal(t, "b", edges[0].Target)
}

func TestWorkflowValidate(t *testing.T) {
	valid := &Workflow{
		Name: "w",
		Nodes: []*Node{
			{ID: "s", Type: NodeTypeStart},
			{ID: "e", Type: NodeTypeEnd},
		},
		Edges: []*Edge{{ID: "e1", Source: "s", Target: "e"}},
	}
	require.NoError(t, valid.Validate())

	duplicate := &Workflow{
		Name: "w",
		Nodes: []*Node{
			{ID: "s", Type: NodeTypeStart},
			{ID: "s", Type: NodeTypeEnd},
		},
	}
	require.ErrorContains(t, duplicate.Validate(), "duplicate node id")

	noStart := &Workflow{
		Name:  "w",
		Nodes: []*Node{{ID: "e", Type: NodeTypeEnd}},
	}
	require.ErrorContains(t, noStart.Validate(), "exactly one start node")

	danglingEdge := &Workflow{
		Name:  "w",
		Nodes: []*Node{{ID: "s", Type: NodeTypeStart}},
		Edges: []*Edge{{ID: "e1", Source: "s", Target: "ghost"}},
	}
	require.ErrorContains(t, danglingEdge.Validate(), "unknown target node")
}

func TestNodeConfigValidate(t *testing.T) {
	require.Error(t, (&AgentConfig{}).Validate())
	require.NoError(t, (&AgentConfig{Prompt: "hi"}).Validate())
	require.Error(t, (&ToolConfig{}).Validate())
	require.Error(t, (&MCPConfig{Server: "media"}).Validate())
	require.NoError(t, (&MCPConfig{Server: "media", Tool: "render"}).Validate())
	require.Error(t, (&ConditionConfig{Expression: "  "}).Validate())
}

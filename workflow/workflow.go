package workflow

import (
	"encoding/json"
	"fmt"
	"time"
)

// NodeType identifies the behavior of a node in a workflow graph.
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeAgent     NodeType = "agent"
	NodeTypeTool      NodeType = "tool"
	NodeTypeMCP       NodeType = "mcp"
	NodeTypeCondition NodeType = "condition"
	NodeTypeEnd       NodeType = "end"
)

// Position is the node's location on the editor canvas. It has no effect
// on execution.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single node in a workflow graph. Its configuration is one of
// the typed per-node-type variants, selected by Type.
type Node struct {
	ID       string     `json:"id"`
	Type     NodeType   `json:"type"`
	Position Position   `json:"position"`
	Config   NodeConfig `json:"config,omitempty"`
}

// Edge is a directed connection between two nodes. Branch carries the
// condition label ("true" or "false") for edges leaving a condition node.
// Animated is a cosmetic editor flag.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Branch   string `json:"branch,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// Workflow is a stored graph of nodes and edges.
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     []*Node   `json:"nodes"`
	Edges     []*Edge   `json:"edges"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Start returns the workflow's start node, or nil if there isn't one.
func (w *Workflow) Start() *Node {
	for _, node := range w.Nodes {
		if node.Type == NodeTypeStart {
			return node
		}
	}
	return nil
}

// Node returns the node with the given id.
func (w *Workflow) Node(id string) (*Node, bool) {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return nil, false
}

// OutgoingEdges returns the edges leaving the given node, in declaration
// order.
func (w *Workflow) OutgoingEdges(nodeID string) []*Edge {
	var edges []*Edge
	for _, edge := range w.Edges {
		if edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}
	return edges
}

// Validate checks the structural integrity of the workflow: unique node
// ids, edges that reference existing nodes, and exactly one start node.
func (w *Workflow) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workflow name required")
	}
	if len(w.Nodes) == 0 {
		return fmt.Errorf("workflow must have at least one node")
	}
	seen := make(map[string]bool, len(w.Nodes))
	starts := 0
	for _, node := range w.Nodes {
		if node.ID == "" {
			return fmt.Errorf("node id cannot be empty")
		}
		if seen[node.ID] {
			return fmt.Errorf("duplicate node id %q", node.ID)
		}
		seen[node.ID] = true
		if node.Type == NodeTypeStart {
			starts++
		}
	}
	if starts != 1 {
		return fmt.Errorf("workflow must have exactly one start node, found %d", starts)
	}
	for _, edge := range w.Edges {
		if !seen[edge.Source] {
			return fmt.Errorf("edge %q references unknown source node %q", edge.ID, edge.Source)
		}
		if !seen[edge.Target] {
			return fmt.Errorf("edge %q references unknown target node %q", edge.ID, edge.Target)
		}
	}
	return nil
}

// UnmarshalJSON decodes a node and selects the configuration variant
// matching the node's type tag.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Type     NodeType        `json:"type"`
		Position Position        `json:"position"`
		Config   json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.ID = raw.ID
	n.Type = raw.Type
	n.Position = raw.Position
	config, err := decodeNodeConfig(raw.Type, raw.Config)
	if err != nil {
		return fmt.Errorf("node %q: %w", raw.ID, err)
	}
	n.Config = config
	return nil
}

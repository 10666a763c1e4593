package engine

import "fmt"

// GraphError indicates ambiguous or missing routing in a workflow graph.
// It is fatal and aborts the run.
type GraphError struct {
	NodeID  string
	Message string
}

func (e *GraphError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("graph error at node %q: %s", e.NodeID, e.Message)
	}
	return fmt.Sprintf("graph error: %s", e.Message)
}

// NewGraphError creates a GraphError for the given node.
func NewGraphError(nodeID, format string, args ...any) *GraphError {
	return &GraphError{NodeID: nodeID, Message: fmt.Sprintf(format, args...)}
}

// Package engine walks workflow graphs node by node, dispatching each
// node to its type-specific handler.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/marcusg999/open-agent-builder/llm"
	"github.com/marcusg999/open-agent-builder/mcptools"
	"github.com/marcusg999/open-agent-builder/media"
	"github.com/marcusg999/open-agent-builder/slogger"
	"github.com/marcusg999/open-agent-builder/workflow"
)

// DefaultMaxSteps bounds a single run; a walk visiting more nodes than
// this indicates a cycle without an exit.
const DefaultMaxSteps = 250

// RunStatus is the terminal status of a run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// StepResult records one executed node.
type StepResult struct {
	NodeID  string            `json:"nodeId"`
	Type    workflow.NodeType `json:"type"`
	Output  any               `json:"output,omitempty"`
	Elapsed float64           `json:"elapsed"`
}

// RunResult is the structured summary returned for every run that is not
// aborted by a fatal error class.
type RunResult struct {
	WorkflowID   string       `json:"workflowId"`
	WorkflowName string       `json:"workflowName"`
	Status       RunStatus    `json:"status"`
	Output       any          `json:"output,omitempty"`
	Steps        []StepResult `json:"steps"`
	Error        string       `json:"error,omitempty"`
	StartedAt    time.Time    `json:"startedAt"`
	FinishedAt   time.Time    `json:"finishedAt"`
}

// Handler executes one node type.
type Handler func(ctx context.Context, node *workflow.Node, state *State) (any, error)

// Options configures an Engine.
type Options struct {
	Logger slogger.Logger

	// LLM serves agent nodes.
	LLM llm.Client

	// MCP serves mcp nodes.
	MCP mcptools.Caller

	// Tools serves tool nodes. The builtin media generation tools are
	// registered automatically when the executors are provided.
	Tools *ToolRegistry

	ImageExecutor *media.ImageExecutor
	VideoExecutor *media.VideoExecutor

	MaxSteps int
}

// Engine executes workflows. Independent runs may execute concurrently;
// the engine itself holds no per-run state.
type Engine struct {
	logger   slogger.Logger
	llm      llm.Client
	mcp      mcptools.Caller
	tools    *ToolRegistry
	maxSteps int
	handlers map[workflow.NodeType]Handler
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slogger.DefaultLogger
	}
	if opts.Tools == nil {
		opts.Tools = NewToolRegistry()
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	registerMediaTools(opts.Tools, opts.ImageExecutor, opts.VideoExecutor)

	e := &Engine{
		logger:   opts.Logger,
		llm:      opts.LLM,
		mcp:      opts.MCP,
		tools:    opts.Tools,
		maxSteps: opts.MaxSteps,
	}
	e.handlers = map[workflow.NodeType]Handler{
		workflow.NodeTypeStart:     e.executeStart,
		workflow.NodeTypeAgent:     e.executeAgent,
		workflow.NodeTypeTool:      e.executeTool,
		workflow.NodeTypeMCP:       e.executeMCP,
		workflow.NodeTypeCondition: e.executeCondition,
		workflow.NodeTypeEnd:       e.executeEnd,
	}
	return e
}

// Run executes a workflow from its start node until an end node, a node
// with no outgoing edge, or a fatal error. Batch-style handlers record
// per-item failures internally and never halt the run.
func (e *Engine) Run(ctx context.Context, wf *workflow.Workflow, input map[string]any) (*RunResult, error) {
	log := e.logger.With("workflow_id", wf.ID, "workflow_name", wf.Name)
	ctx = slogger.WithLogger(ctx, log)

	// Graphs arriving from the editor can carry edges left dangling by node
	// deletions. Cleaning must happen before structural validation, which
	// rejects exactly those edges; execution always uses the cleaned
	// topology.
	cleaned := workflow.Clean(wf.Nodes, wf.Edges)
	if cleaned.Removed > 0 {
		log.Warn("removed invalid edges before execution", "removed", cleaned.Removed)
		wf = &workflow.Workflow{
			ID:    wf.ID,
			Name:  wf.Name,
			Nodes: cleaned.Nodes,
			Edges: cleaned.Edges,
		}
	}

	if err := wf.Validate(); err != nil {
		return nil, NewGraphError("", "invalid workflow: %v", err)
	}

	result := &RunResult{
		WorkflowID:   wf.ID,
		WorkflowName: wf.Name,
		StartedAt:    time.Now(),
	}
	state := NewState(input)
	current := wf.Start()
	log.Info("starting run")

	for steps := 0; current != nil; steps++ {
		if steps >= e.maxSteps {
			return e.fail(result, NewGraphError(current.ID, "run exceeded %d steps, likely a cycle", e.maxSteps))
		}

		handler, ok := e.handlers[current.Type]
		if !ok {
			return e.fail(result, NewGraphError(current.ID, "no handler for node type %q", current.Type))
		}

		stepStart := time.Now()
		output, err := handler(ctx, current, state)
		if err != nil {
			return e.fail(result, fmt.Errorf("node %q failed: %w", current.ID, err))
		}
		state.LastOutput = output
		result.Steps = append(result.Steps, StepResult{
			NodeID:  current.ID,
			Type:    current.Type,
			Output:  output,
			Elapsed: time.Since(stepStart).Seconds(),
		})
		log.Debug("node executed", "node_id", current.ID, "type", current.Type)

		if current.Type == workflow.NodeTypeEnd {
			break
		}
		next, err := e.route(ctx, wf, current, state)
		if err != nil {
			return e.fail(result, err)
		}
		current = next
	}

	result.Status = RunCompleted
	result.Output = state.LastOutput
	result.FinishedAt = time.Now()
	log.Info("run completed", "steps", len(result.Steps))
	return result, nil
}

// route determines the node following current. Condition nodes follow the
// edge labeled with the expression's outcome; every other node follows its
// single outgoing edge. A missing labeled edge or more than one outgoing
// edge is a GraphError; zero outgoing edges terminates the run.
func (e *Engine) route(ctx context.Context, wf *workflow.Workflow, current *workflow.Node, state *State) (*workflow.Node, error) {
	edges := wf.OutgoingEdges(current.ID)

	if current.Type == workflow.NodeTypeCondition {
		config, ok := current.Config.(*workflow.ConditionConfig)
		if !ok {
			return nil, NewGraphError(current.ID, "condition node has no condition config")
		}
		outcome, err := workflow.NewEvalCondition(config.Expression).Evaluate(ctx, state.Variables)
		if err != nil {
			return nil, NewGraphError(current.ID, "condition evaluation failed: %v", err)
		}
		branch := "false"
		if outcome {
			branch = "true"
		}
		for _, edge := range edges {
			if edge.Branch == branch {
				return e.target(wf, edge)
			}
		}
		return nil, NewGraphError(current.ID, "no edge labeled %q", branch)
	}

	switch len(edges) {
	case 0:
		// Dead end without an end node: the run terminates here.
		return nil, nil
	case 1:
		return e.target(wf, edges[0])
	default:
		return nil, NewGraphError(current.ID, "expected one outgoing edge, found %d", len(edges))
	}
}

func (e *Engine) target(wf *workflow.Workflow, edge *workflow.Edge) (*workflow.Node, error) {
	node, ok := wf.Node(edge.Target)
	if !ok {
		return nil, NewGraphError(edge.Source, "edge %q targets unknown node %q", edge.ID, edge.Target)
	}
	return node, nil
}

func (e *Engine) fail(result *RunResult, err error) (*RunResult, error) {
	result.Status = RunFailed
	result.Error = err.Error()
	result.FinishedAt = time.Now()
	e.logger.Error("run failed", "workflow_id", result.WorkflowID, "error", err)
	return result, err
}

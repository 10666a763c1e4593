package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeConfig is the closed set of per-node-type configuration variants.
type NodeConfig interface {
	Validate() error
}

// StartConfig configures a start node. Variables are merged under the run
// input, so supplied input values win.
type StartConfig struct {
	Variables map[string]any `json:"variables,omitempty"`
}

func (c *StartConfig) Validate() error { return nil }

// AgentConfig configures an agent node. The prompt may reference run
// variables with {{name}} placeholders.
type AgentConfig struct {
	Name           string `json:"name,omitempty"`
	Model          string `json:"model,omitempty"`
	SystemPrompt   string `json:"systemPrompt,omitempty"`
	Prompt         string `json:"prompt"`
	OutputVariable string `json:"outputVariable,omitempty"`
}

func (c *AgentConfig) Validate() error {
	if strings.TrimSpace(c.Prompt) == "" {
		return fmt.Errorf("agent node requires a prompt")
	}
	return nil
}

// ToolConfig configures a tool node. Tool names resolve against the
// engine's tool registry, which includes the builtin media generation
// tools.
type ToolConfig struct {
	Tool           string         `json:"tool"`
	Params         map[string]any `json:"params,omitempty"`
	OutputVariable string         `json:"outputVariable,omitempty"`
}

func (c *ToolConfig) Validate() error {
	if c.Tool == "" {
		return fmt.Errorf("tool node requires a tool name")
	}
	return nil
}

// MCPConfig configures an mcp node, which calls a named tool on a
// configured MCP server.
type MCPConfig struct {
	Server         string         `json:"server"`
	Tool           string         `json:"tool"`
	Args           map[string]any `json:"args,omitempty"`
	OutputVariable string         `json:"outputVariable,omitempty"`
}

func (c *MCPConfig) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("mcp node requires a server name")
	}
	if c.Tool == "" {
		return fmt.Errorf("mcp node requires a tool name")
	}
	return nil
}

// ConditionConfig configures a condition node. The expression is evaluated
// against the run's variables and routes to the matching labeled edge.
type ConditionConfig struct {
	Expression string `json:"expression"`
}

func (c *ConditionConfig) Validate() error {
	if strings.TrimSpace(c.Expression) == "" {
		return fmt.Errorf("condition node requires an expression")
	}
	return nil
}

// EndConfig configures an end node. When OutputVariable is set, the run
// output is that variable's value instead of the last node output.
type EndConfig struct {
	OutputVariable string `json:"outputVariable,omitempty"`
}

func (c *EndConfig) Validate() error { return nil }

func decodeNodeConfig(nodeType NodeType, data []byte) (NodeConfig, error) {
	var config NodeConfig
	switch nodeType {
	case NodeTypeStart:
		config = &StartConfig{}
	case NodeTypeAgent:
		config = &AgentConfig{}
	case NodeTypeTool:
		config = &ToolConfig{}
	case NodeTypeMCP:
		config = &MCPConfig{}
	case NodeTypeCondition:
		config = &ConditionConfig{}
	case NodeTypeEnd:
		config = &EndConfig{}
	default:
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}
	if len(data) == 0 || string(data) == "null" {
		return config, nil
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid %s node config: %w", nodeType, err)
	}
	return config, nil
}

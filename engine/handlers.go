package engine

import (
	"context"
	"fmt"

	"github.com/marcusg999/open-agent-builder/llm"
	"github.com/marcusg999/open-agent-builder/workflow"
)

func (e *Engine) executeStart(ctx context.Context, node *workflow.Node, state *State) (any, error) {
	config, _ := node.Config.(*workflow.StartConfig)
	if config != nil {
		// Start node defaults apply only where the input payload did not
		// already provide a value.
		for name, value := range config.Variables {
			if _, ok := state.Variables[name]; !ok {
				state.Variables[name] = value
			}
		}
	}
	return state.Variables, nil
}

func (e *Engine) executeAgent(ctx context.Context, node *workflow.Node, state *State) (any, error) {
	config, ok := node.Config.(*workflow.AgentConfig)
	if !ok {
		return nil, fmt.Errorf("agent node has no agent config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if e.llm == nil {
		return nil, fmt.Errorf("no llm client configured for agent node")
	}

	prompt := state.Interpolate(config.Prompt)
	var messages []llm.Message
	if config.SystemPrompt != "" {
		messages = append(messages, llm.Message{
			Role:    llm.RoleSystem,
			Content: state.Interpolate(config.SystemPrompt),
		})
	}
	messages = append(messages, state.ChatHistory...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	reply, err := e.llm.Generate(ctx, config.Model, messages)
	if err != nil {
		return nil, fmt.Errorf("agent generation failed: %w", err)
	}

	state.AppendMessage(llm.RoleUser, prompt)
	state.AppendMessage(llm.RoleAssistant, reply)
	state.SetVariable(config.OutputVariable, reply)
	return reply, nil
}

func (e *Engine) executeTool(ctx context.Context, node *workflow.Node, state *State) (any, error) {
	config, ok := node.Config.(*workflow.ToolConfig)
	if !ok {
		return nil, fmt.Errorf("tool node has no tool config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	tool, ok := e.tools.Get(config.Tool)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", config.Tool)
	}
	output, err := tool(ctx, config.Params, state)
	if err != nil {
		return nil, fmt.Errorf("tool %q failed: %w", config.Tool, err)
	}
	state.SetVariable(config.OutputVariable, output)
	return output, nil
}

func (e *Engine) executeMCP(ctx context.Context, node *workflow.Node, state *State) (any, error) {
	config, ok := node.Config.(*workflow.MCPConfig)
	if !ok {
		return nil, fmt.Errorf("mcp node has no mcp config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if e.mcp == nil {
		return nil, fmt.Errorf("no mcp caller configured for mcp node")
	}
	output, err := e.mcp.CallTool(ctx, config.Server, config.Tool, config.Args)
	if err != nil {
		return nil, err
	}
	state.SetVariable(config.OutputVariable, output)
	return output, nil
}

// executeCondition passes the previous output through unchanged; the
// branch decision happens during routing.
func (e *Engine) executeCondition(ctx context.Context, node *workflow.Node, state *State) (any, error) {
	return state.LastOutput, nil
}

func (e *Engine) executeEnd(ctx context.Context, node *workflow.Node, state *State) (any, error) {
	if config, ok := node.Config.(*workflow.EndConfig); ok && config.OutputVariable != "" {
		if value, ok := state.Variables[config.OutputVariable]; ok {
			return value, nil
		}
	}
	return state.LastOutput, nil
}

// Package mcptools connects mcp workflow nodes to MCP servers.
package mcptools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marcusg999/open-agent-builder/slogger"
)

// Caller invokes a named tool on a named MCP server. The engine depends
// on this interface; tests substitute a fake.
type Caller interface {
	CallTool(ctx context.Context, server, tool string, args map[string]any) (string, error)
}

// Manager maintains lazily connected clients for a set of configured
// streamable-HTTP MCP servers.
type Manager struct {
	urls   map[string]string
	logger slogger.Logger

	mutex   sync.Mutex
	clients map[string]*mcpclient.Client
}

// NewManager creates a Manager for the given server name to URL mapping.
func NewManager(urls map[string]string, logger slogger.Logger) *Manager {
	if logger == nil {
		logger = slogger.DefaultLogger
	}
	return &Manager{
		urls:    urls,
		logger:  logger,
		clients: make(map[string]*mcpclient.Client),
	}
}

// CallTool connects to the named server if needed and calls the tool,
// returning the concatenated text content of the result.
func (m *Manager) CallTool(ctx context.Context, server, tool string, args map[string]any) (string, error) {
	client, err := m.connect(ctx, server)
	if err != nil {
		return "", err
	}
	response, err := client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      tool,
			Arguments: args,
		},
	})
	if err != nil {
		return "", fmt.Errorf("mcp tool %q on %q failed: %w", tool, server, err)
	}
	var parts []string
	for _, content := range response.Content {
		if text, ok := content.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	if response.IsError {
		return "", fmt.Errorf("mcp tool %q on %q returned an error: %s",
			tool, server, strings.Join(parts, "\n"))
	}
	return strings.Join(parts, "\n"), nil
}

func (m *Manager) connect(ctx context.Context, server string) (*mcpclient.Client, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[server]; ok {
		return client, nil
	}
	url, ok := m.urls[server]
	if !ok {
		return nil, fmt.Errorf("unknown mcp server %q", server)
	}
	client, err := mcpclient.NewStreamableHttpClient(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp client for %q: %w", server, err)
	}
	if err := client.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start mcp client for %q: %w", server, err)
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err = client.Initialize(initCtx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "open-agent-builder",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mcp server %q: %w", server, err)
	}
	m.logger.Info("connected to mcp server", "server", server)
	m.clients[server] = client
	return client, nil
}

// Close shuts down all connected clients.
func (m *Manager) Close() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for name, client := range m.clients {
		if err := client.Close(); err != nil {
			m.logger.Warn("failed to close mcp client", "server", name, "error", err)
		}
		delete(m.clients, name)
	}
}

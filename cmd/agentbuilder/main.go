// agentbuilder runs stored workflows from the command line.
//
// Usage:
//
//	agentbuilder list
//	agentbuilder seed
//	agentbuilder run --id <workflow-id> [--input '{"budget_tier":"low"}']
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	openaiapi "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"github.com/marcusg999/open-agent-builder/config"
	"github.com/marcusg999/open-agent-builder/engine"
	"github.com/marcusg999/open-agent-builder/llm"
	"github.com/marcusg999/open-agent-builder/mcptools"
	"github.com/marcusg999/open-agent-builder/media"
	googleprovider "github.com/marcusg999/open-agent-builder/media/providers/google"
	openaiprovider "github.com/marcusg999/open-agent-builder/media/providers/openai"
	"github.com/marcusg999/open-agent-builder/slogger"
	"github.com/marcusg999/open-agent-builder/workflow"
)

var (
	boldStyle    = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed)
)

func main() {
	godotenv.Load()

	id := flag.String("id", "", "Workflow id to run")
	input := flag.String("input", "{}", "Run input payload as JSON")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "list"
	}
	if err := run(command, *id, *input); err != nil {
		errorStyle.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(command, id, input string) error {
	ctx := context.Background()
	cfg := config.Load()
	logger := slogger.New(slogger.LevelFromString(cfg.LogLevel))

	store, err := workflow.NewFileStore(cfg.WorkflowsDir, logger)
	if err != nil {
		return err
	}

	switch command {
	case "list":
		return listWorkflows(store)
	case "seed":
		return seedWorkflow(store)
	case "run":
		if id == "" {
			return fmt.Errorf("--id is required for run")
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return fmt.Errorf("invalid --input payload: %w", err)
		}
		return runWorkflow(ctx, cfg, logger, store, id, payload)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func listWorkflows(store *workflow.FileStore) error {
	workflows, err := store.List()
	if err != nil {
		return err
	}
	if len(workflows) == 0 {
		fmt.Println("No workflows stored. Run \"agentbuilder seed\" to create one.")
		return nil
	}
	for _, w := range workflows {
		boldStyle.Print(w.ID)
		fmt.Printf("  %s  (%d nodes, updated %s)\n",
			w.Name, len(w.Nodes), w.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runWorkflow(ctx context.Context, cfg *config.Config, logger slogger.Logger, store *workflow.FileStore, id string, input map[string]any) error {
	w, err := store.Load(id)
	if err != nil {
		return err
	}

	e, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := e.Run(ctx, w, input)
	if err != nil {
		return err
	}
	successStyle.Printf("Run %s in %d steps\n", result.Status, len(result.Steps))
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// buildEngine wires providers from the environment. Media executors are
// only attached when the matching credentials are configured; running a
// workflow with a media node and no credentials fails with a clear error
// before any provider call.
func buildEngine(ctx context.Context, cfg *config.Config, logger slogger.Logger) (*engine.Engine, error) {
	opts := engine.Options{
		Logger: logger,
		MCP:    mcptools.NewManager(cfg.MCPServerURLs, logger),
	}

	providers := make(map[string]media.ProviderClient)

	if err := cfg.RequireOpenAI(); err != nil {
		logger.Debug("openai provider disabled", "reason", err)
	} else {
		client := openaiapi.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		opts.LLM = llm.NewOpenAIClient(&client, cfg.DefaultModel)
		provider := openaiprovider.NewProvider(&client)
		providers[provider.ProviderName()] = provider
	}

	if err := cfg.RequireGoogle(); err != nil {
		logger.Debug("google provider disabled", "reason", err)
	} else {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GoogleAPIKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create google genai client: %w", err)
		}
		provider := googleprovider.NewProvider(client)
		providers[provider.ProviderName()] = provider
	}

	if len(providers) > 0 {
		registry := media.NewRegistry()
		router := media.NewRouter(registry, providers)
		assets := media.NewAssetStore(cfg.AssetsDir)
		stitcher := media.NewStitcher(media.StitcherOptions{
			Assets:     assets,
			Logger:     logger,
			FFmpegPath: cfg.FFmpegPath,
		})
		images, err := media.NewImageExecutor(media.ImageExecutorOptions{
			Client:   router,
			Registry: registry,
			Assets:   assets,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		videos, err := media.NewVideoExecutor(media.VideoExecutorOptions{
			Client:   router,
			Registry: registry,
			Assets:   assets,
			Stitcher: stitcher,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		opts.ImageExecutor = images
		opts.VideoExecutor = videos
	}

	return engine.New(opts), nil
}

// seedWorkflow stores an example graph: a planning agent, an image batch,
// a budget branch and a final video batch.
func seedWorkflow(store *workflow.FileStore) error {
	w := &workflow.Workflow{
		Name: "Storyboard to video",
		Nodes: []*workflow.Node{
			{
				ID:   "start",
				Type: workflow.NodeTypeStart,
				Config: &workflow.StartConfig{
					Variables: map[string]any{"budget_tier": "low"},
				},
			},
			{
				ID:   "plan",
				Type: workflow.NodeTypeAgent,
				Config: &workflow.AgentConfig{
					Name:         "Storyboard planner",
					SystemPrompt: "You are a storyboard planner. Write one fenced code block per shot prompt.",
					Prompt:       "Plan 4 shots for a short film about {{topic}}.",
				},
			},
			{
				ID:   "images",
				Type: workflow.NodeTypeTool,
				Config: &workflow.ToolConfig{
					Tool:   engine.ToolGenerateImages,
					Params: map[string]any{"model": "imagen-4-fast"},
				},
			},
			{
				ID:   "budget",
				Type: workflow.NodeTypeCondition,
				Config: &workflow.ConditionConfig{
					Expression: "budget_tier === 'low'",
				},
			},
			{
				ID:   "videos_fast",
				Type: workflow.NodeTypeTool,
				Config: &workflow.ToolConfig{
					Tool:   engine.ToolGenerateVideos,
					Params: map[string]any{"model": "veo-3-fast"},
				},
			},
			{
				ID:   "videos_quality",
				Type: workflow.NodeTypeTool,
				Config: &workflow.ToolConfig{
					Tool:   engine.ToolGenerateVideos,
					Params: map[string]any{"model": "veo-2"},
				},
			},
			{ID: "end", Type: workflow.NodeTypeEnd, Config: &workflow.EndConfig{}},
		},
		Edges: []*workflow.Edge{
			{ID: "e1", Source: "start", Target: "plan"},
			{ID: "e2", Source: "plan", Target: "images"},
			{ID: "e3", Source: "images", Target: "budget"},
			{ID: "e4", Source: "budget", Target: "videos_fast", Branch: "true"},
			{ID: "e5", Source: "budget", Target: "videos_quality", Branch: "false"},
			{ID: "e6", Source: "videos_fast", Target: "end"},
			{ID: "e7", Source: "videos_quality", Target: "end"},
		},
	}
	id, err := store.Save(w)
	if err != nil {
		return err
	}
	successStyle.Printf("Seeded workflow %s\n", id)
	return nil
}

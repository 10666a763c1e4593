package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouterDispatchesByProvider(t *testing.T) {
	google := &MockProviderClient{
		GenerateFunc: func(ctx context.Context, modelID string, in GenerateInput) (*GenerateOutput, error) {
			return &GenerateOutput{Asset: &Asset{Data: []byte("g")}}, nil
		},
	}
	openai := &MockProviderClient{
		GenerateFunc: func(ctx context.Context, modelID string, in GenerateInput) (*GenerateOutput, error) {
			return &GenerateOutput{Asset: &Asset{Data: []byte("o")}}, nil
		},
	}
	registry := NewRegistry()
	router := NewRouter(registry, map[string]ProviderClient{
		"google": google,
		"openai": openai,
	})

	imagen, err := registry.ImageProfile("imagen-4")
	require.NoError(t, err)
	_, err = router.Generate(context.Background(), imagen.Model, GenerateInput{Prompt: "p"})
	require.NoError(t, err)
	require.Len(t, google.GenerateCalls, 1)
	require.Empty(t, openai.GenerateCalls)

	gpt, err := registry.ImageProfile("gpt-image-1")
	require.NoError(t, err)
	_, err = router.Generate(context.Background(), gpt.Model, GenerateInput{Prompt: "p"})
	require.NoError(t, err)
	require.Len(t, openai.GenerateCalls, 1)
}

func TestRouterUnknownModel(t *testing.T) {
	router := NewRouter(NewRegistry(), map[string]ProviderClient{})
	_, err := router.Generate(context.Background(), "mystery-model", GenerateInput{Prompt: "p"})
	require.ErrorContains(t, err, "no client configured")
}

func TestRouterRoutesPollsToOriginatingProvider(t *testing.T) {
	google := &MockProviderClient{
		GenerateFunc: func(ctx context.Context, modelID string, in GenerateInput) (*GenerateOutput, error) {
			return &GenerateOutput{Job: &Job{ID: "op-1"}}, nil
		},
		PollStatusFunc: func(ctx context.Context, jobID string) (*JobStatus, error) {
			return &JobStatus{Status: "completed", Asset: &Asset{Data: []byte("v")}}, nil
		},
	}
	registry := NewRegistry()
	router := NewRouter(registry, map[string]ProviderClient{"google": google})

	veo, err := registry.VideoProfile("veo-2")
	require.NoError(t, err)
	_, err = router.Generate(context.Background(), veo.Model, GenerateInput{Prompt: "p"})
	require.NoError(t, err)

	status, err := router.PollStatus(context.Background(), "op-1")
	require.NoError(t, err)
	require.Equal(t, "completed", status.Status)

	// Terminal polls forget the job.
	_, err = router.PollStatus(context.Background(), "op-1")
	require.ErrorContains(t, err, "unknown job")
}

package media

import (
	"context"
	"sync"
)

// Router dispatches provider calls to the client registered for the
// provider owning the requested model. Async jobs are remembered so that
// polls reach the provider that started them.
type Router struct {
	registry  *Registry
	providers map[string]ProviderClient

	mutex sync.Mutex
	jobs  map[string]ProviderClient
}

// NewRouter creates a router over the given provider clients, keyed by
// provider name as it appears in the profile registry.
func NewRouter(registry *Registry, providers map[string]ProviderClient) *Router {
	return &Router{
		registry:  registry,
		providers: providers,
		jobs:      make(map[string]ProviderClient),
	}
}

func (r *Router) Generate(ctx context.Context, modelID string, in GenerateInput) (*GenerateOutput, error) {
	name := r.registry.ProviderForModel(modelID)
	client, ok := r.providers[name]
	if !ok {
		return nil, &ProviderError{Message: "no client configured for model " + modelID}
	}
	out, err := client.Generate(ctx, modelID, in)
	if err != nil {
		return nil, err
	}
	if out.Job != nil {
		r.mutex.Lock()
		r.jobs[out.Job.ID] = client
		r.mutex.Unlock()
	}
	return out, nil
}

func (r *Router) PollStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	r.mutex.Lock()
	client, ok := r.jobs[jobID]
	r.mutex.Unlock()
	if !ok {
		return nil, &ProviderError{Message: "unknown job " + jobID}
	}
	status, err := client.PollStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if status.Status == "completed" || status.Status == "failed" {
		r.mutex.Lock()
		delete(r.jobs, jobID)
		r.mutex.Unlock()
	}
	return status, nil
}

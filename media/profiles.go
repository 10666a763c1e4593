package media

import "fmt"

// ImageProfile describes an image model's cost and capabilities.
type ImageProfile struct {
	ID            string
	Provider      string
	Model         string
	Description   string
	CostPerImage  float64
	DefaultSteps  int
	Quality       string
	SupportsImage bool
}

// VideoProfile describes a video model's cost and capabilities.
type VideoProfile struct {
	ID             string
	Provider       string
	Model          string
	Description    string
	CostPerSecond  float64
	DefaultSeconds int
	SupportsImage  bool
	Async          bool
}

// Registry is an immutable set of model profiles built once at process
// start and passed by reference into executors.
type Registry struct {
	images       map[string]ImageProfile
	videos       map[string]VideoProfile
	defaultImage string
	defaultVideo string
}

// NewRegistry builds the standard profile registry.
func NewRegistry() *Registry {
	r := &Registry{
		images:       make(map[string]ImageProfile),
		videos:       make(map[string]VideoProfile),
		defaultImage: "imagen-4",
		defaultVideo: "veo-3-fast",
	}
	for _, p := range []ImageProfile{
		{
			ID:           "imagen-4-fast",
			Provider:     "google",
			Model:        "imagen-4.0-fast-generate-001",
			Description:  "Fast, lowest cost drafts",
			CostPerImage: 0.02,
			DefaultSteps: 20,
			Quality:      "draft",
		},
		{
			ID:           "imagen-4",
			Provider:     "google",
			Model:        "imagen-4.0-generate-001",
			Description:  "Balanced quality and cost",
			CostPerImage: 0.04,
			DefaultSteps: 35,
			Quality:      "standard",
		},
		{
			ID:           "imagen-4-ultra",
			Provider:     "google",
			Model:        "imagen-4.0-ultra-generate-001",
			Description:  "Highest quality, slowest",
			CostPerImage: 0.06,
			DefaultSteps: 50,
			Quality:      "ultra",
		},
		{
			ID:            "gpt-image-1",
			Provider:      "openai",
			Model:         "gpt-image-1",
			Description:   "Accepts a source image for edits",
			CostPerImage:  0.08,
			DefaultSteps:  30,
			Quality:       "high",
			SupportsImage: true,
		},
	} {
		r.images[p.ID] = p
	}
	for _, p := range []VideoProfile{
		{
			ID:             "veo-3-fast",
			Provider:       "google",
			Model:          "veo-3.0-fast-generate-preview",
			Description:    "Fast text-to-video",
			CostPerSecond:  0.25,
			DefaultSeconds: 8,
			Async:          true,
		},
		{
			ID:             "veo-2",
			Provider:       "google",
			Model:          "veo-2.0-generate-001",
			Description:    "Image-conditioned video",
			CostPerSecond:  0.50,
			DefaultSeconds: 5,
			SupportsImage:  true,
			Async:          true,
		},
	} {
		r.videos[p.ID] = p
	}
	return r
}

// ImageProfile resolves an image profile by id, falling back to the
// default when id is empty.
func (r *Registry) ImageProfile(id string) (ImageProfile, error) {
	if id == "" {
		id = r.defaultImage
	}
	p, ok := r.images[id]
	if !ok {
		return ImageProfile{}, fmt.Errorf("unknown image model profile %q", id)
	}
	return p, nil
}

// VideoProfile resolves a video profile by id, falling back to the
// default when id is empty.
func (r *Registry) VideoProfile(id string) (VideoProfile, error) {
	if id == "" {
		id = r.defaultVideo
	}
	p, ok := r.videos[id]
	if !ok {
		return VideoProfile{}, fmt.Errorf("unknown video model profile %q", id)
	}
	return p, nil
}

// ProviderForModel returns the provider name owning the given model id,
// or "" when no profile uses it.
func (r *Registry) ProviderForModel(modelID string) string {
	for _, p := range r.images {
		if p.Model == modelID {
			return p.Provider
		}
	}
	for _, p := range r.videos {
		if p.Model == modelID {
			return p.Provider
		}
	}
	return ""
}

// ImageProfileIDs returns the available image profile ids.
func (r *Registry) ImageProfileIDs() []string {
	ids := make([]string, 0, len(r.images))
	for id := range r.images {
		ids = append(ids, id)
	}
	return ids
}

// VideoProfileIDs returns the available video profile ids.
func (r *Registry) VideoProfileIDs() []string {
	ids := make([]string, 0, len(r.videos))
	for id := range r.videos {
		ids = append(ids, id)
	}
	return ids
}

// Package google adapts Google GenAI (Imagen, Veo) to the generic media
// provider contract.
package google

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/marcusg999/open-agent-builder/media"
)

// Provider implements media.ProviderClient for Google GenAI. Imagen
// models return assets synchronously; Veo models return long-running
// operations that callers poll.
type Provider struct {
	client *genai.Client
}

// NewProvider creates a Google GenAI media provider.
func NewProvider(client *genai.Client) *Provider {
	return &Provider{client: client}
}

// ProviderName returns the name of this provider.
func (p *Provider) ProviderName() string {
	return "google"
}

// Generate dispatches to image or video generation based on the model id.
func (p *Provider) Generate(ctx context.Context, modelID string, in media.GenerateInput) (*media.GenerateOutput, error) {
	if p.client == nil {
		return nil, fmt.Errorf("google genai client is not initialized")
	}
	switch {
	case strings.HasPrefix(modelID, "imagen"):
		return p.generateImage(ctx, modelID, in)
	case strings.HasPrefix(modelID, "veo"):
		return p.generateVideo(ctx, modelID, in)
	default:
		return nil, fmt.Errorf("unsupported google model: %s", modelID)
	}
}

func (p *Provider) generateImage(ctx context.Context, modelID string, in media.GenerateInput) (*media.GenerateOutput, error) {
	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
	}
	if in.AspectRatio != "" {
		config.AspectRatio = in.AspectRatio
	}
	response, err := p.client.Models.GenerateImages(ctx, modelID, in.Prompt, config)
	if err != nil {
		return nil, fmt.Errorf("error generating image: %w", err)
	}
	if len(response.GeneratedImages) == 0 {
		return nil, fmt.Errorf("no images were generated")
	}
	image := response.GeneratedImages[0]
	if image.Image == nil || len(image.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("generated image has no data")
	}
	return &media.GenerateOutput{
		Asset: &media.Asset{
			Data:     image.Image.ImageBytes,
			MIMEType: "image/png",
		},
	}, nil
}

func (p *Provider) generateVideo(ctx context.Context, modelID string, in media.GenerateInput) (*media.GenerateOutput, error) {
	config := &genai.GenerateVideosConfig{}
	if in.AspectRatio != "" {
		config.AspectRatio = in.AspectRatio
	}

	var image *genai.Image
	if in.SourceImagePath != "" {
		data, err := os.ReadFile(in.SourceImagePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read source image: %w", err)
		}
		image = &genai.Image{
			ImageBytes: data,
			MIMEType:   mimeTypeForPath(in.SourceImagePath),
		}
	}

	operation, err := p.client.Models.GenerateVideos(ctx, modelID, in.Prompt, image, config)
	if err != nil {
		return nil, fmt.Errorf("error generating video: %w", err)
	}
	if operation.Done {
		asset, err := videoAsset(operation)
		if err != nil {
			return nil, err
		}
		return &media.GenerateOutput{Asset: asset}, nil
	}
	return &media.GenerateOutput{Job: &media.Job{ID: operation.Name}}, nil
}

// PollStatus checks a Veo long-running operation.
func (p *Provider) PollStatus(ctx context.Context, jobID string) (*media.JobStatus, error) {
	if p.client == nil {
		return nil, fmt.Errorf("google genai client is not initialized")
	}
	operation := &genai.GenerateVideosOperation{Name: jobID}
	updated, err := p.client.Operations.GetVideosOperation(ctx, operation, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking video operation: %w", err)
	}
	if !updated.Done {
		return &media.JobStatus{Status: "running"}, nil
	}
	asset, err := videoAsset(updated)
	if err != nil {
		return &media.JobStatus{Status: "failed", FailureReason: err.Error()}, nil
	}
	return &media.JobStatus{Status: "completed", Asset: asset}, nil
}

func videoAsset(operation *genai.GenerateVideosOperation) (*media.Asset, error) {
	if operation.Response == nil || len(operation.Response.GeneratedVideos) == 0 {
		return nil, fmt.Errorf("video operation completed without videos")
	}
	video := operation.Response.GeneratedVideos[0]
	if video.Video == nil {
		return nil, fmt.Errorf("video operation returned an empty video")
	}
	return &media.Asset{
		URL:      video.Video.URI,
		Data:     video.Video.VideoBytes,
		MIMEType: video.Video.MIMEType,
	}, nil
}

func mimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

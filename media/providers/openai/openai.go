// Package openai adapts the OpenAI image API to the generic media
// provider contract.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	openaiapi "github.com/openai/openai-go"

	"github.com/marcusg999/open-agent-builder/media"
)

// Provider implements media.ProviderClient for OpenAI image generation.
// All calls are synchronous; there are no jobs to poll.
type Provider struct {
	client *openaiapi.Client
}

// NewProvider creates an OpenAI media provider.
func NewProvider(client *openaiapi.Client) *Provider {
	return &Provider{client: client}
}

// ProviderName returns the name of this provider.
func (p *Provider) ProviderName() string {
	return "openai"
}

// Generate creates an image. When a source image is supplied the edit
// endpoint is used, conditioning the output on that image.
func (p *Provider) Generate(ctx context.Context, modelID string, in media.GenerateInput) (*media.GenerateOutput, error) {
	if p.client == nil {
		return nil, fmt.Errorf("openai client is not initialized")
	}
	if in.SourceImagePath != "" {
		return p.editImage(ctx, modelID, in)
	}
	return p.generateImage(ctx, modelID, in)
}

func (p *Provider) generateImage(ctx context.Context, modelID string, in media.GenerateInput) (*media.GenerateOutput, error) {
	params := openaiapi.ImageGenerateParams{
		Prompt: in.Prompt,
		Model:  openaiapi.ImageModel(modelID),
		N:      openaiapi.Int(1),
		Size:   sizeForAspectRatio(in.AspectRatio),
	}
	if params.Model != openaiapi.ImageModelGPTImage1 {
		params.ResponseFormat = openaiapi.ImageGenerateParamsResponseFormatB64JSON
	}
	response, err := p.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error generating image: %w", err)
	}
	return assetFromResponse(response.Data)
}

func (p *Provider) editImage(ctx context.Context, modelID string, in media.GenerateInput) (*media.GenerateOutput, error) {
	file, err := os.Open(in.SourceImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source image: %w", err)
	}
	defer file.Close()

	params := openaiapi.ImageEditParams{
		Image:  openaiapi.ImageEditParamsImageUnion{OfFile: file},
		Prompt: in.Prompt,
		Model:  openaiapi.ImageModel(modelID),
		N:      openaiapi.Int(1),
	}
	response, err := p.client.Images.Edit(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error editing image: %w", err)
	}
	return assetFromResponse(response.Data)
}

// PollStatus is unsupported: OpenAI image generation is synchronous.
func (p *Provider) PollStatus(ctx context.Context, jobID string) (*media.JobStatus, error) {
	return nil, fmt.Errorf("openai provider has no asynchronous operations")
}

func assetFromResponse(data []openaiapi.Image) (*media.GenerateOutput, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no images were generated")
	}
	image := data[0]
	asset := &media.Asset{
		URL:      image.URL,
		MIMEType: "image/png",
	}
	if image.B64JSON != "" {
		decoded, err := base64.StdEncoding.DecodeString(image.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		asset.Data = decoded
	}
	if len(asset.Data) == 0 && asset.URL == "" {
		return nil, fmt.Errorf("generated image has no data")
	}
	return &media.GenerateOutput{Asset: asset}, nil
}

func sizeForAspectRatio(aspectRatio string) openaiapi.ImageGenerateParamsSize {
	switch aspectRatio {
	case "16:9", "3:2":
		return openaiapi.ImageGenerateParamsSize1536x1024
	case "9:16", "2:3":
		return openaiapi.ImageGenerateParamsSize1024x1536
	default:
		return openaiapi.ImageGenerateParamsSize1024x1024
	}
}

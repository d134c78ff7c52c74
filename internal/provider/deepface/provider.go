package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

// Extractor implements provider.Extractor against a DeepFace sidecar.
type Extractor struct {
	client *Client
}

// New creates a DeepFace-backed extractor.
func New(config Config) *Extractor {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.Detector == "" {
		config.Detector = DefaultConfig().Detector
	}
	return &Extractor{client: NewClient(config)}
}

// Represent extracts the raw embedding for the most prominent face in
// the image. An empty result list from DeepFace maps to
// provider.ErrNoFace.
func (e *Extractor) Represent(ctx context.Context, image []byte) ([]float64, error) {
	if len(image) == 0 {
		return nil, provider.ErrInvalidImage
	}

	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := e.client.Represent(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("represent: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, provider.ErrNoFace
	}

	return resp.Results[0].Embedding, nil
}

var _ provider.Extractor = (*Extractor)(nil)

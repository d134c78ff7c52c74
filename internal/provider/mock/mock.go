package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

// Dimension matches the Facenet embedding size used in production.
const Dimension = 128

// minImageSize is the smallest payload the mock accepts as an image.
const minImageSize = 1000

// Extractor implements provider.Extractor for tests and development.
// The embedding is derived deterministically from the image hash, so
// the same photo always produces the same vector and distinct photos
// produce (with overwhelming probability) distant vectors.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Represent(ctx context.Context, image []byte) ([]float64, error) {
	if len(image) == 0 {
		return nil, provider.ErrInvalidImage
	}
	if len(image) < minImageSize {
		return nil, provider.ErrNoFace
	}

	return generateEmbedding(image), nil
}

// generateEmbedding derives a unit-length vector from the sha256 chain
// of the image bytes.
func generateEmbedding(image []byte) []float64 {
	embedding := make([]float64, Dimension)
	sum := sha256.Sum256(image)

	for i := 0; i < Dimension; i++ {
		idx := i % len(sum)
		embedding[i] = (float64(sum[idx])/255.0)*2 - 1
		if idx == len(sum)-1 {
			sum = sha256.Sum256(sum[:])
		}
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}

var _ provider.Extractor = (*Extractor)(nil)

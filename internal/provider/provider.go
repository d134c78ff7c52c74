package provider

import (
	"context"
	"errors"
)

// Extractor converts a face image into a raw embedding vector. The
// dimension is fixed by the underlying model and must match across
// enrollment and recognition. Implementations are expected to be safe
// for concurrent use.
type Extractor interface {
	// Represent returns the raw (unnormalized) embedding for the most
	// prominent face in the image, or ErrNoFace when no face is
	// detectable.
	Represent(ctx context.Context, image []byte) ([]float64, error)
}

// ErrNoFace is returned when the extractor finds no usable face in the
// image. Callers treat it as a soft failure, never a fatal one.
var ErrNoFace = errors.New("no face detected in image")

// ErrInvalidImage is returned for payloads that cannot be decoded as an
// image at all.
var ErrInvalidImage = errors.New("invalid image payload")

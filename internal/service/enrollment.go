package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/facematch"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

type EnrollmentUserRepository interface {
	SetEmbedding(ctx context.Context, userID uuid.UUID, embedding []float64) error
}

// EnrollmentService turns a reference photo into a stored embedding.
// Enrollment is all-or-nothing: a failed extraction never touches the
// user's existing embedding.
type EnrollmentService struct {
	users     EnrollmentUserRepository
	extractor provider.Extractor
	timeout   time.Duration
	logger    *slog.Logger
}

func NewEnrollmentService(users EnrollmentUserRepository, extractor provider.Extractor, timeout time.Duration, logger *slog.Logger) *EnrollmentService {
	return &EnrollmentService{
		users:     users,
		extractor: extractor,
		timeout:   timeout,
		logger:    logger,
	}
}

// Enroll extracts, normalizes and stores the embedding for the user's
// reference photo. Re-enrolling replaces the previous embedding.
func (s *EnrollmentService) Enroll(ctx context.Context, userID uuid.UUID, image []byte) ([]float64, error) {
	if len(image) == 0 {
		return nil, domain.ErrNoImageData
	}

	embedding, err := s.extract(ctx, image)
	if err != nil {
		return nil, err
	}

	normalized, err := facematch.Normalize(embedding)
	if err != nil {
		return nil, domain.ErrEnrollmentFailed.WithError(err)
	}

	if err := s.users.SetEmbedding(ctx, userID, normalized); err != nil {
		return nil, err
	}

	s.logger.Info("user enrolled",
		slog.String("user_id", userID.String()),
		slog.Int("dimension", len(normalized)),
	)

	return normalized, nil
}

func (s *EnrollmentService) extract(ctx context.Context, image []byte) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.extractor.Represent(ctx, image)
	switch {
	case errors.Is(err, provider.ErrNoFace):
		return nil, domain.ErrNoFaceDetected
	case errors.Is(err, provider.ErrInvalidImage):
		return nil, domain.ErrInvalidImage
	case err != nil:
		return nil, domain.ErrEnrollmentFailed.WithError(err)
	}

	return embedding, nil
}

package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

func TestEnrollmentService_Enroll(t *testing.T) {
	userID := uuid.New()

	t.Run("stores the normalized embedding", func(t *testing.T) {
		users := &MockUserRepository{}
		extractor := &MockExtractor{}

		extractor.On("Represent", mock.Anything, mock.Anything).Return([]float64{3, 4, 0}, nil)
		users.On("SetEmbedding", mock.Anything, userID, mock.MatchedBy(func(emb []float64) bool {
			var norm float64
			for _, v := range emb {
				norm += v * v
			}
			return math.Abs(math.Sqrt(norm)-1.0) < 1e-9
		})).Return(nil)

		svc := NewEnrollmentService(users, extractor, 5*time.Second, testLogger())

		embedding, err := svc.Enroll(context.Background(), userID, []byte("photo"))
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.6, 0.8, 0}, embedding, 1e-9)

		users.AssertExpectations(t)
	})

	t.Run("no face leaves existing embedding untouched", func(t *testing.T) {
		users := &MockUserRepository{}
		extractor := &MockExtractor{}

		extractor.On("Represent", mock.Anything, mock.Anything).Return(nil, provider.ErrNoFace)

		svc := NewEnrollmentService(users, extractor, 5*time.Second, testLogger())

		_, err := svc.Enroll(context.Background(), userID, []byte("photo"))
		assert.ErrorIs(t, err, domain.ErrNoFaceDetected)

		users.AssertNotCalled(t, "SetEmbedding", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty image", func(t *testing.T) {
		svc := NewEnrollmentService(&MockUserRepository{}, &MockExtractor{}, 5*time.Second, testLogger())

		_, err := svc.Enroll(context.Background(), userID, nil)
		assert.ErrorIs(t, err, domain.ErrNoImageData)
	})

	t.Run("degenerate embedding from extractor", func(t *testing.T) {
		users := &MockUserRepository{}
		extractor := &MockExtractor{}

		extractor.On("Represent", mock.Anything, mock.Anything).Return([]float64{0, 0, 0}, nil)

		svc := NewEnrollmentService(users, extractor, 5*time.Second, testLogger())

		_, err := svc.Enroll(context.Background(), userID, []byte("photo"))
		assert.ErrorIs(t, err, domain.ErrEnrollmentFailed)

		users.AssertNotCalled(t, "SetEmbedding", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("extractor outage", func(t *testing.T) {
		users := &MockUserRepository{}
		extractor := &MockExtractor{}

		extractor.On("Represent", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		svc := NewEnrollmentService(users, extractor, 5*time.Second, testLogger())

		_, err := svc.Enroll(context.Background(), userID, []byte("photo"))
		assert.ErrorIs(t, err, domain.ErrEnrollmentFailed)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		users := &MockUserRepository{}
		extractor := &MockExtractor{}

		extractor.On("Represent", mock.Anything, mock.Anything).Return([]float64{1, 0, 0}, nil)
		users.On("SetEmbedding", mock.Anything, userID, mock.Anything).Return(domain.ErrUserNotFound)

		svc := NewEnrollmentService(users, extractor, 5*time.Second, testLogger())

		_, err := svc.Enroll(context.Background(), userID, []byte("photo"))
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

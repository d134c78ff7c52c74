package facematch

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatcher(threshold float64) *Matcher {
	return NewMatcher(threshold, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// unitVector returns a deterministic pseudo-random unit vector of the
// given dimension, seeded by name.
func unitVector(t *testing.T, name string, dim int) []float64 {
	t.Helper()

	raw := make([]float64, dim)
	sum := sha256.Sum256([]byte(name))
	for i := range raw {
		word := binary.BigEndian.Uint32(sum[(i*4)%28:])
		raw[i] = float64(word%1000)/500.0 - 1.0
		sum = sha256.Sum256(sum[:])
	}

	v, err := Normalize(raw)
	require.NoError(t, err)
	return v
}

func TestMatcher_Match(t *testing.T) {
	alice := unitVector(t, "alice", 128)
	bob := unitVector(t, "bob", 128)
	carol := unitVector(t, "carol", 128)

	aliceID := uuid.New()
	bobID := uuid.New()

	gallery := []Entry{
		{UserID: bobID, Name: "Bob", Embedding: bob},
		{UserID: aliceID, Name: "Alice", Embedding: alice},
	}

	t.Run("identical query matches with near-zero distance", func(t *testing.T) {
		got, err := testMatcher(DefaultThreshold).Match(alice, gallery)

		require.NoError(t, err)
		assert.Equal(t, aliceID, got.UserID)
		assert.Equal(t, "Alice", got.Name)
		assert.InDelta(t, 0.0, got.Distance, 1e-9)
	})

	t.Run("winner has minimum distance among comparable entries", func(t *testing.T) {
		got, err := testMatcher(DefaultThreshold).Match(alice, gallery)
		require.NoError(t, err)

		for _, e := range gallery {
			d, derr := Distance(alice, e.Embedding)
			require.NoError(t, derr)
			assert.LessOrEqual(t, got.Distance, d)
		}
	})

	t.Run("zero threshold rejects any non-identical vector", func(t *testing.T) {
		m := testMatcher(0)
		assert.Equal(t, 0.0, m.Threshold())

		_, err := m.Match(carol, gallery)

		var noMatch *NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.True(t, noMatch.HasCandidate)
		assert.Greater(t, noMatch.BestDistance, 0.0)
	})

	t.Run("negative and NaN thresholds fall back to the default", func(t *testing.T) {
		assert.Equal(t, DefaultThreshold, testMatcher(-1).Threshold())
		assert.Equal(t, DefaultThreshold, testMatcher(math.NaN()).Threshold())
	})

	t.Run("empty gallery yields no match", func(t *testing.T) {
		_, err := testMatcher(DefaultThreshold).Match(alice, nil)

		var noMatch *NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.False(t, noMatch.HasCandidate)
	})

	t.Run("dimension mismatched entries are skipped silently", func(t *testing.T) {
		wideGallery := []Entry{
			{UserID: uuid.New(), Name: "Other Model", Embedding: unitVector(t, "other", 512)},
		}

		_, err := testMatcher(DefaultThreshold).Match(alice, wideGallery)

		var noMatch *NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.False(t, noMatch.HasCandidate)
	})

	t.Run("degenerate stored entries are skipped silently", func(t *testing.T) {
		mixed := []Entry{
			{UserID: uuid.New(), Name: "Zero", Embedding: make([]float64, 128)},
			{UserID: aliceID, Name: "Alice", Embedding: alice},
		}

		got, err := testMatcher(DefaultThreshold).Match(alice, mixed)

		require.NoError(t, err)
		assert.Equal(t, aliceID, got.UserID)
	})

	t.Run("degenerate query is an error", func(t *testing.T) {
		_, err := testMatcher(DefaultThreshold).Match(make([]float64, 128), gallery)
		assert.ErrorIs(t, err, ErrDegenerateEmbedding)
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		m := testMatcher(DefaultThreshold)

		first, err1 := m.Match(alice, gallery)
		second, err2 := m.Match(alice, gallery)

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
	})
}

func TestMatcher_DistanceAboveThresholdCarriesDiagnostics(t *testing.T) {
	alice := unitVector(t, "alice", 128)
	stranger := unitVector(t, "stranger", 128)

	gallery := []Entry{{UserID: uuid.New(), Name: "Alice", Embedding: alice}}

	// Two normalized uncorrelated vectors sit near sqrt(2); a tiny
	// threshold guarantees rejection.
	_, err := testMatcher(0.01).Match(stranger, gallery)

	var noMatch *NoMatchError
	require.True(t, errors.As(err, &noMatch))
	assert.True(t, noMatch.HasCandidate)
	assert.Greater(t, noMatch.BestDistance, 0.01)
}

func TestNewMatcher_DefaultsThreshold(t *testing.T) {
	m := NewMatcher(-1, nil)
	assert.InDelta(t, DefaultThreshold, m.threshold, 1e-12)

	m = NewMatcher(math.NaN(), nil)
	assert.InDelta(t, DefaultThreshold, m.threshold, 1e-12)

	// Zero is a legal cutoff, not a request for the default.
	m = NewMatcher(0, nil)
	assert.Equal(t, 0.0, m.threshold)
}

package facematch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// DefaultThreshold is the empirical distance cutoff for Facenet
// embeddings. It is specific to that embedding space and configurable
// via MATCH_THRESHOLD.
const DefaultThreshold = 1.10

// topCandidates is how many ranked candidates are logged per match for
// diagnostics.
const topCandidates = 5

// Entry is one gallery member: a user and their stored normalized
// embedding.
type Entry struct {
	UserID    uuid.UUID
	Name      string
	Embedding []float64
}

// Candidate is the winning gallery entry with its distance to the
// query. Not persisted.
type Candidate struct {
	UserID   uuid.UUID
	Name     string
	Distance float64
}

// NoMatchError reports that no gallery entry fell within the threshold.
// BestDistance carries the closest rejected distance when at least one
// comparable entry existed.
type NoMatchError struct {
	BestDistance float64
	HasCandidate bool
}

func (e *NoMatchError) Error() string {
	if e.HasCandidate {
		return fmt.Sprintf("no match within threshold (best distance %.4f)", e.BestDistance)
	}
	return "no comparable gallery entries"
}

// Matcher ranks a query embedding against a gallery of stored
// embeddings.
type Matcher struct {
	threshold float64
	logger    *slog.Logger
}

// NewMatcher builds a matcher with the given distance cutoff. A
// negative or NaN threshold falls back to DefaultThreshold; zero is a
// legal (maximally strict) cutoff that rejects every non-identical
// pair.
func NewMatcher(threshold float64, logger *slog.Logger) *Matcher {
	if threshold < 0 || math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold, logger: logger}
}

// WithThreshold returns a copy of the matcher with a different cutoff.
func (m *Matcher) WithThreshold(threshold float64) *Matcher {
	return &Matcher{threshold: threshold, logger: m.logger}
}

// Threshold reports the active distance cutoff.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match compares query against every gallery entry by Euclidean
// distance and returns the minimum-distance candidate if it falls
// within the threshold. Entries with a different dimension than the
// query, or degenerate stored vectors, are skipped without error.
// Ordering among exact ties follows gallery order; with
// continuous-valued embeddings exact ties do not occur in practice.
func (m *Matcher) Match(query []float64, gallery []Entry) (Candidate, error) {
	if !Valid(query) {
		return Candidate{}, ErrDegenerateEmbedding
	}

	candidates := make([]Candidate, 0, len(gallery))
	for _, e := range gallery {
		if len(e.Embedding) != len(query) {
			continue
		}
		if !Valid(e.Embedding) {
			continue
		}
		candidates = append(candidates, Candidate{
			UserID:   e.UserID,
			Name:     e.Name,
			Distance: floats.Distance(query, e.Embedding, 2),
		})
	}

	if len(candidates) == 0 {
		return Candidate{}, &NoMatchError{}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})

	m.logCandidates(candidates)

	best := candidates[0]
	if best.Distance > m.threshold {
		return Candidate{}, &NoMatchError{BestDistance: best.Distance, HasCandidate: true}
	}

	return best, nil
}

// logCandidates emits the ranked head of the candidate list. Purely
// diagnostic; never affects the match result.
func (m *Matcher) logCandidates(candidates []Candidate) {
	if m.logger == nil || !m.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	n := len(candidates)
	if n > topCandidates {
		n = topCandidates
	}
	attrs := make([]any, 0, n)
	for i, c := range candidates[:n] {
		attrs = append(attrs, slog.Group(fmt.Sprintf("rank_%d", i),
			slog.String("user_id", c.UserID.String()),
			slog.String("name", c.Name),
			slog.Float64("distance", c.Distance),
		))
	}
	m.logger.Debug("recognition candidates", attrs...)
}

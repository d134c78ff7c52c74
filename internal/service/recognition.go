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

type GalleryRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListEmbeddings(ctx context.Context) ([]facematch.Entry, error)
}

type AttendanceRepositoryInterface interface {
	CreateIfAbsent(ctx context.Context, userID uuid.UUID, date time.Time, login time.Time) (bool, error)
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.AttendanceRecord, error)
	Close(ctx context.Context, userID uuid.UUID, date time.Time, logout time.Time, workingHours float64) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AttendanceRecord, error)
}

type RecognitionAuditRepositoryInterface interface {
	Create(ctx context.Context, audit *domain.RecognitionAudit) error
}

// ClockResult describes the attendance transition a recognized face
// produced.
type ClockResult struct {
	UserID       uuid.UUID
	Name         string
	Action       domain.ClockAction
	Distance     float64
	WorkingHours *float64
}

// RecognitionService runs the camera-to-attendance pipeline: extract an
// embedding from the frame, match it against the gallery, and advance
// the matched user's attendance state for the day.
type RecognitionService struct {
	gallery    GalleryRepository
	attendance AttendanceRepositoryInterface
	audits     RecognitionAuditRepositoryInterface
	extractor  provider.Extractor
	matcher    *facematch.Matcher
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewRecognitionService(
	gallery GalleryRepository,
	attendance AttendanceRepositoryInterface,
	audits RecognitionAuditRepositoryInterface,
	extractor provider.Extractor,
	matcher *facematch.Matcher,
	timeout time.Duration,
	logger *slog.Logger,
) *RecognitionService {
	return &RecognitionService{
		gallery:    gallery,
		attendance: attendance,
		audits:     audits,
		extractor:  extractor,
		matcher:    matcher,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *RecognitionService) WithClock(now func() time.Time) *RecognitionService {
	s.now = now
	return s
}

// Clock processes one camera frame. A recognized face produces a login
// on the first event of the day, a logout with working hours on the
// second, and ErrAttendanceClosed on any further event. An
// unrecognized face returns *facematch.NoMatchError.
func (s *RecognitionService) Clock(ctx context.Context, image []byte) (*ClockResult, error) {
	start := s.now()

	query, err := s.embed(ctx, image)
	if err != nil {
		return nil, err
	}

	gallery, err := s.gallery.ListEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	best, err := s.matcher.Match(query, gallery)
	if err != nil {
		var noMatch *facematch.NoMatchError
		if errors.As(err, &noMatch) {
			s.logger.Info("face not recognised",
				slog.Bool("had_candidate", noMatch.HasCandidate),
				slog.Float64("best_distance", noMatch.BestDistance),
			)
			s.audit(ctx, nil, false, nil, nil, start)
			return nil, err
		}
		return nil, err
	}

	result, err := s.transition(ctx, best)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &result.UserID, true, &result.Distance, &result.Action, start)

	s.logger.Info("attendance event",
		slog.String("user_id", result.UserID.String()),
		slog.String("action", string(result.Action)),
		slog.Float64("distance", result.Distance),
	)

	return result, nil
}

// Verify compares a frame against one specific user's stored embedding
// instead of the whole gallery.
func (s *RecognitionService) Verify(ctx context.Context, email string, image []byte) (bool, float64, error) {
	user, err := s.gallery.GetByEmail(ctx, email)
	if err != nil {
		return false, 0, err
	}
	if len(user.Embedding) == 0 {
		return false, 0, domain.ErrNoEmbedding
	}

	query, err := s.embed(ctx, image)
	if err != nil {
		return false, 0, err
	}

	distance, err := facematch.Distance(query, user.Embedding)
	if err != nil {
		if errors.Is(err, facematch.ErrDimensionMismatch) {
			return false, 0, domain.ErrDimensionMismatch
		}
		return false, 0, err
	}

	// Strictly below the cutoff; a distance exactly at the threshold
	// does not verify.
	return distance < s.matcher.Threshold(), distance, nil
}

// History returns the user's attendance records, most recent first.
func (s *RecognitionService) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AttendanceRecord, error) {
	return s.attendance.ListByUser(ctx, userID, limit)
}

func (s *RecognitionService) embed(ctx context.Context, image []byte) ([]float64, error) {
	if len(image) == 0 {
		return nil, domain.ErrNoImageData
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.extractor.Represent(ctx, image)
	switch {
	case errors.Is(err, provider.ErrNoFace):
		return nil, domain.ErrNoFaceDetected
	case errors.Is(err, provider.ErrInvalidImage):
		return nil, domain.ErrInvalidImage
	case err != nil:
		return nil, domain.ErrInternal.WithError(err)
	}

	normalized, err := facematch.Normalize(raw)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	return normalized, nil
}

// transition advances the matched user's record for today. The
// repository's conditional insert and update carry the atomicity, so
// concurrent events for the same user serialize without locks here.
func (s *RecognitionService) transition(ctx context.Context, best facematch.Candidate) (*ClockResult, error) {
	now := s.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	created, err := s.attendance.CreateIfAbsent(ctx, best.UserID, date, now)
	if err != nil {
		return nil, err
	}

	if created {
		return &ClockResult{
			UserID:   best.UserID,
			Name:     best.Name,
			Action:   domain.ActionLogin,
			Distance: best.Distance,
		}, nil
	}

	record, err := s.attendance.GetByUserAndDate(ctx, best.UserID, date)
	if err != nil {
		return nil, err
	}
	if record.Closed() || record.LoginTime == nil {
		return nil, domain.ErrAttendanceClosed
	}

	hours := domain.WorkingHours(*record.LoginTime, now)
	closed, err := s.attendance.Close(ctx, best.UserID, date, now, hours)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Lost the race to another logout event.
		return nil, domain.ErrAttendanceClosed
	}

	return &ClockResult{
		UserID:       best.UserID,
		Name:         best.Name,
		Action:       domain.ActionLogout,
		Distance:     best.Distance,
		WorkingHours: &hours,
	}, nil
}

// audit records the recognition event. Best-effort: an audit failure
// never fails the attendance event it describes.
func (s *RecognitionService) audit(ctx context.Context, userID *uuid.UUID, matched bool, distance *float64, action *domain.ClockAction, start time.Time) {
	entry := &domain.RecognitionAudit{
		UserID:    userID,
		Matched:   matched,
		Distance:  distance,
		Action:    action,
		LatencyMs: s.now().Sub(start).Milliseconds(),
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		s.logger.Warn("recognition audit write failed", slog.String("error", err.Error()))
	}
}

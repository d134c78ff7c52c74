package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type RecognitionAuditRepository struct {
	pool PgxPool
}

func NewRecognitionAuditRepository(pool PgxPool) *RecognitionAuditRepository {
	return &RecognitionAuditRepository{pool: pool}
}

func (r *RecognitionAuditRepository) Create(ctx context.Context, audit *domain.RecognitionAudit) error {
	query := `
		INSERT INTO recognition_audits (id, user_id, matched, distance, action, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		audit.ID,
		audit.UserID,
		audit.Matched,
		audit.Distance,
		audit.Action,
		audit.LatencyMs,
	).Scan(&audit.CreatedAt)

	if err != nil {
		return fmt.Errorf("create recognition audit: %w", err)
	}

	return nil
}

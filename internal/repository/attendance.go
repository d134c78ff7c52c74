package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// CreateIfAbsent creates the day's record with the given login time if
// none exists yet. The (user_id, date) unique constraint plus ON
// CONFLICT DO NOTHING make this atomic: of any number of concurrent
// first events for the same user and date, exactly one creates the row.
func (r *AttendanceRepository) CreateIfAbsent(ctx context.Context, userID uuid.UUID, date time.Time, login time.Time) (bool, error) {
	query := `
		INSERT INTO attendance_records (id, user_id, date, login_time, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, date) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, uuid.New(), userID, date, login)
	if err != nil {
		return false, fmt.Errorf("create attendance record: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *AttendanceRepository) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.AttendanceRecord, error) {
	query := `
		SELECT id, user_id, date, login_time, logout_time, working_hours, created_at
		FROM attendance_records
		WHERE user_id = $1 AND date = $2
	`

	var rec domain.AttendanceRecord
	err := r.pool.QueryRow(ctx, query, userID, date).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Date,
		&rec.LoginTime,
		&rec.LogoutTime,
		&rec.WorkingHours,
		&rec.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance record: %w", err)
	}

	return &rec, nil
}

// Close sets the logout time and derived working hours on an open
// record. The logout_time IS NULL guard makes the transition atomic: a
// record can be closed at most once, and a third same-day event loses
// the race and reports false.
func (r *AttendanceRepository) Close(ctx context.Context, userID uuid.UUID, date time.Time, logout time.Time, workingHours float64) (bool, error) {
	query := `
		UPDATE attendance_records
		SET logout_time = $3, working_hours = $4
		WHERE user_id = $1 AND date = $2 AND logout_time IS NULL
	`

	result, err := r.pool.Exec(ctx, query, userID, date, logout, workingHours)
	if err != nil {
		return false, fmt.Errorf("close attendance record: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// ListByUser returns the user's attendance history, most recent first.
func (r *AttendanceRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, user_id, date, login_time, logout_time, working_hours, created_at
		FROM attendance_records
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Date,
			&rec.LoginTime,
			&rec.LogoutTime,
			&rec.WorkingHours,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}

	return records, nil
}

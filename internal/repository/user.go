package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/facematch"
)

type UserRepository struct {
	pool PgxPool
}

func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, department_id, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.DepartmentID,
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, department_id, password_hash, is_admin, embedding, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, department_id, password_hash, is_admin, embedding, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var embedding *pgvector.Vector

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.DepartmentID,
		&user.PasswordHash,
		&user.IsAdmin,
		&embedding,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Embedding = vectorToFloat64(embedding)
	return &user, nil
}

// SetEmbedding replaces the stored reference embedding for a user.
// Last-writer-wins: only one photo is authoritative per user at a time.
func (r *UserRepository) SetEmbedding(ctx context.Context, userID uuid.UUID, embedding []float64) error {
	query := `
		UPDATE users
		SET embedding = $2, updated_at = NOW()
		WHERE id = $1
	`

	vec := float64ToVector(embedding)

	result, err := r.pool.Exec(ctx, query, userID, vec)
	if err != nil {
		return fmt.Errorf("set embedding: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// ListEmbeddings returns a snapshot of the gallery: every user with a
// stored embedding. Concurrent enrollments may or may not be visible to
// an in-flight match; eventual consistency is acceptable here.
func (r *UserRepository) ListEmbeddings(ctx context.Context) ([]facematch.Entry, error) {
	query := `
		SELECT id, name, embedding
		FROM users
		WHERE embedding IS NOT NULL
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	var entries []facematch.Entry
	for rows.Next() {
		var entry facematch.Entry
		var embedding *pgvector.Vector

		if err := rows.Scan(&entry.UserID, &entry.Name, &embedding); err != nil {
			return nil, fmt.Errorf("scan gallery entry: %w", err)
		}

		entry.Embedding = vectorToFloat64(embedding)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}

	return entries, nil
}

func float64ToVector(embedding []float64) *pgvector.Vector {
	if len(embedding) == 0 {
		return nil
	}
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	vec := pgvector.NewVector(floats)
	return &vec
}

func vectorToFloat64(vec *pgvector.Vector) []float64 {
	if vec == nil || vec.Slice() == nil {
		return nil
	}
	out := make([]float64, len(vec.Slice()))
	for i, v := range vec.Slice() {
		out[i] = float64(v)
	}
	return out
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type DepartmentRepository struct {
	pool PgxPool
}

func NewDepartmentRepository(pool PgxPool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	query := `
		INSERT INTO departments (id, name, location, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`

	if dept.ID == uuid.Nil {
		dept.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query, dept.ID, dept.Name, dept.Location).Scan(&dept.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBadRequest.WithError(fmt.Errorf("department %q already exists", dept.Name))
		}
		return fmt.Errorf("create department: %w", err)
	}

	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	query := `
		SELECT id, name, location, created_at
		FROM departments
		WHERE id = $1
	`

	var dept domain.Department
	err := r.pool.QueryRow(ctx, query, id).Scan(&dept.ID, &dept.Name, &dept.Location, &dept.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get department: %w", err)
	}

	return &dept, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	query := `
		SELECT id, name, location, created_at
		FROM departments
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Location, &dept.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, dept)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	return departments, nil
}

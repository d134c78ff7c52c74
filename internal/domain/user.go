package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an enrolled person. The embedding is the L2-normalized
// reference vector computed from the most recent enrollment photo;
// nil until a photo has been enrolled.
type User struct {
	ID           uuid.UUID  `json:"user_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	Embedding    []float64  `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Department groups users for reporting purposes.
type Department struct {
	ID        uuid.UUID `json:"department_id"`
	Name      string    `json:"department_name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

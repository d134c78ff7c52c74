package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecognitionAudit records one recognition attempt against the gallery.
// Written best-effort; a failed audit write never fails the request.
type RecognitionAudit struct {
	ID        uuid.UUID    `json:"id"`
	UserID    *uuid.UUID   `json:"user_id,omitempty"`
	Matched   bool         `json:"matched"`
	Distance  *float64     `json:"distance,omitempty"`
	Action    *ClockAction `json:"action,omitempty"`
	LatencyMs int64        `json:"latency_ms"`
	CreatedAt time.Time    `json:"created_at"`
}

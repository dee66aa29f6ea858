// Package store persists analysis results keyed by the user who ran
// them. The full result is stored as a JSON document beside a few
// denormalized columns for listing.
package store

import (
	"context"
	"errors"

	"github.com/surajktr/scoresight/internal/analysis"
)

// ErrNotFound reports a lookup for an analysis that does not exist.
var ErrNotFound = errors.New("store: analysis not found")

// Record is one persisted analysis run.
type Record struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	ExamType      string          `json:"exam_type"`
	RollNumber    string          `json:"roll_number"`
	CandidateName string          `json:"candidate_name"`
	TotalScore    float64         `json:"total_score"`
	MaxScore      float64         `json:"max_score"`
	Result        analysis.Result `json:"result"`
	CreatedAt     int64           `json:"created_at"`
}

// ListEntry is the lightweight row returned by List; the full result
// document is omitted.
type ListEntry struct {
	ID            string  `json:"id"`
	ExamType      string  `json:"exam_type"`
	RollNumber    string  `json:"roll_number"`
	CandidateName string  `json:"candidate_name"`
	TotalScore    float64 `json:"total_score"`
	MaxScore      float64 `json:"max_score"`
	CreatedAt     int64   `json:"created_at"`
}

type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, userID string) ([]ListEntry, error)
	Delete(ctx context.Context, id string) error
}

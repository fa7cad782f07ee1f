// Package jobs is the job registry used by the surrounding API layer. It is
// an explicit key-value store behind an interface rather than a package-level
// singleton; the core pipeline only writes progress into whichever Store the
// caller wired.
package jobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/trailmixer/trailmixer/internal/types"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job records one pipeline invocation from submission to final output.
type Job struct {
	ID          string                `json:"job_id"`
	SourcePath  string                `json:"source_path"`
	OutputPath  string                `json:"output_path,omitempty"`
	Status      Status                `json:"status"`
	Message     string                `json:"message,omitempty"`
	Stages      []types.ProcessResult `json:"stages,omitempty"`
	Error       string                `json:"error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// NewJob creates a pending job with a fresh id.
func NewJob(sourcePath string) *Job {
	return &Job{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

// Store persists job records. Implementations must tolerate concurrent
// access from independent pipeline invocations.
type Store interface {
	Create(job *Job) error
	Get(jobID string) (*Job, error)
	Update(job *Job) error
	Delete(jobID string) error
	List() ([]*Job, error)
}

package jobs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/trailmixer/trailmixer/internal/types"
)

// MemoryStore keeps jobs in a map guarded by a mutex. It is the default
// store for single-process runs and for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (s *MemoryStore) Create(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	s.jobs[job.ID] = copyJob(job)
	return nil
}

func (s *MemoryStore) Get(jobID string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	return copyJob(job), nil
}

func (s *MemoryStore) Update(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; !exists {
		return fmt.Errorf("job %s not found", job.ID)
	}
	s.jobs[job.ID] = copyJob(job)
	return nil
}

func (s *MemoryStore) Delete(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[jobID]; !exists {
		return fmt.Errorf("job %s not found", jobID)
	}
	delete(s.jobs, jobID)
	return nil
}

func (s *MemoryStore) List() ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, copyJob(job))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// copyJob returns a deep copy so callers cannot mutate stored state.
func copyJob(job *Job) *Job {
	cp := *job
	if job.CompletedAt != nil {
		t := *job.CompletedAt
		cp.CompletedAt = &t
	}
	if job.Stages != nil {
		cp.Stages = append([]types.ProcessResult(nil), job.Stages...)
	}
	return &cp
}

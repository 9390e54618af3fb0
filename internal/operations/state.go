package operations

import (
	"sync"
	"time"

	"bankpipe/internal/dataprocessing"
	"bankpipe/pkg/contracts/domain"
)

// RunStatus is the overall status of a pipeline run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// State is the complete state of one pipeline run. Steps read their
// inputs from it and write their outputs back; accessors are safe for
// concurrent observation while a run is in flight.
type State struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	// Dataset flowing through the pipeline.
	RawRows []dataprocessing.RawRow `json:"-"`
	Records []domain.Transaction    `json:"-"`
	Valid   []domain.Transaction    `json:"-"`

	// Outcomes.
	Report         domain.ProcessingReport            `json:"report"`
	Issues         []domain.ValidationIssue           `json:"issues,omitempty"`
	AgeCorrections []domain.AgeCorrection             `json:"age_corrections,omitempty"`
	Duplicates     []domain.DuplicateRecord           `json:"duplicates,omitempty"`
	Summary        dataprocessing.ValidationSummary   `json:"summary"`

	Error error `json:"error,omitempty"`
}

// NewState creates a pending run state over the given raw rows.
func NewState(id string, rows []dataprocessing.RawRow) *State {
	return &State{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		RawRows:   rows,
		Report:    domain.ProcessingReport{TotalRawRecords: len(rows), ErrorsByType: make(map[string]int)},
	}
}

// Start marks the run as running.
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = RunStatusRunning
}

// Complete marks the run as completed.
func (s *State) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed with the given error.
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusFailed
	s.Error = err
}

// Cancel marks the run as cancelled.
func (s *State) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCancelled
}

// StepState returns the state for a step id, creating it on first use.
func (s *State) StepState(id, name string) *StepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.Steps[id]; ok {
		return st
	}
	st := NewStepState(id, name)
	s.Steps[id] = st
	return st
}

// GetStatus returns the current run status.
func (s *State) GetStatus() RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns the total run duration so far.
func (s *State) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

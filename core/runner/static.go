package runner

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Static returns the same run for every request.
type Static struct {
	// Result is returned for every request. An empty ID is filled with a new uuid.
	Result Run
	// Err, if set, is returned instead of Result.
	Err error

	mu       sync.Mutex
	requests []Request
}

// NewStatic creates a runner returning result.
func NewStatic(result Run) *Static {
	return &Static{Result: result}
}

// Run records req and returns the canned run.
func (s *Static) Run(ctx context.Context, req Request) (*Run, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := s.Result
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	return &run, nil
}

// Requests returns the requests received so far.
func (s *Static) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

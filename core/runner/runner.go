package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Type selects what is run.
type Type string

const (
	TypeActor Type = "ACTOR"
	TypeTask  Type = "TASK"
)

// ParseType parses a run type. Empty defaults to TypeActor.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeActor, "":
		return TypeActor, nil
	case TypeTask:
		return TypeTask, nil
	default:
		return "", fmt.Errorf("invalid run type %q (expected ACTOR or TASK)", s)
	}
}

// Run statuses.
const (
	StatusReady     = "READY"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusTimingOut = "TIMING-OUT"
	StatusTimedOut  = "TIMED-OUT"
	StatusAborting  = "ABORTING"
	StatusAborted   = "ABORTED"
)

// IsTerminal reports whether a run with this status has finished.
func IsTerminal(status string) bool {
	switch status {
	case StatusSucceeded, StatusFailed, StatusTimedOut, StatusAborted:
		return true
	}
	return false
}

// Request describes the run to start.
type Request struct {
	// Type is ACTOR or TASK.
	Type Type `json:"type"`
	// ID is the actor or task id, either "abc123" or "user/name".
	ID string `json:"id"`
	// Build is the optional build tag or number.
	Build string `json:"build,omitempty"`
	// Input is passed to the run as its JSON input.
	Input json.RawMessage `json:"input,omitempty"`
}

// Run is the state of a started run.
type Run struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	StatusMessage    string `json:"statusMessage,omitempty"`
	DefaultDatasetID string `json:"defaultDatasetId,omitempty"`
}

// Succeeded reports whether the run finished successfully.
func (r *Run) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}

// Runner starts a run and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, req Request) (*Run, error)
}

package domain

import (
	"fmt"
	"time"
)

// JobState is a crawl job lifecycle state.
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobRetrying  JobState = "retrying"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// ValidateTransition checks whether a job state transition is allowed.
func ValidateTransition(from, to JobState) error {
	allowed := map[JobState][]JobState{
		JobPending:   {JobRunning, JobFailed},
		JobRunning:   {JobRetrying, JobCompleted, JobFailed},
		JobRetrying:  {JobRunning, JobFailed},
		JobCompleted: {},
		JobFailed:    {},
	}

	states, ok := allowed[from]
	if !ok {
		return fmt.Errorf("unknown job state %q", from)
	}
	for _, s := range states {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("invalid job transition %s -> %s", from, to)
}

// IsTerminal reports whether a state admits no further transitions.
func (s JobState) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobResult accumulates per-item and per-page outcomes of a crawl job.
type JobResult struct {
	Success   int
	Failed    int
	Duplicate int
	Skipped   int
}

// CrawlJob tracks a single per-source crawl. Created by the orchestrator on
// dispatch and mutated only by it.
type CrawlJob struct {
	ID        string
	SourceID  string
	Keywords  []string
	MaxPages  int
	State     JobState
	Result    JobResult
	Error     string
	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time
}

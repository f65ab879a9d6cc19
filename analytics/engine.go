// Package analytics derives the dashboard metrics for a project from
// its raw event stream: active users, online users, sessions, churn,
// engagement, week-over-week growth, and sparkline time series. The
// engine is a pure read-side computation; it never writes events.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Event names with reserved meaning.
const (
	EventSessionStart = "session_start"
	EventHeartbeat    = "heartbeat"
)

// Event is a single tracked occurrence as returned by the event
// source. An empty UserID means no actor was attached; such events are
// excluded from every user-counting metric.
type Event struct {
	UserID    string
	Name      string
	Timestamp time.Time
}

// Query scopes one event-source lookup. A zero Window bound leaves
// that side open, so the zero Window selects the project's full
// history.
type Query struct {
	ProjectID   string
	Window      Window
	EventName   string // optional exact-name filter
	RequireUser bool   // drop events with no user attached
}

// EventSource is the only dependency the engine has on storage. The
// engine issues range queries against it and never mutates it.
type EventSource interface {
	QueryEvents(ctx context.Context, q Query) ([]Event, error)
}

// ErrInvalidArgument marks a caller contract violation. It is raised
// synchronously, before any query is issued.
var ErrInvalidArgument = errors.New("invalid argument")

// RetrievalError reports that the event source could not be reached or
// returned a fault. It always surfaces to the caller; a failed
// retrieval is never converted into a zero-valued metric, which would
// read as false 100% churn or 0% engagement on a dashboard.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("event retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Engine computes on-demand metric snapshots for a single event
// source. It holds no mutable state, so one Engine is safe for
// concurrent use across any number of projects.
type Engine struct {
	source EventSource
}

func NewEngine(source EventSource) *Engine {
	return &Engine{source: source}
}

func (e *Engine) query(ctx context.Context, q Query) ([]Event, error) {
	events, err := e.source.QueryEvents(ctx, q)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	return events, nil
}

func checkProjectID(projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return fmt.Errorf("%w: project id is required", ErrInvalidArgument)
	}
	return nil
}

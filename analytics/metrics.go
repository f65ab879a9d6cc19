package analytics

import (
	"context"
	"fmt"
	"time"
)

// Window sizes used by the headline metrics.
const (
	DefaultActiveHours = 24
	EngagementHours    = 168
	OnlineWindow       = time.Minute
	WeekWindow         = 7 * 24 * time.Hour
)

// ActiveUsers counts the distinct users with at least one event in the
// last hours hours before now.
func (e *Engine) ActiveUsers(ctx context.Context, projectID string, hours int, now time.Time) (int, error) {
	if err := checkProjectID(projectID); err != nil {
		return 0, err
	}
	if hours <= 0 {
		return 0, fmt.Errorf("%w: hours must be positive, got %d", ErrInvalidArgument, hours)
	}
	events, err := e.query(ctx, Query{
		ProjectID:   projectID,
		Window:      LastHours(now, hours),
		RequireUser: true,
	})
	if err != nil {
		return 0, err
	}
	return CountDistinctUsers(events), nil
}

// UsersOnline counts the distinct users that sent a heartbeat event in
// the last 60 seconds before now.
func (e *Engine) UsersOnline(ctx context.Context, projectID string, now time.Time) (int, error) {
	if err := checkProjectID(projectID); err != nil {
		return 0, err
	}
	events, err := e.query(ctx, Query{
		ProjectID:   projectID,
		Window:      LastDuration(now, OnlineWindow),
		EventName:   EventHeartbeat,
		RequireUser: true,
	})
	if err != nil {
		return 0, err
	}
	return CountDistinctUsers(events), nil
}

// Sessions counts session_start events in the last hours hours before
// now. Every occurrence counts; this is an event-count metric, not a
// user count.
func (e *Engine) Sessions(ctx context.Context, projectID string, hours int, now time.Time) (int, error) {
	if err := checkProjectID(projectID); err != nil {
		return 0, err
	}
	if hours <= 0 {
		return 0, fmt.Errorf("%w: hours must be positive, got %d", ErrInvalidArgument, hours)
	}
	events, err := e.query(ctx, Query{
		ProjectID: projectID,
		Window:    LastHours(now, hours),
		EventName: EventSessionStart,
	})
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

// AllTimeUsers counts the distinct users across the project's entire
// recorded history.
func (e *Engine) AllTimeUsers(ctx context.Context, projectID string) (int, error) {
	if err := checkProjectID(projectID); err != nil {
		return 0, err
	}
	events, err := e.query(ctx, Query{
		ProjectID:   projectID,
		RequireUser: true,
	})
	if err != nil {
		return 0, err
	}
	return CountDistinctUsers(events), nil
}

// ChurnRate is weekly churn: the percentage of users active in
// [now-14d, now-7d) with no event in [now-7d, now). A user with no
// prior-week activity cannot churn, so a project with an empty prior
// week churns 0.
func (e *Engine) ChurnRate(ctx context.Context, projectID string, now time.Time) (float64, error) {
	if err := checkProjectID(projectID); err != nil {
		return 0, err
	}
	currWin, prevWin := CurrentVsPrevious(now, WeekWindow)
	prevEvents, err := e.query(ctx, Query{ProjectID: projectID, Window: prevWin, RequireUser: true})
	if err != nil {
		return 0, err
	}
	currEvents, err := e.query(ctx, Query{ProjectID: projectID, Window: currWin, RequireUser: true})
	if err != nil {
		return 0, err
	}
	return churnBetween(DistinctUsers(prevEvents), DistinctUsers(currEvents)), nil
}

// EngagementRate is the percentage of all-time users active in the
// last 168 hours before now. A project with no users engages 0.
func (e *Engine) EngagementRate(ctx context.Context, projectID string, now time.Time) (float64, error) {
	if err := checkProjectID(projectID); err != nil {
		return 0, err
	}
	activeEvents, err := e.query(ctx, Query{
		ProjectID:   projectID,
		Window:      LastHours(now, EngagementHours),
		RequireUser: true,
	})
	if err != nil {
		return 0, err
	}
	allEvents, err := e.query(ctx, Query{ProjectID: projectID, RequireUser: true})
	if err != nil {
		return 0, err
	}
	allTime := CountDistinctUsers(allEvents)
	if allTime == 0 {
		return 0, nil
	}
	return round2(100 * float64(CountDistinctUsers(activeEvents)) / float64(allTime)), nil
}

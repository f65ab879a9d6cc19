package analytics

import (
	"context"
	"fmt"
	"time"
)

// SeriesMetric selects the per-bucket aggregation for a time series.
type SeriesMetric string

const (
	SeriesActiveUsers SeriesMetric = "active_users"
	SeriesSessions    SeriesMetric = "sessions"
	SeriesChurn       SeriesMetric = "churn"
)

// Interval selects the bucket width for a time series.
type Interval string

const (
	IntervalDay  Interval = "day"
	IntervalHour Interval = "hour"
)

// DefaultSparklineBuckets is the horizon the dashboard sparklines
// render: one point per day for two weeks.
const DefaultSparklineBuckets = 14

// Point is one bucket of a time series, stamped with the bucket start.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series produces one point per bucket over the trailing horizon
// ending at now. The full horizon is fetched in a single query and
// partitioned in memory, so every bucket is computed from the same
// snapshot of the event set and storage is hit once instead of once
// per bucket.
//
// The churn series fetches one extra lookback bucket: each bucket is
// compared against the bucket immediately before it. That is a
// deliberately finer granularity than the weekly headline churn rate.
func (e *Engine) Series(ctx context.Context, projectID string, metric SeriesMetric, interval Interval, buckets int, now time.Time) ([]Point, error) {
	if err := checkProjectID(projectID); err != nil {
		return nil, err
	}
	if buckets <= 0 {
		return nil, fmt.Errorf("%w: bucket count must be positive, got %d", ErrInvalidArgument, buckets)
	}

	lookback := 0
	if metric == SeriesChurn {
		lookback = 1
	}

	var windows []Window
	switch interval {
	case IntervalDay:
		windows = DailyBuckets(now, buckets+lookback)
	case IntervalHour:
		windows = HourlyBuckets(now, buckets+lookback)
	default:
		return nil, fmt.Errorf("%w: unknown interval %q", ErrInvalidArgument, interval)
	}

	q := Query{
		ProjectID: projectID,
		Window:    Window{Start: windows[0].Start, End: windows[len(windows)-1].End},
	}
	switch metric {
	case SeriesSessions:
		q.EventName = EventSessionStart
	case SeriesActiveUsers, SeriesChurn:
		q.RequireUser = true
	default:
		return nil, fmt.Errorf("%w: unknown series metric %q", ErrInvalidArgument, metric)
	}

	events, err := e.query(ctx, q)
	if err != nil {
		return nil, err
	}

	parts := make([][]Event, len(windows))
	for _, ev := range events {
		for i, w := range windows {
			if w.Contains(ev.Timestamp) {
				parts[i] = append(parts[i], ev)
				break
			}
		}
	}

	points := make([]Point, 0, buckets)
	for i := lookback; i < len(windows); i++ {
		var value float64
		switch metric {
		case SeriesActiveUsers:
			value = float64(CountDistinctUsers(parts[i]))
		case SeriesSessions:
			value = float64(len(parts[i]))
		case SeriesChurn:
			value = churnBetween(DistinctUsers(parts[i-1]), DistinctUsers(parts[i]))
		}
		points = append(points, Point{Timestamp: windows[i].Start, Value: value})
	}
	return points, nil
}

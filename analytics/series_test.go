package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturelab/api/analytics"
)

func TestSeriesEmptyProject(t *testing.T) {
	engine, src := newEngine()

	points, err := engine.Series(context.Background(), "proj-1", analytics.SeriesActiveUsers, analytics.IntervalDay, 14, testNow)
	require.NoError(t, err)
	require.Len(t, points, 14)
	for i, p := range points {
		assert.Zero(t, p.Value, "bucket %d", i)
	}
	assert.Equal(t, 1, src.calls)
}

func TestSeriesSessionsSumMatchesTotal(t *testing.T) {
	day := 24 * time.Hour
	var events []analytics.Event
	// Scatter sessions through the horizon, plus decoys that must not
	// count: a non-session event and a session before the horizon.
	for _, age := range []time.Duration{2 * time.Hour, 26 * time.Hour, 27 * time.Hour, 5 * day, 13 * day} {
		events = append(events, analytics.Event{UserID: "u1", Name: "session_start", Timestamp: testNow.Add(-age)})
	}
	events = append(events,
		analytics.Event{UserID: "u1", Name: "page_view", Timestamp: testNow.Add(-2 * time.Hour)},
		analytics.Event{UserID: "u1", Name: "session_start", Timestamp: testNow.Add(-20 * day)},
	)

	engine, src := newEngine(events...)
	points, err := engine.Series(context.Background(), "proj-1", analytics.SeriesSessions, analytics.IntervalDay, 14, testNow)
	require.NoError(t, err)
	require.Len(t, points, 14)

	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	assert.Equal(t, 5.0, sum, "bucket values must sum to the horizon total")
	assert.Equal(t, 1, src.calls, "the whole horizon is fetched in one query")
}

func TestSeriesActiveUsersDaily(t *testing.T) {
	today := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	engine, _ := newEngine(
		analytics.Event{UserID: "u1", Name: "page_view", Timestamp: today.Add(3 * time.Hour)},
		analytics.Event{UserID: "u1", Name: "click", Timestamp: today.Add(4 * time.Hour)},
		analytics.Event{UserID: "u2", Name: "page_view", Timestamp: today.Add(5 * time.Hour)},
		analytics.Event{UserID: "", Name: "page_view", Timestamp: today.Add(5 * time.Hour)},
		analytics.Event{UserID: "u3", Name: "page_view", Timestamp: today.AddDate(0, 0, -1).Add(time.Hour)},
	)

	points, err := engine.Series(context.Background(), "proj-1", analytics.SeriesActiveUsers, analytics.IntervalDay, 14, testNow)
	require.NoError(t, err)
	require.Len(t, points, 14)

	assert.Equal(t, 2.0, points[13].Value, "today: u1 and u2, anonymous ignored")
	assert.Equal(t, 1.0, points[12].Value, "yesterday: u3")
	assert.Equal(t, today, points[13].Timestamp)
	assert.Equal(t, today.AddDate(0, 0, -1), points[12].Timestamp)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].Timestamp.Before(points[i].Timestamp), "points must be ordered oldest first")
	}
}

func TestSeriesChurnUsesLookbackBucket(t *testing.T) {
	today := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	engine, src := newEngine(
		// Two days ago: u1 and u2. Yesterday: only u1. Today: nobody.
		analytics.Event{UserID: "u1", Name: "page_view", Timestamp: today.AddDate(0, 0, -2).Add(time.Hour)},
		analytics.Event{UserID: "u2", Name: "page_view", Timestamp: today.AddDate(0, 0, -2).Add(time.Hour)},
		analytics.Event{UserID: "u1", Name: "page_view", Timestamp: today.AddDate(0, 0, -1).Add(time.Hour)},
	)

	points, err := engine.Series(context.Background(), "proj-1", analytics.SeriesChurn, analytics.IntervalDay, 3, testNow)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 50.0, points[1].Value, "u2 vanished between -2d and -1d")
	assert.Equal(t, 100.0, points[2].Value, "u1 vanished between -1d and today")
	assert.Zero(t, points[0].Value, "empty preceding bucket churns zero")

	// Lookback bucket is part of the same single query.
	require.Equal(t, 1, src.calls)
	horizon := src.queries[0].Window
	assert.Equal(t, today.AddDate(0, 0, -3), horizon.Start, "one extra bucket of lookback")
}

func TestSeriesHourly(t *testing.T) {
	hourStart := testNow.Truncate(time.Hour)
	engine, _ := newEngine(
		analytics.Event{UserID: "u1", Name: "session_start", Timestamp: hourStart.Add(time.Minute)},
		analytics.Event{UserID: "u2", Name: "session_start", Timestamp: hourStart.Add(-30 * time.Minute)},
	)

	points, err := engine.Series(context.Background(), "proj-1", analytics.SeriesSessions, analytics.IntervalHour, 24, testNow)
	require.NoError(t, err)
	require.Len(t, points, 24)

	assert.Equal(t, 1.0, points[23].Value)
	assert.Equal(t, 1.0, points[22].Value)
	assert.Equal(t, hourStart, points[23].Timestamp)
}

func TestSeriesInvalidArguments(t *testing.T) {
	engine, src := newEngine()
	ctx := context.Background()

	_, err := engine.Series(ctx, "", analytics.SeriesSessions, analytics.IntervalDay, 14, testNow)
	assert.ErrorIs(t, err, analytics.ErrInvalidArgument)

	_, err = engine.Series(ctx, "proj-1", analytics.SeriesSessions, analytics.IntervalDay, 0, testNow)
	assert.ErrorIs(t, err, analytics.ErrInvalidArgument)

	_, err = engine.Series(ctx, "proj-1", analytics.SeriesSessions, "fortnight", 14, testNow)
	assert.ErrorIs(t, err, analytics.ErrInvalidArgument)

	_, err = engine.Series(ctx, "proj-1", "revenue", analytics.IntervalDay, 14, testNow)
	assert.ErrorIs(t, err, analytics.ErrInvalidArgument)

	assert.Zero(t, src.calls)
}

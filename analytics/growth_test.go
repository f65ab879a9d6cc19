package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturelab/api/analytics"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"flat zero", 0, 0, 0},
		{"appears from zero baseline", 5, 0, 100},
		{"unchanged", 42, 42, 0},
		{"half again", 150, 100, 50},
		{"halved", 50, 100, -50},
		{"rounded to two decimals", 1, 3, -66.67},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, analytics.PercentChange(tc.current, tc.previous))
		})
	}
}

// Events u1@-2d, u2@-2d, u1@-9d: one prior-week active user, two in
// the current week, a full positive swing.
func TestGrowthActiveUsersWeekOverWeek(t *testing.T) {
	day := 24 * time.Hour
	engine, _ := newEngine(
		analytics.Event{UserID: "u1", Name: "page_view", Timestamp: testNow.Add(-2 * day)},
		analytics.Event{UserID: "u2", Name: "page_view", Timestamp: testNow.Add(-2 * day)},
		analytics.Event{UserID: "u1", Name: "page_view", Timestamp: testNow.Add(-9 * day)},
	)

	activeUsers := func(ctx context.Context, ref time.Time) (float64, error) {
		n, err := engine.ActiveUsers(ctx, "proj-1", analytics.EngagementHours, ref)
		return float64(n), err
	}

	growth, err := analytics.Growth(context.Background(), activeUsers, testNow)
	require.NoError(t, err)
	assert.Equal(t, 100.0, growth)
}

// A metric appearing from an empty prior week is reported as a full
// positive swing rather than an undefined ratio.
func TestGrowthZeroBaseline(t *testing.T) {
	day := 24 * time.Hour
	engine, _ := newEngine(
		analytics.Event{UserID: "u1", Name: "session_start", Timestamp: testNow.Add(-2 * day)},
		analytics.Event{UserID: "u2", Name: "session_start", Timestamp: testNow.Add(-3 * day)},
	)

	sessions := func(ctx context.Context, ref time.Time) (float64, error) {
		n, err := engine.Sessions(ctx, "proj-1", analytics.EngagementHours, ref)
		return float64(n), err
	}

	growth, err := analytics.Growth(context.Background(), sessions, testNow)
	require.NoError(t, err)
	assert.Equal(t, 100.0, growth)
}

func TestGrowthSessions(t *testing.T) {
	day := 24 * time.Hour
	engine, _ := newEngine(
		analytics.Event{UserID: "u1", Name: "session_start", Timestamp: testNow.Add(-1 * day)},
		analytics.Event{UserID: "u1", Name: "session_start", Timestamp: testNow.Add(-2 * day)},
		analytics.Event{UserID: "u2", Name: "session_start", Timestamp: testNow.Add(-3 * day)},
		analytics.Event{UserID: "u1", Name: "session_start", Timestamp: testNow.Add(-8 * day)},
		analytics.Event{UserID: "u2", Name: "session_start", Timestamp: testNow.Add(-9 * day)},
	)

	sessions := func(ctx context.Context, ref time.Time) (float64, error) {
		n, err := engine.Sessions(ctx, "proj-1", analytics.EngagementHours, ref)
		return float64(n), err
	}

	growth, err := analytics.Growth(context.Background(), sessions, testNow)
	require.NoError(t, err)
	assert.Equal(t, 50.0, growth, "3 sessions vs 2 the week before")
}

// Churn growth re-derives the churn sub-windows from the shifted
// reference instant instead of shifting the final ratio.
func TestGrowthChurnReanchorsSubWindows(t *testing.T) {
	day := 24 * time.Hour
	engine, src := newEngine(
		analytics.Event{UserID: "u1", Timestamp: testNow.Add(-16 * day)},
		analytics.Event{UserID: "u2", Timestamp: testNow.Add(-16 * day)},
		analytics.Event{UserID: "u1", Timestamp: testNow.Add(-9 * day)},
		analytics.Event{UserID: "u1", Timestamp: testNow.Add(-2 * day)},
	)

	churn := func(ctx context.Context, ref time.Time) (float64, error) {
		return engine.ChurnRate(ctx, "proj-1", ref)
	}

	growth, err := analytics.Growth(context.Background(), churn, testNow)
	require.NoError(t, err)
	// Current churn 0 (u1 retained week over week); previous reference
	// saw {u1,u2} -> {u1}, churn 50. Change: -100%.
	assert.Equal(t, -100.0, growth)

	// Two windows per churn evaluation, two evaluations.
	assert.Equal(t, 4, src.calls)
}

func TestGrowthPropagatesErrors(t *testing.T) {
	src := &fakeSource{err: context.DeadlineExceeded}
	engine := analytics.NewEngine(src)

	metric := func(ctx context.Context, ref time.Time) (float64, error) {
		return engine.EngagementRate(ctx, "proj-1", ref)
	}

	_, err := analytics.Growth(context.Background(), metric, testNow)
	var re *analytics.RetrievalError
	assert.ErrorAs(t, err, &re)
}

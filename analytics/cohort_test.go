package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"venturelab/api/analytics"
)

func TestDistinctUsers(t *testing.T) {
	events := []analytics.Event{
		{UserID: "u1", Name: "page_view", Timestamp: testNow},
		{UserID: "u1", Name: "click", Timestamp: testNow},
		{UserID: "u2", Name: "page_view", Timestamp: testNow},
		{UserID: "", Name: "page_view", Timestamp: testNow}, // anonymous
	}

	set := analytics.DistinctUsers(events)
	assert.Equal(t, analytics.UserSet{"u1": {}, "u2": {}}, set)
	assert.Equal(t, 2, analytics.CountDistinctUsers(events))
}

func TestDistinctUsersEmpty(t *testing.T) {
	assert.Empty(t, analytics.DistinctUsers(nil))
	assert.Zero(t, analytics.CountDistinctUsers(nil))
}

func TestRetained(t *testing.T) {
	a := analytics.UserSet{"u1": {}, "u2": {}, "u3": {}}
	b := analytics.UserSet{"u2": {}, "u3": {}, "u4": {}}

	assert.Equal(t, analytics.UserSet{"u2": {}, "u3": {}}, analytics.Retained(a, b))
}

func TestChurned(t *testing.T) {
	a := analytics.UserSet{"u1": {}, "u2": {}, "u3": {}}
	b := analytics.UserSet{"u2": {}}

	assert.Equal(t, analytics.UserSet{"u1": {}, "u3": {}}, analytics.Churned(a, b))
	assert.Empty(t, analytics.Churned(analytics.UserSet{}, b))
}

// Widening a window can only grow the distinct-user count.
func TestCountDistinctUsersMonotonicInWindow(t *testing.T) {
	events := []analytics.Event{
		{UserID: "u1", Timestamp: testNow.Add(-1 * time.Hour)},
		{UserID: "u2", Timestamp: testNow.Add(-30 * time.Hour)},
		{UserID: "u3", Timestamp: testNow.Add(-100 * time.Hour)},
	}

	prev := -1
	for _, hours := range []int{1, 2, 24, 48, 168} {
		w := analytics.LastHours(testNow, hours)
		var inside []analytics.Event
		for _, ev := range events {
			if w.Contains(ev.Timestamp) {
				inside = append(inside, ev)
			}
		}
		count := analytics.CountDistinctUsers(inside)
		assert.GreaterOrEqual(t, count, prev, "count must not shrink at %dh", hours)
		prev = count
	}
}

package analytics

import "math"

// UserSet is an ephemeral cohort of distinct user ids. Cohorts are
// computed, compared, and discarded; they are never persisted.
type UserSet map[string]struct{}

// DistinctUsers collects the distinct non-empty user ids in events.
func DistinctUsers(events []Event) UserSet {
	set := make(UserSet)
	for _, ev := range events {
		if ev.UserID == "" {
			continue
		}
		set[ev.UserID] = struct{}{}
	}
	return set
}

// CountDistinctUsers returns |DistinctUsers(events)|.
func CountDistinctUsers(events []Event) int {
	return len(DistinctUsers(events))
}

// Retained returns the users present in both a and b.
func Retained(a, b UserSet) UserSet {
	out := make(UserSet)
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Churned returns the users in a that are absent from b: present
// earlier, silent later.
func Churned(a, b UserSet) UserSet {
	out := make(UserSet)
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// churnBetween is the ratio shared by the headline churn metric and
// the per-bucket churn series: the percentage of the earlier cohort
// missing from the later one. An empty earlier cohort churns exactly
// 0, never NaN.
func churnBetween(earlier, later UserSet) float64 {
	if len(earlier) == 0 {
		return 0
	}
	return round2(100 * float64(len(Churned(earlier, later))) / float64(len(earlier)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package analytics

import (
	"context"
	"time"
)

// GrowthWindow is the comparison span for week-over-week trends.
const GrowthWindow = 7 * 24 * time.Hour

// MetricFunc is any metric evaluated at a reference instant. Growth
// treats the metric as opaque: ratio metrics like churn and engagement
// re-derive their own internal windows from the shifted reference
// instant rather than having their final value shifted after the fact.
type MetricFunc func(ctx context.Context, ref time.Time) (float64, error)

// Growth reports the signed percentage change of metric between the
// week ending at now and the week before it.
func Growth(ctx context.Context, metric MetricFunc, now time.Time) (float64, error) {
	current, err := metric(ctx, now)
	if err != nil {
		return 0, err
	}
	previous, err := metric(ctx, now.Add(-GrowthWindow))
	if err != nil {
		return 0, err
	}
	return PercentChange(current, previous), nil
}

// PercentChange applies the zero-baseline rule: a metric appearing
// from a zero baseline reads as a full positive swing of 100, and a
// flat zero reads as 0. Otherwise the change is the usual signed
// percentage of the previous value.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2(100 * (current - previous) / previous)
}

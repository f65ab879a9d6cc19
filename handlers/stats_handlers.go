package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"venturelab/api/analytics"
	"venturelab/api/store"
	"venturelab/api/utils"
)

type StatsHandlers struct {
	Engine       *analytics.Engine
	ProjectStore *store.ProjectStore
}

func NewStatsHandlers(engine *analytics.Engine, projectStore *store.ProjectStore) *StatsHandlers {
	return &StatsHandlers{Engine: engine, ProjectStore: projectStore}
}

// resolveRequest validates the projectId query parameter against the
// caller's projects and parses the optional ?at= reference instant.
// The reference is captured once here so a whole dashboard load shares
// one instant even if wall-clock time advances during computation.
func (h *StatsHandlers) resolveRequest(c *gin.Context) (projectID string, now time.Time, ok bool) {
	projectID = c.Query("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId query parameter is required"})
		return "", time.Time{}, false
	}

	project, err := h.ProjectStore.GetProject(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return "", time.Time{}, false
		}
		log.Printf("Error resolving project %s: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve project"})
		return "", time.Time{}, false
	}
	if ownerID, exists := c.Get("user_id"); exists && project.OwnerID != ownerID.(int) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return "", time.Time{}, false
	}

	now, err = utils.ParseTimeParam(c.Query("at"), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", time.Time{}, false
	}

	return projectID, now, true
}

// respondError maps engine errors onto HTTP statuses. A retrieval
// failure is reported as a bad gateway, never as a zero-valued metric.
func respondError(c *gin.Context, err error, what string) {
	var re *analytics.RetrievalError
	switch {
	case errors.Is(err, analytics.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &re):
		log.Printf("Event store retrieval failed while computing %s: %v", what, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve " + what})
	default:
		log.Printf("Error computing %s: %v", what, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute " + what})
	}
}

func (h *StatsHandlers) GetActiveUsers(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}
	hours, err := utils.ParsePositiveInt(c.Query("hours"), analytics.DefaultActiveHours)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := h.Engine.ActiveUsers(ctx, projectID, hours, now)
	if err != nil {
		respondError(c, err, "active users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "hours": hours, "activeUsers": count})
}

func (h *StatsHandlers) GetUsersOnline(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := h.Engine.UsersOnline(ctx, projectID, now)
	if err != nil {
		respondError(c, err, "users online")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "usersOnline": count})
}

func (h *StatsHandlers) GetSessions(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}
	hours, err := utils.ParsePositiveInt(c.Query("hours"), analytics.DefaultActiveHours)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := h.Engine.Sessions(ctx, projectID, hours, now)
	if err != nil {
		respondError(c, err, "sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "hours": hours, "sessions": count})
}

func (h *StatsHandlers) GetAllTimeUsers(c *gin.Context) {
	projectID, _, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := h.Engine.AllTimeUsers(ctx, projectID)
	if err != nil {
		respondError(c, err, "all-time users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "allTimeUsers": count})
}

func (h *StatsHandlers) GetChurnRate(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	rate, err := h.Engine.ChurnRate(ctx, projectID, now)
	if err != nil {
		respondError(c, err, "churn rate")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "churnRate": rate})
}

func (h *StatsHandlers) GetEngagementRate(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	rate, err := h.Engine.EngagementRate(ctx, projectID, now)
	if err != nil {
		respondError(c, err, "engagement rate")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "engagementRate": rate})
}

// metricByName builds the opaque metric the growth comparator shifts
// across reference instants. Count metrics use the trailing 7-day
// window; ratio metrics re-derive their own sub-windows internally.
func (h *StatsHandlers) metricByName(projectID, name string) (analytics.MetricFunc, error) {
	switch name {
	case "active_users":
		return func(ctx context.Context, ref time.Time) (float64, error) {
			n, err := h.Engine.ActiveUsers(ctx, projectID, analytics.EngagementHours, ref)
			return float64(n), err
		}, nil
	case "sessions":
		return func(ctx context.Context, ref time.Time) (float64, error) {
			n, err := h.Engine.Sessions(ctx, projectID, analytics.EngagementHours, ref)
			return float64(n), err
		}, nil
	case "churn":
		return func(ctx context.Context, ref time.Time) (float64, error) {
			return h.Engine.ChurnRate(ctx, projectID, ref)
		}, nil
	case "engagement":
		return func(ctx context.Context, ref time.Time) (float64, error) {
			return h.Engine.EngagementRate(ctx, projectID, ref)
		}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q, expected active_users, sessions, churn, or engagement", name)
	}
}

func (h *StatsHandlers) GetGrowth(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	name := c.Query("metric")
	metric, err := h.metricByName(projectID, name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	growth, err := analytics.Growth(ctx, metric, now)
	if err != nil {
		respondError(c, err, "growth")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "metric": name, "growth": growth})
}

func (h *StatsHandlers) GetSeries(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	metric := analytics.SeriesMetric(c.DefaultQuery("metric", string(analytics.SeriesActiveUsers)))
	interval := analytics.Interval(c.DefaultQuery("interval", string(analytics.IntervalDay)))
	buckets, err := utils.ParsePositiveInt(c.Query("buckets"), analytics.DefaultSparklineBuckets)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	points, err := h.Engine.Series(ctx, projectID, metric, interval, buckets, now)
	if err != nil {
		respondError(c, err, "time series")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projectId": projectID,
		"metric":    metric,
		"interval":  interval,
		"points":    points,
	})
}

// GetDashboard computes the full widget set for one dashboard load.
// The metrics are independent and side-effect-free, so they fan out
// concurrently and join before responding.
func (h *StatsHandlers) GetDashboard(c *gin.Context) {
	projectID, now, ok := h.resolveRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var (
		activeUsers, usersOnline, sessions, allTimeUsers int
		churnRate, engagementRate                        float64
		activeGrowth, sessionsGrowth                     float64
		activeSeries, sessionSeries                      []analytics.Point
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activeUsers, err = h.Engine.ActiveUsers(gctx, projectID, analytics.DefaultActiveHours, now)
		return err
	})
	g.Go(func() error {
		var err error
		usersOnline, err = h.Engine.UsersOnline(gctx, projectID, now)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = h.Engine.Sessions(gctx, projectID, analytics.DefaultActiveHours, now)
		return err
	})
	g.Go(func() error {
		var err error
		allTimeUsers, err = h.Engine.AllTimeUsers(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		churnRate, err = h.Engine.ChurnRate(gctx, projectID, now)
		return err
	})
	g.Go(func() error {
		var err error
		engagementRate, err = h.Engine.EngagementRate(gctx, projectID, now)
		return err
	})
	g.Go(func() error {
		metric, _ := h.metricByName(projectID, "active_users")
		var err error
		activeGrowth, err = analytics.Growth(gctx, metric, now)
		return err
	})
	g.Go(func() error {
		metric, _ := h.metricByName(projectID, "sessions")
		var err error
		sessionsGrowth, err = analytics.Growth(gctx, metric, now)
		return err
	})
	g.Go(func() error {
		var err error
		activeSeries, err = h.Engine.Series(gctx, projectID, analytics.SeriesActiveUsers, analytics.IntervalDay, analytics.DefaultSparklineBuckets, now)
		return err
	})
	g.Go(func() error {
		var err error
		sessionSeries, err = h.Engine.Series(gctx, projectID, analytics.SeriesSessions, analytics.IntervalDay, analytics.DefaultSparklineBuckets, now)
		return err
	})

	if err := g.Wait(); err != nil {
		respondError(c, err, "dashboard metrics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projectId":      projectID,
		"at":             now.Format(time.RFC3339),
		"activeUsers":    activeUsers,
		"usersOnline":    usersOnline,
		"sessions":       sessions,
		"allTimeUsers":   allTimeUsers,
		"churnRate":      churnRate,
		"engagementRate": engagementRate,
		"growth": gin.H{
			"activeUsers": activeGrowth,
			"sessions":    sessionsGrowth,
		},
		"sparklines": gin.H{
			"activeUsers": activeSeries,
			"sessions":    sessionSeries,
		},
	})
}

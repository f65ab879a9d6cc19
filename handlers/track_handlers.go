package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"venturelab/api/models"
	"venturelab/api/store"
)

type TrackHandlers struct {
	EventStore   *store.EventStore
	ProjectStore *store.ProjectStore
}

func NewTrackHandlers(eventStore *store.EventStore, projectStore *store.ProjectStore) *TrackHandlers {
	return &TrackHandlers{EventStore: eventStore, ProjectStore: projectStore}
}

// TrackEvents ingests a batch of events for one project. Event ids are
// assigned server-side; a missing timestamp defaults to receipt time.
func (h *TrackHandlers) TrackEvents(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming track payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Events) == 0 {
		c.Status(http.StatusOK)
		return
	}

	if _, err := h.ProjectStore.GetProject(c.Request.Context(), req.ProjectID); err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Printf("Error resolving project %s for track payload: %v", req.ProjectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record events"})
		return
	}

	now := time.Now().UTC()
	events := make([]models.TrackedEvent, 0, len(req.Events))
	for _, event := range req.Events {
		event.EventID = uuid.New().String()
		event.ProjectID = req.ProjectID
		if event.Timestamp.IsZero() {
			event.Timestamp = now
		}
		events = append(events, event)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.EventStore.InsertEvents(ctx, events); err != nil {
		log.Printf("Error inserting events into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record events"})
		return
	}

	c.Status(http.StatusOK)
}

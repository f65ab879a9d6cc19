package models

import (
	"encoding/json"
	"time"
)

// TrackedEvent is one analytics event as accepted by the ingest
// endpoint and stored in ClickHouse. UserID may be empty for anonymous
// events; the engine excludes those from user-counting metrics.
type TrackedEvent struct {
	EventID   string          `json:"eventId"`
	ProjectID string          `json:"projectId"`
	UserID    string          `json:"userId"`
	EventName string          `json:"eventName" binding:"required"`
	Timestamp time.Time       `json:"timestamp"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// TrackRequest is the batch payload POSTed by project SDKs.
type TrackRequest struct {
	ProjectID string         `json:"projectId" binding:"required"`
	Events    []TrackedEvent `json:"events" binding:"required,dive"`
}

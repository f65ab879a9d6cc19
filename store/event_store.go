package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"venturelab/api/analytics"
	"venturelab/api/database"
	"venturelab/api/models"
)

// EventStore persists tracked events in ClickHouse and serves the
// engine's read-side queries. It implements analytics.EventSource.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{DB: chClient}
}

// InsertEvents appends a batch of tracked events. The engine never
// calls this; ingestion and metric computation share only the table.
func (s *EventStore) InsertEvents(ctx context.Context, events []models.TrackedEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO project_events (
			event_id, project_id, user_id, event_name, timestamp, metadata
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		// Empty user ids are stored as NULL so user-counting queries
		// can exclude them server-side.
		var userID interface{}
		if event.UserID != "" {
			userID = event.UserID
		}
		if err := batch.Append(
			event.EventID,
			event.ProjectID,
			userID,
			event.EventName,
			event.Timestamp,
			event.Metadata,
		); err != nil {
			return fmt.Errorf("failed to append event %s to batch: %w", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Successfully inserted %d project events.", len(events))
	return nil
}

// buildEventsQuery assembles the windowed SELECT for q. A zero window
// bound leaves that side of the range open, so the zero window scans
// the project's full history. The upper bound is exclusive to match
// the engine's half-open windows.
func buildEventsQuery(q analytics.Query) (string, []interface{}) {
	query := `SELECT user_id, event_name, timestamp FROM project_events WHERE project_id = ?`
	args := []interface{}{q.ProjectID}

	if !q.Window.Start.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, q.Window.Start)
	}
	if !q.Window.End.IsZero() {
		query += ` AND timestamp < ?`
		args = append(args, q.Window.End)
	}
	if q.EventName != "" {
		query += ` AND event_name = ?`
		args = append(args, q.EventName)
	}
	if q.RequireUser {
		query += ` AND user_id IS NOT NULL AND user_id != ''`
	}

	return query, args
}

// QueryEvents fetches the events matching q.
func (s *EventStore) QueryEvents(ctx context.Context, q analytics.Query) ([]analytics.Event, error) {
	query, args := buildEventsQuery(q)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query project events: %w", err)
	}
	defer rows.Close()

	var events []analytics.Event
	for rows.Next() {
		var (
			userID    *string
			eventName string
			ts        time.Time
		)
		// A scan failure aborts the whole read: a partial event set
		// would skew churn and engagement without anyone noticing.
		if err := rows.Scan(&userID, &eventName, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan project event: %w", err)
		}
		ev := analytics.Event{Name: eventName, Timestamp: ts}
		if userID != nil {
			ev.UserID = *userID
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during project events query: %w", err)
	}

	return events, nil
}

package models

import "time"

// Project scopes every tracked event and every metric computation.
type Project struct {
	ID        string    `json:"id"`
	OwnerID   int       `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

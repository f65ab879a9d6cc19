package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"venturelab/api/models"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) CreateProject(ctx context.Context, ownerID int, name string) (*models.Project, error) {
	project := &models.Project{}
	query := `
		INSERT INTO projects (id, owner_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, name, created_at;
	`
	err := s.db.QueryRowContext(ctx, query, uuid.New().String(), ownerID, name).Scan(
		&project.ID,
		&project.OwnerID,
		&project.Name,
		&project.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Printf("Project created in DB: ID=%s, Name=%s", project.ID, project.Name)
	return project, nil
}

func (s *ProjectStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project := &models.Project{}
	query := `
		SELECT id, owner_id, name, created_at
		FROM projects
		WHERE id = $1;
	`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.OwnerID,
		&project.Name,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (s *ProjectStore) ListProjects(ctx context.Context, ownerID int) ([]models.Project, error) {
	query := `
		SELECT id, owner_id, name, created_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during projects query: %w", err)
	}

	return projects, nil
}

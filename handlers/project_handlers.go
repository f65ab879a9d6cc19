package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"venturelab/api/models"
	"venturelab/api/store"
)

type ProjectHandlers struct {
	ProjectStore *store.ProjectStore
}

func NewProjectHandlers(projectStore *store.ProjectStore) *ProjectHandlers {
	return &ProjectHandlers{ProjectStore: projectStore}
}

func (h *ProjectHandlers) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ownerID := c.MustGet("user_id").(int)
	project, err := h.ProjectStore.CreateProject(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		log.Printf("Error creating project for user %d: %v", ownerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandlers) ListProjects(c *gin.Context) {
	ownerID := c.MustGet("user_id").(int)
	projects, err := h.ProjectStore.ListProjects(c.Request.Context(), ownerID)
	if err != nil {
		log.Printf("Error listing projects for user %d: %v", ownerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}

	if projects == nil {
		projects = []models.Project{}
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandlers) GetProject(c *gin.Context) {
	ownerID := c.MustGet("user_id").(int)
	project, err := h.ProjectStore.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Printf("Error getting project %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get project"})
		return
	}

	// Projects are private to their owner.
	if project.OwnerID != ownerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, project)
}

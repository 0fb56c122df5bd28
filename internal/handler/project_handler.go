package handler

import (
	"net/http"

	"ridgeworks/internal/models"
	"ridgeworks/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
	log         *zap.SugaredLogger
}

func NewProjectHandler(projectRepo *repository.ProjectRepository, log *zap.SugaredLogger) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo, log: log}
}

type projectRequest struct {
	ClientID    *uint  `json:"client_id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CoverURL    string `json:"cover_url"`
	Featured    bool   `json:"featured"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	project := &models.Project{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Featured:    req.Featured,
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if err := h.projectRepo.Create(project); err != nil {
		h.log.Errorw("create project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "project": project})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
}

func (h *ProjectHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	projects, total, err := h.projectRepo.List(c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects, "total": total})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	project, err := h.projectRepo.GetByID(paramID(c, "id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	project.ClientID = req.ClientID
	project.Name = req.Name
	project.Description = req.Description
	project.CoverURL = req.CoverURL
	project.Featured = req.Featured
	if req.Status != "" {
		project.Status = req.Status
	}
	if err := h.projectRepo.Update(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectRepo.Delete(paramID(c, "id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "project deleted"})
}

// Featured is the unauthenticated portfolio listing.
func (h *ProjectHandler) Featured(c *gin.Context) {
	projects, err := h.projectRepo.ListFeatured(12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch portfolio"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

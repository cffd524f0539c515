package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	projectapp "github.com/gestionale/backend/internal/application/project"
)

// ProjectHandler handles project and time-tracking API endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// RegisterRoutes registers the project routes
func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	{
		projects.POST("", h.Create)
		projects.GET("", h.List)
		projects.GET("/:id", h.GetByID)
		projects.PUT("/:id", h.Update)
		projects.PUT("/:id/status", h.ChangeStatus)
		projects.DELETE("/:id", h.Delete)

		projects.POST("/:id/phases", h.AddPhase)
		projects.PUT("/:id/phases/:phaseId/toggle", h.TogglePhase)
		projects.DELETE("/:id/phases/:phaseId", h.RemovePhase)

		projects.POST("/:id/activities", h.AddActivity)
		projects.DELETE("/:id/activities/:activityId", h.RemoveActivity)

		projects.POST("/:id/files", h.UploadFile)
		projects.GET("/:id/files/:fileName", h.DownloadFile)
		projects.DELETE("/:id/files/:fileName", h.RemoveFile)
	}
}

// Create creates a new project
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectapp.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.projectService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, p)
}

// GetByID returns one project
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// List returns projects matching the query filters
func (h *ProjectHandler) List(c *gin.Context) {
	var filter projectapp.ProjectListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.projectService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update updates a project's details
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req projectapp.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.projectService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// ChangeStatus moves a project through its lifecycle
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req projectapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.projectService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete deletes a project
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddPhase appends a phase to a project
func (h *ProjectHandler) AddPhase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req projectapp.AddPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.projectService.AddPhase(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// TogglePhase flips a phase's completion flag
func (h *ProjectHandler) TogglePhase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	phaseID, err := uuid.Parse(c.Param("phaseId"))
	if err != nil {
		h.BadRequest(c, "Invalid phase id")
		return
	}

	p, err := h.projectService.TogglePhase(c.Request.Context(), id, phaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// RemovePhase removes a phase
func (h *ProjectHandler) RemovePhase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	phaseID, err := uuid.Parse(c.Param("phaseId"))
	if err != nil {
		h.BadRequest(c, "Invalid phase id")
		return
	}

	p, err := h.projectService.RemovePhase(c.Request.Context(), id, phaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// AddActivity records a time entry
func (h *ProjectHandler) AddActivity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req projectapp.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.projectService.AddActivity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// RemoveActivity removes a time entry
func (h *ProjectHandler) RemoveActivity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	activityID, err := uuid.Parse(c.Param("activityId"))
	if err != nil {
		h.BadRequest(c, "Invalid activity id")
		return
	}

	p, err := h.projectService.RemoveActivity(c.Request.Context(), id, activityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// UploadFile stores a multipart upload in the project archive
func (h *ProjectHandler) UploadFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable file upload")
		return
	}
	defer f.Close()

	fileName := filepath.Base(fileHeader.Filename)
	p, err := h.projectService.ArchiveFile(c.Request.Context(), id, fileName, f)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, p)
}

// DownloadFile streams an archived file back to the client
func (h *ProjectHandler) DownloadFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	fileName := c.Param("fileName")

	f, err := h.projectService.OpenArchivedFile(c.Request.Context(), id, fileName)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, f)
}

// RemoveFile deletes an archived file
func (h *ProjectHandler) RemoveFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, err := h.projectService.RemoveArchivedFile(c.Request.Context(), id, c.Param("fileName"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

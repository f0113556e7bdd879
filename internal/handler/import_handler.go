package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"edifika/internal/middleware"
	"edifika/internal/service"
)

// ImportHandler handles proposal PDF import endpoints.
type ImportHandler struct {
	importService service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Upload handles POST /api/v1/imports
// @Summary Upload a proposal PDF
// @Description Upload a proposal PDF (max 15MB) and create an import job
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Proposal PDF"
// @Param client_id formData string false "Client ID to link the import to"
// @Success 201 {object} APIResponse "Import job created"
// @Failure 400 {object} APIResponse "Missing file or not a PDF"
// @Failure 413 {object} APIResponse "File too large"
// @Security BearerAuth
// @Router /imports [post]
func (h *ImportHandler) Upload(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := service.ImportUploadInput{
		CreatedBy: userID,
		File:      file,
		Header:    header,
	}
	if clientIDStr := c.PostForm("client_id"); clientIDStr != "" {
		clientID, parseErr := uuid.Parse(clientIDStr)
		if parseErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_CLIENT_ID", "invalid client ID")
			return
		}
		input.ClientID = &clientID
	}

	job, err := h.importService.Upload(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, job)
}

// Process handles POST /api/v1/imports/:id/process
// @Summary Process an import job
// @Description Run OCR and parsing for a queued or resumable import job
// @Tags imports
// @Produce json
// @Param id path string true "Import job ID (UUID)"
// @Success 200 {object} APIResponse "Processed job"
// @Failure 403 {object} APIResponse "Job belongs to another user"
// @Failure 409 {object} APIResponse "Job already terminal"
// @Failure 429 {object} APIResponse "Inference provider rate limited"
// @Security BearerAuth
// @Router /imports/{id}/process [post]
func (h *ImportHandler) Process(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid import job ID")
		return
	}

	job, err := h.importService.Process(c.Request.Context(), userID, jobID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, job)
}

// GetByID handles GET /api/v1/imports/:id
func (h *ImportHandler) GetByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid import job ID")
		return
	}

	job, err := h.importService.GetByID(c.Request.Context(), userID, jobID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, job)
}

// List handles GET /api/v1/imports
func (h *ImportHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	offset, limit := pagination(c)
	jobs, total, err := h.importService.ListByCreator(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, jobs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Preview handles GET /api/v1/imports/:id/preview
// @Summary Preview extracted data
// @Description Return parsed proposal data with per-group confidence bands
// @Tags imports
// @Produce json
// @Param id path string true "Import job ID (UUID)"
// @Success 200 {object} APIResponse "Preview payload"
// @Failure 403 {object} APIResponse "Job belongs to another user"
// @Failure 409 {object} APIResponse "Import not finished"
// @Security BearerAuth
// @Router /imports/{id}/preview [get]
func (h *ImportHandler) Preview(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid import job ID")
		return
	}

	preview, err := h.importService.Preview(c.Request.Context(), userID, jobID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, preview)
}

type applyRequest struct {
	ProposalID *uuid.UUID `json:"proposal_id"`
	Title      string     `json:"title"`
}

// Apply handles POST /api/v1/imports/:id/apply
// @Summary Apply an import
// @Description Merge parsed data into an existing proposal or create a new draft
// @Tags imports
// @Accept json
// @Produce json
// @Param id path string true "Import job ID (UUID)"
// @Success 200 {object} APIResponse "Resulting proposal"
// @Failure 403 {object} APIResponse "Job belongs to another user"
// @Failure 409 {object} APIResponse "Import not finished"
// @Security BearerAuth
// @Router /imports/{id}/apply [post]
func (h *ImportHandler) Apply(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid import job ID")
		return
	}

	// Body is optional: an empty body applies to a fresh draft proposal.
	var req applyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
			return
		}
	}

	result, err := h.importService.Apply(c.Request.Context(), userID, service.ApplyImportInput{
		JobID:      jobID,
		ProposalID: req.ProposalID,
		Title:      req.Title,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

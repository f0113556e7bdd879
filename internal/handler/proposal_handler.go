package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"edifika/internal/csvexport"
	"edifika/internal/domain"
	"edifika/internal/middleware"
	"edifika/internal/service"
)

// ProposalHandler handles proposal management endpoints.
type ProposalHandler struct {
	proposalService service.ProposalService
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// Create handles POST /api/v1/proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var input service.ProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	p, err := h.proposalService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, p)
}

// GetByID handles GET /api/v1/proposals/:id
func (h *ProposalHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid proposal ID")
		return
	}

	p, err := h.proposalService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, p)
}

// List handles GET /api/v1/proposals
func (h *ProposalHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	var status *domain.ProposalStatus
	if s := c.Query("status"); s != "" {
		st := domain.ProposalStatus(s)
		status = &st
	}

	proposals, total, err := h.proposalService.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, proposals, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/proposals/:id
func (h *ProposalHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid proposal ID")
		return
	}

	var input service.ProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	p, err := h.proposalService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, p)
}

type statusRequest struct {
	Status domain.ProposalStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/proposals/:id/status
func (h *ProposalHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid proposal ID")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	if err := h.proposalService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "status updated"})
}

// Delete handles DELETE /api/v1/proposals/:id
func (h *ProposalHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid proposal ID")
		return
	}

	if err := h.proposalService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "proposal deleted"})
}

// ExportCSV handles GET /api/v1/proposals/:id/export.csv
// Streams the proposal's line items as a CSV download.
func (h *ProposalHandler) ExportCSV(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid proposal ID")
		return
	}

	p, err := h.proposalService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	items, err := h.proposalService.Items(p)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("proposal-%s-%s.csv", p.ID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := csvexport.WriteProposalItems(c.Writer, p, items); err != nil {
		// Headers are already out; all we can do is log through gin.
		_ = c.Error(err)
	}
}

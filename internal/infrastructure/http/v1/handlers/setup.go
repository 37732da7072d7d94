package handlers

import (
	"github.com/gin-gonic/gin"

	"bookstock/internal/core/apperror"
	"bookstock/internal/domain/setup"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// SetupHandler handles HTTP requests for the per-standard requirement lists.
type SetupHandler struct {
	*BaseHandler
	service *setup.Service
}

// NewSetupHandler creates a new setup handler.
func NewSetupHandler(base *BaseHandler, service *setup.Service) *SetupHandler {
	return &SetupHandler{BaseHandler: base, service: service}
}

// Save handles PUT /setup.
// Replaces the whole requirement list for a standard/year in one call.
func (h *SetupHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveSetupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines, err := req.ToEntities()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid amount").WithDetail("error", err.Error()))
		return
	}

	saved, err := h.service.Save(ctx, req.Standard, req.AcademicYear, lines, req.Policy())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSetupItems(saved))
}

// ListByStandard handles GET /setup/:standard.
func (h *SetupHandler) ListByStandard(c *gin.Context) {
	standard := c.Param("standard")
	academicYear := c.Query("academicYear")

	lines, err := h.service.ListByStandard(c.Request.Context(), standard, academicYear)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSetupItems(lines))
}

// ListStandards handles GET /setup.
func (h *SetupHandler) ListStandards(c *gin.Context) {
	standards, err := h.service.ListStandards(c.Request.Context(), c.Query("academicYear"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"standards": standards})
}

// Delete handles DELETE /setup/:standard.
func (h *SetupHandler) Delete(c *gin.Context) {
	standard := c.Param("standard")
	academicYear := c.Query("academicYear")

	if err := h.service.Delete(c.Request.Context(), standard, academicYear); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

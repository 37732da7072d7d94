package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstock/internal/core/apperror"
	"bookstock/internal/domain/documents/purchase"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles HTTP requests for purchase entries.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// Create handles POST /document/purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unit price").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromPurchase(doc))
}

// GetByID handles GET /document/purchases/:id.
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(doc))
}

// Update handles PUT /document/purchases/:id.
func (h *PurchaseHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, apperror.NewValidation("invalid unit price").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(doc))
}

// Delete handles DELETE /document/purchases/:id.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Post handles POST /document/purchases/:id/post.
func (h *PurchaseHandler) Post(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Post(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "purchase posted")
}

// Unpost handles POST /document/purchases/:id/unpost.
func (h *PurchaseHandler) Unpost(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Unpost(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "purchase unposted")
}

// List handles GET /document/purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	var q dto.PurchaseListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := q.ToFilter()
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromPurchases(result.Items),
		TotalCount: result.TotalCount,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

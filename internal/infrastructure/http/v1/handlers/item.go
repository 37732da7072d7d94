package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles HTTP requests for the item catalog.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/items.
func (h *ItemHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it := req.ToEntity()
	if err := h.service.Create(ctx, it); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromItem(it))
}

// GetByID handles GET /catalog/items/:id.
func (h *ItemHandler) GetByID(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromItem(it))
}

// Update handles PUT /catalog/items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(it)
	if err := h.service.Update(ctx, it); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromItem(it))
}

// SetDeletionMark handles PATCH /catalog/items/:id/deletion-mark.
func (h *ItemHandler) SetDeletionMark(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(c.Request.Context(), itemID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}

// List handles GET /catalog/items.
func (h *ItemHandler) List(c *gin.Context) {
	var q dto.ListQuery
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
		Items:      dto.FromItems(result.Items),
		TotalCount: result.TotalCount,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

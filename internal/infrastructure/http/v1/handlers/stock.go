package handlers

import (
	"github.com/gin-gonic/gin"

	"bookstock/internal/core/id"
	"bookstock/internal/domain/registers/stock"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Balances handles GET /register/stock/balances.
func (h *StockHandler) Balances(c *gin.Context) {
	var q dto.BalanceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	rows, err := h.service.ListBalances(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBalances(rows))
}

// Balance handles GET /register/stock/balances/:id.
// Returns the on-hand quantity for one item.
func (h *StockHandler) Balance(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, balance)
}

// Recalculate handles POST /register/stock/recalculate.
// Rebuilds balances from the movement log. Admin operation.
func (h *StockHandler) Recalculate(c *gin.Context) {
	var itemID *id.ID
	if raw := c.Query("itemId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err == nil {
			itemID = &parsed
		}
	}

	if err := h.service.Recalculate(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "balances recalculated")
}

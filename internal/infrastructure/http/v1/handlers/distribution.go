package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstock/internal/domain/documents/distribution"
	"bookstock/internal/domain/reconcile"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// DistributionHandler handles HTTP requests for distribution bills.
type DistributionHandler struct {
	*BaseHandler
	service *distribution.Service
}

// NewDistributionHandler creates a new distribution handler.
func NewDistributionHandler(base *BaseHandler, service *distribution.Service) *DistributionHandler {
	return &DistributionHandler{BaseHandler: base, service: service}
}

// PrepareVisit handles GET /document/bills/prepare-visit.
// Returns what the student is still owed, capped by current stock.
func (h *DistributionHandler) PrepareVisit(c *gin.Context) {
	var q dto.PrepareVisitQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.PrepareVisit(
		c.Request.Context(),
		q.AdmissionNo, q.Standard, q.AcademicYear,
		reconcile.Options{TrackPricing: q.TrackPricing},
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromVisit(result, q.TrackPricing))
}

// Save handles POST /document/bills.
// Retried submissions with the same clientTxId return the stored bill.
func (h *DistributionHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveBillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bill, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	saved, err := h.service.Save(ctx, bill)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromBill(saved))
}

// GetByID handles GET /document/bills/:id.
func (h *DistributionHandler) GetByID(c *gin.Context) {
	billID, ok := h.ParseID(c)
	if !ok {
		return
	}

	bill, err := h.service.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBill(bill))
}

// History handles GET /document/bills/history.
// Lists every line already issued to one student in the year.
func (h *DistributionHandler) History(c *gin.Context) {
	admissionNo := c.Query("admissionNo")
	academicYear := c.Query("academicYear")

	rows, err := h.service.History(c.Request.Context(), admissionNo, academicYear)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromHistory(rows))
}

// List handles GET /document/bills.
func (h *DistributionHandler) List(c *gin.Context) {
	var q dto.BillListQuery
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
		Items:      dto.FromBills(result.Items),
		TotalCount: result.TotalCount,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

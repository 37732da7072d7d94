package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"bookstock/internal/core/apperror"
	"bookstock/internal/domain/documents/distribution"
	"bookstock/internal/domain/reconcile"
	"bookstock/internal/domain/stockreport"
	"bookstock/internal/infrastructure/export"
	"bookstock/internal/infrastructure/http/v1/dto"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)

// ReportsHandler handles HTTP requests for stock reports and exports.
type ReportsHandler struct {
	*BaseHandler
	reports *stockreport.Service
	bills   *distribution.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, reports *stockreport.Service, bills *distribution.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, reports: reports, bills: bills}
}

// StockReport handles GET /reports/stock.
func (h *ReportsHandler) StockReport(c *gin.Context) {
	rep, ok := h.buildReport(c)
	if !ok {
		return
	}

	h.OK(c, dto.FromStockReport(rep))
}

// ExportStockReport handles GET /reports/stock/export.
// Streams the report as an XLSX workbook or a CSV file.
func (h *ReportsHandler) ExportStockReport(c *gin.Context) {
	rep, ok := h.buildReport(c)
	if !ok {
		return
	}

	filename := "stock-report-" + time.Now().UTC().Format("2006-01-02")

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		c.Header("Content-Type", contentTypeCSV)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		if err := export.WriteStockReportCSV(c.Writer, rep); err != nil {
			h.Error(c, apperror.NewInternal(err))
		}
	case "xlsx":
		c.Header("Content-Type", contentTypeXLSX)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		if err := export.WriteStockReportXLSX(c.Writer, rep); err != nil {
			h.Error(c, apperror.NewInternal(err))
		}
	default:
		h.Error(c, apperror.NewValidation("unsupported format").WithDetail("format", c.Query("format")))
	}
}

// ExportPending handles GET /reports/pending/export.
// Renders the current pending-item list for one student as an XLSX
// workbook or a CSV file.
func (h *ReportsHandler) ExportPending(c *gin.Context) {
	var q dto.PrepareVisitQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.bills.PrepareVisit(
		c.Request.Context(),
		q.AdmissionNo, q.Standard, q.AcademicYear,
		reconcile.Options{TrackPricing: q.TrackPricing},
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	filename := "pending-" + q.AdmissionNo

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		c.Header("Content-Type", contentTypeCSV)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		if err := export.WritePendingCSV(c.Writer, result); err != nil {
			h.Error(c, apperror.NewInternal(err))
		}
	case "xlsx":
		c.Header("Content-Type", contentTypeXLSX)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		if err := export.WritePendingXLSX(c.Writer, result); err != nil {
			h.Error(c, apperror.NewInternal(err))
		}
	default:
		h.Error(c, apperror.NewValidation("unsupported format").WithDetail("format", c.Query("format")))
	}
}

func (h *ReportsHandler) buildReport(c *gin.Context) (*stockreport.Report, bool) {
	var q dto.StockReportQuery
	if !h.BindQuery(c, &q) {
		return nil, false
	}

	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date").WithDetail("error", err.Error()))
		return nil, false
	}

	rep, err := h.reports.StockReport(c.Request.Context(), q.AcademicYear, filter)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	return rep, true
}


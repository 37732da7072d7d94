package dto

import (
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/documents/distribution"
	"bookstock/internal/domain/reconcile"
)

// --- Request DTOs ---

// PrepareVisitQuery identifies the student visit to reconcile.
type PrepareVisitQuery struct {
	AdmissionNo  string `form:"admissionNo" binding:"required"`
	Standard     string `form:"standard" binding:"required"`
	AcademicYear string `form:"academicYear" binding:"required"`
	TrackPricing bool   `form:"trackPricing"`
}

// BillLineRequest is one line the operator confirmed for issue.
type BillLineRequest struct {
	ItemID    string `json:"itemId" binding:"required"`
	ItemName  string `json:"itemName" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	UnitPrice string `json:"unitPrice,omitempty"`
}

// SaveBillRequest represents a request to save a distribution bill.
// ClientTxID makes retried submissions idempotent.
type SaveBillRequest struct {
	StudentID    string            `json:"studentId" binding:"required"`
	AdmissionNo  string            `json:"admissionNo" binding:"required"`
	StudentName  string            `json:"studentName" binding:"required"`
	Standard     string            `json:"standard" binding:"required"`
	AcademicYear string            `json:"academicYear" binding:"required"`
	TrackPricing bool              `json:"trackPricing"`
	PayMode      string            `json:"payMode,omitempty"`
	PayReference string            `json:"payReference,omitempty"`
	ClientTxID   string            `json:"clientTxId" binding:"required"`
	Comment      string            `json:"comment,omitempty"`
	Lines        []BillLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts request to a domain entity.
func (r *SaveBillRequest) ToEntity() (*distribution.DistributionBill, error) {
	studentID, err := id.Parse(r.StudentID)
	if err != nil {
		return nil, apperror.NewValidation("invalid student id").
			WithDetail("studentId", r.StudentID)
	}

	bill := distribution.NewDistributionBill(
		r.AcademicYear, studentID, r.AdmissionNo, r.StudentName, r.Standard)
	bill.TrackPricing = r.TrackPricing
	bill.ClientTxID = r.ClientTxID
	bill.Comment = r.Comment

	for _, l := range r.Lines {
		itemID, err := id.Parse(l.ItemID)
		if err != nil {
			return nil, apperror.NewValidation("invalid item id").
				WithDetail("itemId", l.ItemID)
		}

		price := types.ZeroMoney()
		if r.TrackPricing && l.UnitPrice != "" {
			p, err := types.NewMoneyFromString(l.UnitPrice)
			if err != nil {
				return nil, err
			}
			price = p
		}
		bill.AddLine(itemID, l.ItemName, l.Quantity, price)
	}

	mode := distribution.PayMode(r.PayMode)
	if mode == "" {
		mode = distribution.PayModeNone
	}
	if err := bill.SetPayment(mode, r.PayReference); err != nil {
		return nil, err
	}

	return bill, nil
}

// BillListQuery holds filtering parameters for bill lists.
type BillListQuery struct {
	ListQuery

	AcademicYear string     `form:"academicYear"`
	AdmissionNo  string     `form:"admissionNo"`
	Standard     string     `form:"standard"`
	DateFrom     *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo       *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ToFilter converts query to a domain filter.
func (q *BillListQuery) ToFilter() distribution.ListFilter {
	return distribution.ListFilter{
		ListFilter:   q.ListQuery.ToFilter(),
		AcademicYear: q.AcademicYear,
		AdmissionNo:  q.AdmissionNo,
		Standard:     q.Standard,
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
	}
}

// --- Response DTOs ---

// PendingItemResponse is one requirement line awaiting issue.
type PendingItemResponse struct {
	ItemID       string `json:"itemId"`
	Name         string `json:"name"`
	Unit         string `json:"unit,omitempty"`
	RequiredQty  int    `json:"requiredQty"`
	Distributed  int    `json:"distributedQty"`
	RemainingQty int    `json:"remainingQty"`
	CurrentStock int    `json:"currentStock"`
	IssueQty     int    `json:"issueQty"`
	OutOfStock   bool   `json:"outOfStock"`
	UnitPrice    string `json:"unitPrice,omitempty"`
	Total        string `json:"total,omitempty"`
}

// VisitResponse is the reconciliation result for one student visit.
type VisitResponse struct {
	Items            []PendingItemResponse `json:"items"`
	FullyDistributed bool                  `json:"fullyDistributed"`
	TotalAmount      string                `json:"totalAmount"`
}

// FromVisit creates VisitResponse from a reconciliation result.
func FromVisit(res *reconcile.Result, trackPricing bool) VisitResponse {
	resp := VisitResponse{
		Items:            make([]PendingItemResponse, 0, len(res.Items)),
		FullyDistributed: res.FullyDistributed,
		TotalAmount:      res.TotalAmount.String(),
	}

	for _, it := range res.Items {
		line := PendingItemResponse{
			ItemID:       it.ItemID.String(),
			Name:         it.Name,
			Unit:         it.Unit,
			RequiredQty:  it.Required,
			Distributed:  it.Distributed,
			RemainingQty: it.Remaining,
			CurrentStock: it.CurrentStock,
			IssueQty:     it.IssueQty,
			OutOfStock:   it.OutOfStock,
		}
		if trackPricing {
			line.UnitPrice = it.UnitPrice.String()
			line.Total = it.Total.String()
		}
		resp.Items = append(resp.Items, line)
	}

	return resp
}

// BillLineResponse represents one bill line in API responses.
type BillLineResponse struct {
	LineID    string `json:"lineId"`
	LineNo    int    `json:"lineNo"`
	ItemID    string `json:"itemId"`
	ItemName  string `json:"itemName"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

// BillResponse represents a distribution bill in API responses.
type BillResponse struct {
	ID           string             `json:"id"`
	Number       string             `json:"number"`
	Date         time.Time          `json:"date"`
	AcademicYear string             `json:"academicYear"`
	StudentID    string             `json:"studentId"`
	AdmissionNo  string             `json:"admissionNo"`
	StudentName  string             `json:"studentName"`
	Standard     string             `json:"standard"`
	TrackPricing bool               `json:"trackPricing"`
	PayMode      string             `json:"payMode"`
	PayReference string             `json:"payReference,omitempty"`
	TotalAmount  string             `json:"totalAmount"`
	ClientTxID   string             `json:"clientTxId"`
	Posted       bool               `json:"posted"`
	Comment      string             `json:"comment,omitempty"`
	Version      int                `json:"version"`
	Lines        []BillLineResponse `json:"lines,omitempty"`
}

// FromBill creates BillResponse from a domain entity.
func FromBill(bill *distribution.DistributionBill) BillResponse {
	resp := BillResponse{
		ID:           bill.ID.String(),
		Number:       bill.Number,
		Date:         bill.Date,
		AcademicYear: bill.AcademicYear,
		StudentID:    bill.StudentID.String(),
		AdmissionNo:  bill.AdmissionNo,
		StudentName:  bill.StudentName,
		Standard:     bill.Standard,
		TrackPricing: bill.TrackPricing,
		PayMode:      string(bill.PayMode),
		PayReference: bill.PayReference,
		TotalAmount:  bill.TotalAmount.String(),
		ClientTxID:   bill.ClientTxID,
		Posted:       bill.Posted,
		Comment:      bill.Comment,
		Version:      bill.Version,
	}

	for _, l := range bill.Lines {
		resp.Lines = append(resp.Lines, BillLineResponse{
			LineID:    l.LineID.String(),
			LineNo:    l.LineNo,
			ItemID:    l.ItemID.String(),
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.String(),
			Amount:    l.Amount.String(),
		})
	}

	return resp
}

// FromBills creates a slice of responses.
func FromBills(bills []*distribution.DistributionBill) []BillResponse {
	result := make([]BillResponse, len(bills))
	for i, b := range bills {
		result[i] = FromBill(b)
	}
	return result
}

// HistoryRowResponse is one previously issued line for a student.
type HistoryRowResponse struct {
	BillID     string    `json:"billId"`
	BillNumber string    `json:"billNumber"`
	Date       time.Time `json:"date"`
	ItemID     string    `json:"itemId"`
	ItemName   string    `json:"itemName"`
	Quantity   int       `json:"quantity"`
}

// FromHistory creates history responses from domain rows.
func FromHistory(rows []distribution.HistoryRow) []HistoryRowResponse {
	result := make([]HistoryRowResponse, len(rows))
	for i, r := range rows {
		result[i] = HistoryRowResponse{
			BillID:     r.BillID.String(),
			BillNumber: r.BillNumber,
			Date:       r.Date,
			ItemID:     r.ItemID.String(),
			ItemName:   r.ItemName,
			Quantity:   r.Quantity,
		}
	}
	return result
}

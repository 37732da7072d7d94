package dto

import (
	"time"

	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/documents/purchase"
)

// --- Request DTOs ---

// PurchaseLineRequest is a single line of a purchase entry.
// Items are referenced by name; unknown names are registered automatically.
type PurchaseLineRequest struct {
	ItemName  string `json:"itemName" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	UnitPrice string `json:"unitPrice,omitempty"`
}

// CreatePurchaseRequest represents a request to record a purchase entry.
type CreatePurchaseRequest struct {
	AcademicYear string                `json:"academicYear" binding:"required"`
	VendorName   string                `json:"vendorName" binding:"required"`
	InvoiceNo    string                `json:"invoiceNo,omitempty"`
	Date         time.Time             `json:"date" binding:"required"`
	Comment      string                `json:"comment,omitempty"`
	Lines        []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts request to a domain entity.
// Item IDs are resolved later by the purchase service.
func (r *CreatePurchaseRequest) ToEntity() (*purchase.PurchaseEntry, error) {
	doc := purchase.NewPurchaseEntry(r.AcademicYear, r.VendorName, r.Date)
	doc.InvoiceNo = r.InvoiceNo
	doc.Comment = r.Comment

	for _, l := range r.Lines {
		price := types.ZeroMoney()
		if l.UnitPrice != "" {
			p, err := types.NewMoneyFromString(l.UnitPrice)
			if err != nil {
				return nil, err
			}
			price = p
		}
		doc.AddLine(id.Nil(), l.ItemName, l.Quantity, price)
	}

	return doc, nil
}

// UpdatePurchaseRequest represents a request to update an unposted entry.
// Lines, when present, replace the whole line set.
type UpdatePurchaseRequest struct {
	VendorName *string               `json:"vendorName,omitempty"`
	InvoiceNo  *string               `json:"invoiceNo,omitempty"`
	Date       *time.Time            `json:"date,omitempty"`
	Comment    *string               `json:"comment,omitempty"`
	Lines      []PurchaseLineRequest `json:"lines,omitempty"`
	Version    int                   `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdatePurchaseRequest) ApplyTo(doc *purchase.PurchaseEntry) error {
	if r.VendorName != nil {
		doc.VendorName = *r.VendorName
	}
	if r.InvoiceNo != nil {
		doc.InvoiceNo = *r.InvoiceNo
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	if len(r.Lines) > 0 {
		doc.Lines = nil
		for _, l := range r.Lines {
			price := types.ZeroMoney()
			if l.UnitPrice != "" {
				p, err := types.NewMoneyFromString(l.UnitPrice)
				if err != nil {
					return err
				}
				price = p
			}
			doc.AddLine(id.Nil(), l.ItemName, l.Quantity, price)
		}
	}

	doc.Version = r.Version
	return nil
}

// PurchaseListQuery holds filtering parameters for purchase lists.
type PurchaseListQuery struct {
	ListQuery

	AcademicYear string     `form:"academicYear"`
	VendorName   string     `form:"vendorName"`
	Posted       *bool      `form:"posted"`
	DateFrom     *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo       *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ToFilter converts query to a domain filter.
func (q *PurchaseListQuery) ToFilter() purchase.ListFilter {
	return purchase.ListFilter{
		ListFilter:   q.ListQuery.ToFilter(),
		AcademicYear: q.AcademicYear,
		VendorName:   q.VendorName,
		Posted:       q.Posted,
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
	}
}

// --- Response DTOs ---

// PurchaseLineResponse represents one purchase line in API responses.
type PurchaseLineResponse struct {
	LineID    string `json:"lineId"`
	LineNo    int    `json:"lineNo"`
	ItemID    string `json:"itemId"`
	ItemName  string `json:"itemName"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

// PurchaseResponse represents a purchase entry in API responses.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	Date          time.Time              `json:"date"`
	AcademicYear  string                 `json:"academicYear"`
	VendorName    string                 `json:"vendorName"`
	InvoiceNo     string                 `json:"invoiceNo,omitempty"`
	Posted        bool                   `json:"posted"`
	TotalQuantity int                    `json:"totalQuantity"`
	TotalAmount   string                 `json:"totalAmount"`
	Comment       string                 `json:"comment,omitempty"`
	DeletionMark  bool                   `json:"deletionMark"`
	Version       int                    `json:"version"`
	Lines         []PurchaseLineResponse `json:"lines,omitempty"`
}

// FromPurchase creates PurchaseResponse from a domain entity.
func FromPurchase(doc *purchase.PurchaseEntry) PurchaseResponse {
	resp := PurchaseResponse{
		ID:            doc.ID.String(),
		Number:        doc.Number,
		Date:          doc.Date,
		AcademicYear:  doc.AcademicYear,
		VendorName:    doc.VendorName,
		InvoiceNo:     doc.InvoiceNo,
		Posted:        doc.Posted,
		TotalQuantity: doc.TotalQuantity,
		TotalAmount:   doc.TotalAmount.String(),
		Comment:       doc.Comment,
		DeletionMark:  doc.DeletionMark,
		Version:       doc.Version,
	}

	for _, l := range doc.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
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

// FromPurchases creates a slice of responses.
func FromPurchases(docs []*purchase.PurchaseEntry) []PurchaseResponse {
	result := make([]PurchaseResponse, len(docs))
	for i, d := range docs {
		result[i] = FromPurchase(d)
	}
	return result
}

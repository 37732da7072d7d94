// Package distribution provides the DistributionBill document.
//
// A bill records one counter visit: the items handed to a student, with
// payment details when pricing is tracked. Saving a bill issues stock and
// the bill lines become the student's distribution history.
package distribution

import (
	"context"
	"strings"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/core/types"
)

// PayMode enumerates accepted payment modes.
type PayMode string

const (
	PayModeCash   PayMode = "cash"
	PayModeCheque PayMode = "cheque"
	PayModeDD     PayMode = "dd"
	PayModeOnline PayMode = "online"
	PayModeBank   PayMode = "bank"

	// PayModeNone is used when pricing is not tracked
	PayModeNone PayMode = "none"
)

// RequiresReference reports whether the mode needs a reference number
// (cheque number, transaction id, etc).
func (m PayMode) RequiresReference() bool {
	switch m {
	case PayModeCheque, PayModeDD, PayModeOnline, PayModeBank:
		return true
	}
	return false
}

func isValidPayMode(m PayMode) bool {
	switch m {
	case PayModeCash, PayModeCheque, PayModeDD, PayModeOnline, PayModeBank, PayModeNone:
		return true
	}
	return false
}

// DistributionBill represents one issuance to a student.
type DistributionBill struct {
	entity.Document

	// Student identification
	StudentID   id.ID  `db:"student_id" json:"studentId"`
	AdmissionNo string `db:"admission_no" json:"admissionNo"`
	StudentName string `db:"student_name" json:"studentName"`
	Standard    string `db:"standard" json:"standard"`

	// Payment
	TrackPricing bool        `db:"track_pricing" json:"trackPricing"`
	PayMode      PayMode     `db:"pay_mode" json:"payMode"`
	PayReference string      `db:"pay_reference" json:"payReference,omitempty"`
	TotalAmount  types.Money `db:"total_amount" json:"totalAmount"`

	// ClientTxID is the caller-generated idempotency key: retrying a save
	// with the same id returns the original bill instead of a second one
	ClientTxID string `db:"client_tx_id" json:"clientTxId"`

	// Table part: issued items
	Lines []BillLine `db:"-" json:"lines"`
}

// BillLine represents one issued item on the bill.
type BillLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID   id.ID       `db:"item_id" json:"itemId"`
	ItemName string      `db:"item_name" json:"itemName"`
	Key      itemkey.Key `db:"item_key" json:"-"`

	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Amount    types.Money `db:"amount" json:"amount"`
}

// NewDistributionBill creates a new bill document.
func NewDistributionBill(academicYear string, studentID id.ID, admissionNo, studentName, standard string) *DistributionBill {
	return &DistributionBill{
		Document:    entity.NewDocument(academicYear),
		StudentID:   studentID,
		AdmissionNo: strings.TrimSpace(admissionNo),
		StudentName: studentName,
		Standard:    strings.TrimSpace(standard),
		PayMode:     PayModeNone,
		TotalAmount: types.ZeroMoney(),
		Lines:       make([]BillLine, 0),
	}
}

// AddLine adds an issued item and recalculates the total.
func (b *DistributionBill) AddLine(itemID id.ID, itemName string, quantity int, unitPrice types.Money) {
	line := BillLine{
		LineID:    id.New(),
		LineNo:    len(b.Lines) + 1,
		ItemID:    itemID,
		ItemName:  itemName,
		Key:       itemkey.Normalize(itemName),
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    types.MulQty(unitPrice, quantity),
	}

	b.Lines = append(b.Lines, line)
	b.recalculateTotal()
}

func (b *DistributionBill) recalculateTotal() {
	b.TotalAmount = types.ZeroMoney()
	for _, line := range b.Lines {
		b.TotalAmount = b.TotalAmount.Add(line.Amount)
	}
}

// SetPayment records payment details and enforces the reference rule.
func (b *DistributionBill) SetPayment(mode PayMode, reference string) error {
	if !isValidPayMode(mode) {
		return apperror.NewValidation("invalid payment mode").
			WithDetail("field", "payMode").
			WithDetail("value", string(mode))
	}

	reference = strings.TrimSpace(reference)
	if mode.RequiresReference() && reference == "" {
		return apperror.NewMissingPaymentReference(string(mode))
	}

	b.PayMode = mode
	b.PayReference = reference
	return nil
}

// Validate implements entity.Validatable.
func (b *DistributionBill) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}

	if b.AdmissionNo == "" {
		return apperror.NewValidation("admission number is required").
			WithDetail("field", "admissionNo")
	}

	if strings.TrimSpace(b.Standard) == "" {
		return apperror.NewValidation("standard is required").
			WithDetail("field", "standard")
	}

	if b.ClientTxID == "" {
		return apperror.NewValidation("client transaction id is required").
			WithDetail("field", "clientTxId")
	}

	if len(b.Lines) == 0 {
		return apperror.NewValidation("bill must have at least one line").
			WithDetail("field", "lines")
	}

	for i, line := range b.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("line item is required").
				WithDetail("line", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i+1).
				WithDetail("value", line.Quantity)
		}
	}

	if !isValidPayMode(b.PayMode) {
		return apperror.NewValidation("invalid payment mode").
			WithDetail("field", "payMode").
			WithDetail("value", string(b.PayMode))
	}

	if b.TrackPricing && b.PayMode.RequiresReference() && strings.TrimSpace(b.PayReference) == "" {
		return apperror.NewMissingPaymentReference(string(b.PayMode))
	}

	return nil
}

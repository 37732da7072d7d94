package dto

import (
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/setup"
)

// --- Request DTOs ---

// SaveSetupRequest replaces the requirement list for a standard/year.
type SaveSetupRequest struct {
	Standard     string             `json:"standard" binding:"required"`
	AcademicYear string             `json:"academicYear" binding:"required"`
	Lines        []SetupLineRequest `json:"lines" binding:"required,min=1,dive"`

	// DuplicatePolicy: "reject" (default) or "merge"
	DuplicatePolicy string `json:"duplicatePolicy,omitempty"`
}

// SetupLineRequest is one requirement line.
type SetupLineRequest struct {
	ItemName    string `json:"itemName" binding:"required"`
	RequiredQty int    `json:"requiredQty" binding:"required,gt=0"`
	Amount      string `json:"amount,omitempty"`
}

// ToEntities converts the request lines to domain entities.
func (r *SaveSetupRequest) ToEntities() ([]*setup.SetupItem, error) {
	lines := make([]*setup.SetupItem, 0, len(r.Lines))
	for _, l := range r.Lines {
		amount := types.ZeroMoney()
		if l.Amount != "" {
			var err error
			amount, err = types.NewMoneyFromString(l.Amount)
			if err != nil {
				return nil, err
			}
		}
		lines = append(lines, setup.NewSetupItem(
			r.Standard, r.AcademicYear, id.Nil(), l.ItemName, l.RequiredQty, amount,
		))
	}
	return lines, nil
}

// Policy returns the duplicate policy with its default applied.
func (r *SaveSetupRequest) Policy() setup.DuplicatePolicy {
	if r.DuplicatePolicy == "" {
		return setup.DuplicateReject
	}
	return setup.DuplicatePolicy(r.DuplicatePolicy)
}

// --- Response DTOs ---

// SetupLineResponse is one requirement line in API responses.
type SetupLineResponse struct {
	ID          string `json:"id"`
	Standard    string `json:"standard"`
	ItemID      string `json:"itemId"`
	ItemName    string `json:"itemName"`
	RequiredQty int    `json:"requiredQty"`
	Amount      string `json:"amount"`
	Position    int    `json:"position"`
}

// FromSetupItem creates SetupLineResponse from a domain entity.
func FromSetupItem(s *setup.SetupItem) SetupLineResponse {
	return SetupLineResponse{
		ID:          s.ID.String(),
		Standard:    s.Standard,
		ItemID:      s.ItemID.String(),
		ItemName:    s.ItemName,
		RequiredQty: s.RequiredQty,
		Amount:      s.Amount.String(),
		Position:    s.Position,
	}
}

// FromSetupItems converts a slice of requirement lines.
func FromSetupItems(lines []*setup.SetupItem) []SetupLineResponse {
	out := make([]SetupLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, FromSetupItem(l))
	}
	return out
}

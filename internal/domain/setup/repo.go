package setup

import (
	"context"

	"bookstock/internal/core/id"
)

// Repository defines the interface for SetupItem persistence.
type Repository interface {
	// ReplaceForStandard atomically replaces the requirement list for a
	// standard/year with the given lines, preserving their order.
	ReplaceForStandard(ctx context.Context, standard, academicYear string, lines []*SetupItem) error

	// ListByStandard returns the requirement lines for a standard/year in
	// entry order.
	ListByStandard(ctx context.Context, standard, academicYear string) ([]*SetupItem, error)

	// ListStandards returns the distinct standards configured for a year.
	ListStandards(ctx context.Context, academicYear string) ([]string, error)

	// GetByID retrieves a single requirement line.
	GetByID(ctx context.Context, lineID id.ID) (*SetupItem, error)

	// DeleteForStandard removes the whole requirement list for a standard/year.
	DeleteForStandard(ctx context.Context, standard, academicYear string) error
}

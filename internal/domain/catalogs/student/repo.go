package student

import (
	"context"

	"bookstock/internal/core/id"
	"bookstock/internal/domain"
)

// Repository defines the interface for Student persistence.
type Repository interface {
	Create(ctx context.Context, st *Student) error

	GetByID(ctx context.Context, studentID id.ID) (*Student, error)

	// GetByAdmissionNo retrieves a student by admission number within a year.
	GetByAdmissionNo(ctx context.Context, admissionNo, academicYear string) (*Student, error)

	Update(ctx context.Context, st *Student) error

	SetDeletionMark(ctx context.Context, studentID id.ID, marked bool) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Student], error)
}

// ListFilter extends the common filter with student dimensions.
type ListFilter struct {
	domain.ListFilter

	Standard     string
	AcademicYear string
}

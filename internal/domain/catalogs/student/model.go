// Package student provides the student registry catalog.
package student

import (
	"context"
	"strings"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
)

// Student represents an admitted student.
// AdmissionNo is the natural key used across the distribution ledger.
type Student struct {
	entity.BaseCatalog

	AdmissionNo string `db:"admission_no" json:"admissionNo"`
	FirstName   string `db:"first_name" json:"firstName"`
	LastName    string `db:"last_name" json:"lastName,omitempty"`

	// Standard is the class the student is enrolled in (e.g. "5", "10A")
	Standard string `db:"standard" json:"standard"`

	// Section within the standard, optional
	Section string `db:"section" json:"section,omitempty"`

	// AcademicYear of the enrollment (e.g. "2025-26")
	AcademicYear string `db:"academic_year" json:"academicYear"`
}

// NewStudent creates a new Student entry.
func NewStudent(admissionNo, firstName, standard, academicYear string) *Student {
	return &Student{
		BaseCatalog:  entity.NewBaseCatalog(),
		AdmissionNo:  strings.TrimSpace(admissionNo),
		FirstName:    firstName,
		Standard:     strings.TrimSpace(standard),
		AcademicYear: academicYear,
	}
}

// FullName returns the display name.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Validate implements entity.Validatable.
func (s *Student) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.AdmissionNo) == "" {
		return apperror.NewValidation("admission number is required").
			WithDetail("field", "admissionNo")
	}

	if strings.TrimSpace(s.FirstName) == "" {
		return apperror.NewValidation("first name is required").
			WithDetail("field", "firstName")
	}

	if strings.TrimSpace(s.Standard) == "" {
		return apperror.NewValidation("standard is required").
			WithDetail("field", "standard")
	}

	if s.AcademicYear == "" {
		return apperror.NewValidation("academic year is required").
			WithDetail("field", "academicYear")
	}

	return nil
}

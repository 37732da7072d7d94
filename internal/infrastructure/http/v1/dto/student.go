package dto

import (
	"bookstock/internal/domain/catalogs/student"
)

// --- Request DTOs ---

// CreateStudentRequest represents a request to register a student.
type CreateStudentRequest struct {
	AdmissionNo  string `json:"admissionNo" binding:"required"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName,omitempty"`
	Standard     string `json:"standard" binding:"required"`
	Section      string `json:"section,omitempty"`
	AcademicYear string `json:"academicYear" binding:"required"`
}

// ToEntity converts request to domain entity.
func (r *CreateStudentRequest) ToEntity() *student.Student {
	st := student.NewStudent(r.AdmissionNo, r.FirstName, r.Standard, r.AcademicYear)
	st.LastName = r.LastName
	st.Section = r.Section
	return st
}

// UpdateStudentRequest represents a request to update a student.
type UpdateStudentRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Standard  *string `json:"standard,omitempty"`
	Section   *string `json:"section,omitempty"`
	Version   int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateStudentRequest) ApplyTo(st *student.Student) {
	if r.FirstName != nil {
		st.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		st.LastName = *r.LastName
	}
	if r.Standard != nil {
		st.Standard = *r.Standard
	}
	if r.Section != nil {
		st.Section = *r.Section
	}
	st.Version = r.Version
}

// --- Query DTOs ---

// StudentListQuery extends the common list query with student filters.
type StudentListQuery struct {
	ListQuery
	Standard     string `form:"standard"`
	AcademicYear string `form:"academicYear"`
}

// ToFilter converts query parameters to a domain filter.
func (q *StudentListQuery) ToFilter() student.ListFilter {
	return student.ListFilter{
		ListFilter:   q.ListQuery.ToFilter(),
		Standard:     q.Standard,
		AcademicYear: q.AcademicYear,
	}
}

// --- Response DTOs ---

// StudentResponse represents a student in API responses.
type StudentResponse struct {
	ID           string `json:"id"`
	AdmissionNo  string `json:"admissionNo"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName,omitempty"`
	FullName     string `json:"fullName"`
	Standard     string `json:"standard"`
	Section      string `json:"section,omitempty"`
	AcademicYear string `json:"academicYear"`
	DeletionMark bool   `json:"deletionMark"`
	Version      int    `json:"version"`
}

// FromStudent creates StudentResponse from a domain entity.
func FromStudent(st *student.Student) StudentResponse {
	return StudentResponse{
		ID:           st.ID.String(),
		AdmissionNo:  st.AdmissionNo,
		FirstName:    st.FirstName,
		LastName:     st.LastName,
		FullName:     st.FullName(),
		Standard:     st.Standard,
		Section:      st.Section,
		AcademicYear: st.AcademicYear,
		DeletionMark: st.DeletionMark,
		Version:      st.Version,
	}
}

// FromStudents converts a slice of students.
func FromStudents(students []*student.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, st := range students {
		out = append(out, FromStudent(st))
	}
	return out
}

package student

import (
	"context"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain"
	"bookstock/pkg/logger"
)

// Service implements business logic for the student catalog.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the student and enforces admission number uniqueness
// within the academic year.
func (s *Service) Create(ctx context.Context, st *Student) error {
	if err := st.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByAdmissionNo(ctx, st.AdmissionNo, st.AcademicYear)
	if err != nil && !apperror.IsCode(err, apperror.CodeNotFound) {
		return err
	}
	if existing != nil {
		return apperror.NewDuplicate("student", "admission_no", st.AdmissionNo)
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return err
	}

	logger.Info(ctx, "student created",
		"student_id", st.ID,
		"admission_no", st.AdmissionNo,
		"standard", st.Standard,
	)
	return nil
}

func (s *Service) Update(ctx context.Context, st *Student) error {
	if err := st.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByAdmissionNo(ctx, st.AdmissionNo, st.AcademicYear)
	if err != nil && !apperror.IsCode(err, apperror.CodeNotFound) {
		return err
	}
	if existing != nil && existing.ID != st.ID {
		return apperror.NewDuplicate("student", "admission_no", st.AdmissionNo)
	}

	return s.repo.Update(ctx, st)
}

func (s *Service) GetByID(ctx context.Context, studentID id.ID) (*Student, error) {
	return s.repo.GetByID(ctx, studentID)
}

func (s *Service) GetByAdmissionNo(ctx context.Context, admissionNo, academicYear string) (*Student, error) {
	return s.repo.GetByAdmissionNo(ctx, admissionNo, academicYear)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Student], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) SetDeletionMark(ctx context.Context, studentID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, studentID, marked)
}

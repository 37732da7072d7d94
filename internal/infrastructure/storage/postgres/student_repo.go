package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain"
	"bookstock/internal/domain/catalogs/student"
)

const studentTable = "cat_students"

var studentColumns = []string{
	"id", "deletion_mark", "version",
	"admission_no", "first_name", "last_name", "standard", "section", "academic_year",
}

// StudentRepo implements student.Repository.
type StudentRepo struct {
	txManager *TxManager
}

var _ student.Repository = (*StudentRepo)(nil)

// NewStudentRepo creates a new student repository.
func NewStudentRepo(txManager *TxManager) *StudentRepo {
	return &StudentRepo{txManager: txManager}
}

func (r *StudentRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(studentColumns...).From(studentTable)
}

// Create inserts a new student.
func (r *StudentRepo) Create(ctx context.Context, st *student.Student) error {
	q := builder().
		Insert(studentTable).
		Columns(studentColumns...).
		Values(st.ID, st.DeletionMark, st.Version,
			st.AdmissionNo, st.FirstName, st.LastName, st.Standard, st.Section, st.AcademicYear)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("student", "admission_no", st.AdmissionNo)
		}
		return apperror.NewDatabase(err)
	}
	return nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepo) GetByID(ctx context.Context, studentID id.ID) (*student.Student, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": studentID}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var st student.Student
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &st, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("student", studentID.String())
		}
		return nil, apperror.NewDatabase(err)
	}
	return &st, nil
}

// GetByAdmissionNo retrieves a student by admission number within a year.
func (r *StudentRepo) GetByAdmissionNo(ctx context.Context, admissionNo, academicYear string) (*student.Student, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"admission_no": admissionNo}).
		Where(squirrel.Eq{"academic_year": academicYear}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var st student.Student
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &st, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("student", admissionNo)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &st, nil
}

// Update modifies a student with optimistic locking.
func (r *StudentRepo) Update(ctx context.Context, st *student.Student) error {
	q := builder().
		Update(studentTable).
		Set("admission_no", st.AdmissionNo).
		Set("first_name", st.FirstName).
		Set("last_name", st.LastName).
		Set("standard", st.Standard).
		Set("section", st.Section).
		Set("academic_year", st.AcademicYear).
		Set("deletion_mark", st.DeletionMark).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": st.ID}).
		Where(squirrel.Eq{"version": st.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("student", "admission_no", st.AdmissionNo)
		}
		return apperror.NewDatabase(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("student", st.ID.String())
	}

	st.Version++
	return nil
}

// SetDeletionMark sets or clears the soft-delete mark.
func (r *StudentRepo) SetDeletionMark(ctx context.Context, studentID id.ID, marked bool) error {
	q := builder().
		Update(studentTable).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": studentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("student", studentID.String())
	}
	return nil
}

// List retrieves students with filtering and pagination.
func (r *StudentRepo) List(ctx context.Context, filter student.ListFilter) (domain.ListResult[*student.Student], error) {
	result := domain.ListResult[*student.Student]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	applyWhere := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if !filter.IncludeDeleted {
			q = q.Where(squirrel.Eq{"deletion_mark": false})
		}
		if filter.Standard != "" {
			q = q.Where(squirrel.Eq{"standard": filter.Standard})
		}
		if filter.AcademicYear != "" {
			q = q.Where(squirrel.Eq{"academic_year": filter.AcademicYear})
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where(squirrel.Or{
				squirrel.ILike{"first_name": like},
				squirrel.ILike{"last_name": like},
				squirrel.ILike{"admission_no": like},
			})
		}
		return q
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "admission_no"
	}

	q := applyWhere(r.baseSelect()).OrderBy(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, apperror.NewDatabase(err)
	}

	countQ := applyWhere(builder().Select("COUNT(*)").From(studentTable))
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewDatabase(err)
	}

	return result, nil
}

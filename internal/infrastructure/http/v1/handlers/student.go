package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// StudentHandler handles HTTP requests for the student catalog.
type StudentHandler struct {
	*BaseHandler
	service *student.Service
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(base *BaseHandler, service *student.Service) *StudentHandler {
	return &StudentHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/students.
func (h *StudentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	st := req.ToEntity()
	if err := h.service.Create(ctx, st); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStudent(st))
}

// GetByID handles GET /catalog/students/:id.
func (h *StudentHandler) GetByID(c *gin.Context) {
	studentID, ok := h.ParseID(c)
	if !ok {
		return
	}

	st, err := h.service.GetByID(c.Request.Context(), studentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStudent(st))
}

// GetByAdmissionNo handles GET /catalog/students/by-admission-no.
// The admission number is the operator-facing lookup key.
func (h *StudentHandler) GetByAdmissionNo(c *gin.Context) {
	admissionNo := c.Query("admissionNo")
	academicYear := c.Query("academicYear")

	st, err := h.service.GetByAdmissionNo(c.Request.Context(), admissionNo, academicYear)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStudent(st))
}

// Update handles PUT /catalog/students/:id.
func (h *StudentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	studentID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	st, err := h.service.GetByID(ctx, studentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(st)
	if err := h.service.Update(ctx, st); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStudent(st))
}

// SetDeletionMark handles PATCH /catalog/students/:id/deletion-mark.
func (h *StudentHandler) SetDeletionMark(c *gin.Context) {
	studentID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(c.Request.Context(), studentID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}

// List handles GET /catalog/students.
func (h *StudentHandler) List(c *gin.Context) {
	var q dto.StudentListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := q.ToFilter()
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromStudents(result.Items),
		TotalCount: result.TotalCount,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

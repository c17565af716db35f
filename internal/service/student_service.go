package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	List(ctx context.Context, page, limit int) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type classChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Age     int    `json:"age" validate:"required,gte=5,lte=25"`
	ClassID *int64 `json:"classId"`
}

// UpdateStudentRequest holds the partial payload for updating students.
// Absent fields keep their stored value.
type UpdateStudentRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2"`
	Age     *int    `json:"age" validate:"omitempty,gte=5,lte=25"`
	ClassID *int64  `json:"classId"`
}

// StudentService handles student use-cases.
type StudentService struct {
	students  studentRepository
	classes   classChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students studentRepository, classes classChecker, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, classes: classes, validator: validate, logger: logger}
}

// Create registers a new student, verifying the referenced class exists
// when one is supplied.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if req.ClassID != nil {
		if err := s.requireClass(ctx, *req.ClassID); err != nil {
			return nil, err
		}
	}

	student := &models.Student{
		Name:    req.Name,
		Age:     req.Age,
		ClassID: req.ClassID,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// List returns one page of students with pagination metadata. Limit is
// clamped to keep a single request from dumping the whole table.
func (s *StudentService) List(ctx context.Context, page, limit int) (*models.StudentPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	students, total, err := s.students.List(ctx, page, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return &models.StudentPage{
		Students: students,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Get returns a student with its class display fields.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Update applies the supplied fields to an existing student. A class
// reference in the payload is checked for existence before the write.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	detail, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if req.ClassID != nil {
		if err := s.requireClass(ctx, *req.ClassID); err != nil {
			return nil, err
		}
	}

	student := detail.Student
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Age != nil {
		student.Age = *req.Age
	}
	if req.ClassID != nil {
		student.ClassID = req.ClassID
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return &student, nil
}

// Delete removes a student. Students have no downstream references.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	exists, err := s.students.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

func (s *StudentService) requireClass(ctx context.Context, classID int64) error {
	exists, err := s.classes.Exists(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "Class not found")
	}
	return nil
}

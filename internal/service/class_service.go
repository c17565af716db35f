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

type classRepository interface {
	Create(ctx context.Context, class *models.Class) error
	List(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	CountStudents(ctx context.Context, classID int64) (int, error)
}

type classStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)
	SetClass(ctx context.Context, studentID, classID int64) error
	ListByClass(ctx context.Context, classID int64) ([]models.Student, error)
}

// CreateClassRequest holds payload for creating classes.
type CreateClassRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Section string `json:"section" validate:"required,min=1"`
}

// UpdateClassRequest holds the partial payload for updating classes.
type UpdateClassRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2"`
	Section *string `json:"section" validate:"omitempty,min=1"`
}

// EnrollStudentRequest assigns a student to the class in the route.
type EnrollStudentRequest struct {
	StudentID int64 `json:"studentId" validate:"required"`
}

// ClassService handles class use-cases including enrollment.
type ClassService struct {
	classes   classRepository
	students  classStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(classes classRepository, students classStudentRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, students: students, validator: validate, logger: logger}
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	class := &models.Class{Name: req.Name, Section: req.Section}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// List returns all classes, newest first.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns a single class.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Update applies the supplied fields to an existing class.
func (s *ClassService) Update(ctx context.Context, id int64, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Section != nil {
		class.Section = *req.Section
	}

	if err := s.classes.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class. A class with enrolled students cannot be
// deleted; students must be transferred first.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	exists, err := s.classes.Exists(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "Class not found")
	}

	enrolled, err := s.classes.CountStudents(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrolled students")
	}
	if enrolled > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Cannot delete class with enrolled students. Please transfer students first.")
	}

	if err := s.classes.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

// Enroll sets the student's class reference after verifying that both
// sides of the relationship exist.
func (s *ClassService) Enroll(ctx context.Context, classID int64, req EnrollStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	classExists, err := s.classes.Exists(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class")
	}
	if !classExists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
	}

	studentExists, err := s.students.Exists(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !studentExists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}

	if err := s.students.SetClass(ctx, req.StudentID, classID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Students returns a class together with its enrolled students.
func (s *ClassService) Students(ctx context.Context, classID int64) (*models.ClassStudents, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class students")
	}

	return &models.ClassStudents{
		Class:         *class,
		Students:      students,
		TotalStudents: len(students),
	}, nil
}

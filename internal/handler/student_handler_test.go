package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

type studentRepoStub struct {
	students map[int64]*models.StudentDetail
	nextID   int64
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{students: map[int64]*models.StudentDetail{}, nextID: 1}
}

func (s *studentRepoStub) Create(ctx context.Context, student *models.Student) error {
	student.ID = s.nextID
	s.nextID++
	s.students[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (s *studentRepoStub) List(ctx context.Context, page, limit int) ([]models.StudentDetail, int, error) {
	out := []models.StudentDetail{}
	for _, st := range s.students {
		out = append(out, *st)
	}
	return out, len(s.students), nil
}

func (s *studentRepoStub) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	detail, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (s *studentRepoStub) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.students[id]
	return ok, nil
}

func (s *studentRepoStub) Update(ctx context.Context, student *models.Student) error {
	s.students[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (s *studentRepoStub) Delete(ctx context.Context, id int64) error {
	delete(s.students, id)
	return nil
}

type classCheckerStub struct {
	classes map[int64]bool
}

func (s *classCheckerStub) Exists(ctx context.Context, id int64) (bool, error) {
	return s.classes[id], nil
}

func newStudentHandlerUnderTest() (*StudentHandler, *studentRepoStub) {
	gin.SetMode(gin.TestMode)
	repo := newStudentRepoStub()
	svc := service.NewStudentService(repo, &classCheckerStub{classes: map[int64]bool{1: true}}, nil, nil)
	return NewStudentHandler(svc), repo
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStudentHandlerCreate(t *testing.T) {
	handler, repo := newStudentHandlerUnderTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/students", bytes.NewBufferString(`{"name":"Bob","age":12,"classId":1}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Student created successfully", body["message"])
	assert.Len(t, repo.students, 1)
}

func TestStudentHandlerCreateValidation(t *testing.T) {
	handler, repo := newStudentHandlerUnderTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/students", bytes.NewBufferString(`{"name":"Bob","age":4}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotNil(t, body["errors"])
	assert.Empty(t, repo.students)
}

func TestStudentHandlerGetInvalidID(t *testing.T) {
	handler, _ := newStudentHandlerUnderTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/students/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	handler, _ := newStudentHandlerUnderTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/students/99", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Student not found", body["message"])
}

func TestStudentHandlerListDefaults(t *testing.T) {
	handler, repo := newStudentHandlerUnderTest()
	require.NoError(t, repo.Create(context.Background(), &models.Student{Name: "Bob", Age: 12}))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/students", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	pagination, ok := data["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(10), pagination["limit"])
	assert.Equal(t, float64(1), pagination["total"])
}

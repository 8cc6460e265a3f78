package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersul/copimanager/internal/application/service"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// stubWorkflow implements the step operations under test; everything
// else panics loudly if reached.
type stubWorkflow struct {
	service.WorkflowService
	updateStatusFunc func(ctx context.Context, id int64, status workflow.StepStatus, notes *string) (*entity.ServiceStep, error)
	assignFunc       func(ctx context.Context, stepID, employeeID int64) (*entity.ServiceStep, error)
}

func (s *stubWorkflow) UpdateStepStatus(ctx context.Context, id int64, status workflow.StepStatus, notes *string) (*entity.ServiceStep, error) {
	return s.updateStatusFunc(ctx, id, status, notes)
}

func (s *stubWorkflow) AssignEmployee(ctx context.Context, stepID, employeeID int64) (*entity.ServiceStep, error) {
	return s.assignFunc(ctx, stepID, employeeID)
}

func newTestRouter(wf service.WorkflowService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registerValidators()

	handlers := NewHandlers(Services{Workflow: wf}, noopLogger{})

	router := gin.New()
	router.PATCH("/api/steps/:id/status", handlers.UpdateStepStatus)
	router.PATCH("/api/steps/:id/assign", handlers.AssignEmployee)
	return router
}

func patchJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpdateStepStatus_OK(t *testing.T) {
	wf := &stubWorkflow{
		updateStatusFunc: func(ctx context.Context, id int64, status workflow.StepStatus, notes *string) (*entity.ServiceStep, error) {
			return &entity.ServiceStep{ID: id, Status: status}, nil
		},
	}
	router := newTestRouter(wf)

	w := patchJSON(t, router, "/api/steps/1/status", gin.H{"status": "COMPLETED"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestUpdateStepStatus_RejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(&stubWorkflow{})

	w := patchJSON(t, router, "/api/steps/1/status", gin.H{"status": "DONE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStepStatus_UnknownStepIs404(t *testing.T) {
	wf := &stubWorkflow{
		updateStatusFunc: func(ctx context.Context, id int64, status workflow.StepStatus, notes *string) (*entity.ServiceStep, error) {
			return nil, entity.NewNotFound("Service step", id)
		},
	}
	router := newTestRouter(wf)

	w := patchJSON(t, router, "/api/steps/99/status", gin.H{"status": "PENDING"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStepStatus_BadIDParam(t *testing.T) {
	router := newTestRouter(&stubWorkflow{})

	w := patchJSON(t, router, "/api/steps/abc/status", gin.H{"status": "PENDING"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignEmployee_InvalidReferenceIs422(t *testing.T) {
	wf := &stubWorkflow{
		assignFunc: func(ctx context.Context, stepID, employeeID int64) (*entity.ServiceStep, error) {
			return nil, entity.NewInvalidReference("employee", employeeID)
		},
	}
	router := newTestRouter(wf)

	w := patchJSON(t, router, "/api/steps/1/assign", gin.H{"employee_id": 42})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "employee")
}

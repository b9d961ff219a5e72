package v1beta1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/core/catalog/handler/v1beta1"
	"github.com/goto/jobtrail/internal/errors"
)

func TestExecutionHandler(t *testing.T) {
	logger := log.NewNoop()
	started := time.Date(2024, 1, 15, 16, 5, 0, 0, time.UTC)
	ended := started.Add(20 * time.Minute)

	serve := func(service v1beta1.ExecutionService, target string) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		v1beta1.NewExecutionHandler(logger, service).RegisterRoutes(router)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("GetExecutionsByPackage", func(t *testing.T) {
		t.Run("should return bad request when the package path is missing", func(t *testing.T) {
			service := new(mockExecutionService)
			defer service.AssertExpectations(t)

			rec := serve(service, "/ssis/executions-by-package")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "package path is required")
		})
		t.Run("should pass the failed only flag", func(t *testing.T) {
			service := new(mockExecutionService)
			defer service.AssertExpectations(t)
			path := `Finance\Ledger\Load.dtsx`
			service.On("GetExecutionsByPackage", mock.Anything, path, true).Return([]*catalog.Execution{
				{ID: 12, Folder: "Finance", Project: "Ledger", Package: "Load.dtsx", Status: catalog.ExecutionFailed, StartTime: started, EndTime: &ended},
				{ID: 11, Folder: "Finance", Project: "Ledger", Package: "Load.dtsx", Status: catalog.ExecutionRunning, StartTime: started.Add(-time.Hour)},
			}, nil)

			rec := serve(service, "/ssis/executions-by-package?failed_only=TRUE&package_path="+url.QueryEscape(path))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[
				{"execution_id": 12, "start_time": "2024-01-15 16:05:00", "end_time": "2024-01-15 16:25:00", "status": 4, "status_text": "Failed"},
				{"execution_id": 11, "start_time": "2024-01-15 15:05:00", "end_time": null, "status": 2, "status_text": "Running"}
			]`, rec.Body.String())
		})
		t.Run("should return bad request for a malformed path", func(t *testing.T) {
			service := new(mockExecutionService)
			defer service.AssertExpectations(t)
			service.On("GetExecutionsByPackage", mock.Anything, "Load.dtsx", false).
				Return(nil, errors.InvalidArgument(catalog.EntityPackageReference, "invalid package path format Load.dtsx"))

			rec := serve(service, "/ssis/executions-by-package?package_path=Load.dtsx")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	})
	t.Run("GetExecutionDetail", func(t *testing.T) {
		t.Run("should return bad request for an invalid id", func(t *testing.T) {
			rec := serve(new(mockExecutionService), "/ssis/execution/latest")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
		t.Run("should return not found for an unknown execution", func(t *testing.T) {
			service := new(mockExecutionService)
			defer service.AssertExpectations(t)
			service.On("GetExecutionDetail", mock.Anything, catalog.ExecutionID(99), false).
				Return(nil, errors.NotFound(catalog.EntityExecution, "no execution with id 99"))

			rec := serve(service, "/ssis/execution/99")

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
		t.Run("should render the overview and messages", func(t *testing.T) {
			service := new(mockExecutionService)
			defer service.AssertExpectations(t)
			detail := &catalog.ExecutionDetail{
				Execution: &catalog.Execution{ID: 12, Folder: "Finance", Project: "Ledger", Package: "Load.dtsx", Status: catalog.ExecutionSucceeded, StartTime: started, EndTime: &ended},
				Messages: []*catalog.OperationMessage{
					{ID: 3, Time: ended, Type: catalog.MessageInformation, Text: "Finished"},
				},
			}
			service.On("GetExecutionDetail", mock.Anything, catalog.ExecutionID(12), true).Return(detail, nil)

			rec := serve(service, "/ssis/execution/12?show_all=true")

			require.Equal(t, http.StatusOK, rec.Code)
			var resp struct {
				Overview map[string]any   `json:"overview"`
				Messages []map[string]any `json:"messages"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Succeeded", resp.Overview["status_text"])
			assert.Equal(t, `Ledger`, resp.Overview["project_name"])
			assert.Equal(t, "2024-01-15 16:25:00", resp.Overview["end_time"])
			require.Len(t, resp.Messages, 1)
			assert.EqualValues(t, 70, resp.Messages[0]["message_type"])
			assert.Equal(t, "Finished", resp.Messages[0]["message"])
		})
	})
}

type mockExecutionService struct {
	mock.Mock
}

func (m *mockExecutionService) GetExecutionsByPackage(ctx context.Context, packagePath string, failedOnly bool) ([]*catalog.Execution, error) {
	args := m.Called(ctx, packagePath, failedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Execution), args.Error(1)
}

func (m *mockExecutionService) GetExecutionDetail(ctx context.Context, id catalog.ExecutionID, showAll bool) (*catalog.ExecutionDetail, error) {
	args := m.Called(ctx, id, showAll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ExecutionDetail), args.Error(1)
}

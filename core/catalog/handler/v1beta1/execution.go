package v1beta1

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/internal/errors"
	"github.com/goto/jobtrail/internal/utils"
)

type ExecutionService interface {
	GetExecutionsByPackage(ctx context.Context, packagePath string, failedOnly bool) ([]*catalog.Execution, error)
	GetExecutionDetail(ctx context.Context, id catalog.ExecutionID, showAll bool) (*catalog.ExecutionDetail, error)
}

type ExecutionHandler struct {
	l       log.Logger
	service ExecutionService
}

func (h ExecutionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ssis/executions-by-package", h.GetExecutionsByPackage)
	r.Get("/ssis/execution/{execution_id}", h.GetExecutionDetail)
}

func (h ExecutionHandler) GetExecutionsByPackage(w http.ResponseWriter, r *http.Request) {
	packagePath := strings.TrimSpace(r.URL.Query().Get("package_path"))
	if packagePath == "" {
		utils.WriteError(w, errors.InvalidArgument(catalog.EntityPackageReference, "package path is required"), "unable to get executions")
		return
	}

	executions, err := h.service.GetExecutionsByPackage(r.Context(), packagePath, utils.QueryBool(r, "failed_only"))
	if err != nil {
		utils.WriteError(w, err, "unable to get executions of package "+packagePath)
		return
	}

	resp := make([]executionResponse, len(executions))
	for i, execution := range executions {
		resp[i] = toExecutionResponse(execution)
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h ExecutionHandler) GetExecutionDetail(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "execution_id")
	id, err := catalog.ExecutionIDFrom(rawID)
	if err != nil {
		h.l.Warn("error adapting execution id [%s]: %s", rawID, err)
		utils.WriteError(w, err, "unable to get execution "+rawID)
		return
	}

	detail, err := h.service.GetExecutionDetail(r.Context(), id, utils.QueryBool(r, "show_all"))
	if err != nil {
		utils.WriteError(w, err, "unable to get execution "+rawID)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toExecutionDetailResponse(detail))
}

func NewExecutionHandler(l log.Logger, service ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{
		l:       l,
		service: service,
	}
}

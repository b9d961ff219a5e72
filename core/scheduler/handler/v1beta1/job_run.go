package v1beta1

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
	"github.com/goto/jobtrail/internal/utils"
)

// MaxLookbackDays bounds the days parameter of listing endpoints
const MaxLookbackDays = 366

type JobRunService interface {
	GetStepTimeline(ctx context.Context, instanceID scheduler.InstanceID) (*scheduler.RunTimeline, error)
	GetJobRuns(ctx context.Context, filter scheduler.RunFilter) ([]*scheduler.JobRunReport, error)
	GetJobHistory(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryEntry, error)
	GetStepExecutionRefs(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.StepExecutionRef, error)
}

type JobRunHandler struct {
	l       log.Logger
	service JobRunService
}

func (h JobRunHandler) RegisterRoutes(r chi.Router) {
	r.Get("/jobs", h.GetJobRuns)
	r.Get("/job/steps/{instance_id}", h.GetStepTimeline)
	r.Get("/job/history/{job_name}", h.GetJobHistory)
	r.Get("/job/ssis-executions/{job_name}", h.GetStepExecutionRefs)
}

// GetJobRuns lists run outcomes of the last days, days=0 is today only
func (h JobRunHandler) GetJobRuns(w http.ResponseWriter, r *http.Request) {
	filter, err := runFilterFrom(r)
	if err != nil {
		h.l.Warn("invalid job runs request: %s", err)
		utils.WriteError(w, err, "unable to get job runs")
		return
	}

	reports, err := h.service.GetJobRuns(r.Context(), filter)
	if err != nil {
		h.l.Error("error getting job runs: %s", err)
		utils.WriteError(w, err, "unable to get job runs")
		return
	}

	runs := make([]jobRunResponse, len(reports))
	for i, report := range reports {
		runs[i] = toJobRunResponse(report)
	}
	utils.WriteJSON(w, http.StatusOK, runs)
}

func (h JobRunHandler) GetStepTimeline(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "instance_id")
	instanceID, err := scheduler.InstanceIDFrom(rawID)
	if err != nil {
		h.l.Warn("error adapting instance id [%s]: %s", rawID, err)
		utils.WriteError(w, err, "unable to get steps of run "+rawID)
		return
	}

	timeline, err := h.service.GetStepTimeline(r.Context(), instanceID)
	if err != nil {
		h.l.Error("error getting steps of run [%d]: %s", instanceID, err)
		utils.WriteError(w, err, "unable to get steps of run "+rawID)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toTimelineResponse(timeline))
}

func (h JobRunHandler) GetJobHistory(w http.ResponseWriter, r *http.Request) {
	jobName, err := scheduler.JobNameFrom(chi.URLParam(r, "job_name"))
	if err != nil {
		utils.WriteError(w, err, "unable to get job history")
		return
	}

	entries, err := h.service.GetJobHistory(r.Context(), jobName)
	if err != nil {
		h.l.Error("error getting history of job [%s]: %s", jobName, err)
		utils.WriteError(w, err, "unable to get history of job "+jobName.String())
		return
	}

	history := make([]historyResponse, len(entries))
	for i, entry := range entries {
		history[i] = toHistoryResponse(entry)
	}
	utils.WriteJSON(w, http.StatusOK, history)
}

func (h JobRunHandler) GetStepExecutionRefs(w http.ResponseWriter, r *http.Request) {
	jobName, err := scheduler.JobNameFrom(chi.URLParam(r, "job_name"))
	if err != nil {
		utils.WriteError(w, err, "unable to get execution references")
		return
	}

	refs, err := h.service.GetStepExecutionRefs(r.Context(), jobName)
	if err != nil {
		h.l.Error("error getting execution references of job [%s]: %s", jobName, err)
		utils.WriteError(w, err, "unable to get execution references of job "+jobName.String())
		return
	}

	resp := make([]stepExecutionRefResponse, len(refs))
	for i, ref := range refs {
		resp[i] = toStepExecutionRefResponse(ref)
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func runFilterFrom(r *http.Request) (scheduler.RunFilter, error) {
	days, err := daysFrom(r)
	if err != nil {
		return scheduler.RunFilter{}, err
	}
	return scheduler.RunFilter{
		Days:     days,
		Category: r.URL.Query().Get("category"),
	}, nil
}

func daysFrom(r *http.Request) (int, error) {
	days, err := utils.QueryInt(r, "days", 0)
	if err != nil {
		return 0, err
	}
	if err := validation.Validate(days, validation.Min(0), validation.Max(MaxLookbackDays)); err != nil {
		return 0, errors.InvalidArgument(scheduler.EntityJobRun, "days "+err.Error())
	}
	return days, nil
}

func NewJobRunHandler(l log.Logger, service JobRunService) *JobRunHandler {
	return &JobRunHandler{
		l:       l,
		service: service,
	}
}

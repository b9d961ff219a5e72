package v1beta1

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/utils"
)

type StatsService interface {
	GetStats(ctx context.Context, days int) (*scheduler.JobStats, error)
	GetCategories(ctx context.Context) ([]string, error)
}

type StatsHandler struct {
	l               log.Logger
	service         StatsService
	defaultCategory string
}

func (h StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/jobs/stats", h.GetStats)
	r.Get("/categories", h.GetCategories)
	r.Get("/config", h.GetConfig)
}

func (h StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	days, err := daysFrom(r)
	if err != nil {
		utils.WriteError(w, err, "unable to get job stats")
		return
	}

	stats, err := h.service.GetStats(r.Context(), days)
	if err != nil {
		h.l.Error("error getting job stats for [%d] days: %s", days, err)
		utils.WriteError(w, err, "unable to get job stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toStatsResponse(stats))
}

func (h StatsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		h.l.Error("error getting categories: %s", err)
		utils.WriteError(w, err, "unable to get categories")
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

// GetConfig exposes the settings the dashboard needs on load
func (h StatsHandler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"default_category": h.defaultCategory,
	})
}

func NewStatsHandler(l log.Logger, service StatsService, defaultCategory string) *StatsHandler {
	return &StatsHandler{
		l:               l,
		service:         service,
		defaultCategory: defaultCategory,
	}
}

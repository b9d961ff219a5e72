package v1beta1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/internal/utils"
)

type VersionHandler struct {
	l       log.Logger
	version string
	commit  string
}

type versionResponse struct {
	Server string `json:"server"`
	Commit string `json:"commit,omitempty"`
}

func (h VersionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/version", h.Version)
}

func (h VersionHandler) Version(w http.ResponseWriter, r *http.Request) {
	if client := r.URL.Query().Get("client"); client != "" {
		h.l.Info("client with version %s requested for ping", client)
	}
	utils.WriteJSON(w, http.StatusOK, versionResponse{Server: h.version, Commit: h.commit})
}

func NewVersionHandler(l log.Logger, version, commit string) *VersionHandler {
	return &VersionHandler{
		l:       l,
		version: version,
		commit:  commit,
	}
}

package v1beta1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/config"
	"github.com/goto/jobtrail/internal/errors"
	"github.com/goto/jobtrail/internal/store/mssql"
	"github.com/goto/jobtrail/internal/utils"
)

const connectionTestTimeout = 15 * time.Second

// ConnectionHandler reports whether the configured database answers
type ConnectionHandler struct {
	l    log.Logger
	db   *sql.DB
	conf config.DBConfig
	mode mssql.AuthMode
}

type connectionResponse struct {
	Status     string `json:"status"`
	Server     string `json:"server"`
	Database   string `json:"database"`
	AuthMethod string `json:"auth_method"`
	SQLVersion string `json:"sql_version,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorType  string `json:"type,omitempty"`
}

func (h ConnectionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/test-connection", h.TestConnection)
}

func (h ConnectionHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), connectionTestTimeout)
	defer cancel()

	resp := connectionResponse{
		Server:     h.conf.Server,
		Database:   h.conf.Database,
		AuthMethod: string(h.mode),
	}

	version, err := h.check(ctx)
	if err != nil {
		h.l.Error("connection test against [%s] failed: %s", h.conf.Server, err)
		resp.Status = "failed"
		resp.Error = err.Error()
		resp.ErrorType = errorType(err)
		utils.WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	resp.Status = "connected"
	resp.SQLVersion = version
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h ConnectionHandler) check(ctx context.Context) (string, error) {
	if err := mssql.Ping(ctx, h.db); err != nil {
		return "", err
	}
	return mssql.ServerVersion(ctx, h.db)
}

func errorType(err error) string {
	var de *errors.DomainError
	if errors.As(err, &de) {
		return de.ErrorType.String()
	}
	return errors.ErrInternalError.String()
}

func NewConnectionHandler(l log.Logger, db *sql.DB, conf config.DBConfig, mode mssql.AuthMode) *ConnectionHandler {
	return &ConnectionHandler{
		l:    l,
		db:   db,
		conf: conf,
		mode: mode,
	}
}

package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/config"
	catalogHandler "github.com/goto/jobtrail/core/catalog/handler/v1beta1"
	schedulerHandler "github.com/goto/jobtrail/core/scheduler/handler/v1beta1"
	"github.com/goto/jobtrail/internal/store/mssql"
	"github.com/goto/jobtrail/internal/telemetry"
	"github.com/goto/jobtrail/internal/utils"
	oHandler "github.com/goto/jobtrail/server/handler/v1beta1"
)

const (
	readHeaderTimeout = 10 * time.Second
	defaultShutdown   = 30 * time.Second

	probeAttempts = 3
	probeBackoff  = time.Second
	probeTimeout  = 30 * time.Second
)

type setupFn func() error

type JobTrailServer struct {
	conf   *config.ServerConfig
	logger log.Logger

	db       *sql.DB
	conn     mssql.Connection
	location *time.Location

	httpAddr   string
	httpServer *http.Server
	handlers   []RouteRegistrar

	cleanupFn []func()
}

func New(conf *config.ServerConfig) (*JobTrailServer, error) {
	server := &JobTrailServer{
		conf:     conf,
		httpAddr: fmt.Sprintf(":%d", conf.Serve.Port),
		logger:   NewLogger(conf.Log),
	}

	setupFns := []setupFn{
		server.setupLocation,
		server.setupTelemetry,
		server.setupDB,
		server.setupHandlers,
		server.setupHTTPServer,
	}

	for _, fn := range setupFns {
		if err := fn(); err != nil {
			return server, err
		}
	}

	server.logger.Info("Starting JobTrail", "version", config.BuildVersion)
	server.startListening()

	return server, nil
}

func (s *JobTrailServer) setupLocation() error {
	loc, err := s.conf.Scheduler.Location()
	if err != nil {
		return fmt.Errorf("invalid scheduler timezone: %w", err)
	}
	s.location = loc
	return nil
}

func (s *JobTrailServer) setupTelemetry() error {
	teleShutdown, err := telemetry.Init(s.logger, s.conf.Telemetry)
	if err != nil {
		return err
	}

	s.cleanupFn = append(s.cleanupFn, teleShutdown)
	return nil
}

// setupDB opens the pool, an unreachable server is logged and only fails requests and /readyz
func (s *JobTrailServer) setupDB() error {
	conn, err := mssql.NewConnection(s.conf.Serve.DB)
	if err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	s.conn = conn

	s.db, err = mssql.Open(s.conf.Serve.DB)
	if err != nil {
		return fmt.Errorf("mssql.Open: %w", err)
	}

	s.logger.Info("database configured", "server", s.conf.Serve.DB.Server, "auth", string(conn.Mode))
	s.probeDB()
	return nil
}

func (s *JobTrailServer) probeDB() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	err := utils.Retry(ctx, s.logger, probeAttempts, probeBackoff, s.ping)
	if err != nil {
		s.logger.Warn("database is not reachable yet: %s", err)
	}
}

// ping reports database reachability, mirrored in the jobtrail_database_up gauge
func (s *JobTrailServer) ping(ctx context.Context) error {
	up := telemetry.NewGauge("jobtrail_database_up", nil)
	if err := mssql.Ping(ctx, s.db); err != nil {
		up.Set(0)
		return err
	}
	up.Set(1)
	return nil
}

func (s *JobTrailServer) setupHandlers() error {
	engine := NewEngine(s.logger, s.db, s.conf.Scheduler, s.location)

	s.handlers = []RouteRegistrar{
		schedulerHandler.NewJobRunHandler(s.logger, engine.JobRuns),
		schedulerHandler.NewStatsHandler(s.logger, engine.Stats, s.conf.Scheduler.DefaultCategory),
		catalogHandler.NewExecutionHandler(s.logger, engine.Executions),
		oHandler.NewConnectionHandler(s.logger, s.db, s.conf.Serve.DB, s.conn.Mode),
		oHandler.NewVersionHandler(s.logger, config.BuildVersion, config.BuildCommit),
	}
	return nil
}

func (s *JobTrailServer) setupHTTPServer() error {
	router := NewRouter(s.logger, RouterOptions{
		AllowedOrigins:    s.conf.Serve.AllowedOrigins,
		RequestsPerMinute: s.conf.Serve.RequestsPerMinute,
		Ready:             s.ping,
		Handlers:          s.handlers,
	})

	s.httpServer = &http.Server{
		Addr:              s.httpAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return nil
}

func (s *JobTrailServer) startListening() {
	go func() {
		s.logger.Info("Listening at", "address", s.httpAddr)
		if err := s.httpServer.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				s.logger.Fatal("server error", "error", err)
			}
		}
	}()
}

func (s *JobTrailServer) Shutdown() {
	s.logger.Warn("Shutting down server")
	if s.httpServer != nil {
		wait := s.conf.Serve.ShutdownTimeout
		if wait <= 0 {
			wait = defaultShutdown
		}
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("error in http server shutdown: %s", err)
		}
	}

	for _, fn := range s.cleanupFn {
		fn()
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("error closing database: %s", err)
		}
	}

	s.logger.Info("Server shutdown complete")
}

package internal

import (
	"database/sql"
	"time"

	"github.com/goto/salt/log"
	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal/logger"
	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/config"
	"github.com/goto/jobtrail/internal/store/mssql"
	"github.com/goto/jobtrail/server"
)

const DefaultTimeout = 2 * time.Minute

// Options are the flags shared by every inspection command
type Options struct {
	ConfigFilePath string
	Output         string
	Timeout        time.Duration
}

func (o *Options) InjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.ConfigFilePath, "config", "c", "", "File path for jobtrail configuration")
	cmd.Flags().StringVarP(&o.Output, "output", "o", string(printer.FormatTable), "Output format: table, tree, json or yaml")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", DefaultTimeout, "Timeout of the database reads")
}

// Session is a database backed engine opened for a single command
type Session struct {
	Engine   *server.Engine
	Location *time.Location
	Format   printer.Format
	Logger   log.Logger

	db *sql.DB
}

func NewSession(opts Options) (*Session, error) {
	format, err := printer.FormatFrom(opts.Output)
	if err != nil {
		return nil, err
	}

	conf, err := config.LoadServerConfig(opts.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	loc, err := conf.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	db, err := mssql.Open(conf.Serve.DB)
	if err != nil {
		return nil, err
	}

	l := logger.NewClientLogger(conf.Log.Level)
	return &Session{
		Engine:   server.NewEngine(l, db, conf.Scheduler, loc),
		Location: loc,
		Format:   format,
		Logger:   l,
		db:       db,
	}, nil
}

func (s *Session) Close() error {
	return s.db.Close()
}

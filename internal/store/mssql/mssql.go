package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // registers the sqlserver driver
	"github.com/microsoft/go-mssqldb/azuread"

	"github.com/goto/jobtrail/config"
	"github.com/goto/jobtrail/internal/errors"
)

const (
	EntityConnection = "connection"

	driverSQLServer = "sqlserver"

	fedAuthInteractive = "ActiveDirectoryInteractive"
	fedAuthDefault     = "ActiveDirectoryDefault"
	fedAuthPassword    = "ActiveDirectoryPassword"

	versionPreviewLength = 100
)

// AuthMode describes how the connection authenticates, shown by the connection test
type AuthMode string

const (
	AuthModeSQL       AuthMode = "SQL Server Authentication"
	AuthModeWindows   AuthMode = "Windows Authentication"
	AuthModeAzureAD   AuthMode = "Azure AD Interactive"
	AuthModeAzureAuto AuthMode = "Azure AD Default Credentials"
	AuthModeAzurePass AuthMode = "Azure AD Password"
)

type Connection struct {
	Driver string
	DSN    string
	Mode   AuthMode
}

// NewConnection builds the driver name and dsn for the configured auth method.
// sql falls back to Windows authentication when username or password is missing.
func NewConnection(conf config.DBConfig) (Connection, error) {
	host, instance, port := splitServer(conf.Server)
	if conf.Port > 0 {
		port = conf.Port
	}
	if host == "" {
		return Connection{}, errors.InvalidArgument(EntityConnection, "database server is empty")
	}

	dsn := &url.URL{
		Scheme: driverSQLServer,
		Host:   host,
	}
	if port > 0 {
		dsn.Host = host + ":" + strconv.Itoa(port)
	}
	if instance != "" {
		dsn.Path = instance
	}

	query := url.Values{}
	query.Set("database", conf.Database)
	if conf.AppName != "" {
		query.Set("app name", conf.AppName)
	}

	conn := Connection{Driver: driverSQLServer}
	switch conf.AuthMethod {
	case config.AuthAzureAD, config.AuthSSO:
		conn.Driver = azuread.DriverName
		conn.Mode = AuthModeAzureAD
		query.Set("fedauth", fedAuthInteractive)
		if conf.Username != "" {
			query.Set("user id", conf.Username)
		}
	case config.AuthAzureADIntegrated:
		conn.Driver = azuread.DriverName
		conn.Mode = AuthModeAzureAuto
		query.Set("fedauth", fedAuthDefault)
	case config.AuthAzureADPassword:
		if conf.Username == "" || conf.Password == "" {
			return Connection{}, errors.InvalidArgument(EntityConnection, "username and password are required for "+conf.AuthMethod)
		}
		conn.Driver = azuread.DriverName
		conn.Mode = AuthModeAzurePass
		query.Set("fedauth", fedAuthPassword)
		if conf.ClientID != "" {
			query.Set("applicationclientid", conf.ClientID)
		}
		dsn.User = url.UserPassword(conf.Username, conf.Password)
	case config.AuthWindows:
		conn.Mode = AuthModeWindows
	default:
		if conf.Username != "" && conf.Password != "" {
			conn.Mode = AuthModeSQL
			dsn.User = url.UserPassword(conf.Username, conf.Password)
		} else {
			conn.Mode = AuthModeWindows
		}
	}

	dsn.RawQuery = query.Encode()
	conn.DSN = dsn.String()
	return conn, nil
}

// splitServer accepts host, host\instance and host,port
func splitServer(server string) (string, string, int) {
	server = strings.TrimSpace(server)
	var port int
	if host, rawPort, ok := strings.Cut(server, ","); ok {
		server = host
		port, _ = strconv.Atoi(strings.TrimSpace(rawPort))
	}
	host, instance, _ := strings.Cut(server, `\`)
	return host, instance, port
}

func Open(conf config.DBConfig) (*sql.DB, error) {
	conn, err := NewConnection(conf)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(conn.Driver, conn.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetMaxOpenConns(conf.MaxOpenConnection)
	db.SetMaxIdleConns(conf.MaxIdleConnection)
	db.SetConnMaxLifetime(conf.ConnMaxLifetime)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return UpstreamError(EntityConnection, "unable to reach database", err)
	}
	return nil
}

// ServerVersion returns the leading part of @@VERSION
func ServerVersion(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT @@VERSION").Scan(&version); err != nil {
		return "", UpstreamError(EntityConnection, "unable to read server version", err)
	}

	runes := []rune(version)
	if len(runes) > versionPreviewLength {
		return string(runes[:versionPreviewLength]), nil
	}
	return version, nil
}

// UpstreamError wraps a driver failure, server errors carry their error number in the message
func UpstreamError(entity, msg string, err error) error {
	if number := errors.MSSQLErrorNumber(err); number != 0 {
		msg = fmt.Sprintf("%s (error %d)", msg, number)
	}
	switch {
	case errors.IsMSSQLErrorNumber(err, errors.ErrMSSQLLoginFailed):
		msg += ", check the credentials for the configured auth method"
	case errors.IsMSSQLErrorNumber(err, errors.ErrMSSQLPermissionDenied),
		errors.IsMSSQLErrorNumber(err, errors.ErrMSSQLInvalidObjectName):
		msg += ", the login needs read access to msdb and SSISDB"
	}
	return errors.UpstreamFailure(entity, msg, err)
}

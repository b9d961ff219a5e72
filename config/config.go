package config

import (
	// named zones resolve on hosts without a zone database
	_ "time/tzdata"
)

var (
	BuildVersion = "dev"
	BuildCommit  = ""
	BuildDate    = ""
)

type LogLevel string

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelFatal   LogLevel = "FATAL"
)

func (l LogLevel) String() string {
	return string(l)
}

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

type LogConfig struct {
	Level  LogLevel `mapstructure:"level"`
	Format string   `mapstructure:"format"`
}

// Authentication methods of the SQL Server connection
const (
	AuthSQL               = "sql" // falls back to windows when no credentials are set
	AuthWindows           = "windows"
	AuthAzureAD           = "azuread"
	AuthSSO               = "sso"
	AuthAzureADIntegrated = "azuread_integrated"
	AuthAzureADPassword   = "azuread_password"
)

var AuthMethods = []interface{}{
	AuthSQL,
	AuthWindows,
	AuthAzureAD,
	AuthSSO,
	AuthAzureADIntegrated,
	AuthAzureADPassword,
}

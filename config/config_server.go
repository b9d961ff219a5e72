package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ServerConfig struct {
	Log       LogConfig       `mapstructure:"log"`
	Serve     Serve           `mapstructure:"serve"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type Serve struct {
	Port              int           `mapstructure:"port"` // port to listen on
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"` // per client ip, 0 disables rate limiting
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	DB                DBConfig      `mapstructure:"db"`
}

type DBConfig struct {
	Server            string        `mapstructure:"server"` // host or host\instance
	Port              int           `mapstructure:"port"`
	Database          string        `mapstructure:"database"`
	Username          string        `mapstructure:"username"`
	Password          string        `mapstructure:"password"`
	AuthMethod        string        `mapstructure:"auth_method"`
	ClientID          string        `mapstructure:"client_id"` // azure application client id, azuread_password only
	AppName           string        `mapstructure:"app_name"`
	MaxOpenConnection int           `mapstructure:"max_open_connection"` // maximum allowed open DB connections
	MaxIdleConnection int           `mapstructure:"max_idle_connection"`
	ConnMaxLifetime   time.Duration `mapstructure:"conn_max_lifetime"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"` // tracing is disabled when empty
}

// SchedulerConfig holds the typed values the reconciliation engine receives, it never reads the environment itself
type SchedulerConfig struct {
	Timezone              string        `mapstructure:"timezone"` // wall clock zone of the agent history
	DefaultCategory       string        `mapstructure:"default_category"`
	CorrelationSlack      time.Duration `mapstructure:"correlation_slack"`
	TrendThresholdPercent float64       `mapstructure:"trend_threshold_percent"`
}

func (c SchedulerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Log),
		validation.Field(&c.Serve),
		validation.Field(&c.Scheduler),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelFatal)),
		validation.Field(&l.Format, validation.In(LogFormatJSON, LogFormatText)),
	)
}

func (s Serve) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.RequestsPerMinute, validation.Min(0)),
		validation.Field(&s.DB),
	)
}

func (d DBConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Server, validation.Required),
		validation.Field(&d.Database, validation.Required),
		validation.Field(&d.AuthMethod, validation.Required, validation.In(AuthMethods...)),
		validation.Field(&d.Username, validation.When(d.AuthMethod == AuthAzureADPassword, validation.Required)),
		validation.Field(&d.Password, validation.When(d.AuthMethod == AuthAzureADPassword, validation.Required)),
	)
}

func (c SchedulerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timezone, validation.Required, validation.By(validTimezone)),
		validation.Field(&c.CorrelationSlack, validation.Min(time.Duration(0))),
		validation.Field(&c.TrendThresholdPercent, validation.Min(0.0)),
	)
}

func validTimezone(value interface{}) error {
	name, _ := value.(string)
	if _, err := time.LoadLocation(name); err != nil {
		return validation.NewError("validation_timezone", "unknown time zone "+name)
	}
	return nil
}

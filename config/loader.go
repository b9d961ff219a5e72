package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "JOBTRAIL"
	DefaultFilename = "jobtrail"
	DefaultFileType = "yaml"

	DefaultPort     = 5000
	DefaultTimezone = "America/Chicago"
)

// legacyEnv are the plain variable names accepted next to the prefixed ones
var legacyEnv = map[string]string{
	"serve.db.server":            "DB_SERVER",
	"serve.db.database":          "DB_DATABASE",
	"serve.db.username":          "DB_USERNAME",
	"serve.db.password":          "DB_PASSWORD",
	"serve.db.auth_method":       "AUTH_METHOD",
	"scheduler.default_category": "DEFAULT_CATEGORY",
	"telemetry.otlp_endpoint":    "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// LoadServerConfig reads the optional config file, then .env and the environment on top of it.
// An empty path looks for jobtrail.yaml in the working directory and accepts its absence.
func LoadServerConfig(filePath string) (*ServerConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := readConfigFile(v, filePath); err != nil {
		return nil, err
	}

	conf := &ServerConfig{}
	if err := v.Unmarshal(conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	conf.Log.Level = LogLevel(strings.ToUpper(conf.Log.Level.String()))
	conf.Serve.DB.AuthMethod = strings.ToLower(conf.Serve.DB.AuthMethod)

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return conf, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", LogLevelInfo.String())
	v.SetDefault("log.format", LogFormatJSON)

	v.SetDefault("serve.port", DefaultPort)
	v.SetDefault("serve.allowed_origins", []string{"*"})
	v.SetDefault("serve.requests_per_minute", 0)
	v.SetDefault("serve.shutdown_timeout", "30s")

	v.SetDefault("serve.db.server", "localhost")
	v.SetDefault("serve.db.port", 0)
	v.SetDefault("serve.db.database", "msdb")
	v.SetDefault("serve.db.username", "")
	v.SetDefault("serve.db.password", "")
	v.SetDefault("serve.db.auth_method", AuthSQL)
	v.SetDefault("serve.db.client_id", "")
	v.SetDefault("serve.db.app_name", "jobtrail")
	v.SetDefault("serve.db.max_open_connection", 10)
	v.SetDefault("serve.db.max_idle_connection", 2)
	v.SetDefault("serve.db.conn_max_lifetime", "30m")

	v.SetDefault("telemetry.service_name", "jobtrail")
	v.SetDefault("telemetry.otlp_endpoint", "")

	v.SetDefault("scheduler.timezone", DefaultTimezone)
	v.SetDefault("scheduler.default_category", "")
	v.SetDefault("scheduler.correlation_slack", "2m")
	v.SetDefault("scheduler.trend_threshold_percent", 20.0)
}

func bindLegacyEnv(v *viper.Viper) error {
	for key, name := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", name, err)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, filePath string) error {
	if filePath != "" {
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", filePath, err)
		}
		return nil
	}

	v.SetConfigName(DefaultFilename)
	v.SetConfigType(DefaultFileType)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

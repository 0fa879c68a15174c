package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// FileName is the JSON config file looked up in the config directory.
	FileName = "pluginfield4.cfg.json"

	// EnvPrefix prefixes environment overrides, e.g. PLUGINFIELD4_API_APIKEY.
	EnvPrefix = "PLUGINFIELD4"
)

// APIConfig holds the remote collector settings.
type APIConfig struct {
	ServerURL string        `json:"serverUrl" mapstructure:"serverUrl"`
	APIKey    string        `json:"apiKey" mapstructure:"apiKey"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
}

// DispatchConfig holds the delivery queue settings.
type DispatchConfig struct {
	Workers     int           `json:"workers" mapstructure:"workers"`
	QueueSize   int           `json:"queueSize" mapstructure:"queueSize"`
	Blocking    bool          `json:"blocking" mapstructure:"blocking"`
	ArrayMode   string        `json:"arrayMode" mapstructure:"arrayMode"`
	SendTimeout time.Duration `json:"sendTimeout" mapstructure:"sendTimeout"` // per request, 0 keeps api.timeout only
}

// BridgeConfig holds where notifications are read from. Input "-" is stdin.
type BridgeConfig struct {
	Input  string `json:"input" mapstructure:"input"`
	Follow bool   `json:"follow" mapstructure:"follow"`
}

// HTTPConfig holds the notification endpoint settings.
type HTTPConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// GraylogConfig holds the GELF log sink settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("api.serverUrl", "https://edf7972db9ea633a52a187e67c8c66d2.m.pipedream.net")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.timeout", "30s")

	viper.SetDefault("dispatch.workers", 4)
	viper.SetDefault("dispatch.queueSize", 1000)
	viper.SetDefault("dispatch.blocking", false)
	viper.SetDefault("dispatch.arrayMode", "legacy")
	viper.SetDefault("dispatch.sendTimeout", "0s")

	viper.SetDefault("bridge.input", "-")
	viper.SetDefault("bridge.follow", false)

	viper.SetDefault("http.enabled", false)
	viper.SetDefault("http.address", ":8089")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "pluginfield4")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load sets defaults, loads configDir/.env into the environment and reads
// the JSON config file. Environment variables override the file. A missing
// config file or .env is not an error.
func Load(configDir string) error {
	setDefaults()

	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// Set overrides a value, e.g. from a command line flag.
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

func GetAPIConfig() APIConfig {
	return APIConfig{
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
		Timeout:   viper.GetDuration("api.timeout"),
	}
}

func GetDispatchConfig() DispatchConfig {
	return DispatchConfig{
		Workers:     viper.GetInt("dispatch.workers"),
		QueueSize:   viper.GetInt("dispatch.queueSize"),
		Blocking:    viper.GetBool("dispatch.blocking"),
		ArrayMode:   viper.GetString("dispatch.arrayMode"),
		SendTimeout: viper.GetDuration("dispatch.sendTimeout"),
	}
}

func GetBridgeConfig() BridgeConfig {
	return BridgeConfig{
		Input:  viper.GetString("bridge.input"),
		Follow: viper.GetBool("bridge.follow"),
	}
}

func GetHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Enabled: viper.GetBool("http.enabled"),
		Address: viper.GetString("http.address"),
	}
}

func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

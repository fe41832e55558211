// Package config handles gateway configuration loading from a YAML file with
// environment variable overrides.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	contextutils "translategw/internal/utils"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the translation gateway
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Upstream inference endpoint configuration
	Upstream UpstreamConfig `json:"upstream" yaml:"upstream"`

	// Translation cache configuration
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// OpenTelemetry configuration
	OpenTelemetry OpenTelemetryConfig `json:"open_telemetry" yaml:"open_telemetry"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port        string   `json:"port" yaml:"port"`
	Debug       bool     `json:"debug" yaml:"debug"`
	LogLevel    string   `json:"log_level" yaml:"log_level"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`
}

// UpstreamConfig represents the remote inference endpoint configuration.
// Endpoint is either a full URL or a Hugging Face space id ("owner/space").
type UpstreamConfig struct {
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	AccessToken string `json:"access_token" yaml:"access_token"`
	// APIName is the Gradio API route to invoke, e.g. "/predict".
	APIName        string        `json:"api_name" yaml:"api_name"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	// ForwardMaxLength controls whether the request's max_length field is
	// passed through to the upstream predict call.
	ForwardMaxLength bool `json:"forward_max_length" yaml:"forward_max_length"`
	// BreakerThreshold is the number of consecutive upstream failures after
	// which the circuit breaker opens. 0 disables the breaker.
	BreakerThreshold int `json:"breaker_threshold" yaml:"breaker_threshold"`
}

// CacheConfig represents translation cache configuration
type CacheConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Backend is either "memory" or "redis"
	Backend   string        `json:"backend" yaml:"backend"`
	RedisAddr string        `json:"redis_addr" yaml:"redis_addr"`
	TTL       time.Duration `json:"ttl" yaml:"ttl"`
}

// OpenTelemetryConfig holds all OpenTelemetry-related configuration
type OpenTelemetryConfig struct {
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`               // Default: "localhost:4317"
	Protocol       string            `json:"protocol" yaml:"protocol"`               // "grpc" or "http", default: "grpc"
	Insecure       bool              `json:"insecure" yaml:"insecure"`               // Default: true (for localhost)
	Headers        map[string]string `json:"headers" yaml:"headers"`                 // For authenticated endpoints
	ServiceName    string            `json:"service_name" yaml:"service_name"`       // Default: "translation-gateway"
	ServiceVersion string            `json:"service_version" yaml:"service_version"` // From version package
	EnableTracing  bool              `json:"enable_tracing" yaml:"enable_tracing"`
	EnableMetrics  bool              `json:"enable_metrics" yaml:"enable_metrics"`
	EnableLogging  bool              `json:"enable_logging" yaml:"enable_logging"`
	SamplingRate   float64           `json:"sampling_rate" yaml:"sampling_rate"` // Default: 1.0 (100%)
}

// NewConfig loads configuration from the YAML file (if present), applies
// defaults, then overrides with environment variables.
func NewConfig() (result0 *Config, err error) {
	config, err := loadConfigWithOverrides()
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config: %v", err)
	}

	config.applyDefaults()
	config.overrideFromEnv()

	return config, nil
}

// applyDefaults fills in zero-valued fields with sensible defaults
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Upstream.Endpoint == "" {
		c.Upstream.Endpoint = DefaultUpstreamEndpoint
	}
	if c.Upstream.APIName == "" {
		c.Upstream.APIName = DefaultUpstreamAPIName
	}
	if c.Upstream.RequestTimeout <= 0 {
		c.Upstream.RequestTimeout = DefaultUpstreamTimeout
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.OpenTelemetry.ServiceName == "" {
		c.OpenTelemetry.ServiceName = DefaultServiceName
	}
	if c.OpenTelemetry.SamplingRate <= 0 {
		c.OpenTelemetry.SamplingRate = 1.0
	}
}

// overrideFromEnv overrides config values with environment variables using reflection
func (c *Config) overrideFromEnv() {
	overrideStructFromEnvWithPrefix(c, "")
}

// overrideStructFromEnvWithPrefix recursively overrides struct fields with
// environment variables derived from yaml tags (e.g. SERVER_PORT,
// UPSTREAM_ACCESS_TOKEN, CACHE_REDIS_ADDR).
func overrideStructFromEnvWithPrefix(v interface{}, prefix string) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}

		yamlTag := strings.Split(fieldType.Tag.Get("yaml"), ",")[0]
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		envKey := strings.ToUpper(strings.ReplaceAll(yamlTag, "-", "_"))
		if prefix != "" {
			envKey = prefix + "_" + envKey
		}

		// time.Duration is an int64 underneath but is configured as "30s"
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if envVal := os.Getenv(envKey); envVal != "" {
				if d, err := time.ParseDuration(envVal); err == nil {
					field.SetInt(int64(d))
				}
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if envVal := os.Getenv(envKey); envVal != "" {
				field.SetString(envVal)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if intVal, err := strconv.ParseInt(envVal, 10, 64); err == nil {
					field.SetInt(intVal)
				}
			}
		case reflect.Float32, reflect.Float64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if floatVal, err := strconv.ParseFloat(envVal, 64); err == nil {
					field.SetFloat(floatVal)
				}
			}
		case reflect.Bool:
			if envVal := os.Getenv(envKey); envVal != "" {
				if boolVal, err := strconv.ParseBool(envVal); err == nil {
					field.SetBool(boolVal)
				}
			}
		case reflect.Slice:
			if envVal := os.Getenv(envKey); envVal != "" {
				// Handle string slices (like CORS_ORIGINS)
				if field.Type().Elem().Kind() == reflect.String {
					slice := strings.Split(envVal, ",")
					field.Set(reflect.ValueOf(slice))
				}
			}
		case reflect.Struct:
			if field.CanAddr() {
				fieldPrefix := strings.ToUpper(strings.ReplaceAll(yamlTag, "-", "_"))
				if prefix != "" {
					fieldPrefix = prefix + "_" + fieldPrefix
				}
				overrideStructFromEnvWithPrefix(field.Addr().Interface(), fieldPrefix)
			}
		}
	}
}

// loadConfigWithOverrides loads the config file named by GATEWAY_CONFIG_FILE,
// falling back to config.yaml in the working directory. A missing default
// file is not an error; env vars and defaults are enough to run.
func loadConfigWithOverrides() (result0 *Config, err error) {
	if envPath := os.Getenv("GATEWAY_CONFIG_FILE"); envPath != "" {
		config, err := loadConfigFromFile(envPath)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config from %s: %v", envPath, err)
		}
		return config, nil
	}

	config, err := loadConfigFromFile("config.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	return config, nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (result0 *Config, err error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	validator "github.com/asaskevich/govalidator"
	"github.com/golang/glog"
	"github.com/prebid/prebid-vast/errortypes"
	"github.com/spf13/viper"
)

// Configuration specifies the static application config.
type Configuration struct {
	Host       string     `mapstructure:"host"`
	Port       int        `mapstructure:"port"`
	AdminPort  int        `mapstructure:"admin_port"`
	EnableGzip bool       `mapstructure:"enable_gzip"`
	Resolver   Resolver   `mapstructure:"resolver"`
	Fetcher    Fetcher    `mapstructure:"fetcher"`
	Client     HTTPClient `mapstructure:"http_client"`
	Tracking   Tracking   `mapstructure:"tracking"`
	Metrics    Metrics    `mapstructure:"metrics"`
}

// Resolver bounds a single wrapper chain resolution.
type Resolver struct {
	MaxDepth        int `mapstructure:"max_depth"`
	TimeoutPerHopMS int `mapstructure:"timeout_per_hop_ms"`
}

func (cfg *Resolver) TimeoutPerHop() time.Duration {
	return time.Duration(cfg.TimeoutPerHopMS) * time.Millisecond
}

func (cfg *Resolver) validate(errs []error) []error {
	if cfg.MaxDepth < 1 || cfg.MaxDepth > 20 {
		errs = append(errs, fmt.Errorf("resolver.max_depth must be between 1 and 20. Got %d", cfg.MaxDepth))
	}
	if cfg.TimeoutPerHopMS <= 0 {
		errs = append(errs, fmt.Errorf("resolver.timeout_per_hop_ms must be positive. Got %d", cfg.TimeoutPerHopMS))
	}
	return errs
}

// Fetcher configures how wrapper redirects are downloaded.
type Fetcher struct {
	TimeoutMS           int    `mapstructure:"timeout_ms"`
	MaxResponseBytes    int64  `mapstructure:"max_response_bytes"`
	UserAgent           string `mapstructure:"user_agent"`
	CacheTTLSeconds     int    `mapstructure:"cache_ttl_seconds"`
	CacheCleanupSeconds int    `mapstructure:"cache_cleanup_seconds"`
}

func (cfg *Fetcher) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMS) * time.Millisecond
}

func (cfg *Fetcher) validate(errs []error) []error {
	if cfg.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("fetcher.timeout_ms must be positive. Got %d", cfg.TimeoutMS))
	}
	if cfg.MaxResponseBytes <= 0 {
		errs = append(errs, fmt.Errorf("fetcher.max_response_bytes must be positive. Got %d", cfg.MaxResponseBytes))
	}
	if cfg.CacheTTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("fetcher.cache_ttl_seconds must not be negative. Got %d", cfg.CacheTTLSeconds))
	}
	if cfg.CacheTTLSeconds > 0 && cfg.CacheCleanupSeconds <= 0 {
		errs = append(errs, fmt.Errorf("fetcher.cache_cleanup_seconds must be positive when the document cache is enabled. Got %d", cfg.CacheCleanupSeconds))
	}
	return errs
}

type HTTPClient struct {
	MaxConnsPerHost     int `mapstructure:"max_connections_per_host"`
	MaxIdleConns        int `mapstructure:"max_idle_connections"`
	MaxIdleConnsPerHost int `mapstructure:"max_idle_connections_per_host"`
	IdleConnTimeout     int `mapstructure:"idle_connection_timeout_seconds"`
}

// Tracking sizes the worker pool which fires tracking pixels.
type Tracking struct {
	MaxWorkers  int `mapstructure:"max_workers"`
	MaxCapacity int `mapstructure:"max_capacity"`
	TimeoutMS   int `mapstructure:"timeout_ms"`
}

func (cfg *Tracking) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMS) * time.Millisecond
}

func (cfg *Tracking) validate(errs []error) []error {
	if cfg.MaxWorkers <= 0 {
		errs = append(errs, fmt.Errorf("tracking.max_workers must be positive. Got %d", cfg.MaxWorkers))
	}
	if cfg.MaxCapacity <= 0 {
		errs = append(errs, fmt.Errorf("tracking.max_capacity must be positive. Got %d", cfg.MaxCapacity))
	}
	if cfg.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("tracking.timeout_ms must be positive. Got %d", cfg.TimeoutMS))
	}
	return errs
}

type Metrics struct {
	Influxdb   InfluxMetrics     `mapstructure:"influxdb"`
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

func (cfg *Metrics) validate(errs []error) []error {
	return cfg.Influxdb.validate(errs)
}

type InfluxMetrics struct {
	Host               string `mapstructure:"host"`
	Database           string `mapstructure:"database"`
	Measurement        string `mapstructure:"measurement"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MetricSendInterval int    `mapstructure:"metric_send_interval"`
}

func (cfg *InfluxMetrics) validate(errs []error) []error {
	if cfg.Host == "" {
		return errs
	}
	if !validator.IsURL(cfg.Host) {
		errs = append(errs, fmt.Errorf("metrics.influxdb.host must be a URL. Got %q", cfg.Host))
	}
	if cfg.MetricSendInterval < 1 {
		errs = append(errs, fmt.Errorf("metrics.influxdb.metric_send_interval must be at least 1 second. Got %d", cfg.MetricSendInterval))
	}
	return errs
}

type PrometheusMetrics struct {
	Port             int    `mapstructure:"port"`
	Namespace        string `mapstructure:"namespace"`
	Subsystem        string `mapstructure:"subsystem"`
	TimeoutMillisRaw int    `mapstructure:"timeout_ms"`
}

func (cfg *PrometheusMetrics) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMillisRaw) * time.Millisecond
}

func (cfg *Configuration) validate() []error {
	var errs []error
	if cfg.Port == cfg.AdminPort {
		errs = append(errs, errors.New("port and admin_port must differ"))
	}
	errs = cfg.Resolver.validate(errs)
	errs = cfg.Fetcher.validate(errs)
	errs = cfg.Tracking.validate(errs)
	errs = cfg.Metrics.validate(errs)
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	glog.Info("Logging the resolved configuration:")
	logGeneral(reflect.ValueOf(c), "  \t")
	if errs := c.validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}

	return &c, nil
}

// SetupViper registers the defaults and sources of every setting. The file
// is looked up as <filename>.{yaml,json,...} in the working directory and /etc/config.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("resolver.max_depth", 5)
	v.SetDefault("resolver.timeout_per_hop_ms", 1000)
	v.SetDefault("fetcher.timeout_ms", 2000)
	v.SetDefault("fetcher.max_response_bytes", 1<<20)
	v.SetDefault("fetcher.user_agent", "prebid-vast/1.0")
	v.SetDefault("fetcher.cache_ttl_seconds", 0)
	v.SetDefault("fetcher.cache_cleanup_seconds", 60)
	v.SetDefault("http_client.max_connections_per_host", 0) // unlimited
	v.SetDefault("http_client.max_idle_connections", 400)
	v.SetDefault("http_client.max_idle_connections_per_host", 10)
	v.SetDefault("http_client.idle_connection_timeout_seconds", 60)
	v.SetDefault("tracking.max_workers", 32)
	v.SetDefault("tracking.max_capacity", 1024)
	v.SetDefault("tracking.timeout_ms", 1000)
	v.SetDefault("metrics.influxdb.host", "")
	v.SetDefault("metrics.influxdb.database", "")
	v.SetDefault("metrics.influxdb.measurement", "")
	v.SetDefault("metrics.influxdb.username", "")
	v.SetDefault("metrics.influxdb.password", "")
	v.SetDefault("metrics.influxdb.metric_send_interval", 20)
	v.SetDefault("metrics.prometheus.port", 0)
	v.SetDefault("metrics.prometheus.namespace", "")
	v.SetDefault("metrics.prometheus.subsystem", "")
	v.SetDefault("metrics.prometheus.timeout_ms", 10000)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("VAST")
	v.AutomaticEnv()
	v.ReadInConfig()
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/geoviz/internal/pkg/colorscale"
	"github.com/samirrijal/geoviz/internal/pkg/viewport"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Feeds     FeedsConfig     `mapstructure:"feeds"`
	Palette   PaletteConfig   `mapstructure:"palette"`
	Viewport  viewport.Limits `mapstructure:"viewport"`
	Animator  AnimatorConfig  `mapstructure:"animator"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	// Cron schedules; empty disables the workflow.
	IngestCron   string `mapstructure:"ingest_cron"`
	GeometryCron string `mapstructure:"geometry_cron"`
}

type FeedsConfig struct {
	USGSURL        string `mapstructure:"usgs_url"`
	CountiesURL    string `mapstructure:"counties_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	GeometryTTL    int    `mapstructure:"geometry_ttl"`
}

// PaletteConfig overrides the multi-stop depth palette. Each stop is
// {depth, color: [r, g, b]}.
type PaletteConfig struct {
	Stops []StopConfig `mapstructure:"stops"`
	Alpha int          `mapstructure:"alpha"`
}

type StopConfig struct {
	Depth float64 `mapstructure:"depth"`
	Color []int   `mapstructure:"color"`
}

type AnimatorConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "geoviz")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "geoviz")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "geoviz-ingest")
	v.SetDefault("temporal.ingest_cron", "*/5 * * * *")
	v.SetDefault("temporal.geometry_cron", "0 4 * * *")
	v.SetDefault("feeds.usgs_url", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.geojson")
	v.SetDefault("feeds.counties_url", "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json")
	v.SetDefault("feeds.timeout_seconds", 30)
	v.SetDefault("feeds.geometry_ttl", 86400)
	v.SetDefault("palette.alpha", int(colorscale.DefaultAlpha))
	v.SetDefault("viewport.min_longitude", viewport.DefaultLimits.MinLongitude)
	v.SetDefault("viewport.max_longitude", viewport.DefaultLimits.MaxLongitude)
	v.SetDefault("viewport.min_latitude", viewport.DefaultLimits.MinLatitude)
	v.SetDefault("viewport.max_latitude", viewport.DefaultLimits.MaxLatitude)
	v.SetDefault("viewport.min_zoom", viewport.DefaultLimits.MinZoom)
	v.SetDefault("viewport.max_zoom", viewport.DefaultLimits.MaxZoom)
	v.SetDefault("animator.interval_seconds", 1)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEOVIZ_DATABASE_HOST → database.host
	v.SetEnvPrefix("GEOVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Feeds.TimeoutSeconds <= 0 {
		errs = append(errs, "feeds.timeout_seconds must be positive")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}
	if c.Animator.IntervalSeconds <= 0 {
		errs = append(errs, "animator.interval_seconds must be positive")
	}

	vp := c.Viewport
	if vp.MinLongitude > vp.MaxLongitude || vp.MinLatitude > vp.MaxLatitude || vp.MinZoom > vp.MaxZoom {
		errs = append(errs, "viewport minimums must not exceed maximums")
	}
	if vp.MinLatitude < -90 || vp.MaxLatitude > 90 {
		errs = append(errs, "viewport latitude limits must lie within [-90, 90]")
	}

	if c.Palette.Alpha < 0 || c.Palette.Alpha > 255 {
		errs = append(errs, fmt.Sprintf("palette.alpha must be 0-255, got %d", c.Palette.Alpha))
	}
	if len(c.Palette.Stops) > 0 {
		if _, err := c.Palette.Gradient(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Gradient builds the configured multi-stop palette. With no stops
// configured it returns colorscale.MultiStop.
func (p PaletteConfig) Gradient() (colorscale.Gradient, error) {
	if len(p.Stops) == 0 {
		return colorscale.MultiStop, nil
	}
	stops := make([]colorscale.Stop, len(p.Stops))
	for i, s := range p.Stops {
		if len(s.Color) != 3 {
			return colorscale.Gradient{}, fmt.Errorf("palette.stops[%d].color needs 3 channels, got %d", i, len(s.Color))
		}
		var rgb colorscale.RGB
		for ch, v := range s.Color {
			if v < 0 || v > 255 {
				return colorscale.Gradient{}, fmt.Errorf("palette.stops[%d].color channel %d out of range: %d", i, ch, v)
			}
			rgb[ch] = uint8(v)
		}
		stops[i] = colorscale.Stop{Depth: s.Depth, Color: rgb}
	}
	return colorscale.NewGradient(stops, uint8(p.Alpha))
}

// Palettes returns a registry with the reference palettes and, when
// configured, the custom table installed as the multi-stop palette.
func (c *Config) Palettes() (*colorscale.Registry, error) {
	reg := colorscale.NewRegistry()
	if len(c.Palette.Stops) == 0 {
		return reg, nil
	}
	g, err := c.Palette.Gradient()
	if err != nil {
		return nil, err
	}
	reg.Register(colorscale.PaletteMulti, g)
	return reg, nil
}

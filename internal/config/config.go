package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Assets    AssetsConfig    `yaml:"assets"`
	Sidecar   SidecarConfig   `yaml:"sidecar"`
	Search    SearchConfig    `yaml:"search"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// TrustProxy takes the client address from X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy" env:"SERVER_TRUST_PROXY" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// AssetsConfig selects where tile, annotation, narrative and bundle files live.
type AssetsConfig struct {
	Backend string `yaml:"backend" env:"ASSETS_BACKEND" env-default:"fs"`
	Root    string `yaml:"root"    env:"ASSETS_ROOT"    env-default:"./slides"`

	S3 S3Config `yaml:"s3"`
}

// S3Config holds settings for the S3 asset backend.
type S3Config struct {
	Bucket         string `yaml:"bucket"           env:"ASSETS_S3_BUCKET"`
	Prefix         string `yaml:"prefix"           env:"ASSETS_S3_PREFIX"`
	Region         string `yaml:"region"           env:"ASSETS_S3_REGION"           env-default:"us-east-1"`
	Endpoint       string `yaml:"endpoint"         env:"ASSETS_S3_ENDPOINT"`
	ForcePathStyle bool   `yaml:"force_path_style" env:"ASSETS_S3_FORCE_PATH_STYLE" env-default:"false"`
}

// SidecarConfig holds bundle parsing settings.
type SidecarConfig struct {
	BundleDir         string `yaml:"bundle_dir"          env:"SIDECAR_BUNDLE_DIR"          env-default:"bundles"`
	MaxNarrativeBytes int64  `yaml:"max_narrative_bytes" env:"SIDECAR_MAX_NARRATIVE_BYTES" env-default:"4194304"`
	CacheEnabled      bool   `yaml:"cache_enabled"       env:"SIDECAR_CACHE_ENABLED"       env-default:"false"`
}

// SearchConfig holds faceted search settings.
type SearchConfig struct {
	StrictFacets bool `yaml:"strict_facets" env:"SEARCH_STRICT_FACETS" env-default:"false"`
}

// RateLimitConfig bounds viewport requests per client.
type RateLimitConfig struct {
	ViewportPerMinute int           `yaml:"viewport_per_minute" env:"RATE_LIMIT_VIEWPORT_PER_MINUTE" env-default:"120"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"5m"`
}

// UsesS3 reports whether assets are served from S3.
func (c AssetsConfig) UsesS3() bool {
	return strings.EqualFold(c.Backend, "s3")
}

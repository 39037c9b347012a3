package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Ritual    RitualConfig    `yaml:"ritual"`
}

// ClientConfig is the subset used by the command-line client and its watchdog.
type ClientConfig struct {
	Client   ClientAPIConfig `yaml:"client"`
	Auth     TokenConfig     `yaml:"auth"`
	Log      LogConfig       `yaml:"log"`
	Watchdog WatchdogConfig  `yaml:"watchdog"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
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
	// MigrateOnStart applies the embedded migrations before serving.
	MigrateOnStart bool `yaml:"migrate_on_start" env:"SERVER_MIGRATE_ON_START" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds access token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"altar"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// TokenConfig is the client view of the auth section. The secret is only
// needed to mint development tokens, so it is optional here.
type TokenConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"altar"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig bounds mutating requests per client IP.
type RateLimitConfig struct {
	MutationsPerMinute int           `yaml:"mutations_per_minute" env:"RATELIMIT_MUTATIONS_PER_MINUTE" env-default:"60"`
	CleanupInterval    time.Duration `yaml:"cleanup_interval"     env:"RATELIMIT_CLEANUP_INTERVAL"     env-default:"5m"`
}

// RitualConfig toggles lifecycle behaviour.
type RitualConfig struct {
	// CloseDisplacedJournal closes the open journal entry of the subject that
	// loses the active slot on invoke.
	CloseDisplacedJournal bool `yaml:"close_displaced_journal" env:"RITUAL_CLOSE_DISPLACED_JOURNAL" env-default:"true"`
	// ExtendRequiresActive turns extend of a non-active subject into a no-op.
	ExtendRequiresActive bool `yaml:"extend_requires_active" env:"RITUAL_EXTEND_REQUIRES_ACTIVE" env-default:"false"`
	// HistoryMaxLimit caps the history page size.
	HistoryMaxLimit int `yaml:"history_max_limit" env:"RITUAL_HISTORY_MAX_LIMIT" env-default:"100"`
}

// WatchdogConfig holds the client-side expiry watchdog settings.
type WatchdogConfig struct {
	Interval       time.Duration `yaml:"interval"        env:"WATCHDOG_INTERVAL"        env-default:"60s"`
	SettleDelay    time.Duration `yaml:"settle_delay"    env:"WATCHDOG_SETTLE_DELAY"    env-default:"2s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"WATCHDOG_REQUEST_TIMEOUT" env-default:"10s"`
}

// ClientAPIConfig points the client at a server.
type ClientAPIConfig struct {
	BaseURL string        `yaml:"base_url" env:"CLIENT_BASE_URL" env-default:"http://localhost:8080"`
	Token   string        `yaml:"token"    env:"CLIENT_TOKEN"`
	Timeout time.Duration `yaml:"timeout"  env:"CLIENT_TIMEOUT"  env-default:"15s"`
}

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPrefix = "CATALOG_"

	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultEnvironment      = "local"
	defaultLogLevel         = "info"
	defaultReadHeader       = 10 * time.Second
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultHandlerTimeout   = 30 * time.Second
	defaultAPITimeout       = 8 * time.Second
	defaultRetryAttempts    = 3
	defaultRetryDelay       = 150 * time.Millisecond
	defaultTemplatesDir     = "templates"
	defaultPublicDir        = "public"
	defaultStageTTL         = 30 * time.Minute
	defaultStageMax         = 10000
	defaultStageSweep       = time.Minute
	minSessionSigningKeyLen = 16
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Catalog     CatalogConfig
	Web         WebConfig
	Session     SessionConfig
	Stage       StageConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	HandlerTimeout    time.Duration
}

// Addr is the listen address derived from the port.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// CatalogConfig points at the product endpoint. An empty APIURL selects the
// embedded fixture catalog.
type CatalogConfig struct {
	APIURL        string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// WebConfig locates templates, assets and optional page content.
type WebConfig struct {
	TemplatesDir string
	PublicDir    string
	IntroFile    string
	DevMode      bool
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey   string
	SecureCookie bool
}

// StageConfig bounds the per-viewer render state kept in memory.
type StageConfig struct {
	TTL           time.Duration
	MaxStages     int
	SweepInterval time.Duration
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool { return c.Environment == "prod" }

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile   string
	envMap    map[string]string
	useSystem bool
}

// WithEnvFile reads additional values from a dotenv file. An empty path
// disables file loading. A missing file is not an error.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// WithEnvMap supplies values that take precedence over the env file.
func WithEnvMap(m map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = make(map[string]string, len(m))
		for k, v := range m {
			o.envMap[k] = v
		}
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) { o.useSystem = false }
}

// Load resolves configuration from the process environment, an optional
// dotenv file and explicit overrides, in increasing order of precedence:
// env file, process environment, env map.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}
	o := loaderOptions{envFile: defaultEnvFile, useSystem: true}
	for _, opt := range opts {
		opt(&o)
	}

	values := map[string]string{}
	if o.envFile != "" {
		fileVals, err := godotenv.Read(o.envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read env file %s: %w", o.envFile, err)
		}
		for k, v := range fileVals {
			values[k] = v
		}
	}
	if o.useSystem {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				values[k] = v
			}
		}
	}
	for k, v := range o.envMap {
		values[k] = v
	}

	r := reader{values: values}
	cfg := Config{
		Environment: strings.ToLower(r.str("ENV", defaultEnvironment)),
		LogLevel:    strings.ToLower(r.str("LOG_LEVEL", defaultLogLevel)),
		Server: ServerConfig{
			Port:              r.port(),
			ReadHeaderTimeout: r.duration("SERVER_READ_HEADER_TIMEOUT", defaultReadHeader),
			ReadTimeout:       r.duration("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      r.duration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       r.duration("SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			HandlerTimeout:    r.duration("SERVER_HANDLER_TIMEOUT", defaultHandlerTimeout),
		},
		Catalog: CatalogConfig{
			APIURL:        r.str("API_URL", ""),
			Timeout:       r.duration("API_TIMEOUT", defaultAPITimeout),
			RetryAttempts: r.integer("API_RETRY_ATTEMPTS", defaultRetryAttempts),
			RetryDelay:    r.duration("API_RETRY_DELAY", defaultRetryDelay),
		},
		Web: WebConfig{
			TemplatesDir: r.str("TEMPLATES_DIR", defaultTemplatesDir),
			PublicDir:    r.str("PUBLIC_DIR", defaultPublicDir),
			IntroFile:    r.str("INTRO_FILE", ""),
			DevMode:      r.boolean("DEV", false),
		},
		Session: SessionConfig{
			SigningKey: r.str("SESSION_SIGNING_KEY", ""),
		},
		Stage: StageConfig{
			TTL:           r.duration("STAGE_TTL", defaultStageTTL),
			MaxStages:     r.integer("STAGE_MAX", defaultStageMax),
			SweepInterval: r.duration("STAGE_SWEEP_INTERVAL", defaultStageSweep),
		},
	}
	cfg.Session.SecureCookie = cfg.IsProduction()

	if err := validate(cfg, r.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config, invalid []string) error {
	fields := append([]string(nil), invalid...)
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		fields = append(fields, envPrefix+"PORT")
	}
	if cfg.Catalog.APIURL != "" {
		u, err := url.Parse(cfg.Catalog.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields = append(fields, envPrefix+"API_URL")
		}
	}
	if cfg.Catalog.RetryAttempts < 1 {
		fields = append(fields, envPrefix+"API_RETRY_ATTEMPTS")
	}
	if cfg.Stage.MaxStages < 1 {
		fields = append(fields, envPrefix+"STAGE_MAX")
	}
	if cfg.IsProduction() && len(cfg.Session.SigningKey) < minSessionSigningKeyLen {
		fields = append(fields, envPrefix+"SESSION_SIGNING_KEY")
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	fields = compact(fields)
	return &ValidationError{fields: fields}
}

func compact(sorted []string) []string {
	out := sorted[:0]
	for i, f := range sorted {
		if i == 0 || f != sorted[i-1] {
			out = append(out, f)
		}
	}
	return out
}

type reader struct {
	values  map[string]string
	invalid []string
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.values[envPrefix+key]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) str(key, fallback string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return fallback
}

// port prefers CATALOG_PORT, then the platform PORT.
func (r *reader) port() string {
	if v, ok := r.raw("PORT"); ok {
		return v
	}
	if v := strings.TrimSpace(r.values["PORT"]); v != "" {
		return v
	}
	return defaultPort
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		r.invalid = append(r.invalid, envPrefix+key)
		return fallback
	}
	return d
}

func (r *reader) integer(key string, fallback int) int {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.invalid = append(r.invalid, envPrefix+key)
		return fallback
	}
	return n
}

func (r *reader) boolean(key string, fallback bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.invalid = append(r.invalid, envPrefix+key)
		return fallback
	}
	return b
}

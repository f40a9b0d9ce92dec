package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	AIModeMock   = "mock"
	AIModeOpenAI = "openai"
	AIModeOff    = "off"
)

var ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY is required when AI_MODE=openai")

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string // optional, used only with PreferPublicURL
	PresignTTLSeconds int
	PreferPublicURL   bool
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// Diagnostics classifies the S3 settings for startup logging.
func (c S3Config) Diagnostics() (level string, code string, msg string) {
	missing := c.MissingRequired()
	if len(missing) == 5 {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}
	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds prefer_public_url=%t access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		c.PreferPublicURL,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

type BlobConfig struct {
	Mode     string // local|s3|auto
	LocalDir string
	S3       S3Config
}

// AIConfig describes the generative recommendation provider.
type AIConfig struct {
	Mode            string // mock|openai|off
	Timeout         time.Duration
	MaxOutputTokens int
	Temperature     float64

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	BreakerMaxFailures int
	BreakerCooldown    time.Duration

	// VariationSeed seeds prompt variation; 0 means seed from the clock.
	VariationSeed int64
}

// Config содержит конфигурацию приложения
type Config struct {
	Env  string // local | staging | prod
	Port int

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	RunMigrationsOnStartup bool
	MigrationsDir          string

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	Blob BlobConfig

	ReportsMaxRangeDays int

	// HistoryDays bounds how far back summaries look for samples.
	HistoryDays int

	AI AIConfig

	MetricsEnabled bool
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Load reads the configuration from the environment and exits on invalid settings.
func Load() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	// APP_ENV (fallback to ENV for backward compat, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))

	// ---------- Blob / S3 ----------
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	blobCfg := BlobConfig{
		Mode:     parseBlobMode("BLOB_MODE", BlobModeLocal),
		LocalDir: envOr("BLOB_LOCAL_DIR", "data/blobs"),
		S3: S3Config{
			Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
			PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
			PresignTTLSeconds: s3PresignTTL,
			PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
		},
	}

	reportsMaxRangeDays := envInt("REPORTS_MAX_RANGE_DAYS", 90)
	if reportsMaxRangeDays <= 0 {
		reportsMaxRangeDays = 90
	}

	historyDays := envInt("HISTORY_DAYS", 30)
	if historyDays <= 0 {
		historyDays = 30
	}

	aiCfg, err := parseAIConfig(env)
	if err != nil {
		return nil, err
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),
		MigrationsDir:          migrationsDir,

		CORSAllowedOrigins:   parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: os.Getenv("CORS_ALLOW_CREDENTIALS") == "1",

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 0),

		Blob:                blobCfg,
		ReportsMaxRangeDays: reportsMaxRangeDays,
		HistoryDays:         historyDays,
		AI:                  aiCfg,

		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}, nil
}

func parseAIConfig(env string) (AIConfig, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("AI_MODE")))
	switch mode {
	case "":
		mode = AIModeMock
	case AIModeMock, AIModeOpenAI, AIModeOff:
	default:
		log.Printf("WARNING: unknown AI_MODE=%q, fallback to %s", mode, AIModeMock)
		mode = AIModeMock
	}

	temperature := envFloat("AI_TEMPERATURE", 0.7)
	if temperature < 0 {
		temperature = 0
	}
	if temperature > 2 {
		temperature = 2
	}

	maxTokens := envInt("AI_MAX_OUTPUT_TOKENS", 400)
	if maxTokens <= 0 {
		maxTokens = 400
	}

	timeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 10)
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	breakerFailures := envInt("AI_BREAKER_MAX_FAILURES", 5)
	if breakerFailures <= 0 {
		breakerFailures = 5
	}
	breakerCooldown := envInt("AI_BREAKER_COOLDOWN_SECONDS", 60)
	if breakerCooldown <= 0 {
		breakerCooldown = 60
	}

	cfg := AIConfig{
		Mode:               mode,
		Timeout:            time.Duration(timeoutSeconds) * time.Second,
		MaxOutputTokens:    maxTokens,
		Temperature:        temperature,
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:        envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      strings.TrimRight(envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		BreakerMaxFailures: breakerFailures,
		BreakerCooldown:    time.Duration(breakerCooldown) * time.Second,
		VariationSeed:      int64(envInt("PROMPT_VARIATION_SEED", 0)),
	}

	if cfg.Mode == AIModeOpenAI && cfg.OpenAIAPIKey == "" {
		if env == "local" {
			log.Printf("WARNING: %v, fallback to %s", ErrMissingOpenAIKey, AIModeMock)
			cfg.Mode = AIModeMock
			return cfg, nil
		}
		return AIConfig{}, ErrMissingOpenAIKey
	}

	return cfg, nil
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

func envOr(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func envBool(key string, defaultVal bool) bool {
	if strings.TrimSpace(os.Getenv(key)) == "" {
		return defaultVal
	}
	return parseBoolEnv(key)
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

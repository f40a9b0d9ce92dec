package main

import (
	"context"
	"log"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/skin-hub/internal/config"
	"github.com/fdg312/skin-hub/internal/dbmigrate"
	"github.com/fdg312/skin-hub/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)
	validateProductionConfig(cfg)

	if cfg.RunMigrationsOnStartup {
		runStartupMigrations(cfg)
	}

	server, err := httpserver.New(cfg)
	if err != nil {
		log.Fatalf("FATAL server: %v", err)
	}
	defer server.Close()

	log.Fatal(server.Start())
}

func runStartupMigrations(cfg *config.Config) {
	target, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		log.Fatalf("FATAL startup migrations: %v", err)
	}
	if target.Warning != "" {
		log.Printf("WARN startup migrations: %s", target.Warning)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Printf("startup migrations: command=up using=%s", target.Source)
	if err := dbmigrate.Run(ctx, "up", target.URL, cfg.MigrationsDir); err != nil {
		log.Fatalf("FATAL startup migrations failed: %v", err)
	}
	log.Printf("startup migrations: completed")
}

// printStartupBanner logs the resolved configuration once. Secrets are only
// reported as "set" / "not set".
func printStartupBanner(cfg *config.Config) {
	log.Println("========== Skin Hub API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.MigrationsDir != "" {
		log.Printf("  migrations_dir   = %s", cfg.MigrationsDir)
	}

	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode == config.BlobModeLocal {
		log.Printf("  local_dir        = %s", cfg.Blob.LocalDir)
	} else {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}
	log.Printf("  reports_max_range_days = %d", cfg.ReportsMaxRangeDays)

	log.Println("---- ai ----")
	log.Printf("  ai_mode          = %s", cfg.AI.Mode)
	log.Printf("  ai_timeout       = %s", cfg.AI.Timeout)
	log.Printf("  history_days     = %d", cfg.HistoryDays)
	if cfg.AI.Mode == config.AIModeOpenAI {
		log.Printf("  openai_model     = %s", cfg.AI.OpenAIModel)
		log.Printf("  openai_base_url  = %s", nonEmptyOrDash(cfg.AI.OpenAIBaseURL))
		log.Printf("  openai_api_key   = %s", setOrNot(cfg.AI.OpenAIAPIKey))
	}

	log.Println("---- http ----")
	log.Printf("  cors_origins     = %s", nonEmptyOrDash(strings.Join(cfg.CORSAllowedOrigins, ",")))
	log.Printf("  rate_limit_rps   = %d (burst=%d)", cfg.RateLimitRPS, cfg.RateLimitBurst)
	log.Printf("  metrics          = %t", cfg.MetricsEnabled)

	log.Println("==================================")
}

// validateProductionConfig performs fatal checks on settings that cannot be
// fixed at runtime.
func validateProductionConfig(cfg *config.Config) {
	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE=s3 but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if cfg.IsProduction() && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}

	if cfg.AI.Mode == config.AIModeOpenAI && strings.TrimSpace(cfg.AI.OpenAIAPIKey) == "" {
		log.Fatal("FATAL ai: AI_MODE=openai but OPENAI_API_KEY is not set")
	}
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

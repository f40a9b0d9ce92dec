package dbmigrate

import (
	"context"
	"io/fs"
	"testing"

	"github.com/fdg312/skin-hub/internal/config"
	"github.com/fdg312/skin-hub/migrations"
)

func TestSelectDatabaseURL(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantURL     string
		wantSource  string
		wantWarning bool
	}{
		{
			name:       "direct wins",
			cfg:        config.Config{DatabaseURLDirect: "postgres://direct", DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			wantURL:    "postgres://direct",
			wantSource: "DATABASE_URL_DIRECT",
		},
		{
			name:       "falls back to DATABASE_URL",
			cfg:        config.Config{DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			wantURL:    "postgres://url",
			wantSource: "DATABASE_URL",
		},
		{
			name:        "pooled with warning",
			cfg:         config.Config{DatabaseURLPooled: "postgres://pooled"},
			wantURL:     "postgres://pooled",
			wantSource:  "DATABASE_URL_POOLED",
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := SelectDatabaseURL(&tt.cfg, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.URL != tt.wantURL || target.Source != tt.wantSource {
				t.Fatalf("got url=%q source=%q", target.URL, target.Source)
			}
			if (target.Warning != "") != tt.wantWarning {
				t.Fatalf("unexpected warning state: %q", target.Warning)
			}
		})
	}
}

func TestSelectDatabaseURL_RequireDirect(t *testing.T) {
	cfg := &config.Config{
		DatabaseURLRaw:    "postgres://url",
		DatabaseURLPooled: "postgres://pooled",
	}

	if _, err := SelectDatabaseURL(cfg, true); err == nil {
		t.Fatal("expected error when direct is required but missing")
	}
}

func TestSelectDatabaseURL_NoneConfigured(t *testing.T) {
	if _, err := SelectDatabaseURL(&config.Config{}, false); err == nil {
		t.Fatal("expected error without any database URL")
	}
}

func TestRun_Validation(t *testing.T) {
	ctx := context.Background()

	if err := Run(ctx, "up", "", ""); err == nil {
		t.Error("expected error for empty database URL")
	}
	if err := Run(ctx, "drop-everything", "postgres://localhost/db", ""); err == nil {
		t.Error("expected error for unsupported command")
	}
	if err := Run(ctx, "up", "postgres://localhost/db", t.TempDir()+"/missing"); err == nil {
		t.Error("expected error for missing migrations dir")
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) < 3 {
		t.Fatalf("expected at least 3 embedded migrations, got %d", len(files))
	}
}

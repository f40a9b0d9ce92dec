package blob

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	appcfg "github.com/fdg312/skin-hub/internal/config"
)

func completeS3() appcfg.S3Config {
	return appcfg.S3Config{
		Endpoint:        "http://127.0.0.1:9000",
		Region:          "us-east-1",
		Bucket:          "skin-reports",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}
}

func TestNewBlobStore(t *testing.T) {
	tests := []struct {
		name     string
		cfg      appcfg.BlobConfig
		wantMode string
		wantType string
		wantErr  string
		wantLog  []string
	}{
		{
			name:     "local",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeLocal},
			wantMode: appcfg.BlobModeLocal,
			wantType: "local",
			wantLog:  []string{"mode=local dir="},
		},
		{
			name:     "empty mode means local",
			cfg:      appcfg.BlobConfig{},
			wantMode: appcfg.BlobModeLocal,
			wantType: "local",
		},
		{
			name:     "auto without s3 falls back",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeAuto},
			wantMode: appcfg.BlobModeLocal,
			wantType: "local",
			wantLog:  []string{"code=s3_not_configured", "mode=local (auto, S3 not configured)"},
		},
		{
			name:     "auto with s3",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeAuto, S3: completeS3()},
			wantMode: appcfg.BlobModeS3,
			wantType: "s3",
			wantLog:  []string{"mode=s3 forced=false"},
		},
		{
			name:     "forced s3",
			cfg:      appcfg.BlobConfig{Mode: "S3", S3: completeS3()},
			wantMode: appcfg.BlobModeS3,
			wantType: "s3",
			wantLog:  []string{"mode=s3 forced=true"},
		},
		{
			name:    "forced s3 incomplete",
			cfg:     appcfg.BlobConfig{Mode: appcfg.BlobModeS3, S3: appcfg.S3Config{Endpoint: "https://storage.example.net"}},
			wantErr: "missing required config: S3_REGION",
			wantLog: []string{"code=s3_config_incomplete"},
		},
		{
			name:    "unknown mode",
			cfg:     appcfg.BlobConfig{Mode: "ftp"},
			wantErr: "unsupported blob mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := tt.cfg
			if cfg.LocalDir == "" {
				cfg.LocalDir = t.TempDir()
			}

			store, mode, err := NewBlobStore(context.Background(), cfg, log.New(&buf, "", 0))

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if store != nil || mode != "" {
					t.Errorf("expected nil store and empty mode, got %T %q", store, mode)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if mode != tt.wantMode {
					t.Errorf("mode = %q, want %q", mode, tt.wantMode)
				}
				switch tt.wantType {
				case "local":
					if _, ok := store.(*LocalStore); !ok {
						t.Errorf("expected *LocalStore, got %T", store)
					}
				case "s3":
					if _, ok := store.(*S3Store); !ok {
						t.Errorf("expected *S3Store, got %T", store)
					}
				}
			}

			for _, want := range tt.wantLog {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected log to contain %q, got: %s", want, buf.String())
				}
			}
		})
	}
}

func TestNewBlobStoreNilLogger(t *testing.T) {
	if _, _, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeAuto, LocalDir: t.TempDir()}, nil); err != nil {
		t.Fatalf("expected nil logger to be tolerated, got %v", err)
	}
}

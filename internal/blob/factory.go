package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/skin-hub/internal/config"
)

const defaultLocalDir = "data/blobs"

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore opens the store for BLOB_MODE and returns the mode that is
// actually in effect. Auto mode degrades to the local store when S3 is
// unconfigured or unreachable; forced s3 fails instead.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger Logger) (Store, string, error) {
	logf := func(format string, v ...any) {
		if logger != nil {
			logger.Printf(format, v...)
		}
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	switch mode {
	case "", appcfg.BlobModeLocal:
		logf("INFO blob: mode=local dir=%s", localDir(cfg))
		return openLocal(cfg)

	case appcfg.BlobModeAuto, appcfg.BlobModeS3:
		forced := mode == appcfg.BlobModeS3

		if missing := cfg.S3.MissingRequired(); len(missing) > 0 {
			if forced {
				logf("FATAL blob.s3: code=s3_config_incomplete %s", cfg.S3.DiagnosticsSummary())
				return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
			}
			level, code, msg := cfg.S3.Diagnostics()
			logf("%s blob.s3: code=%s %s", level, code, msg)
			logf("INFO blob: mode=local (auto, S3 not configured) dir=%s", localDir(cfg))
			return openLocal(cfg)
		}

		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			if forced {
				return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
			}
			logf("WARN blob.s3: init_failed=%q fallback=local", err.Error())
			return openLocal(cfg)
		}

		logf("INFO blob: mode=s3 forced=%t %s", forced, cfg.S3.DiagnosticsSummary())
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func localDir(cfg appcfg.BlobConfig) string {
	if dir := strings.TrimSpace(cfg.LocalDir); dir != "" {
		return dir
	}
	return defaultLocalDir
}

func openLocal(cfg appcfg.BlobConfig) (Store, string, error) {
	store, err := NewLocalStore(localDir(cfg))
	if err != nil {
		return nil, "", fmt.Errorf("open local blob store: %w", err)
	}
	return store, appcfg.BlobModeLocal, nil
}

package dbmigrate

import (
	"fmt"

	"github.com/fdg312/skin-hub/internal/config"
)

// Target is the database URL chosen for migrations and where it came from.
type Target struct {
	URL     string
	Source  string
	Warning string
}

// SelectDatabaseURL selects DB URL for migrations.
// Priority: DIRECT > DATABASE_URL > POOLED (with warning).
// If requireDirect is true, only DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (Target, error) {
	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return Target{}, fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
		}
		return Target{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	}

	switch {
	case cfg.DatabaseURLDirect != "":
		return Target{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	case cfg.DatabaseURLRaw != "":
		return Target{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"}, nil
	case cfg.DatabaseURLPooled != "":
		return Target{
			URL:     cfg.DatabaseURLPooled,
			Source:  "DATABASE_URL_POOLED",
			Warning: "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT",
		}, nil
	}

	return Target{}, fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}

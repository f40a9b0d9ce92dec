package dbmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fdg312/skin-hub/migrations"
)

// Commands lists the goose commands exposed by cmd/migrate.
var Commands = []string{"up", "down", "status", "version", "redo"}

// IsSupported reports whether command is one of Commands.
func IsSupported(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

// Run applies a goose command. An empty migrationsDir uses the SQL files
// embedded in the binary; otherwise the directory on disk is used.
func Run(ctx context.Context, command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if !IsSupported(command) {
		return fmt.Errorf("unsupported migrate command %q", command)
	}

	fsys, dir, err := migrationSource(migrationsDir)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

func migrationSource(dir string) (fs.FS, string, error) {
	if dir == "" {
		return migrations.FS, ".", nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, "", fmt.Errorf("migrations dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("migrations dir %q is not a directory", dir)
	}
	return os.DirFS(dir), ".", nil
}

package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/skin-hub/internal/config"
	"github.com/fdg312/skin-hub/internal/dbmigrate"
)

func main() {
	usage := "usage: go run ./cmd/migrate [" + strings.Join(dbmigrate.Commands, "|") + "]"
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	command := os.Args[1]
	if !dbmigrate.IsSupported(command) {
		log.Fatalf("unsupported command %q; %s", command, usage)
	}

	cfg := config.Load()
	target, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		log.Fatal(err)
	}

	if target.Warning != "" {
		log.Printf("WARN migrate: %s", target.Warning)
	}
	dir := cfg.MigrationsDir
	if dir == "" {
		dir = "(embedded)"
	}
	log.Printf("migrate: command=%s using=%s dir=%s", command, target.Source, dir)

	if err := dbmigrate.Run(context.Background(), command, target.URL, cfg.MigrationsDir); err != nil {
		log.Fatal(err)
	}

	log.Printf("migrate: %s completed successfully", command)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres"

	"github.com/golang-migrate/migrate/v4"
	"github.com/labstack/gommon/log"
)

func main() {
	steps := flag.Int("steps", 0, "number of migrations to roll back with down; 0 rolls back everything")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-steps n] up|down|version\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	m, err := postgres.NewMigrator(configs.DatabaseURL())
	if err != nil {
		log.Fatalf("Error creating migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	switch flag.Arg(0) {
	case "up":
		err = m.Up()
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatalf("Error reading version: %v", verr)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Migration %s failed: %v", flag.Arg(0), err)
	}
	log.Infof("Migration %s complete", flag.Arg(0))
}

package main

import (
	"os"
	"recruiter/cmd/migration/initialize"
	"recruiter/cmd/migration/seed"
	"recruiter/config"
	"recruiter/internal/database"
	"recruiter/internal/logger"
)

func main() {
	log := logger.New("migration")

	config, err := config.InitConfig()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := initialize.InitializeTables(db.SQL, config, log); err != nil {
		log.Er("failed to initialize tables", err)
		os.Exit(1)
	}

	if err := db.Migrate(); err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seed.Seed(db.SQL, config, log); err != nil {
			log.Er("failed to seed", err)
			os.Exit(1)
		}
	}

	log.Info("Migration complete")
}

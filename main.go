package main

import (
	"flag"
	"fmt"
	"os"

	"task-service/config"
	"task-service/database"
	"task-service/seed"
	"task-service/server"

	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run modules")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", ".", "Target directory for the new .sql file (e.g. ./migrations)")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		server.StartServer()
	case "seed":
		runSeed()
	case "create-migration":
		migrations.CreateMigration(nameFlag, dirFlag)
	}
}

// runSeed loads the development fixtures into a migrated database
func runSeed() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	dbConn := database.Initialize(cfg)
	defer dbConn.Close()

	if err := seed.Run(dbConn); err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database seeding complete")
}

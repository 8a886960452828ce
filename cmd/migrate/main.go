package main

import (
	"context"
	"flag"
	"log"

	"pdfquiz/internal/config"
	"pdfquiz/internal/database"
	"pdfquiz/internal/logger"

	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", database.DefaultMigrationsDir, "directory holding *.up.sql and *.down.sql files")
	down := flag.Bool("down", false, "revert migrations instead of applying them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	direction := database.Up
	if *down {
		direction = database.Down
	}
	if err := database.RunMigrations(ctx, db, database.DirFS(*dir), direction); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations complete", zap.String("direction", string(direction)))
}

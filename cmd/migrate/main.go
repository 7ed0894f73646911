package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"bookapi/internal/config"
	"bookapi/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dir := migrationsDir()

	if *command == "create" {
		if *name == "" {
			logger.Fatal("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			logger.Fatal("failed to create migration", zap.Error(err))
		}
		logger.Info("migration created", zap.String("name", *name), zap.String("dir", dir))
		return
	}

	dsn := databaseURL(cfg)
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("goose dialect", zap.Error(err))
	}

	if err := runCommand(*command, func(cmd string) error {
		switch cmd {
		case "up":
			return goose.UpContext(ctx, db, dir)
		case "down":
			return goose.DownContext(ctx, db, dir)
		default:
			return goose.StatusContext(ctx, db, dir)
		}
	}); err != nil {
		logger.Fatal("migration failed", zap.String("command", *command), zap.Error(err))
	}
	logger.Info("migration finished", zap.String("command", *command))
}

// runCommand validates cmd before handing it to exec.
func runCommand(cmd string, exec func(string) error) error {
	switch cmd {
	case "up", "down", "status":
		return exec(cmd)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", cmd)
	}
}

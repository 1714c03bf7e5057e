package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"clientportal/config"
	"clientportal/internal/cli"
	"clientportal/internal/repository"
	"clientportal/internal/seed"
	"clientportal/pkg/db"
	"clientportal/pkg/outbox"
)

func main() {
	log := zap.NewNop()

	data, err := seed.Load(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := &cli.App{
		Data:            data,
		OpenSubmissions: openSubmissions,
		OpenOutbox:      openOutbox,
	}

	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openSubmissions(_ context.Context) (cli.SubmissionLister, func(), error) {
	pool, err := openPool()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewSubmissionLogRepository(pool), pool.Close, nil
}

func openOutbox(_ context.Context) (cli.OutboxAdmin, func(), error) {
	pool, err := openPool()
	if err != nil {
		return nil, nil, err
	}
	return outbox.NewRepository(pool), pool.Close, nil
}

func openPool() (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.DB.Enabled {
		return nil, fmt.Errorf("db is not enabled in config %q", os.Getenv("CONFIG_ENV"))
	}
	return db.NewConnection(cfg.DB, zap.NewNop())
}

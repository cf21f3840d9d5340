// Command seed fills the configured store with fake data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/observability"
	"devconnector/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Delete all data before seeding")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*numUsers, *numPosts, *shouldClean, *seedValue); err != nil {
		slog.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(numUsers, numPosts int, clean bool, seedValue int64) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	observability.InitLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	store, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close(ctx)

	s := seed.NewSeeder(store, seedValue, cfg.BcryptCost)
	if clean {
		if err := s.Clean(ctx); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	users, err := s.SeedUsers(ctx, numUsers)
	if err != nil {
		return err
	}
	if _, err := s.SeedPosts(ctx, users, numPosts); err != nil {
		return err
	}

	observability.Logger.Info("seeding complete",
		slog.Int("users", numUsers),
		slog.Int("posts", numPosts),
		slog.String("password", seed.Password),
	)
	return nil
}

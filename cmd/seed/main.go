// Command seed loads portfolio content from a file into the configured
// MongoDB database, or prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/internal/database"
	"github.com/devfolio/devfolio/internal/operators"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
)

func main() {
	file := flag.String("file", "", "seed file (yaml, json or toml)")
	hash := flag.String("hash-password", "", "print the bcrypt hash of this password and exit")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))

	if *hash != "" {
		h, err := operators.HashPassword(*hash)
		if err != nil {
			logger.Fatalf("hash password: %v", err)
		}
		fmt.Println(h)
		return
	}
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("MONGODB_URI is required to seed content")
	}
	seed, err := LoadFile(*file)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 3, time.Second)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	s := store.NewMongoStore(client.Database(cfg.MongoDB.Database))
	res, err := Apply(ctx, s, seed)
	if err != nil {
		logger.Fatalf("seed failed after %d projects, %d skills: %v", res.Projects, res.Skills, err)
	}
	logger.Infof("seeded %d projects, %d skills, settings=%v", res.Projects, res.Skills, res.Settings)
}

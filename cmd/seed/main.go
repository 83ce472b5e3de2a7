package main

import (
	"context"
	"log"
	"os"

	"weetzen-shop/internal/config"
	"weetzen-shop/internal/db"
	"weetzen-shop/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	if err := seed.Apply(ctx, dbpool); err != nil {
		logger.Fatalf("apply seed: %v", err)
	}
	logger.Printf("seed data applied")
}

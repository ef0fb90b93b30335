package main

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bookstore/config"
	"github.com/shashiranjanraj/bookstore/internal/kernel"
	"github.com/shashiranjanraj/bookstore/pkg/cache"
	"github.com/shashiranjanraj/bookstore/pkg/database"
	"github.com/shashiranjanraj/bookstore/pkg/logger"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(ctx)
}

// bootKernel builds the HTTP kernel on top of an open database. A Redis
// outage only disables catalog caching.
func bootKernel(ctx context.Context) (*kernel.HTTPKernel, *cache.Store, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	store, err := cache.Connect(pingCtx, "bookstore:catalog:")
	if err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", "error", err)
	}

	k, err := kernel.NewHTTPKernel(kernel.Options{
		DB:            database.DB,
		Cache:         store,
		Auth:          config.Auth(),
		Catalog:       config.Catalog(),
		LoanDurations: config.LoanDurations(),
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return k, store, nil
}

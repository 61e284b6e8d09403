// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rustaceans/internal/auth"
	"rustaceans/internal/config"
	"rustaceans/internal/db"
	"rustaceans/internal/logging"
	"rustaceans/internal/router"
	"rustaceans/internal/rustacean"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.Database)
	if err != nil {
		zap.L().Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close(pool)

	if err := db.Migrate(ctx, pool); err != nil {
		zap.L().Fatal("failed to run database migrations", zap.Error(err))
	}

	store := rustacean.NewGormStore(pool)
	handler := router.New(store, auth.NewBasic(cfg.Auth))

	srv := &http.Server{
		Addr:           cfg.Addr,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server starting",
			zap.String("addr", cfg.Addr),
			zap.String("driver", cfg.Database.Driver),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("http server exited", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("http server shutdown", zap.Error(err))
		}
		zap.L().Info("server stopped")
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"smart-retail-bookstore/internal/assistant"
	"smart-retail-bookstore/internal/chat"
	"smart-retail-bookstore/internal/config"
	"smart-retail-bookstore/internal/db"
	"smart-retail-bookstore/internal/httpserver"
	bookrepo "smart-retail-bookstore/internal/repository/book"
	orderrepo "smart-retail-bookstore/internal/repository/order"
	catalogsvc "smart-retail-bookstore/internal/service/catalog"
	ordersvc "smart-retail-bookstore/internal/service/order"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	bookRepo := bookrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	catalogService := catalogsvc.New(bookRepo)
	orderService := ordersvc.New(orderRepo)

	classifier := assistant.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout, logger)
	chatManager := chat.NewManager(classifier, orderService, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Chat:    chatManager,
		Catalog: catalogService,
		Orders:  orderService,
	}, cfg.AllowedOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

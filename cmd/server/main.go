package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vmkazarin/online_store/internal/config"
	"github.com/vmkazarin/online_store/internal/db"
	"github.com/vmkazarin/online_store/internal/httpserver"
	"github.com/vmkazarin/online_store/internal/logging"
	authmw "github.com/vmkazarin/online_store/internal/middleware/auth"
	loggingmw "github.com/vmkazarin/online_store/internal/middleware/logging"
	"github.com/vmkazarin/online_store/internal/mykafka"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/tokens"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	manager, err := tokens.NewManager(
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		cfg.JWTAlgorithm,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLHours)*time.Hour,
	)
	if err != nil {
		log.Fatalf("token manager error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer error: %v", err)
		}
	} else {
		logger.Warn("kafka brokers not configured, domain events disabled")
	}

	store := &repo.GormRepo{DB: database}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	catalogSvc := &service.CatalogService{Repo: store, Producer: producer}

	httpserver.Register(e, &httpserver.Deps{
		Auth:            authmw.New(manager),
		AuthHandler:     &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, Tokens: manager, Producer: producer}},
		UserHandler:     &httpserver.UserHTTP{Svc: &service.UserService{Repo: store, Producer: producer}},
		ProductHandler:  &httpserver.ProductHTTP{Svc: catalogSvc},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: catalogSvc},
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: store, Producer: producer}},
		OrderHandler:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: store, Producer: producer}},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: store}},
		ReviewHandler:   &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: store}},
		AddressHandler:  &httpserver.AddressHTTP{Svc: &service.AddressService{Repo: store}},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mvoronov/storefront/internal/config"
	"github.com/mvoronov/storefront/internal/es"
	"github.com/mvoronov/storefront/internal/events"
	"github.com/mvoronov/storefront/internal/httpserver"
	"github.com/mvoronov/storefront/internal/logging"
	"github.com/mvoronov/storefront/internal/middleware"
	"github.com/mvoronov/storefront/internal/payments"
	"github.com/mvoronov/storefront/internal/repo"
	"github.com/mvoronov/storefront/internal/service"
	"github.com/mvoronov/storefront/internal/service/search"
	"github.com/mvoronov/storefront/internal/tokens"
)

const productIndex = "products"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	r := repo.New(db)
	if err := r.SeedRoles(context.Background()); err != nil {
		log.Fatalf("seed roles error: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer([]string{cfg.KafkaAddress})
		defer producer.Close()
	}

	var index *search.Index
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = search.NewIndex(esClient, productIndex)
	}

	var gateway payments.Gateway
	if cfg.StripeKey != "" {
		gateway = payments.NewStripeGateway(cfg.StripeKey)
	}

	issuer := tokens.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL)

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHandler{
			Auth:  service.NewAuthService(r, issuer, producer, cfg.RefreshTTL),
			Users: service.NewUserService(r, producer),
		},
		CategoryHandler: &httpserver.CategoryHandler{Svc: service.NewCategoryService(r)},
		ProductHandler:  &httpserver.ProductHandler{Svc: service.NewCatalogService(r, index, producer)},
		OrderHandler:    &httpserver.OrderHandler{Svc: service.NewOrderService(r, producer)},
		PaymentHandler:  &httpserver.PaymentHandler{Svc: service.NewPaymentService(r, gateway, producer)},
		JWTSecret:       []byte(cfg.JWTSecret),
		JWTIssuer:       cfg.JWTIssuer,
		JWTAudience:     cfg.JWTAudience,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
}

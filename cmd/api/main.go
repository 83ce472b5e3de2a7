package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"weetzen-shop/internal/config"
	"weetzen-shop/internal/db"
	"weetzen-shop/internal/httpserver"
	cartrepo "weetzen-shop/internal/repository/cart"
	categoryrepo "weetzen-shop/internal/repository/category"
	orderrepo "weetzen-shop/internal/repository/order"
	productrepo "weetzen-shop/internal/repository/product"
	profilerepo "weetzen-shop/internal/repository/profile"
	userrepo "weetzen-shop/internal/repository/user"
	cartsvc "weetzen-shop/internal/service/cart"
	checkoutsvc "weetzen-shop/internal/service/checkout"
	customersvc "weetzen-shop/internal/service/customer"
	"weetzen-shop/internal/service/deliverynote"
	ordersvc "weetzen-shop/internal/service/order"
	"weetzen-shop/internal/service/payment"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	profileRepo := profilerepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	memberCarts := cartrepo.NewPostgres(dbpool)
	guestCarts := cartrepo.NewMemory()
	cartService := cartsvc.New(memberCarts, guestCarts, productRepo, logger)

	customerService := customersvc.New(userRepo, profileRepo, cfg.JWTSecret, cfg.AccessTokenTTL)
	orderService := ordersvc.New(orderRepo, profileRepo, logger)
	intentClient := payment.NewStripe(cfg.StripeSecretKey, logger)
	checkoutService := checkoutsvc.New(cartService, orderService, intentClient, logger)

	noteService, err := deliverynote.New(orderRepo, profileRepo)
	if err != nil {
		logger.Fatalf("init delivery note service: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:        cartService,
		CheckoutSvc:    checkoutService,
		CustomerSvc:    customerService,
		NoteSvc:        noteService,
		OrderRepo:      orderRepo,
		ProfileRepo:    profileRepo,
		ProductRepo:    productRepo,
		CategoryRepo:   categoryRepo,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/cart"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/checkout"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/config"
	h "github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/http"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/payment"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/session"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/storage"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if level, errLevel := logrus.ParseLevel(cfg.LogLevel); errLevel == nil {
		log.SetLevel(level)
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open local storage")
	}

	sessions := session.NewManager(store)
	api := upstream.NewClient(cfg.BackendBaseURL, cfg.RequestTimeout, sessions, log)

	cartStore := cart.NewStore(context.Background(), store, cart.CartKey("device"), log)
	checkoutService := checkout.NewService(cartStore, api)
	payments := payment.NewManager(api, log, payment.WithIntervals(cfg.CountdownInterval, cfg.PollInterval))

	router := h.NewRouter(h.RouterDeps{
		Sessions:       sessions,
		Auth:           h.NewAuthHandler(api, sessions, log),
		Products:       h.NewProductHandler(api),
		Cart:           h.NewCartHandler(cartStore, api),
		Checkout:       h.NewCheckoutHandler(checkoutService),
		Payments:       h.NewPaymentHandler(payments),
		Orders:         h.NewOrderHandler(api),
		Admin:          h.NewAdminHandler(api),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront gateway starting")
		if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.WithError(errServe).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	payments.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if errShutdown := srv.Shutdown(ctx); errShutdown != nil {
		log.WithError(errShutdown).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

func buildStore(cfg *config.Config) (storage.Store, error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return storage.NewRedisStore(client), nil
	}
	return storage.NewFileStore(cfg.DataDir)
}

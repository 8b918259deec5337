package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dip051030/flightbooking/api"
	"github.com/dip051030/flightbooking/config"
	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/dip051030/flightbooking/internal/bootstrap"
	"github.com/dip051030/flightbooking/internal/repository"
	"github.com/dip051030/flightbooking/internal/service/booking"
	"github.com/dip051030/flightbooking/internal/service/customers"
	"github.com/dip051030/flightbooking/internal/service/flights"
	"github.com/dip051030/flightbooking/internal/storage"
	"github.com/dip051030/flightbooking/pkg/logging"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := repository.NewRegistry()
	store := storage.New(cfg.Storage.Dir, logger)
	report, err := store.Load(reg)
	if err != nil {
		log.Fatalf("load data: %v", err)
	}
	if len(report.Skipped) > 0 {
		logger.Warn("some stored records were skipped during load", "count", len(report.Skipped))
	}

	authSvc := auth.NewService(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.SessionTTL(), reg)
	flightSvc := flights.NewFlightService(reg, store, logger)
	customerSvc := customers.NewCustomerService(reg, store, authSvc, logger)
	bookingSvc := booking.NewBookingService(reg, store, logger)

	router := api.NewRouter(authSvc, flightSvc, customerSvc, bookingSvc)

	logger.Info("starting server", "address", cfg.HTTP.Address, "data_dir", cfg.Storage.Dir)
	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/nurpe/marketpay/internal/auth"
	"github.com/nurpe/marketpay/internal/config"
	"github.com/nurpe/marketpay/internal/db"
	"github.com/nurpe/marketpay/internal/excel"
	httphandler "github.com/nurpe/marketpay/internal/http"
	"github.com/nurpe/marketpay/internal/http/middleware"
	"github.com/nurpe/marketpay/internal/logger"
	"github.com/nurpe/marketpay/internal/pdf"
	"github.com/nurpe/marketpay/internal/repository"
	"github.com/nurpe/marketpay/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	ledgerRepo := repository.NewLedgerRepository(database)
	reportRepo := repository.NewReportRepository(database)

	contractService := service.NewContractService(ledgerRepo)
	paymentService := service.NewPaymentService(ledgerRepo, cfg)
	reportService := service.NewReportService(reportRepo, excel.NewGenerator(), pdf.NewGenerator(), cfg)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, paymentService, reportService, log)
	profileAuth := middleware.Profile(ledgerRepo)
	adminAuth := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, profileAuth, adminAuth, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting marketpay service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

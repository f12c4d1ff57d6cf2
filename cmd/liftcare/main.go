package main

import (
	"fmt"
	"os"

	"github.com/hieuld/liftcare/internal/auth"
	"github.com/hieuld/liftcare/internal/config"
	"github.com/hieuld/liftcare/internal/db"
	"github.com/hieuld/liftcare/internal/docx"
	"github.com/hieuld/liftcare/internal/excel"
	httphandler "github.com/hieuld/liftcare/internal/http"
	"github.com/hieuld/liftcare/internal/http/middleware"
	"github.com/hieuld/liftcare/internal/logger"
	"github.com/hieuld/liftcare/internal/pdf"
	"github.com/hieuld/liftcare/internal/repository"
	"github.com/hieuld/liftcare/internal/service"
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
	customerRepo := repository.NewCustomerRepository(database)
	contractRepo := repository.NewContractRepository(database)
	historyRepo := repository.NewHistoryRepository(database)

	reportTemplate, err := docx.LoadTemplate(cfg.Report.TemplatePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Report.TemplatePath).Msg("failed to load report template")
	}
	pdfGenerator, err := pdf.NewGenerator(cfg.Report.FontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	customerService := service.NewCustomerService(database, customerRepo, contractRepo, historyRepo)
	contractService := service.NewContractService(database, customerRepo, contractRepo)
	historyService := service.NewHistoryService(database, customerRepo, historyRepo)
	trashService := service.NewTrashService(database, customerRepo, contractRepo)
	reportService := service.NewReportService(database, customerRepo, contractRepo, historyRepo, reportTemplate, cfg.Report.OutputDir, log)
	exportService := service.NewExportService(customerRepo, contractRepo, historyRepo, pdfGenerator, excelGenerator)

	handler := httphandler.NewHandler(customerService, contractService, historyService, trashService, reportService, exportService, log)

	var parser *auth.Parser
	if cfg.Auth.Secret != "" {
		parser = auth.NewParser(cfg.Auth.Secret)
		token, err := auth.NewBridgeToken(cfg.Auth.Secret)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to mint bridge token")
		}
		log.Info().Str("token", token).Msg("bridge token")
	}

	router := httphandler.NewRouter(handler, middleware.Auth(parser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting liftcare service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

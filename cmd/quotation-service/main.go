package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/rfp-quotation/internal/auth"
	"github.com/nurpe/rfp-quotation/internal/catalog"
	"github.com/nurpe/rfp-quotation/internal/config"
	"github.com/nurpe/rfp-quotation/internal/db"
	"github.com/nurpe/rfp-quotation/internal/document"
	"github.com/nurpe/rfp-quotation/internal/excel"
	"github.com/nurpe/rfp-quotation/internal/extractor"
	httphandler "github.com/nurpe/rfp-quotation/internal/http"
	"github.com/nurpe/rfp-quotation/internal/http/middleware"
	"github.com/nurpe/rfp-quotation/internal/logger"
	"github.com/nurpe/rfp-quotation/internal/matcher"
	"github.com/nurpe/rfp-quotation/internal/pdf"
	"github.com/nurpe/rfp-quotation/internal/pricer"
	"github.com/nurpe/rfp-quotation/internal/repository"
	"github.com/nurpe/rfp-quotation/internal/scrape"
	"github.com/nurpe/rfp-quotation/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Catalog.Source).Msg("failed to load catalog")
	}
	log.Info().Str("source", cfg.Catalog.Source).Int("products", cat.Len()).Msg("catalog loaded")

	pipeline := service.NewPipeline(extractor.New(), matcher.New(cat), pricer.New(), log)
	store := service.NewResultStore()
	quotations := service.NewQuotationService(service.Dependencies{
		Pipeline: pipeline,
		Store:    store,
		Catalog:  cat,
		Reader:   document.NewReader(cfg.Upload.AllowedExtensions),
		PDF:      pdf.NewGenerator(""),
		Excel:    excel.NewGenerator(),
		Scraper:  scrape.New(cfg.Scrape.Timeout),
	}, cfg, log)

	sweeper, err := service.NewSweeper(store, cfg.Results.SweepSchedule, cfg.Results.TTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init result sweeper")
	}

	var tokenParser middleware.TokenParser
	if parser := auth.NewParser(cfg.Auth.AccessSecret); parser != nil {
		tokenParser = parser
	} else {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, api is unauthenticated")
	}

	handler := httphandler.NewHandler(quotations, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quotations.Start(ctx)
	sweeper.Start()

	go func() {
		log.Info().Str("addr", addr).Msg("starting quotation service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	sweeper.Stop()
	quotations.Stop()
}

func loadCatalog(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceYAML:
		return catalog.LoadFile(cfg.Catalog.File)
	case config.CatalogSourcePostgres:
		database, err := db.New(cfg, log)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := database.DB(); err == nil {
			defer sqlDB.Close()
		}
		rows, err := repository.NewCatalogRepository(database).ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.FromProducts(rows)
	default:
		return catalog.Builtin(), nil
	}
}

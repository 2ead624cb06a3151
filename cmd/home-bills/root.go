package main

import (
	"context"
	"database/sql"
	"fmt"

	"home_bills/internal/config"
	"home_bills/internal/logger"
	"home_bills/internal/repository"
	"home_bills/internal/repository/db"
	"home_bills/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "home-bills",
	Short: "Voice-assistant skill for monthly meter readings and utility bills",
	Long: `home-bills collects water and electricity meter readings through a voice-assistant
webhook, prices the month against the previous one and answers with the total.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yml")
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.New(), configDir)
}

// backend holds the opened storage; close releases it.
type backend struct {
	db       *sql.DB
	workbook *repository.Workbook
	repos    *repository.Repository
	rates    *service.RateTable
}

func (b *backend) close(log *logger.Logger) {
	if b.workbook != nil {
		if err := b.workbook.Close(); err != nil {
			log.Errorw("failed to close workbook", "err", err)
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			log.Errorw("failed to close sqlite", "err", err)
		}
	}
}

// openBackend opens SQLite, the workbook when it is the readings backend or the rates
// source, and loads the rate table.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	conn, err := db.InitDB(ctx, cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	b := &backend{db: conn}

	if cfg.Storage.Backend == config.BackendWorkbook || cfg.Rates.Source == config.RatesFromSheet {
		if b.workbook, err = repository.OpenWorkbook(cfg.Storage.WorkbookPath); err != nil {
			b.close(log)
			return nil, fmt.Errorf("open workbook: %w", err)
		}
	}

	var readings repository.ReadingsRepo
	if cfg.Storage.Backend == config.BackendWorkbook {
		readings = b.workbook
	}
	b.repos = repository.NewRepository(conn, readings)

	if cfg.Rates.Source == config.RatesFromSheet {
		b.rates, err = service.LoadRateTable(ctx, b.workbook)
	} else {
		b.rates, err = service.NewRateTable(cfg.Rates.Rates)
	}
	if err != nil {
		b.close(log)
		return nil, err
	}

	log.Infow("storage_ready", "backend", cfg.Storage.Backend, "db", cfg.DB.Path, "rates_source", cfg.Rates.Source)
	return b, nil
}

package main

import (
	"context"
	"errors"
	"fmt"

	"home_bills/internal/logger"
	"home_bills/internal/models"
	"home_bills/internal/service"

	"github.com/spf13/cobra"
)

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Print the bill of the current month and save its totals",
	RunE:  runBill,
}

func init() {
	rootCmd.AddCommand(billCmd)
}

func runBill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Nop()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close(log)

	store := service.NewReadingStore(b.repos.Readings, service.SystemClock)
	wb := service.NewWritebackService(store, b.repos.Journal, nil, 1, nil, log)
	billing := service.NewBillingService(store, b.rates, wb, b.repos.Journal, nil, log)

	bill, err := billing.Calculate(ctx)
	if err != nil {
		var missing *models.MissingDataError
		if errors.As(err, &missing) {
			fmt.Fprintln(cmd.OutOrStdout(), service.MissingDataText(missing))
			return nil
		}
		return err
	}

	// The single queued write-back runs during the drain.
	cancel()
	wb.Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), service.BillText(bill))
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/Behyna/paygw/internal/bootstrap"
	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	cfg    *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	db      *gorm.DB
}

func load(configPath string, withDB bool) (*env, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, metrics: metrics.NewMetricsWith(prometheus.NewRegistry())}
	if withDB {
		if e.db, err = bootstrap.NewConnectionDB(cfg, e.metrics, logger); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Cancel every pending transaction past its expiry, once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(*configPath, true)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			audit := service.NewAuditRecorder(repository.NewRequestLogRepository(e.db), e.logger)
			sweeper := service.NewExpiryService(repository.NewPaymentTransactionRepository(e.db), audit, e.cfg,
				service.NewClock(), e.logger, e.metrics)

			result, err := sweeper.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func statusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status [merchantOrderId]",
		Short: "Ask the processor for the status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(*configPath, false)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			status, err := bootstrap.NewGateway(e.cfg).CheckStatus(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("status check failed: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), map[string]string{
				"merchantOrderId": status.MerchantOrderID,
				"reference":       status.Reference,
				"amount":          status.Amount.String(),
				"statusCode":      status.StatusCode,
				"status":          status.Status.String(),
				"statusMessage":   status.StatusMessage,
			})
		},
	}
}

func pendingCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pending [userId]",
		Short: "List a buyer's invoices that can still be paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			e, err := load(*configPath, true)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			pending := service.NewPendingService(repository.NewPaymentTransactionRepository(e.db),
				bootstrap.NewGateway(e.cfg), service.NewClock(), e.logger)

			payments, err := pending.ListPending(cmd.Context(), userID)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), payments)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the gateway tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(*configPath, true)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if err := repository.Migrate(e.db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

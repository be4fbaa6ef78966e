package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Sternrassler/cloudhealth-client/pkg/cloudhealth"
	"github.com/Sternrassler/cloudhealth-client/pkg/config"
	"github.com/Sternrassler/cloudhealth-client/pkg/logging"
	"github.com/Sternrassler/cloudhealth-client/pkg/record"
	"github.com/Sternrassler/cloudhealth-client/pkg/report"
	"github.com/spf13/cobra"
)

// app carries flag values and the per-run configuration.
type app struct {
	configFile  string
	logLevel    string
	logPretty   bool
	metricsFile string

	cfg *config.Config
	api *cloudhealth.API
}

// setup loads the configuration and builds the API. It runs before any
// subcommand, so a missing credential fails before any request is made.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{
		File:      a.configFile,
		Overrides: config.Overrides{LogLevel: a.logLevel},
	})
	if err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel(),
		Pretty: a.logPretty,
		Output: cmd.ErrOrStderr(),
	})
	logger := logging.NewLogger("chcli")
	logger.Debug().Str("config", cfg.String()).Str("command", cmd.Name()).Msg("Configuration loaded")

	api, err := cloudhealth.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.api = api
	return nil
}

// listFunc fetches the records one report prints.
type listFunc func(ctx context.Context, api *cloudhealth.API) ([]record.Record, error)

func (a *app) runReport(ctx context.Context, w io.Writer, list listFunc, rp report.Report, opts report.Options) error {
	records, err := list(ctx, a.api)
	if err != nil {
		return err
	}
	if err := rp.Render(w, records, opts); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func newListCustomersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-customers",
		Short: "List all customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, api *cloudhealth.API) ([]record.Record, error) {
					return api.Customers(ctx)
				},
				report.Customers, report.Options{})
		},
	}
}

func newListAccountsCommand(a *app) *cobra.Command {
	var customerID string

	cmd := &cobra.Command{
		Use:   "list-customer-accounts",
		Short: "List the AWS accounts of a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, api *cloudhealth.API) ([]record.Record, error) {
					return api.Accounts(ctx, customerID)
				},
				report.Accounts, report.Options{})
		},
	}

	cmd.Flags().StringVarP(&customerID, "customer-id", "i", "", "CloudHealth customer id")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func newListEC2InstancesCommand(a *app) *cobra.Command {
	var (
		customerID   string
		showSubtotal bool
	)

	cmd := &cobra.Command{
		Use:   "list-customer-ec2-instances",
		Short: "List the active EC2 instances of a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, api *cloudhealth.API) ([]record.Record, error) {
					return api.EC2Instances(ctx, customerID)
				},
				report.EC2Instances, report.Options{ShowSubtotal: showSubtotal})
		},
	}

	cmd.Flags().StringVarP(&customerID, "customer-id", "i", "", "CloudHealth customer id")
	cmd.Flags().BoolVar(&showSubtotal, "show-subtotal", false, "Print a subtotal per account")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

func newListRDSInstancesCommand(a *app) *cobra.Command {
	var customerID string

	cmd := &cobra.Command{
		Use:   "list-customer-rds-instances",
		Short: "List the active RDS instances of a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, api *cloudhealth.API) ([]record.Record, error) {
					return api.RDSInstances(ctx, customerID)
				},
				report.RDSInstances, report.Options{})
		},
	}

	cmd.Flags().StringVarP(&customerID, "customer-id", "i", "", "CloudHealth customer id")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

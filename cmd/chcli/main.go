package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/cloudhealth-client/pkg/config"
	"github.com/Sternrassler/cloudhealth-client/pkg/metrics"
	"github.com/spf13/cobra"
)

var version = "0.1"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &app{}
	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	if app.metricsFile != "" {
		if mErr := metrics.WriteTextfile(app.metricsFile); mErr != nil {
			fmt.Fprintf(stderr, "Warning: write metrics: %v\n", mErr)
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return 0
}

func newRootCommand(app *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chcli",
		Short: "List CloudHealth customers and their AWS assets",
		Long: `chcli queries the CloudHealth API and prints customers, accounts and
instances as fixed-width tables.

Authentication is required via the CH_API_KEY environment variable.`,
		Version:           version,
		SilenceUsage:      true, // Don't show usage on error
		SilenceErrors:     true, // Printed by run
		PersistentPreRunE: app.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configFile, "config", "", "YAML config file (base_url, page_size, log_level)")
	flags.StringVar(&app.logLevel, "log-level", "", "Log level: none, debug, info, warn, error (overrides CH_LOG_LEVEL)")
	flags.BoolVar(&app.logPretty, "log-pretty", false, "Human-readable log output instead of JSON")
	flags.StringVar(&app.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		newListCustomersCommand(app),
		newListAccountsCommand(app),
		newListEC2InstancesCommand(app),
		newListRDSInstancesCommand(app),
	)

	return rootCmd
}

// mapErrorToExitCode maps configuration problems to 2 and everything else
// to 1.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return 2
	}

	return 1
}

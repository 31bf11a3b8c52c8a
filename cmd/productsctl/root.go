package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrops-br/financial-products/internal/infrastructure/client"
	"github.com/mrops-br/financial-products/internal/infrastructure/config"
	"github.com/mrops-br/financial-products/internal/infrastructure/telemetry"
)

// errReported is returned once the failure has already been printed.
var errReported = errors.New("failure reported")

type app struct {
	api    *client.Client
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

type rootFlags struct {
	apiURL     string
	verifyMode string
	timeout    time.Duration
	verbose    bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var (
		flags rootFlags
		a     = &app{out: out, errOut: errOut}
	)

	cmd := &cobra.Command{
		Use:           "productsctl",
		Short:         "Manage financial products through the products API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "products collection URL (overrides PRODUCTS_API_URL)")
	pf.StringVar(&flags.verifyMode, "verify-mode", "", "id check: verification or lookup (overrides PRODUCTS_VERIFY_MODE)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (overrides PRODUCTS_API_TIMEOUT)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log at the configured LOG_LEVEL instead of warn")

	cmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newVerifyCmd(a),
		newCreateCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if flags.apiURL != "" {
		cfg.Client.BaseURL = flags.apiURL
	}
	if flags.verifyMode != "" {
		cfg.Client.VerifyMode = flags.verifyMode
	}
	if flags.timeout > 0 {
		cfg.Client.Timeout = flags.timeout
	}
	if !flags.verbose && cfg.Log.Level < slog.LevelWarn {
		cfg.Log.Level = slog.LevelWarn
	}

	a.logger = telemetry.NewLogger(a.errOut, &cfg.Log, &cfg.OTLP)

	a.api, err = client.New(cfg.Client.BaseURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithVerifyMode(client.VerifyMode(cfg.Client.VerifyMode)),
		client.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("configure client: %w", err)
	}
	return nil
}

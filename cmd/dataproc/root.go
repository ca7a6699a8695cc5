package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Afrawles/dataproc/internal/app"
	"github.com/Afrawles/dataproc/internal/bfhl"
	"github.com/Afrawles/dataproc/internal/config"
	"github.com/Afrawles/dataproc/internal/coordinator"
	"github.com/Afrawles/dataproc/internal/render"
	"github.com/Afrawles/dataproc/internal/report"
	"github.com/Afrawles/dataproc/internal/tui"
)

var (
	configPath string
	endpoint   string
	timeout    time.Duration
	rateLimit  float64
	logLevel   string
	logFile    string

	data       string
	jsonOutput bool
	exportFlag string
	output     string
)

var rootCmd = &cobra.Command{
	Use:           "dataproc",
	Short:         "Send comma-separated values to the BFHL API and show the result",
	Long:          `dataproc posts a list of tokens to the BFHL processing API and renders the classified result.`,
	Version:       bfhl.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var (
	submitCmd = &cobra.Command{
		Use:     "submit [tokens...]",
		Aliases: []string{"process"},
		Short:   "Submit tokens once and print the result",
		Long: `Submits comma-separated tokens taken from --data, the arguments or stdin.
Multiple arguments are joined with commas.`,
		Example: `  dataproc submit "a,1,334,4,R,$"
  echo "a,1,334" | dataproc submit --export json,xlsx`,
		RunE: runSubmit,
	}

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive form",
		RunE:  runTUI,
	}
)

func execute() {
	if err := rootCmd.Execute(); err != nil {
		var e exitError
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.AddCommand(submitCmd, tuiCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default $DATAPROC_CONFIG)")
	pf.StringVar(&endpoint, "endpoint", "", "Processing API URL (default $DATAPROC_ENDPOINT)")
	pf.DurationVar(&timeout, "timeout", config.DefaultTimeout, "Request timeout")
	pf.Float64Var(&rateLimit, "rate", 0, "Maximum submissions per second (0 = unlimited)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "Write logs to this file")

	submitCmd.Flags().StringVarP(&data, "data", "d", "", "Comma-separated tokens")
	submitCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw JSON response")
	submitCmd.Flags().StringVar(&exportFlag, "export", "", "Export formats on success: json, csv, xlsx (comma-separated)")
	submitCmd.Flags().StringVarP(&output, "output", "o", "", "Output directory for exports")
}

// loadConfig layers command-line flags over the file and environment config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.API.Endpoint = endpoint
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout = timeout
	}
	if flags.Changed("rate") {
		cfg.API.Rate = rateLimit
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("export") {
		cfg.Output.Format = config.ParseFormats(exportFlag)
	}
	if flags.Changed("output") {
		cfg.Output.Directory = output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, err := rawInput(data, args, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	application, err := app.New(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer application.Close()

	if cfg.SuspiciousEndpoint() {
		fmt.Fprintln(cmd.ErrOrStderr(), render.EndpointWarning(cfg.API.Endpoint))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	st, paths, err := submitWithSpinner(ctx, application, raw, cmd.ErrOrStderr())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Request cancelled")
			return exitError{code: 130}
		}
		if st.Status != coordinator.StatusSuccess {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Export failed: %v\n", err)
	}

	return printState(cmd.OutOrStdout(), cmd.ErrOrStderr(), st, paths)
}

func submitWithSpinner(ctx context.Context, application *app.Application, raw string, w io.Writer) (coordinator.State, []string, error) {
	var stop func()
	unsubscribe := application.Coordinator.Subscribe(func(st coordinator.State) {
		if st.Loading() && stop == nil {
			stop = spin(w, render.LoadingText)
		}
	})
	defer unsubscribe()

	st, paths, err := application.Submit(ctx, raw)
	if stop != nil {
		stop()
	}
	return st, paths, err
}

func printState(stdout, stderr io.Writer, st coordinator.State, paths []string) error {
	switch st.Status {
	case coordinator.StatusFailed:
		fmt.Fprintln(stderr, render.Error(st.Message()))
		return exitError{code: 1}

	case coordinator.StatusSuccess:
		if jsonOutput {
			body, err := report.IndentedJSON(st.Result)
			if err != nil {
				return err
			}
			_, err = stdout.Write(body)
			return err
		}

		if err := render.State(stdout, st); err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(stderr, "  -> %s\n", p)
		}
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the form owns the terminal, keep logs out of it
	application, err := app.New(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return tui.Run(ctx, application.Coordinator, tui.Options{
		Endpoint: cfg.API.Endpoint,
		Warn:     cfg.SuspiciousEndpoint(),
	})
}

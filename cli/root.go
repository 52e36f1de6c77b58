// Package cli implements the dojsearch command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doj-tools/dojsearch/client"
	"github.com/doj-tools/dojsearch/config"
	"github.com/doj-tools/dojsearch/export"
	"github.com/doj-tools/dojsearch/logging"
)

var (
	flagQuery         string
	flagLimit         int
	flagDelay         float64
	flagPrefix        string
	flagOutputPath    string
	flagBaseURL       string
	flagNoSave        bool
	flagHead          int
	flagVerbose       bool
	flagConfig        string
	flagMetricsAddr   string
	flagRespectRobots bool
)

var rootCmd = &cobra.Command{
	Use:   "dojsearch",
	Short: "Search DOJ multimedia-search and export document metadata",
	Long: `dojsearch walks the public DOJ multimedia-search endpoint page by page,
collects normalized document metadata records, and writes them out as a
JSON array, a CSV table, and a plain URL list.`,
	Version:      "0.1.0",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	defaults := config.DefaultConfig()
	flags := rootCmd.Flags()
	flags.StringVarP(&flagQuery, "search", "s", "", "search query (empty matches all documents)")
	flags.IntVarP(&flagLimit, "limit", "l", -1, "maximum records to fetch (negative fetches everything)")
	flags.Float64VarP(&flagDelay, "delay", "d", defaults.Delay.Seconds(), "delay between page requests in seconds")
	flags.StringVarP(&flagPrefix, "prefix", "o", defaults.Prefix, "report file name prefix")
	flags.StringVar(&flagOutputPath, "output-path", defaults.OutputPath, "directory for report files")
	flags.StringVar(&flagBaseURL, "base-url", defaults.BaseURL, "base search endpoint URL")
	flags.BoolVar(&flagNoSave, "no-save", false, "print the summary without writing report files")
	flags.IntVar(&flagHead, "head", defaults.Head, "number of leading results to display")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&flagConfig, "config", "", "path to a TOML config file (default $HOME/.dojsearch.toml)")
	flags.StringVar(&flagMetricsAddr, "metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	flags.BoolVar(&flagRespectRobots, "respect-robots", defaults.RespectRobotsTxt, "respect robots.txt directives")
}

// Execute runs the command line interface. A bare invocation prints the
// banner with usage and exits without touching the network.
func Execute() error {
	if len(os.Args) <= 1 {
		printBanner(os.Stdout)
		return rootCmd.Help()
	}
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	level := logging.LevelInfo
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	logging.Setup(logging.Config{
		Level:  level,
		Pretty: term.IsTerminal(int(os.Stderr.Fd())),
		Output: os.Stderr,
	})
	logger := logging.NewLogger("cli").With().
		Str("run_id", uuid.NewString()).
		Logger()

	cl, err := client.New(cfg)
	if err != nil {
		return fmt.Errorf("initialise client: %w", err)
	}

	metricsServer := startMetricsServer(cfg, cl.Metrics, logger)
	defer shutdownMetricsServer(metricsServer, logger)

	opts := client.SearchOptions{
		Query: flagQuery,
		Delay: cfg.Delay,
	}
	if flagLimit >= 0 {
		limit := flagLimit
		opts.MaxResults = &limit
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := cl.SearchAll(ctx, opts)

	out := cmd.OutOrStdout()
	printSummary(out, result, runErr)

	if len(result.Documents) > 0 {
		if !flagNoSave {
			paths, err := export.SaveResults(result.Documents, cfg.Prefix, cfg.OutputPath)
			if err != nil {
				return fmt.Errorf("save results: %w", err)
			}
			printSaved(out, paths, len(result.Documents))
		}
		printHead(out, result.Documents, cfg.Head)
	}

	if runErr != nil {
		return fmt.Errorf("search ended early: %w", runErr)
	}
	return nil
}

// resolveConfig layers configuration sources: defaults, then the config
// file, then DOJSEARCH_* environment variables, then explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := flagConfig
	explicit := cmd.Flags().Changed("config")
	if path == "" {
		path = config.DefaultFilePath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := config.ApplyFile(cfg, path); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if flags.Changed("delay") {
		cfg.Delay = time.Duration(flagDelay * float64(time.Second))
	}
	if flags.Changed("output-path") {
		cfg.OutputPath = flagOutputPath
	}
	if flags.Changed("prefix") {
		cfg.Prefix = flagPrefix
	}
	if flags.Changed("head") {
		cfg.Head = flagHead
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if flags.Changed("respect-robots") {
		cfg.RespectRobotsTxt = flagRespectRobots
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func startMetricsServer(cfg *config.Config, metrics *client.Metrics, logger zerolog.Logger) *http.Server {
	if cfg.MetricsAddr == "" || metrics == nil {
		return nil
	}
	srv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server enabled")
	return srv
}

func shutdownMetricsServer(srv *http.Server, logger zerolog.Logger) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("metrics server shutdown failed")
	}
}

// stockalert texts news headlines when a tracked symbol's daily close moves past a threshold.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/stockalert/internal/alert"
	"github.com/seenimoa/stockalert/internal/config"
	"github.com/seenimoa/stockalert/internal/logger"
	"github.com/seenimoa/stockalert/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockalert",
	Short: "Text news headlines when a stock's daily close moves past a threshold",
	Long: `stockalert fetches the daily series for one symbol, compares the last two
closes, and when the move exceeds the threshold (5% by default) texts up to
three matching news headlines.

Credentials are read from the environment (Stock_API, News_API,
TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN or their STOCKALERT_* forms), a .env
file, or the config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
			cfg.SMS.DryRun = true
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res := runOnce(ctx, cfg)
		fmt.Fprintln(cmd.OutOrStdout(), summary(cfg.Stock.Symbol, res))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().Bool("dry-run", false, "log the messages instead of sending them")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
}

// runOnce builds the pipeline from cfg, runs it, and pushes metrics if configured.
func runOnce(ctx context.Context, cfg *config.Config) alert.Result {
	log := logger.For("main")
	if missing := config.Missing(config.CheckAPIKeys(cfg)); len(missing) > 0 {
		log.WithField("missing", missing).Warn("Some credentials are not set; affected steps will fail")
	}

	pipeline := newPipeline(cfg)
	res := pipeline.Run(ctx)

	if cfg.Metrics.PushgatewayURL != "" {
		if err := pushMetrics(ctx, cfg, res, time.Now()); err != nil {
			log.Warnf("Metrics push failed: %v", err)
		}
	}
	return res
}

func summary(symbol string, res alert.Result) string {
	switch res.Outcome {
	case alert.OutcomeNoStockData:
		return fmt.Sprintf("%s: no stock data, nothing sent", symbol)
	case alert.OutcomeBelowThreshold:
		return fmt.Sprintf("%s: %s move, below threshold", symbol, utils.FormatAbsPct(res.ChangePct))
	case alert.OutcomeNoNews:
		return fmt.Sprintf("%s: %s move, no news found", symbol, utils.FormatAbsPct(res.ChangePct))
	default:
		line := fmt.Sprintf("%s: %s move, %d/%d message(s) sent", symbol,
			utils.FormatAbsPct(res.ChangePct), res.Sent, res.Articles)
		if res.Failed > 0 {
			line += fmt.Sprintf(", %d failed", res.Failed)
		}
		if res.Skipped > 0 {
			line += fmt.Sprintf(", %d skipped (cancelled)", res.Skipped)
		}
		return line
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "stockalert %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and credential status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		now := utils.NowET()

		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  stockalert status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintf(out, "  Market Status: %s\n", utils.MarketStatus(now))
		fmt.Fprintf(out, "  Time (ET):     %s\n", utils.FormatDateTimeET(now))
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Configuration:")
		fmt.Fprintf(out, "    Symbol:        %s (news query: %q)\n", cfg.Stock.Symbol, cfg.Stock.CompanyName)
		fmt.Fprintf(out, "    Threshold:     %s\n", utils.FormatAbsPct(cfg.Alert.ThresholdPct))
		fmt.Fprintf(out, "    News:          %s (limit %d)\n", cfg.News.Provider, cfg.News.Limit)
		fmt.Fprintf(out, "    SMS:           %s -> %s (dry run: %t)\n", cfg.SMS.From, cfg.SMS.To, cfg.SMS.DryRun)
		if cfg.Metrics.PushgatewayURL != "" {
			fmt.Fprintf(out, "    Pushgateway:   %s (job %s)\n", cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(out, "    ❌ invalid:     %v\n", err)
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Fprintf(out, "    %-25s %s\n", k.Name+":", status)
		}

		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}

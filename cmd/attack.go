package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/boolattack/collide"
	"github.com/gnolang/boolattack/formatter"
	"github.com/gnolang/boolattack/internal/attack"
)

// variable for flags
var (
	strategyName  string
	maxIterations int
	verifyFlag    bool
	watchMode     bool
	showProgress  bool
	dumpMetrics   bool
)

var attackCmd = &cobra.Command{
	Use:   "attack [program]",
	Short: "Search a program for a collision",
	Long: `Resolves the program, then fixes free inputs one at a time until a branch
loses more free inputs than it pins, or the search is exhausted.
Example) boolattack attack --strategy complexity --verify sha256-8.bool`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := collide.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		applyAttackFlags(cmd, &config)
		if err := config.Validate(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if watchMode {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return watchProgram(ctx, logger, out, args[0], config)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return runAttack(ctx, logger, out, args[0], config)
	},
}

func init() {
	attackCmd.Flags().StringVar(&strategyName, "strategy", "", "Branch selection strategy: first or complexity")
	attackCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "Stop after this many explored branches")
	attackCmd.Flags().BoolVar(&verifyFlag, "verify", false, "Ask the SAT solver for two colliding inputs")
	attackCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rerun whenever the program file changes")
	attackCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")
	attackCmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Print collected metrics after the report")
}

// applyAttackFlags lets explicitly set flags override the configuration.
func applyAttackFlags(cmd *cobra.Command, config *collide.Config) {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		config.Strategy = strategyName
	}
	if flags.Changed("max-iterations") {
		config.MaxIterations = maxIterations
	}
	if flags.Changed("verify") {
		config.Verify = verifyFlag
	}
}

func runAttack(ctx context.Context, logger *zap.Logger, out io.Writer, path string, config collide.Config) error {
	_, err := attackFile(ctx, logger, out, path, config)
	return err
}

// attackFile runs and prints one report.
func attackFile(ctx context.Context, logger *zap.Logger, out io.Writer, path string, config collide.Config) (*collide.Report, error) {
	var opts []attack.Option
	if showProgress {
		observe, done := collide.Progress(os.Stderr, path, config)
		defer done()
		opts = append(opts, observe)
	}

	report, err := collide.ProcessFile(ctx, logger, path, config, opts...)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(out, formatter.FormatReport(report))

	if dumpMetrics {
		fmt.Fprintln(out)
		if err := collide.WriteMetrics(out, prometheus.DefaultGatherer); err != nil {
			return nil, fmt.Errorf("writing metrics: %w", err)
		}
	}
	return report, nil
}

func watchProgram(ctx context.Context, logger *zap.Logger, out io.Writer, path string, config collide.Config) error {
	w, err := collide.NewWatcher(logger, []string{path})
	if err != nil {
		return err
	}
	cache := collide.NewCache(0)
	attackAndCache := func(ctx context.Context, file string) {
		if _, ok := cache.Get(file); ok {
			logger.Debug("program unchanged", zap.String("file", file))
			return
		}
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		report, err := attackFile(runCtx, logger, out, file, config)
		if err != nil {
			logger.Error("Error attacking program", zap.String("file", file), zap.Error(err))
			return
		}
		if err := cache.Set(file, report); err != nil {
			logger.Warn("Error caching report", zap.String("file", file), zap.Error(err))
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	attackAndCache(ctx, abs)
	fmt.Fprintf(out, "watching %s for changes\n", path)

	err = w.Run(ctx, func(ctx context.Context, changed string) {
		fmt.Fprintln(out)
		attackAndCache(ctx, changed)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Package collide loads boolean programs, runs the collision search on them
// and optionally confirms a collision with a concrete witness.
package collide

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/boolattack/internal/attack"
	"github.com/gnolang/boolattack/internal/logic"
	"github.com/gnolang/boolattack/internal/verify"
)

// Report is everything one run produced.
type Report struct {
	Source  string
	Result  attack.Result
	Witness *verify.Witness
	Elapsed time.Duration
}

// LoadFile parses the program stored at path. "-" reads standard input.
func LoadFile(path string) (*logic.BooleanFunction, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	fn, err := logic.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fn, nil
}

// ProcessFile loads path and attacks it.
func ProcessFile(
	ctx context.Context,
	logger *zap.Logger,
	path string,
	config Config,
	opts ...attack.Option,
) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fn, err := LoadFile(path)
	if err != nil {
		logger.Error("Error loading program", zap.String("file", path), zap.Error(err))
		return nil, err
	}
	report, err := Run(ctx, logger.With(zap.String("file", path)), fn, config, opts...)
	if err != nil {
		return nil, err
	}
	report.Source = path
	return report, nil
}

// Run attacks fn as configured. Options given by the caller are applied
// after the ones derived from config. When config.Verify is set and a
// collision is found, the solver is asked for a witness; a solver timeout
// leaves Witness nil rather than failing the run.
func Run(
	ctx context.Context,
	logger *zap.Logger,
	fn *logic.BooleanFunction,
	config Config,
	opts ...attack.Option,
) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	strategy, err := attack.StrategyByName(config.Strategy)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	a := attack.New(fn, append([]attack.Option{
		attack.WithLogger(logger),
		attack.WithMaxIterations(config.MaxIterations),
		attack.WithStrategy(strategy),
	}, opts...)...)

	res, err := a.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("attack: %w", err)
	}
	report := &Report{Result: res}

	if config.Verify && res.Kind == attack.CollisionFound {
		w, err := witness(ctx, fn, res, config.VerifyTimeout)
		switch {
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			logger.Warn("witness search timed out", zap.Duration("timeout", config.VerifyTimeout))
		case err != nil:
			return nil, fmt.Errorf("verify: %w", err)
		default:
			report.Witness = w
			logger.Debug("witness found", zap.Int("differing_inputs", len(w.Differing())))
		}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func witness(ctx context.Context, fn *logic.BooleanFunction, res attack.Result, timeout time.Duration) (*verify.Witness, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return verify.Find(ctx, fn, res.Constraints.Slice())
}

// Progress returns an observer that advances a progress bar on w once per
// iteration, and a function that completes the bar.
func Progress(w io.Writer, description string, config Config) (attack.Option, func()) {
	bar := progressbar.NewOptions(config.MaxIterations,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	observe := attack.WithObserver(func(attack.Iteration) {
		_ = bar.Add(1)
	})
	return observe, func() {
		_ = bar.Finish()
		fmt.Fprintln(w)
	}
}

// WriteMetrics dumps every metric family known to g in the text
// exposition format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

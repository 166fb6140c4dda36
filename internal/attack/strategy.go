package attack

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gnolang/boolattack/internal/logic"
)

// Strategy chooses which branch to extend and which of its free input
// parameters to fix next.
type Strategy interface {
	Name() string
	Choose(ctx context.Context, parents []*AttackRecord) (*AttackRecord, logic.Name, error)
}

// StrategyByName returns the strategy registered under name.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", FirstStrategy{}.Name():
		return FirstStrategy{}, nil
	case ComplexityStrategy{}.Name():
		return ComplexityStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// FirstStrategy takes the earliest registered parent and its lowest-index
// free input. It is the default and fully deterministic.
type FirstStrategy struct{}

func (FirstStrategy) Name() string { return "first" }

func (FirstStrategy) Choose(_ context.Context, parents []*AttackRecord) (*AttackRecord, logic.Name, error) {
	for _, p := range parents {
		if len(p.Free) > 0 {
			return p, p.Free[0], nil
		}
	}
	return nil, "", ErrNoCandidate
}

// ComplexityStrategy prefers the parent with the fewest free inputs and
// fixes the input that appears most often in its right-hand sides. Ties
// fall back to insertion order and input index.
type ComplexityStrategy struct {
	// Workers bounds the concurrent report computations; zero means
	// GOMAXPROCS.
	Workers int
}

func (ComplexityStrategy) Name() string { return "complexity" }

func (s ComplexityStrategy) Choose(ctx context.Context, parents []*AttackRecord) (*AttackRecord, logic.Name, error) {
	reports := make([]*logic.ComplexityReport, len(parents))

	g, ctx := errgroup.WithContext(ctx)
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, p := range parents {
		if len(p.Free) == 0 {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = p.Complexity()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	best := -1
	for i, p := range parents {
		if reports[i] == nil {
			continue
		}
		if best < 0 || len(p.Free) < len(parents[best].Free) {
			best = i
		}
	}
	if best < 0 {
		return nil, "", ErrNoCandidate
	}

	parent, report := parents[best], reports[best]
	input := parent.Free[0]
	top := report.Rank(input)
	for _, name := range parent.Free[1:] {
		if n := report.Rank(name); n > top {
			input, top = name, n
		}
	}
	return parent, input, nil
}

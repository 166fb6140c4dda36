package attack

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/gnolang/boolattack/internal/logic"
)

// DefaultMaxIterations caps the search loop when no limit is given.
const DefaultMaxIterations = 128

// Iteration describes one explored branch.
type Iteration struct {
	Number int
	Depth  int
	Input  logic.Name
	Free   int
	Passes int
}

// Attack searches a program for a constraint set that collapses it by
// more free inputs than it pins.
type Attack struct {
	fn            *logic.BooleanFunction
	logger        *zap.Logger
	maxIterations int
	strategy      Strategy
	tracer        trace.Tracer
	observer      func(Iteration)

	records *AttackRecords
}

// Option configures an Attack.
type Option func(*Attack)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Attack) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMaxIterations sets the iteration cap. Values below 1 keep the
// default.
func WithMaxIterations(n int) Option {
	return func(a *Attack) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

func WithStrategy(s Strategy) Option {
	return func(a *Attack) {
		if s != nil {
			a.strategy = s
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Attack) {
		if tp != nil {
			a.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithObserver registers a callback invoked after every iteration.
func WithObserver(fn func(Iteration)) Option {
	return func(a *Attack) { a.observer = fn }
}

// New prepares an attack on fn. fn itself is never modified.
func New(fn *logic.BooleanFunction, opts ...Option) *Attack {
	a := &Attack{
		fn:            fn,
		logger:        zap.NewNop(),
		maxIterations: DefaultMaxIterations,
		strategy:      FirstStrategy{},
		tracer:        defaultTracer(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Records returns the branches explored by the last Run.
func (a *Attack) Records() *AttackRecords { return a.records }

// Run initializes the attack and drives the search loop to a terminal
// result. Reaching the iteration cap is a result, not an error; an error
// is returned only if ctx is done or a branch cannot be built.
func (a *Attack) Run(ctx context.Context) (res Result, err error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := a.logger.With(zap.String("run_id", runID))

	ctx, span := a.startRunSpan(ctx, runID)
	defer func() {
		finishRunSpan(span, res, err)
		span.End()
		if err == nil {
			observeResult(res.Kind, res.Iterations, time.Since(start))
			logger.Info("attack finished",
				zap.Stringer("result", res.Kind),
				zap.Int("iterations", res.Iterations),
				zap.Int("branches", res.Branches),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
	}()

	res, done := a.initialize(runID)
	if done {
		return res, nil
	}
	logger.Debug("attack initialized",
		zap.Int("free_inputs", len(res.OriginalFreeInputs)),
		zap.String("strategy", a.strategy.Name()),
	)

	for it := 1; it <= a.maxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		cand, err := a.records.FindNextCollisionCandidate(ctx, a.strategy)
		switch {
		case errors.Is(err, ErrNoFrontier), errors.Is(err, ErrNoCandidate):
			return a.finish(res, NoCollisionFound, it-1), nil
		case err != nil:
			return Result{}, err
		}

		passes := cand.Program.Resolve()
		rec := NewAttackRecord(cand.Program, cand.Constraints)
		if !a.records.Add(rec) {
			attackDuplicateBranches.Inc()
		}
		observeBranch(passes, len(rec.Free))

		step := Iteration{
			Number: it,
			Depth:  rec.Depth(),
			Input:  cand.Input,
			Free:   len(rec.Free),
			Passes: passes,
		}
		iterationEvent(span, step)
		if a.observer != nil {
			a.observer(step)
		}
		logger.Debug("branch resolved",
			zap.Int("iteration", step.Number),
			zap.Int("depth", step.Depth),
			zap.Stringer("input", step.Input),
			zap.Int("free_inputs", step.Free),
			zap.Int("passes", step.Passes),
		)

		if rec.Depth()+len(rec.Free) < len(res.OriginalFreeInputs) {
			res.Program = rec.Program
			res.Constraints = rec.Constraints
			res.FreeInputs = rec.Free
			return a.finish(res, CollisionFound, it), nil
		}
	}
	return a.finish(res, NoCollisionFoundYet, a.maxIterations), nil
}

// initialize resolves a private copy of the program and either returns a
// terminal result or seeds depth 0.
func (a *Attack) initialize(runID string) (Result, bool) {
	res := Result{RunID: runID}
	a.records = nil
	if len(a.fn.AllInputParameters()) == 0 {
		res.Kind = NoInputParameters
		res.Program = a.fn.Clone()
		return res, true
	}

	base := a.fn.Clone()
	before := base.InputParameters()
	if len(before) == 0 {
		res.Kind = NoInputParameters
		res.Program = base
		return res, true
	}
	passes := base.Resolve()
	free := base.InputParameters()
	observeBranch(passes, len(free))

	res.Program = base
	res.OriginalFreeInputs = before
	res.FreeInputs = free
	switch {
	case len(free) == 0:
		res.Kind = AllInputParametersEliminated
		return res, true
	case len(free) < len(before):
		res.Kind = SomeInputParametersEliminated
		return res, true
	}

	res.OriginalFreeInputs = free
	a.records = NewAttackRecords(len(free))
	a.records.Add(NewAttackRecord(base, BooleanConstraints{}))
	return res, false
}

func (a *Attack) finish(res Result, kind ResultKind, iterations int) Result {
	res.Kind = kind
	res.Iterations = iterations
	if a.records != nil {
		res.Branches = a.records.Len()
	}
	return res
}

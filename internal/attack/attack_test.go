package attack

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gnolang/boolattack/internal/logic"
)

func TestRunTerminalResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		program        string
		opts           []Option
		wantKind       ResultKind
		wantIterations int
		wantOriginal   []logic.Name
		wantFree       []logic.Name
	}{
		{
			name:     "no input parameters",
			program:  "v1 = True\no1 = ¬v1",
			wantKind: NoInputParameters,
		},
		{
			name:     "inputs only pinned by constraints",
			program:  "i1 = True\no1 = i1",
			wantKind: NoInputParameters,
		},
		{
			name:         "all inputs eliminated",
			program:      "v1 = i1\no1 = True",
			wantKind:     AllInputParametersEliminated,
			wantOriginal: []logic.Name{"i1"},
			wantFree:     []logic.Name{},
		},
		{
			name:         "some inputs eliminated",
			program:      "v1 = i1 ⊻ i1\no1 = v1 ∨ i2",
			wantKind:     SomeInputParametersEliminated,
			wantOriginal: []logic.Name{"i1", "i2"},
			wantFree:     []logic.Name{"i2"},
		},
		{
			name:           "and/or pair has no collision",
			program:        "o1 = i1 ∧ i2\no2 = i1 ∨ i2",
			wantKind:       NoCollisionFound,
			wantIterations: 1,
			wantOriginal:   []logic.Name{"i1", "i2"},
			wantFree:       []logic.Name{"i1", "i2"},
		},
		{
			name:           "parity never collapses",
			program:        "v1 = i1 ⊻ i2\no1 = v1 ⊻ i3 ⊻ i4",
			wantKind:       NoCollisionFound,
			wantIterations: 3,
			wantOriginal:   []logic.Name{"i1", "i2", "i3", "i4"},
			wantFree:       []logic.Name{"i1", "i2", "i3", "i4"},
		},
		{
			name:           "iteration cap",
			program:        "v1 = i1 ⊻ i2\no1 = v1 ⊻ i3 ⊻ i4",
			opts:           []Option{WithMaxIterations(2)},
			wantKind:       NoCollisionFoundYet,
			wantIterations: 2,
			wantOriginal:   []logic.Name{"i1", "i2", "i3", "i4"},
			wantFree:       []logic.Name{"i1", "i2", "i3", "i4"},
		},
		{
			name:           "shared and collapses",
			program:        "o1 = i1 ∧ i2\no2 = i1 ∧ i3",
			wantKind:       CollisionFound,
			wantIterations: 1,
			wantOriginal:   []logic.Name{"i1", "i2", "i3"},
			wantFree:       []logic.Name{},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fn := logic.MustParse(tt.program)
			res, err := New(fn, tt.opts...).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, res.Kind, res.Kind.String())
			assert.Equal(t, tt.wantIterations, res.Iterations)
			assert.ElementsMatch(t, tt.wantOriginal, res.OriginalFreeInputs)
			assert.ElementsMatch(t, tt.wantFree, res.FreeInputs)
			assert.NotEmpty(t, res.RunID)
			assert.Equal(t, tt.wantKind != NoCollisionFoundYet, res.Conclusive())
		})
	}
}

func TestRunCollisionDetails(t *testing.T) {
	t.Parallel()
	fn := logic.MustParse("o1 = i1 ∧ i2\no2 = i1 ∧ i3")
	a := New(fn)
	res, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, CollisionFound, res.Kind)

	assert.Equal(t, []logic.Constraint{logic.Fix("i1", false)}, res.Constraints.Slice())
	assert.Equal(t, 2, res.Gain())
	values, ok := res.Program.OutputValues()
	require.True(t, ok)
	assert.Equal(t, []bool{false, false}, values)

	assert.Equal(t, 2, res.Branches)
	assert.Len(t, a.Records().AtDepth(1), 1)
}

func TestRunDoesNotModifyProgram(t *testing.T) {
	t.Parallel()
	fn := logic.MustParse("v1 = True\no1 = v1 ∧ i1 ∧ i2\no2 = i2 ⊻ i1")
	before := fn.Lines()

	_, err := New(fn).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, fn.Lines())
	assert.False(t, fn.Resolved())
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(logic.MustParse("o1 = i1 ⊻ i2 ⊻ i3")).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunObserver(t *testing.T) {
	t.Parallel()
	var seen []Iteration
	fn := logic.MustParse("v1 = i1 ⊻ i2\no1 = v1 ⊻ i3 ⊻ i4")
	res, err := New(fn, WithObserver(func(it Iteration) { seen = append(seen, it) })).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, res.Iterations)
	for i, it := range seen {
		assert.Equal(t, i+1, it.Number)
		assert.Equal(t, i+1, it.Depth)
		assert.Equal(t, 4-(i+1), it.Free)
		assert.Equal(t, logic.Input(i+1), it.Input)
	}
}

func TestRunComplexityStrategy(t *testing.T) {
	t.Parallel()
	// i3 feeds every output; fixing it first collapses the circuit
	fn := logic.MustParse("o1 = i1 ∧ i3\no2 = i2 ∧ i3\no3 = i4 ∧ i3")

	first, err := New(fn).Run(context.Background())
	require.NoError(t, err)

	ranked, err := New(fn, WithStrategy(ComplexityStrategy{})).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, CollisionFound, ranked.Kind)
	assert.Equal(t, 1, ranked.Iterations)
	assert.Equal(t, []logic.Constraint{logic.Fix("i3", false)}, ranked.Constraints.Slice())

	assert.Greater(t, first.Iterations, ranked.Iterations)
}

func TestRunTracing(t *testing.T) {
	t.Parallel()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	fn := logic.MustParse("o1 = i1 ∧ i2\no2 = i1 ∨ i2")
	res, err := New(fn, WithTracerProvider(tp)).Run(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "attack.Run", spans[0].Name())
	assert.Len(t, spans[0].Events(), res.Iterations)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "NoCollisionFound", attrs["attack.result"])
	assert.Equal(t, res.RunID, attrs["attack.run_id"])
}

func TestRunLogging(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	fn := logic.MustParse("o1 = i1 ∧ i2\no2 = i1 ∧ i3")

	res, err := New(fn, WithLogger(zap.New(core))).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("branch resolved").Len())
	finished := logs.FilterMessage("attack finished").All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.Equal(t, "CollisionFound", fields["result"])
	assert.Equal(t, res.RunID, fields["run_id"])
}

func TestRunMetrics(t *testing.T) {
	t.Parallel()
	counter := attackRuns.WithLabelValues(NoCollisionFound.String())
	before := testutil.ToFloat64(counter)

	_, err := New(logic.MustParse("o1 = i1 ∧ i2\no2 = i1 ∨ i2")).Run(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, testutil.ToFloat64(counter)-before, 1.0)
}

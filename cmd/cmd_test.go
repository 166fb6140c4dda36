package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/boolattack/internal/circuit"
	"github.com/gnolang/boolattack/internal/logic"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func circuitParams(bits, amount, rounds int) circuit.Params {
	return circuit.Params{Bits: bits, Amount: amount, Rounds: rounds}
}

func writeProgram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.bool")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConstraints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		lines   []string
		want    []logic.Constraint
		wantErr error
	}{
		{
			name:  "fix and relate",
			lines: []string{"i1 = False", " i2 = ¬i3 "},
			want:  []logic.Constraint{logic.Fix("i1", false), logic.NotEqualTo("i2", "i3")},
		},
		{
			name:    "internal target",
			lines:   []string{"v1 = False"},
			wantErr: logic.ErrInvalidConstraint,
		},
		{
			name:    "calculation",
			lines:   []string{"i1 = i2 ∧ i3"},
			wantErr: logic.ErrInvalidConstraint,
		},
		{
			name:    "garbage",
			lines:   []string{"i1 =="},
			wantErr: logic.ErrMalformedLine,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseConstraints(tt.lines)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunResolve(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		program     string
		constraints []logic.Constraint
		limit       int
		want        string
	}{
		{
			name:    "constant folding",
			program: "v1 = True\no1 = v1 ∧ i1\n",
			limit:   -1,
			want:    "v1 = True\no1 = i1\n# free inputs (1): i1\n",
		},
		{
			name:        "constrained",
			program:     "o1 = i1 ∧ i2\n",
			constraints: []logic.Constraint{logic.Fix("i1", false)},
			limit:       -1,
			want:        "i1 = False\no1 = False\n# free inputs (0): \n",
		},
		{
			name:    "with complexity",
			program: "o1 = i1 ∧ i2\n",
			limit:   0,
			want: "o1 = i1 ∧ i2\n# free inputs (2): i1 i2\n" +
				"  = expressions: 1\nInputs:\n  | i1 1\n  | i2 1\nPairs:\n  | i1 i2 1\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			err := runResolve(zap.NewNop(), &buf, writeProgram(t, tt.program), tt.constraints, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRunGenerate(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, runGenerate(zap.NewNop(), &buf, "xor", circuitParams(2, 0, 0), ""))
	assert.Equal(t, "v1 = i2 ⊻ i4\nv2 = i1 ⊻ i3\no1 = v2\no2 = v1\n", buf.String())

	err := runGenerate(zap.NewNop(), &buf, "adder", circuitParams(4, 0, 0), "abc")
	assert.Error(t, err)

	buf.Reset()
	require.NoError(t, runGenerate(zap.NewNop(), &buf, "sha256", circuitParams(0, 0, 1), "abc"))
	fn, err := logic.ParseString(buf.String())
	require.NoError(t, err)
	assert.Len(t, fn.Constraints(), 512)
	assert.Empty(t, fn.InputParameters())
	// 'a' = 0x61 = 0b01100001
	c := fn.Constraints()
	assert.Equal(t, logic.Fix("i1", false), c[0])
	assert.Equal(t, logic.Fix("i2", true), c[1])
}

// TestRootCommand drives the cobra tree end to end. It shares the flag
// globals, so it does not run in parallel.
func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "boolattack.yaml")
	program := writeProgram(t, "o1 = i1 ∧ i2\no2 = i1 ∧ i3\n")

	run := func(args ...string) string {
		t.Helper()
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetErr(&buf)
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.Execute())
		return buf.String()
	}

	out := run("init", "--config", cfg)
	assert.Contains(t, out, cfg)
	assert.FileExists(t, cfg)

	out = run("attack", "--config", cfg, "--verify", program)
	assert.Contains(t, out, "collision: CollisionFound")
	assert.Contains(t, out, "  | i1 = False")
	assert.Contains(t, out, "Witness:")

	out = run("--config", cfg, program)
	assert.Contains(t, out, "collision: CollisionFound")

	out = run("attack", "--config", cfg, "--metrics", program)
	assert.Contains(t, out, "boolattack_runs_total")

	out = run("resolve", "-c", "i1 = True", program)
	assert.Contains(t, out, "o1 = i2\no2 = i3\n")

	rootCmd.SetArgs([]string{"attack", "--config", cfg, "--strategy", "random", program})
	assert.Error(t, rootCmd.Execute())
}

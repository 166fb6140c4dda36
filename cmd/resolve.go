package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/boolattack/collide"
	"github.com/gnolang/boolattack/formatter"
	"github.com/gnolang/boolattack/internal/logic"
)

var (
	constraintLines []string
	complexityLimit int
	showComplexity  bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [program]",
	Short: "Simplify a program and print it",
	Long: `Applies the given constraints, resolves the program to a fixed point and
prints the result followed by its free inputs.
Example) boolattack resolve -c "i1 = False" -c "i2 = ¬i3" adder.bool`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		constraints, err := parseConstraints(constraintLines)
		if err != nil {
			return err
		}
		limit := -1
		if showComplexity {
			limit = complexityLimit
		}
		return runResolve(logger, cmd.OutOrStdout(), args[0], constraints, limit)
	},
}

func init() {
	resolveCmd.Flags().StringArrayVarP(&constraintLines, "constraint", "c", nil, `Constraint line such as "i1 = False" (repeatable)`)
	resolveCmd.Flags().BoolVar(&showComplexity, "complexity", false, "Print how often each input appears")
	resolveCmd.Flags().IntVar(&complexityLimit, "top", 10, "Rows shown by --complexity (0 for all)")
}

// parseConstraints reads constraint lines written in program syntax.
func parseConstraints(lines []string) ([]logic.Constraint, error) {
	constraints := make([]logic.Constraint, 0, len(lines))
	for _, line := range lines {
		expr, err := logic.ParseLine(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", line, err)
		}
		c, err := logic.ConstraintFromRHS(expr.Target, expr.RHS)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", line, err)
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

// runResolve prints the resolved program. A negative limit skips the
// complexity table.
func runResolve(logger *zap.Logger, out io.Writer, path string, constraints []logic.Constraint, limit int) error {
	fn, err := collide.LoadFile(path)
	if err != nil {
		return err
	}
	fn, err = fn.WithConstraints(constraints...)
	if err != nil {
		return err
	}

	passes := fn.Resolve()
	logger.Debug("program resolved",
		zap.String("file", path),
		zap.Int("passes", passes),
		zap.Int("expressions", fn.Len()),
	)

	if _, err := fn.WriteTo(out); err != nil {
		return err
	}
	free := fn.InputParameters()
	parts := make([]string, len(free))
	for i, n := range free {
		parts[i] = n.String()
	}
	fmt.Fprintf(out, "# free inputs (%d): %s\n", len(free), strings.Join(parts, " "))

	if limit >= 0 {
		fmt.Fprint(out, formatter.FormatComplexity(fn.Complexity(), limit))
	}
	return nil
}

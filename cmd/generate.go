package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/boolattack/internal/circuit"
	"github.com/gnolang/boolattack/internal/logic"
)

var (
	genParams  circuit.Params
	genMessage string
	genOutput  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <kind>",
	Short: "Emit a boolean program for a known circuit",
	Long: fmt.Sprintf(`Writes one of the built-in circuits as a program.
Kinds: %s
Example) boolattack generate sha256 --rounds 8 --message abc -o sha256-8.bool`, strings.Join(circuit.Kinds(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if genOutput != "" {
			f, err := os.Create(genOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return runGenerate(logger, out, args[0], genParams, genMessage)
	},
}

func init() {
	generateCmd.Flags().IntVar(&genParams.Bits, "bits", 8, "Word width for arithmetic circuits")
	generateCmd.Flags().IntVar(&genParams.Amount, "amount", 1, "Rotate or shift amount")
	generateCmd.Flags().IntVar(&genParams.Rounds, "rounds", circuit.SHA256Rounds, "Compression rounds for sha256")
	generateCmd.Flags().StringVar(&genMessage, "message", "", "Pin the sha256 inputs to this padded message")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output path (default: stdout)")
}

func runGenerate(logger *zap.Logger, out io.Writer, kind string, params circuit.Params, message string) error {
	fn, err := circuit.Generate(kind, params)
	if err != nil {
		return err
	}

	if message != "" {
		if kind != "sha256" {
			return fmt.Errorf("--message only applies to sha256, not %s", kind)
		}
		fn, err = pinMessage(fn, message)
		if err != nil {
			return err
		}
	}

	logger.Debug("circuit generated",
		zap.String("kind", kind),
		zap.Int("expressions", fn.Len()),
		zap.Int("operations", fn.OperationCount()),
	)
	_, err = fn.WriteTo(out)
	return err
}

func pinMessage(fn *logic.BooleanFunction, message string) (*logic.BooleanFunction, error) {
	block, err := circuit.PadBlock([]byte(message))
	if err != nil {
		return nil, err
	}
	return fn.WithConstraints(circuit.InputConstraints(circuit.BytesToBits(block[:]))...)
}

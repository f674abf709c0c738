package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tova-lang/tova/internal/errors"
	"github.com/tova-lang/tova/internal/parser"
)

var (
	parseEval     string
	parseTolerant bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Tova file and report its top-level declarations",
	Long: `Parse Tova source code and list the top-level blocks and declarations
it contains, or report the syntax diagnostics that kept it from parsing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseTolerant, "tolerant", false, "keep parsing past syntax errors instead of stopping at the first one")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	input, file, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	p := parser.New(input, file, parser.Tolerant(parseTolerant))
	prog := p.Parse()
	diags := p.Diagnostics()

	if errors.HasErrors(diags) {
		fmt.Print(errors.FormatAll(diags, true))
		return fmt.Errorf("parsing failed with %d error(s)", countErrors(diags))
	}
	for _, d := range diags {
		fmt.Println(d.Terse())
	}

	fmt.Printf("%d top-level statement(s):\n", len(prog.Statements))
	for _, stmt := range prog.Statements {
		fmt.Printf("  %T\n", stmt)
	}
	return nil
}

func countErrors(diags []*errors.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == errors.SeverityError {
			n++
		}
	}
	return n
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tova-lang/tova/internal/lexer"
	"github.com/tova-lang/tova/internal/token"
)

var (
	lexEval     string
	lexShowPos  bool
	lexShowKind bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Tova file or expression",
	Long: `Tokenize a Tova program and print the resulting tokens.

Reads from stdin if no file or -e expression is given. Useful for
debugging the lexer's JSX/style/template-literal mode switches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowKind, "show-kind", false, "show token kind names")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, file, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input, file)
	count, errCount := 0, 0
	for {
		tok := l.NextToken()
		count++
		if tok.Kind == token.ILLEGAL {
			errCount++
		}
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "---\ntokens: %d, errors: %d\n", count, errCount)
	}
	if errCount > 0 {
		return fmt.Errorf("lexed with %d illegal token(s)", errCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := ""
	if lexShowKind {
		out = fmt.Sprintf("[%-16s]", tok.Kind)
	}
	switch {
	case tok.Kind == token.EOF:
		out += " EOF"
	case tok.Literal == "":
		out += fmt.Sprintf(" %s", tok.Kind)
	default:
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(out)
}

// readSource resolves the input source for the lex and parse commands: an
// inline -e expression, a file argument, or stdin.
func readSource(eval string, args []string) (src, file string, err error) {
	switch {
	case eval != "":
		return eval, "<eval>", nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
}

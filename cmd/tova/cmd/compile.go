package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tova-lang/tova/internal/compiler"
)

var (
	compileOutDir   string
	compileTolerant bool
	compileStrict   bool
	compileStdout   bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a Tova file into its server/client/shared/deploy/test outputs",
	Long: `Compile runs the full lexer, parser, analyzer, and code generator
pipeline over a Tova source file and writes one JS (or YAML, for deploy
profiles) file per named block into --out (default: alongside the source
file).

Exits non-zero, printing diagnostics, if analysis finds any error.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutDir, "out", "o", "", "output directory (default: next to the source file)")
	compileCmd.Flags().BoolVar(&compileTolerant, "tolerant", false, "keep parsing past syntax errors instead of stopping at the first one")
	compileCmd.Flags().BoolVar(&compileStrict, "strict", false, "promote warn-by-default diagnostics (arg count, assignability, float narrowing) to errors")
	compileCmd.Flags().BoolVar(&compileStdout, "stdout", false, "print every output file to stdout instead of writing files")
}

func runCompile(cmd *cobra.Command, args []string) error {
	file := args[0]
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	res := compiler.Compile(string(data), file, compiler.Options{Tolerant: compileTolerant, Strict: compileStrict})

	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Format(true))
	}
	if res.HasErrors() {
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(res.Diagnostics))
	}

	outDir := compileOutDir
	if outDir == "" {
		outDir = filepath.Dir(file)
	}

	if err := writeOutputs(outDir, "server", res.Servers, ".js"); err != nil {
		return err
	}
	if err := writeOutputs(outDir, "client", res.Clients, ".js"); err != nil {
		return err
	}
	if err := writeOutputs(outDir, "shared", res.Shared, ".js"); err != nil {
		return err
	}
	if err := writeOutputs(outDir, "test", res.Test, ".test.js"); err != nil {
		return err
	}
	for name, profile := range res.Deploys {
		yamlBytes, err := profile.YAML()
		if err != nil {
			return fmt.Errorf("rendering deploy profile %q: %w", name, err)
		}
		if err := writeOrPrint(outDir, "deploy."+name+".yaml", yamlBytes); err != nil {
			return err
		}
	}

	return nil
}

func writeOutputs(outDir, kind string, files map[string]string, ext string) error {
	for name, src := range files {
		fname := kind + "." + name + ext
		if err := writeOrPrint(outDir, fname, []byte(src)); err != nil {
			return err
		}
	}
	return nil
}

func writeOrPrint(outDir, fname string, content []byte) error {
	if compileStdout {
		fmt.Printf("// ---- %s ----\n%s\n", fname, content)
		return nil
	}
	path := filepath.Join(outDir, fname)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

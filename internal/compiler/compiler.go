// Package compiler wires the lexer, parser, analyzer, and code generator
// into the single-entry-point pipeline spec §2 describes: byte stream in,
// a set of independent JS outputs (plus optional deploy/test metadata) and
// a diagnostics list out. One Compile call is one isolated compilation —
// no package-level state survives between calls (spec §9).
package compiler

import (
	"fmt"

	"github.com/tova-lang/tova/internal/analyzer"
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/codegen"
	"github.com/tova-lang/tova/internal/errors"
	"github.com/tova-lang/tova/internal/parser"
)

// Options configures one Compile call.
type Options struct {
	// Tolerant enables the parser's error-recovery mode (spec §4.2): a
	// syntax error becomes an ast.ErrorNode instead of aborting the parse.
	// The LSP always sets this; a one-shot CLI compile typically doesn't.
	Tolerant bool

	// Strict enables the analyzer's strict mode (spec §3.3/§4.3): argument-
	// count mismatches and assignability mismatches, warnings by default,
	// become errors, and Float->Int narrowing, silent by default, starts
	// warning.
	Strict bool
}

// Result is the full output of one Compile call (SUPPLEMENTED FEATURES
// "Diagnostics API shape"). Shared/Servers/Clients/Test are keyed by block
// name ("default" for an unnamed block); Deploys is keyed by profile name.
type Result struct {
	Shared  map[string]string
	Servers map[string]string
	Clients map[string]string
	Deploys map[string]*codegen.DeployProfile
	Test    map[string]string

	Diagnostics []*errors.Diagnostic
}

// HasErrors reports whether any diagnostic is fatal.
func (r *Result) HasErrors() bool { return errors.HasErrors(r.Diagnostics) }

// Compile runs the full lexer → parser → analyzer → codegen pipeline over
// src. Diagnostics always reflects every stage that actually ran; codegen
// is skipped entirely once a prior stage reports a Severity == Error
// diagnostic, since emitting against an AST the analyzer rejected would
// just produce misleading JS.
func Compile(src, file string, opts Options) *Result {
	res := &Result{
		Shared:  make(map[string]string),
		Servers: make(map[string]string),
		Clients: make(map[string]string),
		Deploys: make(map[string]*codegen.DeployProfile),
		Test:    make(map[string]string),
	}

	p := parser.New(src, file, parser.Tolerant(opts.Tolerant))
	prog := p.Parse()
	res.Diagnostics = append(res.Diagnostics, p.Diagnostics()...)
	if errors.HasErrors(res.Diagnostics) && !opts.Tolerant {
		return res
	}

	an := analyzer.New(file, src, analyzer.Strict(opts.Strict))
	res.Diagnostics = append(res.Diagnostics, an.Analyze(prog)...)
	if errors.HasErrors(res.Diagnostics) {
		return res
	}

	reg := an.Registry()
	var topLevelForms []*ast.FormBlock
	nameCounts := map[string]int{}

	uniqueName := func(name string) string {
		label := name
		if label == "" {
			label = "default"
		}
		nameCounts[label]++
		if nameCounts[label] > 1 {
			label = fmt.Sprintf("%s_%d", label, nameCounts[label])
		}
		return label
	}

	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.SharedBlock:
			c := codegen.NewContext(reg)
			res.Shared[uniqueName(s.Name)] = c.EmitShared(s.Name, s.Body)
		case *ast.ServerBlock:
			c := codegen.NewContext(reg)
			res.Servers[uniqueName(s.Name)] = c.EmitServer(s.Name, s.Body)
		case *ast.ClientBlock:
			c := codegen.NewContext(reg)
			res.Clients[uniqueName(s.Name)] = c.EmitClient(s.Name, s.Body)
		case *ast.DeployBlock:
			profile := codegen.EmitDeploy(s)
			res.Deploys[uniqueName(s.Name)] = profile
			for _, msg := range profile.Errors {
				res.Diagnostics = append(res.Diagnostics, errors.New(s.Pos(), msg, src, file))
			}
		case *ast.TestBlock:
			c := codegen.NewContext(reg)
			res.Test[uniqueName(s.Name)] = c.EmitTest(s)
		case *ast.DataBlock:
			c := codegen.NewContext(reg)
			res.Shared[uniqueName(s.Name)] = c.EmitData(s)
		case *ast.FormBlock:
			topLevelForms = append(topLevelForms, s)
		}
	}

	// A bare top-level `form` block has no enclosing client bundle to ride
	// along with; it compiles to its own single-form client-ish file so it
	// still ends up in the one output category (Clients) the runtime
	// expects a reactive form controller to live in.
	for _, f := range topLevelForms {
		c := codegen.NewContext(reg)
		res.Clients[uniqueName(f.Name)] = c.EmitStandaloneForm(f)
	}

	return res
}

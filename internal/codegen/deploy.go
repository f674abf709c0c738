package codegen

import (
	"fmt"
	"strings"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/jsonvalue"
)

// DeployProfile is the structured-record result of compiling one `deploy
// "name" { ... }` block: it is never compiled to JS (spec §4.4 "not
// compiled to JS ... emitted as a structured record"), only validated and
// serialized for the deploy tooling that consumes it.
type DeployProfile struct {
	Name   string
	Record *jsonvalue.Value
	Errors []string
}

// YAML renders the profile as YAML via goccy/go-yaml, the form most infra
// tooling in this ecosystem consumes (spec_full DOMAIN STACK table).
func (p *DeployProfile) YAML() ([]byte, error) {
	return jsonvalue.ToYAML(p.Record)
}

// JSON renders the profile's assembled JSON document.
func (p *DeployProfile) JSON() ([]byte, error) {
	return p.Record.MarshalJSON()
}

// EmitDeploy compiles a deploy block into a DeployProfile: each top-level
// prop is set onto an accumulating JSON document one sjson path at a time
// (mirroring how a deploy profile's nested `env{}`/`db{}` sub-blocks
// accumulate field-by-field), then re-read with gjson to validate the
// required `server` and `domain` fields (spec §8 scenario 6).
func EmitDeploy(block *ast.DeployBlock) *DeployProfile {
	doc := []byte("{}")
	for _, prop := range block.Props {
		if prop.Spread != nil {
			continue // a deploy block's top level never spreads
		}
		path := prop.Name
		value := evalConstExpr(prop.Value)
		var err error
		doc, err = jsonvalue.SetPath(doc, path, value)
		if err != nil {
			return &DeployProfile{Name: block.Name, Errors: []string{
				fmt.Sprintf("deploy %q: invalid field %q: %v", block.Name, prop.Name, err),
			}}
		}
	}

	record, err := jsonvalue.FromJSON(doc)
	if err != nil {
		return &DeployProfile{Name: block.Name, Errors: []string{
			fmt.Sprintf("deploy %q: malformed assembled document: %v", block.Name, err),
		}}
	}

	var errs []string
	if jsonvalue.GetPath(record, "server").Kind() == jsonvalue.KindUndefined {
		errs = append(errs, fmt.Sprintf("deploy %q: missing required field \"server\"", block.Name))
	}
	if jsonvalue.GetPath(record, "domain").Kind() == jsonvalue.KindUndefined {
		errs = append(errs, fmt.Sprintf("deploy %q: missing required field \"domain\"", block.Name))
	}

	return &DeployProfile{Name: block.Name, Record: record, Errors: errs}
}

// evalConstExpr evaluates the restricted constant-expression subset legal
// inside a deploy block's props: literals, nested object/array literals,
// and bare identifiers (treated as `${NAME}` env-var placeholders resolved
// by the deploy tool, not the compiler).
func evalConstExpr(e ast.Expr) any {
	switch x := e.(type) {
	case nil:
		return nil
	case *ast.NilLit:
		return nil
	case *ast.BoolLit:
		return x.Value
	case *ast.NumberLit:
		return x.Value
	case *ast.StringLit:
		return x.Value
	case *ast.Ident:
		return "${" + x.Name + "}"
	case *ast.TemplateLit:
		var sb strings.Builder
		for _, part := range x.Parts {
			if part.Expr != nil {
				sb.WriteString(fmt.Sprintf("%v", evalConstExpr(part.Expr)))
			} else {
				sb.WriteString(part.Text)
			}
		}
		return sb.String()
	case *ast.ArrayLit:
		out := make([]any, 0, len(x.Elems))
		for _, el := range x.Elems {
			out = append(out, evalConstExpr(el.Value))
		}
		return out
	case *ast.ObjectLit:
		out := make(map[string]any, len(x.Props))
		for _, prop := range x.Props {
			if prop.Spread != nil {
				continue
			}
			out[prop.Name] = evalConstExpr(prop.Value)
		}
		return out
	default:
		return nil
	}
}

package codegen

import (
	"strings"
	"testing"

	"github.com/tova-lang/tova/internal/ast"
)

func strProp(name, value string) ast.ObjectProp {
	return ast.ObjectProp{Name: name, Value: &ast.StringLit{Value: value}}
}

func TestEmitDeployValidProfile(t *testing.T) {
	block := &ast.DeployBlock{
		Name: "production",
		Props: []ast.ObjectProp{
			strProp("server", "prod-1"),
			strProp("domain", "example.com"),
		},
	}

	profile := EmitDeploy(block)
	if len(profile.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", profile.Errors)
	}

	yamlOut, err := profile.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	if !strings.Contains(string(yamlOut), "server:") {
		t.Fatalf("YAML output missing server key: %s", yamlOut)
	}

	jsonOut, err := profile.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(string(jsonOut), `"domain"`) {
		t.Fatalf("JSON output missing domain key: %s", jsonOut)
	}
}

func TestEmitDeployMissingServer(t *testing.T) {
	block := &ast.DeployBlock{
		Name: "staging",
		Props: []ast.ObjectProp{
			strProp("domain", "staging.example.com"),
		},
	}

	profile := EmitDeploy(block)
	found := false
	for _, msg := range profile.Errors {
		if strings.Contains(msg, `"server"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-server diagnostic, got: %v", profile.Errors)
	}
}

func TestEmitDeployNestedEnv(t *testing.T) {
	block := &ast.DeployBlock{
		Name: "production",
		Props: []ast.ObjectProp{
			strProp("server", "prod-1"),
			strProp("domain", "example.com"),
			{
				Name: "env",
				Value: &ast.ObjectLit{
					Props: []ast.ObjectProp{
						{Name: "PORT", Value: &ast.NumberLit{Value: 3000}},
						{Name: "HOST", Value: &ast.Ident{Name: "DEPLOY_HOST"}},
					},
				},
			},
		},
	}

	profile := EmitDeploy(block)
	if len(profile.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", profile.Errors)
	}

	jsonOut, err := profile.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(string(jsonOut), `"PORT":3000`) {
		t.Fatalf("nested env.PORT missing: %s", jsonOut)
	}
	if !strings.Contains(string(jsonOut), `${DEPLOY_HOST}`) {
		t.Fatalf("env-var placeholder missing: %s", jsonOut)
	}
}

package compiler

import (
	"strings"
	"testing"

	"github.com/tova-lang/tova/internal/codegen"
)

func TestCompileSharedADT(t *testing.T) {
	src := `shared {
  type Result = Ok(value: Int) | Err(message: String)
}`
	res := Compile(src, "shared.tova", Options{})
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	out, ok := res.Shared["default"]
	if !ok {
		t.Fatalf("expected a default shared output, got keys: %v", stringKeys(res.Shared))
	}
	if !strings.Contains(out, "function Ok(value)") {
		t.Fatalf("missing Ok constructor in shared output:\n%s", out)
	}
	if !strings.Contains(out, `__tag: "Err"`) {
		t.Fatalf("missing Err tag in shared output:\n%s", out)
	}
}

func TestCompileServerRPC(t *testing.T) {
	src := `server {
  fn add(a, b) { a + b }
}`
	res := Compile(src, "server.tova", Options{})
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	out, ok := res.Servers["default"]
	if !ok {
		t.Fatalf("expected a default server output, got keys: %v", stringKeys(res.Servers))
	}
	if !strings.Contains(out, "/rpc/add") {
		t.Fatalf("missing auto-RPC route for add:\n%s", out)
	}
}

func TestCompileDeployProfile(t *testing.T) {
	src := `deploy "production" {
  server: "prod-1",
  domain: "example.com"
}`
	res := Compile(src, "deploy.tova", Options{})
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	profile, ok := res.Deploys["production"]
	if !ok {
		t.Fatalf("expected a production deploy profile, got keys: %v", deployKeys(res.Deploys))
	}
	if len(profile.Errors) != 0 {
		t.Fatalf("unexpected deploy validation errors: %v", profile.Errors)
	}
}

func TestCompileSyntaxErrorSkipsCodegen(t *testing.T) {
	src := `server { fn add(a, b { a + b } }`
	res := Compile(src, "broken.tova", Options{})
	if !res.HasErrors() {
		t.Fatalf("expected a syntax error diagnostic")
	}
	if len(res.Servers) != 0 {
		t.Fatalf("codegen should not have run after a syntax error, got: %v", res.Servers)
	}
}

func TestCompileTopLevelForm(t *testing.T) {
	src := `form SignupForm {
  field email: String
}`
	res := Compile(src, "form.tova", Options{})
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	out, ok := res.Clients["SignupForm"]
	if !ok {
		t.Fatalf("expected a standalone form bundle keyed by form name, got keys: %v", stringKeys(res.Clients))
	}
	if !strings.Contains(out, "SignupForm") {
		t.Fatalf("standalone form output missing form name:\n%s", out)
	}
}

func stringKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func deployKeys(m map[string]*codegen.DeployProfile) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

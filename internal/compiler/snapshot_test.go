package compiler

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestCompileSnapshots(t *testing.T) {
	t.Run("shared_adt", func(t *testing.T) {
		src := `shared {
  type Result = Ok(value: Int) | Err(message: String)
}`
		res := Compile(src, "shared.tova", Options{})
		if res.HasErrors() {
			t.Fatalf("unexpected errors: %v", res.Diagnostics)
		}
		snaps.MatchSnapshot(t, "shared_adt_output", res.Shared["default"])
	})

	t.Run("server_rpc", func(t *testing.T) {
		src := `server {
  fn add(a, b) { a + b }
}`
		res := Compile(src, "server.tova", Options{})
		if res.HasErrors() {
			t.Fatalf("unexpected errors: %v", res.Diagnostics)
		}
		snaps.MatchSnapshot(t, "server_rpc_output", res.Servers["default"])
	})

	t.Run("deploy_profile", func(t *testing.T) {
		src := `deploy "production" {
  server: "prod-1",
  domain: "example.com"
}`
		res := Compile(src, "deploy.tova", Options{})
		if res.HasErrors() {
			t.Fatalf("unexpected errors: %v", res.Diagnostics)
		}
		yamlOut, err := res.Deploys["production"].YAML()
		if err != nil {
			t.Fatalf("YAML: %v", err)
		}
		snaps.MatchSnapshot(t, "deploy_profile_yaml", string(yamlOut))
	})
}

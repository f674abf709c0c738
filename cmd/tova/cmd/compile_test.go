package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCompileWritesServerAndSharedOutputs(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "app.tova")
	content := `shared {
  type Result = Ok(value: Int) | Err(message: String)
}

server {
  fn add(a, b) { a + b }
}
`
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatalf("writing source fixture: %v", err)
	}

	oldOutDir, oldTolerant, oldStdout := compileOutDir, compileTolerant, compileStdout
	defer func() {
		compileOutDir, compileTolerant, compileStdout = oldOutDir, oldTolerant, oldStdout
	}()
	compileOutDir = tmpDir
	compileTolerant = false
	compileStdout = false

	if err := runCompile(compileCmd, []string{src}); err != nil {
		t.Fatalf("runCompile() error = %v", err)
	}

	sharedOut, err := os.ReadFile(filepath.Join(tmpDir, "shared.default.js"))
	if err != nil {
		t.Fatalf("expected a shared.default.js output file: %v", err)
	}
	if !strings.Contains(string(sharedOut), "function Ok(value)") {
		t.Fatalf("shared output missing Ok constructor:\n%s", sharedOut)
	}

	serverOut, err := os.ReadFile(filepath.Join(tmpDir, "server.default.js"))
	if err != nil {
		t.Fatalf("expected a server.default.js output file: %v", err)
	}
	if !strings.Contains(string(serverOut), "/rpc/add") {
		t.Fatalf("server output missing auto-RPC route:\n%s", serverOut)
	}
}

func TestRunCompileSyntaxErrorNoOutputsWritten(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "broken.tova")
	if err := os.WriteFile(src, []byte(`server { fn add(a, b { a + b } }`), 0o644); err != nil {
		t.Fatalf("writing source fixture: %v", err)
	}

	oldOutDir, oldTolerant, oldStdout := compileOutDir, compileTolerant, compileStdout
	defer func() {
		compileOutDir, compileTolerant, compileStdout = oldOutDir, oldTolerant, oldStdout
	}()
	compileOutDir = tmpDir
	compileTolerant = false
	compileStdout = false

	if err := runCompile(compileCmd, []string{src}); err == nil {
		t.Fatalf("expected runCompile to fail on a syntax error")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "broken.tova" {
			t.Fatalf("expected no output files after a syntax error, found: %s", e.Name())
		}
	}
}

func TestRunCompileMissingFile(t *testing.T) {
	if err := runCompile(compileCmd, []string{"/no/such/file.tova"}); err == nil {
		t.Fatalf("expected an error for a missing source file")
	}
}

func TestWriteOutputsAndDeployYAML(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "deploy.tova")
	content := `deploy "prod" {
  server: "prod-1",
  domain: "example.com"
}
`
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatalf("writing source fixture: %v", err)
	}

	oldOutDir, oldTolerant, oldStdout := compileOutDir, compileTolerant, compileStdout
	defer func() {
		compileOutDir, compileTolerant, compileStdout = oldOutDir, oldTolerant, oldStdout
	}()
	compileOutDir = tmpDir
	compileTolerant = false
	compileStdout = false

	if err := runCompile(compileCmd, []string{src}); err != nil {
		t.Fatalf("runCompile() error = %v", err)
	}

	yamlOut, err := os.ReadFile(filepath.Join(tmpDir, "deploy.prod.yaml"))
	if err != nil {
		t.Fatalf("expected a deploy.prod.yaml output file: %v", err)
	}
	if !strings.Contains(string(yamlOut), "server:") {
		t.Fatalf("deploy YAML missing server key:\n%s", yamlOut)
	}
}

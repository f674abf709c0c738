package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceEval(t *testing.T) {
	src, file, err := readSource("1 + 2", nil)
	if err != nil {
		t.Fatalf("readSource eval: %v", err)
	}
	if src != "1 + 2" || file != "<eval>" {
		t.Fatalf("readSource(eval) = %q, %q", src, file)
	}
}

func TestReadSourceFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.tova")
	if err := os.WriteFile(path, []byte("var x = 1"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	src, file, err := readSource("", []string{path})
	if err != nil {
		t.Fatalf("readSource file: %v", err)
	}
	if src != "var x = 1" || file != path {
		t.Fatalf("readSource(file) = %q, %q", src, file)
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, _, err := readSource("", []string{"/no/such/file.tova"}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestRunLexEvalNoIllegalTokens(t *testing.T) {
	oldEval, oldPos, oldKind := lexEval, lexShowPos, lexShowKind
	defer func() { lexEval, lexShowPos, lexShowKind = oldEval, oldPos, oldKind }()
	lexEval = "1 + 2"

	if err := runLex(lexCmd, nil); err != nil {
		t.Fatalf("runLex() error = %v", err)
	}
}

func TestRunLexIllegalCharacterReturnsError(t *testing.T) {
	oldEval := lexEval
	defer func() { lexEval = oldEval }()
	lexEval = "a \x01 b"

	if err := runLex(lexCmd, nil); err == nil {
		t.Fatalf("expected runLex to report an error for an illegal character")
	}
}

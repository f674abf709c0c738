package analyzer

import (
	"strings"
	"testing"

	"github.com/tova-lang/tova/internal/errors"
	"github.com/tova-lang/tova/internal/parser"
)

func analyze(t *testing.T, src string) *Analyzer {
	t.Helper()
	p := parser.New(src, "test.tova")
	prog := p.Parse()
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", p.Diagnostics())
	}
	a := New("test.tova", src)
	a.Analyze(prog)
	return a
}

func diagMessages(diags []*errors.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func TestAnalyzeSharedADTClean(t *testing.T) {
	a := analyze(t, `shared {
  type Result = Ok(value: Int) | Err(message: String)
}`)
	if errors.HasErrors(a.Diagnostics()) {
		t.Fatalf("unexpected errors: %v", diagMessages(a.Diagnostics()))
	}
}

func TestAnalyzeRedeclaration(t *testing.T) {
	a := analyze(t, `shared {
  var x = 1
  var x = 2
}`)
	if !errors.HasErrors(a.Diagnostics()) {
		t.Fatalf("expected a redeclaration error")
	}
	found := false
	for _, m := range diagMessages(a.Diagnostics()) {
		if strings.Contains(m, "already declared") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an 'already declared' diagnostic, got: %v", diagMessages(a.Diagnostics()))
	}
}

func TestAnalyzeStateOutsideComponentIsInvalid(t *testing.T) {
	a := analyze(t, `server {
  state counter = 0
}`)
	if !errors.HasErrors(a.Diagnostics()) {
		t.Fatalf("expected a context error for `state` inside `server`")
	}
	found := false
	for _, m := range diagMessages(a.Diagnostics()) {
		if strings.Contains(m, "state") && strings.Contains(m, "not valid here") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a 'state ... not valid here' diagnostic, got: %v", diagMessages(a.Diagnostics()))
	}
}

func TestAnalyzeStateInsideComponentIsValid(t *testing.T) {
	a := analyze(t, `client {
  component Counter() {
    state count = 0
  }
}`)
	if errors.HasErrors(a.Diagnostics()) {
		t.Fatalf("unexpected errors: %v", diagMessages(a.Diagnostics()))
	}
}

func TestAnalyzeNonExhaustiveMatch(t *testing.T) {
	a := analyze(t, `shared {
  type Result = Ok(value: Int) | Err(message: String)
  fn handle(r: Result) {
    match r {
      Ok(v) => v,
    }
  }
}`)
	if errors.HasErrors(a.Diagnostics()) {
		t.Fatalf("non-exhaustive match must never be a hard error, got: %v", diagMessages(a.Diagnostics()))
	}
	found := false
	for _, m := range diagMessages(a.Diagnostics()) {
		if m == "Non-exhaustive match: missing 'Err'" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected exact diagnostic \"Non-exhaustive match: missing 'Err'\", got: %v", diagMessages(a.Diagnostics()))
	}
}

func TestAnalyzeExhaustiveMatchWithWildcard(t *testing.T) {
	a := analyze(t, `shared {
  type Result = Ok(value: Int) | Err(message: String)
  fn handle(r: Result) {
    match r {
      Ok(v) => v,
      _ => 0,
    }
  }
}`)
	if errors.HasErrors(a.Diagnostics()) {
		t.Fatalf("unexpected errors: %v", diagMessages(a.Diagnostics()))
	}
}

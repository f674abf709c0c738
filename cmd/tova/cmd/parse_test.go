package cmd

import "testing"

func TestRunParseCmdValidSource(t *testing.T) {
	oldEval, oldTolerant := parseEval, parseTolerant
	defer func() { parseEval, parseTolerant = oldEval, oldTolerant }()
	parseEval = "fn add(a, b) { a + b }"
	parseTolerant = false

	if err := runParseCmd(parseCmd, nil); err != nil {
		t.Fatalf("runParseCmd() error = %v", err)
	}
}

func TestRunParseCmdSyntaxError(t *testing.T) {
	oldEval, oldTolerant := parseEval, parseTolerant
	defer func() { parseEval, parseTolerant = oldEval, oldTolerant }()
	parseEval = "fn add(a, b { a + b }"
	parseTolerant = false

	if err := runParseCmd(parseCmd, nil); err == nil {
		t.Fatalf("expected an error for malformed source")
	}
}

func TestRunParseCmdTolerantSyntaxError(t *testing.T) {
	oldEval, oldTolerant := parseEval, parseTolerant
	defer func() { parseEval, parseTolerant = oldEval, oldTolerant }()
	parseEval = "fn add(a, b { a + b }"
	parseTolerant = true

	if err := runParseCmd(parseCmd, nil); err == nil {
		t.Fatalf("expected a diagnostic-carrying error even in tolerant mode")
	}
}

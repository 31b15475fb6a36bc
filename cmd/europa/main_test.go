package main

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dueldanov/europa/internal/logging"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.eu")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRun_Eval(t *testing.T) {
	res := runCLI(t, "", "-e", "print(1 + 2);")

	assert.Equal(t, exitOK, res.code)
	assert.Equal(t, "3\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRun_EvalError(t *testing.T) {
	res := runCLI(t, "", "-e", "1 / 0;")

	assert.Equal(t, exitError, res.code)
	assert.Equal(t, "[1:3] MathError: division by zero\n", res.stderr)
}

func TestRun_File(t *testing.T) {
	path := writeScript(t, `
fn fib(n) {
	if n < 2 { return n; }
	return fib(n - 1) + fib(n - 2);
}
print(fib(10));
`)
	res := runCLI(t, "", path)

	assert.Equal(t, exitOK, res.code)
	assert.Equal(t, "55\n", res.stdout)
}

func TestRun_FileStopsAtFirstError(t *testing.T) {
	path := writeScript(t, "print(\"a\");\nfoo();\nprint(\"b\");\n")
	res := runCLI(t, "", path)

	assert.Equal(t, exitError, res.code)
	assert.Equal(t, "a\n", res.stdout)
	assert.Equal(t, "[2:1] RuntimeError: undefined variable 'foo'\n", res.stderr)
}

func TestRun_MissingFile(t *testing.T) {
	res := runCLI(t, "", filepath.Join(t.TempDir(), "nope.eu"))

	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "read script")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"code and file", []string{"-e", "1;", "script.eu"}},
		{"two files", []string{"a.eu", "b.eu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, exitUsage, res.code)
			assert.NotEmpty(t, res.stderr)
		})
	}
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "europa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("no_such_key: 1\n"), 0o644))

	res := runCLI(t, "", "--config", path, "-e", "1;")
	assert.Equal(t, exitError, res.code)
}

func TestRun_ConfigCallDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "europa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_call_depth: 16\n"), 0o644))

	res := runCLI(t, "", "--config", path, "-e", "fn f(n) { return f(n + 1); } f(0);")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "RuntimeError: stack overflow")
}

func TestRun_REPL(t *testing.T) {
	input := strings.Join([]string{
		"var x = 2",
		"x * 21",
		`"hi"`,
		"foo()",
		"x",
		":env",
		"exit",
		"print(\"unreachable\")",
	}, "\n")
	res := runCLI(t, input)

	assert.Equal(t, exitOK, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, banner+"\n"))
	assert.Contains(t, res.stdout, "42\n")
	assert.Contains(t, res.stdout, "\"hi\"\n")
	assert.Contains(t, res.stdout, "x = 2\n")
	assert.Contains(t, res.stdout, "print = <builtin print>\n")
	assert.NotContains(t, res.stdout, "unreachable")
	assert.Equal(t, "[1:1] RuntimeError: undefined variable 'foo'\n", res.stderr)
}

func TestRun_REPLEndOfInput(t *testing.T) {
	res := runCLI(t, "print(7)\n")

	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "7\n")
}

func TestRun_RunThenREPL(t *testing.T) {
	res := runCLI(t, "greeting\n", "-r", "-e", `var greeting = "hello";`)

	assert.Equal(t, exitOK, res.code)
	assert.NotContains(t, res.stdout, banner)
	assert.Contains(t, res.stdout, "\"hello\"\n")
}

func TestRun_Report(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.json")
	res := runCLI(t, "", "--report", reportPath, "-e", "var a = 1;")
	require.Equal(t, exitOK, res.code)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var report logging.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, logging.WorkflowEval, report.Workflow)
	assert.Equal(t, 1, report.Summary.Phases[logging.PhaseLexer])
	assert.Equal(t, 1, report.Summary.Phases[logging.PhaseParser])
	assert.Equal(t, 1, report.Summary.Phases[logging.PhaseInterpreter])
	assert.Zero(t, report.Summary.Failed)
}

func TestRun_VerboseTimings(t *testing.T) {
	res := runCLI(t, "", "-v", "-e", "1;")

	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stderr, "Lexer.Tokenize")
	assert.Contains(t, res.stderr, "Parser.Parse")
	assert.Contains(t, res.stderr, "Interpreter.Execute")
}

func TestRun_REPLFailedInputLeavesSessionUnchanged(t *testing.T) {
	input := strings.Join([]string{
		"var a = 1",
		"a = 2; var b = 3; 1 / 0",
		"a",
		"b",
	}, "\n")
	res := runCLI(t, input)

	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "> 1\n")
	assert.NotContains(t, res.stdout, "2\n")
	assert.Equal(t,
		"[1:21] MathError: division by zero\n[1:1] RuntimeError: undefined variable 'b'\n",
		res.stderr)
}

func TestRun_REPLFailedDeclarationIsDropped(t *testing.T) {
	res := runCLI(t, "var a = 1; 1 / 0\na\n")

	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stderr, "MathError: division by zero")
	assert.Contains(t, res.stderr, "RuntimeError: undefined variable 'a'")
}

func TestRun_RunThenREPLSkipsREPLOnError(t *testing.T) {
	res := runCLI(t, "print(\"in repl\")\n", "-r", "-e", "1/0")

	assert.Equal(t, exitError, res.code)
	assert.NotContains(t, res.stdout, "in repl")
	assert.Equal(t, "[1:2] MathError: division by zero\n", res.stderr)
}

func TestRun_DeepNestingIsReported(t *testing.T) {
	source := strings.Repeat("(", 520000) + "1" + strings.Repeat(")", 520000)
	res := runCLI(t, "", "-e", source)

	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "SyntaxError: nesting too deep")
}

func TestRun_CallDepthAboveLimitRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "europa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_call_depth: 100000000\n"), 0o644))

	res := runCLI(t, "", "--config", path, "-e", "fn f(n) { return f(n + 1); } f(0);")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "max_call_depth must not exceed")
}

func TestRun_MetricsAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	res := runCLI(t, "", "--metrics-addr", ln.Addr().String(), "-e", "1;")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "listen for metrics")
}

func TestRun_MetricsServer(t *testing.T) {
	res := runCLI(t, "", "--metrics-addr", "127.0.0.1:0", "-e", "print(1);")

	assert.Equal(t, exitOK, res.code)
	assert.Equal(t, "1\n", res.stdout)
}

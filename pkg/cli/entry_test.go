package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bernlang/bern/pkg/cli"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli.Entry(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestEntryNoArgs(t *testing.T) {
	code, _, stderr := run(t)
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr, "usage: bern") {
		t.Errorf("stderr missing usage:\n%s", stderr)
	}
}

func TestEntryUnknownCommand(t *testing.T) {
	code, _, stderr := run(t, "frobnicate")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr, `unknown command "frobnicate"`) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestEntryHelp(t *testing.T) {
	code, stdout, _ := run(t, "help")
	if code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}
	for _, cmd := range []string{"run", "sample", "infer", "support", "check", "train", "repl"} {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("usage missing command %q", cmd)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "sure.bern", "x <- flip 1; return (cons x nil)")

	code, stdout, stderr := run(t, "run", src)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if stdout != "cons true nil\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSampleCount(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "coin.bern", "flip 0.5")

	code, stdout, stderr := run(t, "sample", "-k", "5", "-seed", "3", src)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d samples, want 5:\n%s", len(lines), stdout)
	}
	for _, line := range lines {
		if line != "true" && line != "false" {
			t.Errorf("sample %q is not a boolean", line)
		}
	}

	// Same seed reproduces the draw.
	_, again, _ := run(t, "sample", "-k", "5", "-seed", "3", src)
	if again != stdout {
		t.Errorf("same seed diverged:\n%s\nvs\n%s", stdout, again)
	}
}

func TestInfer(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "and.bern", "y <- flip 0.3; x <- flip 0.7; return (if y then x else false)")

	code, stdout, stderr := run(t, "infer", "-value", "true", src)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	prob, err := strconv.ParseFloat(strings.TrimSpace(stdout), 64)
	if err != nil {
		t.Fatalf("stdout %q is not a number: %v", stdout, err)
	}
	if prob < 0.2099 || prob > 0.2101 {
		t.Errorf("P(true) = %v, want 0.21", prob)
	}
}

func TestInferWithParams(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "sym.bern", "x <- flip p; y <- flip q; return (if x then y else false)")

	code, stdout, stderr := run(t, "infer", "-p", "p=0.5", "-p", "q=0.5", "-value", "true", src)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if strings.TrimSpace(stdout) != "0.25" {
		t.Errorf("stdout = %q, want 0.25", stdout)
	}

	// Missing parameter surfaces as a runtime error.
	code, _, stderr = run(t, "infer", "-value", "true", src)
	if code != 1 {
		t.Errorf("exit = %d without parameters, want 1", code)
	}
	if !strings.Contains(stderr, "parameter") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestSupport(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "pair.bern", "x <- flip 0.5; y <- flip 0.5; return (cons x (cons y nil))")

	code, stdout, stderr := run(t, "support", src)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d support values, want 4:\n%s", len(lines), stdout)
	}
	seen := map[string]bool{}
	for _, line := range lines {
		seen[line] = true
	}
	for _, want := range []string{
		"cons true (cons true nil)",
		"cons true (cons false nil)",
		"cons false (cons true nil)",
		"cons false (cons false nil)",
	} {
		if !seen[want] {
			t.Errorf("support missing %q", want)
		}
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	good := writeFile(t, dir, "good.bern", "define bias = true\nx <- flip 0.5; return (if x then bias else nil)")
	code, stdout, _ := run(t, "check", good)
	if code != 0 {
		t.Fatalf("exit = %d for valid program", code)
	}
	if strings.TrimSpace(stdout) != "ok" {
		t.Errorf("stdout = %q, want ok", stdout)
	}

	testCases := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"lex_error", "flip 0.5 \\", "L001"},
		{"parse_error", "x <- flip 0.5 return x", "P"},
		{"name_error", "return ghost", "N001"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := writeFile(t, dir, tc.name+".bern", tc.source)
			code, _, stderr := run(t, "check", src)
			if code != 1 {
				t.Fatalf("exit = %d, want 1", code)
			}
			if !strings.Contains(stderr, tc.wantErr) {
				t.Errorf("stderr %q missing code %q", stderr, tc.wantErr)
			}
			// Diagnostics carry the file path.
			if !strings.Contains(stderr, tc.name+".bern") {
				t.Errorf("stderr %q missing file name", stderr)
			}
		})
	}

	code, _, _ = run(t, "check", filepath.Join(dir, "missing.bern"))
	if code != 1 {
		t.Errorf("exit = %d for missing file, want 1", code)
	}
}

func TestTrain(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "coin.bern", "x <- flip p; return x")
	data := writeFile(t, dir, "obs.txt", "true\ntrue\ntrue\nfalse\n")
	storePath := filepath.Join(dir, "runs.sqlite3")
	cfg := writeFile(t, dir, "train.yaml",
		"data: "+data+"\nepochs: 5\nlearning_rate: 0.05\nseed: 9\nstore: "+storePath+"\n")

	code, stdout, stderr := run(t, "train", "-config", cfg, src)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if got := strings.Count(stdout, "epoch:"); got != 5 {
		t.Errorf("logged %d epochs, want 5:\n%s", got, stdout)
	}
	if !strings.Contains(stdout, "learned: {p: ") {
		t.Errorf("stdout missing learned parameters:\n%s", stdout)
	}
	if !strings.Contains(stdout, "recorded in "+storePath) {
		t.Errorf("stdout missing run record:\n%s", stdout)
	}
	if _, err := os.Stat(storePath); err != nil {
		t.Errorf("store not created: %v", err)
	}
}

func TestTrainWithoutStore(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "coin.bern", "x <- flip p; return x")
	data := writeFile(t, dir, "obs.txt", "true\nfalse\n")
	cfg := writeFile(t, dir, "train.yaml", "data: "+data+"\nepochs: 2\nseed: 4\n")

	code, stdout, stderr := run(t, "train", "-config", cfg, src)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if strings.Contains(stdout, "recorded in") {
		t.Errorf("run recorded with no store configured:\n%s", stdout)
	}
}

func TestTrainBadConfig(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "coin.bern", "x <- flip p; return x")

	code, _, _ := run(t, "train", src)
	if code != 2 {
		t.Errorf("exit = %d without -config, want 2", code)
	}

	cfg := writeFile(t, dir, "train.yaml", "epochs: 5\n")
	code, _, stderr := run(t, "train", "-config", cfg, src)
	if code != 1 {
		t.Errorf("exit = %d for config without data, want 1", code)
	}
	if !strings.Contains(stderr, "data path is required") {
		t.Errorf("stderr = %q", stderr)
	}
}

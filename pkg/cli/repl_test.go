package cli

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/bernlang/bern/internal/evaluator"
)

func newSession() (*replSession, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	s := &replSession{
		eval:   evaluator.New(rand.New(rand.NewSource(1))),
		params: paramList{},
		stdout: &stdout,
		stderr: &stderr,
	}
	return s, &stdout, &stderr
}

func TestReplSampleLine(t *testing.T) {
	s, stdout, stderr := newSession()
	s.handle("x <- flip 1; return (cons x nil)")
	if stderr.Len() != 0 {
		t.Fatalf("stderr: %s", stderr)
	}
	if got := strings.TrimSpace(stdout.String()); got != "cons true nil" {
		t.Errorf("sampled %q", got)
	}
}

func TestReplReportsErrors(t *testing.T) {
	s, _, stderr := newSession()
	s.handle("return ghost")
	if !strings.Contains(stderr.String(), "N001") {
		t.Errorf("stderr = %q, want a name error", stderr)
	}
}

func TestReplSetAndInfer(t *testing.T) {
	s, stdout, stderr := newSession()

	s.handle(":set p 0.25")
	s.handle("flip p")
	if stderr.Len() != 0 {
		t.Fatalf("stderr: %s", stderr)
	}
	stdout.Reset()

	s.handle(":infer true")
	if got := strings.TrimSpace(stdout.String()); got != "0.25" {
		t.Errorf(":infer printed %q, want 0.25", got)
	}

	stdout.Reset()
	s.handle(":params")
	if got := strings.TrimSpace(stdout.String()); got != "{p: 0.25}" {
		t.Errorf(":params printed %q", got)
	}
}

func TestReplSupport(t *testing.T) {
	s, stdout, stderr := newSession()
	s.handle("x <- flip 0.5; return x")
	stdout.Reset()

	s.handle(":support")
	if stderr.Len() != 0 {
		t.Fatalf("stderr: %s", stderr)
	}
	got := strings.TrimSpace(stdout.String())
	if got != "{true, false}" && got != "{false, true}" {
		t.Errorf(":support printed %q", got)
	}
}

func TestReplCommandErrors(t *testing.T) {
	s, _, stderr := newSession()

	s.handle(":infer true")
	if !strings.Contains(stderr.String(), "no program yet") {
		t.Errorf("stderr = %q", stderr)
	}
	stderr.Reset()

	s.handle(":set p")
	if !strings.Contains(stderr.String(), "usage: :set") {
		t.Errorf("stderr = %q", stderr)
	}
	stderr.Reset()

	s.handle(":set p high")
	if !strings.Contains(stderr.String(), "invalid value") {
		t.Errorf("stderr = %q", stderr)
	}
	stderr.Reset()

	s.handle(":frob")
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Errorf("stderr = %q", stderr)
	}
}

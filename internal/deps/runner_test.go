package deps

import (
	"context"
	"strings"
	"testing"
)

func TestExecRunnerReturnsStdout(t *testing.T) {
	out, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "printf 'hello'")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("Run output = %q", out)
	}
}

func TestExecRunnerIncludesStderrInError(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo 'bad input' >&2; exit 3")
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !strings.Contains(err.Error(), "bad input") || !strings.HasPrefix(err.Error(), "sh: ") {
		t.Fatalf("unexpected error: %v", err)
	}
}

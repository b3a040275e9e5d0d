package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"gcf/internal/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"invalid arguments", errors.NewInvalidArgumentsError("className", "must not be empty"), 2},
		{"wrapped invalid arguments", fmt.Errorf("find: %w", errors.NewInvalidArgumentsError("projectRoot", "x")), 2},
		{"module not found", errors.NewModuleNotFoundError("ghost", nil), 1},
		{"plain error", fmt.Errorf("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	var b bytes.Buffer
	printError(&b, errors.NewModuleNotFoundError("ghost", []string{":app"}))
	out := b.String()
	if !strings.HasPrefix(out, "Error: ") || !strings.Contains(out, "try: gcf modules") ||
		!strings.Contains(out, "see: https://docs.gradle.org/") {
		t.Errorf("printError() = %q", out)
	}

	b.Reset()
	printError(&b, fmt.Errorf("boom"))
	if b.String() != "Error: boom\n" {
		t.Errorf("printError() = %q", b.String())
	}
}

func TestComputeDiff(t *testing.T) {
	current := map[string]interface{}{
		"version": float64(1),
		"gradle":  map[string]interface{}{"offline": true, "timeoutMs": float64(300000)},
		"logging": map[string]interface{}{"level": "info"},
		"extra":   "x",
		"args":    []interface{}{},
	}
	defaults := map[string]interface{}{
		"version": float64(1),
		"gradle":  map[string]interface{}{"offline": false, "timeoutMs": float64(300000)},
		"logging": map[string]interface{}{"level": "info"},
		"args":    nil,
	}
	got := computeDiff(current, defaults)
	if len(got) != 2 || got["extra"] != "x" {
		t.Fatalf("computeDiff() = %v", got)
	}
	gradle, ok := got["gradle"].(map[string]interface{})
	if !ok || len(gradle) != 1 || gradle["offline"] != true {
		t.Errorf("gradle diff = %v", got["gradle"])
	}
}

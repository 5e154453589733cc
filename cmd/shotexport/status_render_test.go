package main

import (
	"io"
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Export root", statusOK, "/exports (read/write ok)", false)
	if !strings.Contains(line, "[OK] /exports (read/write ok)") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.HasPrefix(line, statusIndent+"Export root:") {
		t.Fatalf("unexpected label layout %q", line)
	}

	failed := renderStatusLine("State directory", statusError, "", true)
	if !strings.HasPrefix(failed, ansiRed) || !strings.HasSuffix(failed, ansiReset) {
		t.Fatalf("expected red line, got %q", failed)
	}
	if !strings.Contains(failed, "[ERROR]") {
		t.Fatalf("expected error label, got %q", failed)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("  Preflight ", false)
	if len(lines) != 2 || lines[0] != "== Preflight ==" || lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("unexpected header %q", lines)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}

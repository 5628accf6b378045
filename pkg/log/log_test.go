package log

import (
	"bytes"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, name string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	return ForService(name), buf
}

func TestInfoCarriesServicePrefix(t *testing.T) {
	SetGlobalDebug(false)

	l, buf := newTestLogger(t, "prefix_test")
	l.Infof("indexed %d pages", 42)

	out := buf.String()
	if !strings.Contains(out, "[prefix_test]") {
		t.Fatalf("expected prefix in output, got: %q", out)
	}
	if !strings.Contains(out, "indexed 42 pages") {
		t.Fatalf("expected message in output, got: %q", out)
	}
	if !strings.Contains(out, LevelInfo) {
		t.Fatalf("expected level marker in output, got: %q", out)
	}
}

func TestDebugPerService(t *testing.T) {
	SetGlobalDebug(false)

	const name = "debug_per_service"
	DisableDebugFor(name)
	l, buf := newTestLogger(t, name)

	l.Debugf("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Fatalf("debug message emitted while debug disabled")
	}

	EnableDebugFor(name)
	l.Debugf("visible now")
	if !strings.Contains(buf.String(), "visible now") {
		t.Fatalf("expected debug message after enabling per-service debug; got: %q", buf.String())
	}
	DisableDebugFor(name)
}

func TestDebugGlobal(t *testing.T) {
	const name = "debug_global"
	DisableDebugFor(name)
	l, buf := newTestLogger(t, name)

	SetGlobalDebug(true)
	defer SetGlobalDebug(false)

	l.Debugf("globally visible")
	if !strings.Contains(buf.String(), "globally visible") {
		t.Fatalf("expected debug message with global debug on; got: %q", buf.String())
	}
}

func TestForServiceMemoizes(t *testing.T) {
	a := ForService("memoized")
	b := ForService("memoized")
	if a != b {
		t.Fatalf("ForService returned distinct loggers for the same name")
	}
}

func TestEmptyNameFallsBack(t *testing.T) {
	l := ForService("")
	if l.name != "unknown" {
		t.Fatalf("expected fallback name 'unknown', got %q", l.name)
	}
}

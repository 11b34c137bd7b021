package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"none", levelNone},
		{"", levelNone},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if err != nil {
			t.Errorf("ParseLevel(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseLevel(%q) expected=%v, got=%v", tt.input, tt.expected, got)
		}
	}
}

func TestParseLevelRejectsUnknownNames(t *testing.T) {
	for _, input := range []string{"degub", "verbose", "warning"} {
		if _, err := ParseLevel(input); err == nil {
			t.Errorf("ParseLevel(%q) expected an error", input)
		}
		if _, _, err := Setup(input, ""); err == nil {
			t.Errorf("Setup(%q) expected an error", input)
		}
	}
}

func TestCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lox.log")

	_, closer, err := Setup("info", path)
	if err != nil {
		t.Fatal(err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}

func TestSetupWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lox.log")

	logger, closer, err := Setup("debug", path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("resolved local", slog.String("name", "a"), slog.Int("depth", 1))
	logger.Log(context.Background(), LevelTrace, "too chatty")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d:\n%s", len(lines), data)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if record["msg"] != "resolved local" || record["name"] != "a" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestSetupFallsBackWhenFileUnusable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var fallback bytes.Buffer
	logger, closer, err := setup("error", filepath.Join(blocker, "lox.log"), &fallback)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	if !strings.Contains(fallback.String(), "falling back to stderr") {
		t.Errorf("expected a fallback notice, got %q", fallback.String())
	}

	logger.Error("boom")
	if !strings.Contains(fallback.String(), `"msg":"boom"`) {
		t.Errorf("expected the record on the fallback writer, got %q", fallback.String())
	}
}

func TestReopenAfterRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lox.log")

	fw, err := openFileWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	if _, err := fw.Write([]byte("first\n")); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(path, path+".bak"); err != nil {
		t.Fatal(err)
	}
	if err := fw.reopen(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := fw.Write([]byte("second\n")); err != nil {
		t.Fatal(err)
	}

	rotated, _ := os.ReadFile(path + ".bak")
	current, _ := os.ReadFile(path)
	if string(rotated) != "first\n" || string(current) != "second\n" {
		t.Errorf("expected writes split across files, got %q and %q", rotated, current)
	}
}

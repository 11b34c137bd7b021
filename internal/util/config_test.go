package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	want := DefaultConfiguration()
	want.LogLevel = "debug"
	want.History = true
	want.HistoryDriver = "postgres"
	want.HistoryDSN = "postgres://localhost/lox"
	want.Prompt = "lox> "

	tests := []struct {
		name    string
		content string
	}{
		{"lox.yaml", `
log_level: debug
prompt: "lox> "
history: true
history_driver: postgres
history_dsn: postgres://localhost/lox
`},
		{"lox.toml", `
log_level = "debug"
prompt = "lox> "
history = true
history_driver = "postgres"
history_dsn = "postgres://localhost/lox"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfiguration()
			if err := LoadConfiguration(writeFile(t, tt.name, tt.content), &cfg); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("configuration mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"lox.json", `{}`, "unsupported config format"},
		{"lox.yaml", "colour: always\n", "parsing config"},
		{"lox.toml", "colour = \"always\"\n", "unknown key"},
	}

	for _, tt := range tests {
		cfg := DefaultConfiguration()
		err := LoadConfiguration(writeFile(t, tt.name, tt.content), &cfg)
		if err == nil || !strings.Contains(err.Error(), tt.message) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.message, err)
		}
	}

	cfg := DefaultConfiguration()
	if err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestEmptyYamlKeepsDefaults(t *testing.T) {
	cfg := DefaultConfiguration()
	if err := LoadConfiguration(writeFile(t, "empty.yml", ""), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfiguration(), cfg); diff != "" {
		t.Errorf("configuration mismatch (-want +got):\n%s", diff)
	}
}

func TestGetContextLines(t *testing.T) {
	src := "one\ntwo\nthree\nfour"

	got := GetContextLines(src, 3, 3, "here")
	want := "       1 | one\n       2 | two\n  >    3 | three\n" + strings.Repeat(" ", 13) + "^ here"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}

	line, col := GetLineAndColumn(src, strings.Index(src, "ree"))
	if line != 3 || col != 3 {
		t.Errorf("expected 3:3, got %d:%d", line, col)
	}
}

func TestCaretAfterMultiByteRunes(t *testing.T) {
	src := "var ééééé = 1; print ééééé + nope;"

	line, col := GetLineAndColumn(src, strings.Index(src, "nope"))
	if line != 1 || col != strings.Index(src, "nope")+1 {
		t.Fatalf("expected 1:%d, got %d:%d", strings.Index(src, "nope")+1, line, col)
	}

	got := GetContextLines(src, line, col, "here")
	caretLine := got[strings.LastIndex(got, "\n")+1:]

	// one space per rune of the margin and the text before "nope"
	width := utf8.RuneCountInString("  >    1 | var ééééé = 1; print ééééé + ")
	want := strings.Repeat(" ", width) + "^ here"
	if caretLine != want {
		t.Errorf("caret misplaced.\nexpected: %q\ngot:      %q", want, caretLine)
	}
}

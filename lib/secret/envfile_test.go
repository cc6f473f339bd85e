// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "digest.env")

	vars := []Var{
		{Name: "ANTHROPIC_API_KEY", Value: "sk-ant-test"},
		{Name: "STEWARD_DIGEST_TOPICS", Value: "bitcoin, defi yields"},
		{Name: "STEWARD_TELEGRAM_CHAT_ID", Value: "123456"},
	}

	if err := WriteEnvFile(path, vars); err != nil {
		t.Fatalf("WriteEnvFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat written file: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("file mode = %o, want 0600", mode)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	content := string(data)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != len(vars) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(vars), content)
	}

	for index, line := range lines {
		if !strings.HasPrefix(line, "export "+vars[index].Name+"=") {
			t.Errorf("line %d = %q, want prefix %q", index, line, "export "+vars[index].Name+"=")
		}
	}

	// A value with spaces must be quoted so sourcing preserves it.
	if !strings.Contains(content, "'bitcoin, defi yields'") {
		t.Errorf("value with spaces not quoted:\n%s", content)
	}
}

func TestWriteEnvFile_QuotesHostileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.env")

	// A value that would break out of the line if embedded raw.
	hostile := `x'; rm -rf /; echo '`
	if err := WriteEnvFile(path, []Var{{Name: "TOKEN", Value: hostile}}); err != nil {
		t.Fatalf("WriteEnvFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}

	// The raw value must not appear unquoted.
	if strings.Contains(string(data), "='"+hostile+"'\n") {
		// Single-quote wrapping alone would terminate at the embedded
		// quote; shellquote must have escaped it differently.
		t.Errorf("hostile value appears naively quoted: %s", data)
	}
	if !strings.HasPrefix(string(data), "export TOKEN=") {
		t.Errorf("missing export line: %s", data)
	}
}

func TestWriteEnvFile_RejectsInvalidName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.env")

	tests := []string{"", "1BAD", "BAD-NAME", "BAD NAME", "BAD=NAME"}
	for _, name := range tests {
		if err := WriteEnvFile(path, []Var{{Name: name, Value: "v"}}); err == nil {
			t.Errorf("WriteEnvFile accepted invalid name %q", name)
		}
	}

	// Nothing should have been written.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file exists after rejected writes")
	}
}

func TestWriteEnvFile_OverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.env")

	if err := WriteEnvFile(path, []Var{{Name: "A", Value: "first"}}); err != nil {
		t.Fatalf("first WriteEnvFile: %v", err)
	}
	if err := WriteEnvFile(path, []Var{{Name: "B", Value: "second"}}); err != nil {
		t.Fatalf("second WriteEnvFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if strings.Contains(string(data), "first") {
		t.Errorf("stale content survived overwrite:\n%s", data)
	}
	if !strings.Contains(string(data), "export B=second") {
		t.Errorf("new content missing:\n%s", data)
	}

	// No leftover temporary file.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

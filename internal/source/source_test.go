package source_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"linemod/internal/source"
)

func TestScanLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty file",
			content: "",
			want:    []string{},
		},
		{
			name:    "trailing newline",
			content: "a\nb\n",
			want:    []string{"a", "b"},
		},
		{
			name:    "no trailing newline",
			content: "a\nb",
			want:    []string{"a", "b"},
		},
		{
			name:    "blank lines kept",
			content: "a\n\n\nb\n",
			want:    []string{"a", "", "", "b"},
		},
		{
			name:    "crlf",
			content: "a\r\nb\r\n",
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := source.ScanLines(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("ScanLines() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScanLines() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := createTempFileWithContent(t, "library foo;\n\nclass Foo {}\n")

	f, err := source.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(f.Lines, []string{"library foo;", "", "class Foo {}"}) {
		t.Errorf("Load() lines = %v", f.Lines)
	}
	if f.Hash() != source.Hash([]byte("library foo;\n\nclass Foo {}\n")) {
		t.Errorf("Hash() does not match content hash")
	}
	if f.Mode.Perm() != 0o600 {
		t.Errorf("Load() mode = %v, want 0600", f.Mode.Perm())
	}

	lines, err := source.ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if !reflect.DeepEqual(lines, f.Lines) {
		t.Errorf("ReadLines() = %v, want %v", lines, f.Lines)
	}
}

func TestLineEnding(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"", "\n"},
		{"no newline", "\n"},
		{"a\nb\r\n", "\n"},
		{"a\r\nb\n", "\r\n"},
		{"\r\n", "\r\n"},
		{"\n", "\n"},
	}
	for _, tt := range tests {
		if got := source.LineEnding([]byte(tt.content)); got != tt.want {
			t.Errorf("LineEnding(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}

	f, err := source.Load(createTempFileWithContent(t, "a\r\nb\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if f.EOL != "\r\n" || !reflect.DeepEqual(f.Lines, []string{"a", "b"}) {
		t.Errorf("Load() EOL = %q, lines = %q", f.EOL, f.Lines)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := source.Load(filepath.Join(t.TempDir(), "missing.dart")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := source.ReadLines(filepath.Join(t.TempDir(), "missing.dart")); err == nil {
		t.Error("expected error for missing file")
	}
}

// Helper function to create a temporary file with the given content
func createTempFileWithContent(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.dart")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	return path
}

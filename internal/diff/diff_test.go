package diff

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want string
	}{
		{
			name: "equal",
			old:  "a\nb\n",
			new:  "a\nb\n",
			want: "",
		},
		{
			name: "replace one line",
			old:  "a\nb\nc\n",
			new:  "a\nB\nc\n",
			want: "diff x y\n--- x\n+++ y\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n",
		},
		{
			name: "append line",
			old:  "a\n",
			new:  "a\nb\n",
			want: "diff x y\n--- x\n+++ y\n@@ -1,1 +1,2 @@\n a\n+b\n",
		},
		{
			name: "from empty",
			old:  "",
			new:  "a\n",
			want: "diff x y\n--- x\n+++ y\n@@ -0,0 +1,1 @@\n+a\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines("x", []byte(tt.old), "y", []byte(tt.new))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinesSeparateHunks(t *testing.T) {
	var old, new []string
	for i := range 20 {
		line := string(rune('a' + i))
		old = append(old, line)
		new = append(new, line)
	}
	new[1] = "X"
	new[18] = "Y"
	got := Lines("x", []byte(strings.Join(old, "\n")+"\n"), "y", []byte(strings.Join(new, "\n")+"\n"))
	if n := strings.Count(got, "@@ -"); n != 2 {
		t.Fatalf("expected 2 hunks, got %d:\n%s", n, got)
	}
	if !strings.Contains(got, "@@ -1,5 +1,5 @@\n") {
		t.Errorf("first hunk header missing:\n%s", got)
	}
	if !strings.Contains(got, "@@ -16,5 +16,5 @@\n") {
		t.Errorf("second hunk header missing:\n%s", got)
	}
}

func TestLinesMissingNewline(t *testing.T) {
	got := Lines("x", []byte("a\nb"), "y", []byte("a\nc"))
	if !strings.Contains(got, "-b\n\\ No newline at end of file\n") {
		t.Errorf("missing newline marker:\n%s", got)
	}
}

func TestColorizeNoColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	d := Lines("x", []byte("a\n"), "y", []byte("b\n"))
	if got := Colorize(d); got != d {
		t.Errorf("Colorize() with NoColor changed output:\n%q\nwant\n%q", got, d)
	}
	if Colorize("") != "" {
		t.Error("Colorize(\"\") should be empty")
	}
}

func TestColorize(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	d := Lines("x", []byte("a\n"), "y", []byte("b\n"))
	got := Colorize(d)
	if got == d {
		t.Fatal("Colorize() did not add escapes")
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in %q", got)
	}
}

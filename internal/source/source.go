package source

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// MaxLineSize is the longest line the scanners accept.
const MaxLineSize = 1 << 20

// File is one source file loaded for scanning.
type File struct {
	Path    string
	Content []byte
	Lines   []string
	EOL     string // line terminator of the first line, "\n" or "\r\n"
	Mode    os.FileMode
}

// Load reads the file at path and splits it into lines.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	lines, err := ScanLines(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return &File{Path: path, Content: content, Lines: lines, EOL: LineEnding(content), Mode: info.Mode()}, nil
}

// Hash returns the hex sha256 of the file content.
func (f *File) Hash() string {
	return Hash(f.Content)
}

// ReadLines reads the file at path line by line.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	lines, err := ScanLines(file)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return lines, nil
}

// ScanLines splits r into lines without their terminators.
// A trailing newline does not produce an empty final line.
func ScanLines(r io.Reader) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// LineEnding reports the terminator of the first line of content. Content
// without any newline is treated as using "\n".
func LineEnding(content []byte) string {
	i := bytes.IndexByte(content, '\n')
	if i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Hash returns the hex sha256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

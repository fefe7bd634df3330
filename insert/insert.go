// Package insert delivers an answer to where the user wants it: stdout, the
// clipboard, or a cursor position inside a file.
package insert

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"nameit/config"
)

// WriterSink writes the answer followed by a newline.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Insert(text string) error {
	_, err := fmt.Fprintln(s.W, text)
	return err
}

// ClipboardSink copies the answer to the system clipboard.
type ClipboardSink struct{}

func (ClipboardSink) Insert(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// FileSink inserts the answer into a file at a 1-based line and column, on
// a line of its own: a line break goes in at the cursor, then the answer.
type FileSink struct {
	Path   string
	Line   int
	Column int
}

func (s FileSink) Insert(text string) error {
	info, err := os.Stat(s.Path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.Path, err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	offset, err := Offset(string(data), s.Line, s.Column)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Path, err)
	}

	var b strings.Builder
	b.Grow(len(data) + len(text) + 1)
	b.Write(data[:offset])
	b.WriteString("\n")
	b.WriteString(text)
	b.Write(data[offset:])

	if err := os.WriteFile(s.Path, []byte(b.String()), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}

	config.DebugLog.Debug().
		Str("path", s.Path).
		Int("line", s.Line).
		Int("column", s.Column).
		Int("bytes", len(text)).
		Msg("inserted answer")
	return nil
}

// Offset converts a 1-based line and column into a byte offset in content.
// Line 0 means the end of the content; column 0 means the end of the line.
// Columns count bytes.
func Offset(content string, line, column int) (int, error) {
	if line < 0 || column < 0 {
		return 0, fmt.Errorf("invalid position %d:%d", line, column)
	}
	if line == 0 {
		return len(content), nil
	}

	start := 0
	for l := 1; l < line; l++ {
		nl := strings.IndexByte(content[start:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("line %d is past the end of the file", line)
		}
		start += nl + 1
	}

	end := len(content)
	if nl := strings.IndexByte(content[start:], '\n'); nl >= 0 {
		end = start + nl
	}

	if column == 0 {
		return end, nil
	}
	if start+column-1 > end {
		return 0, fmt.Errorf("column %d is past the end of line %d", column, line)
	}
	return start + column - 1, nil
}

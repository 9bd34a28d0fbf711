// Package position provides source position tracking for the dragons
// toolchain. Positions are attached to every token so that parse and
// runtime diagnostics can name the offending line and column.
package position

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// String returns a string representation of the position. Positions
// known only by line omit the column.
func (p Position) String() string {
	loc := fmt.Sprintf("%d:%d", p.Line, p.Column)
	if p.Column <= 0 {
		loc = fmt.Sprintf("%d", p.Line)
	}
	if p.Filename != "" {
		return filepath.Base(p.Filename) + ":" + loc
	}
	return loc
}

// SourceFile represents a source file with content and position tracking
type SourceFile struct {
	Filename string   // File path
	Content  string   // Source code content
	Lines    []string // Lines of source code for efficient access
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &SourceFile{
		Filename: filename,
		Content:  content,
		Lines:    lines,
	}
}

// GetLine returns the specified line (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(lineNum int) string {
	if sf == nil || lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	return sf.Lines[lineNum-1]
}

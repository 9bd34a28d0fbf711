// Package diagnostic renders fatal errors for people: the one-line report
// the tools always print, optionally followed by the offending source line.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	dragonerrors "github.com/dragonsrcool/dragons/internal/errors"
	"github.com/dragonsrcool/dragons/internal/position"
)

// Diagnostic is a located message ready for display.
type Diagnostic struct {
	Code    string
	Message string
	Pos     position.Position
}

// FromError converts err into a Diagnostic. Errors that are not fatal
// language errors (I/O failures and the like) carry no position.
func FromError(err error, filename string) *Diagnostic {
	f, ok := dragonerrors.AsFatal(err)
	if !ok {
		return &Diagnostic{Message: err.Error()}
	}
	return &Diagnostic{
		Code:    f.Code,
		Message: f.Error(),
		Pos: position.Position{
			Filename: filename,
			Line:     f.Line,
			Column:   f.Column,
		},
	}
}

// Renderer writes diagnostics. With ShowSource set and a Source available,
// each report is followed by the source line it points at.
type Renderer struct {
	ShowSource bool
	ShowCode   bool
	Source     *position.SourceFile
}

var (
	errorStyle  = color.New(color.FgRed, color.Bold)
	codeStyle   = color.New(color.Faint)
	sourceStyle = color.New(color.FgBlue)
)

// Render writes err to w
func (r *Renderer) Render(w io.Writer, err error) error {
	filename := ""
	if r.Source != nil {
		filename = r.Source.Filename
	}
	return r.RenderDiagnostic(w, FromError(err, filename))
}

// RenderDiagnostic writes d to w
func (r *Renderer) RenderDiagnostic(w io.Writer, d *Diagnostic) error {
	var sb strings.Builder
	sb.WriteString(errorStyle.Sprint(d.Message))
	if r.ShowCode && d.Code != "" {
		sb.WriteString(" " + codeStyle.Sprintf("[%s]", d.Code))
	}
	sb.WriteString("\n")

	if r.ShowSource && r.Source != nil && d.Pos.Line > 0 {
		if excerpt := r.Source.Excerpt(d.Pos); excerpt != "" {
			if d.Pos.Filename != "" {
				sb.WriteString(sourceStyle.Sprintf("  --> %s", d.Pos))
				sb.WriteString("\n")
			}
			sb.WriteString(excerpt)
			sb.WriteString("\n")
		}
	}

	_, err := fmt.Fprint(w, sb.String())
	return err
}

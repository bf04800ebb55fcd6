package diag

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"sendcheck/internal/source"
)

type renderedDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Start    uint32
	End      uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable,
// single-line-per-entry representation suitable for golden files and CLI
// short output. Spans are byte offsets; the checker never has file
// contents to resolve line numbers against.
func FormatShortDiagnostics(diags []Diagnostic, files *source.Table, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]renderedDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendRendered(rendered, &diags[i], files, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Start != dj.Start {
			return di.Start < dj.Start
		}
		if di.End != dj.End {
			return di.End < dj.End
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d-%d %s", d.Severity, d.Code, d.Path, d.Start, d.End, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendRendered(out []renderedDiagnostic, d *Diagnostic, files *source.Table, includeNotes bool) []renderedDiagnostic {
	out = append(out, renderedDiagnostic{
		Severity: d.Severity.Label(),
		Code:     d.Code.String(),
		Path:     normalizePath(files.Path(d.Primary.File)),
		Start:    d.Primary.Start,
		End:      d.Primary.End,
		Message:  sanitizeMessage(d.Message),
	})
	if includeNotes {
		for _, note := range d.Notes {
			out = append(out, renderedDiagnostic{
				Severity: "note",
				Code:     d.Code.String(),
				Path:     normalizePath(files.Path(note.Span.File)),
				Start:    note.Span.Start,
				End:      note.Span.End,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

// WritePretty renders diagnostics for a human: one block per entry,
// notes indented under their diagnostic.
func WritePretty(w io.Writer, diags []Diagnostic, files *source.Table, useColor bool) {
	errStyle := color.New(color.FgRed, color.Bold)
	warnStyle := color.New(color.FgYellow, color.Bold)
	infoStyle := color.New(color.FgCyan, color.Bold)
	noteStyle := color.New(color.FgCyan)
	locStyle := color.New(color.FgWhite, color.Faint)
	if !useColor {
		for _, s := range []*color.Color{errStyle, warnStyle, infoStyle, noteStyle, locStyle} {
			s.DisableColor()
		}
	}

	for i := range diags {
		d := &diags[i]
		var sev string
		switch d.Severity {
		case SevError:
			sev = errStyle.Sprint("error")
		case SevWarning:
			sev = warnStyle.Sprint("warning")
		default:
			sev = infoStyle.Sprint("info")
		}
		fmt.Fprintf(w, "%s[%s]: %s\n", sev, d.Code, d.Message)
		fmt.Fprintf(w, "  %s %s\n", locStyle.Sprint("-->"), files.Format(d.Primary))
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s %s (%s)\n", noteStyle.Sprint("note:"), note.Msg, files.Format(note.Span))
		}
	}
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

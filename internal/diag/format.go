package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"jsfront/internal/source"
)

type shortDiagnostic struct {
	severity string
	code     string
	path     string
	offset   uint32
	message  string
}

// FormatShort renders one line per diagnostic:
//
//	error SEM3001 src/app.js@42 'x' has already been declared
//
// Spans point into the JavaScript text the ESTree dump was produced from, so
// locations are byte offsets rather than line/column pairs. Output is sorted
// by path, offset, severity and code.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		rendered = append(rendered, shortDiagnostic{
			severity: d.Severity.String(),
			code:     d.Code.ID(),
			path:     modulePath(fs, d.Primary.File),
			offset:   d.Primary.Start,
			message:  sanitizeMessage(d.Message),
		})
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			rendered = append(rendered, shortDiagnostic{
				severity: "note",
				code:     d.Code.ID(),
				path:     modulePath(fs, n.Span.File),
				offset:   n.Span.Start,
				message:  sanitizeMessage(n.Msg),
			})
		}
	}

	slices.SortStableFunc(rendered, func(a, b shortDiagnostic) int {
		if c := strings.Compare(a.path, b.path); c != 0 {
			return c
		}
		if a.offset != b.offset {
			return cmp.Compare(a.offset, b.offset)
		}
		if c := strings.Compare(a.severity, b.severity); c != 0 {
			return c
		}
		return strings.Compare(a.code, b.code)
	})

	var b strings.Builder
	for i, d := range rendered {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s@%d %s", d.severity, d.code, d.path, d.offset, d.message)
	}
	return b.String()
}

func modulePath(fs *source.FileSet, id source.FileID) string {
	if fs != nil {
		if f := fs.Get(id); f != nil {
			return f.Module
		}
	}
	return fmt.Sprintf("<file %d>", id)
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

// textReporter renders findings for a terminal, one block per finding.
type textReporter struct {
	writer io.WriteCloser
	total  int
}

func newTextReporter(writer io.WriteCloser) *textReporter {
	return &textReporter{writer: writer}
}

func (r *textReporter) Write(findings []schemas.Finding) error {
	for _, f := range findings {
		if err := r.writeFinding(f); err != nil {
			return err
		}
		r.total++
	}
	return nil
}

func (r *textReporter) writeFinding(f schemas.Finding) error {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s  %s:%d:%d\n",
		strings.ToUpper(string(f.Severity)), f.Class,
		f.Location.File, f.Location.Line, f.Location.Column)
	fmt.Fprintf(&b, "  %s\n", f.Message)
	if f.Location.Snippet != "" {
		fmt.Fprintf(&b, "  > %s\n", f.Location.Snippet)
	}
	if f.Sanitizer != "" {
		fmt.Fprintf(&b, "  sanitizer seen: %s\n", f.Sanitizer)
	}
	for _, step := range f.Remediation {
		fmt.Fprintf(&b, "  - %s\n", step)
	}
	for _, fix := range f.Fixes {
		fmt.Fprintf(&b, "  fix (%s): %s\n", fix.Label, fix.Template)
	}
	b.WriteString("\n")

	_, err := io.WriteString(r.writer, b.String())
	return err
}

func (r *textReporter) Close() error {
	if _, err := fmt.Fprintf(r.writer, "%d finding(s)\n", r.total); err != nil {
		r.writer.Close()
		return err
	}
	return r.writer.Close()
}

// Package reporting renders scan findings as text, JSON or SARIF 2.1.0.
package reporting

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

// Reporter writes findings to an output in one format.
type Reporter interface {
	// Write renders a batch of findings.
	Write(findings []schemas.Finding) error
	// Close finalizes the report and releases the underlying writer.
	Close() error
}

// nopWriteCloser wraps an io.Writer with a no-op Close, so stdout survives
// reporter teardown.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for the given format writing to outputPath
// ("stdout" or empty selects standard output).
func New(format, outputPath, version string, logger *zap.Logger) (Reporter, error) {
	var writer io.WriteCloser
	isStdout := outputPath == "" || outputPath == "stdout"

	if isStdout {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "text", "":
		return newTextReporter(writer), nil
	case "json":
		return newJSONReporter(writer, version), nil
	case "sarif":
		return NewSARIFReporter(writer, version, logger), nil
	default:
		if !isStdout {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

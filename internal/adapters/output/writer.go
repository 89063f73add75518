// Package output provides adapters for writing application output.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// Output formats.
const (
	// FormatText writes the version alone on one line.
	FormatText = "text"

	// FormatJSON writes the version and the repository state as one JSON object.
	FormatJSON = "json"
)

// ErrUnknownFormat indicates an unsupported output format was requested.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer writes resolution results to stdout or a custom destination.
type Writer struct {
	out    io.Writer
	format string
}

// result is the JSON shape of a resolution.
type result struct {
	Version    string `json:"version"`
	RawVersion string `json:"raw_version"`
	Dirty      bool   `json:"dirty"`
	CommitID   string `json:"commit_id,omitempty"`
}

// NewWriter creates a text Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout, format: FormatText}
}

// NewWriterWithOutput creates a Writer with a custom destination and format.
// An empty format means FormatText.
func NewWriterWithOutput(out io.Writer, format string) (*Writer, error) {
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &Writer{out: out, format: format}, nil
}

// WriteResult writes res in the writer's format.
func (w *Writer) WriteResult(res *domain.ResolveOutput) error {
	if w.format == FormatJSON {
		return json.NewEncoder(w.out).Encode(result{
			Version:    res.Version,
			RawVersion: res.RawVersion,
			Dirty:      res.State.Dirty,
			CommitID:   res.State.CommitID,
		})
	}

	_, err := io.WriteString(w.out, res.Version+"\n")
	return err
}

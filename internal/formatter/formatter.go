// package formatter writes run reports and library listings as plain text, JSON lines or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/shared"
)

// Format selects how reports are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name. An empty name selects [FormatText].
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if !slices.Contains(shared.OutputFormats, string(f)) {
		return "", fmt.Errorf("%w: unknown output format %q", shared.ErrInvalidArgument, s)
	}
	return f, nil
}

// ReportWriter renders run outcomes as they arrive.
//
// Reports go to out in the selected format. Not-found and failure diagnostics always go
// to diag as plain text so that out stays machine readable.
type ReportWriter struct {
	out    io.Writer
	diag   io.Writer
	format Format
	csv    *csv.Writer
	header bool
}

type jsonMissing struct {
	Artist  string   `json:"artist"`
	Missing []string `json:"missing"`
}

type jsonLatest struct {
	Artist string `json:"artist"`
	Latest string `json:"latest"`
}

// NewReportWriter creates a writer for format. A nil diag discards diagnostics.
func NewReportWriter(out, diag io.Writer, format Format) (*ReportWriter, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if diag == nil {
		diag = io.Discard
	}
	w := &ReportWriter{out: out, diag: diag, format: format}
	if format == FormatCSV {
		w.csv = csv.NewWriter(out)
	}
	return w, nil
}

// Report writes the albums an artist is missing.
func (w *ReportWriter) Report(r models.MissingReport) error {
	if r.Empty() {
		return nil
	}

	switch w.format {
	case FormatJSON:
		return w.writeJSONLine(jsonMissing{Artist: r.Artist, Missing: r.Missing})
	case FormatCSV:
		rows := make([][]string, 0, len(r.Missing))
		for _, album := range r.Missing {
			rows = append(rows, []string{r.Artist, album})
		}
		return w.writeCSV([]string{"artist", "missing_album"}, rows...)
	default:
		_, err := fmt.Fprintf(w.out, "%s: %s\n", r.Artist, strings.Join(r.Missing, ", "))
		return err
	}
}

// Latest writes the most recent album of an artist.
func (w *ReportWriter) Latest(r models.LatestReport) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSONLine(jsonLatest{Artist: r.Artist, Latest: r.Album})
	case FormatCSV:
		return w.writeCSV([]string{"artist", "latest_album"}, []string{r.Artist, r.Album})
	default:
		_, err := fmt.Fprintf(w.out, "%s: %s\n", r.Artist, r.Album)
		return err
	}
}

// NotFound writes the diagnostic for an artist the catalog does not know.
func (w *ReportWriter) NotFound(artist string) error {
	_, err := fmt.Fprintf(w.diag, "%s was not found in the catalog\n", artist)
	return err
}

// Failure writes the diagnostic for an artist whose lookup failed.
func (w *ReportWriter) Failure(artist string, err error) error {
	_, werr := fmt.Fprintf(w.diag, "%s could not be checked: %v\n", artist, err)
	return werr
}

func (w *ReportWriter) writeJSONLine(v any) error {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.out.Write(append(data, '\n'))
	return err
}

// writeCSV writes the header once, then rows, flushing so each report reaches out immediately.
func (w *ReportWriter) writeCSV(header []string, rows ...[]string) error {
	if !w.header {
		if err := w.csv.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		w.header = true
	}
	if err := w.csv.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV record: %w", err)
	}
	return nil
}

type libraryArtist struct {
	Artist string   `json:"artist"`
	Albums []string `json:"albums"`
}

// ExportLibrary renders the owned albums of lib, artists sorted and albums in insertion order.
func ExportLibrary(lib models.Library, format Format) ([]byte, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	artists := lib.Artists()
	switch format {
	case FormatJSON:
		entries := make([]libraryArtist, 0, len(artists))
		for _, a := range artists {
			entries = append(entries, libraryArtist{Artist: a, Albums: lib[a].Names()})
		}
		data, err := shared.MarshalJSON(entries, true)
		if err != nil {
			return nil, fmt.Errorf("failed to encode library: %w", err)
		}
		return append(data, '\n'), nil
	case FormatCSV:
		var buf bytes.Buffer
		writer := csv.NewWriter(&buf)
		if err := writer.Write([]string{"artist", "album"}); err != nil {
			return nil, fmt.Errorf("failed to write CSV headers: %w", err)
		}
		for _, a := range artists {
			for _, album := range lib[a].Names() {
				if err := writer.Write([]string{a, album}); err != nil {
					return nil, fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, fmt.Errorf("CSV writer error: %w", err)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		for _, a := range artists {
			set := lib[a]
			fmt.Fprintf(&buf, "%s (%d)\n", a, set.Len())
			for _, album := range set.Names() {
				fmt.Fprintf(&buf, "  - %s\n", album)
			}
		}
		return buf.Bytes(), nil
	}
}

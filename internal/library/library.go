package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/shared"
)

// DefaultPath is the location of the iTunes library export on macOS.
const DefaultPath = "~/Music/iTunes/iTunes Music Library.xml"

// Format identifies a supported library source.
type Format string

const (
	FormatITunes Format = "itunes"
	FormatCSV    Format = "csv"
	FormatBeets  Format = "beets"
	FormatTags   Format = "tags"
)

// DetectFormat picks a loader from the path: directories are scanned for tagged MP3 files,
// otherwise the file extension decides.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to open library: %w", err)
	}
	if info.IsDir() {
		return FormatTags, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatITunes, nil
	case ".csv":
		return FormatCSV, nil
	case ".db", ".blb", ".sqlite", ".sqlite3":
		return FormatBeets, nil
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedLibrary, filepath.Base(path))
	}
}

// Load reads the library at path, expanding a leading "~".
//
// Returns [shared.ErrEmptyLibrary] if no artist/album pair was found.
func Load(path string, logger *log.Logger) (models.Library, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	path = shared.ExpandPath(path)

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	logger = shared.WithLogger(logger, "library", path, "format", format)

	var lib models.Library
	switch format {
	case FormatITunes:
		lib, err = LoadITunes(path)
	case FormatCSV:
		lib, err = LoadCSV(path)
	case FormatBeets:
		lib, err = LoadBeets(path)
	case FormatTags:
		lib, err = LoadTags(path, logger)
	}
	if err != nil {
		return nil, err
	}

	if len(lib) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrEmptyLibrary, path)
	}
	logger.Debug("library loaded", "artists", len(lib), "albums", lib.AlbumCount())
	return lib, nil
}

package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/albumdiff/internal/models"
)

// LoadCSV reads artist,album rows.
//
// A header row naming "artist" and "album" columns selects them; otherwise the first
// two columns are used and the first row is data.
func LoadCSV(path string) (models.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV library: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	lib := models.Library{}
	artistCol, albumCol := 0, 1
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV library: %w", err)
		}

		if first {
			first = false
			if a, b, ok := headerColumns(record); ok {
				artistCol, albumCol = a, b
				continue
			}
		}

		if len(record) <= max(artistCol, albumCol) {
			continue
		}
		lib.Add(record[artistCol], record[albumCol])
	}
	return lib, nil
}

func headerColumns(record []string) (artist, album int, ok bool) {
	artist, album = -1, -1
	for i, h := range record {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "artist", "album artist", "albumartist":
			if artist < 0 {
				artist = i
			}
		case "album":
			album = i
		}
	}
	return artist, album, artist >= 0 && album >= 0
}

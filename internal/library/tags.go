package library

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/albumdiff/internal/models"
)

// albumArtistFrame is TPE2, used by most taggers for the album artist.
const albumArtistFrame = "TPE2"

type trackTags struct {
	artist, album string
	err           error
}

// LoadTags walks root and reads the artist and album of every ID3-tagged MP3 file.
//
// Tags are read concurrently and added in walk order. Files with unreadable tags are skipped
// with a warning. The artist falls back to the album artist (TPE2) when the lead performer
// frame is empty.
func LoadTags(root string, logger *log.Logger) (models.Library, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".mp3") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan music folder: %w", err)
	}

	tags := make([]trackTags, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			artist, album, err := readTags(path)
			tags[i] = trackTags{artist: artist, album: album, err: err}
			return nil
		})
	}
	_ = g.Wait()

	lib := models.Library{}
	skipped := 0
	for i, t := range tags {
		if t.err != nil {
			skipped++
			logger.Warn("skipping file with unreadable tags", "path", paths[i], "error", t.err)
			continue
		}
		lib.Add(t.artist, t.album)
	}

	if skipped > 0 {
		logger.Info("some files were skipped", "count", skipped)
	}
	return lib, nil
}

func readTags(path string) (artist, album string, err error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return "", "", err
	}
	defer tag.Close()

	artist = tag.Artist()
	if artist == "" {
		artist = tag.GetTextFrame(albumArtistFrame).Text
	}
	return artist, tag.Album(), nil
}

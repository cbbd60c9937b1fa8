package library

import (
	"fmt"
	"os"
	"sort"

	"howett.net/plist"

	"github.com/desertthunder/albumdiff/internal/models"
)

// itunesLibrary is the subset of "iTunes Music Library.xml" the loader reads.
type itunesLibrary struct {
	Tracks map[string]itunesTrack `plist:"Tracks"`
}

type itunesTrack struct {
	Artist      string `plist:"Artist"`
	AlbumArtist string `plist:"Album Artist"`
	Album       string `plist:"Album"`
	Podcast     bool   `plist:"Podcast"`
	Movie       bool   `plist:"Movie"`
	TVShow      bool   `plist:"TV Show"`
	MusicVideo  bool   `plist:"Music Video"`
	HasVideo    bool   `plist:"Has Video"`
}

func (t itunesTrack) isMusic() bool {
	return !t.Podcast && !t.Movie && !t.TVShow && !t.MusicVideo && !t.HasVideo
}

// LoadITunes reads the music tracks of an iTunes library XML export.
//
// Podcasts and video are skipped. A track without an artist falls back to its album artist.
func LoadITunes(path string) (models.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open iTunes library: %w", err)
	}
	defer f.Close()

	var doc itunesLibrary
	if err := plist.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse iTunes library: %w", err)
	}

	ids := make([]string, 0, len(doc.Tracks))
	for id := range doc.Tracks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lib := models.Library{}
	for _, id := range ids {
		t := doc.Tracks[id]
		if !t.isMusic() {
			continue
		}
		artist := t.Artist
		if artist == "" {
			artist = t.AlbumArtist
		}
		lib.Add(artist, t.Album)
	}
	return lib, nil
}

// package models defines the data model for the missing album finder
package models

import (
	"sort"
	"strings"
	"time"
)

// WrapperCollection is the catalog wrapper type of an album release.
const WrapperCollection = "collection"

// AlbumSet is a duplicate-free set of album names that remembers insertion order.
//
// The zero value is an empty set ready to use.
type AlbumSet struct {
	names []string
	seen  map[string]struct{}
}

// NewAlbumSet builds a set from names, dropping duplicates after the first occurrence.
func NewAlbumSet(names ...string) AlbumSet {
	var s AlbumSet
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name if it is not already present and reports whether it was added.
func (s *AlbumSet) Add(name string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s AlbumSet) Contains(name string) bool {
	_, ok := s.seen[name]
	return ok
}

func (s AlbumSet) Len() int { return len(s.names) }

// Names returns a copy of the set members in insertion order.
func (s AlbumSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Library maps an artist name to the albums owned for that artist.
type Library map[string]*AlbumSet

// Add records album under artist. Blank artists or albums are ignored.
func (l Library) Add(artist, album string) {
	artist, album = strings.TrimSpace(artist), strings.TrimSpace(album)
	if artist == "" || album == "" {
		return
	}
	set, ok := l[artist]
	if !ok {
		set = &AlbumSet{}
		l[artist] = set
	}
	set.Add(album)
}

// Artists returns every artist name in sorted order.
func (l Library) Artists() []string {
	artists := make([]string, 0, len(l))
	for a := range l {
		artists = append(artists, a)
	}
	sort.Strings(artists)
	return artists
}

// AlbumCount is the total number of owned albums across artists.
func (l Library) AlbumCount() int {
	n := 0
	for _, s := range l {
		n += s.Len()
	}
	return n
}

// Job is the unit of work for one artist. Owned is never modified once the job is built.
type Job struct {
	Artist string
	Owned  AlbumSet
}

// CatalogEntry is one release returned by the catalog's album lookup.
type CatalogEntry struct {
	WrapperType    string    `json:"wrapperType"`
	CollectionType string    `json:"collectionType,omitempty"`
	CollectionID   int64     `json:"collectionId,omitempty"`
	CollectionName string    `json:"collectionName"`
	ArtistName     string    `json:"artistName,omitempty"`
	TrackCount     int       `json:"trackCount,omitempty"`
	ReleaseDate    time.Time `json:"releaseDate"`
}

// IsAlbum reports whether the entry is a collection release.
func (e CatalogEntry) IsAlbum() bool {
	return e.WrapperType == WrapperCollection
}

// MissingReport lists the canonical albums an artist's library lacks.
type MissingReport struct {
	Artist  string   `json:"artist"`
	Missing []string `json:"missing"`
}

// Empty reports whether the library already holds every canonical album.
func (r MissingReport) Empty() bool {
	return len(r.Missing) == 0
}

// LatestReport names the most recent album of an artist.
type LatestReport struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

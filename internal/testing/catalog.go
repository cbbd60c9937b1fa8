package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/shared"
)

// FakeAlbum is a collection served by [CatalogServer].
type FakeAlbum struct {
	Name        string
	ReleaseDate string // RFC 3339, may be empty
	Kind        string // wrapperType, defaults to "collection"
}

// FakeArtist is an artist served by [CatalogServer].
type FakeArtist struct {
	ID     int64
	Name   string
	Albums []FakeAlbum
}

// CatalogServer is an httptest stand-in for the iTunes Search API.
//
// Artists are matched case-insensitively on the search term.
type CatalogServer struct {
	*httptest.Server

	mu       sync.Mutex
	byName   map[string]FakeArtist
	byID     map[int64]FakeArtist
	searches map[string]int
}

// NewCatalogServer starts a fake catalog that is closed when the test ends.
func NewCatalogServer(t *testing.T, artists ...FakeArtist) *CatalogServer {
	t.Helper()
	cs := &CatalogServer{
		byName:   make(map[string]FakeArtist),
		byID:     make(map[int64]FakeArtist),
		searches: make(map[string]int),
	}
	for i, a := range artists {
		if a.ID == 0 {
			a.ID = int64(1000 + i)
		}
		cs.byName[strings.ToLower(a.Name)] = a
		cs.byID[a.ID] = a
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", cs.search)
	mux.HandleFunc("/lookup", cs.lookup)
	cs.Server = httptest.NewServer(mux)
	t.Cleanup(cs.Close)
	return cs
}

// Searches returns how many times term was searched.
func (cs *CatalogServer) Searches(term string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.searches[term]
}

func (cs *CatalogServer) search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	cs.mu.Lock()
	cs.searches[term]++
	a, ok := cs.byName[strings.ToLower(term)]
	cs.mu.Unlock()

	results := []map[string]any{}
	if ok {
		results = append(results, map[string]any{
			"wrapperType": "artist",
			"artistName":  a.Name,
			"artistId":    a.ID,
		})
	}
	writeResults(w, results)
}

func (cs *CatalogServer) lookup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	cs.mu.Lock()
	a, ok := cs.byID[id]
	cs.mu.Unlock()

	results := []map[string]any{}
	if ok {
		results = append(results, map[string]any{"wrapperType": "artist", "artistName": a.Name, "artistId": a.ID})
		for i, album := range a.Albums {
			kind := album.Kind
			if kind == "" {
				kind = models.WrapperCollection
			}
			entry := map[string]any{
				"wrapperType":    kind,
				"collectionType": "Album",
				"collectionId":   a.ID*100 + int64(i),
				"collectionName": album.Name,
				"artistName":     a.Name,
			}
			if album.ReleaseDate != "" {
				entry["releaseDate"] = album.ReleaseDate
			}
			results = append(results, entry)
		}
	}
	writeResults(w, results)
}

func writeResults(w http.ResponseWriter, results []map[string]any) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	json.NewEncoder(w).Encode(map[string]any{"resultCount": len(results), "results": results})
}

// MockCatalog is a test double for [services.Catalog] backed by in-memory discographies.
//
// Errors keyed by artist are returned from ResolveArtistID.
type MockCatalog struct {
	Albums map[string][]string
	Latest map[string]string
	Errors map[string]error

	mu       sync.Mutex
	ids      map[int64]string
	resolved map[string]int
	closed   int
}

// NewMockCatalog creates a mock whose artists resolve to stable ids.
func NewMockCatalog(albums map[string][]string) *MockCatalog {
	m := &MockCatalog{
		Albums:   albums,
		Latest:   map[string]string{},
		Errors:   map[string]error{},
		ids:      make(map[int64]string),
		resolved: make(map[string]int),
	}
	names := make([]string, 0, len(albums))
	for name := range albums {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		m.ids[int64(i+1)] = name
	}
	return m
}

func (m *MockCatalog) ResolveArtistID(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved[name]++

	if err, ok := m.Errors[name]; ok {
		return 0, err
	}
	for id, n := range m.ids {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, name)
}

func (m *MockCatalog) FetchCanonicalAlbums(ctx context.Context, artistID int64) (models.AlbumSet, error) {
	m.mu.Lock()
	name, ok := m.ids[artistID]
	m.mu.Unlock()
	if !ok || len(m.Albums[name]) == 0 {
		return models.AlbumSet{}, fmt.Errorf("%w: id %d", shared.ErrArtistNotFound, artistID)
	}

	var set models.AlbumSet
	for _, album := range m.Albums[name] {
		set.Add(shared.NormalizeAlbumName(album))
	}
	return set, nil
}

func (m *MockCatalog) FetchLatestAlbumName(ctx context.Context, artistID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.ids[artistID]
	if !ok {
		return "", fmt.Errorf("%w: id %d", shared.ErrArtistNotFound, artistID)
	}
	if latest, ok := m.Latest[name]; ok {
		return latest, nil
	}
	albums := m.Albums[name]
	if len(albums) == 0 {
		return "", fmt.Errorf("%w: id %d", shared.ErrArtistNotFound, artistID)
	}
	return albums[len(albums)-1], nil
}

func (m *MockCatalog) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// Resolved returns how many times name was resolved.
func (m *MockCatalog) Resolved(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolved[name]
}

// Closed returns how many times Close was called.
func (m *MockCatalog) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

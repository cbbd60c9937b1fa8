package library

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/shared"
	tu "github.com/desertthunder/albumdiff/internal/testing"
)

const itunesFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Major Version</key><integer>1</integer>
	<key>Application Version</key><string>12.9.5.5</string>
	<key>Tracks</key>
	<dict>
		<key>101</key>
		<dict>
			<key>Track ID</key><integer>101</integer>
			<key>Name</key><string>Come Together</string>
			<key>Artist</key><string>The Beatles</string>
			<key>Album</key><string>Abbey Road (Remastered)</string>
			<key>Kind</key><string>MPEG audio file</string>
		</dict>
		<key>102</key>
		<dict>
			<key>Track ID</key><integer>102</integer>
			<key>Name</key><string>Something</string>
			<key>Artist</key><string>The Beatles</string>
			<key>Album</key><string>Abbey Road (Remastered)</string>
		</dict>
		<key>103</key>
		<dict>
			<key>Track ID</key><integer>103</integer>
			<key>Name</key><string>Taxman</string>
			<key>Album Artist</key><string>The Beatles</string>
			<key>Album</key><string>Revolver</string>
		</dict>
		<key>104</key>
		<dict>
			<key>Track ID</key><integer>104</integer>
			<key>Name</key><string>Episode 12</string>
			<key>Artist</key><string>Some Podcast</string>
			<key>Album</key><string>Season 1</string>
			<key>Podcast</key><true/>
		</dict>
		<key>105</key>
		<dict>
			<key>Track ID</key><integer>105</integer>
			<key>Name</key><string>Karma Police</string>
			<key>Artist</key><string>Radiohead</string>
			<key>Album</key><string>OK Computer</string>
			<key>Music Video</key><true/>
		</dict>
		<key>106</key>
		<dict>
			<key>Track ID</key><integer>106</integer>
			<key>Name</key><string>Idioteque</string>
			<key>Artist</key><string>Radiohead</string>
			<key>Album</key><string>Kid A</string>
		</dict>
	</dict>
</dict>
</plist>
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	tu.MustWriteFile(t, path, []byte(content))
	return path
}

func albums(lib models.Library, artist string) []string {
	set, ok := lib[artist]
	if !ok {
		return nil
	}
	return set.Names()
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()
	tc := []struct {
		name    string
		path    string
		want    Format
		wantErr error
	}{
		{name: "directory", path: dir, want: FormatTags},
		{name: "xml", path: writeFixture(t, "Library.XML", ""), want: FormatITunes},
		{name: "csv", path: writeFixture(t, "albums.csv", ""), want: FormatCSV},
		{name: "beets", path: writeFixture(t, "library.blb", ""), want: FormatBeets},
		{name: "unknown", path: writeFixture(t, "albums.json", ""), wantErr: shared.ErrUnsupportedLibrary},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("missing path", func(t *testing.T) {
		if _, err := DetectFormat(filepath.Join(dir, "nope.xml")); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

func TestLoadITunes(t *testing.T) {
	lib, err := LoadITunes(writeFixture(t, "iTunes Music Library.xml", itunesFixture))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := albums(lib, "The Beatles"); !slices.Equal(got, []string{"Abbey Road (Remastered)", "Revolver"}) {
		t.Errorf("unexpected Beatles albums %v", got)
	}
	if got := albums(lib, "Radiohead"); !slices.Equal(got, []string{"Kid A"}) {
		t.Errorf("music videos should be skipped, got %v", got)
	}
	if _, ok := lib["Some Podcast"]; ok {
		t.Error("podcasts should be skipped")
	}

	t.Run("invalid plist", func(t *testing.T) {
		if _, err := LoadITunes(writeFixture(t, "bad.xml", "<plist><dict><key>Tracks")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestLoadCSV(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		path := writeFixture(t, "lib.csv", "Album,Year,Artist\nOK Computer,1997,Radiohead\n\"Hail to the Thief\",2003,Radiohead\nDebut,1993,Björk\n")
		lib, err := LoadCSV(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := albums(lib, "Radiohead"); !slices.Equal(got, []string{"OK Computer", "Hail to the Thief"}) {
			t.Errorf("unexpected Radiohead albums %v", got)
		}
		if got := albums(lib, "Björk"); !slices.Equal(got, []string{"Debut"}) {
			t.Errorf("unexpected Björk albums %v", got)
		}
	})

	t.Run("without header", func(t *testing.T) {
		path := writeFixture(t, "lib.csv", "Radiohead,Kid A\nRadiohead, Amnesiac\nshort-row\n,Orphan\n")
		lib, err := LoadCSV(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := albums(lib, "Radiohead"); !slices.Equal(got, []string{"Kid A", "Amnesiac"}) {
			t.Errorf("unexpected albums %v", got)
		}
		if len(lib) != 1 {
			t.Errorf("expected one artist, got %v", lib.Artists())
		}
	})

	t.Run("malformed quoting", func(t *testing.T) {
		if _, err := LoadCSV(writeFixture(t, "bad.csv", "a,\"b\nc")); err == nil {
			t.Error("expected CSV error")
		}
	})
}

func TestLoadBeets(t *testing.T) {
	newBeets := func(t *testing.T, stmts ...string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "library.db")
		db, err := shared.NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		for _, s := range stmts {
			if _, err := db.Exec(s); err != nil {
				t.Fatalf("failed to exec %q: %v", s, err)
			}
		}
		return path
	}

	t.Run("albums table", func(t *testing.T) {
		path := newBeets(t,
			`CREATE TABLE albums (id INTEGER PRIMARY KEY, albumartist TEXT, album TEXT)`,
			`CREATE TABLE items (id INTEGER PRIMARY KEY, artist TEXT, albumartist TEXT, album TEXT)`,
			`INSERT INTO albums (albumartist, album) VALUES ('Radiohead', 'OK Computer'), ('Radiohead', 'Kid A'), ('Portishead', 'Dummy'), (NULL, 'Ghost')`,
		)
		lib, err := LoadBeets(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := albums(lib, "Radiohead"); !slices.Equal(got, []string{"OK Computer", "Kid A"}) {
			t.Errorf("unexpected albums %v", got)
		}
		if len(lib) != 2 {
			t.Errorf("expected 2 artists, got %v", lib.Artists())
		}
	})

	t.Run("falls back to items", func(t *testing.T) {
		path := newBeets(t,
			`CREATE TABLE albums (id INTEGER PRIMARY KEY, albumartist TEXT, album TEXT)`,
			`CREATE TABLE items (id INTEGER PRIMARY KEY, artist TEXT, albumartist TEXT, album TEXT)`,
			`INSERT INTO items (artist, albumartist, album) VALUES ('', 'Massive Attack', 'Mezzanine'), ('Tricky', 'Massive Attack', 'Blue Lines')`,
		)
		lib, err := LoadBeets(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := albums(lib, "Massive Attack"); !slices.Equal(got, []string{"Mezzanine"}) {
			t.Errorf("unexpected albums %v", got)
		}
		if got := albums(lib, "Tricky"); !slices.Equal(got, []string{"Blue Lines"}) {
			t.Errorf("unexpected albums %v", got)
		}
	})

	t.Run("not a beets database", func(t *testing.T) {
		path := newBeets(t, `CREATE TABLE other (id INTEGER)`)
		if _, err := LoadBeets(path); err == nil {
			t.Error("expected error for missing tables")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadBeets(filepath.Join(t.TempDir(), "none.db")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func writeMP3(t *testing.T, path, artist, band, album string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	tu.MustWriteFile(t, path, []byte{})

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if artist != "" {
		tag.SetArtist(artist)
	}
	if band != "" {
		tag.AddTextFrame(albumArtistFrame, id3v2.EncodingUTF8, band)
	}
	tag.SetAlbum(album)
	if err := tag.Save(); err != nil {
		t.Fatalf("failed to save tag: %v", err)
	}
}

func TestLoadTags(t *testing.T) {
	root := t.TempDir()
	writeMP3(t, filepath.Join(root, "Radiohead", "Kid A", "01.mp3"), "Radiohead", "", "Kid A")
	writeMP3(t, filepath.Join(root, "Radiohead", "Kid A", "02.MP3"), "Radiohead", "", "Kid A")
	writeMP3(t, filepath.Join(root, "Various", "Mix", "01.mp3"), "", "Portishead", "Dummy")
	tu.MustWriteFile(t, filepath.Join(root, "cover.jpg"), []byte("not audio"))

	lib, err := LoadTags(root, shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := albums(lib, "Radiohead"); !slices.Equal(got, []string{"Kid A"}) {
		t.Errorf("unexpected albums %v", got)
	}
	if got := albums(lib, "Portishead"); !slices.Equal(got, []string{"Dummy"}) {
		t.Errorf("expected album artist fallback, got %v", got)
	}
}

func TestLoad(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("dispatches by extension", func(t *testing.T) {
		lib, err := Load(writeFixture(t, "lib.xml", itunesFixture), logger)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if lib.AlbumCount() != 3 {
			t.Errorf("expected 3 albums, got %d", lib.AlbumCount())
		}
	})

	t.Run("empty library", func(t *testing.T) {
		_, err := Load(writeFixture(t, "empty.csv", "artist,album\n"), logger)
		if !errors.Is(err, shared.ErrEmptyLibrary) {
			t.Errorf("expected ErrEmptyLibrary, got %v", err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Load(writeFixture(t, "lib.m3u", "#EXTM3U"), logger)
		if !errors.Is(err, shared.ErrUnsupportedLibrary) {
			t.Errorf("expected ErrUnsupportedLibrary, got %v", err)
		}
	})
}

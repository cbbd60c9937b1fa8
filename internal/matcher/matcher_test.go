package matcher

import (
	"slices"
	"testing"

	"github.com/desertthunder/albumdiff/internal/models"
)

func TestNormalizeKey(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "punctuation and qualifier", in: "Sgt. Pepper's Lonely Hearts Club Band (Remastered)", want: "sgt peppers lonely hearts club band"},
		{name: "diacritics", in: "Sigur Rós & Jónsi", want: "sigur ros and jonsi"},
		{name: "single tag", in: "Help! - Single", want: "help"},
		{name: "ep tag", in: "Airbag / How Am I Driving? - EP", want: "airbag how am i driving"},
		{name: "stacked qualifiers", in: "Album [Deluxe] (Live)", want: "album"},
		{name: "only qualifier", in: "(Untitled)", want: "untitled"},
		{name: "full width", in: "ＯＫ Ｃｏｍｐｕｔｅｒ", want: "ok computer"},
		{name: "curly apostrophe", in: "Don’t Stop", want: "dont stop"},
		{name: "whitespace", in: "  Kid   A  ", want: "kid a"},
		{name: "only punctuation", in: "!!!", want: "!!!"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeKey(tt.in); got != tt.want {
				t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIndexBest(t *testing.T) {
	idx := NewIndex(models.NewAlbumSet(
		"Abbey Road",
		"Let It Be",
		"Let It Be... Naked",
		"Sgt. Pepper's Lonely Hearts Club Band",
		"Magical Mystery Tour",
	))

	tc := []struct {
		owned string
		want  string
	}{
		{owned: "abbey road", want: "Abbey Road"},
		{owned: "Abbey Road (2019 Mix)", want: "Abbey Road"},
		{owned: "Let It Be", want: "Let It Be"},
		{owned: "Let it be - naked", want: "Let It Be... Naked"},
		{owned: "Sgt Peppers", want: "Sgt. Pepper's Lonely Hearts Club Band"},
		{owned: "MAGICAL MYSTERY TOUR [Remastered]", want: "Magical Mystery Tour"},
		{owned: "Mystery Tour", want: "Magical Mystery Tour"},
	}

	for _, tt := range tc {
		t.Run(tt.owned, func(t *testing.T) {
			got, ok := idx.Best(tt.owned)
			if !ok {
				t.Fatal("expected a candidate")
			}
			if got != tt.want {
				t.Errorf("Best(%q) = %q, want %q", tt.owned, got, tt.want)
			}
		})
	}

	t.Run("no threshold", func(t *testing.T) {
		if _, ok := idx.Best("Completely Unrelated Title"); !ok {
			t.Error("expected some candidate even for an unrelated name")
		}
	})

	t.Run("ties go to smallest name", func(t *testing.T) {
		tied := NewIndex(models.NewAlbumSet("B", "A", "C"))
		for range 5 {
			if got, _ := tied.Best("zzz"); got != "A" {
				t.Fatalf("expected A, got %s", got)
			}
		}
	})

	t.Run("empty index", func(t *testing.T) {
		empty := NewIndex(models.AlbumSet{})
		if _, ok := empty.Best("anything"); ok {
			t.Error("expected no candidate from an empty index")
		}
		if empty.Len() != 0 {
			t.Errorf("expected empty index, got %d", empty.Len())
		}
	})
}

func TestComputeMissing(t *testing.T) {
	beatles := models.NewAlbumSet("Abbey Road", "Let It Be", "Revolver")

	t.Run("suffix and case insensitive", func(t *testing.T) {
		owned := models.NewAlbumSet("Abbey Road (Remastered)", "revolver")
		got := ComputeMissing(beatles, owned)
		if want := []string{"Let It Be"}; !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("empty owned returns canonical", func(t *testing.T) {
		got := ComputeMissing(beatles, models.AlbumSet{})
		if !slices.Equal(got, beatles.Names()) {
			t.Errorf("expected %v, got %v", beatles.Names(), got)
		}
	})

	t.Run("empty canonical returns empty", func(t *testing.T) {
		got := ComputeMissing(models.AlbumSet{}, models.NewAlbumSet("Anything"))
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("owning everything", func(t *testing.T) {
		owned := models.NewAlbumSet("ABBEY ROAD", "Let It Be (Remastered)", "Revolver [Mono]")
		if got := ComputeMissing(beatles, owned); len(got) != 0 {
			t.Errorf("expected nothing missing, got %v", got)
		}
	})

	t.Run("canonical order preserved", func(t *testing.T) {
		canonical := models.NewAlbumSet("Z", "Kid A", "M", "A")
		got := ComputeMissing(canonical, models.NewAlbumSet("Kid A"))
		if want := []string{"Z", "M", "A"}; !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("owned set is not modified", func(t *testing.T) {
		owned := models.NewAlbumSet("revolver", "help")
		before := owned.Names()
		ComputeMissing(beatles, owned)
		if !slices.Equal(before, owned.Names()) {
			t.Error("owned set changed")
		}
	})

	t.Run("result is a subset of canonical", func(t *testing.T) {
		cases := []struct {
			canonical models.AlbumSet
			owned     models.AlbumSet
		}{
			{canonical: beatles, owned: models.NewAlbumSet("Rubber Soul", "Help!", "Abbey")},
			{canonical: models.NewAlbumSet("Kid A", "Amnesiac", "OK Computer"), owned: models.NewAlbumSet("Pablo Honey")},
			{canonical: models.NewAlbumSet("Homogenic", "Post", "Debut"), owned: models.NewAlbumSet("Post", "Vespertine", "Medúlla")},
			{canonical: models.NewAlbumSet("!!!"), owned: models.NewAlbumSet("???")},
		}

		for _, c := range cases {
			for _, m := range ComputeMissing(c.canonical, c.owned) {
				if !c.canonical.Contains(m) {
					t.Errorf("%q is not a canonical name", m)
				}
			}
		}
	})
}

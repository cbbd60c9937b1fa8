// package services defines interface Catalog for looking up canonical discographies over HTTP
//
// iTunes Search API
package services

import (
	"context"

	"github.com/desertthunder/albumdiff/internal/models"
)

// Catalog defines the lookups the reconciliation engine needs from a remote music catalog.
//
// A Catalog is owned by a single worker for its lifetime and is not shared.
type Catalog interface {
	// ResolveArtistID searches for an artist and returns the identifier of the first result.
	// Returns [shared.ErrArtistNotFound] if the search yields nothing.
	ResolveArtistID(ctx context.Context, name string) (int64, error)

	// FetchCanonicalAlbums lists the artist's albums as normalized, de-duplicated names.
	// Returns [shared.ErrArtistNotFound] if the artist has no collection releases.
	FetchCanonicalAlbums(ctx context.Context, artistID int64) (models.AlbumSet, error)

	// FetchLatestAlbumName returns the name of the collection with the latest release date.
	FetchLatestAlbumName(ctx context.Context, artistID int64) (string, error)

	// Close releases the connections held by the client.
	Close() error
}

// CatalogFactory builds a fresh [Catalog] for the worker with the given id.
type CatalogFactory func(worker int) (Catalog, error)

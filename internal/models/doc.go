// Package models defines the domain entities shared by the library loaders, the catalog client and the reconciliation engine.
//
// Input side:
//   - [Library] : artist name to owned albums, produced by a library loader
//   - [AlbumSet] : ordered, duplicate-free album names
//   - [Job] : one artist and the albums owned for it
//
// Catalog side:
//   - [CatalogEntry] : a release returned by the catalog album lookup
//
// Output side:
//   - [MissingReport] : canonical albums the library lacks for an artist
//   - [LatestReport] : most recent album of an artist
package models

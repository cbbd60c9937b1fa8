// Package services defines the [Catalog] interface used by reconciliation workers and implements it for the iTunes Search API.
//
// # Catalog Interface
//
// A worker resolves an artist name to an id, then lists that artist's albums.
// Each worker builds its own client through a [CatalogFactory] and closes it when it stops, so no HTTP state is shared.
//
// # iTunes Implementation
//
// [CatalogService] issues two requests per artist:
//   - GET /search?entity=musicArtist&attribute=allArtistTerm&term=...&limit=5 : the first result's artistId wins
//   - GET /lookup?id=...&entity=album : only wrapperType "collection" entries are albums
//
// Requests are rate limited per client and retried with exponential backoff when the failure is transient.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrArtistNotFound] : empty search results, or no collection releases
//   - [shared.ErrTransient] : network failure, HTTP 429 or 5xx (retried)
//   - [shared.ErrAPIRequest] : any other non-2xx status
//   - [shared.ErrMalformedResponse] : body that does not decode into the expected shape
//
// # Raw Requests
//
// [APIService] returns unparsed responses for the "api get" command.
package services

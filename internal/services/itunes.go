// iTunes Search API [Catalog] implementation
//
// Two read-only endpoints are used: /search to resolve an artist id and /lookup to list the artist's albums.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/shared"
)

const (
	defaultCatalogBaseURL = "https://itunes.apple.com"
	defaultSearchLimit    = 5
	defaultRetryDelay     = 500 * time.Millisecond
	defaultUserAgent      = "albumdiff/0.1"
)

// CatalogOpts configures a [CatalogService].
type CatalogOpts struct {
	BaseURL           string
	Country           string
	SearchLimit       int
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables limiting
	MaxRetries        int
	RetryBaseDelay    time.Duration
	UserAgent         string
	HTTPClient        *http.Client // overrides Timeout when set
	Logger            *log.Logger
}

// CatalogOptsFromConfig maps the [catalog] config section onto [CatalogOpts].
func CatalogOptsFromConfig(c shared.CatalogConfig) CatalogOpts {
	return CatalogOpts{
		BaseURL:           c.BaseURL,
		Country:           c.Country,
		SearchLimit:       c.SearchLimit,
		Timeout:           c.Timeout(),
		RequestsPerSecond: c.RequestsPerSecond,
		MaxRetries:        c.MaxRetries,
		UserAgent:         c.UserAgent,
	}
}

// CatalogService implements [Catalog] against the iTunes Search API.
type CatalogService struct {
	baseURL     string
	country     string
	searchLimit int
	maxRetries  int
	retryDelay  time.Duration
	userAgent   string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *log.Logger
}

// NewCatalogService creates a catalog client with its own connection pool.
func NewCatalogService(opts CatalogOpts) *CatalogService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultCatalogBaseURL
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = defaultSearchLimit
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = defaultRetryDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
		if t, ok := http.DefaultTransport.(*http.Transport); ok {
			client.Transport = t.Clone()
		}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &CatalogService{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		country:     opts.Country,
		searchLimit: opts.SearchLimit,
		maxRetries:  opts.MaxRetries,
		retryDelay:  opts.RetryBaseDelay,
		userAgent:   opts.UserAgent,
		httpClient:  client,
		limiter:     rate.NewLimiter(limit, 1),
		logger:      opts.Logger,
	}
}

// NewCatalogFactory returns a [CatalogFactory] whose clients split the request rate evenly across workers.
func NewCatalogFactory(opts CatalogOpts, workers int) CatalogFactory {
	if workers > 0 && opts.RequestsPerSecond > 0 {
		opts.RequestsPerSecond /= float64(workers)
	}
	base := opts.Logger
	return func(worker int) (Catalog, error) {
		o := opts
		if base != nil {
			o.Logger = shared.WithLogger(base, "worker", worker)
		}
		return NewCatalogService(o), nil
	}
}

// Close releases idle keep-alive connections.
func (c *CatalogService) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

type artistResult struct {
	WrapperType string `json:"wrapperType"`
	ArtistName  string `json:"artistName"`
	ArtistID    int64  `json:"artistId"`
}

type lookupResult struct {
	WrapperType    string `json:"wrapperType"`
	CollectionType string `json:"collectionType"`
	CollectionID   int64  `json:"collectionId"`
	CollectionName string `json:"collectionName"`
	ArtistName     string `json:"artistName"`
	TrackCount     int    `json:"trackCount"`
	ReleaseDate    string `json:"releaseDate"`
}

// results is the iTunes response envelope. A missing "results" key leaves Results nil.
type results[T any] struct {
	ResultCount int  `json:"resultCount"`
	Results     *[]T `json:"results"`
}

// ResolveArtistID returns the artistId of the first search result.
//
// Calls GET /search?entity=musicArtist&attribute=allArtistTerm&term=<name>&limit=<n>.
func (c *CatalogService) ResolveArtistID(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: empty artist name", shared.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("entity", "musicArtist")
	params.Set("attribute", "allArtistTerm")
	params.Set("term", name)
	params.Set("limit", strconv.Itoa(c.searchLimit))
	if c.country != "" {
		params.Set("country", c.country)
	}

	var resp results[artistResult]
	if err := c.doRequest(ctx, "/search", params, &resp); err != nil {
		return 0, err
	}
	if resp.Results == nil {
		return 0, fmt.Errorf("%w: search response has no results field", shared.ErrMalformedResponse)
	}
	if len(*resp.Results) == 0 {
		return 0, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, name)
	}

	first := (*resp.Results)[0]
	if first.ArtistID == 0 {
		return 0, fmt.Errorf("%w: first search result has no artistId", shared.ErrMalformedResponse)
	}
	return first.ArtistID, nil
}

// FetchAlbums lists the collection releases of an artist in response order.
//
// Calls GET /lookup?id=<id>&entity=album.
func (c *CatalogService) FetchAlbums(ctx context.Context, artistID int64) ([]models.CatalogEntry, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(artistID, 10))
	params.Set("entity", "album")
	if c.country != "" {
		params.Set("country", c.country)
	}

	var resp results[lookupResult]
	if err := c.doRequest(ctx, "/lookup", params, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: lookup response has no results field", shared.ErrMalformedResponse)
	}

	entries := make([]models.CatalogEntry, 0, len(*resp.Results))
	for _, r := range *resp.Results {
		if r.WrapperType != models.WrapperCollection {
			continue
		}
		entry, err := r.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: artist id %d has no albums", shared.ErrArtistNotFound, artistID)
	}
	return entries, nil
}

func (r lookupResult) toEntry() (models.CatalogEntry, error) {
	if strings.TrimSpace(r.CollectionName) == "" {
		return models.CatalogEntry{}, fmt.Errorf("%w: collection %d has no name", shared.ErrMalformedResponse, r.CollectionID)
	}

	entry := models.CatalogEntry{
		WrapperType:    r.WrapperType,
		CollectionType: r.CollectionType,
		CollectionID:   r.CollectionID,
		CollectionName: r.CollectionName,
		ArtistName:     r.ArtistName,
		TrackCount:     r.TrackCount,
	}
	if r.ReleaseDate != "" {
		released, err := time.Parse(time.RFC3339, r.ReleaseDate)
		if err != nil {
			return models.CatalogEntry{}, fmt.Errorf("%w: releaseDate %q: %w", shared.ErrMalformedResponse, r.ReleaseDate, err)
		}
		entry.ReleaseDate = released
	}
	return entry, nil
}

// FetchCanonicalAlbums returns the artist's album names with trailing qualifiers stripped, first occurrence wins.
func (c *CatalogService) FetchCanonicalAlbums(ctx context.Context, artistID int64) (models.AlbumSet, error) {
	entries, err := c.FetchAlbums(ctx, artistID)
	if err != nil {
		return models.AlbumSet{}, err
	}

	var set models.AlbumSet
	for _, e := range entries {
		set.Add(shared.NormalizeAlbumName(e.CollectionName))
	}
	return set, nil
}

// FetchLatestAlbumName returns the collection name with the latest release date.
// Ties go to the lexicographically smallest name.
func (c *CatalogService) FetchLatestAlbumName(ctx context.Context, artistID int64) (string, error) {
	entries, err := c.FetchAlbums(ctx, artistID)
	if err != nil {
		return "", err
	}
	return LatestEntry(entries).CollectionName, nil
}

// LatestEntry picks the entry with the maximum release date from a non-empty slice.
func LatestEntry(entries []models.CatalogEntry) models.CatalogEntry {
	latest := entries[0]
	for _, e := range entries[1:] {
		switch {
		case e.ReleaseDate.After(latest.ReleaseDate):
			latest = e
		case e.ReleaseDate.Equal(latest.ReleaseDate) && e.CollectionName < latest.CollectionName:
			latest = e
		}
	}
	return latest
}

// doRequest performs a GET and decodes the JSON body into result, retrying transient failures.
func (c *CatalogService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	for attempt := 0; ; attempt++ {
		err := c.do(ctx, endpoint, params, result)
		if err == nil || !errors.Is(err, shared.ErrTransient) || attempt >= c.maxRetries {
			return err
		}

		c.logger.Debug("retrying catalog request", "endpoint", endpoint, "attempt", attempt+1, "error", err)
		if err := c.waitForRetry(ctx, attempt); err != nil {
			return err
		}
	}
}

func (c *CatalogService) waitForRetry(ctx context.Context, attempt int) error {
	delay := time.Duration(float64(c.retryDelay) * math.Pow(2, float64(attempt)))
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *CatalogService) do(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	apiURL := c.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request failed: %w", ctx.Err())
		}
		return fmt.Errorf("%w: request failed: %w", shared.ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: catalog returned status %d", shared.ErrTransient, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: catalog returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrMalformedResponse, err)
	}
	return nil
}

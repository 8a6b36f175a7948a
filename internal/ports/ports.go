package ports

import (
	"context"

	"github.com/mikey-austin/media_federation/pkg/mf"
)

// DetailsFetcher fetches cross-server detail records.
type DetailsFetcher interface {
	Media(ctx context.Context, guid string) (mf.MediaDetails, error)
}

// AssetFetcher performs an authenticated byte fetch for one asset on one server.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, serverID string, assetPath string) ([]byte, error)
}

// Backend is the federation REST surface.
type Backend interface {
	DetailsFetcher
	AssetFetcher
	Search(ctx context.Context, query string) ([]mf.SearchHit, error)
	Servers(ctx context.Context) ([]mf.Server, error)
	Libraries(ctx context.Context, serverID string) ([]mf.Library, error)
	LibraryItems(ctx context.Context, serverID string, libraryKey string) ([]mf.LibraryItem, error)
	Seasons(ctx context.Context, serverID string, showID string) ([]mf.SeasonSummary, error)
	Episodes(ctx context.Context, serverID string, seasonID string) ([]mf.EpisodeDetails, error)
}

// Clock returns the current unix time in seconds.
type Clock interface {
	NowUnix() int64
}

// IDGen returns unique identifiers.
type IDGen interface {
	NewID() string
}

// SearchStore persists the last search for the current session.
type SearchStore interface {
	Load() (mf.SavedSearch, bool, error)
	Save(search mf.SavedSearch) error
}

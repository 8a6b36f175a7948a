package core

import "github.com/mikey-austin/media_federation/pkg/mf"

// ServersResult holds the known servers.
type ServersResult struct {
	Servers []mf.Server `json:"servers"`
}

// LibrariesResult holds the libraries of one server.
type LibrariesResult struct {
	Server    mf.Server    `json:"server"`
	Libraries []mf.Library `json:"libraries"`
}

// GroupedResults holds a displayed list of grouped results.
// Versions is keyed by guid and only set when enrichment was requested.
type GroupedResults struct {
	Title    string                       `json:"title"`
	Query    string                       `json:"query,omitempty"`
	Results  []mf.GroupedResult           `json:"results"`
	Versions map[string][]mf.MediaVersion `json:"versions,omitempty"`
	Library  bool                         `json:"library,omitempty"`
}

// DetailsResult holds a detail record.
type DetailsResult struct {
	Details mf.MediaDetails `json:"details"`
}

// SeasonsResult holds the seasons of a show.
type SeasonsResult struct {
	Server  mf.Server          `json:"server"`
	ShowID  string             `json:"showId"`
	Seasons []mf.SeasonSummary `json:"seasons"`
}

// EpisodesResult holds the episodes of a season.
type EpisodesResult struct {
	Server   mf.Server           `json:"server"`
	SeasonID string              `json:"seasonId"`
	Episodes []mf.EpisodeDetails `json:"episodes"`
}

// View selects how a list is displayed.
type View struct {
	Filter   mf.Filter
	Sort     mf.Sort
	Versions bool
}

package mf

// ItemType identifies the kind of a title.
type ItemType string

const (
	ItemMovie ItemType = "movie"
	ItemShow  ItemType = "show"
)

// Server is a backing media server as reported by /api/servers.
type Server struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsOnline bool   `json:"isOnline"`
}

// Ref returns the server's identity without its status.
func (s Server) Ref() ServerRef {
	return ServerRef{ID: s.ID, Name: s.Name}
}

// Library is one library on a server.
type Library struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// SearchHit is a single per-server search record from /api/search.
type SearchHit struct {
	GUID       string   `json:"guid"`
	Title      string   `json:"title"`
	Year       *int     `json:"year,omitempty"`
	ThumbPath  string   `json:"thumbPath,omitempty"`
	ServerID   string   `json:"serverId"`
	ServerName string   `json:"serverName"`
	ItemType   ItemType `json:"itemType"`
}

// LibraryItem is one entry of a flat library listing.
type LibraryItem struct {
	GUID     string   `json:"guid"`
	Title    string   `json:"title"`
	Year     *int     `json:"year,omitempty"`
	Thumb    string   `json:"thumb,omitempty"`
	ItemType ItemType `json:"itemType"`
}

// MediaVersion is one encoded rendition of a title on one server.
type MediaVersion struct {
	VideoResolution string   `json:"videoResolution"`
	Subtitles       []string `json:"subtitles"`
}

// ServerAvailability is a title's presence on one server.
type ServerAvailability struct {
	ServerID   string         `json:"serverId"`
	ServerName string         `json:"serverName"`
	RatingKey  string         `json:"ratingKey"`
	Versions   []MediaVersion `json:"versions"`
}

// MediaDetails is the cross-server detail record served by /api/media/{guid}.
type MediaDetails struct {
	GUID        string               `json:"guid"`
	Title       string               `json:"title"`
	Summary     string               `json:"summary,omitempty"`
	Year        *int                 `json:"year,omitempty"`
	ArtPath     string               `json:"artPath,omitempty"`
	ThumbPath   string               `json:"thumbPath,omitempty"`
	ItemType    ItemType             `json:"itemType"`
	AvailableOn []ServerAvailability `json:"availableOn"`
}

// Availability returns the entry for serverID, if any.
func (d MediaDetails) Availability(serverID string) (ServerAvailability, bool) {
	for _, avail := range d.AvailableOn {
		if avail.ServerID == serverID {
			return avail, true
		}
	}
	return ServerAvailability{}, false
}

// SeasonSummary describes one season of a show.
type SeasonSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Summary      string `json:"summary,omitempty"`
	ThumbPath    string `json:"thumbPath,omitempty"`
	EpisodeCount int    `json:"episodeCount"`
}

// EpisodeDetails describes one episode with its versions.
type EpisodeDetails struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary,omitempty"`
	ThumbPath string         `json:"thumbPath,omitempty"`
	Versions  []MediaVersion `json:"versions"`
}

package core

import (
	"strings"

	"github.com/mikey-austin/media_federation/pkg/mf"
)

// Aggregate groups per-server hits into one result per guid.
//
// Output order is the first-seen order of distinct guids. Hits without a guid
// are skipped. Title, year, thumbnail and item type come from the first hit
// for a guid; later hits only add their server, at most once per server id.
func Aggregate(hits []mf.SearchHit) []mf.GroupedResult {
	out := make([]mf.GroupedResult, 0, len(hits))
	index := make(map[string]int, len(hits))

	for _, hit := range hits {
		if strings.TrimSpace(hit.GUID) == "" {
			continue
		}
		server := mf.ServerRef{ID: hit.ServerID, Name: hit.ServerName}

		pos, ok := index[hit.GUID]
		if !ok {
			index[hit.GUID] = len(out)
			out = append(out, mf.GroupedResult{
				GUID:      hit.GUID,
				Title:     hit.Title,
				Year:      cloneYear(hit.Year),
				ThumbPath: hit.ThumbPath,
				ItemType:  hit.ItemType,
				Servers:   []mf.ServerRef{server},
			})
			continue
		}
		if !hasServer(out[pos].Servers, server.ID) {
			out[pos].Servers = append(out[pos].Servers, server)
		}
	}
	return out
}

// FromLibrary groups a single-server library listing.
func FromLibrary(server mf.ServerRef, items []mf.LibraryItem) []mf.GroupedResult {
	hits := make([]mf.SearchHit, 0, len(items))
	for _, item := range items {
		hits = append(hits, mf.SearchHit{
			GUID:       item.GUID,
			Title:      item.Title,
			Year:       item.Year,
			ThumbPath:  item.Thumb,
			ServerID:   server.ID,
			ServerName: server.Name,
			ItemType:   item.ItemType,
		})
	}
	return Aggregate(hits)
}

func hasServer(servers []mf.ServerRef, id string) bool {
	for _, s := range servers {
		if s.ID == id {
			return true
		}
	}
	return false
}

func cloneYear(year *int) *int {
	if year == nil {
		return nil
	}
	y := *year
	return &y
}

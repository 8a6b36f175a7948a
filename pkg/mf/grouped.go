package mf

import (
	"fmt"
	"strings"
)

// ServerRef identifies one backing server.
type ServerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupedResult is the deduplicated, multi-server view of one title.
type GroupedResult struct {
	GUID      string      `json:"guid"`
	Title     string      `json:"title"`
	Year      *int        `json:"year,omitempty"`
	ThumbPath string      `json:"thumbPath,omitempty"`
	ItemType  ItemType    `json:"itemType"`
	Servers   []ServerRef `json:"servers"`
}

// SingleServer reports whether the title is hosted on exactly one server.
func (g GroupedResult) SingleServer() bool {
	return len(g.Servers) == 1
}

// YearOrZero returns the year, treating a missing year as 0.
func (g GroupedResult) YearOrZero() int {
	if g.Year == nil {
		return 0
	}
	return *g.Year
}

// Filter selects grouped results by item type.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterMovie Filter = "movie"
	FilterShow  Filter = "show"
)

// Sort selects a display ordering.
type Sort string

const (
	SortDefault   Sort = "default"
	SortTitleAsc  Sort = "title-asc"
	SortTitleDesc Sort = "title-desc"
	SortYearDesc  Sort = "year-desc"
	SortYearAsc   Sort = "year-asc"
)

// ParseFilter validates a filter name. Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterMovie, FilterShow:
		return f, nil
	default:
		return "", fmt.Errorf("filter must be all|movie|show")
	}
}

// ParseSort validates a sort name. Empty means default.
func ParseSort(s string) (Sort, error) {
	switch o := Sort(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortDefault, nil
	case SortDefault, SortTitleAsc, SortTitleDesc, SortYearDesc, SortYearAsc:
		return o, nil
	default:
		return "", fmt.Errorf("sort must be default|title-asc|title-desc|year-desc|year-asc")
	}
}

// SavedSearch is the last search query and its grouped results.
type SavedSearch struct {
	Query   string          `json:"query"`
	Results []GroupedResult `json:"results"`
	SavedAt int64           `json:"savedAt"`
}

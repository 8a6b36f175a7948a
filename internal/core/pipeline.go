package core

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mikey-austin/media_federation/pkg/mf"
)

// DefaultLocale orders titles when no locale is configured.
const DefaultLocale = "en"

// Pipeline filters and orders grouped results for display.
type Pipeline struct {
	tag language.Tag
}

// NewPipeline creates a pipeline ordering titles for locale (a BCP 47 tag).
// Unknown tags fall back to DefaultLocale.
func NewPipeline(locale string) Pipeline {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.MustParse(DefaultLocale)
	}
	return Pipeline{tag: tag}
}

// Apply returns a new filtered, stably sorted slice. Input is never mutated.
func (p Pipeline) Apply(entities []mf.GroupedResult, filter mf.Filter, order mf.Sort) []mf.GroupedResult {
	out := make([]mf.GroupedResult, 0, len(entities))
	for _, e := range entities {
		if filter != mf.FilterAll && filter != "" && e.ItemType != mf.ItemType(filter) {
			continue
		}
		e.Servers = slices.Clone(e.Servers)
		e.Year = cloneYear(e.Year)
		out = append(out, e)
	}

	switch order {
	case mf.SortTitleAsc, mf.SortTitleDesc:
		// A Collator is not safe for concurrent use.
		coll := collate.New(p.tag)
		slices.SortStableFunc(out, func(a, b mf.GroupedResult) int {
			if order == mf.SortTitleDesc {
				return coll.CompareString(b.Title, a.Title)
			}
			return coll.CompareString(a.Title, b.Title)
		})
	case mf.SortYearDesc:
		slices.SortStableFunc(out, func(a, b mf.GroupedResult) int {
			return cmp.Compare(b.YearOrZero(), a.YearOrZero())
		})
	case mf.SortYearAsc:
		slices.SortStableFunc(out, func(a, b mf.GroupedResult) int {
			return cmp.Compare(a.YearOrZero(), b.YearOrZero())
		})
	}
	return out
}

// Apply runs the default-locale pipeline.
func Apply(entities []mf.GroupedResult, filter mf.Filter, order mf.Sort) []mf.GroupedResult {
	return NewPipeline(DefaultLocale).Apply(entities, filter, order)
}

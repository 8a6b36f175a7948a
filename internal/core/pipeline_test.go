package core

import (
	"testing"

	"github.com/mikey-austin/media_federation/pkg/mf"
)

func entities() []mf.GroupedResult {
	return []mf.GroupedResult{
		{GUID: "a", Title: "banana", Year: year(2001), ItemType: mf.ItemMovie, Servers: []mf.ServerRef{{ID: "s1"}}},
		{GUID: "b", Title: "Apple", ItemType: mf.ItemShow, Servers: []mf.ServerRef{{ID: "s1"}}},
		{GUID: "c", Title: "cherry", Year: year(2001), ItemType: mf.ItemMovie, Servers: []mf.ServerRef{{ID: "s2"}}},
		{GUID: "d", Title: "Éclair", Year: year(1990), ItemType: mf.ItemShow, Servers: []mf.ServerRef{{ID: "s2"}}},
		{GUID: "e", Title: "apple", ItemType: mf.ItemMovie, Servers: []mf.ServerRef{{ID: "s3"}}},
		{GUID: "f", Title: "date", Year: year(2010), ItemType: mf.ItemMovie, Servers: []mf.ServerRef{{ID: "s3"}}},
	}
}

func guids(results []mf.GroupedResult) string {
	out := ""
	for _, r := range results {
		out += r.GUID
	}
	return out
}

func TestApplyFilterKeepsOrder(t *testing.T) {
	if got := guids(Apply(entities(), mf.FilterMovie, mf.SortDefault)); got != "acef" {
		t.Fatalf("movie filter: got %s", got)
	}
	if got := guids(Apply(entities(), mf.FilterShow, mf.SortDefault)); got != "bd" {
		t.Fatalf("show filter: got %s", got)
	}
	if got := guids(Apply(entities(), mf.FilterAll, mf.SortDefault)); got != "abcdef" {
		t.Fatalf("all filter: got %s", got)
	}
}

func TestApplyYearSortsAreStable(t *testing.T) {
	// Missing years count as 0; ties keep input order.
	if got := guids(Apply(entities(), mf.FilterAll, mf.SortYearDesc)); got != "facdbe" {
		t.Fatalf("year-desc: got %s", got)
	}
	if got := guids(Apply(entities(), mf.FilterAll, mf.SortYearAsc)); got != "bedacf" {
		t.Fatalf("year-asc: got %s", got)
	}
}

func TestApplyTitleSortIsLocaleAware(t *testing.T) {
	// Case and accents do not push titles out of alphabetical position.
	got := guids(Apply(entities(), mf.FilterAll, mf.SortTitleAsc))
	if got[0] != 'b' && got[0] != 'e' {
		t.Fatalf("title-asc should start with an apple, got %s", got)
	}
	if got[2:] != "acfd" {
		t.Fatalf("title-asc: got %s", got)
	}
	desc := guids(Apply(entities(), mf.FilterAll, mf.SortTitleDesc))
	if desc[:4] != "dfca" {
		t.Fatalf("title-desc: got %s", desc)
	}
}

func TestApplyTitleTiesKeepInputOrder(t *testing.T) {
	in := []mf.GroupedResult{
		{GUID: "1", Title: "Same"},
		{GUID: "2", Title: "Same"},
		{GUID: "3", Title: "Same"},
	}
	if got := guids(Apply(in, mf.FilterAll, mf.SortTitleAsc)); got != "123" {
		t.Fatalf("title-asc ties: got %s", got)
	}
	if got := guids(Apply(in, mf.FilterAll, mf.SortTitleDesc)); got != "123" {
		t.Fatalf("title-desc ties: got %s", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := entities()
	out := Apply(in, mf.FilterAll, mf.SortTitleDesc)
	if guids(in) != "abcdef" {
		t.Fatalf("input reordered: %s", guids(in))
	}
	out[0].Servers[0].ID = "changed"
	*out[0].Year = 1
	for _, e := range in {
		if e.Servers[0].ID == "changed" {
			t.Fatalf("output aliases input servers")
		}
		if e.Year != nil && *e.Year == 1 {
			t.Fatalf("output aliases input year")
		}
	}
}

func TestNewPipelineFallsBackOnBadLocale(t *testing.T) {
	p := NewPipeline("not a locale!")
	if got := guids(p.Apply(entities(), mf.FilterMovie, mf.SortYearAsc)); got != "eacf" {
		t.Fatalf("got %s", got)
	}
}

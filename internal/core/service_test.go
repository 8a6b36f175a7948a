package core

import (
	"context"
	"errors"
	"testing"

	"github.com/mikey-austin/media_federation/internal/adapters/api"
	"github.com/mikey-austin/media_federation/pkg/mf"
)

type stubClock struct{}

func (stubClock) NowUnix() int64 { return 100 }

type memorySearchStore struct {
	saved *mf.SavedSearch
	err   error
}

func (m *memorySearchStore) Load() (mf.SavedSearch, bool, error) {
	if m.saved == nil {
		return mf.SavedSearch{}, false, m.err
	}
	return *m.saved, true, nil
}

func (m *memorySearchStore) Save(search mf.SavedSearch) error {
	if m.err != nil {
		return m.err
	}
	m.saved = &search
	return nil
}

type stubBackend struct {
	servers   []mf.Server
	hits      []mf.SearchHit
	libraries []mf.Library
	items     []mf.LibraryItem
	details   mf.MediaDetails
	seasons   []mf.SeasonSummary
	episodes  []mf.EpisodeDetails
	err       error
	lastQuery string
	lastArgs  []string
	searches  int
}

func (s *stubBackend) Servers(ctx context.Context) ([]mf.Server, error) {
	return s.servers, nil
}

func (s *stubBackend) Search(ctx context.Context, query string) ([]mf.SearchHit, error) {
	s.searches++
	s.lastQuery = query
	return s.hits, s.err
}

func (s *stubBackend) Media(ctx context.Context, guid string) (mf.MediaDetails, error) {
	s.lastArgs = []string{guid}
	return s.details, s.err
}

func (s *stubBackend) FetchAsset(ctx context.Context, serverID string, assetPath string) ([]byte, error) {
	return nil, s.err
}

func (s *stubBackend) Libraries(ctx context.Context, serverID string) ([]mf.Library, error) {
	return s.libraries, s.err
}

func (s *stubBackend) LibraryItems(ctx context.Context, serverID string, libraryKey string) ([]mf.LibraryItem, error) {
	s.lastArgs = []string{serverID, libraryKey}
	return s.items, s.err
}

func (s *stubBackend) Seasons(ctx context.Context, serverID string, showID string) ([]mf.SeasonSummary, error) {
	s.lastArgs = []string{serverID, showID}
	return s.seasons, s.err
}

func (s *stubBackend) Episodes(ctx context.Context, serverID string, seasonID string) ([]mf.EpisodeDetails, error) {
	s.lastArgs = []string{serverID, seasonID}
	return s.episodes, s.err
}

type stubVersions struct {
	seen []string
}

func (s *stubVersions) EnrichAll(ctx context.Context, results []mf.GroupedResult) map[string][]mf.MediaVersion {
	out := map[string][]mf.MediaVersion{}
	for _, r := range results {
		s.seen = append(s.seen, r.GUID)
		out[r.GUID] = []mf.MediaVersion{{VideoResolution: "1080"}}
	}
	return out
}

func newTestService(backend *stubBackend, store *memorySearchStore) Service {
	return Service{
		Backend:  backend,
		Resolver: Resolver{Servers: backend},
		Pipeline: NewPipeline("en"),
		Versions: &stubVersions{},
		Searches: store,
		Clock:    stubClock{},
	}
}

func TestSearchGroupsSortsAndSaves(t *testing.T) {
	backend := &stubBackend{hits: scenarioHits()}
	store := &memorySearchStore{}
	svc := newTestService(backend, store)

	out, err := svc.Search(context.Background(), "  matrix ", View{Sort: mf.SortTitleDesc})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if backend.lastQuery != "matrix" {
		t.Fatalf("expected trimmed query, got %q", backend.lastQuery)
	}
	if out.Query != "matrix" || len(out.Results) != 2 {
		t.Fatalf("unexpected results %+v", out)
	}
	if out.Versions != nil {
		t.Fatalf("expected no versions unless requested")
	}
	if store.saved == nil || store.saved.Query != "matrix" || store.saved.SavedAt != 100 {
		t.Fatalf("expected search saved, got %+v", store.saved)
	}
	if guids(store.saved.Results) != "g1g2" {
		t.Fatalf("expected saved results in aggregation order, got %s", guids(store.saved.Results))
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	backend := &stubBackend{}
	svc := newTestService(backend, &memorySearchStore{})
	_, err := svc.Search(context.Background(), "   ", View{})
	if ExitCode(err) != ExitUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
	if backend.searches != 0 {
		t.Fatalf("expected no backend call")
	}
}

func TestSearchFailureMapsExitCode(t *testing.T) {
	backend := &stubBackend{err: &api.StatusError{Method: "GET", Path: "/api/search", Code: 502}}
	store := &memorySearchStore{}
	svc := newTestService(backend, store)
	_, err := svc.Search(context.Background(), "x", View{})
	if ExitCode(err) != ExitHTTP {
		t.Fatalf("expected http exit code, got %v", err)
	}
	if store.saved != nil {
		t.Fatalf("failed search must not be saved")
	}
}

func TestSearchSaveFailureIsNotFatal(t *testing.T) {
	backend := &stubBackend{hits: scenarioHits()}
	svc := newTestService(backend, &memorySearchStore{err: errors.New("disk full")})
	if _, err := svc.Search(context.Background(), "x", View{}); err != nil {
		t.Fatalf("expected search to succeed, got %v", err)
	}
}

func TestLastSearchRestores(t *testing.T) {
	backend := &stubBackend{hits: scenarioHits()}
	store := &memorySearchStore{}
	svc := newTestService(backend, store)

	if _, err := svc.LastSearch(context.Background(), View{}); ExitCode(err) != ExitNotFound {
		t.Fatalf("expected not found before any search, got %v", err)
	}
	if _, err := svc.Search(context.Background(), "matrix", View{}); err != nil {
		t.Fatalf("search: %v", err)
	}
	out, err := svc.LastSearch(context.Background(), View{Filter: mf.FilterShow})
	if err != nil {
		t.Fatalf("last search: %v", err)
	}
	if out.Query != "matrix" || guids(out.Results) != "g2" {
		t.Fatalf("expected filtered restore, got %+v", out)
	}
	if backend.searches != 1 {
		t.Fatalf("restore must not search again")
	}
}

func TestSearchEnrichesWhenRequested(t *testing.T) {
	backend := &stubBackend{hits: scenarioHits()}
	svc := newTestService(backend, &memorySearchStore{})
	versions := svc.Versions.(*stubVersions)

	out, err := svc.Search(context.Background(), "matrix", View{Filter: mf.FilterMovie, Versions: true})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out.Versions) != len(out.Results) {
		t.Fatalf("expected versions for displayed results, got %v", out.Versions)
	}
	if len(versions.seen) != len(out.Results) {
		t.Fatalf("expected enrichment of displayed results only, saw %v", versions.seen)
	}
}

func TestViewDefaultsFromConfig(t *testing.T) {
	svc := Service{Config: Config{Defaults: Defaults{Sort: mf.SortYearDesc}}}
	view := svc.ResolveView(View{})
	if view.Filter != mf.FilterAll || view.Sort != mf.SortYearDesc {
		t.Fatalf("unexpected view %+v", view)
	}
	view = svc.ResolveView(View{Sort: mf.SortTitleAsc})
	if view.Sort != mf.SortTitleAsc {
		t.Fatalf("explicit sort should win, got %s", view.Sort)
	}
}

func TestBrowseUsesLibraryTitle(t *testing.T) {
	backend := &stubBackend{
		servers:   []mf.Server{{ID: "s1", Name: "Home", IsOnline: true}},
		libraries: []mf.Library{{Key: "1", Title: "Movies"}},
		items: []mf.LibraryItem{
			{GUID: "g1", Title: "B", ItemType: mf.ItemMovie},
			{GUID: "g1", Title: "B again", ItemType: mf.ItemMovie},
			{GUID: "", Title: "no guid"},
			{GUID: "g2", Title: "A", ItemType: mf.ItemMovie},
		},
	}
	svc := newTestService(backend, &memorySearchStore{})

	out, err := svc.Browse(context.Background(), "home", "1", View{Sort: mf.SortTitleAsc})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if out.Title != "Home / Movies" || !out.Library {
		t.Fatalf("unexpected header %q library=%v", out.Title, out.Library)
	}
	if guids(out.Results) != "g2g1" {
		t.Fatalf("unexpected results %s", guids(out.Results))
	}
	if out.Results[0].Servers[0].ID != "s1" {
		t.Fatalf("expected server ref on results")
	}
}

func TestBrowseRefusesOfflineServer(t *testing.T) {
	backend := &stubBackend{servers: []mf.Server{{ID: "s1", Name: "Home"}}}
	svc := newTestService(backend, &memorySearchStore{})
	if _, err := svc.Browse(context.Background(), "s1", "1", View{}); ExitCode(err) != ExitOffline {
		t.Fatalf("expected offline error, got %v", err)
	}
	if _, err := svc.Browse(context.Background(), "s1", " ", View{}); ExitCode(err) != ExitUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestDetailsNotFound(t *testing.T) {
	backend := &stubBackend{err: &api.StatusError{Method: "GET", Path: "/api/media/x", Code: 404}}
	svc := newTestService(backend, &memorySearchStore{})
	if _, err := svc.Details(context.Background(), "x"); ExitCode(err) != ExitNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Details(context.Background(), ""); ExitCode(err) != ExitUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSeasonsAndEpisodes(t *testing.T) {
	backend := &stubBackend{
		servers:  []mf.Server{{ID: "s1", Name: "Home", IsOnline: true}},
		seasons:  []mf.SeasonSummary{{ID: "10", Title: "Season 1", EpisodeCount: 8}},
		episodes: []mf.EpisodeDetails{{ID: "100", Title: "Pilot"}},
	}
	svc := newTestService(backend, &memorySearchStore{})

	seasons, err := svc.Seasons(context.Background(), "", "show-1")
	if err != nil {
		t.Fatalf("seasons: %v", err)
	}
	if seasons.Server.ID != "s1" || len(seasons.Seasons) != 1 || backend.lastArgs[1] != "show-1" {
		t.Fatalf("unexpected seasons %+v args %v", seasons, backend.lastArgs)
	}
	episodes, err := svc.Episodes(context.Background(), "s1", "10")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(episodes.Episodes) != 1 || backend.lastArgs[1] != "10" {
		t.Fatalf("unexpected episodes %+v", episodes)
	}
	if _, err := svc.Episodes(context.Background(), "s1", ""); ExitCode(err) != ExitUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestServersLists(t *testing.T) {
	backend := &stubBackend{servers: []mf.Server{{ID: "s1", Name: "Home", IsOnline: true}, {ID: "s2", Name: "Away"}}}
	svc := newTestService(backend, &memorySearchStore{})
	out, err := svc.Servers(context.Background())
	if err != nil || len(out.Servers) != 2 {
		t.Fatalf("unexpected %+v %v", out, err)
	}
}

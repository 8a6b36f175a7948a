package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey-austin/media_federation/internal/ports"
	"github.com/mikey-austin/media_federation/pkg/mf"
)

// VersionSource looks up version info for displayed results.
type VersionSource interface {
	EnrichAll(ctx context.Context, results []mf.GroupedResult) map[string][]mf.MediaVersion
}

// Service orchestrates mf CLI use cases.
type Service struct {
	Backend  ports.Backend
	Resolver Resolver
	Pipeline Pipeline
	Versions VersionSource
	Searches ports.SearchStore
	Clock    ports.Clock
	Config   Config
	Log      *zap.Logger
}

// Servers lists the federation's servers.
func (s Service) Servers(ctx context.Context) (ServersResult, error) {
	servers, err := s.Backend.Servers(ctx)
	if err != nil {
		return ServersResult{}, ErrorForFetch("list servers", err)
	}
	return ServersResult{Servers: servers}, nil
}

// Libraries lists the libraries of an online server.
func (s Service) Libraries(ctx context.Context, selector string) (LibrariesResult, error) {
	server, err := s.Resolver.ResolveOnlineServer(ctx, selector)
	if err != nil {
		return LibrariesResult{}, err
	}
	libraries, err := s.Backend.Libraries(ctx, server.ID)
	if err != nil {
		return LibrariesResult{}, ErrorForFetch("list libraries", err)
	}
	return LibrariesResult{Server: server, Libraries: libraries}, nil
}

// Browse lists one library of one server as grouped results.
func (s Service) Browse(ctx context.Context, selector string, libraryKey string, view View) (GroupedResults, error) {
	libraryKey = strings.TrimSpace(libraryKey)
	if libraryKey == "" {
		return GroupedResults{}, &CLIError{Code: ExitUsage, Msg: "library key required"}
	}
	server, err := s.Resolver.ResolveOnlineServer(ctx, selector)
	if err != nil {
		return GroupedResults{}, err
	}
	items, err := s.Backend.LibraryItems(ctx, server.ID, libraryKey)
	if err != nil {
		return GroupedResults{}, ErrorForFetch("list library items", err)
	}

	title := libraryKey
	if libraries, err := s.Backend.Libraries(ctx, server.ID); err == nil {
		for _, lib := range libraries {
			if lib.Key == libraryKey {
				title = lib.Title
				break
			}
		}
	} else {
		s.logger().Debug("library title lookup failed", zap.String("server_id", server.ID), zap.Error(err))
	}

	out := s.present(ctx, FromLibrary(server.Ref(), items), view)
	out.Title = fmt.Sprintf("%s / %s", server.Name, title)
	out.Library = true
	return out, nil
}

// Search runs a federated search and remembers it for the session.
func (s Service) Search(ctx context.Context, query string, view View) (GroupedResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return GroupedResults{}, &CLIError{Code: ExitUsage, Msg: "search query required"}
	}
	hits, err := s.Backend.Search(ctx, query)
	if err != nil {
		return GroupedResults{}, ErrorForFetch("search", err)
	}
	grouped := Aggregate(hits)

	if s.Searches != nil {
		saved := mf.SavedSearch{Query: query, Results: grouped}
		if s.Clock != nil {
			saved.SavedAt = s.Clock.NowUnix()
		}
		if err := s.Searches.Save(saved); err != nil {
			s.logger().Warn("save last search", zap.Error(err))
		}
	}

	out := s.present(ctx, grouped, view)
	out.Title = fmt.Sprintf("Results for %q", query)
	out.Query = query
	return out, nil
}

// LastSearch restores the session's last search without contacting the backend for it.
func (s Service) LastSearch(ctx context.Context, view View) (GroupedResults, error) {
	if s.Searches == nil {
		return GroupedResults{}, &CLIError{Code: ExitNotFound, Msg: "no previous search"}
	}
	saved, ok, err := s.Searches.Load()
	if err != nil {
		return GroupedResults{}, WrapError(ExitRuntime, "load last search", err)
	}
	if !ok {
		return GroupedResults{}, &CLIError{Code: ExitNotFound, Msg: "no previous search"}
	}
	out := s.present(ctx, saved.Results, view)
	out.Title = fmt.Sprintf("Results for %q", saved.Query)
	out.Query = saved.Query
	return out, nil
}

// Details fetches the cross-server detail record for guid.
func (s Service) Details(ctx context.Context, guid string) (DetailsResult, error) {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return DetailsResult{}, &CLIError{Code: ExitUsage, Msg: "guid required"}
	}
	details, err := s.Backend.Media(ctx, guid)
	if err != nil {
		return DetailsResult{}, ErrorForFetch("get media", err)
	}
	return DetailsResult{Details: details}, nil
}

// Seasons lists the seasons of a show on one server.
func (s Service) Seasons(ctx context.Context, selector string, showID string) (SeasonsResult, error) {
	showID = strings.TrimSpace(showID)
	if showID == "" {
		return SeasonsResult{}, &CLIError{Code: ExitUsage, Msg: "show id required"}
	}
	server, err := s.Resolver.ResolveOnlineServer(ctx, selector)
	if err != nil {
		return SeasonsResult{}, err
	}
	seasons, err := s.Backend.Seasons(ctx, server.ID, showID)
	if err != nil {
		return SeasonsResult{}, ErrorForFetch("list seasons", err)
	}
	return SeasonsResult{Server: server, ShowID: showID, Seasons: seasons}, nil
}

// Episodes lists the episodes of a season on one server.
func (s Service) Episodes(ctx context.Context, selector string, seasonID string) (EpisodesResult, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return EpisodesResult{}, &CLIError{Code: ExitUsage, Msg: "season id required"}
	}
	server, err := s.Resolver.ResolveOnlineServer(ctx, selector)
	if err != nil {
		return EpisodesResult{}, err
	}
	episodes, err := s.Backend.Episodes(ctx, server.ID, seasonID)
	if err != nil {
		return EpisodesResult{}, ErrorForFetch("list episodes", err)
	}
	return EpisodesResult{Server: server, SeasonID: seasonID, Episodes: episodes}, nil
}

// ResolveView fills unset view fields from configured defaults.
func (s Service) ResolveView(view View) View {
	if view.Filter == "" {
		view.Filter = s.Config.Defaults.Filter
	}
	if view.Filter == "" {
		view.Filter = mf.FilterAll
	}
	if view.Sort == "" {
		view.Sort = s.Config.Defaults.Sort
	}
	if view.Sort == "" {
		view.Sort = mf.SortDefault
	}
	return view
}

func (s Service) present(ctx context.Context, grouped []mf.GroupedResult, view View) GroupedResults {
	view = s.ResolveView(view)
	out := GroupedResults{Results: s.Pipeline.Apply(grouped, view.Filter, view.Sort)}
	if view.Versions && s.Versions != nil {
		out.Versions = s.Versions.EnrichAll(ctx, out.Results)
	}
	return out
}

func (s Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

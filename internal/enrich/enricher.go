package enrich

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mikey-austin/media_federation/internal/ports"
	"github.com/mikey-austin/media_federation/pkg/mf"
)

const (
	DefaultMemoSize = 512
	DefaultWorkers  = 4
)

// Config tunes an Enricher.
type Config struct {
	MemoSize int
	Workers  int
}

// Enricher looks up per-server version info for single-server movies.
//
// One Enricher is one rendering context: each guid is looked up at most once
// for its lifetime, and concurrent lookups for the same guid share one fetch.
type Enricher struct {
	log     *zap.Logger
	details ports.DetailsFetcher
	workers int
	memo    *lru.Cache[string, []mf.MediaVersion]
	group   singleflight.Group
}

func New(log *zap.Logger, details ports.DetailsFetcher, cfg Config) (*Enricher, error) {
	if details == nil {
		return nil, errors.New("details fetcher required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MemoSize <= 0 {
		cfg.MemoSize = DefaultMemoSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	memo, err := lru.New[string, []mf.MediaVersion](cfg.MemoSize)
	if err != nil {
		return nil, err
	}
	return &Enricher{
		log:     log.With(zap.String("component", "enrich")),
		details: details,
		workers: cfg.Workers,
		memo:    memo,
	}, nil
}

// Eligible reports whether a result qualifies for version lookup.
func Eligible(result mf.GroupedResult) bool {
	return result.ItemType == mf.ItemMovie && result.SingleServer() && result.GUID != ""
}

// Versions returns the version list of result on its only hosting server.
// Ineligible results, failed lookups and missing entries yield an empty list.
func (e *Enricher) Versions(ctx context.Context, result mf.GroupedResult) []mf.MediaVersion {
	if !Eligible(result) {
		return []mf.MediaVersion{}
	}
	if versions, ok := e.memo.Get(result.GUID); ok {
		return versions
	}
	serverID := result.Servers[0].ID
	v, _, _ := e.group.Do(result.GUID, func() (any, error) {
		if versions, ok := e.memo.Get(result.GUID); ok {
			return versions, nil
		}
		versions := e.lookup(ctx, result.GUID, serverID)
		e.memo.Add(result.GUID, versions)
		return versions, nil
	})
	return v.([]mf.MediaVersion)
}

func (e *Enricher) lookup(ctx context.Context, guid string, serverID string) []mf.MediaVersion {
	log := e.log.With(zap.String("guid", guid), zap.String("server_id", serverID))
	details, err := e.details.Media(ctx, guid)
	if err != nil {
		log.Warn("version lookup failed", zap.Error(err))
		return []mf.MediaVersion{}
	}
	availability, ok := details.Availability(serverID)
	if !ok {
		log.Debug("no availability for hosting server")
		return []mf.MediaVersion{}
	}
	if availability.Versions == nil {
		return []mf.MediaVersion{}
	}
	return availability.Versions
}

// EnrichAll looks up versions for every eligible result.
// The map holds an entry for each eligible guid, empty when nothing was found.
func (e *Enricher) EnrichAll(ctx context.Context, results []mf.GroupedResult) map[string][]mf.MediaVersion {
	out := make(map[string][]mf.MediaVersion)
	resultsPool := pool.NewWithResults[enriched]().WithMaxGoroutines(e.workers)
	for _, result := range results {
		if !Eligible(result) {
			continue
		}
		resultsPool.Go(func() enriched {
			return enriched{guid: result.GUID, versions: e.Versions(ctx, result)}
		})
	}
	for _, r := range resultsPool.Wait() {
		out[r.guid] = r.versions
	}
	return out
}

type enriched struct {
	guid     string
	versions []mf.MediaVersion
}

// Forget drops memoized outcomes, starting a new rendering context.
func (e *Enricher) Forget() {
	e.memo.Purge()
}

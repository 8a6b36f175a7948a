package assets

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey-austin/media_federation/internal/ports"
)

// StateKind is the phase of an attachment cycle.
type StateKind int

const (
	Pending StateKind = iota
	Ready
	Unavailable
)

func (k StateKind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// State is emitted on a slot's state stream. Handle is set only when Kind is Ready.
type State struct {
	Kind   StateKind
	Handle Handle
}

// Key identifies the asset a slot is bound to.
type Key struct {
	ServerID string
	Path     string
}

func (k Key) empty() bool {
	return k.ServerID == "" || k.Path == ""
}

// Config configures a Loader.
type Config struct {
	MarginPx    int
	NewObserver ObserverFactory
}

// Loader creates per-slot controllers sharing a fetcher and handle store.
type Loader struct {
	log         *zap.Logger
	fetcher     ports.AssetFetcher
	store       Store
	ids         ports.IDGen
	newObserver ObserverFactory
	margin      int

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewLoader creates a loader. Fetches run until they complete or the loader is closed.
func NewLoader(log *zap.Logger, fetcher ports.AssetFetcher, store Store, ids ports.IDGen, cfg Config) (*Loader, error) {
	if fetcher == nil {
		return nil, errors.New("asset fetcher required")
	}
	if store == nil {
		return nil, errors.New("asset store required")
	}
	if ids == nil {
		return nil, errors.New("id generator required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MarginPx <= 0 {
		cfg.MarginPx = DefaultMarginPx
	}
	if cfg.NewObserver == nil {
		cfg.NewObserver = AlwaysVisible
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		log:         log,
		fetcher:     fetcher,
		store:       store,
		ids:         ids,
		newObserver: cfg.NewObserver,
		margin:      cfg.MarginPx,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// NewSlot creates a detached slot controller for a visual slot at target.
func (l *Loader) NewSlot(target Target) *Slot {
	return &Slot{id: l.ids.NewID(), loader: l, target: target}
}

// Close cancels outstanding fetches and waits for them to settle.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
	l.wg.Wait()
}

func (l *Loader) spawn(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fn()
	}()
	return true
}

// Slot owns the lifetime of at most one asset handle for one visual slot.
//
// Each Attach starts a cycle with a fresh one-shot visibility trigger. Starting
// a new cycle or detaching releases the installed handle, and a fetch that
// completes for a superseded cycle releases its handle instead of installing it.
type Slot struct {
	id     string
	loader *Loader
	target Target

	mu       sync.Mutex
	gen      uint64
	attached bool
	key      Key
	observer Observer
	fetching bool
	states   chan State
	state    State
	current  *Handle
}

// ID returns the slot's identifier used in diagnostics.
func (s *Slot) ID() string {
	return s.id
}

// Attach binds the slot to an asset and returns the new cycle's state stream.
// The stream yields Pending and then Ready or Unavailable, and is closed after
// the terminal state or when the cycle is superseded.
func (s *Slot) Attach(serverID string, assetPath string) <-chan State {
	key := Key{ServerID: serverID, Path: assetPath}

	s.mu.Lock()
	s.endCycleLocked()
	gen := s.gen
	s.attached = true
	s.key = key
	ch := make(chan State, 2)
	s.states = ch

	if key.empty() {
		s.emitLocked(State{Kind: Unavailable})
		s.mu.Unlock()
		return ch
	}

	s.emitLocked(State{Kind: Pending})
	observer := s.loader.newObserver(s.loader.margin)
	s.observer = observer
	s.mu.Unlock()

	observer.Observe(s.target, func(visible bool) {
		if visible {
			s.onVisible(gen)
		}
	})
	return ch
}

// OnPathChanged starts a new cycle if the key differs from the attached one.
func (s *Slot) OnPathChanged(serverID string, assetPath string) (<-chan State, bool) {
	s.mu.Lock()
	unchanged := s.attached && s.key == Key{ServerID: serverID, Path: assetPath}
	s.mu.Unlock()
	if unchanged {
		return nil, false
	}
	return s.Attach(serverID, assetPath), true
}

// Detach ends the current cycle and releases any installed handle.
func (s *Slot) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endCycleLocked()
}

// State returns the latest state of the current cycle.
func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the installed handle, if any.
func (s *Slot) Current() (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Handle{}, false
	}
	return *s.current, true
}

// Started reports whether the current cycle's fetch has begun.
func (s *Slot) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetching
}

func (s *Slot) onVisible(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.attached || s.fetching {
		s.mu.Unlock()
		return
	}
	s.fetching = true
	observer := s.observer
	s.observer = nil
	key := s.key
	s.mu.Unlock()

	if observer != nil {
		observer.Disconnect()
	}
	if !s.loader.spawn(func() { s.fetch(gen, key) }) {
		s.finish(gen, State{Kind: Unavailable})
	}
}

func (s *Slot) fetch(gen uint64, key Key) {
	log := s.loader.log.With(
		zap.String("slot", s.id),
		zap.String("server_id", key.ServerID),
		zap.String("path", key.Path),
	)

	data, err := s.loader.fetcher.FetchAsset(s.loader.ctx, key.ServerID, key.Path)
	if err != nil {
		log.Warn("asset fetch failed", zap.Error(err))
		s.finish(gen, State{Kind: Unavailable})
		return
	}
	h, err := s.loader.store.Create(data)
	if err != nil {
		log.Warn("asset store failed", zap.Error(err))
		s.finish(gen, State{Kind: Unavailable})
		return
	}

	s.mu.Lock()
	if gen != s.gen || !s.attached {
		s.mu.Unlock()
		log.Debug("discarding stale asset", zap.String("handle", h.ID))
		if err := s.loader.store.Release(h); err != nil {
			log.Warn("release stale asset", zap.Error(err))
		}
		return
	}
	s.current = &h
	s.emitLocked(State{Kind: Ready, Handle: h})
	s.mu.Unlock()
}

func (s *Slot) finish(gen uint64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.attached {
		return
	}
	s.emitLocked(st)
}

// emitLocked records st and forwards it to the cycle's stream.
// The stream buffer holds Pending plus one terminal state, so sends never block.
func (s *Slot) emitLocked(st State) {
	s.state = st
	if s.states == nil {
		return
	}
	s.states <- st
	if st.Kind != Pending {
		close(s.states)
		s.states = nil
	}
}

// endCycleLocked invalidates in-flight work and releases the installed handle exactly once.
func (s *Slot) endCycleLocked() {
	s.gen++
	if s.observer != nil {
		s.observer.Disconnect()
		s.observer = nil
	}
	if s.states != nil {
		close(s.states)
		s.states = nil
	}
	if s.current != nil {
		h := *s.current
		s.current = nil
		if err := s.loader.store.Release(h); err != nil {
			s.loader.log.Warn("release asset",
				zap.String("slot", s.id),
				zap.String("server_id", s.key.ServerID),
				zap.String("path", s.key.Path),
				zap.Error(err),
			)
		}
	}
	s.attached = false
	s.fetching = false
	s.key = Key{}
	s.state = State{}
}

// Await drains a state stream and returns its last state.
func Await(ctx context.Context, states <-chan State) (State, error) {
	last := State{Kind: Pending}
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case st, ok := <-states:
			if !ok {
				return last, nil
			}
			last = st
		}
	}
}

package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"aeo-analytics/metrics"
	"aeo-analytics/utils"
)

// Refresh triggers, used as metric labels.
const (
	TriggerInitial  = "initial"
	TriggerInterval = "interval"
	TriggerWatch    = "watch"
	TriggerManual   = "manual"
)

// SnapshotProvider hands out the Dataset a query should run against.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*Dataset, error)
}

// PerQueryProvider loads a fresh Dataset for every query. Concurrent calls
// load independently.
type PerQueryProvider struct {
	loader *Loader
}

func NewPerQueryProvider(loader *Loader) *PerQueryProvider {
	return &PerQueryProvider{loader: loader}
}

func (p *PerQueryProvider) Snapshot(ctx context.Context) (*Dataset, error) {
	return p.loader.Load(ctx)
}

// SnapshotStore shares one Dataset between all queries. A single refresher
// builds a complete replacement and swaps it in atomically, so readers
// never see a partial snapshot. A failed refresh keeps the previous one.
type SnapshotStore struct {
	loader  *Loader
	logger  *utils.Logger
	current atomic.Pointer[Dataset]
	mu      sync.Mutex

	debounce time.Duration
}

// NewSnapshotStore creates an empty store. The first Snapshot call loads.
func NewSnapshotStore(loader *Loader, logger *utils.Logger) *SnapshotStore {
	return &SnapshotStore{
		loader:   loader,
		logger:   logger,
		debounce: 500 * time.Millisecond,
	}
}

// Snapshot returns the active Dataset, loading it first if the store is empty.
func (s *SnapshotStore) Snapshot(ctx context.Context) (*Dataset, error) {
	if d := s.current.Load(); d != nil {
		return d, nil
	}
	if err := s.refresh(ctx, TriggerInitial, true); err != nil {
		return nil, err
	}
	return s.current.Load(), nil
}

// Current returns the active Dataset without loading. It is nil before the
// first successful load.
func (s *SnapshotStore) Current() *Dataset {
	return s.current.Load()
}

// Refresh loads a new Dataset and makes it active.
func (s *SnapshotStore) Refresh(ctx context.Context, trigger string) error {
	return s.refresh(ctx, trigger, false)
}

func (s *SnapshotStore) refresh(ctx context.Context, trigger string, onlyIfEmpty bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have loaded while this one waited for the lock.
	if onlyIfEmpty && s.current.Load() != nil {
		return nil
	}

	d, err := s.loader.Load(ctx)
	metrics.SnapshotRefreshes.WithLabelValues(trigger, metrics.Status(err)).Inc()
	if err != nil {
		if prev := s.current.Load(); prev != nil {
			s.logger.Warnw("snapshot refresh failed, keeping previous snapshot",
				"trigger", trigger, "snapshot_id", prev.ID, "error", err)
		}
		return fmt.Errorf("snapshot refresh (%s): %w", trigger, err)
	}

	prev := s.current.Swap(d)
	metrics.SnapshotLoadedAt.Set(float64(d.LoadedAt.Unix()))
	if prev != nil {
		s.logger.Infow("snapshot replaced", "trigger", trigger, "snapshot_id", d.ID, "previous_id", prev.ID)
	}
	return nil
}

// Run refreshes the store every interval (when positive) and whenever one of
// watchPaths changes, until ctx is done. Refresh errors are logged, not
// returned.
func (s *SnapshotStore) Run(ctx context.Context, interval time.Duration, watchPaths []string) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		events  <-chan fsnotify.Event
		errs    <-chan error
		watched = make(map[string]struct{})
	)
	if len(watchPaths) > 0 {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("snapshot store: create watcher: %w", err)
		}
		defer watcher.Close()

		// Watch parent directories: a rename-replace drops a watch on the file.
		dirs := make(map[string]struct{})
		for _, p := range watchPaths {
			abs, err := filepath.Abs(p)
			if err != nil {
				return fmt.Errorf("snapshot store: resolve %q: %w", p, err)
			}
			watched[abs] = struct{}{}
			dirs[filepath.Dir(abs)] = struct{}{}
		}
		for dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("snapshot store: watch %q: %w", dir, err)
			}
		}
		events, errs = watcher.Events, watcher.Errors
		s.logger.Info("[store] Watching %d input file(s) for changes", len(watched))
	}

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tick:
			if err := s.Refresh(ctx, TriggerInterval); err != nil {
				s.logger.Error("[store] Interval refresh failed: %v", err)
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			abs, _ := filepath.Abs(ev.Name)
			if _, hit := watched[abs]; !hit {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug("[store] %s changed (%s)", ev.Name, ev.Op)
			if debounce == nil {
				debounce = time.NewTimer(s.debounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(s.debounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if err := s.Refresh(ctx, TriggerWatch); err != nil {
				s.logger.Error("[store] Refresh after file change failed: %v", err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn("[store] Watcher error: %v", err)
		}
	}
}

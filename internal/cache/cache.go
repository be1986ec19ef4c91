package cache

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"channel-prospector/internal/domain"
)

// Defaults applied by Config.normalize.
const (
	DefaultTTL             = 24 * time.Hour
	DefaultCapacity        = 1000
	DefaultCleanupInterval = time.Hour
	DefaultPersistDebounce = time.Second
	DefaultStoreKey        = "analysis:entries"
)

// Config holds cache bounds and timing knobs.
type Config struct {
	TTL             time.Duration
	Capacity        int
	CleanupInterval time.Duration
	PersistDebounce time.Duration
	StoreKey        string
}

func (c Config) normalize() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	if c.PersistDebounce <= 0 {
		c.PersistDebounce = DefaultPersistDebounce
	}
	if c.StoreKey == "" {
		c.StoreKey = DefaultStoreKey
	}

	return c
}

// Entry is one cached analysis with its lifetime bounds. Entries are owned
// exclusively by the cache; callers replace payloads via Set, never by
// mutating in place.
type Entry struct {
	Key       string           `json:"key"`
	Payload   *domain.Analysis `json:"payload"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Stats reports cache effectiveness over its lifetime. Counters are not
// persisted and reset with Clear.
type Stats struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRate  float64 `json:"hit_rate"` // percentage
	Size     int     `json:"size"`
	Degraded bool    `json:"degraded,omitempty"`
}

// AnalysisCache is a bounded key-value store for channel analyses. All
// state is guarded by an internal mutex, so concurrent pipeline runs may
// share one instance. Clock, scheduler and durable storage are injected;
// there is no ambient singleton.
type AnalysisCache struct {
	cfg    Config
	store  domain.BlobStore
	sched  Scheduler
	now    func() time.Time
	logger *zap.Logger

	mu             sync.Mutex
	entries        map[string]*Entry
	hits, misses   uint64
	degraded       bool
	cancelPersist  func()
	cancelCleanup  func()
	persistPending bool
}

// New creates an AnalysisCache and loads any previously persisted entry set
// from the store. Corrupted or unreadable persisted data is discarded and
// the cache starts empty. A nil store disables persistence.
func New(cfg Config, store domain.BlobStore, sched Scheduler, now func() time.Time, logger *zap.Logger) *AnalysisCache {
	if now == nil {
		now = time.Now
	}
	if sched == nil {
		sched = TimerScheduler{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &AnalysisCache{
		cfg:     cfg.normalize(),
		store:   store,
		sched:   sched,
		now:     now,
		logger:  logger,
		entries: make(map[string]*Entry),
	}
	c.load()

	return c
}

// Start begins the periodic cleanup pass. Safe to call once.
func (c *AnalysisCache) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleCleanupLocked()
}

// Stop cancels pending timers. Pending writes are flushed synchronously.
func (c *AnalysisCache) Stop() {
	c.mu.Lock()
	if c.cancelCleanup != nil {
		c.cancelCleanup()
		c.cancelCleanup = nil
	}
	if c.cancelPersist != nil {
		c.cancelPersist()
		c.cancelPersist = nil
	}
	pending := c.persistPending
	c.persistPending = false
	c.mu.Unlock()

	if pending {
		c.persist()
	}
}

// Get returns the cached analysis for key, or nil on a miss. An entry past
// its expiry is a miss even if it has not been physically removed yet.
func (c *AnalysisCache) Get(key string) *domain.Analysis {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.ExpiresAt) {
		c.misses++

		return nil
	}

	c.hits++

	return entry.Payload
}

// Set inserts or refreshes the entry for key with a fresh TTL window and
// schedules a debounced persistence flush.
func (c *AnalysisCache) Set(key string, payload *domain.Analysis) {
	c.mu.Lock()

	// Opportunistic cleanup before a write that would breach capacity.
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.cfg.Capacity {
		c.cleanupLocked()
	}

	now := c.now()
	c.entries[key] = &Entry{
		Key:       key,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(c.cfg.TTL),
	}

	c.schedulePersistLocked()
	c.mu.Unlock()
}

// Clear drops all entries, resets statistics and removes the persisted set.
func (c *AnalysisCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.hits, c.misses = 0, 0
	c.degraded = false
	if c.cancelPersist != nil {
		c.cancelPersist()
		c.cancelPersist = nil
	}
	c.persistPending = false
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}

	return c.store.Delete(ctx, c.cfg.StoreKey)
}

// Stats returns lifetime hit/miss counters and the current entry count.
func (c *AnalysisCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		Size:     len(c.entries),
		Degraded: c.degraded,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}

	return s
}

// Cleanup runs one expiry-then-capacity eviction pass immediately.
func (c *AnalysisCache) Cleanup() {
	c.mu.Lock()
	removed := c.cleanupLocked()
	if removed > 0 {
		c.schedulePersistLocked()
	}
	c.mu.Unlock()
}

// cleanupLocked removes expired entries first, then evicts oldest-created
// entries until the capacity bound holds. Caller holds the mutex.
func (c *AnalysisCache) cleanupLocked() int {
	now := c.now()
	removed := 0

	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	if over := len(c.entries) - c.cfg.Capacity; over > 0 {
		oldest := make([]*Entry, 0, len(c.entries))
		for _, entry := range c.entries {
			oldest = append(oldest, entry)
		}
		sort.Slice(oldest, func(i, j int) bool {
			return oldest[i].CreatedAt.Before(oldest[j].CreatedAt)
		})
		for _, entry := range oldest[:over] {
			delete(c.entries, entry.Key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("cache cleanup pass",
			zap.Int("removed", removed),
			zap.Int("remaining", len(c.entries)),
		)
	}

	return removed
}

func (c *AnalysisCache) scheduleCleanupLocked() {
	if c.cancelCleanup != nil {
		c.cancelCleanup()
	}
	c.cancelCleanup = c.sched.Schedule(c.cfg.CleanupInterval, func() {
		c.Cleanup()
		c.mu.Lock()
		c.scheduleCleanupLocked()
		c.mu.Unlock()
	})
}

// schedulePersistLocked arms the debounce timer: one flush fires a debounce
// window after the last write, collapsing write bursts into a single store
// round trip. Caller holds the mutex.
func (c *AnalysisCache) schedulePersistLocked() {
	if c.store == nil || c.degraded {
		return
	}

	c.persistPending = true
	if c.cancelPersist != nil {
		c.cancelPersist()
	}
	c.cancelPersist = c.sched.Schedule(c.cfg.PersistDebounce, func() {
		c.mu.Lock()
		c.persistPending = false
		c.cancelPersist = nil
		c.mu.Unlock()
		c.persist()
	})
}

// persist writes the full entry set to the store. A storage failure triggers
// an immediate cleanup pass and one retry; a second failure degrades the
// cache to in-memory-only operation instead of propagating.
func (c *AnalysisCache) persist() {
	if c.store == nil {
		return
	}

	ctx := context.Background()

	if err := c.store.Set(ctx, c.cfg.StoreKey, c.snapshot()); err != nil {
		c.logger.Warn("cache persistence failed, retrying after cleanup", zap.Error(err))
		c.Cleanup()

		if err := c.store.Set(ctx, c.cfg.StoreKey, c.snapshot()); err != nil {
			c.mu.Lock()
			c.degraded = true
			c.mu.Unlock()
			c.logger.Warn("cache persistence retry failed, continuing in-memory only", zap.Error(err))
		}
	}
}

func (c *AnalysisCache) snapshot() []byte {
	c.mu.Lock()
	entries := make([]*Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	c.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	data, err := json.Marshal(entries)
	if err != nil {
		// Entries are plain JSON-serializable structs; this cannot fail
		// for well-formed payloads.
		c.logger.Error("cache snapshot marshal failed", zap.Error(err))

		return []byte("[]")
	}

	return data
}

// load restores the persisted entry set. Any read or decode failure leaves
// the cache empty; startup never fails on corrupt cache data.
func (c *AnalysisCache) load() {
	if c.store == nil {
		return
	}

	data, err := c.store.Get(context.Background(), c.cfg.StoreKey)
	if err != nil {
		c.logger.Warn("cache load failed, starting empty", zap.Error(err))

		return
	}
	if len(data) == 0 {
		return
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("discarding corrupt persisted cache data", zap.Error(err))

		return
	}

	now := c.now()
	restored := 0
	for _, entry := range entries {
		if entry == nil || entry.Key == "" || entry.Payload == nil {
			continue
		}
		if !now.Before(entry.ExpiresAt) {
			continue
		}
		c.entries[entry.Key] = entry
		restored++
	}

	c.logger.Info("cache restored from durable storage",
		zap.Int("restored", restored),
		zap.Int("discarded", len(entries)-restored),
	)
}

package stylecache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/stylecast/stylecast/internal/logger"
)

const (
	defaultMemoryCapacity    = 100
	defaultFileCapacityBytes = 50 * 1024 * 1024
	defaultTTL               = time.Hour
	defaultSweepInterval     = 30 * time.Minute
)

// ServiceOptions configures a Service. Zero values fall back to the
// documented defaults.
type ServiceOptions struct {
	Directory         string
	TTL               time.Duration
	MemoryCapacity    int
	FileCapacityBytes int64
	SweepInterval     time.Duration

	// now overrides the clock in tests.
	now func() time.Time
}

// Stats is a point-in-time snapshot of cache state.
type Stats struct {
	MemoryEntries int
	FileEntries   int
	Hits          uint64
	Misses        uint64
}

// Service is the two-tier cache. Reads go memory-first with file-tier
// promotion; writes go through to both tiers. File-tier failures are logged
// and degrade to misses, never surfacing to callers of Get.
type Service struct {
	memory *memoryTier
	file   *fileTier
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time

	// writeMu orders cross-tier writes, including the file-hit promotion
	// in Get, against Invalidate and Purge.
	writeMu sync.Mutex

	hits   atomic.Uint64
	misses atomic.Uint64

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// NewService builds the cache and starts its background sweep.
func NewService(opts ServiceOptions, log *logger.Logger) (*Service, error) {
	now := opts.now
	if now == nil {
		now = time.Now
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	sweepInterval := opts.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}

	memory, err := newMemoryTier(opts.MemoryCapacity, now)
	if err != nil {
		return nil, err
	}
	file, err := newFileTier(opts.Directory, opts.FileCapacityBytes, now)
	if err != nil {
		return nil, err
	}

	s := &Service{
		memory:    memory,
		file:      file,
		ttl:       ttl,
		log:       log.WithComponent("stylecache"),
		now:       now,
		sweepStop: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	go s.sweepLoop(sweepInterval)
	return s, nil
}

// Close stops the background sweep.
func (s *Service) Close() {
	close(s.sweepStop)
	<-s.sweepDone
}

// Get returns the cached content for key. Expired entries are evicted on
// sight in both tiers; a file-tier hit is promoted into the memory tier with
// its remaining TTL.
func (s *Service) Get(key string) (string, bool) {
	if content, ok := s.memory.get(key); ok {
		s.hits.Add(1)
		return content, true
	}

	// The file read and the promotion happen under the write lock so a
	// concurrent Invalidate cannot land between them and be undone by the
	// promotion re-inserting its content.
	s.writeMu.Lock()
	content, age, ok, err := s.file.get(key, s.ttl)
	if ok {
		if remaining := s.ttl - age; remaining > 0 {
			s.memory.set(key, content, remaining)
		}
	}
	s.writeMu.Unlock()

	if err != nil {
		s.log.WithFields(map[string]any{"cache_key": key}).Warn("file tier read failed, treating as miss")
		s.misses.Add(1)
		return "", false
	}
	if !ok {
		s.misses.Add(1)
		return "", false
	}
	s.hits.Add(1)
	return content, true
}

// Set writes content through to both tiers under the service TTL.
func (s *Service) Set(key, content string) {
	s.SetWithTTL(key, content, s.ttl)
}

// SetWithTTL writes content through to both tiers. The file tier's TTL is
// implied by the file modification time, so only the memory tier records
// the explicit deadline.
func (s *Service) SetWithTTL(key, content string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.memory.set(key, content, ttl)
	if err := s.file.set(key, content); err != nil {
		s.log.WithFields(map[string]any{"cache_key": key}).Warn("file tier write failed")
	}
}

// Invalidate removes key from both tiers.
func (s *Service) Invalidate(key string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.memory.remove(key)
	s.file.remove(key)
}

// Purge clears both tiers.
func (s *Service) Purge() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.memory.purge()
	if err := s.file.purge(); err != nil {
		s.log.Warn("file tier purge failed")
	}
}

// Stats reports entry counts and hit/miss totals.
func (s *Service) Stats() Stats {
	return Stats{
		MemoryEntries: s.memory.len(),
		FileEntries:   s.file.count(),
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
	}
}

// Sweep removes expired entries from both tiers once. The background loop
// calls this on its interval; tests call it directly.
func (s *Service) Sweep() {
	removed := s.memory.sweepExpired()
	fileRemoved, err := s.file.sweepExpired(s.ttl)
	if err != nil {
		s.log.Warn("file tier sweep failed")
	}
	if removed+fileRemoved > 0 {
		s.log.WithFields(map[string]any{
			"memory_removed": removed,
			"file_removed":   fileRemoved,
		}).Debug("cache sweep removed expired entries")
	}
}

func (s *Service) sweepLoop(interval time.Duration) {
	defer close(s.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.sweepStop:
			return
		}
	}
}

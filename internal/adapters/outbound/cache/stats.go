package cache

import "sync/atomic"

// Stats counts catalog cache lookups. Counters are atomic so readers never
// take the cache lock.
type Stats struct {
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) IncHit()  { s.hits.Add(1) }
func (s *Stats) IncMiss() { s.misses.Add(1) }

func (s *Stats) Snapshot() (hits uint64, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// HitRate is 0 before the first lookup.
func (s *Stats) HitRate() float64 {
	hits, misses := s.Snapshot()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

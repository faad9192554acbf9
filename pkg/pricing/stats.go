package pricing

import "sync"

// Provider names used as stats keys.
const (
	ProviderAWS        = "AWS (Vantage)"
	ProviderDatabricks = "Databricks"
)

// CallStats tracks per-provider lookup outcomes across a calculator's
// lifetime. All methods are safe for concurrent use.
type CallStats struct {
	mu     sync.RWMutex
	counts map[string]map[string]int // provider -> {success, failure}
}

// NewCallStats returns an empty stats tracker.
func NewCallStats() *CallStats {
	return &CallStats{
		counts: make(map[string]map[string]int),
	}
}

// RecordSuccess counts a lookup that produced a rate.
func (s *CallStats) RecordSuccess(provider string) {
	s.record(provider, "success")
}

// RecordFailure counts a lookup that produced no rate, whether not-found
// or a transport failure.
func (s *CallStats) RecordFailure(provider string) {
	s.record(provider, "failure")
}

func (s *CallStats) record(provider, outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.counts[provider]; !exists {
		s.counts[provider] = map[string]int{
			"success": 0,
			"failure": 0,
		}
	}
	s.counts[provider][outcome]++
}

// Snapshot returns a deep copy of the current counters.
func (s *CallStats) Snapshot() map[string]map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]map[string]int, len(s.counts))
	for provider, outcomes := range s.counts {
		snapshot[provider] = make(map[string]int, len(outcomes))
		for outcome, count := range outcomes {
			snapshot[provider][outcome] = count
		}
	}

	return snapshot
}

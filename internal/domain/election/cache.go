package election

import "errors"

// ErrCacheMiss is returned by caches when no entry is present
var ErrCacheMiss = errors.New("cache miss")

// DashboardSummary feeds the administrative dashboard aggregation view
type DashboardSummary struct {
	TotalVotingEvents        int64 `json:"total_voting_events" mapstructure:"total_voting_events"`
	ActiveVotingEvents       int64 `json:"active_voting_events" mapstructure:"active_voting_events"`
	ClosedVotingEvents       int64 `json:"closed_voting_events" mapstructure:"closed_voting_events"`
	AwaitingManualResolution int64 `json:"awaiting_manual_resolution" mapstructure:"awaiting_manual_resolution"`
}

// TallyCache is the advisory hot-count store. Postgres remains the
// source of truth for resolution; every method here is best-effort and
// callers only log failures.
type TallyCache interface {
	IncrementCandidate(eventID, positionID, candidateID string) error
	GetEventCounters(eventID string) (map[string]int64, error)
	GetDashboardSummary() (*DashboardSummary, error)
	StoreDashboardSummary(summary *DashboardSummary) error
	InvalidateDashboardSummary() error
}

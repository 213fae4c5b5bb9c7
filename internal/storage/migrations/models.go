package migrations

import (
	"github.com/clubsuite/elections-api/internal/domain/club"
	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/domain/member"
)

// AllModels returns every model migrated by the core-tables migration,
// ordered so foreign-key targets exist before their referrers.
func AllModels() []interface{} {
	return []interface{}{
		&club.Club{},
		&member.User{},
		&election.VotingEvent{},
		&election.Position{},
		&election.Candidate{},
		&election.Vote{},
		&election.WinnerRecord{},
	}
}

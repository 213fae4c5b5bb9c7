package migrations

import "gorm.io/gorm"

// migration003Up creates the indexes and the uniqueness constraints the
// engine's write-time invariants rely on. The votes index is the
// double-vote guard; the candidates index is the one-candidacy guard;
// the winner_records index backs the per-position upsert.
func migration003Up(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_event_position_voter
			ON votes (event_id, position_id, voter_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_event_position_user
			ON candidates (event_id, position_id, user_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_winner_records_event_position
			ON winner_records (event_id, position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voting_events_status_end_time
			ON voting_events (status, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_voting_events_club_id
			ON voting_events (club_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_event_id ON votes (event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_event_id ON candidates (event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_club_role ON users (club_id, role)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the indexes created by migration003Up
func migration003Down(db *gorm.DB) error {
	statements := []string{
		`DROP INDEX IF EXISTS idx_users_club_role`,
		`DROP INDEX IF EXISTS idx_candidates_event_id`,
		`DROP INDEX IF EXISTS idx_votes_event_id`,
		`DROP INDEX IF EXISTS idx_voting_events_club_id`,
		`DROP INDEX IF EXISTS idx_voting_events_status_end_time`,
		`DROP INDEX IF EXISTS idx_winner_records_event_position`,
		`DROP INDEX IF EXISTS idx_candidates_event_position_user`,
		`DROP INDEX IF EXISTS idx_votes_event_position_voter`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

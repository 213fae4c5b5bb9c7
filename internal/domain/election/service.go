package election

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/clubsuite/elections-api/internal/domain/common"
	"github.com/clubsuite/elections-api/internal/logger"
	"github.com/clubsuite/elections-api/internal/notification"
)

// Service implements the voting-event lifecycle: ballot intake, the
// closure state machine, winner resolution and notification dispatch.
type Service struct {
	eventRepo     EventRepository
	positionRepo  PositionRepository
	candidateRepo CandidateRepository
	voteRepo      VoteRepository
	winnerRepo    WinnerRepository
	userRepo      UserRepository
	clubRepo      ClubRepository
	dispatcher    notification.Dispatcher
	cache         TallyCache
	clock         Clock
	tieDebounce   time.Duration
	log           *log.Logger
}

// NewService wires the election engine. cache may be nil; tally
// counters are advisory.
func NewService(
	eventRepo EventRepository,
	positionRepo PositionRepository,
	candidateRepo CandidateRepository,
	voteRepo VoteRepository,
	winnerRepo WinnerRepository,
	userRepo UserRepository,
	clubRepo ClubRepository,
	dispatcher notification.Dispatcher,
	cache TallyCache,
	clock Clock,
	tieDebounce time.Duration,
) *Service {
	return &Service{
		eventRepo:     eventRepo,
		positionRepo:  positionRepo,
		candidateRepo: candidateRepo,
		voteRepo:      voteRepo,
		winnerRepo:    winnerRepo,
		userRepo:      userRepo,
		clubRepo:      clubRepo,
		dispatcher:    dispatcher,
		cache:         cache,
		clock:         clock,
		tieDebounce:   tieDebounce,
		log:           logger.Service("election"),
	}
}

// ClosureResult reports what one closure attempt did
type ClosureResult struct {
	EventID       uuid.UUID `json:"event_id"`
	Closed        bool      `json:"closed"`
	AlreadyClosed bool      `json:"already_closed"`
	TieUnresolved bool      `json:"tie_unresolved"`
	Outcomes      []Outcome `json:"outcomes,omitempty"`
	TiedPositions []Outcome `json:"tied_positions,omitempty"`
}

// TieResolution reports a manual tie resolution and any closure it
// triggered
type TieResolution struct {
	Record  *WinnerRecord  `json:"record"`
	Closure *ClosureResult `json:"closure,omitempty"`
}

// CastVote validates and persists one ballot. The duplicate-vote
// invariant is enforced by the repository's unique constraint, not by a
// read-then-write check, so concurrent submissions cannot both land.
func (s *Service) CastVote(cmd CastVoteCommand) (*Vote, error) {
	event, err := s.eventRepo.GetByID(cmd.EventID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: voting event %s", ErrNotFound, cmd.EventID)
	}

	now := s.clock.Now()
	if !event.IsVotingOpenAt(now) {
		return nil, fmt.Errorf("%w: status %s", ErrVotingClosed, event.Status)
	}

	candidate, err := s.candidateRepo.GetByID(cmd.CandidateID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, cmd.CandidateID)
	}

	if candidate.EventID != cmd.EventID {
		return nil, fmt.Errorf("candidate %s does not belong to event %s", cmd.CandidateID, cmd.EventID)
	}
	if candidate.PositionID != cmd.PositionID {
		return nil, fmt.Errorf("candidate %s does not contest position %s", cmd.CandidateID, cmd.PositionID)
	}

	vote := NewVote(cmd.EventID, cmd.PositionID, cmd.CandidateID, cmd.VoterID, now)
	if err := s.voteRepo.Create(vote); err != nil {
		return nil, err
	}

	s.log.Info("vote cast",
		"vote_id", vote.ID,
		"event_id", cmd.EventID,
		"position_id", cmd.PositionID,
		"voter_id", cmd.VoterID)

	if s.cache != nil {
		if err := s.cache.IncrementCandidate(cmd.EventID.String(), cmd.PositionID.String(), cmd.CandidateID.String()); err != nil {
			s.log.Warn("tally cache increment failed", "event_id", cmd.EventID, "error", err)
		}
	}

	return vote, nil
}

// ActivateDueEvents flips every scheduled event whose start time has
// passed to active. Safe under concurrent invocation: the conditional
// transition only succeeds once per event.
func (s *Service) ActivateDueEvents() (int, error) {
	now := s.clock.Now()
	due, err := s.eventRepo.GetDueForActivation(now)
	if err != nil {
		return 0, fmt.Errorf("failed to list events due for activation: %w", err)
	}

	activated := 0
	for _, event := range due {
		won, err := s.eventRepo.TransitionStatus(event.ID, StatusScheduled, StatusActive)
		if err != nil {
			s.log.Error("failed to activate event", "event_id", event.ID, "error", err)
			continue
		}
		if won {
			activated++
			s.log.Info("voting event activated", "event_id", event.ID, "title", event.Title)
		}
	}

	if activated > 0 {
		s.invalidateSummary()
	}

	return activated, nil
}

// DueForClosure lists the active events whose end time has passed and
// that are not parked behind an unresolved tie.
func (s *Service) DueForClosure() ([]*VotingEvent, error) {
	return s.eventRepo.GetDueForClosure(s.clock.Now())
}

// AttemptClosure runs one closure check for an event. Idempotent:
// closing an already-closed event is a no-op success. When every
// position resolves cleanly the attempt races the conditional
// active → closed flip; only the winner persists records and notifies.
// When ties remain the event stays active, is flagged for manual
// resolution and tie notifications go out under the debounce policy.
func (s *Service) AttemptClosure(eventID uuid.UUID, force bool) (*ClosureResult, error) {
	event, err := s.eventRepo.GetByID(eventID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: voting event %s", ErrNotFound, eventID)
	}

	result := &ClosureResult{EventID: eventID}

	if event.Status == StatusClosed {
		result.AlreadyClosed = true
		return result, nil
	}
	if event.Status == StatusScheduled {
		return nil, fmt.Errorf("%w: cannot close a scheduled event", ErrInvalidTransition)
	}

	now := s.clock.Now()
	if now.Before(event.EndTime) && !force {
		return nil, fmt.Errorf("%w: event has not reached its end time", ErrInvalidTransition)
	}

	outcomes, err := s.resolveEvent(event)
	if err != nil {
		return nil, err
	}
	result.Outcomes = outcomes

	tied := TiedOutcomes(outcomes)
	if len(tied) > 0 {
		result.TieUnresolved = true
		result.TiedPositions = tied

		if err := s.eventRepo.SetNeedsManualResolution(event.ID, true); err != nil {
			return nil, fmt.Errorf("failed to flag event for manual resolution: %w", err)
		}

		s.log.Warn("closure blocked by unresolved ties",
			"event_id", event.ID,
			"tied_positions", len(tied))

		s.persistAndNotifyTies(event, tied, now)
		return result, nil
	}

	won, err := s.eventRepo.TransitionStatus(event.ID, StatusActive, StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to close event: %w", err)
	}
	if !won {
		// A concurrent attempt got there first; its invocation owns
		// persistence and notification.
		result.AlreadyClosed = true
		return result, nil
	}

	for _, outcome := range outcomes {
		if outcome.Winner == nil {
			continue
		}
		record, err := s.winnerRepo.GetByEventAndPosition(event.ID.String(), outcome.PositionID.String())
		if err == nil && record != nil && record.Method == ResolutionManual {
			// Manual resolutions supersede the automatic computation.
			continue
		}
		if err := s.winnerRepo.Upsert(NewWinnerRecord(event.ID, outcome.PositionID, outcome.Winner.Candidate.ID, outcome.VoteCount, ResolutionAutomatic, now)); err != nil {
			return nil, fmt.Errorf("failed to persist winner record: %w", err)
		}
	}

	result.Closed = true
	s.log.Info("voting event closed", "event_id", event.ID, "positions", len(outcomes))

	s.notifyClosed(event, outcomes)
	s.invalidateSummary()

	return result, nil
}

// ResolveTie applies an administrator's choice to a tied position and
// re-evaluates event closure once no open ties remain. A single admin's
// action suffices.
func (s *Service) ResolveTie(cmd ResolveTieCommand) (*TieResolution, error) {
	event, err := s.eventRepo.GetByID(cmd.EventID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: voting event %s", ErrNotFound, cmd.EventID)
	}
	if event.Status != StatusActive {
		return nil, fmt.Errorf("%w: event is %s, ties can only be resolved on active events", ErrInvalidTransition, event.Status)
	}

	outcomes, err := s.resolveEvent(event)
	if err != nil {
		return nil, err
	}

	var target *Outcome
	for i := range outcomes {
		if outcomes[i].PositionID == cmd.PositionID {
			target = &outcomes[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: position %s has no candidates in event %s", ErrNoCandidates, cmd.PositionID, cmd.EventID)
	}
	if !target.Tied {
		return nil, fmt.Errorf("%w: position %s is not tied", ErrCandidateNotTied, cmd.PositionID)
	}

	var chosen *CandidateCount
	for i := range target.TiedCandidates {
		if target.TiedCandidates[i].Candidate.ID == cmd.CandidateID {
			chosen = &target.TiedCandidates[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: candidate %s", ErrCandidateNotTied, cmd.CandidateID)
	}

	now := s.clock.Now()

	record, err := s.winnerRepo.GetByEventAndPosition(cmd.EventID.String(), cmd.PositionID.String())
	if err != nil || record == nil {
		record = NewTieRecord(cmd.EventID, cmd.PositionID, target.VoteCount, nil)
	}
	record.ResolveManually(cmd.CandidateID, cmd.AdminID, chosen.Count, now)
	if err := s.winnerRepo.Upsert(record); err != nil {
		return nil, fmt.Errorf("failed to persist manual resolution: %w", err)
	}

	s.log.Info("tie resolved manually",
		"event_id", cmd.EventID,
		"position_id", cmd.PositionID,
		"candidate_id", cmd.CandidateID,
		"admin_id", cmd.AdminID)

	resolution := &TieResolution{Record: record}

	// Re-evaluate: if no open ties remain, clear the flag and let the
	// closure check finalize the event.
	remaining, err := s.resolveEvent(event)
	if err != nil {
		return resolution, nil
	}
	if len(TiedOutcomes(remaining)) > 0 {
		return resolution, nil
	}

	if err := s.eventRepo.SetNeedsManualResolution(event.ID, false); err != nil {
		s.log.Error("failed to clear manual resolution flag", "event_id", event.ID, "error", err)
		return resolution, nil
	}

	if !now.Before(event.EndTime) {
		closure, err := s.AttemptClosure(event.ID, false)
		if err != nil {
			s.log.Error("closure re-evaluation failed after manual resolution", "event_id", event.ID, "error", err)
			return resolution, nil
		}
		resolution.Closure = closure
	}

	return resolution, nil
}

// EventTally computes the current per-position tally for an event.
// Pure read; never mutates event state. The event must have at least
// reached the active state.
func (s *Service) EventTally(eventID uuid.UUID) (Tally, error) {
	event, err := s.eventRepo.GetByID(eventID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: voting event %s", ErrNotFound, eventID)
	}
	if event.Status == StatusScheduled {
		return nil, fmt.Errorf("%w: event has not started", ErrInvalidTransition)
	}

	candidates, votes, err := s.loadBallots(eventID)
	if err != nil {
		return nil, err
	}

	return ComputeTally(candidates, votes), nil
}

// EventResults returns tally, per-position outcomes and persisted
// winner records for one event.
func (s *Service) EventResults(eventID uuid.UUID) (Tally, []Outcome, []*WinnerRecord, error) {
	event, err := s.eventRepo.GetByID(eventID.String())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: voting event %s", ErrNotFound, eventID)
	}
	if event.Status == StatusScheduled {
		return nil, nil, nil, fmt.Errorf("%w: event has not started", ErrInvalidTransition)
	}

	candidates, votes, err := s.loadBallots(eventID)
	if err != nil {
		return nil, nil, nil, err
	}

	tally := ComputeTally(candidates, votes)
	outcomes, err := s.mergeManualResolutions(event, ResolveTally(tally))
	if err != nil {
		return nil, nil, nil, err
	}

	records, err := s.winnerRepo.GetByEventID(eventID.String())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load winner records: %w", err)
	}

	return tally, outcomes, records, nil
}

// DashboardSummary aggregates event counts for the admin dashboard,
// served from the cache when fresh.
func (s *Service) DashboardSummary() (*DashboardSummary, error) {
	if s.cache != nil {
		if summary, err := s.cache.GetDashboardSummary(); err == nil {
			return summary, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("dashboard summary cache read failed", "error", err)
		}
	}

	counts, err := s.eventRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count events by status: %w", err)
	}
	awaiting, err := s.eventRepo.CountNeedingManualResolution()
	if err != nil {
		return nil, fmt.Errorf("failed to count events awaiting manual resolution: %w", err)
	}

	summary := &DashboardSummary{
		TotalVotingEvents:        counts[StatusScheduled] + counts[StatusActive] + counts[StatusClosed],
		ActiveVotingEvents:       counts[StatusActive],
		ClosedVotingEvents:       counts[StatusClosed],
		AwaitingManualResolution: awaiting,
	}

	if s.cache != nil {
		if err := s.cache.StoreDashboardSummary(summary); err != nil {
			s.log.Warn("dashboard summary cache write failed", "error", err)
		}
	}

	return summary, nil
}

// resolveEvent tallies the event and resolves every position, with
// manual winner records superseding automatic tie outcomes.
func (s *Service) resolveEvent(event *VotingEvent) ([]Outcome, error) {
	candidates, votes, err := s.loadBallots(event.ID)
	if err != nil {
		return nil, err
	}

	outcomes := ResolveTally(ComputeTally(candidates, votes))
	return s.mergeManualResolutions(event, outcomes)
}

// mergeManualResolutions replaces tie outcomes with their persisted
// manual resolutions, keyed by candidate id.
func (s *Service) mergeManualResolutions(event *VotingEvent, outcomes []Outcome) ([]Outcome, error) {
	records, err := s.winnerRepo.GetByEventID(event.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load winner records: %w", err)
	}

	manual := make(map[uuid.UUID]*WinnerRecord)
	for _, record := range records {
		if record.Method == ResolutionManual && record.IsResolved() {
			manual[record.PositionID] = record
		}
	}
	if len(manual) == 0 {
		return outcomes, nil
	}

	for i := range outcomes {
		record, ok := manual[outcomes[i].PositionID]
		if !ok || !outcomes[i].Tied {
			continue
		}
		for _, entry := range outcomes[i].TiedCandidates {
			if entry.Candidate.ID == *record.CandidateID {
				winner := entry
				outcomes[i] = Outcome{
					PositionID: outcomes[i].PositionID,
					Winner:     &winner,
					VoteCount:  entry.Count,
				}
				break
			}
		}
	}

	return outcomes, nil
}

func (s *Service) loadBallots(eventID uuid.UUID) ([]*Candidate, []*Vote, error) {
	candidates, err := s.candidateRepo.GetByEventID(eventID.String())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	votes, err := s.voteRepo.GetByEventID(eventID.String())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load votes: %w", err)
	}
	return candidates, votes, nil
}

// persistAndNotifyTies upserts the tie row per tied position and sends
// the tie notification unless a recent one is still within the
// debounce window. Dispatch failures are logged, never propagated.
func (s *Service) persistAndNotifyTies(event *VotingEvent, tied []Outcome, now time.Time) {
	for _, outcome := range tied {
		record, err := s.winnerRepo.GetByEventAndPosition(event.ID.String(), outcome.PositionID.String())
		if err != nil || record == nil {
			record = NewTieRecord(event.ID, outcome.PositionID, outcome.VoteCount, tiedCandidateIDs(outcome))
			if err := s.winnerRepo.Upsert(record); err != nil {
				s.log.Error("failed to persist tie record", "event_id", event.ID, "position_id", outcome.PositionID, "error", err)
				continue
			}
		} else if record.Method == ResolutionManual && record.IsResolved() {
			continue
		} else {
			record.UpdateTie(outcome.VoteCount, tiedCandidateIDs(outcome))
			if err := s.winnerRepo.Upsert(record); err != nil {
				s.log.Error("failed to refresh tie record", "event_id", event.ID, "position_id", outcome.PositionID, "error", err)
			}
		}

		if record.LastTieNotifiedAt != nil && now.Sub(*record.LastTieNotifiedAt) < s.tieDebounce {
			s.log.Debug("tie notification debounced",
				"event_id", event.ID,
				"position_id", outcome.PositionID,
				"last_notified", record.LastTieNotifiedAt)
			continue
		}

		if s.notifyTied(event, outcome) {
			if err := s.winnerRepo.MarkTieNotified(record.ID, now); err != nil {
				s.log.Error("failed to mark tie notified", "record_id", record.ID, "error", err)
			}
		}
	}
}

// notifyClosed emits one voting_event_closed notification per club
// administrator. Best-effort: failures are logged and left to the
// delivery collaborator's retry.
func (s *Service) notifyClosed(event *VotingEvent, outcomes []Outcome) {
	club, admins, ok := s.recipients(event)
	if !ok {
		return
	}

	winners := make(map[string]notification.PositionWinner, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Winner == nil {
			continue
		}
		winners[outcome.PositionID.String()] = notification.PositionWinner{
			PositionName: outcome.Winner.Candidate.Position.Name,
			UserName:     outcome.Winner.Candidate.User.Name,
			VotesCount:   outcome.VoteCount,
		}
	}

	for _, admin := range admins {
		recipient := recipientFor(admin)
		msg := notification.Message{
			Recipient: recipient,
			Kind:      notification.KindVotingEventClosed,
			Data: notification.EventClosedData{
				User:        recipient,
				VotingEvent: eventSummary(event),
				Club:        clubSummary(club),
				Winners:     winners,
			},
		}
		if err := s.dispatcher.Dispatch(msg); err != nil {
			s.log.Error("closed notification dispatch failed", "event_id", event.ID, "recipient", recipient.Email, "error", err)
		}
	}
}

// notifyTied emits one voting_event_tied notification per club
// administrator for a single tied position. Reports whether at least
// one dispatch succeeded so the debounce timestamp only advances on
// delivery.
func (s *Service) notifyTied(event *VotingEvent, outcome Outcome) bool {
	club, admins, ok := s.recipients(event)
	if !ok {
		return false
	}

	tiedCandidates := make([]notification.TiedCandidate, 0, len(outcome.TiedCandidates))
	positionName := ""
	for _, entry := range outcome.TiedCandidates {
		positionName = entry.Candidate.Position.Name
		tiedCandidates = append(tiedCandidates, notification.TiedCandidate{
			User: notification.TiedCandidateUser{
				Name:  entry.Candidate.User.Name,
				Email: entry.Candidate.User.Email,
			},
		})
	}

	delivered := false
	for _, admin := range admins {
		recipient := recipientFor(admin)
		msg := notification.Message{
			Recipient: recipient,
			Kind:      notification.KindVotingEventTied,
			Data: notification.EventTiedData{
				User:           recipient,
				VotingEvent:    eventSummary(event),
				Club:           clubSummary(club),
				Position:       positionName,
				VoteCount:      outcome.VoteCount,
				TiedCandidates: tiedCandidates,
			},
		}
		if err := s.dispatcher.Dispatch(msg); err != nil {
			s.log.Error("tie notification dispatch failed", "event_id", event.ID, "recipient", recipient.Email, "error", err)
			continue
		}
		delivered = true
	}

	return delivered
}

func (s *Service) recipients(event *VotingEvent) (common.ClubInterface, []common.UserInterface, bool) {
	club, err := s.clubRepo.GetByID(event.ClubID.String())
	if err != nil {
		s.log.Error("failed to load club for notification", "club_id", event.ClubID, "error", err)
		return nil, nil, false
	}
	admins, err := s.userRepo.GetAdminsByClubID(event.ClubID.String())
	if err != nil {
		s.log.Error("failed to load administrators for notification", "club_id", event.ClubID, "error", err)
		return nil, nil, false
	}
	if len(admins) == 0 {
		s.log.Warn("no administrators to notify", "club_id", event.ClubID)
		return nil, nil, false
	}
	return club, admins, true
}

func (s *Service) invalidateSummary() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDashboardSummary(); err != nil {
		s.log.Warn("dashboard summary invalidation failed", "error", err)
	}
}

func tiedCandidateIDs(outcome Outcome) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(outcome.TiedCandidates))
	for _, entry := range outcome.TiedCandidates {
		ids = append(ids, entry.Candidate.ID)
	}
	return ids
}

func recipientFor(user common.UserInterface) notification.Recipient {
	return notification.Recipient{
		ID:    user.GetID(),
		Name:  user.GetName(),
		Email: user.GetEmail(),
	}
}

func eventSummary(event *VotingEvent) notification.EventSummary {
	return notification.EventSummary{
		ID:        event.ID,
		Title:     event.Title,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
	}
}

func clubSummary(club common.ClubInterface) notification.ClubSummary {
	return notification.ClubSummary{
		ID:   club.GetID(),
		Name: club.GetName(),
	}
}

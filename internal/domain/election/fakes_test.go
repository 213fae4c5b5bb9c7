package election

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clubsuite/elections-api/internal/domain/common"
	"github.com/clubsuite/elections-api/internal/notification"
)

// In-memory repository fakes. They mirror the storage contracts the
// engine relies on: conditional status flips are atomic, duplicate
// ballots and candidacies are rejected at write time.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*VotingEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*VotingEvent)}
}

func (r *fakeEventRepo) Create(event *VotingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) GetByID(id string) (*VotingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	event, ok := r.events[parsed]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) GetAll() ([]*VotingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*VotingEvent, 0, len(r.events))
	for _, event := range r.events {
		copied := *event
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeEventRepo) GetByClubID(clubID string) ([]*VotingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*VotingEvent
	for _, event := range r.events {
		if event.ClubID.String() == clubID {
			copied := *event
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) GetDueForActivation(now time.Time) ([]*VotingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*VotingEvent
	for _, event := range r.events {
		if event.Status == StatusScheduled && !now.Before(event.StartTime) {
			copied := *event
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) GetDueForClosure(now time.Time) ([]*VotingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*VotingEvent
	for _, event := range r.events {
		if event.IsDueForClosure(now) {
			copied := *event
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) TransitionStatus(id uuid.UUID, from, to Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return false, ErrNotFound
	}
	if event.Status != from {
		return false, nil
	}
	event.Status = to
	return true, nil
}

func (r *fakeEventRepo) SetNeedsManualResolution(id uuid.UUID, flagged bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	event.NeedsManualResolution = flagged
	return nil
}

func (r *fakeEventRepo) CountByStatus() (map[Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[Status]int64)
	for _, event := range r.events {
		counts[event.Status]++
	}
	return counts, nil
}

func (r *fakeEventRepo) CountNeedingManualResolution() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, event := range r.events {
		if event.NeedsManualResolution {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	delete(r.events, parsed)
	return nil
}

type fakePositionRepo struct {
	mu        sync.Mutex
	positions map[uuid.UUID]*Position
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{positions: make(map[uuid.UUID]*Position)}
}

func (r *fakePositionRepo) Create(position *Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[position.ID] = position
	return nil
}

func (r *fakePositionRepo) GetByID(id string) (*Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	position, ok := r.positions[parsed]
	if !ok {
		return nil, ErrNotFound
	}
	return position, nil
}

func (r *fakePositionRepo) GetByClubID(clubID string) ([]*Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Position
	for _, position := range r.positions {
		if position.ClubID.String() == clubID {
			out = append(out, position)
		}
	}
	return out, nil
}

type fakeCandidateRepo struct {
	mu         sync.Mutex
	candidates map[uuid.UUID]*Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{candidates: make(map[uuid.UUID]*Candidate)}
}

func (r *fakeCandidateRepo) Create(candidate *Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.candidates {
		if existing.EventID == candidate.EventID &&
			existing.PositionID == candidate.PositionID &&
			existing.UserID == candidate.UserID {
			return ErrDuplicateCandidate
		}
	}
	r.candidates[candidate.ID] = candidate
	return nil
}

func (r *fakeCandidateRepo) GetByID(id string) (*Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	candidate, ok := r.candidates[parsed]
	if !ok {
		return nil, ErrNotFound
	}
	return candidate, nil
}

func (r *fakeCandidateRepo) GetByEventID(eventID string) ([]*Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Candidate
	for _, candidate := range r.candidates {
		if candidate.EventID.String() == eventID {
			out = append(out, candidate)
		}
	}
	return out, nil
}

type voteKey struct {
	eventID    uuid.UUID
	positionID uuid.UUID
	voterID    uuid.UUID
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[voteKey]*Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[voteKey]*Vote)}
}

func (r *fakeVoteRepo) Create(vote *Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey{vote.EventID, vote.PositionID, vote.VoterID}
	if _, exists := r.votes[key]; exists {
		return ErrDuplicateVote
	}
	r.votes[key] = vote
	return nil
}

func (r *fakeVoteRepo) GetByEventID(eventID string) ([]*Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Vote
	for _, vote := range r.votes {
		if vote.EventID.String() == eventID {
			out = append(out, vote)
		}
	}
	return out, nil
}

func (r *fakeVoteRepo) HasVoted(eventID, positionID, voterID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.votes {
		if key.eventID.String() == eventID &&
			key.positionID.String() == positionID &&
			key.voterID.String() == voterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVoteRepo) CountByEventID(eventID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, vote := range r.votes {
		if vote.EventID.String() == eventID {
			n++
		}
	}
	return n, nil
}

type winnerKey struct {
	eventID    uuid.UUID
	positionID uuid.UUID
}

type fakeWinnerRepo struct {
	mu      sync.Mutex
	records map[winnerKey]*WinnerRecord
}

func newFakeWinnerRepo() *fakeWinnerRepo {
	return &fakeWinnerRepo{records: make(map[winnerKey]*WinnerRecord)}
}

func (r *fakeWinnerRepo) Upsert(record *WinnerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := winnerKey{record.EventID, record.PositionID}
	if existing, ok := r.records[key]; ok {
		record.ID = existing.ID
		if record.LastTieNotifiedAt == nil {
			record.LastTieNotifiedAt = existing.LastTieNotifiedAt
		}
	}
	copied := *record
	r.records[key] = &copied
	return nil
}

func (r *fakeWinnerRepo) GetByEventID(eventID string) ([]*WinnerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*WinnerRecord
	for _, record := range r.records {
		if record.EventID.String() == eventID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWinnerRepo) GetByEventAndPosition(eventID, positionID string) (*WinnerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, record := range r.records {
		if key.eventID.String() == eventID && key.positionID.String() == positionID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeWinnerRepo) MarkTieNotified(id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.ID == id {
			notified := at
			record.LastTieNotifiedAt = &notified
			return nil
		}
	}
	return ErrNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]common.SharedUser
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]common.SharedUser)}
}

func (r *fakeUserRepo) add(user common.SharedUser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeUserRepo) GetByID(id string) (common.UserInterface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	user, ok := r.users[parsed]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// admins holds the fixture's administrator set per club
type fakeAdminDirectory struct {
	fakeUserRepo
	adminsByClub map[uuid.UUID][]common.SharedUser
}

func newFakeAdminDirectory() *fakeAdminDirectory {
	return &fakeAdminDirectory{
		fakeUserRepo: fakeUserRepo{users: make(map[uuid.UUID]common.SharedUser)},
		adminsByClub: make(map[uuid.UUID][]common.SharedUser),
	}
}

func (r *fakeAdminDirectory) addAdmin(clubID uuid.UUID, user common.SharedUser) {
	r.add(user)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminsByClub[clubID] = append(r.adminsByClub[clubID], user)
}

func (r *fakeAdminDirectory) GetAdminsByClubID(clubID string) ([]common.UserInterface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(clubID)
	if err != nil {
		return nil, err
	}
	admins := r.adminsByClub[parsed]
	out := make([]common.UserInterface, 0, len(admins))
	for i := range admins {
		admin := admins[i]
		out = append(out, &admin)
	}
	return out, nil
}

type fakeClubRepo struct {
	mu    sync.Mutex
	clubs map[uuid.UUID]common.SharedClub
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{clubs: make(map[uuid.UUID]common.SharedClub)}
}

func (r *fakeClubRepo) add(club common.SharedClub) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clubs[club.ID] = club
}

func (r *fakeClubRepo) GetByID(id string) (common.ClubInterface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	club, ok := r.clubs[parsed]
	if !ok {
		return nil, ErrNotFound
	}
	return &club, nil
}

type recordingDispatcher struct {
	mu       sync.Mutex
	messages []notification.Message
	fail     bool
}

func (d *recordingDispatcher) Dispatch(msg notification.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return fmt.Errorf("dispatch refused")
	}
	d.messages = append(d.messages, msg)
	return nil
}

func (d *recordingDispatcher) byKind(kind notification.Kind) []notification.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notification.Message
	for _, msg := range d.messages {
		if msg.Kind == kind {
			out = append(out, msg)
		}
	}
	return out
}

func (d *recordingDispatcher) setFailing(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = fail
}

type fakeTallyCache struct {
	mu            sync.Mutex
	counters      map[string]int64
	summary       *DashboardSummary
	invalidations int
	stores        int
}

func newFakeTallyCache() *fakeTallyCache {
	return &fakeTallyCache{counters: make(map[string]int64)}
}

func (c *fakeTallyCache) IncrementCandidate(eventID, positionID, candidateID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[eventID+":"+positionID+":"+candidateID]++
	return nil
}

func (c *fakeTallyCache) GetEventCounters(eventID string) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64)
	for key, count := range c.counters {
		out[key] = count
	}
	if len(out) == 0 {
		return nil, ErrCacheMiss
	}
	return out, nil
}

func (c *fakeTallyCache) GetDashboardSummary() (*DashboardSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return nil, ErrCacheMiss
	}
	copied := *c.summary
	return &copied, nil
}

func (c *fakeTallyCache) StoreDashboardSummary(summary *DashboardSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *summary
	c.summary = &copied
	c.stores++
	return nil
}

func (c *fakeTallyCache) InvalidateDashboardSummary() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = nil
	c.invalidations++
	return nil
}

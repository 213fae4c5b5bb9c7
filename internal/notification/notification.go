// Package notification defines the structured payloads handed to the
// external notification/mail delivery collaborator. Templating and
// transport live outside this service; dispatch is best-effort and must
// never roll back engine state.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the template the delivery collaborator renders
type Kind string

const (
	KindVotingEventClosed Kind = "voting_event_closed"
	KindVotingEventTied   Kind = "voting_event_tied"
)

// Recipient is the addressee of one notification
type Recipient struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// EventSummary is the voting event block shared by both payload kinds
type EventSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ClubSummary is the club block shared by both payload kinds
type ClubSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PositionWinner is one entry of the winners map in a closed payload
type PositionWinner struct {
	PositionName string `json:"position_name"`
	UserName     string `json:"user_name"`
	VotesCount   int    `json:"votes_count"`
}

// EventClosedData is the payload for voting_event_closed
type EventClosedData struct {
	User        Recipient                 `json:"user"`
	VotingEvent EventSummary              `json:"voting_event"`
	Club        ClubSummary               `json:"club"`
	Winners     map[string]PositionWinner `json:"winners"`
}

// TiedCandidateUser carries the contact details of one tied candidate
type TiedCandidateUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TiedCandidate is one entry of the tied-candidate list
type TiedCandidate struct {
	User TiedCandidateUser `json:"user"`
}

// EventTiedData is the payload for voting_event_tied, one per tied
// position
type EventTiedData struct {
	User           Recipient       `json:"user"`
	VotingEvent    EventSummary    `json:"voting_event"`
	Club           ClubSummary     `json:"club"`
	Position       string          `json:"position"`
	VoteCount      int             `json:"voteCount"`
	TiedCandidates []TiedCandidate `json:"tiedCandidates"`
}

// Message is one queued notification
type Message struct {
	Recipient Recipient   `json:"recipient"`
	Kind      Kind        `json:"kind"`
	Data      interface{} `json:"data"`
}

// Dispatcher hands messages to the delivery collaborator. Failures are
// logged by the caller and retried by the collaborator; they never
// affect engine state.
type Dispatcher interface {
	Dispatch(msg Message) error
}

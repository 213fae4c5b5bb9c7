package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageJSONShape(t *testing.T) {
	recipient := Recipient{ID: uuid.New(), Name: "Ada", Email: "ada@club.test"}
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	msg := Message{
		Recipient: recipient,
		Kind:      KindVotingEventTied,
		Data: EventTiedData{
			User: recipient,
			VotingEvent: EventSummary{
				ID:        uuid.New(),
				Title:     "Board Elections 2026",
				StartTime: start,
				EndTime:   start.Add(8 * time.Hour),
			},
			Club:      ClubSummary{ID: uuid.New(), Name: "Astronomy Club"},
			Position:  "President",
			VoteCount: 4,
			TiedCandidates: []TiedCandidate{
				{User: TiedCandidateUser{Name: "Alice", Email: "alice@club.test"}},
				{User: TiedCandidateUser{Name: "Bob", Email: "bob@club.test"}},
			},
		},
	}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "voting_event_tied", decoded["kind"])

	data, ok := decoded["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "President", data["position"])
	assert.Equal(t, float64(4), data["voteCount"])
	assert.Len(t, data["tiedCandidates"], 2)
}

func TestEventClosedDataWinnersKeyedByPosition(t *testing.T) {
	positionID := uuid.New().String()
	data := EventClosedData{
		Winners: map[string]PositionWinner{
			positionID: {PositionName: "President", UserName: "Alice", VotesCount: 5},
		},
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	winners, ok := decoded["winners"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, winners, positionID)
	entry := winners[positionID].(map[string]interface{})
	assert.Equal(t, "Alice", entry["user_name"])
	assert.Equal(t, float64(5), entry["votes_count"])
}

func TestLogDispatcher(t *testing.T) {
	dispatcher := NewLogDispatcher()
	err := dispatcher.Dispatch(Message{
		Recipient: Recipient{ID: uuid.New(), Name: "Ada", Email: "ada@club.test"},
		Kind:      KindVotingEventClosed,
		Data:      EventClosedData{},
	})
	assert.NoError(t, err)
}

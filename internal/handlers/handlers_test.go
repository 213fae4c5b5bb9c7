package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsuite/elections-api/internal/domain/election"
)

func TestRespondDomainErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", election.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("%w: voting event x", election.ErrNotFound), http.StatusNotFound},
		{"duplicate vote", election.ErrDuplicateVote, http.StatusConflict},
		{"duplicate candidate", election.ErrDuplicateCandidate, http.StatusConflict},
		{"voting closed", election.ErrVotingClosed, http.StatusConflict},
		{"invalid transition", election.ErrInvalidTransition, http.StatusConflict},
		{"candidate not tied", election.ErrCandidateNotTied, http.StatusBadRequest},
		{"no candidates", election.ErrNoCandidates, http.StatusBadRequest},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondDomainError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestParseUUIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/events/:event_id", func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "event_id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	valid := httptest.NewRequest(http.MethodGet, "/events/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, valid)
	require.Equal(t, http.StatusOK, w.Code)

	invalid := httptest.NewRequest(http.MethodGet, "/events/not-a-uuid", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, invalid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

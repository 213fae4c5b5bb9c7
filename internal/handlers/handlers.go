// Package handlers exposes the HTTP surface of the election engine.
// Handlers validate and translate; every lifecycle decision lives in
// the election service.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/response"
)

// parseUUIDParam reads a path parameter and parses it as a UUID,
// writing the 400 response itself on failure
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequestError(c, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// respondDomainError maps the engine's sentinel errors onto HTTP status
// codes. Anything unrecognized is a 500.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, election.ErrNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, election.ErrDuplicateVote):
		response.ConflictError(c, "A vote for this position has already been recorded")
	case errors.Is(err, election.ErrDuplicateCandidate):
		response.ConflictError(c, "This user is already a candidate for this position")
	case errors.Is(err, election.ErrVotingClosed):
		response.ConflictError(c, "Voting is not open for this event")
	case errors.Is(err, election.ErrInvalidTransition):
		response.ConflictError(c, err.Error())
	case errors.Is(err, election.ErrCandidateNotTied),
		errors.Is(err, election.ErrNoCandidates),
		errors.Is(err, election.ErrTieUnresolved):
		response.BadRequestError(c, err.Error())
	default:
		response.InternalServerError(c, "An internal error occurred")
	}
}

package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
	"github.com/clubsuite/elections-api/internal/middleware/auth"
	"github.com/clubsuite/elections-api/internal/response"
	"github.com/clubsuite/elections-api/internal/validation"
)

// VoteHandler serves ballot intake and per-voter status
type VoteHandler struct {
	service  *election.Service
	voteRepo election.VoteRepository
	log      *log.Logger
}

func NewVoteHandler(service *election.Service, voteRepo election.VoteRepository) *VoteHandler {
	return &VoteHandler{
		service:  service,
		voteRepo: voteRepo,
		log:      logger.Handler("vote"),
	}
}

type CastVoteRequest struct {
	PositionID  string `json:"position_id" binding:"required"`
	CandidateID string `json:"candidate_id" binding:"required"`
}

// CastVote handles POST /api/events/:event_id/votes. The voter is the
// authenticated caller; voting for someone else is not a thing.
func (h *VoteHandler) CastVote(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	positionID, err := uuid.Parse(req.PositionID)
	if err != nil {
		response.BadRequestError(c, "position_id must be a valid UUID")
		return
	}
	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		response.BadRequestError(c, "candidate_id must be a valid UUID")
		return
	}

	voterID, err := auth.UserID(c)
	if err != nil {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	vote, err := h.service.CastVote(election.CastVoteCommand{
		EventID:     eventID,
		PositionID:  positionID,
		CandidateID: candidateID,
		VoterID:     voterID,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Vote recorded", vote)
}

// GetVoteStatus handles GET /api/events/:event_id/votes/status. With a
// position_id query it reports whether the caller voted for that
// position; without one it reports the event's total ballot count.
func (h *VoteHandler) GetVoteStatus(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	voterID, err := auth.UserID(c)
	if err != nil {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	positionID := c.Query("position_id")
	if positionID != "" {
		if verr := validation.ValidateUUID(positionID, "position_id"); verr != nil {
			response.BadRequestError(c, verr.Error())
			return
		}

		voted, err := h.voteRepo.HasVoted(eventID.String(), positionID, voterID.String())
		if err != nil {
			h.log.Error("failed to check vote status", "event_id", eventID, "error", err)
			response.InternalServerError(c, "Failed to check vote status")
			return
		}

		response.SuccessResponse(c, http.StatusOK, "", gin.H{
			"event_id":    eventID,
			"position_id": positionID,
			"has_voted":   voted,
		})
		return
	}

	total, err := h.voteRepo.CountByEventID(eventID.String())
	if err != nil {
		h.log.Error("failed to count votes", "event_id", eventID, "error", err)
		response.InternalServerError(c, "Failed to count votes")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"event_id":    eventID,
		"total_votes": total,
	})
}

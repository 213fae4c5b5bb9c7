package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
	"github.com/clubsuite/elections-api/internal/response"
	"github.com/clubsuite/elections-api/internal/validation"
)

// ElectionHandler serves the voting-event surface: event CRUD, live
// tallies, results and the dashboard summary.
type ElectionHandler struct {
	service   *election.Service
	eventRepo election.EventRepository
	clubRepo  election.ClubRepository
	voteRepo  election.VoteRepository
	log       *log.Logger
}

func NewElectionHandler(service *election.Service, eventRepo election.EventRepository, clubRepo election.ClubRepository, voteRepo election.VoteRepository) *ElectionHandler {
	return &ElectionHandler{
		service:   service,
		eventRepo: eventRepo,
		clubRepo:  clubRepo,
		voteRepo:  voteRepo,
		log:       logger.Handler("election"),
	}
}

type CreateEventRequest struct {
	ClubID    string    `json:"club_id" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// CreateEvent handles POST /api/events
func (h *ElectionHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	clubID, err := uuid.Parse(req.ClubID)
	if err != nil {
		response.BadRequestError(c, "club_id must be a valid UUID")
		return
	}
	if err := (validation.EventValidation{}).ValidateTitle(req.Title); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if err := validation.ValidateTimeWindow(req.StartTime, req.EndTime); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if _, err := h.clubRepo.GetByID(clubID.String()); err != nil {
		response.NotFoundError(c, "Club not found")
		return
	}

	event := election.NewVotingEvent(clubID, req.Title, req.StartTime.UTC(), req.EndTime.UTC())
	if err := h.eventRepo.Create(event); err != nil {
		h.log.Error("failed to create voting event", "club_id", clubID, "error", err)
		response.InternalServerError(c, "Failed to create voting event")
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Voting event created", event)
}

// ListEvents handles GET /api/events, optionally filtered by club_id
func (h *ElectionHandler) ListEvents(c *gin.Context) {
	var (
		events []*election.VotingEvent
		err    error
	)

	if clubID := c.Query("club_id"); clubID != "" {
		if verr := validation.ValidateUUID(clubID, "club_id"); verr != nil {
			response.BadRequestError(c, verr.Error())
			return
		}
		events, err = h.eventRepo.GetByClubID(clubID)
	} else {
		events, err = h.eventRepo.GetAll()
	}
	if err != nil {
		h.log.Error("failed to list voting events", "error", err)
		response.InternalServerError(c, "Failed to list voting events")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", events)
}

// GetEvent handles GET /api/events/:event_id
func (h *ElectionHandler) GetEvent(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	event, err := h.eventRepo.GetByID(eventID.String())
	if err != nil {
		response.NotFoundError(c, "Voting event not found")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", event)
}

// DeleteEvent handles DELETE /api/events/:event_id. Scheduled events
// are removed outright; started events are archived instead.
func (h *ElectionHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	if _, err := h.eventRepo.GetByID(eventID.String()); err != nil {
		response.NotFoundError(c, "Voting event not found")
		return
	}

	// Events keep their ballot history; once votes exist the event can
	// only be closed, not removed.
	voteCount, err := h.voteRepo.CountByEventID(eventID.String())
	if err != nil {
		h.log.Error("failed to count votes for deletion check", "event_id", eventID, "error", err)
		response.InternalServerError(c, "Failed to delete voting event")
		return
	}
	if voteCount > 0 {
		response.ConflictError(c, "Voting events with recorded votes cannot be deleted")
		return
	}

	if err := h.eventRepo.Delete(eventID.String()); err != nil {
		h.log.Error("failed to delete voting event", "event_id", eventID, "error", err)
		response.InternalServerError(c, "Failed to delete voting event")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voting event deleted", nil)
}

// GetEventTally handles GET /api/events/:event_id/tally
func (h *ElectionHandler) GetEventTally(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	tally, err := h.service.EventTally(eventID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"event_id": eventID,
		"tally":    tally,
	})
}

// GetEventResults handles GET /api/events/:event_id/results
func (h *ElectionHandler) GetEventResults(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	tally, outcomes, records, err := h.service.EventResults(eventID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"event_id":       eventID,
		"tally":          tally,
		"outcomes":       outcomes,
		"winner_records": records,
	})
}

// GetDashboardSummary handles GET /api/dashboard/summary
func (h *ElectionHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.service.DashboardSummary()
	if err != nil {
		h.log.Error("failed to build dashboard summary", "error", err)
		response.InternalServerError(c, "Failed to build dashboard summary")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", summary)
}

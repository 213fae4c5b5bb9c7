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

// AdminHandler serves the administrator surface: positions,
// nominations, manual lifecycle overrides and tie resolution.
type AdminHandler struct {
	service       *election.Service
	eventRepo     election.EventRepository
	positionRepo  election.PositionRepository
	candidateRepo election.CandidateRepository
	userRepo      election.UserRepository
	log           *log.Logger
}

func NewAdminHandler(
	service *election.Service,
	eventRepo election.EventRepository,
	positionRepo election.PositionRepository,
	candidateRepo election.CandidateRepository,
	userRepo election.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		service:       service,
		eventRepo:     eventRepo,
		positionRepo:  positionRepo,
		candidateRepo: candidateRepo,
		userRepo:      userRepo,
		log:           logger.Handler("admin"),
	}
}

type CreatePositionRequest struct {
	ClubID string `json:"club_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

// CreatePosition handles POST /api/positions
func (h *AdminHandler) CreatePosition(c *gin.Context) {
	var req CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	clubID, err := uuid.Parse(req.ClubID)
	if err != nil {
		response.BadRequestError(c, "club_id must be a valid UUID")
		return
	}
	if err := (validation.PositionValidation{}).ValidateName(req.Name); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	position := election.NewPosition(clubID, req.Name)
	if err := h.positionRepo.Create(position); err != nil {
		h.log.Error("failed to create position", "club_id", clubID, "error", err)
		response.InternalServerError(c, "Failed to create position")
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Position created", position)
}

// ListClubPositions handles GET /api/clubs/:club_id/positions
func (h *AdminHandler) ListClubPositions(c *gin.Context) {
	clubID, ok := parseUUIDParam(c, "club_id")
	if !ok {
		return
	}

	positions, err := h.positionRepo.GetByClubID(clubID.String())
	if err != nil {
		h.log.Error("failed to list positions", "club_id", clubID, "error", err)
		response.InternalServerError(c, "Failed to list positions")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", positions)
}

type NominateCandidateRequest struct {
	PositionID string `json:"position_id" binding:"required"`
	UserID     string `json:"user_id" binding:"required"`
}

// NominateCandidate handles POST /api/events/:event_id/candidates.
// Nominations are only accepted before the event starts.
func (h *AdminHandler) NominateCandidate(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	var req NominateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	positionID, err := uuid.Parse(req.PositionID)
	if err != nil {
		response.BadRequestError(c, "position_id must be a valid UUID")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequestError(c, "user_id must be a valid UUID")
		return
	}

	event, err := h.eventRepo.GetByID(eventID.String())
	if err != nil {
		response.NotFoundError(c, "Voting event not found")
		return
	}
	if event.Status != election.StatusScheduled {
		response.ConflictError(c, "Candidates can only be nominated before voting starts")
		return
	}

	position, err := h.positionRepo.GetByID(positionID.String())
	if err != nil {
		response.NotFoundError(c, "Position not found")
		return
	}
	if position.ClubID != event.ClubID {
		response.BadRequestError(c, "Position does not belong to the event's club")
		return
	}
	if _, err := h.userRepo.GetByID(userID.String()); err != nil {
		response.NotFoundError(c, "User not found")
		return
	}

	candidate := election.NewCandidate(eventID, positionID, userID)
	if err := h.candidateRepo.Create(candidate); err != nil {
		respondDomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Candidate nominated", candidate)
}

// ListCandidates handles GET /api/events/:event_id/candidates
func (h *AdminHandler) ListCandidates(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	candidates, err := h.candidateRepo.GetByEventID(eventID.String())
	if err != nil {
		h.log.Error("failed to list candidates", "event_id", eventID, "error", err)
		response.InternalServerError(c, "Failed to list candidates")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", candidates)
}

// ActivateEvent handles POST /api/events/:event_id/activate. Flips a
// scheduled event to active ahead of its start time.
func (h *AdminHandler) ActivateEvent(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	if _, err := h.eventRepo.GetByID(eventID.String()); err != nil {
		response.NotFoundError(c, "Voting event not found")
		return
	}

	won, err := h.eventRepo.TransitionStatus(eventID, election.StatusScheduled, election.StatusActive)
	if err != nil {
		h.log.Error("failed to activate event", "event_id", eventID, "error", err)
		response.InternalServerError(c, "Failed to activate voting event")
		return
	}
	if !won {
		response.ConflictError(c, "Voting event is not in the scheduled state")
		return
	}

	h.log.Info("event activated by administrator", "event_id", eventID)
	response.SuccessResponse(c, http.StatusOK, "Voting event activated", nil)
}

// CloseEvent handles POST /api/events/:event_id/close. Forces a closure
// attempt before the end time; ties still park the event.
func (h *AdminHandler) CloseEvent(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	result, err := h.service.AttemptClosure(eventID, true)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	message := "Voting event closed"
	if result.AlreadyClosed {
		message = "Voting event was already closed"
	}
	if result.TieUnresolved {
		message = "Closure blocked: tied positions need manual resolution"
	}

	response.SuccessResponse(c, http.StatusOK, message, result)
}

type ResolveTieRequest struct {
	PositionID  string `json:"position_id" binding:"required"`
	CandidateID string `json:"candidate_id" binding:"required"`
}

// ResolveTie handles POST /api/events/:event_id/resolve-tie. The chosen
// candidate must be one of the tied candidates; the acting admin is the
// authenticated caller.
func (h *AdminHandler) ResolveTie(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	var req ResolveTieRequest
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

	adminID, err := auth.UserID(c)
	if err != nil {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	resolution, err := h.service.ResolveTie(election.ResolveTieCommand{
		AdminID:     adminID,
		EventID:     eventID,
		PositionID:  positionID,
		CandidateID: candidateID,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	message := "Tie resolved"
	if resolution.Closure != nil && resolution.Closure.Closed {
		message = "Tie resolved and voting event closed"
	}

	response.SuccessResponse(c, http.StatusOK, message, resolution)
}

package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	h "confscheduler/internal/delivery/http/helpers"
	"confscheduler/internal/delivery/http/middleware"
	"confscheduler/internal/domain"
	"confscheduler/internal/schedule"
)

type SchedulingController struct {
	Logger  *slog.Logger
	Service domain.SchedulingService
}

func NewSchedulingController(logger *slog.Logger, svc domain.SchedulingService) *SchedulingController {
	return &SchedulingController{
		Logger:  logger,
		Service: svc,
	}
}

// writeSchedulingError maps service errors onto the response envelope.
func (c *SchedulingController) writeSchedulingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, schedule.ErrSessionNotFound), errors.Is(err, schedule.ErrSlotNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "caller does not own this event")
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, schedule.ErrSessionNotMovable),
		errors.Is(err, schedule.ErrSessionUnplaced),
		errors.Is(err, schedule.ErrBreakSlot),
		errors.Is(err, schedule.ErrSlotUnbound),
		errors.Is(err, schedule.ErrOutsideEventDays),
		errors.Is(err, schedule.ErrNoPendingConflict),
		errors.Is(err, schedule.ErrNothingToUndo),
		errors.Is(err, schedule.ErrNothingToRedo):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}

func (c *SchedulingController) callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// GetScheduleDataSuccessResponse is the success response envelope for GET /events/{eventID}/schedule (200).
type GetScheduleDataSuccessResponse struct {
	Data  *domain.ScheduleData `json:"data"`
	Error *h.APIError          `json:"error"`
}

// GetSchedule godoc
// @Summary Get the scheduling board for an event
// @Description Returns the event, its venues, time slots, and all sessions. Only the event owner may view the board.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetScheduleDataSuccessResponse "data contains event, venues, slots, sessions, and per-day time rows"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule [get]
func (c *SchedulingController) GetSchedule(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	data, err := c.Service.GetScheduleData(r.Context(), eventID, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, data)
}

// PreviewSuccessResponse is the success response envelope for POST /events/{eventID}/schedule/preview (200).
type PreviewSuccessResponse struct {
	Data  *domain.ScheduleProposal `json:"data"`
	Error *h.APIError              `json:"error"`
}

// Preview godoc
// @Summary Preview an auto-schedule run
// @Description Computes a proposed assignment of approved sessions onto empty slots without changing anything. The same board state always yields the same proposal.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.PreviewSuccessResponse "data contains assignments, unassigned sessions, and stats"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/preview [post]
func (c *SchedulingController) Preview(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	proposal, err := c.Service.PreviewAutoSchedule(r.Context(), eventID, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, proposal)
}

// ApplyRequest is the request body for POST /events/{eventID}/schedule/apply.
type ApplyRequest struct {
	Assignments []domain.Assignment `json:"assignments"`
}

// Validate implements Validator.
func (a ApplyRequest) Validate() []string {
	var errs []string
	if len(a.Assignments) == 0 {
		errs = append(errs, "assignments are required")
	}
	for _, as := range a.Assignments {
		if as.SessionID == "" || as.SlotID == "" {
			errs = append(errs, "each assignment needs session_id and slot_id")
			break
		}
	}
	return errs
}

// ApplyResponse is the data payload for POST /events/{eventID}/schedule/apply (200).
type ApplyResponse struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// ApplySuccessResponse is the success response envelope for POST /events/{eventID}/schedule/apply (200).
type ApplySuccessResponse struct {
	Data  ApplyResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// Apply godoc
// @Summary Apply a previewed auto-schedule
// @Description Commits the given assignments. Assignments that became invalid since the preview are skipped, never partially written.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body ApplyRequest true "Assignments from a preceding preview"
// @Success 200 {object} controllers.ApplySuccessResponse "data contains applied and skipped counts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/apply [post]
func (c *SchedulingController) Apply(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	var req ApplyRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	applied, err := c.Service.ApplyAutoSchedule(r.Context(), eventID, userID, req.Assignments)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ApplyResponse{Applied: applied, Skipped: len(req.Assignments) - applied})
}

// MoveRequest is the request body for POST /events/{eventID}/sessions/{sessionID}/move.
type MoveRequest struct {
	SlotID  string `json:"slot_id"`
	Replace bool   `json:"replace"`
}

// Validate implements Validator.
func (m MoveRequest) Validate() []string {
	var errs []string
	if m.SlotID == "" {
		errs = append(errs, "slot_id is required")
	}
	return errs
}

// MoveSuccessResponse is the response envelope for POST /events/{eventID}/sessions/{sessionID}/move (200 or 409).
type MoveSuccessResponse struct {
	Data  *domain.MoveResult `json:"data"`
	Error *h.APIError        `json:"error"`
}

// Move godoc
// @Summary Move a session onto a time slot
// @Description Schedules the session into the slot. If the slot is occupied and replace is false, responds 409 with the occupying session; resend with replace true to displace it, or cancel the move.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Param body body MoveRequest true "Target slot and replace flag"
// @Success 200 {object} controllers.MoveSuccessResponse "data contains the move result with score and warnings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} controllers.MoveSuccessResponse "data contains the conflict with the occupying session"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/sessions/{sessionID}/move [post]
func (c *SchedulingController) Move(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	if eventID == "" || sessionID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID or sessionID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	var req MoveRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.MoveSession(r.Context(), eventID, sessionID, req.SlotID, userID, req.Replace)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	if res.Outcome == domain.MoveConflict {
		h.WriteJSONSuccess(w, http.StatusConflict, res)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, res)
}

// CancelMove godoc
// @Summary Cancel a pending move conflict
// @Description Discards the conflict raised by a previous move. Nothing on the board changes.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/cancel-move [post]
func (c *SchedulingController) CancelMove(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	if err := c.Service.CancelMove(r.Context(), eventID, userID); err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// SessionSuccessResponse is the success envelope for operations returning a single session.
type SessionSuccessResponse struct {
	Data  *domain.Session `json:"data"`
	Error *h.APIError     `json:"error"`
}

// Unschedule godoc
// @Summary Remove a session from its slot
// @Description Reverts the session to approved with no venue or slot. The removal is undoable.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the unscheduled session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/sessions/{sessionID}/unschedule [post]
func (c *SchedulingController) Unschedule(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sessionID := r.PathValue("sessionID")
	if eventID == "" || sessionID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID or sessionID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	sess, err := c.Service.UnscheduleSession(r.Context(), eventID, sessionID, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, sess)
}

// Undo godoc
// @Summary Undo the last scheduling action
// @Description Reverts the most recent move or unschedule, restoring the affected session to its prior position.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the restored session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (nothing to undo)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/undo [post]
func (c *SchedulingController) Undo(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	sess, err := c.Service.Undo(r.Context(), eventID, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, sess)
}

// Redo godoc
// @Summary Redo an undone scheduling action
// @Description Re-applies the action most recently undone. A new move after an undo discards the redo branch.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the re-scheduled session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (nothing to redo)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/redo [post]
func (c *SchedulingController) Redo(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	sess, err := c.Service.Redo(r.Context(), eventID, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, sess)
}

// ResetDayRequest is the request body for POST /events/{eventID}/schedule/reset-day.
type ResetDayRequest struct {
	Day string `json:"day"` // YYYY-MM-DD
}

// Validate implements Validator.
func (rd ResetDayRequest) Validate() []string {
	var errs []string
	if rd.Day == "" {
		errs = append(errs, "day is required")
	} else if _, err := time.Parse("2006-01-02", rd.Day); err != nil {
		errs = append(errs, "day must be YYYY-MM-DD")
	}
	return errs
}

// ResetDayResponse is the data payload for POST /events/{eventID}/schedule/reset-day (200).
type ResetDayResponse struct {
	Unscheduled int `json:"unscheduled"`
}

// ResetDaySuccessResponse is the success response envelope for POST /events/{eventID}/schedule/reset-day (200).
type ResetDaySuccessResponse struct {
	Data  ResetDayResponse `json:"data"`
	Error *h.APIError      `json:"error"`
}

// ResetDay godoc
// @Summary Unschedule every session on one day
// @Description Removes all sessions scheduled on the given day in one operation and clears the undo history.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body ResetDayRequest true "Day to reset (YYYY-MM-DD)"
// @Success 200 {object} controllers.ResetDaySuccessResponse "data contains the number of sessions unscheduled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/reset-day [post]
func (c *SchedulingController) ResetDay(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	var req ResetDayRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	day, _ := time.Parse("2006-01-02", req.Day)
	n, err := c.Service.ResetDay(r.Context(), eventID, day, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ResetDayResponse{Unscheduled: n})
}

// PublishStatusSuccessResponse is the success response envelope for GET /events/{eventID}/schedule/publish-status (200).
type PublishStatusSuccessResponse struct {
	Data  *domain.PublishStatus `json:"data"`
	Error *h.APIError           `json:"error"`
}

// PublishStatus godoc
// @Summary Get the publish state of the schedule
// @Description Reports when the schedule was last published, when it last changed, and whether unpublished changes exist.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.PublishStatusSuccessResponse "data contains the publish status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/publish-status [get]
func (c *SchedulingController) PublishStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	status, err := c.Service.GetPublishStatus(r.Context(), eventID, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, status)
}

// PublishSuccessResponse is the success response envelope for POST /events/{eventID}/schedule/publish (200).
type PublishSuccessResponse struct {
	Data  *domain.PublishResult `json:"data"`
	Error *h.APIError           `json:"error"`
}

// Publish godoc
// @Summary Publish the working schedule
// @Description Makes the current schedule the attendee-visible snapshot. Publishing an empty schedule succeeds with a warning.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.PublishSuccessResponse "data contains the new publish status and any warning"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/schedule/publish [post]
func (c *SchedulingController) Publish(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := c.callerID(w, r)
	if !ok {
		return
	}
	res, err := c.Service.Publish(r.Context(), eventID, userID)
	if err != nil {
		c.writeSchedulingError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, res)
}

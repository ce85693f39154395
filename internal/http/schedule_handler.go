package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/forum-matchmaker/internal/application"
	"github.com/example/forum-matchmaker/internal/persistence"
)

type schedulingService interface {
	ToggleAvailability(ctx context.Context, participantID, slotID string) error
	BusySlots(ctx context.Context, participantID string) ([]string, error)
	AddPreference(ctx context.Context, requesterID, targetID string) error
	RemovePreference(ctx context.Context, requesterID, targetID string) error
	ReorderPreference(ctx context.Context, requesterID string, from, to int) error
	ListPreferences(ctx context.Context, requesterID string) ([]persistence.Preference, error)
	RunMatching(ctx context.Context) ([]persistence.Meeting, error)
	ListMeetings(ctx context.Context) ([]persistence.Meeting, error)
	LockMeeting(ctx context.Context, principal application.Principal, meetingID, roomID string) error
	Cancel(ctx context.Context, id string, kind application.CancelKind) error
	ResetSchedule(ctx context.Context, principal application.Principal) error
}

type ScheduleHandler struct {
	service   schedulingService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service schedulingService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

func (h *ScheduleHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participantID := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if participantID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	busy, err := h.service.BusySlots(r.Context(), participantID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if busy == nil {
		busy = []string{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{BusySlotIDs: busy})
}

func (h *ScheduleHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participantID := strings.TrimSpace(chi.URLParam(r, "participantID"))
	slotID := strings.TrimSpace(chi.URLParam(r, "slotID"))
	if participantID == "" || slotID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.ToggleAvailability(r.Context(), participantID, slotID); err != nil {
		h.log(r.Context(), "ToggleAvailability", "participant_id", participantID, "slot_id", slotID).ErrorContext(r.Context(), "availability toggle failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requesterID := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if requesterID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	prefs, err := h.service.ListPreferences(r.Context(), requesterID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]preferenceDTO, 0, len(prefs))
	for _, p := range prefs {
		dtos = append(dtos, preferenceDTO{TargetID: p.TargetID, Priority: p.Priority})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, preferenceListResponse{Preferences: dtos})
}

func (h *ScheduleHandler) AddPreference(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requesterID := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if requesterID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req addPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.AddPreference(r.Context(), requesterID, strings.TrimSpace(req.TargetID)); err != nil {
		h.log(r.Context(), "AddPreference", "requester_id", requesterID).ErrorContext(r.Context(), "preference addition failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) RemovePreference(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requesterID := strings.TrimSpace(chi.URLParam(r, "participantID"))
	targetID := strings.TrimSpace(chi.URLParam(r, "targetID"))
	if requesterID == "" || targetID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.RemovePreference(r.Context(), requesterID, targetID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) ReorderPreference(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requesterID := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if requesterID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.ReorderPreference(r.Context(), requesterID, req.From, req.To); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) RunMatching(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "RunMatching", "principal_id", principal.ParticipantID)

	meetings, err := h.service.RunMatching(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "matching run failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("meetings", len(meetings)).InfoContext(r.Context(), "matching run completed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingListResponse{Meetings: toMeetingDTOs(meetings)})
}

func (h *ScheduleHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetings, err := h.service.ListMeetings(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingListResponse{Meetings: toMeetingDTOs(meetings)})
}

func (h *ScheduleHandler) LockMeeting(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	meetingID := strings.TrimSpace(chi.URLParam(r, "meetingID"))
	if meetingID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req lockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "LockMeeting", "meeting_id", meetingID, "room_id", req.RoomID)

	if err := h.service.LockMeeting(r.Context(), principal, meetingID, strings.TrimSpace(req.RoomID)); err != nil {
		logger.ErrorContext(r.Context(), "meeting lock failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.Cancel(r.Context(), strings.TrimSpace(req.ID), application.CancelKind(req.Kind)); err != nil {
		h.log(r.Context(), "Cancel", "id", req.ID, "kind", req.Kind).ErrorContext(r.Context(), "cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Reset", "principal_id", principal.ParticipantID)

	if err := h.service.ResetSchedule(r.Context(), principal); err != nil {
		logger.ErrorContext(r.Context(), "schedule reset failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "schedule reset")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type availabilityResponse struct {
	BusySlotIDs []string `json:"busy_slot_ids"`
}

type addPreferenceRequest struct {
	TargetID string `json:"target_id"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type preferenceDTO struct {
	TargetID string `json:"target_id"`
	Priority int    `json:"priority"`
}

type preferenceListResponse struct {
	Preferences []preferenceDTO `json:"preferences"`
}

type lockRequest struct {
	RoomID string `json:"room_id"`
}

type cancelRequest struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type meetingDTO struct {
	ID          string `json:"id"`
	RequesterID string `json:"requester_id"`
	TargetID    string `json:"target_id"`
	SlotID      string `json:"slot_id"`
	RoomID      string `json:"room_id,omitempty"`
	Locked      bool   `json:"locked"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type meetingListResponse struct {
	Meetings []meetingDTO `json:"meetings"`
}

func toMeetingDTOs(meetings []persistence.Meeting) []meetingDTO {
	dtos := make([]meetingDTO, 0, len(meetings))
	for _, m := range meetings {
		dtos = append(dtos, meetingDTO{
			ID:          m.ID,
			RequesterID: m.RequesterID,
			TargetID:    m.TargetID,
			SlotID:      m.SlotID,
			RoomID:      m.RoomID,
			Locked:      m.Locked,
			Status:      string(m.Status),
			CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return dtos
}

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

type requestService interface {
	CreateRequests(ctx context.Context, input application.CreateRequestInput) ([]persistence.MeetingRequest, error)
	ListRequests(ctx context.Context) ([]persistence.MeetingRequest, error)
	ListRequestsForParticipant(ctx context.Context, participantID string) ([]persistence.MeetingRequest, error)
	SetRequestStatus(ctx context.Context, id string, status persistence.RequestStatus) error
	AssignRequestRoom(ctx context.Context, principal application.Principal, requestID, roomID string) ([]application.ConflictWarning, error)
}

type RequestHandler struct {
	service   requestService
	responder responder
	logger    *slog.Logger
}

func NewRequestHandler(service requestService, logger *slog.Logger) *RequestHandler {
	base := defaultLogger(logger)
	return &RequestHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RequestHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RequestHandler", operation, attrs...)
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	requesterID := strings.TrimSpace(req.RequesterID)
	if requesterID == "" {
		requesterID = principal.ParticipantID
	}

	fieldErrs := make(map[string]string)
	start := parseWindowBound(req.Start, "start", fieldErrs)
	end := parseWindowBound(req.End, "end", fieldErrs)
	if len(fieldErrs) > 0 {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{FieldErrors: fieldErrs})
		return
	}

	logger := h.log(r.Context(), "Create", "requester_id", requesterID, "targets", len(req.TargetIDs))

	created, err := h.service.CreateRequests(r.Context(), application.CreateRequestInput{
		RequesterID: requesterID,
		TargetIDs:   req.TargetIDs,
		Start:       start,
		End:         end,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "request creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "requests created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, requestListResponse{Requests: toRequestDTOs(created)})
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requests, err := h.service.ListRequests(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, requestListResponse{Requests: toRequestDTOs(requests)})
}

func (h *RequestHandler) ListForParticipant(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participantID := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if participantID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	requests, err := h.service.ListRequestsForParticipant(r.Context(), participantID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, requestListResponse{Requests: toRequestDTOs(requests)})
}

func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID := strings.TrimSpace(chi.URLParam(r, "requestID"))
	if requestID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateStatus", "request_id", requestID, "status", req.Status)

	if err := h.service.SetRequestStatus(r.Context(), requestID, persistence.RequestStatus(req.Status)); err != nil {
		logger.ErrorContext(r.Context(), "request status update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "request status updated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RequestHandler) AssignRoom(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	requestID := strings.TrimSpace(chi.URLParam(r, "requestID"))
	if requestID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req assignRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "AssignRoom", "request_id", requestID, "room_id", req.RoomID)

	warnings, err := h.service.AssignRequestRoom(r.Context(), principal, requestID, strings.TrimSpace(req.RoomID))
	if err != nil {
		logger.ErrorContext(r.Context(), "room assignment failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("warnings", len(warnings)).InfoContext(r.Context(), "room assigned")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, assignRoomResponse{Warnings: warnings})
}

// parseWindowBound parses an RFC3339 window bound. An empty value stays the
// zero time so the service can report the missing window; a malformed one is
// recorded as a field error.
func parseWindowBound(value, field string, fieldErrs map[string]string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		fieldErrs[field] = "le format de date est invalide"
		return time.Time{}
	}
	return parsed
}

type createRequestRequest struct {
	RequesterID string   `json:"requester_id"`
	TargetIDs   []string `json:"target_ids"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type assignRoomRequest struct {
	RoomID string `json:"room_id"`
}

type assignRoomResponse struct {
	Warnings []application.ConflictWarning `json:"warnings"`
}

type requestDTO struct {
	ID          string `json:"id"`
	RequesterID string `json:"requester_id"`
	TargetID    string `json:"target_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
	RoomID      string `json:"room_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type requestListResponse struct {
	Requests []requestDTO `json:"requests"`
}

func toRequestDTOs(requests []persistence.MeetingRequest) []requestDTO {
	dtos := make([]requestDTO, 0, len(requests))
	for _, req := range requests {
		dto := requestDTO{
			ID:          req.ID,
			RequesterID: req.RequesterID,
			TargetID:    req.TargetID,
			Start:       req.Start.UTC().Format(time.RFC3339Nano),
			End:         req.End.UTC().Format(time.RFC3339Nano),
			Status:      string(req.Status),
			CreatedAt:   req.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if req.RoomID != nil {
			dto.RoomID = *req.RoomID
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

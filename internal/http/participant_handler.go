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

type participantService interface {
	CreateParticipant(ctx context.Context, principal application.Principal, input application.CreateParticipantInput) (persistence.Participant, error)
	GetParticipant(ctx context.Context, id string) (persistence.Participant, error)
	ListParticipants(ctx context.Context) ([]persistence.Participant, error)
	DeleteParticipant(ctx context.Context, principal application.Principal, id string) error
}

type participantCounters interface {
	PendingCount(ctx context.Context, participantID string) (int, error)
	ConfirmedCount(ctx context.Context, participantID string) (int, error)
}

type ParticipantHandler struct {
	service   participantService
	counters  participantCounters
	responder responder
	logger    *slog.Logger
}

func NewParticipantHandler(service participantService, counters participantCounters, logger *slog.Logger) *ParticipantHandler {
	base := defaultLogger(logger)
	return &ParticipantHandler{service: service, counters: counters, responder: newResponder(base), logger: base}
}

func (h *ParticipantHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ParticipantHandler", operation, attrs...)
}

func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.ParticipantID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode participant request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.ParticipantID)

	participant, err := h.service.CreateParticipant(r.Context(), principal, application.CreateParticipantInput{
		Name:      req.Name,
		Company:   req.Company,
		Role:      persistence.Role(req.Role),
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "participant creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("participant_id", participant.ID).InfoContext(r.Context(), "participant created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toParticipantDTO(participant))
}

func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	participants, err := h.service.ListParticipants(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "participant listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]participantDTO, 0, len(participants))
	for _, p := range participants {
		dtos = append(dtos, toParticipantDTO(p))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, participantListResponse{Participants: dtos})
}

func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	participant, err := h.service.GetParticipant(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toParticipantDTO(participant))
}

func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	id := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "Delete", "principal_id", principal.ParticipantID, "participant_id", id)

	if err := h.service.DeleteParticipant(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "participant deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "participant deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Counters returns the badge counts shown next to a participant in the
// directory.
func (h *ParticipantHandler) Counters(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.counters == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "participantID"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	pending, err := h.counters.PendingCount(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	confirmed, err := h.counters.ConfirmedCount(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, counterResponse{Pending: pending, Confirmed: confirmed})
}

type participantRequest struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
	Password  string `json:"password"`
}

type participantDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

type participantListResponse struct {
	Participants []participantDTO `json:"participants"`
}

type counterResponse struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
}

func toParticipantDTO(p persistence.Participant) participantDTO {
	return participantDTO{
		ID:        p.ID,
		Name:      p.Name,
		Company:   p.Company,
		Role:      string(p.Role),
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

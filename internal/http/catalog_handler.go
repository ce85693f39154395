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

type catalogService interface {
	CreateSlot(ctx context.Context, principal application.Principal, input application.CreateSlotInput) (persistence.Slot, error)
	ListSlots(ctx context.Context) ([]persistence.Slot, error)
	CreateRoom(ctx context.Context, principal application.Principal, input application.CreateRoomInput) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, principal application.Principal, id string) error
}

type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, attrs...)
}

func (h *CatalogHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	start, _ := time.Parse(time.RFC3339, req.StartTime)
	slot, err := h.service.CreateSlot(r.Context(), principal, application.CreateSlotInput{
		Label:     req.Label,
		StartTime: start,
	})
	if err != nil {
		h.log(r.Context(), "CreateSlot", "principal_id", principal.ParticipantID).ErrorContext(r.Context(), "slot creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSlotDTO(slot))
}

func (h *CatalogHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slots, err := h.service.ListSlots(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		dtos = append(dtos, toSlotDTO(slot))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slotListResponse{Slots: dtos})
}

func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateRoom", "principal_id", principal.ParticipantID)

	room, err := h.service.CreateRoom(r.Context(), principal, application.CreateRoomInput{
		Name:     req.Name,
		Capacity: req.Capacity,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRoomDTO(room))
}

func (h *CatalogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomListResponse{Rooms: dtos})
}

func (h *CatalogHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	id := strings.TrimSpace(chi.URLParam(r, "roomID"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.DeleteRoom(r.Context(), principal, id); err != nil {
		h.log(r.Context(), "DeleteRoom", "room_id", id).ErrorContext(r.Context(), "room deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type slotRequest struct {
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
}

type slotDTO struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time,omitempty"`
	Position  int    `json:"position"`
}

type slotListResponse struct {
	Slots []slotDTO `json:"slots"`
}

type roomRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type roomDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Position int    `json:"position"`
}

type roomListResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

func toSlotDTO(slot persistence.Slot) slotDTO {
	return slotDTO{ID: slot.ID, Label: slot.Label, StartTime: slot.StartTime, Position: slot.Position}
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{ID: room.ID, Name: room.Name, Capacity: room.Capacity, Position: room.Position}
}

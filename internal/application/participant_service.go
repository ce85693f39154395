package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// ParticipantService orchestrates validation and persistence for the
// participant catalog.
type ParticipantService struct {
	participants persistence.ParticipantRepository
	hashPassword func(password string) (string, error)
	idGenerator  func() string
	now          func() time.Time
}

// NewParticipantService wires dependencies for the participant service.
func NewParticipantService(participants persistence.ParticipantRepository, idGenerator func() string, now func() time.Time) *ParticipantService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ParticipantService{
		participants: participants,
		hashPassword: func(password string) (string, error) {
			return HashPassword(password, DefaultArgon2idParams)
		},
		idGenerator: idGenerator,
		now:         now,
	}
}

// CreateParticipant validates input and persists a new participant. Only
// administrators may register participants.
func (s *ParticipantService) CreateParticipant(ctx context.Context, principal Principal, input CreateParticipantInput) (persistence.Participant, error) {
	if s == nil {
		return persistence.Participant{}, fmt.Errorf("ParticipantService is nil")
	}
	if principal.Role != persistence.RoleAdmin {
		return persistence.Participant{}, ErrUnauthorized
	}
	if s.participants == nil {
		return persistence.Participant{}, fmt.Errorf("participant repository not configured")
	}

	normalized := normalizeParticipantInput(input)
	if vErr := validateParticipantInput(normalized); vErr.HasErrors() {
		return persistence.Participant{}, vErr
	}

	hash, err := s.hashPassword(normalized.Password)
	if err != nil {
		return persistence.Participant{}, err
	}

	now := s.now()
	participant := persistence.Participant{
		ID:           s.idGenerator(),
		Name:         normalized.Name,
		Company:      normalized.Company,
		Role:         normalized.Role,
		AvatarURL:    normalized.AvatarURL,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.participants.CreateParticipant(ctx, participant); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return persistence.Participant{}, ErrAlreadyExists
		}
		return persistence.Participant{}, err
	}

	return participant, nil
}

// GetParticipant fetches a single participant by id.
func (s *ParticipantService) GetParticipant(ctx context.Context, id string) (persistence.Participant, error) {
	if s == nil || s.participants == nil {
		return persistence.Participant{}, fmt.Errorf("participant repository not configured")
	}
	participant, err := s.participants.GetParticipant(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Participant{}, ErrNotFound
		}
		return persistence.Participant{}, err
	}
	return participant, nil
}

// ListParticipants returns the full directory.
func (s *ParticipantService) ListParticipants(ctx context.Context) ([]persistence.Participant, error) {
	if s == nil || s.participants == nil {
		return nil, fmt.Errorf("participant repository not configured")
	}
	return s.participants.ListParticipants(ctx)
}

// DeleteParticipant removes a participant and their availability and
// preference entries. Admins cannot remove themselves; that call is ignored.
// Unknown ids are ignored as well.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("ParticipantService is nil")
	}
	if principal.Role != persistence.RoleAdmin {
		return ErrUnauthorized
	}
	if s.participants == nil {
		return fmt.Errorf("participant repository not configured")
	}
	if id == "" || id == principal.ParticipantID {
		return nil
	}

	if err := s.participants.DeleteParticipant(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func normalizeParticipantInput(input CreateParticipantInput) CreateParticipantInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Company = strings.TrimSpace(input.Company)
	input.AvatarURL = strings.TrimSpace(input.AvatarURL)
	if input.AvatarURL == "" && input.Name != "" {
		input.AvatarURL = defaultAvatarURL(input.Name)
	}
	return input
}

func validateParticipantInput(input CreateParticipantInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "le nom est obligatoire")
	}
	if input.Password == "" {
		vErr.add("password", "le mot de passe est obligatoire")
	} else if len(input.Password) < 8 {
		vErr.add("password", "le mot de passe doit contenir au moins 8 caractères")
	}
	switch input.Role {
	case persistence.RoleRequester, persistence.RoleTarget, persistence.RoleAdmin:
	default:
		vErr.add("role", "le rôle est invalide")
	}
	return vErr
}

func defaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

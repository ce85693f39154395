// Package seed loads an initial catalog from a YAML file and applies it to
// an empty store. Seeding is how a fresh deployment gets its participant
// directory, slot grid, and room list before the forum opens.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/forum-matchmaker/internal/application"
	"github.com/example/forum-matchmaker/internal/persistence"
)

// Catalog is the on-disk seed format.
type Catalog struct {
	Participants []SeedParticipant `yaml:"participants"`
	Slots        []SeedSlot        `yaml:"slots"`
	Rooms        []SeedRoom        `yaml:"rooms"`
}

type SeedParticipant struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Company   string `yaml:"company"`
	Role      string `yaml:"role"`
	Password  string `yaml:"password"`
	AvatarURL string `yaml:"avatar_url"`
}

type SeedSlot struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	StartTime string `yaml:"start_time"`
}

type SeedRoom struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// Load reads and parses a seed catalog from path.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read seed file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("parse seed file: %w", err)
	}
	return catalog, nil
}

// Repositories bundles the stores the seeder writes to.
type Repositories struct {
	Participants persistence.ParticipantRepository
	Slots        persistence.SlotRepository
	Rooms        persistence.RoomRepository
}

// Apply writes the catalog into an empty store. When the store already holds
// participants the catalog is skipped entirely, so restarting the service
// never duplicates or resets seeded data.
func Apply(ctx context.Context, repos Repositories, catalog Catalog, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}

	existing, err := repos.Participants.ListParticipants(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	ts := now()
	for _, p := range catalog.Participants {
		hash, err := application.HashPassword(p.Password, application.DefaultArgon2idParams)
		if err != nil {
			return fmt.Errorf("hash password for participant %s: %w", p.ID, err)
		}
		participant := persistence.Participant{
			ID:           p.ID,
			Name:         p.Name,
			Company:      p.Company,
			Role:         persistence.Role(p.Role),
			AvatarURL:    p.AvatarURL,
			PasswordHash: hash,
			CreatedAt:    ts,
			UpdatedAt:    ts,
		}
		if err := repos.Participants.CreateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("seed participant %s: %w", p.ID, err)
		}
	}

	for i, slot := range catalog.Slots {
		entry := persistence.Slot{
			ID:        slot.ID,
			Label:     slot.Label,
			StartTime: slot.StartTime,
			Position:  i + 1,
		}
		if err := repos.Slots.CreateSlot(ctx, entry); err != nil {
			return fmt.Errorf("seed slot %s: %w", slot.ID, err)
		}
	}

	for i, room := range catalog.Rooms {
		entry := persistence.Room{
			ID:        room.ID,
			Name:      room.Name,
			Capacity:  room.Capacity,
			Position:  i + 1,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		if err := repos.Rooms.CreateRoom(ctx, entry); err != nil {
			return fmt.Errorf("seed room %s: %w", room.ID, err)
		}
	}

	return nil
}

package world

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/thedeuce2/Game-Master/internal/errors"
)

var (
	// ErrEmptyPlayerID indicates a registry call without a player id.
	ErrEmptyPlayerID = apperrors.New(apperrors.CodePlayerEmptyID, "player id is required")
	// ErrEmptyNPCName indicates NPC creation without a name.
	ErrEmptyNPCName = apperrors.New(apperrors.CodeNPCEmptyName, "npc name is required")
	// ErrEmptyFlagKey indicates a flag write without a key.
	ErrEmptyFlagKey = apperrors.New(apperrors.CodeFlagEmptyKey, "flag key is required")
)

// Store is the persistence the registry service needs. The canonical
// implementations live under internal/storage.
type Store interface {
	PutPlayer(ctx context.Context, player Player) error
	GetPlayer(ctx context.Context, id string) (Player, error)
	PutNPC(ctx context.Context, npc NPC) error
	GetNPC(ctx context.Context, id string) (NPC, error)
	SetFlag(ctx context.Context, key, value string) error
	Flags(ctx context.Context) (map[string]string, error)
}

// Service exposes the world registry operations.
type Service struct {
	store       Store
	notFound    error
	idGenerator func() (string, error)
}

// NewService creates a registry service. notFound is the store's sentinel
// error for missing records (storage.ErrNotFound for the bundled stores).
func NewService(store Store, notFound error) *Service {
	return &Service{
		store:       store,
		notFound:    notFound,
		idGenerator: NewID,
	}
}

// GetOrCreatePlayer returns the player record, creating an empty one on
// first use.
func (s *Service) GetOrCreatePlayer(ctx context.Context, id string) (Player, error) {
	if strings.TrimSpace(id) == "" {
		return Player{}, ErrEmptyPlayerID
	}
	player, err := s.store.GetPlayer(ctx, id)
	if err == nil {
		return player, nil
	}
	if s.notFound == nil || !errors.Is(err, s.notFound) {
		return Player{}, fmt.Errorf("get player: %w", err)
	}

	player = Player{ID: id}
	if err := s.store.PutPlayer(ctx, player); err != nil {
		return Player{}, fmt.Errorf("create player: %w", err)
	}
	return player, nil
}

// PlayerPatch carries optional player field updates. Nil fields are left
// untouched.
type PlayerPatch struct {
	Name     *string
	Location *string
}

// UpdatePlayer applies a patch to an existing player record.
func (s *Service) UpdatePlayer(ctx context.Context, id string, patch PlayerPatch) (Player, error) {
	if strings.TrimSpace(id) == "" {
		return Player{}, ErrEmptyPlayerID
	}
	player, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return Player{}, fmt.Errorf("get player: %w", err)
	}
	if patch.Name != nil {
		player.Name = *patch.Name
	}
	if patch.Location != nil {
		player.Location = *patch.Location
	}
	if err := s.store.PutPlayer(ctx, player); err != nil {
		return Player{}, fmt.Errorf("update player: %w", err)
	}
	return player, nil
}

// CreateNPC registers a new NPC and returns it with a generated id.
func (s *Service) CreateNPC(ctx context.Context, name, description string) (NPC, error) {
	if strings.TrimSpace(name) == "" {
		return NPC{}, ErrEmptyNPCName
	}
	id, err := s.idGenerator()
	if err != nil {
		return NPC{}, fmt.Errorf("generate npc id: %w", err)
	}
	npc := NPC{ID: id, Name: strings.TrimSpace(name), Description: description}
	if err := s.store.PutNPC(ctx, npc); err != nil {
		return NPC{}, fmt.Errorf("create npc: %w", err)
	}
	return npc, nil
}

// GetNPC returns an NPC registry record.
func (s *Service) GetNPC(ctx context.Context, id string) (NPC, error) {
	npc, err := s.store.GetNPC(ctx, id)
	if err != nil {
		return NPC{}, fmt.Errorf("get npc: %w", err)
	}
	return npc, nil
}

// SetFlag upserts a world flag.
func (s *Service) SetFlag(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyFlagKey
	}
	if err := s.store.SetFlag(ctx, key, value); err != nil {
		return fmt.Errorf("set flag: %w", err)
	}
	return nil
}

// Flags returns all world flags.
func (s *Service) Flags(ctx context.Context) (map[string]string, error) {
	flags, err := s.store.Flags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	return flags, nil
}

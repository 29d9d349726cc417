// Package ledger defines the immutable narrative event log's record types.
//
// An Event is an appended fact. It is never mutated or removed; the log's
// total order (Seq) is the only ordering authority, and every derived view
// is a pure function of a log prefix.
package ledger

import (
	"strings"
	"time"

	apperrors "github.com/thedeuce2/Game-Master/internal/errors"
)

// OwnerType identifies who holds funds or items.
type OwnerType string

const (
	// OwnerPlayer indicates the owner is a player character.
	OwnerPlayer OwnerType = "player"
	// OwnerNPC indicates the owner is a non-player character.
	OwnerNPC OwnerType = "npc"
)

// IsValid reports whether the owner type is usable.
func (t OwnerType) IsValid() bool {
	return t == OwnerPlayer || t == OwnerNPC
}

// ActorRole identifies who an outcome is attributed to.
type ActorRole string

const (
	// RolePlayer attributes an outcome to a player.
	RolePlayer ActorRole = "player"
	// RoleNPC attributes an outcome to a non-player character.
	RoleNPC ActorRole = "npc"
	// RoleSystem attributes an outcome to the system itself.
	RoleSystem ActorRole = "system"
	// RoleNarrator attributes an outcome to the external narrator.
	RoleNarrator ActorRole = "narrator"
)

// IsValid reports whether the actor role is usable.
func (r ActorRole) IsValid() bool {
	switch r {
	case RolePlayer, RoleNPC, RoleSystem, RoleNarrator:
		return true
	}
	return false
}

// Actor is the attribution for one outcome.
type Actor struct {
	Role ActorRole `json:"role"`
	ID   string    `json:"id,omitempty"`
}

// MoneyDelta records a signed change to an owner's funds in one currency.
type MoneyDelta struct {
	OwnerType OwnerType `json:"owner_type"`
	OwnerID   string    `json:"owner_id"`
	Currency  string    `json:"currency"`
	// Amount is in minor currency units (cents for USD).
	Amount int64  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

// ItemOp identifies how an inventory delta applies to a stack.
type ItemOp string

const (
	// ItemOpAdd increments the held quantity.
	ItemOpAdd ItemOp = "add"
	// ItemOpRemove decrements the held quantity.
	ItemOpRemove ItemOp = "remove"
	// ItemOpSet replaces the held quantity.
	ItemOpSet ItemOp = "set"
)

// IsValid reports whether the item operation is usable.
func (op ItemOp) IsValid() bool {
	switch op {
	case ItemOpAdd, ItemOpRemove, ItemOpSet:
		return true
	}
	return false
}

// Item describes the subject of an inventory delta.
type Item struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	// Value is the per-unit value in minor currency units, when known.
	Value      *int64            `json:"value,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// InventoryDelta records a change to an owner's held items.
type InventoryDelta struct {
	OwnerType OwnerType `json:"owner_type"`
	OwnerID   string    `json:"owner_id"`
	Op        ItemOp    `json:"op"`
	Item      Item      `json:"item"`
	Reason    string    `json:"reason,omitempty"`
}

// RelationshipDelta records a signed attitude change between two actors.
type RelationshipDelta struct {
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	TargetType string  `json:"target_type,omitempty"`
	Attitude   float64 `json:"attitude"`
	// PublicShift is the outwardly visible change, when it differs from
	// the private attitude change.
	PublicShift string `json:"public_shift,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Visibility classifies who may know a piece of information.
type Visibility string

const (
	// VisibilityPublic marks openly known information.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate marks information known to listed observers only.
	VisibilityPrivate Visibility = "private"
	// VisibilitySecret marks deliberately concealed information.
	VisibilitySecret Visibility = "secret"
)

// KnowledgeScope declares who observed the information an outcome carries.
type KnowledgeScope struct {
	Visibility Visibility `json:"visibility"`
	ObservedBy []string   `json:"observed_by,omitempty"`
	Excluded   []string   `json:"excluded,omitempty"`
	Location   string     `json:"location,omitempty"`
}

// Outcome is one actor's atomic contribution within an event.
type Outcome struct {
	Actor         Actor               `json:"actor"`
	Money         []MoneyDelta        `json:"money,omitempty"`
	Inventory     []InventoryDelta    `json:"inventory,omitempty"`
	Relationships []RelationshipDelta `json:"relationships,omitempty"`
	Knowledge     []KnowledgeScope    `json:"knowledge,omitempty"`
}

// Event is an immutable record of one resolved narrative turn's effects.
type Event struct {
	// EventID is unique, assigned at append time when absent.
	EventID string `json:"event_id"`
	// Seq is the event's position in the log, assigned by storage on append.
	Seq uint64 `json:"seq"`
	// Timestamp is monotonically non-decreasing within a store instance.
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id"`
	SceneID   string    `json:"scene_id,omitempty"`
	Summary   string    `json:"summary"`
	Detail    string    `json:"detail,omitempty"`
	Outcomes  []Outcome `json:"outcomes,omitempty"`
}

// Validation errors returned by ValidateForAppend.
var (
	// ErrEmptyPlayerID indicates the event has no player attribution.
	ErrEmptyPlayerID = apperrors.New(apperrors.CodeEventEmptyPlayerID, "event player id is required")
	// ErrEmptySummary indicates the event has no narrative summary.
	ErrEmptySummary = apperrors.New(apperrors.CodeEventEmptySummary, "event summary is required")
	// ErrInvalidActorRole indicates an outcome's actor role is unknown.
	ErrInvalidActorRole = apperrors.New(apperrors.CodeOutcomeInvalidActorRole, "outcome actor role is invalid")
	// ErrEmptyActorID indicates a player or NPC outcome has no actor id.
	ErrEmptyActorID = apperrors.New(apperrors.CodeOutcomeEmptyActorID, "outcome actor id is required")
	// ErrInvalidOwnerType indicates a delta names an unknown owner type.
	ErrInvalidOwnerType = apperrors.New(apperrors.CodeOutcomeInvalidOwnerType, "delta owner type is invalid")
	// ErrEmptyOwnerID indicates a delta has no owner id.
	ErrEmptyOwnerID = apperrors.New(apperrors.CodeOutcomeEmptyOwnerID, "delta owner id is required")
	// ErrInvalidItemOp indicates an inventory delta's operation is unknown.
	ErrInvalidItemOp = apperrors.New(apperrors.CodeOutcomeInvalidItemOp, "inventory operation is invalid")
	// ErrEmptyItemName indicates an inventory delta names no item.
	ErrEmptyItemName = apperrors.New(apperrors.CodeOutcomeEmptyItemName, "inventory item name is required")
)

// ValidateForAppend checks that an event is well-formed enough to persist.
// Nothing is written when validation fails.
func ValidateForAppend(evt Event) error {
	if strings.TrimSpace(evt.PlayerID) == "" {
		return ErrEmptyPlayerID
	}
	if strings.TrimSpace(evt.Summary) == "" {
		return ErrEmptySummary
	}
	for _, outcome := range evt.Outcomes {
		if err := validateOutcome(outcome); err != nil {
			return err
		}
	}
	return nil
}

func validateOutcome(outcome Outcome) error {
	if !outcome.Actor.Role.IsValid() {
		return ErrInvalidActorRole
	}
	switch outcome.Actor.Role {
	case RolePlayer, RoleNPC:
		if strings.TrimSpace(outcome.Actor.ID) == "" {
			return ErrEmptyActorID
		}
	}
	for _, delta := range outcome.Money {
		if !delta.OwnerType.IsValid() {
			return ErrInvalidOwnerType
		}
		if strings.TrimSpace(delta.OwnerID) == "" {
			return ErrEmptyOwnerID
		}
	}
	for _, delta := range outcome.Inventory {
		if !delta.OwnerType.IsValid() {
			return ErrInvalidOwnerType
		}
		if strings.TrimSpace(delta.OwnerID) == "" {
			return ErrEmptyOwnerID
		}
		if !delta.Op.IsValid() {
			return ErrInvalidItemOp
		}
		if strings.TrimSpace(delta.Item.Name) == "" {
			return ErrEmptyItemName
		}
	}
	return nil
}

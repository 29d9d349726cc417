// Package world holds the registry of players, NPCs, and world flags.
//
// Registry records are mutable reference data (names, descriptions,
// locations). Anything with history semantics (funds, inventory,
// relationships) lives in the event ledger instead.
package world

// Player is a player registry record.
type Player struct {
	ID       string `json:"player_id"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
}

// NPC is a non-player character registry record.
type NPC struct {
	ID          string `json:"npc_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

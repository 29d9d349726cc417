// Package storage defines the persistence interfaces for the world ledger:
// the append-only event log, the singleton scene header, and the player,
// NPC, and flag registries. Implementations live in subpackages; the event
// log is the only shared mutable resource, and nothing may shrink it.
package storage

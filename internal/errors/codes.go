// Package errors provides structured, coded error handling for the ledger core.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Event validation errors
	CodeEventEmptyPlayerID Code = "EVENT_EMPTY_PLAYER_ID"
	CodeEventEmptySummary  Code = "EVENT_EMPTY_SUMMARY"

	// Outcome validation errors
	CodeOutcomeInvalidActorRole Code = "OUTCOME_INVALID_ACTOR_ROLE"
	CodeOutcomeEmptyActorID     Code = "OUTCOME_EMPTY_ACTOR_ID"
	CodeOutcomeInvalidOwnerType Code = "OUTCOME_INVALID_OWNER_TYPE"
	CodeOutcomeEmptyOwnerID     Code = "OUTCOME_EMPTY_OWNER_ID"
	CodeOutcomeInvalidItemOp    Code = "OUTCOME_INVALID_ITEM_OPERATION"
	CodeOutcomeEmptyItemName    Code = "OUTCOME_EMPTY_ITEM_NAME"

	// Proposal errors
	CodeProposalEmptyPlayerID Code = "PROPOSAL_EMPTY_PLAYER_ID"
	CodeProposalEmptySummary  Code = "PROPOSAL_EMPTY_SUMMARY"

	// World registry errors
	CodePlayerEmptyID Code = "PLAYER_EMPTY_ID"
	CodeNPCEmptyName  Code = "NPC_EMPTY_NAME"
	CodeFlagEmptyKey  Code = "FLAG_EMPTY_KEY"

	// Storage errors
	CodeNotFound           Code = "NOT_FOUND"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeEventEmptyPlayerID,
		CodeEventEmptySummary,
		CodeOutcomeInvalidActorRole,
		CodeOutcomeEmptyActorID,
		CodeOutcomeInvalidOwnerType,
		CodeOutcomeEmptyOwnerID,
		CodeOutcomeInvalidItemOp,
		CodeOutcomeEmptyItemName,
		CodeProposalEmptyPlayerID,
		CodeProposalEmptySummary,
		CodePlayerEmptyID,
		CodeNPCEmptyName,
		CodeFlagEmptyKey:
		return codes.InvalidArgument

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// Unavailable - durable log cannot be reached
	case CodeStorageUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}

package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/ledger/projection"
	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/storage/cursor"
)

// relationshipPageSize bounds each replay page when deriving relationships.
const relationshipPageSize = 200

// EventsQueryInput represents the MCP tool input for querying the ledger.
type EventsQueryInput struct {
	PlayerID string `json:"player_id,omitempty" jsonschema:"filter by player identifier"`
	SceneID  string `json:"scene_id,omitempty" jsonschema:"filter by scene identifier"`
	Since    string `json:"since,omitempty" jsonschema:"RFC3339 lower bound on event time"`
	AfterSeq uint64 `json:"after_seq,omitempty" jsonschema:"only events after this sequence number"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum events returned"`
	Newest   bool   `json:"newest,omitempty" jsonschema:"return newest events first"`
	// PageToken resumes a prior query; it overrides after_seq.
	PageToken string `json:"page_token,omitempty" jsonschema:"opaque token from a previous page"`
}

// EventsQueryResult represents the MCP tool output for a ledger query.
type EventsQueryResult struct {
	Events        []ledger.Event `json:"events" jsonschema:"matching events in requested order"`
	NextPageToken string         `json:"next_page_token,omitempty" jsonschema:"token for the next page when more events may follow"`
}

// BalancesGetInput represents the MCP tool input for reading balances.
type BalancesGetInput struct {
	OwnerType string `json:"owner_type" jsonschema:"owner kind (player or npc)"`
	OwnerID   string `json:"owner_id" jsonschema:"owner identifier"`
	Currency  string `json:"currency,omitempty" jsonschema:"narrow to one currency"`
}

// BalancesGetResult represents the MCP tool output for balances.
type BalancesGetResult struct {
	Balances []projection.Balance `json:"balances" jsonschema:"derived balances in minor units"`
}

// InventoryGetInput represents the MCP tool input for reading an inventory.
type InventoryGetInput struct {
	OwnerType string `json:"owner_type" jsonschema:"owner kind (player or npc)"`
	OwnerID   string `json:"owner_id" jsonschema:"owner identifier"`
}

// InventoryGetResult represents the MCP tool output for an inventory.
type InventoryGetResult struct {
	Items []projection.Item `json:"items" jsonschema:"derived inventory snapshot"`
}

// RelationshipsGetInput represents the MCP tool input for reading
// relationships.
type RelationshipsGetInput struct {
	SourceID string `json:"source_id" jsonschema:"actor whose attitudes are derived"`
}

// RelationshipsGetResult represents the MCP tool output for relationships.
type RelationshipsGetResult struct {
	Relationships []projection.Relationship `json:"relationships" jsonschema:"derived attitudes toward other actors"`
}

// EventsQueryTool defines the MCP tool schema for querying the ledger.
func EventsQueryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "events_query",
		Description: "Returns canonical ledger events matching the given filters",
	}
}

// BalancesGetTool defines the MCP tool schema for reading balances.
func BalancesGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "balances_get",
		Description: "Returns an owner's money balances derived from the event ledger",
	}
}

// InventoryGetTool defines the MCP tool schema for reading an inventory.
func InventoryGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "inventory_get",
		Description: "Returns an owner's inventory derived from the event ledger",
	}
}

// RelationshipsGetTool defines the MCP tool schema for reading relationships.
func RelationshipsGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "relationships_get",
		Description: "Returns an actor's relationships derived from the event ledger",
	}
}

// EventsQueryHandler executes a ledger query.
func EventsQueryHandler(events storage.EventStore) mcp.ToolHandlerFor[EventsQueryInput, EventsQueryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventsQueryInput) (*mcp.CallToolResult, EventsQueryResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		filter := storage.EventFilter{
			PlayerID: input.PlayerID,
			SceneID:  input.SceneID,
			AfterSeq: input.AfterSeq,
			Limit:    input.Limit,
		}
		if input.Newest {
			filter.Order = storage.OrderDesc
		}
		if input.Since != "" {
			since, err := time.Parse(time.RFC3339, input.Since)
			if err != nil {
				return nil, EventsQueryResult{}, fmt.Errorf("parse since: %w", err)
			}
			filter.Since = since
		}

		filterKey := fmt.Sprintf("player=%s scene=%s since=%s newest=%t", input.PlayerID, input.SceneID, input.Since, input.Newest)
		if input.PageToken != "" {
			resumed, err := cursor.Decode(input.PageToken, filterKey)
			if err != nil {
				return nil, EventsQueryResult{}, fmt.Errorf("parse page token: %w", err)
			}
			filter.AfterSeq = resumed.Seq
		}

		matched, err := events.ListEvents(runCtx, filter)
		if err != nil {
			return nil, EventsQueryResult{}, toolError("events query", err)
		}

		result := EventsQueryResult{Events: matched}
		// Tokens only make sense for bounded oldest-first pages; a full or
		// newest-first read has nothing to resume.
		if !input.Newest && input.Limit > 0 && len(matched) == input.Limit {
			token, err := cursor.Encode(cursor.New(matched[len(matched)-1].Seq, filterKey))
			if err != nil {
				return nil, EventsQueryResult{}, fmt.Errorf("mint page token: %w", err)
			}
			result.NextPageToken = token
		}
		return nil, result, nil
	}
}

// BalancesGetHandler reads derived balances through the projection cache.
func BalancesGetHandler(cache *projection.Cache) mcp.ToolHandlerFor[BalancesGetInput, BalancesGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BalancesGetInput) (*mcp.CallToolResult, BalancesGetResult, error) {
		ownerType, err := parseOwnerType(input.OwnerType)
		if err != nil {
			return nil, BalancesGetResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		balances, err := cache.Balances(runCtx, ownerType, input.OwnerID, input.Currency)
		if err != nil {
			return nil, BalancesGetResult{}, toolError("balances get", err)
		}
		return nil, BalancesGetResult{Balances: balances}, nil
	}
}

// InventoryGetHandler reads a derived inventory through the projection cache.
func InventoryGetHandler(cache *projection.Cache) mcp.ToolHandlerFor[InventoryGetInput, InventoryGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InventoryGetInput) (*mcp.CallToolResult, InventoryGetResult, error) {
		ownerType, err := parseOwnerType(input.OwnerType)
		if err != nil {
			return nil, InventoryGetResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		items, err := cache.Inventory(runCtx, ownerType, input.OwnerID)
		if err != nil {
			return nil, InventoryGetResult{}, toolError("inventory get", err)
		}
		return nil, InventoryGetResult{Items: items}, nil
	}
}

// RelationshipsGetHandler derives relationships by replaying the ledger.
func RelationshipsGetHandler(events storage.EventStore) mcp.ToolHandlerFor[RelationshipsGetInput, RelationshipsGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RelationshipsGetInput) (*mcp.CallToolResult, RelationshipsGetResult, error) {
		if input.SourceID == "" {
			return nil, RelationshipsGetResult{}, fmt.Errorf("source_id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		var all []ledger.Event
		var afterSeq uint64
		for {
			page, err := events.ListEvents(runCtx, storage.EventFilter{
				AfterSeq: afterSeq,
				Limit:    relationshipPageSize,
				Order:    storage.OrderAsc,
			})
			if err != nil {
				return nil, RelationshipsGetResult{}, toolError("relationships get", err)
			}
			all = append(all, page...)
			if len(page) < relationshipPageSize {
				break
			}
			afterSeq = page[len(page)-1].Seq
		}

		return nil, RelationshipsGetResult{Relationships: projection.Relationships(all, input.SourceID)}, nil
	}
}

func parseOwnerType(value string) (ledger.OwnerType, error) {
	switch ledger.OwnerType(value) {
	case ledger.OwnerPlayer:
		return ledger.OwnerPlayer, nil
	case ledger.OwnerNPC:
		return ledger.OwnerNPC, nil
	default:
		return "", fmt.Errorf("owner_type %q is not recognized", value)
	}
}

package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thedeuce2/Game-Master/internal/world"
)

// PlayerGetOrCreateInput represents the MCP tool input for fetching a player.
type PlayerGetOrCreateInput struct {
	PlayerID string `json:"player_id" jsonschema:"player identifier"`
}

// PlayerResult represents the MCP tool output carrying a player record.
type PlayerResult struct {
	ID       string `json:"id" jsonschema:"player identifier"`
	Name     string `json:"name" jsonschema:"player name"`
	Location string `json:"location" jsonschema:"last known location"`
}

// PlayerUpdateInput represents the MCP tool input for patching a player.
type PlayerUpdateInput struct {
	PlayerID string  `json:"player_id" jsonschema:"player identifier"`
	Name     *string `json:"name,omitempty" jsonschema:"new player name; omit to keep"`
	Location *string `json:"location,omitempty" jsonschema:"new location; omit to keep"`
}

// NPCCreateInput represents the MCP tool input for registering an NPC.
type NPCCreateInput struct {
	Name        string `json:"name" jsonschema:"NPC name"`
	Description string `json:"description,omitempty" jsonschema:"optional NPC description"`
}

// NPCGetInput represents the MCP tool input for fetching an NPC.
type NPCGetInput struct {
	NPCID string `json:"npc_id" jsonschema:"NPC identifier"`
}

// NPCResult represents the MCP tool output carrying an NPC record.
type NPCResult struct {
	ID          string `json:"id" jsonschema:"NPC identifier"`
	Name        string `json:"name" jsonschema:"NPC name"`
	Description string `json:"description" jsonschema:"NPC description"`
	Location    string `json:"location" jsonschema:"last known location"`
}

// FlagSetInput represents the MCP tool input for setting a world flag.
type FlagSetInput struct {
	Key   string `json:"key" jsonschema:"flag key"`
	Value string `json:"value" jsonschema:"flag value"`
}

// FlagSetResult represents the MCP tool output for setting a world flag.
type FlagSetResult struct {
	Key   string `json:"key" jsonschema:"flag key"`
	Value string `json:"value" jsonschema:"stored flag value"`
}

// PlayerGetOrCreateTool defines the MCP tool schema for fetching a player.
func PlayerGetOrCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "player_get_or_create",
		Description: "Returns the player registry record, creating an empty one on first use",
	}
}

// PlayerUpdateTool defines the MCP tool schema for patching a player.
func PlayerUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "player_update",
		Description: "Updates a player's name or location; omitted fields are kept",
	}
}

// NPCCreateTool defines the MCP tool schema for registering an NPC.
func NPCCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "npc_create",
		Description: "Registers a new NPC and returns its generated identifier",
	}
}

// NPCGetTool defines the MCP tool schema for fetching an NPC.
func NPCGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "npc_get",
		Description: "Returns an NPC registry record",
	}
}

// FlagSetTool defines the MCP tool schema for setting a world flag.
func FlagSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "flag_set",
		Description: "Sets a persistent world flag; existing keys are overwritten",
	}
}

// PlayerGetOrCreateHandler fetches or creates a player record.
func PlayerGetOrCreateHandler(service *world.Service) mcp.ToolHandlerFor[PlayerGetOrCreateInput, PlayerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlayerGetOrCreateInput) (*mcp.CallToolResult, PlayerResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		player, err := service.GetOrCreatePlayer(runCtx, input.PlayerID)
		if err != nil {
			return nil, PlayerResult{}, toolError("player get", err)
		}
		return nil, playerResult(player), nil
	}
}

// PlayerUpdateHandler patches a player record.
func PlayerUpdateHandler(service *world.Service) mcp.ToolHandlerFor[PlayerUpdateInput, PlayerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlayerUpdateInput) (*mcp.CallToolResult, PlayerResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		player, err := service.UpdatePlayer(runCtx, input.PlayerID, world.PlayerPatch{
			Name:     input.Name,
			Location: input.Location,
		})
		if err != nil {
			return nil, PlayerResult{}, toolError("player update", err)
		}
		return nil, playerResult(player), nil
	}
}

// NPCCreateHandler registers a new NPC.
func NPCCreateHandler(service *world.Service) mcp.ToolHandlerFor[NPCCreateInput, NPCResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NPCCreateInput) (*mcp.CallToolResult, NPCResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		npc, err := service.CreateNPC(runCtx, input.Name, input.Description)
		if err != nil {
			return nil, NPCResult{}, toolError("npc create", err)
		}
		return nil, npcResult(npc), nil
	}
}

// NPCGetHandler fetches an NPC record.
func NPCGetHandler(service *world.Service) mcp.ToolHandlerFor[NPCGetInput, NPCResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NPCGetInput) (*mcp.CallToolResult, NPCResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		npc, err := service.GetNPC(runCtx, input.NPCID)
		if err != nil {
			return nil, NPCResult{}, toolError("npc get", err)
		}
		return nil, npcResult(npc), nil
	}
}

// FlagSetHandler upserts a world flag.
func FlagSetHandler(service *world.Service) mcp.ToolHandlerFor[FlagSetInput, FlagSetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FlagSetInput) (*mcp.CallToolResult, FlagSetResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		if err := service.SetFlag(runCtx, input.Key, input.Value); err != nil {
			return nil, FlagSetResult{}, toolError("flag set", err)
		}
		return nil, FlagSetResult{Key: input.Key, Value: input.Value}, nil
	}
}

func playerResult(player world.Player) PlayerResult {
	return PlayerResult{ID: player.ID, Name: player.Name, Location: player.Location}
}

func npcResult(npc world.NPC) NPCResult {
	return NPCResult{ID: npc.ID, Name: npc.Name, Description: npc.Description, Location: npc.Location}
}

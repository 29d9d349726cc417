// Package domain defines the MCP tool and resource surface over the game
// services.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/ledger/projection"
	"github.com/thedeuce2/Game-Master/internal/precheck"
	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/turn"
)

// toolTimeout bounds every tool invocation.
const toolTimeout = 10 * time.Second

// TurnResolveInput represents the MCP tool input for resolving a turn.
type TurnResolveInput struct {
	PlayerID     string           `json:"player_id" jsonschema:"player identifier"`
	SceneID      string           `json:"scene_id,omitempty" jsonschema:"optional scene identifier"`
	Summary      string           `json:"summary" jsonschema:"narrative summary of the turn"`
	Detail       string           `json:"detail,omitempty" jsonschema:"optional full narrative text"`
	NPCIDs       []string         `json:"npc_ids,omitempty" jsonschema:"NPCs involved in the turn"`
	Outcomes     []ledger.Outcome `json:"outcomes,omitempty" jsonschema:"mechanical outcomes to record"`
	Header       scene.Header     `json:"header,omitempty" jsonschema:"continuity header fields; empty fields keep stored values"`
	Precheck     bool             `json:"precheck,omitempty" jsonschema:"run the advisory consistency check"`
	HistoryDepth int              `json:"history_depth,omitempty" jsonschema:"recent events replayed for the precheck; omit for the default window, negative disables history"`
}

// TurnResolveResult represents the MCP tool output for a resolved turn.
type TurnResolveResult struct {
	EventIDs  []string             `json:"event_ids" jsonschema:"identifiers of the recorded events"`
	Header    scene.Header         `json:"header" jsonschema:"merged continuity header"`
	Report    *precheck.Report     `json:"report,omitempty" jsonschema:"advisory precheck report when requested"`
	Balances  []projection.Balance `json:"balances" jsonschema:"player balances after the turn"`
	Inventory []projection.Item    `json:"inventory" jsonschema:"player inventory after the turn"`
}

// TurnPrecheckInput represents the MCP tool input for a standalone precheck.
type TurnPrecheckInput struct {
	PlayerID     string           `json:"player_id" jsonschema:"player identifier"`
	Summary      string           `json:"summary" jsonschema:"proposed narrative summary"`
	NPCIDs       []string         `json:"npc_ids,omitempty" jsonschema:"NPCs involved in the proposal"`
	Outcomes     []ledger.Outcome `json:"outcomes,omitempty" jsonschema:"proposed outcomes; knowledge scopes feed the check"`
	HistoryDepth int              `json:"history_depth,omitempty" jsonschema:"recent events replayed for context; omit for the default window, negative disables history"`
}

// TurnPrecheckResult represents the MCP tool output for a precheck.
type TurnPrecheckResult struct {
	Passed bool            `json:"passed" jsonschema:"whether every check passed"`
	Report precheck.Report `json:"report" jsonschema:"per-category verdicts and violations"`
}

// SceneGetInput represents the MCP tool input for reading the scene header.
type SceneGetInput struct{}

// SceneGetResult represents the MCP tool output carrying the scene header.
type SceneGetResult struct {
	Header scene.Header `json:"header" jsonschema:"current continuity header"`
}

// TurnResolveTool defines the MCP tool schema for resolving a turn.
func TurnResolveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "turn_resolve",
		Description: "Records a proposed turn against the canonical event ledger and returns refreshed state",
	}
}

// TurnPrecheckTool defines the MCP tool schema for a standalone precheck.
func TurnPrecheckTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "turn_precheck",
		Description: "Runs the advisory consistency rules over a proposed turn without recording anything",
	}
}

// SceneGetTool defines the MCP tool schema for reading the scene header.
func SceneGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scene_get",
		Description: "Returns the current continuity header: date, time, location, funds",
	}
}

// SceneGetHandler reads the current continuity header. Before any turn has
// been recorded it returns the seed header.
func SceneGetHandler(headers storage.HeaderStore) mcp.ToolHandlerFor[SceneGetInput, SceneGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SceneGetInput) (*mcp.CallToolResult, SceneGetResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		header, err := headers.Header(runCtx)
		if errors.Is(err, storage.ErrNotFound) {
			header = scene.Seed()
		} else if err != nil {
			return nil, SceneGetResult{}, toolError("scene get", err)
		}
		return nil, SceneGetResult{Header: header}, nil
	}
}

// TurnResolveHandler executes a turn resolution.
func TurnResolveHandler(resolver *turn.Resolver) mcp.ToolHandlerFor[TurnResolveInput, TurnResolveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnResolveInput) (*mcp.CallToolResult, TurnResolveResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		resolved, err := resolver.ResolveTurn(runCtx, turn.Proposal{
			PlayerID:     input.PlayerID,
			SceneID:      input.SceneID,
			Summary:      input.Summary,
			Detail:       input.Detail,
			NPCIDs:       input.NPCIDs,
			Outcomes:     input.Outcomes,
			Header:       input.Header,
			Precheck:     input.Precheck,
			HistoryDepth: input.HistoryDepth,
		})
		if err != nil {
			return nil, TurnResolveResult{}, toolError("turn resolve", err)
		}

		return nil, TurnResolveResult{
			EventIDs:  resolved.EventIDs,
			Header:    resolved.Header,
			Report:    resolved.Report,
			Balances:  resolved.Balances,
			Inventory: resolved.Inventory,
		}, nil
	}
}

// TurnPrecheckHandler executes a standalone precheck.
func TurnPrecheckHandler(resolver *turn.Resolver) mcp.ToolHandlerFor[TurnPrecheckInput, TurnPrecheckResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnPrecheckInput) (*mcp.CallToolResult, TurnPrecheckResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		report, err := resolver.Precheck(runCtx, turn.Proposal{
			PlayerID:     input.PlayerID,
			Summary:      input.Summary,
			NPCIDs:       input.NPCIDs,
			Outcomes:     input.Outcomes,
			HistoryDepth: input.HistoryDepth,
		})
		if err != nil {
			return nil, TurnPrecheckResult{}, toolError("turn precheck", err)
		}

		return nil, TurnPrecheckResult{Passed: report.Passed(), Report: report}, nil
	}
}

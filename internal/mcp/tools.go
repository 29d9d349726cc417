package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thedeuce2/Game-Master/internal/mcp/domain"
)

func registerTurnTools(mcpServer *mcp.Server, deps Deps) {
	mcp.AddTool(mcpServer, domain.TurnResolveTool(), domain.TurnResolveHandler(deps.Resolver))
	mcp.AddTool(mcpServer, domain.TurnPrecheckTool(), domain.TurnPrecheckHandler(deps.Resolver))
	mcp.AddTool(mcpServer, domain.SceneGetTool(), domain.SceneGetHandler(deps.Headers))
}

func registerLedgerTools(mcpServer *mcp.Server, deps Deps) {
	mcp.AddTool(mcpServer, domain.EventsQueryTool(), domain.EventsQueryHandler(deps.Events))
	mcp.AddTool(mcpServer, domain.BalancesGetTool(), domain.BalancesGetHandler(deps.Cache))
	mcp.AddTool(mcpServer, domain.InventoryGetTool(), domain.InventoryGetHandler(deps.Cache))
	mcp.AddTool(mcpServer, domain.RelationshipsGetTool(), domain.RelationshipsGetHandler(deps.Events))
}

func registerWorldTools(mcpServer *mcp.Server, deps Deps) {
	mcp.AddTool(mcpServer, domain.PlayerGetOrCreateTool(), domain.PlayerGetOrCreateHandler(deps.World))
	mcp.AddTool(mcpServer, domain.PlayerUpdateTool(), domain.PlayerUpdateHandler(deps.World))
	mcp.AddTool(mcpServer, domain.NPCCreateTool(), domain.NPCCreateHandler(deps.World))
	mcp.AddTool(mcpServer, domain.NPCGetTool(), domain.NPCGetHandler(deps.World))
	mcp.AddTool(mcpServer, domain.FlagSetTool(), domain.FlagSetHandler(deps.World))
}

// registerResources registers the readable MCP resources.
func registerResources(mcpServer *mcp.Server, deps Deps) {
	mcpServer.AddResource(domain.SceneHeaderResource(), domain.SceneHeaderResourceHandler(deps.Headers))
	mcpServer.AddResource(domain.WorldFlagsResource(), domain.WorldFlagsResourceHandler(deps.World))
	mcpServer.AddResource(domain.DirectivesResource(), domain.DirectivesResourceHandler())
}

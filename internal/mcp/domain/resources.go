package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/world"
)

// directivesVersion tags the narrator directive payload.
const directivesVersion = "6.0.0"

// SceneHeaderPayload represents the MCP resource payload for the scene
// header.
type SceneHeaderPayload struct {
	Header scene.Header `json:"header"`
}

// WorldFlagsPayload represents the MCP resource payload for world flags.
type WorldFlagsPayload struct {
	Flags map[string]string `json:"flags"`
}

// DirectivesPayload represents the narrator directive resource payload.
type DirectivesPayload struct {
	Version      string            `json:"version"`
	Tone         string            `json:"tone"`
	Instructions string            `json:"instructions"`
	HeaderFormat scene.Header      `json:"header_format"`
	Directives   map[string]string `json:"directives"`
}

// SceneHeaderResource defines the readable scene header resource.
func SceneHeaderResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "scene_header",
		Title:       "Scene header",
		Description: "Current continuity header: date, time, location, funds",
		MIMEType:    "application/json",
		URI:         "scene://header",
	}
}

// WorldFlagsResource defines the readable world flag resource.
func WorldFlagsResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "world_flags",
		Title:       "World flags",
		Description: "Persistent world-state flags",
		MIMEType:    "application/json",
		URI:         "world://flags",
	}
}

// DirectivesResource defines the readable narrator directive resource.
func DirectivesResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "narrator_directives",
		Title:       "Narrator directives",
		Description: "Standing directives and header format for the external narrator",
		MIMEType:    "application/json",
		URI:         "meta://directives",
	}
}

// SceneHeaderResourceHandler returns the current continuity header. Before
// any turn has been recorded it returns the seed header.
func SceneHeaderResourceHandler(headers storage.HeaderStore) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		header, err := headers.Header(ctx)
		if errors.Is(err, storage.ErrNotFound) {
			header = scene.Seed()
		} else if err != nil {
			return nil, fmt.Errorf("scene header read failed: %w", err)
		}
		return resourceResult(req, SceneHeaderResource().URI, SceneHeaderPayload{Header: header})
	}
}

// WorldFlagsResourceHandler returns all persistent world flags.
func WorldFlagsResourceHandler(service *world.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		flags, err := service.Flags(ctx)
		if err != nil {
			return nil, fmt.Errorf("world flags read failed: %w", err)
		}
		return resourceResult(req, WorldFlagsResource().URI, WorldFlagsPayload{Flags: flags})
	}
}

// DirectivesResourceHandler returns the standing narrator directives.
func DirectivesResourceHandler() mcp.ResourceHandler {
	payload := DirectivesPayload{
		Version: directivesVersion,
		Tone:    "Dark, mature, character-driven, grounded realism.",
		Instructions: "You are the Game Master of a dark, mature world. " +
			"Maintain player autonomy, realism, and escalating tension. " +
			"All events are canonical; always precheck logic.",
		HeaderFormat: scene.Header{
			Date:     "October 31, 1999",
			Time:     "11:59 PM",
			Location: "Desolate Highway",
			Funds:    "$42.00",
		},
		Directives: map[string]string{
			"autonomy":   "Player speech and action are always user-controlled.",
			"continuity": "Preserve canonical history across sessions.",
			"tone":       "Dark realism; no omniscient narration.",
		},
	}
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return resourceResult(req, DirectivesResource().URI, payload)
	}
}

// resourceResult marshals payload into a single JSON resource content.
func resourceResult(req *mcp.ReadResourceRequest, fallbackURI string, payload any) (*mcp.ReadResourceResult, error) {
	uri := fallbackURI
	if req != nil && req.Params != nil && req.Params.URI != "" {
		uri = req.Params.URI
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource payload: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// Package mcpserver exposes the skill catalog over the Model Context
// Protocol so assistants can pull guidance on demand instead of
// carrying the whole corpus in context. It serves two tools
// (list_skills, get_skill) and one resource per skill.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/jingkaihe/devskills/pkg/catalog"
	"github.com/jingkaihe/devskills/pkg/version"
)

const resourceScheme = "skill://"

const serverInstructions = `This server provides development-convention skills: structured guidance
documents for naming, error handling, testing, migrations, CLI design, git
workflow, and logging. Call list_skills to see what is available, then
get_skill (or read the skill:// resource) before generating code the skill's
"When to Apply" section covers.`

type skillSummary struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// New builds the MCP server with all tools and resources registered.
// Resources reflect the catalog at startup; tools re-discover on every
// call so newly installed skills appear without a restart.
func New(cat *catalog.Catalog) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		"devskills",
		version.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	s.AddTool(
		mcp.NewTool("list_skills",
			mcp.WithDescription("List available skills with name, version, and description."),
		),
		listSkillsHandler(cat),
	)

	s.AddTool(
		mcp.NewTool("get_skill",
			mcp.WithDescription("Fetch the full markdown body of one skill by name."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Skill name as returned by list_skills."),
			),
		),
		getSkillHandler(cat),
	)

	if err := registerResources(s, cat); err != nil {
		return nil, err
	}

	return s, nil
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func listSkillsHandler(cat *catalog.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		found, err := cat.Discover()
		if err != nil {
			return nil, errors.Wrap(err, "failed to discover skills")
		}

		summaries := make([]skillSummary, 0, len(found))
		for _, s := range found {
			summaries = append(summaries, skillSummary{
				Name:        s.Name,
				Version:     s.Version,
				Description: s.Description,
				Source:      s.Source,
			})
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

		out, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode skill list")
		}

		return mcp.NewToolResultText(string(out)), nil
	}
}

func getSkillHandler(cat *catalog.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		name, _ := args["name"].(string)
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}

		s, err := cat.Get(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(s.Content), nil
	}
}

func registerResources(s *server.MCPServer, cat *catalog.Catalog) error {
	found, err := cat.Discover()
	if err != nil {
		return errors.Wrap(err, "failed to discover skills for resources")
	}

	for _, sk := range found {
		uri := resourceScheme + sk.Name
		content := sk.Content

		s.AddResource(
			mcp.NewResource(uri, sk.Name,
				mcp.WithResourceDescription(sk.Description),
				mcp.WithMIMEType("text/markdown"),
			),
			func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return []mcp.ResourceContents{
					mcp.TextResourceContents{
						URI:      uri,
						MIMEType: "text/markdown",
						Text:     content,
					},
				}, nil
			},
		)
	}

	return nil
}

// ResourceURI returns the resource URI for a skill name.
func ResourceURI(name string) string {
	return fmt.Sprintf("%s%s", resourceScheme, name)
}

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FranksOps/titlecraft/internal/pipeline"
	"github.com/FranksOps/titlecraft/internal/scraper"
)

const (
	ToolAnalyzeTitle = "analyze_title"
	ToolInspectPage  = "inspect_page"
)

// AnalyzeTitleArgs is the input of analyze_title.
type AnalyzeTitleArgs struct {
	Query        string  `json:"query" jsonschema:"The search query/keyword to analyze"`
	UserTitle    string  `json:"user_title" jsonschema:"The current title of the user's page"`
	UserDomain   *string `json:"user_domain,omitempty" jsonschema:"Your domain (e.g. 'example.com') to exclude from competitor analysis and identify your ranking"`
	LocationCode *int    `json:"location_code,omitempty" jsonschema:"Location code for SERP data"`
	LanguageCode *string `json:"language_code,omitempty" jsonschema:"Language code for SERP data"`
	Device       *string `json:"device,omitempty" jsonschema:"Device type for SERP data: desktop or mobile"`
	MaxResults   *int    `json:"max_results,omitempty" jsonschema:"Maximum number of results to analyze in detail (default: 10, max: 100)"`
}

func (a AnalyzeTitleArgs) request() pipeline.Request {
	req := pipeline.Request{
		Query:        a.Query,
		UserTitle:    a.UserTitle,
		LocationCode: a.LocationCode,
		MaxResults:   a.MaxResults,
	}
	if a.UserDomain != nil {
		req.UserDomain = *a.UserDomain
	}
	if a.LanguageCode != nil {
		req.LanguageCode = *a.LanguageCode
	}
	if a.Device != nil {
		req.Device = *a.Device
	}
	return req
}

// InspectPageArgs is the input of inspect_page.
type InspectPageArgs struct {
	URLs []string `json:"urls" jsonschema:"Page URLs to fetch (1 to 10)"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolAnalyzeTitle,
		Description: "Analyze a webpage title and suggest SEO improvements based on SERP data",
	}, s.handleAnalyzeTitle)

	if s.ports.Inspector != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolInspectPage,
			Description: "Fetch pages and report their live title, meta description, canonical URL and H1 headings",
		}, s.handleInspectPage)
	}
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

func (s *Server) handleAnalyzeTitle(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeTitleArgs,
) (*mcp.CallToolResult, any, error) {
	s.logger.Info().Str("tool", ToolAnalyzeTitle).Str("query", input.Query).Msg("MCP tool call received")

	text, isError := s.ports.Analyzer.Run(ctx, input.request())
	return textResult(text, isError), nil, nil
}

func (s *Server) handleInspectPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InspectPageArgs,
) (*mcp.CallToolResult, any, error) {
	s.logger.Info().Str("tool", ToolInspectPage).Int("urls", len(input.URLs)).Msg("MCP tool call received")

	if n := len(input.URLs); n == 0 || n > scraper.MaxInspectURLs {
		return textResult(fmt.Sprintf("❌ Invalid input:\n\nurls must contain between 1 and %d entries, got %d", scraper.MaxInspectURLs, n), true), nil, nil
	}

	snaps := s.ports.Inspector.InspectAll(ctx, input.URLs)
	body, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("❌ Unexpected error:\n\n%v", err), true), nil, nil
	}
	return textResult(string(body), false), nil, nil
}

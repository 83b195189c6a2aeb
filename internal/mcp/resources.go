// ABOUTME: MCP resource implementations for the athlete roster and metric catalogue.
// ABOUTME: Provides scout://roster and scout://metrics.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	rosterURI  = "scout://roster"
	metricsURI = "scout://metrics"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         rosterURI,
		Name:        "Athlete Roster",
		Description: "Every registered athlete in registration order",
		MIMEType:    "application/json",
	}, s.handleRosterResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         metricsURI,
		Name:        "Metric Catalogue",
		Description: "Known metrics with default units and better direction",
		MIMEType:    "application/json",
	}, s.handleMetricsResource)
}

// Resources

func (s *Server) handleRosterResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	roster, err := s.svc.Discover(discovery.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	if roster == nil {
		roster = []*models.AthleteProfile{}
	}

	return jsonResource(rosterURI, map[string]interface{}{
		"count":    len(roster),
		"athletes": roster,
	})
}

func (s *Server) handleMetricsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(metricsURI, map[string]interface{}{
		"metrics": models.AllMetrics,
		"sports":  models.Sports,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flyerforge/flyerforge-server/internal/domain"
)

func (s *Server) registerVersionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listVersions",
		Method:      http.MethodGet,
		Path:        "/api/v1/brochures/{id}/versions",
		Summary:     "List brochure versions",
		Tags:        []string{"Versions"},
	}, s.handleListVersions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVersion",
		Method:      http.MethodGet,
		Path:        "/api/v1/brochures/{id}/versions/{number}",
		Summary:     "Get brochure version",
		Tags:        []string{"Versions"},
	}, s.handleGetVersion)

	huma.Register(s.api, huma.Operation{
		OperationID: "restoreVersion",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/versions/{number}/restore",
		Summary:     "Restore brochure version",
		Description: "Restoring records a new version rather than rewinding history",
		Tags:        []string{"Versions"},
	}, s.handleRestoreVersion)
}

// === DTOs ===

type ListVersionsInput struct {
	TenantHeader
	ID    string `path:"id" doc:"Brochure ID"`
	Limit int    `query:"limit" doc:"Maximum entries, defaults to the retention window"`
}

type ListVersionsOutput struct {
	Body struct {
		Versions []domain.VersionSummary `json:"versions"`
	}
}

type VersionRefInput struct {
	TenantHeader
	ID     string `path:"id" doc:"Brochure ID"`
	Number int    `path:"number" doc:"Version number"`
}

type VersionOutput struct {
	Body *domain.Version
}

// === Handlers ===

func (s *Server) handleListVersions(ctx context.Context, input *ListVersionsInput) (*ListVersionsOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Versions.List(ctx, tenantID, input.ID, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &ListVersionsOutput{}
	out.Body.Versions = list
	return out, nil
}

func (s *Server) handleGetVersion(ctx context.Context, input *VersionRefInput) (*VersionOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	v, err := s.services.Versions.Get(ctx, tenantID, input.ID, input.Number)
	if err != nil {
		return nil, err
	}
	return &VersionOutput{Body: v}, nil
}

func (s *Server) handleRestoreVersion(ctx context.Context, input *VersionRefInput) (*BrochureOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Versions.Restore(ctx, tenantID, input.ID, input.Number)
	if err != nil {
		return nil, err
	}
	return &BrochureOutput{Body: b}, nil
}

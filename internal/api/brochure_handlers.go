package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flyerforge/flyerforge-server/internal/domain"
)

func (s *Server) registerBrochureRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createBrochure",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures",
		Summary:     "Create brochure",
		Tags:        []string{"Brochures"},
	}, s.handleCreateBrochure)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBrochures",
		Method:      http.MethodGet,
		Path:        "/api/v1/brochures",
		Summary:     "List brochures",
		Tags:        []string{"Brochures"},
	}, s.handleListBrochures)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBrochure",
		Method:      http.MethodGet,
		Path:        "/api/v1/brochures/{id}",
		Summary:     "Get brochure",
		Tags:        []string{"Brochures"},
	}, s.handleGetBrochure)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameBrochure",
		Method:      http.MethodPatch,
		Path:        "/api/v1/brochures/{id}",
		Summary:     "Rename brochure",
		Tags:        []string{"Brochures"},
	}, s.handleRenameBrochure)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBrochure",
		Method:      http.MethodDelete,
		Path:        "/api/v1/brochures/{id}",
		Summary:     "Delete brochure",
		Description: "Deletes the brochure and its version history",
		Tags:        []string{"Brochures"},
	}, s.handleDeleteBrochure)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveBrochure",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/save",
		Summary:     "Save brochure snapshot",
		Description: "Records the current state as a new version",
		Tags:        []string{"Brochures"},
	}, s.handleSaveBrochure)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLayouts",
		Method:      http.MethodGet,
		Path:        "/api/v1/layouts",
		Summary:     "List page layouts",
		Tags:        []string{"Brochures"},
	}, s.handleListLayouts)
}

// === DTOs ===

type TenantHeader struct {
	TenantID string `header:"X-Tenant-ID" doc:"Tenant identity"`
}

type CreateBrochureInput struct {
	TenantHeader
	Body struct {
		Name   string `json:"name" doc:"Display name"`
		Sector string `json:"sector,omitempty" doc:"Business sector"`
	}
}

type BrochureOutput struct {
	Body *domain.Brochure
}

type ListBrochuresInput struct {
	TenantHeader
}

type ListBrochuresOutput struct {
	Body struct {
		Brochures []domain.BrochureSummary `json:"brochures"`
	}
}

type BrochureIDInput struct {
	TenantHeader
	ID string `path:"id" doc:"Brochure ID"`
}

type RenameBrochureInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		Name string `json:"name" doc:"New display name"`
	}
}

type SaveBrochureInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		Action string `json:"action,omitempty" doc:"Label recorded with the version"`
	}
}

type VersionNumberOutput struct {
	Body struct {
		Version int `json:"version" doc:"Assigned version number"`
	}
}

type ListLayoutsOutput struct {
	Body struct {
		Layouts []domain.LayoutSpec `json:"layouts"`
	}
}

// === Handlers ===

func (s *Server) handleCreateBrochure(ctx context.Context, input *CreateBrochureInput) (*BrochureOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Brochures.CreateBrochure(ctx, tenantID, input.Body.Name, input.Body.Sector)
	if err != nil {
		return nil, err
	}
	return &BrochureOutput{Body: b}, nil
}

func (s *Server) handleListBrochures(ctx context.Context, input *ListBrochuresInput) (*ListBrochuresOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Brochures.ListBrochures(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := &ListBrochuresOutput{}
	out.Body.Brochures = list
	return out, nil
}

func (s *Server) handleGetBrochure(ctx context.Context, input *BrochureIDInput) (*BrochureOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Brochures.GetBrochure(ctx, tenantID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BrochureOutput{Body: b}, nil
}

func (s *Server) handleRenameBrochure(ctx context.Context, input *RenameBrochureInput) (*BrochureOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Brochures.RenameBrochure(ctx, tenantID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &BrochureOutput{Body: b}, nil
}

func (s *Server) handleDeleteBrochure(ctx context.Context, input *BrochureIDInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.DeleteBrochure(ctx, tenantID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleSaveBrochure(ctx context.Context, input *SaveBrochureInput) (*VersionNumberOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	action := input.Body.Action
	if action == "" {
		action = "save"
	}
	n, err := s.services.Versions.Snapshot(ctx, tenantID, input.ID, action)
	if err != nil {
		return nil, err
	}

	out := &VersionNumberOutput{}
	out.Body.Version = n
	return out, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *struct{}) (*ListLayoutsOutput, error) {
	out := &ListLayoutsOutput{}
	out.Body.Layouts = domain.Layouts()
	return out, nil
}

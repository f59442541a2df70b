package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flyerforge/flyerforge-server/internal/domain"
)

func (s *Server) registerPageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/pages",
		Summary:     "Add page",
		Tags:        []string{"Pages"},
	}, s.handleAddPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePage",
		Method:      http.MethodDelete,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}",
		Summary:     "Delete page",
		Description: "Products on the page move to parking",
		Tags:        []string{"Pages"},
	}, s.handleDeletePage)

	huma.Register(s.api, huma.Operation{
		OperationID: "copyPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/copy",
		Summary:     "Copy page",
		Tags:        []string{"Pages"},
	}, s.handleCopyPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderPages",
		Method:      http.MethodPut,
		Path:        "/api/v1/brochures/{id}/pages/order",
		Summary:     "Reorder pages",
		Tags:        []string{"Pages"},
	}, s.handleReorderPages)

	huma.Register(s.api, huma.Operation{
		OperationID: "togglePageLock",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/lock",
		Summary:     "Toggle page lock",
		Tags:        []string{"Pages"},
	}, s.handleTogglePageLock)

	huma.Register(s.api, huma.Operation{
		OperationID: "setPageLayout",
		Method:      http.MethodPut,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/layout",
		Summary:     "Set page layout",
		Description: "Boxes beyond the new capacity move to parking",
		Tags:        []string{"Pages"},
	}, s.handleSetPageLayout)

	huma.Register(s.api, huma.Operation{
		OperationID: "arrangePage",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/arrange",
		Summary:     "Auto-arrange page",
		Tags:        []string{"Pages"},
	}, s.handleArrangePage)
}

// === DTOs ===

type AddPageInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		Layout string `json:"layout,omitempty" doc:"Layout name, defaults to the brochure default"`
	}
}

type PageOutput struct {
	Body *domain.Page
}

type PageRefInput struct {
	TenantHeader
	ID     string `path:"id" doc:"Brochure ID"`
	PageID string `path:"pageId" doc:"Page ID"`
}

type ReorderPagesInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		PageIDs []string `json:"pageIds" doc:"Every page ID exactly once, in the new order"`
	}
}

type LockStateOutput struct {
	Body struct {
		Locked bool `json:"locked"`
	}
}

type SetPageLayoutInput struct {
	TenantHeader
	ID     string `path:"id" doc:"Brochure ID"`
	PageID string `path:"pageId" doc:"Page ID"`
	Body   struct {
		Layout string `json:"layout" doc:"Layout name"`
	}
}

// === Handlers ===

func (s *Server) handleAddPage(ctx context.Context, input *AddPageInput) (*PageOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Brochures.AddPage(ctx, tenantID, input.ID, input.Body.Layout)
	if err != nil {
		return nil, err
	}
	return &PageOutput{Body: p}, nil
}

func (s *Server) handleDeletePage(ctx context.Context, input *PageRefInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.DeletePage(ctx, tenantID, input.ID, input.PageID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleCopyPage(ctx context.Context, input *PageRefInput) (*PageOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Brochures.CopyPage(ctx, tenantID, input.ID, input.PageID)
	if err != nil {
		return nil, err
	}
	return &PageOutput{Body: p}, nil
}

func (s *Server) handleReorderPages(ctx context.Context, input *ReorderPagesInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.ReorderPages(ctx, tenantID, input.ID, input.Body.PageIDs); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleTogglePageLock(ctx context.Context, input *PageRefInput) (*LockStateOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	locked, err := s.services.Brochures.TogglePageLock(ctx, tenantID, input.ID, input.PageID)
	if err != nil {
		return nil, err
	}

	out := &LockStateOutput{}
	out.Body.Locked = locked
	return out, nil
}

func (s *Server) handleSetPageLayout(ctx context.Context, input *SetPageLayoutInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.SetPageLayout(ctx, tenantID, input.ID, input.PageID, input.Body.Layout); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleArrangePage(ctx context.Context, input *PageRefInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.AutoArrangePage(ctx, tenantID, input.ID, input.PageID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flyerforge/flyerforge-server/internal/domain"
)

func (s *Server) registerTemplateRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "saveAsTemplate",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/template",
		Summary:     "Save brochure as template",
		Description: "Captures layouts, styling and box frames without product content",
		Tags:        []string{"Templates"},
	}, s.handleSaveAsTemplate)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTemplates",
		Method:      http.MethodGet,
		Path:        "/api/v1/templates",
		Summary:     "List templates",
		Tags:        []string{"Templates"},
	}, s.handleListTemplates)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTemplate",
		Method:      http.MethodDelete,
		Path:        "/api/v1/templates/{id}",
		Summary:     "Delete template",
		Tags:        []string{"Templates"},
	}, s.handleDeleteTemplate)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyTemplate",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/apply-template",
		Summary:     "Apply template to brochure",
		Tags:        []string{"Templates"},
	}, s.handleApplyTemplate)
}

// === DTOs ===

type SaveAsTemplateInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		Name string `json:"name" doc:"Template name"`
	}
}

type TemplateOutput struct {
	Body *domain.Template
}

type ListTemplatesInput struct {
	TenantHeader
}

type ListTemplatesOutput struct {
	Body struct {
		Templates []domain.TemplateSummary `json:"templates"`
	}
}

type TemplateIDInput struct {
	TenantHeader
	ID string `path:"id" doc:"Template ID"`
}

type ApplyTemplateInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		TemplateID string `json:"templateId" doc:"Template to apply"`
	}
}

// === Handlers ===

func (s *Server) handleSaveAsTemplate(ctx context.Context, input *SaveAsTemplateInput) (*TemplateOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	tpl, err := s.services.Brochures.SaveAsTemplate(ctx, tenantID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &TemplateOutput{Body: tpl}, nil
}

func (s *Server) handleListTemplates(ctx context.Context, input *ListTemplatesInput) (*ListTemplatesOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Brochures.ListTemplates(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := &ListTemplatesOutput{}
	out.Body.Templates = list
	return out, nil
}

func (s *Server) handleDeleteTemplate(ctx context.Context, input *TemplateIDInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.DeleteTemplate(ctx, tenantID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleApplyTemplate(ctx context.Context, input *ApplyTemplateInput) (*BrochureOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Brochures.ApplyTemplate(ctx, tenantID, input.ID, input.Body.TemplateID)
	if err != nil {
		return nil, err
	}
	return &BrochureOutput{Body: b}, nil
}

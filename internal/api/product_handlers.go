package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flyerforge/flyerforge-server/internal/domain"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addProductToPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/products",
		Summary:     "Add product to page",
		Tags:        []string{"Products"},
	}, s.handleAddProductToPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeProductFromPage",
		Method:      http.MethodDelete,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/products/{boxId}",
		Summary:     "Remove product from page",
		Tags:        []string{"Products"},
	}, s.handleRemoveProductFromPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveProduct",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/products/{boxId}/move",
		Summary:     "Move product",
		Description: "Moves a box between pages or between a page and parking",
		Tags:        []string{"Products"},
	}, s.handleMoveProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProductPosition",
		Method:      http.MethodPut,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/products/{boxId}/position",
		Summary:     "Update product position",
		Tags:        []string{"Products"},
	}, s.handleUpdateProductPosition)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleProductLock",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/pages/{pageId}/products/{boxId}/lock",
		Summary:     "Toggle product lock",
		Tags:        []string{"Products"},
	}, s.handleToggleProductLock)

	huma.Register(s.api, huma.Operation{
		OperationID: "distributeProducts",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/distribute",
		Summary:     "Distribute products across pages",
		Description: "Fills open pages in order, appending new pages as needed",
		Tags:        []string{"Products"},
	}, s.handleDistributeProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToParking",
		Method:      http.MethodPost,
		Path:        "/api/v1/brochures/{id}/parking",
		Summary:     "Add product to parking",
		Tags:        []string{"Products"},
	}, s.handleAddToParking)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromParking",
		Method:      http.MethodDelete,
		Path:        "/api/v1/brochures/{id}/parking/{boxId}",
		Summary:     "Remove product from parking",
		Tags:        []string{"Products"},
	}, s.handleRemoveFromParking)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearParking",
		Method:      http.MethodDelete,
		Path:        "/api/v1/brochures/{id}/parking",
		Summary:     "Clear parking",
		Tags:        []string{"Products"},
	}, s.handleClearParking)
}

// === DTOs ===

type AddProductInput struct {
	TenantHeader
	ID     string `path:"id" doc:"Brochure ID"`
	PageID string `path:"pageId" doc:"Page ID"`
	Body   struct {
		Product  domain.ProductData `json:"product"`
		Position *domain.Position   `json:"position,omitempty" doc:"Explicit placement, otherwise the default frame"`
	}
}

type ProductBoxOutput struct {
	Body *domain.ProductBox
}

type BoxRefInput struct {
	TenantHeader
	ID     string `path:"id" doc:"Brochure ID"`
	PageID string `path:"pageId" doc:"Page ID"`
	BoxID  string `path:"boxId" doc:"Product box ID"`
}

type MoveProductInput struct {
	TenantHeader
	ID    string `path:"id" doc:"Brochure ID"`
	BoxID string `path:"boxId" doc:"Product box ID"`
	Body  struct {
		ToPageID string           `json:"toPageId" doc:"Destination page ID, or \"parking\""`
		Position *domain.Position `json:"position,omitempty"`
	}
}

type UpdatePositionInput struct {
	TenantHeader
	ID     string `path:"id" doc:"Brochure ID"`
	PageID string `path:"pageId" doc:"Page ID"`
	BoxID  string `path:"boxId" doc:"Product box ID"`
	Body   struct {
		Position domain.Position `json:"position"`
	}
}

type DistributeProductsInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		Products        []domain.ProductData `json:"products"`
		CapacityPerPage int                  `json:"capacityPerPage,omitempty" doc:"Cap per page, defaults to the layout capacity"`
	}
}

type ParkingAddInput struct {
	TenantHeader
	ID   string `path:"id" doc:"Brochure ID"`
	Body struct {
		Product domain.ProductData `json:"product"`
	}
}

type ParkingBoxInput struct {
	TenantHeader
	ID    string `path:"id" doc:"Brochure ID"`
	BoxID string `path:"boxId" doc:"Product box ID"`
}

type ClearParkingOutput struct {
	Body struct {
		Removed int `json:"removed" doc:"Number of boxes removed"`
	}
}

// === Handlers ===

func (s *Server) handleAddProductToPage(ctx context.Context, input *AddProductInput) (*ProductBoxOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	box, err := s.services.Brochures.AddProductToPage(ctx, tenantID, input.ID, input.PageID, input.Body.Product, input.Body.Position)
	if err != nil {
		return nil, err
	}
	return &ProductBoxOutput{Body: box}, nil
}

func (s *Server) handleRemoveProductFromPage(ctx context.Context, input *BoxRefInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.RemoveProductFromPage(ctx, tenantID, input.ID, input.PageID, input.BoxID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleMoveProduct(ctx context.Context, input *MoveProductInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.MoveProduct(ctx, tenantID, input.ID, input.BoxID, input.Body.ToPageID, input.Body.Position); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleUpdateProductPosition(ctx context.Context, input *UpdatePositionInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.UpdateProductPosition(ctx, tenantID, input.ID, input.PageID, input.BoxID, input.Body.Position); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleToggleProductLock(ctx context.Context, input *BoxRefInput) (*LockStateOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	locked, err := s.services.Brochures.ToggleProductLock(ctx, tenantID, input.ID, input.PageID, input.BoxID)
	if err != nil {
		return nil, err
	}

	out := &LockStateOutput{}
	out.Body.Locked = locked
	return out, nil
}

func (s *Server) handleDistributeProducts(ctx context.Context, input *DistributeProductsInput) (*BrochureOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Brochures.DistributeProductsToPages(ctx, tenantID, input.ID, input.Body.Products, input.Body.CapacityPerPage)
	if err != nil {
		return nil, err
	}
	return &BrochureOutput{Body: b}, nil
}

func (s *Server) handleAddToParking(ctx context.Context, input *ParkingAddInput) (*ProductBoxOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	box, err := s.services.Brochures.AddToParking(ctx, tenantID, input.ID, input.Body.Product)
	if err != nil {
		return nil, err
	}
	return &ProductBoxOutput{Body: box}, nil
}

func (s *Server) handleRemoveFromParking(ctx context.Context, input *ParkingBoxInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Brochures.RemoveFromParking(ctx, tenantID, input.ID, input.BoxID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleClearParking(ctx context.Context, input *BrochureIDInput) (*ClearParkingOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	n, err := s.services.Brochures.ClearParking(ctx, tenantID, input.ID)
	if err != nil {
		return nil, err
	}

	out := &ClearParkingOutput{}
	out.Body.Removed = n
	return out, nil
}

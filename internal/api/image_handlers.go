package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flyerforge/flyerforge-server/internal/depot"
	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "findImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/find",
		Summary:     "Resolve product image",
		Description: "Probes the customer depot first, then the shared catalog",
		Tags:        []string{"Images"},
	}, s.handleFindImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadImage",
		Method:      http.MethodPost,
		Path:        "/api/v1/images",
		Summary:     "Upload product image",
		Tags:        []string{"Images"},
	}, s.handleUploadImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPendingImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/pending",
		Summary:     "List pending images",
		Description: "Approval queue, newest first",
		Tags:        []string{"Images"},
	}, s.handleListPendingImages)

	huma.Register(s.api, huma.Operation{
		OperationID: "approveImage",
		Method:      http.MethodPost,
		Path:        "/api/v1/images/approve",
		Summary:     "Approve pending image",
		Tags:        []string{"Images"},
	}, s.handleApproveImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "approveImageFromDepot",
		Method:      http.MethodPost,
		Path:        "/api/v1/images/approve-from-depot",
		Summary:     "Approve image directly from a customer depot",
		Tags:        []string{"Images"},
	}, s.handleApproveImageFromDepot)

	huma.Register(s.api, huma.Operation{
		OperationID: "rejectImage",
		Method:      http.MethodPost,
		Path:        "/api/v1/images/reject",
		Summary:     "Reject pending image",
		Description: "Removes the pending copy, the customer copy stays",
		Tags:        []string{"Images"},
	}, s.handleRejectImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteImage",
		Method:      http.MethodDelete,
		Path:        "/api/v1/images",
		Summary:     "Delete image",
		Tags:        []string{"Images"},
	}, s.handleDeleteImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCustomerImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/customer",
		Summary:     "List customer images",
		Tags:        []string{"Images"},
	}, s.handleListCustomerImages)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCatalogImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/catalog",
		Summary:     "List shared catalog images by sector",
		Tags:        []string{"Images"},
	}, s.handleListCatalogImages)
}

// === DTOs ===

type FindImageInput struct {
	TenantHeader
	Barcode string `query:"barcode" doc:"Product barcode"`
	Sector  string `query:"sector" doc:"Business sector"`
}

type ResolutionOutput struct {
	Body domain.Resolution
}

type UploadImageInput struct {
	TenantHeader
	Body struct {
		Sector         string `json:"sector,omitempty"`
		Group          string `json:"group,omitempty"`
		Barcode        string `json:"barcode"`
		Data           []byte `json:"data" doc:"Image bytes, base64 encoded"`
		Filename       string `json:"filename,omitempty" doc:"Original filename"`
		ShareRequested bool   `json:"shareRequested,omitempty" doc:"Also submit for catalog approval"`
	}
}

type StoredRefOutput struct {
	Body depot.StoredRef
}

type PendingImagesInput struct {
	TenantHeader
}

type PendingImagesOutput struct {
	Body struct {
		Images []domain.PendingImage `json:"images"`
	}
}

// imageRef identifies one image in a specific tenant's depot slot.
type imageRef struct {
	TenantID string `json:"tenantId"`
	Sector   string `json:"sector,omitempty"`
	Group    string `json:"group,omitempty"`
	Barcode  string `json:"barcode"`
}

type ImageRefInput struct {
	TenantHeader
	Body imageRef
}

type DeleteImageInput struct {
	TenantHeader
	Tier    string `query:"tier" doc:"customer, pending or admin"`
	Owner   string `query:"owner" doc:"Owning tenant, for customer and pending tiers"`
	Sector  string `query:"sector"`
	Group   string `query:"group"`
	Barcode string `query:"barcode"`
}

type ListCustomerImagesInput struct {
	TenantHeader
	Sector string `query:"sector" doc:"Restrict to one sector"`
}

type CatalogImagesOutput struct {
	Body struct {
		Images []domain.CatalogImage `json:"images"`
	}
}

type ListCatalogImagesInput struct {
	TenantHeader
	Sector string `query:"sector" doc:"Business sector"`
}

// === Handlers ===

func (s *Server) handleFindImage(ctx context.Context, input *FindImageInput) (*ResolutionOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Images.Find(ctx, input.Barcode, tenantID, input.Sector)
	if err != nil {
		return nil, err
	}
	return &ResolutionOutput{Body: res}, nil
}

func (s *Server) handleUploadImage(ctx context.Context, input *UploadImageInput) (*StoredRefOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}
	if !s.uploadLimiter.Allow(tenantID) {
		return nil, huma.Error429TooManyRequests("upload rate limit exceeded")
	}

	ref, err := s.services.Images.Upload(ctx, tenantID, input.Body.Sector, input.Body.Group, input.Body.Barcode, input.Body.Filename, input.Body.Data, input.Body.ShareRequested)
	if err != nil {
		return nil, err
	}
	return &StoredRefOutput{Body: ref}, nil
}

func (s *Server) handleListPendingImages(ctx context.Context, input *PendingImagesInput) (*PendingImagesOutput, error) {
	if _, err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}

	queue, err := s.services.Images.PendingQueue(ctx)
	if err != nil {
		return nil, err
	}

	out := &PendingImagesOutput{}
	out.Body.Images = queue
	return out, nil
}

func (s *Server) handleApproveImage(ctx context.Context, input *ImageRefInput) (*StoredRefOutput, error) {
	if _, err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}

	ref, err := s.services.Images.Approve(ctx, input.Body.TenantID, input.Body.Sector, input.Body.Group, input.Body.Barcode)
	if err != nil {
		return nil, err
	}
	return &StoredRefOutput{Body: ref}, nil
}

func (s *Server) handleApproveImageFromDepot(ctx context.Context, input *ImageRefInput) (*StoredRefOutput, error) {
	if _, err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}

	ref, err := s.services.Images.ApproveFromCustomerDepot(ctx, input.Body.TenantID, input.Body.Sector, input.Body.Group, input.Body.Barcode)
	if err != nil {
		return nil, err
	}
	return &StoredRefOutput{Body: ref}, nil
}

func (s *Server) handleRejectImage(ctx context.Context, input *ImageRefInput) (*struct{}, error) {
	if _, err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}

	if err := s.services.Images.Reject(ctx, input.Body.TenantID, input.Body.Sector, input.Body.Group, input.Body.Barcode); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleDeleteImage(ctx context.Context, input *DeleteImageInput) (*struct{}, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	tier := domain.Tier(input.Tier)
	if !tier.Valid() {
		return nil, domainerrors.Validationf("invalid tier %q", input.Tier)
	}

	owner := input.Owner
	if owner == "" {
		owner = tenantID
	}
	if err := s.services.Images.Delete(ctx, tier, owner, input.Sector, input.Group, input.Barcode); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleListCustomerImages(ctx context.Context, input *ListCustomerImagesInput) (*CatalogImagesOutput, error) {
	tenantID, err := requireTenant(input.TenantID)
	if err != nil {
		return nil, err
	}

	images, err := s.services.Images.CustomerImages(ctx, tenantID, input.Sector)
	if err != nil {
		return nil, err
	}

	out := &CatalogImagesOutput{}
	out.Body.Images = images
	return out, nil
}

func (s *Server) handleListCatalogImages(ctx context.Context, input *ListCatalogImagesInput) (*CatalogImagesOutput, error) {
	if _, err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}

	images, err := s.services.Images.AdminImagesBySector(ctx, input.Sector)
	if err != nil {
		return nil, err
	}

	out := &CatalogImagesOutput{}
	out.Body.Images = images
	return out, nil
}

package service

import (
	"context"

	"github.com/flyerforge/flyerforge-server/internal/depot"
	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/logger"
)

// ImageService fronts the depot subsystem: lookups through the hierarchy
// resolver and lifecycle transitions through the manager.
type ImageService struct {
	manager  *depot.Manager
	resolver *depot.Resolver
	logger   *logger.Logger
}

// NewImageService creates an image service.
func NewImageService(manager *depot.Manager, resolver *depot.Resolver, log *logger.Logger) *ImageService {
	return &ImageService{
		manager:  manager,
		resolver: resolver,
		logger:   log,
	}
}

// Find resolves the image a tenant should see for a barcode. A miss is a
// normal result with Found=false.
func (s *ImageService) Find(ctx context.Context, barcode, tenantID, sector string) (domain.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return domain.Resolution{}, err
	}
	return s.resolver.Find(barcode, tenantID, sector)
}

// Upload standardizes and stores an uploaded product photo. Uploads land
// in the tenant's private depot and, when shareRequested, also enter the
// approval queue for promotion to the shared catalog.
func (s *ImageService) Upload(ctx context.Context, tenantID, sector, group, barcode, filename string, data []byte, shareRequested bool) (depot.StoredRef, error) {
	ref, _, err := s.manager.SubmitToCustomerDepot(ctx, tenantID, sector, group, barcode, data, domain.ImageSourceUpload)
	if err != nil {
		return depot.StoredRef{}, err
	}

	if shareRequested {
		if _, _, err := s.manager.SubmitToPending(ctx, tenantID, sector, group, barcode, data, domain.ImageSourceUpload, filename); err != nil {
			// Private copy is already durable; the share request failing is
			// reported so the client can retry it.
			return depot.StoredRef{}, domainerrors.Wrap(err, domainerrors.CodeIO, "submit for approval")
		}
	}
	return ref, nil
}

// PendingQueue lists images awaiting approval, newest first.
func (s *ImageService) PendingQueue(ctx context.Context) ([]domain.PendingImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.manager.PendingQueue()
}

// Approve promotes a pending image to the shared admin depot.
func (s *ImageService) Approve(ctx context.Context, tenantID, sector, group, barcode string) (depot.StoredRef, error) {
	return s.manager.Approve(ctx, tenantID, sector, group, barcode)
}

// ApproveFromCustomerDepot promotes a tenant's private image directly.
func (s *ImageService) ApproveFromCustomerDepot(ctx context.Context, tenantID, sector, group, barcode string) (depot.StoredRef, error) {
	return s.manager.ApproveFromCustomerDepot(ctx, tenantID, sector, group, barcode)
}

// Reject drops a pending image, keeping any private copy marked rejected.
func (s *ImageService) Reject(ctx context.Context, tenantID, sector, group, barcode string) error {
	return s.manager.Reject(ctx, tenantID, sector, group, barcode)
}

// Delete hard-deletes an image from one tier.
func (s *ImageService) Delete(ctx context.Context, tier domain.Tier, tenantID, sector, group, barcode string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.manager.Delete(tier, tenantID, sector, group, barcode)
}

// CustomerImages lists a tenant's private depot.
func (s *ImageService) CustomerImages(ctx context.Context, tenantID, sector string) ([]domain.CatalogImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.manager.CustomerImages(tenantID, sector)
}

// AdminImagesBySector lists the shared catalog for a sector.
func (s *ImageService) AdminImagesBySector(ctx context.Context, sector string) ([]domain.CatalogImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.manager.AdminImagesBySector(sector)
}

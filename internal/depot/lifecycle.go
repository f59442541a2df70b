package depot

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/media/images"
)

// Standardizer normalizes raw image bytes before they enter a tier.
type Standardizer interface {
	Standardize(ctx context.Context, data []byte) (*images.Result, error)
}

// Manager drives images through the approval lifecycle across the three
// tiers. Every transition writes the destination copy before deleting the
// source copy, so a crash mid-transition leaves at least one live copy.
type Manager struct {
	customer *Store
	pending  *Store
	admin    *Store
	std      Standardizer
	logger   *logger.Logger
	now      func() time.Time
}

// NewManager wires the three tier stores and the standardizer.
func NewManager(customer, pending, admin *Store, std Standardizer, log *logger.Logger) *Manager {
	return &Manager{
		customer: customer,
		pending:  pending,
		admin:    admin,
		std:      std,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Tier returns the store backing a tier, or a Validation error for an
// unknown tier name.
func (m *Manager) tierStore(tier domain.Tier) (*Store, error) {
	switch tier {
	case domain.TierCustomer:
		return m.customer, nil
	case domain.TierPending:
		return m.pending, nil
	case domain.TierAdmin:
		return m.admin, nil
	default:
		return nil, domainerrors.Validationf("invalid tier: %q", tier)
	}
}

// SubmitToCustomerDepot standardizes and stores an image in the tenant's
// private depot. The image is immediately usable by that tenant.
func (m *Manager) SubmitToCustomerDepot(ctx context.Context, tenantID, sector, group, barcode string, data []byte, source string) (StoredRef, *domain.ImageMeta, error) {
	key, err := Resolve(domain.TierCustomer, tenantID, sector, group, barcode)
	if err != nil {
		return StoredRef{}, nil, err
	}

	result, err := m.std.Standardize(ctx, data)
	if err != nil {
		return StoredRef{}, nil, err
	}

	meta := &domain.ImageMeta{
		UploadID:   uuid.NewString(),
		OwnerID:    tenantID,
		Sector:     normalizeComponent(sector),
		Group:      normalizeComponent(group),
		Barcode:    barcode,
		Status:     domain.ImageStatusCustomerDepot,
		Source:     source,
		Quality:    result.Quality,
		BlurHash:   result.BlurHash,
		UploadedAt: m.now(),
	}

	ref, err := m.customer.Write(key, result.Data, meta)
	if err != nil {
		return StoredRef{}, nil, err
	}

	m.logger.Info("image stored in customer depot",
		"tenant_id", tenantID, "key", key, "quality", result.Quality)
	return ref, meta, nil
}

// SubmitToPending standardizes and stores an image in the shared approval
// queue. A pre-existing customer copy of the same barcode is untouched.
func (m *Manager) SubmitToPending(ctx context.Context, tenantID, sector, group, barcode string, data []byte, source, originalFilename string) (StoredRef, *domain.ImageMeta, error) {
	key, err := Resolve(domain.TierPending, tenantID, sector, group, barcode)
	if err != nil {
		return StoredRef{}, nil, err
	}

	result, err := m.std.Standardize(ctx, data)
	if err != nil {
		return StoredRef{}, nil, err
	}

	meta := &domain.ImageMeta{
		UploadID:         uuid.NewString(),
		OwnerID:          tenantID,
		Sector:           normalizeComponent(sector),
		Group:            normalizeComponent(group),
		Barcode:          barcode,
		Status:           domain.ImageStatusPending,
		Source:           source,
		OriginalFilename: originalFilename,
		Quality:          result.Quality,
		BlurHash:         result.BlurHash,
		UploadedAt:       m.now(),
	}

	ref, err := m.pending.Write(key, result.Data, meta)
	if err != nil {
		return StoredRef{}, nil, err
	}

	m.logger.Info("image submitted for approval",
		"tenant_id", tenantID, "key", key)
	return ref, meta, nil
}

// Approve promotes a pending image into the shared admin depot. The image
// moves: the admin copy is written first, then the tenant's private copy
// and the pending entry are removed. A retry after a crash between those
// steps cleans up the stale copies and reports Conflict.
func (m *Manager) Approve(ctx context.Context, tenantID, sector, group, barcode string) (StoredRef, error) {
	pendingKey, err := Resolve(domain.TierPending, tenantID, sector, group, barcode)
	if err != nil {
		return StoredRef{}, err
	}
	adminKey, err := Resolve(domain.TierAdmin, tenantID, sector, group, barcode)
	if err != nil {
		return StoredRef{}, err
	}
	customerKey, err := Resolve(domain.TierCustomer, tenantID, sector, group, barcode)
	if err != nil {
		return StoredRef{}, err
	}

	data, err := m.pending.Read(pendingKey)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) && m.admin.Exists(adminKey) {
			// Earlier approval already promoted this image. Finish any
			// interrupted cleanup, then report the duplicate.
			if _, derr := m.customer.Delete(customerKey); derr != nil {
				return StoredRef{}, derr
			}
			return StoredRef{}, domainerrors.Conflictf("already approved: %s", barcode)
		}
		return StoredRef{}, err
	}

	meta, err := m.pending.ReadMeta(pendingKey)
	if err != nil {
		if !domainerrors.Is(err, domainerrors.ErrNotFound) {
			return StoredRef{}, err
		}
		meta = &domain.ImageMeta{
			OwnerID: tenantID,
			Sector:  normalizeComponent(sector),
			Group:   normalizeComponent(group),
			Barcode: barcode,
		}
	}

	now := m.now()
	meta.Status = domain.ImageStatusApproved
	meta.ApprovedAt = &now
	meta.OriginalOwnerID = meta.OwnerID
	meta.OwnerID = ""

	ref, err := m.admin.Write(adminKey, data, meta)
	if err != nil {
		return StoredRef{}, err
	}
	if _, err := m.customer.Delete(customerKey); err != nil {
		return StoredRef{}, err
	}
	if _, err := m.pending.Delete(pendingKey); err != nil {
		return StoredRef{}, err
	}

	m.logger.Info("image approved into admin depot",
		"tenant_id", tenantID, "barcode", barcode, "key", adminKey)
	return ref, nil
}

// ApproveFromCustomerDepot promotes a tenant's private image directly into
// the admin depot, skipping the pending queue. Idempotent: a retry with the
// admin copy already durable succeeds and still removes the stale private
// copy.
func (m *Manager) ApproveFromCustomerDepot(ctx context.Context, tenantID, sector, group, barcode string) (StoredRef, error) {
	customerKey, err := Resolve(domain.TierCustomer, tenantID, sector, group, barcode)
	if err != nil {
		return StoredRef{}, err
	}
	adminKey, err := Resolve(domain.TierAdmin, tenantID, sector, group, barcode)
	if err != nil {
		return StoredRef{}, err
	}

	data, err := m.customer.Read(customerKey)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) && m.admin.Exists(adminKey) {
			return m.admin.ref(adminKey), nil
		}
		return StoredRef{}, err
	}

	meta, err := m.customer.ReadMeta(customerKey)
	if err != nil && !domainerrors.Is(err, domainerrors.ErrNotFound) {
		return StoredRef{}, err
	}
	if meta == nil {
		meta = &domain.ImageMeta{
			Sector:  normalizeComponent(sector),
			Group:   normalizeComponent(group),
			Barcode: barcode,
		}
	}

	now := m.now()
	meta.Status = domain.ImageStatusApproved
	meta.ApprovedAt = &now
	meta.OriginalOwnerID = tenantID
	meta.OwnerID = ""

	ref, err := m.admin.Write(adminKey, data, meta)
	if err != nil {
		return StoredRef{}, err
	}
	if _, err := m.customer.Delete(customerKey); err != nil {
		return StoredRef{}, err
	}

	m.logger.Info("customer image promoted to admin depot",
		"tenant_id", tenantID, "barcode", barcode, "key", adminKey)
	return ref, nil
}

// Reject removes a pending image without promoting it. A customer copy of
// the same barcode survives with its status marked rejected.
func (m *Manager) Reject(ctx context.Context, tenantID, sector, group, barcode string) error {
	pendingKey, err := Resolve(domain.TierPending, tenantID, sector, group, barcode)
	if err != nil {
		return err
	}

	removed, err := m.pending.Delete(pendingKey)
	if err != nil {
		return err
	}
	if !removed {
		return domainerrors.NotFoundf("no pending image for barcode %s", barcode)
	}

	customerKey, err := Resolve(domain.TierCustomer, tenantID, sector, group, barcode)
	if err != nil {
		return err
	}
	if meta, err := m.customer.ReadMeta(customerKey); err == nil {
		now := m.now()
		meta.Status = domain.ImageStatusRejected
		meta.RejectedAt = &now
		if err := m.customer.WriteMeta(customerKey, meta); err != nil {
			return err
		}
	}

	m.logger.Info("pending image rejected",
		"tenant_id", tenantID, "barcode", barcode)
	return nil
}

// Delete hard-deletes an image from exactly one tier.
func (m *Manager) Delete(tier domain.Tier, tenantID, sector, group, barcode string) error {
	store, err := m.tierStore(tier)
	if err != nil {
		return err
	}
	key, err := Resolve(tier, tenantID, sector, group, barcode)
	if err != nil {
		return err
	}

	removed, err := store.Delete(key)
	if err != nil {
		return err
	}
	if !removed {
		return domainerrors.NotFoundf("image not found in %s tier: %s", tier, key)
	}
	return nil
}

// PendingQueue lists the approval queue, newest uploads first.
func (m *Manager) PendingQueue() ([]domain.PendingImage, error) {
	keys, err := m.pending.List("")
	if err != nil {
		return nil, err
	}

	queue := make([]domain.PendingImage, 0, len(keys))
	for _, key := range keys {
		meta, err := m.pending.ReadMeta(key)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				continue // image without sidecar, skip
			}
			return nil, err
		}
		queue = append(queue, domain.PendingImage{
			Barcode:    meta.Barcode,
			Sector:     meta.Sector,
			Group:      meta.Group,
			OwnerID:    meta.OwnerID,
			URL:        m.pending.URL(key),
			UploadedAt: meta.UploadedAt,
		})
	}

	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].UploadedAt.After(queue[j].UploadedAt)
	})
	return queue, nil
}

// CustomerImages lists a tenant's private depot, optionally restricted to
// one sector.
func (m *Manager) CustomerImages(tenantID, sector string) ([]domain.CatalogImage, error) {
	if tenantID == "" {
		return nil, domainerrors.Validation("tenant_id is required for customer tier")
	}
	prefix := tenantID
	if sector != "" {
		prefix = tenantID + "/" + normalizeComponent(sector)
	}
	return m.catalog(m.customer, prefix)
}

// AdminImagesBySector lists the shared golden records for one sector.
func (m *Manager) AdminImagesBySector(sector string) ([]domain.CatalogImage, error) {
	return m.catalog(m.admin, normalizeComponent(sector))
}

func (m *Manager) catalog(store *Store, prefix string) ([]domain.CatalogImage, error) {
	keys, err := store.List(prefix)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CatalogImage, 0, len(keys))
	for _, key := range keys {
		meta, err := store.ReadMeta(key)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, domain.CatalogImage{
			Barcode:    meta.Barcode,
			Sector:     meta.Sector,
			Group:      meta.Group,
			Status:     meta.Status,
			URL:        store.URL(key),
			BlurHash:   meta.BlurHash,
			UploadedAt: meta.UploadedAt,
			ApprovedAt: meta.ApprovedAt,
		})
	}
	return out, nil
}

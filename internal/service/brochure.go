package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/id"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/store"
	"github.com/flyerforge/flyerforge-server/internal/validation"
)

// VersionPurger removes a brochure's saved history when the brochure is
// deleted. This avoids a direct dependency on the versions package.
type VersionPurger interface {
	DeleteAll(ctx context.Context, brochureID, tenantID string) error
}

// ParkingDestination is the pseudo page ID accepted by MoveProduct.
const ParkingDestination = "parking"

// BrochureService is the page layout engine. Every mutating operation
// validates against the full document first, applies the change in memory,
// and persists once; a constraint violation leaves no partial state.
type BrochureService struct {
	store     *store.Store
	versions  VersionPurger
	validator *validation.Validator
	logger    *logger.Logger
	maxPages  int

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-brochure write serialization
}

// NewBrochureService creates a brochure service.
func NewBrochureService(st *store.Store, versions VersionPurger, v *validation.Validator, log *logger.Logger, maxPages int) *BrochureService {
	if maxPages < 1 {
		maxPages = domain.MaxPages
	}
	return &BrochureService{
		store:     st,
		versions:  versions,
		validator: v,
		logger:    log,
		maxPages:  maxPages,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *BrochureService) lockFor(brochureID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[brochureID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[brochureID] = l
	}
	return l
}

// loadOwned fetches a brochure and enforces tenant ownership.
func (s *BrochureService) loadOwned(ctx context.Context, tenantID, brochureID string) (*domain.Brochure, error) {
	b, err := s.store.GetBrochure(ctx, brochureID)
	if err != nil {
		return nil, err
	}
	if b.TenantID != tenantID {
		return nil, domainerrors.Forbidden("brochure belongs to another tenant")
	}
	return b, nil
}

// update runs one serialized load-mutate-persist cycle. The mutation
// callback returning an error aborts the cycle with nothing written.
func (s *BrochureService) update(ctx context.Context, tenantID, brochureID string, mutate func(b *domain.Brochure) error) (*domain.Brochure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := s.lockFor(brochureID)
	l.Lock()
	defer l.Unlock()

	b, err := s.loadOwned(ctx, tenantID, brochureID)
	if err != nil {
		return nil, err
	}

	if err := mutate(b); err != nil {
		return nil, err
	}

	b.Touch(time.Now().UTC())
	if err := s.store.UpdateBrochure(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBrochure creates an empty brochure: zero pages, empty parking.
func (s *BrochureService) CreateBrochure(ctx context.Context, tenantID, name, sector string) (*domain.Brochure, error) {
	if tenantID == "" {
		return nil, domainerrors.Validation("tenant id cannot be empty")
	}
	if name == "" {
		return nil, domainerrors.Validation("brochure name cannot be empty")
	}

	brochureID, err := id.Generate(id.PrefixBrochure)
	if err != nil {
		return nil, fmt.Errorf("generate brochure ID: %w", err)
	}

	now := time.Now().UTC()
	b := &domain.Brochure{
		ID:        brochureID,
		TenantID:  tenantID,
		Name:      name,
		Sector:    sector,
		CreatedAt: now,
		UpdatedAt: now,
		PageSize:  domain.DefaultPageSize,
		Pages:     []domain.Page{},
		Parking:   []domain.ProductBox{},
		Settings: domain.BrochureSettings{
			DefaultLayout:    domain.LayoutGrid4x4,
			AutoArrange:      true,
			WatermarkOpacity: 30,
		},
	}

	if err := s.store.CreateBrochure(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("brochure created",
		"brochure_id", brochureID, "tenant_id", tenantID, "name", name)
	return b, nil
}

// GetBrochure retrieves a brochure with ownership enforcement.
func (s *BrochureService) GetBrochure(ctx context.Context, tenantID, brochureID string) (*domain.Brochure, error) {
	return s.loadOwned(ctx, tenantID, brochureID)
}

// ListBrochures returns the tenant's brochures, most recently updated first.
func (s *BrochureService) ListBrochures(ctx context.Context, tenantID string) ([]domain.BrochureSummary, error) {
	return s.store.ListBrochuresByTenant(ctx, tenantID)
}

// RenameBrochure updates the display name.
func (s *BrochureService) RenameBrochure(ctx context.Context, tenantID, brochureID, name string) (*domain.Brochure, error) {
	if name == "" {
		return nil, domainerrors.Validation("brochure name cannot be empty")
	}
	return s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		b.Name = name
		return nil
	})
}

// DeleteBrochure removes the brochure and its version history.
func (s *BrochureService) DeleteBrochure(ctx context.Context, tenantID, brochureID string) error {
	l := s.lockFor(brochureID)
	l.Lock()
	defer l.Unlock()

	if _, err := s.loadOwned(ctx, tenantID, brochureID); err != nil {
		return err
	}
	if err := s.store.DeleteBrochure(ctx, brochureID); err != nil {
		return err
	}
	if s.versions != nil {
		if err := s.versions.DeleteAll(ctx, brochureID, tenantID); err != nil {
			s.logger.Warn("failed to purge version history",
				"brochure_id", brochureID, "error", err)
		}
	}

	s.logger.Info("brochure deleted", "brochure_id", brochureID, "tenant_id", tenantID)
	return nil
}

// AddPage appends a page. An empty layout falls back to the brochure's
// default layout.
func (s *BrochureService) AddPage(ctx context.Context, tenantID, brochureID, layout string) (*domain.Page, error) {
	var created *domain.Page
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		if len(b.Pages) >= s.maxPages {
			return domainerrors.CapacityExceededf("brochure is at the %d page limit", s.maxPages)
		}

		if layout == "" {
			layout = b.Settings.DefaultLayout
		}
		if layout == "" {
			layout = domain.LayoutGrid4x4
		}
		if _, ok := domain.LayoutByName(layout); !ok {
			return domainerrors.Validationf("unknown layout: %q", layout)
		}

		pageID, err := id.Generate(id.PrefixPage)
		if err != nil {
			return fmt.Errorf("generate page ID: %w", err)
		}

		b.Pages = append(b.Pages, domain.Page{
			ID:        pageID,
			Layout:    layout,
			Products:  []domain.ProductBox{},
			CreatedAt: time.Now().UTC(),
		})
		b.Renumber()
		created = &b.Pages[len(b.Pages)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeletePage removes a page; its boxes move to parking and remaining pages
// are renumbered. Locked pages refuse deletion.
func (s *BrochureService) DeletePage(ctx context.Context, tenantID, brochureID, pageID string) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		if b.Pages[i].Locked {
			return domainerrors.PageLockedf("page %d is locked", b.Pages[i].Number)
		}

		b.Parking = append(b.Parking, b.Pages[i].Products...)
		b.Pages = append(b.Pages[:i], b.Pages[i+1:]...)
		b.Renumber()
		return nil
	})
	return err
}

// CopyPage duplicates a page with fresh page and box IDs. The copy starts
// unlocked regardless of the source lock.
func (s *BrochureService) CopyPage(ctx context.Context, tenantID, brochureID, pageID string) (*domain.Page, error) {
	var created *domain.Page
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		if len(b.Pages) >= s.maxPages {
			return domainerrors.CapacityExceededf("brochure is at the %d page limit", s.maxPages)
		}
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}

		newID, err := id.Generate(id.PrefixPage)
		if err != nil {
			return fmt.Errorf("generate page ID: %w", err)
		}

		src := b.Pages[i]
		copied := domain.Page{
			ID:         newID,
			Layout:     src.Layout,
			Products:   make([]domain.ProductBox, len(src.Products)),
			Background: src.Background,
			Theme:      src.Theme,
			CreatedAt:  time.Now().UTC(),
		}
		copy(copied.Products, src.Products)
		for j := range copied.Products {
			boxID, err := id.Generate(id.PrefixBox)
			if err != nil {
				return fmt.Errorf("generate box ID: %w", err)
			}
			copied.Products[j].ID = boxID
		}

		b.Pages = append(b.Pages, copied)
		b.Renumber()
		created = &b.Pages[len(b.Pages)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReorderPages rearranges pages to the given order. The ID list must be
// exactly the current page set; partial reorders are rejected.
func (s *BrochureService) ReorderPages(ctx context.Context, tenantID, brochureID string, orderedIDs []string) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		if len(orderedIDs) != len(b.Pages) {
			return domainerrors.Validationf("order lists %d pages, brochure has %d", len(orderedIDs), len(b.Pages))
		}

		reordered := make([]domain.Page, 0, len(b.Pages))
		seen := make(map[string]bool, len(orderedIDs))
		for _, pageID := range orderedIDs {
			if seen[pageID] {
				return domainerrors.Validationf("duplicate page in order: %s", pageID)
			}
			seen[pageID] = true

			i := b.FindPage(pageID)
			if i < 0 {
				return domainerrors.Validationf("unknown page in order: %s", pageID)
			}
			reordered = append(reordered, b.Pages[i])
		}

		b.Pages = reordered
		b.Renumber()
		return nil
	})
	return err
}

// TogglePageLock flips the page lock and returns the new state.
func (s *BrochureService) TogglePageLock(ctx context.Context, tenantID, brochureID, pageID string) (bool, error) {
	var locked bool
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		b.Pages[i].Locked = !b.Pages[i].Locked
		locked = b.Pages[i].Locked
		return nil
	})
	return locked, err
}

// SetPageLayout switches a page's layout. Boxes beyond the new capacity
// move to parking in stable order.
func (s *BrochureService) SetPageLayout(ctx context.Context, tenantID, brochureID, pageID, layout string) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		spec, ok := domain.LayoutByName(layout)
		if !ok {
			return domainerrors.Validationf("unknown layout: %q", layout)
		}
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		page := &b.Pages[i]
		if page.Locked {
			return domainerrors.PageLockedf("page %d is locked", page.Number)
		}

		page.Layout = layout
		if capacity := spec.Capacity(); capacity > 0 && len(page.Products) > capacity {
			b.Parking = append(b.Parking, page.Products[capacity:]...)
			page.Products = page.Products[:capacity]
		}
		return nil
	})
	return err
}

// AddProductToPage places a product on a page. A barcode already placed
// elsewhere in the brochure is moved here, never duplicated.
func (s *BrochureService) AddProductToPage(ctx context.Context, tenantID, brochureID, pageID string, data domain.ProductData, position *domain.Position) (*domain.ProductBox, error) {
	if err := s.validator.Validate(data); err != nil {
		return nil, err
	}

	var created *domain.ProductBox
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		page := &b.Pages[i]
		if page.Locked {
			return domainerrors.PageLockedf("page %d is locked", page.Number)
		}

		// Detach first so a barcode already on this page frees its slot.
		existing, err := detachBarcode(b, data.Barcode)
		if err != nil {
			return err
		}
		if page.Full() {
			return domainerrors.PageFullf("page %d is full (%s holds %d products)",
				page.Number, page.Layout, page.LayoutSpec().Capacity())
		}

		boxID, err := id.Generate(id.PrefixBox)
		if err != nil {
			return fmt.Errorf("generate box ID: %w", err)
		}
		box := domain.NewProductBox(boxID, data, position)
		if existing != nil {
			// Keep the original identity and presentation on a move.
			box.ID = existing.ID
			box.Locked = existing.Locked
			box.ZIndex = existing.ZIndex
			box.Style = existing.Style
		}

		page.Products = append(page.Products, box)
		created = &page.Products[len(page.Products)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveProductFromPage takes a box off a page into parking.
func (s *BrochureService) RemoveProductFromPage(ctx context.Context, tenantID, brochureID, pageID, boxID string) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		page := &b.Pages[i]
		if page.Locked {
			return domainerrors.PageLockedf("page %d is locked", page.Number)
		}
		j := page.FindBox(boxID)
		if j < 0 {
			return domainerrors.NotFoundf("product box not found: %s", boxID)
		}
		if page.Products[j].Locked {
			return domainerrors.PageLockedf("product box %s is locked", boxID)
		}

		b.Parking = append(b.Parking, page.Products[j])
		page.Products = append(page.Products[:j], page.Products[j+1:]...)
		return nil
	})
	return err
}

// MoveProduct relocates a box between pages or between a page and parking.
// The move is atomic: any rejection leaves the box where it was.
func (s *BrochureService) MoveProduct(ctx context.Context, tenantID, brochureID, boxID, toPageID string, position *domain.Position) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		box, fromPage := findBoxAnywhere(b, boxID)
		if box == nil {
			return domainerrors.NotFoundf("product box not found: %s", boxID)
		}
		if box.Locked {
			return domainerrors.PageLockedf("product box %s is locked", boxID)
		}
		if fromPage != nil && fromPage.Locked {
			return domainerrors.PageLockedf("page %d is locked", fromPage.Number)
		}

		var toPage *domain.Page
		if toPageID != ParkingDestination {
			i := b.FindPage(toPageID)
			if i < 0 {
				return domainerrors.NotFoundf("page not found: %s", toPageID)
			}
			toPage = &b.Pages[i]
			if toPage.Locked {
				return domainerrors.PageLockedf("page %d is locked", toPage.Number)
			}
			sameSource := fromPage != nil && fromPage.ID == toPage.ID
			if !sameSource && toPage.Full() {
				return domainerrors.PageFullf("page %d is full (%s holds %d products)",
					toPage.Number, toPage.Layout, toPage.LayoutSpec().Capacity())
			}
		}

		// All checks passed; detach and place.
		moved := *box
		if fromPage != nil {
			j := fromPage.FindBox(boxID)
			fromPage.Products = append(fromPage.Products[:j], fromPage.Products[j+1:]...)
		} else {
			j := b.FindParked(boxID)
			b.Parking = append(b.Parking[:j], b.Parking[j+1:]...)
		}

		if position != nil {
			moved.Position = *position
		}
		if toPage == nil {
			b.Parking = append(b.Parking, moved)
		} else {
			toPage.Products = append(toPage.Products, moved)
		}
		return nil
	})
	return err
}

// UpdateProductPosition sets a box's freeform frame.
func (s *BrochureService) UpdateProductPosition(ctx context.Context, tenantID, brochureID, pageID, boxID string, position domain.Position) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		page := &b.Pages[i]
		if page.Locked {
			return domainerrors.PageLockedf("page %d is locked", page.Number)
		}
		j := page.FindBox(boxID)
		if j < 0 {
			return domainerrors.NotFoundf("product box not found: %s", boxID)
		}
		if page.Products[j].Locked {
			return domainerrors.PageLockedf("product box %s is locked", boxID)
		}

		page.Products[j].Position = position
		return nil
	})
	return err
}

// ToggleProductLock flips a box lock and returns the new state.
func (s *BrochureService) ToggleProductLock(ctx context.Context, tenantID, brochureID, pageID, boxID string) (bool, error) {
	var locked bool
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		j := b.Pages[i].FindBox(boxID)
		if j < 0 {
			return domainerrors.NotFoundf("product box not found: %s", boxID)
		}
		b.Pages[i].Products[j].Locked = !b.Pages[i].Products[j].Locked
		locked = b.Pages[i].Products[j].Locked
		return nil
	})
	return locked, err
}

// AddToParking stages a product without placing it on a page. An existing
// placement of the same barcode is moved into parking.
func (s *BrochureService) AddToParking(ctx context.Context, tenantID, brochureID string, data domain.ProductData) (*domain.ProductBox, error) {
	if err := s.validator.Validate(data); err != nil {
		return nil, err
	}

	var created *domain.ProductBox
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		existing, err := detachBarcode(b, data.Barcode)
		if err != nil {
			return err
		}
		if existing != nil {
			b.Parking = append(b.Parking, *existing)
			created = &b.Parking[len(b.Parking)-1]
			return nil
		}

		boxID, err := id.Generate(id.PrefixBox)
		if err != nil {
			return fmt.Errorf("generate box ID: %w", err)
		}
		b.Parking = append(b.Parking, domain.NewProductBox(boxID, data, nil))
		created = &b.Parking[len(b.Parking)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveFromParking discards a parked box.
func (s *BrochureService) RemoveFromParking(ctx context.Context, tenantID, brochureID, boxID string) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindParked(boxID)
		if i < 0 {
			return domainerrors.NotFoundf("parked box not found: %s", boxID)
		}
		b.Parking = append(b.Parking[:i], b.Parking[i+1:]...)
		return nil
	})
	return err
}

// ClearParking empties the parking area and returns the removed count.
func (s *BrochureService) ClearParking(ctx context.Context, tenantID, brochureID string) (int, error) {
	var removed int
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		removed = len(b.Parking)
		b.Parking = []domain.ProductBox{}
		return nil
	})
	return removed, err
}

// detachBarcode removes any existing placement of a barcode from pages and
// parking so the caller can re-place it. A barcode lives in at most one
// location, so a placement pinned by a locked box or a locked page cannot
// be detached; placing the same barcode elsewhere is refused rather than
// duplicated.
func detachBarcode(b *domain.Brochure, barcode string) (*domain.ProductBox, error) {
	for i := range b.Pages {
		page := &b.Pages[i]
		for j := range page.Products {
			if page.Products[j].Barcode != barcode {
				continue
			}
			if page.Locked {
				return nil, domainerrors.PageLockedf("barcode %s is placed on locked page %d", barcode, page.Number)
			}
			if page.Products[j].Locked {
				return nil, domainerrors.PageLockedf("barcode %s is placed in a locked box", barcode)
			}
			box := page.Products[j]
			page.Products = append(page.Products[:j], page.Products[j+1:]...)
			return &box, nil
		}
	}
	for i := range b.Parking {
		if b.Parking[i].Barcode != barcode {
			continue
		}
		if b.Parking[i].Locked {
			return nil, domainerrors.PageLockedf("barcode %s is parked in a locked box", barcode)
		}
		box := b.Parking[i]
		b.Parking = append(b.Parking[:i], b.Parking[i+1:]...)
		return &box, nil
	}
	return nil, nil
}

// findBoxAnywhere locates a box on any page or in parking. The returned
// page is nil when the box is parked.
func findBoxAnywhere(b *domain.Brochure, boxID string) (*domain.ProductBox, *domain.Page) {
	for i := range b.Pages {
		if j := b.Pages[i].FindBox(boxID); j >= 0 {
			return &b.Pages[i].Products[j], &b.Pages[i]
		}
	}
	if i := b.FindParked(boxID); i >= 0 {
		return &b.Parking[i], nil
	}
	return nil, nil
}

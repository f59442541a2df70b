package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/id"
)

// Grid geometry: outer margins and the inset of each box within its cell.
const (
	gridMarginX  = 20
	gridMarginY  = 40
	gridBoxInset = 10
)

// gridSlots computes the box frames for a grid layout on a page size.
func gridSlots(size domain.PageSize, spec domain.LayoutSpec) []domain.Position {
	cellW := (size.Width - 2*gridMarginX) / spec.Cols
	cellH := (size.Height - 2*gridMarginY) / spec.Rows

	slots := make([]domain.Position, 0, spec.Cols*spec.Rows)
	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Cols; col++ {
			slots = append(slots, domain.Position{
				X:      gridMarginX + col*cellW + gridBoxInset,
				Y:      gridMarginY + row*cellH + gridBoxInset,
				Width:  cellW - 2*gridBoxInset,
				Height: cellH - 2*gridBoxInset,
			})
		}
	}
	return slots
}

// AutoArrangePage repacks a page's boxes into its grid slots. Locked boxes
// keep their current slot and still count against capacity; unlocked boxes
// fill the remaining slots in stable order (ZIndex, then placement order).
// Boxes beyond capacity move to parking.
func (s *BrochureService) AutoArrangePage(ctx context.Context, tenantID, brochureID, pageID string) error {
	_, err := s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		i := b.FindPage(pageID)
		if i < 0 {
			return domainerrors.NotFoundf("page not found: %s", pageID)
		}
		page := &b.Pages[i]
		if page.Locked {
			return domainerrors.PageLockedf("page %d is locked", page.Number)
		}
		spec := page.LayoutSpec()
		if spec.Freeform() {
			return domainerrors.Validationf("layout %q has no grid to arrange", page.Layout)
		}

		arrangePageGrid(b, page, spec)
		return nil
	})
	return err
}

// arrangePageGrid is the shared repack used by AutoArrangePage and
// DistributeProductsToPages. The page must not be locked or freeform.
func arrangePageGrid(b *domain.Brochure, page *domain.Page, spec domain.LayoutSpec) {
	slots := gridSlots(b.PageSize, spec)

	// Locked boxes hold the slot nearest their current position.
	taken := make([]bool, len(slots))
	var locked, unlocked []domain.ProductBox
	for _, box := range page.Products {
		if box.Locked {
			slot := nearestSlot(slots, taken, box.Position)
			if slot >= 0 {
				taken[slot] = true
				box.Position = slots[slot]
			}
			locked = append(locked, box)
		} else {
			unlocked = append(unlocked, box)
		}
	}

	sort.SliceStable(unlocked, func(i, j int) bool {
		return unlocked[i].ZIndex < unlocked[j].ZIndex
	})

	arranged := locked
	slot := 0
	for _, box := range unlocked {
		for slot < len(slots) && taken[slot] {
			slot++
		}
		if slot >= len(slots) {
			b.Parking = append(b.Parking, box)
			continue
		}
		box.Position = slots[slot]
		taken[slot] = true
		arranged = append(arranged, box)
	}

	page.Products = arranged
}

// nearestSlot picks the free slot with the smallest manhattan distance to
// the box's current origin, or -1 when every slot is taken.
func nearestSlot(slots []domain.Position, taken []bool, pos domain.Position) int {
	best, bestDist := -1, 0
	for i := range slots {
		if taken[i] {
			continue
		}
		dist := abs(slots[i].X-pos.X) + abs(slots[i].Y-pos.Y)
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// DistributeProductsToPages is the auto-pager: it walks the products in
// input order, filling the current unlocked page to capacityPerPage before
// rolling to the next page, creating pages as needed. At the page limit the
// remainder goes to parking. Deterministic and order preserving.
func (s *BrochureService) DistributeProductsToPages(ctx context.Context, tenantID, brochureID string, products []domain.ProductData, capacityPerPage int) (*domain.Brochure, error) {
	if len(products) == 0 {
		return nil, domainerrors.Validation("no products to distribute")
	}
	for i := range products {
		if err := s.validator.Validate(products[i]); err != nil {
			return nil, err
		}
	}

	return s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		layout := b.Settings.DefaultLayout
		if layout == "" {
			layout = domain.LayoutGrid4x4
		}
		spec, ok := domain.LayoutByName(layout)
		if !ok {
			return domainerrors.Validationf("unknown layout: %q", layout)
		}
		if capacityPerPage <= 0 {
			capacityPerPage = spec.Capacity()
		}
		if capacityPerPage <= 0 {
			return domainerrors.Validation("capacity per page must be positive for a freeform default layout")
		}

		touched := make(map[string]bool)
		pageIdx := -1 // advanced to the first usable page on demand

		for _, data := range products {
			// A barcode already in the brochure is re-placed, not duplicated.
			if _, err := detachBarcode(b, data.Barcode); err != nil {
				return err
			}

			idx, err := nextOpenPage(b, s.maxPages, pageIdx, capacityPerPage, layout)
			if err != nil {
				// Page limit reached, stage the rest in parking.
				boxID, err := id.Generate(id.PrefixBox)
				if err != nil {
					return fmt.Errorf("generate box ID: %w", err)
				}
				b.Parking = append(b.Parking, domain.NewProductBox(boxID, data, nil))
				continue
			}
			pageIdx = idx

			boxID, err := id.Generate(id.PrefixBox)
			if err != nil {
				return fmt.Errorf("generate box ID: %w", err)
			}
			page := &b.Pages[pageIdx]
			page.Products = append(page.Products, domain.NewProductBox(boxID, data, nil))
			touched[page.ID] = true
		}

		// Snap every touched grid page onto its slots.
		for i := range b.Pages {
			page := &b.Pages[i]
			if !touched[page.ID] || page.Locked {
				continue
			}
			if spec := page.LayoutSpec(); !spec.Freeform() {
				arrangePageGrid(b, page, spec)
			}
		}
		return nil
	})
}

// nextOpenPage returns the index of the first unlocked page at or after
// from with room under capacityPerPage, appending a new page when allowed.
func nextOpenPage(b *domain.Brochure, maxPages, from, capacityPerPage int, layout string) (int, error) {
	start := from
	if start < 0 {
		start = 0
	}
	for i := start; i < len(b.Pages); i++ {
		page := &b.Pages[i]
		if page.Locked {
			continue
		}
		limit := capacityPerPage
		if c := page.LayoutSpec().Capacity(); c > 0 && c < limit {
			limit = c
		}
		if len(page.Products) < limit {
			return i, nil
		}
	}

	if len(b.Pages) >= maxPages {
		return 0, domainerrors.CapacityExceededf("brochure is at the %d page limit", maxPages)
	}

	pageID, err := id.Generate(id.PrefixPage)
	if err != nil {
		return 0, fmt.Errorf("generate page ID: %w", err)
	}
	b.Pages = append(b.Pages, domain.Page{
		ID:        pageID,
		Layout:    layout,
		Products:  []domain.ProductBox{},
		CreatedAt: time.Now().UTC(),
	})
	b.Renumber()
	return len(b.Pages) - 1, nil
}

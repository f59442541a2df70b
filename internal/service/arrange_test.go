package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

func TestGridSlots_Geometry(t *testing.T) {
	spec, _ := domain.LayoutByName(domain.LayoutGrid2x3)
	slots := gridSlots(domain.PageSize{Width: 595, Height: 842}, spec)
	require.Len(t, slots, 6)

	cellW := (595 - 40) / 2
	cellH := (842 - 80) / 3

	// First slot sits inside the top-left cell.
	assert.Equal(t, 20+10, slots[0].X)
	assert.Equal(t, 40+10, slots[0].Y)
	assert.Equal(t, cellW-20, slots[0].Width)
	assert.Equal(t, cellH-20, slots[0].Height)

	// Second row starts one cell height down.
	assert.Equal(t, 40+cellH+10, slots[2].Y)
	// Second column starts one cell width right.
	assert.Equal(t, 20+cellW+10, slots[1].X)
}

func TestAutoArrangePage_PacksInZIndexOrder(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	page, err := s.AddPage(ctx, "tenant1", b.ID, domain.LayoutGrid2x3)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := s.AddProductToPage(ctx, "tenant1", b.ID, page.ID, product(fmt.Sprintf("%d", i)), nil)
		require.NoError(t, err)
	}

	require.NoError(t, s.AutoArrangePage(ctx, "tenant1", b.ID, page.ID))

	got, err := s.GetBrochure(ctx, "tenant1", b.ID)
	require.NoError(t, err)
	spec, _ := domain.LayoutByName(domain.LayoutGrid2x3)
	slots := gridSlots(got.PageSize, spec)
	for i, box := range got.Pages[0].Products {
		assert.Equal(t, slots[i], box.Position, "box %d", i)
	}
}

func TestAutoArrangePage_OverflowToParking(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	// Fill a free page, then relabel it as a 4-slot campaign grid without
	// the shrink sweep by arranging directly.
	page, err := s.AddPage(ctx, "tenant1", b.ID, domain.LayoutCampaign)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := s.AddProductToPage(ctx, "tenant1", b.ID, page.ID, product(fmt.Sprintf("%d", i)), nil)
		require.NoError(t, err)
	}

	require.NoError(t, s.AutoArrangePage(ctx, "tenant1", b.ID, page.ID))

	got, err := s.GetBrochure(ctx, "tenant1", b.ID)
	require.NoError(t, err)
	assert.Len(t, got.Pages[0].Products, 4)
	assert.Empty(t, got.Parking)
}

func TestAutoArrangePage_LockedBoxKeepsSlot(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	page, err := s.AddPage(ctx, "tenant1", b.ID, domain.LayoutGrid2x3)
	require.NoError(t, err)

	spec, _ := domain.LayoutByName(domain.LayoutGrid2x3)
	slots := gridSlots(domain.DefaultPageSize, spec)

	// Pin a box on the last slot and lock it.
	pinned, err := s.AddProductToPage(ctx, "tenant1", b.ID, page.ID, product("pin"), &slots[5])
	require.NoError(t, err)
	_, err = s.ToggleProductLock(ctx, "tenant1", b.ID, page.ID, pinned.ID)
	require.NoError(t, err)

	_, err = s.AddProductToPage(ctx, "tenant1", b.ID, page.ID, product("a"), nil)
	require.NoError(t, err)
	_, err = s.AddProductToPage(ctx, "tenant1", b.ID, page.ID, product("b"), nil)
	require.NoError(t, err)

	require.NoError(t, s.AutoArrangePage(ctx, "tenant1", b.ID, page.ID))

	got, err := s.GetBrochure(ctx, "tenant1", b.ID)
	require.NoError(t, err)

	byBarcode := map[string]domain.Position{}
	for _, box := range got.Pages[0].Products {
		byBarcode[box.Barcode] = box.Position
	}
	assert.Equal(t, slots[5], byBarcode["pin"])
	assert.Equal(t, slots[0], byBarcode["a"])
	assert.Equal(t, slots[1], byBarcode["b"])
}

func TestAutoArrangePage_FreeLayoutRejected(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	page, err := s.AddPage(ctx, "tenant1", b.ID, domain.LayoutFree)
	require.NoError(t, err)

	err = s.AutoArrangePage(ctx, "tenant1", b.ID, page.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestDistribute_EmptyBrochureFillsPages(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	products := make([]domain.ProductData, 10)
	for i := range products {
		products[i] = product(fmt.Sprintf("%d", 1000+i))
	}

	// capacity 4: ceil(10/4) = 3 pages, last one holding 2.
	got, err := s.DistributeProductsToPages(ctx, "tenant1", b.ID, products, 4)
	require.NoError(t, err)
	require.Len(t, got.Pages, 3)
	assert.Len(t, got.Pages[0].Products, 4)
	assert.Len(t, got.Pages[1].Products, 4)
	assert.Len(t, got.Pages[2].Products, 2)
	assert.Empty(t, got.Parking)

	// Input order preserved across pages.
	assert.Equal(t, "1000", got.Pages[0].Products[0].Barcode)
	assert.Equal(t, "1004", got.Pages[1].Products[0].Barcode)
	assert.Equal(t, "1009", got.Pages[2].Products[1].Barcode)
}

func TestDistribute_SkipsLockedPages(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	locked, err := s.AddPage(ctx, "tenant1", b.ID, "")
	require.NoError(t, err)
	_, err = s.TogglePageLock(ctx, "tenant1", b.ID, locked.ID)
	require.NoError(t, err)

	got, err := s.DistributeProductsToPages(ctx, "tenant1", b.ID,
		[]domain.ProductData{product("1"), product("2")}, 4)
	require.NoError(t, err)

	require.Len(t, got.Pages, 2)
	assert.Empty(t, got.Pages[0].Products) // locked page untouched
	assert.Len(t, got.Pages[1].Products, 2)
}

func TestDistribute_PageLimitOverflowsToParking(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	// Small engine bound keeps the test quick.
	s.maxPages = 2

	products := make([]domain.ProductData, 7)
	for i := range products {
		products[i] = product(fmt.Sprintf("%d", 2000+i))
	}

	got, err := s.DistributeProductsToPages(ctx, "tenant1", b.ID, products, 3)
	require.NoError(t, err)
	require.Len(t, got.Pages, 2)
	assert.Len(t, got.Pages[0].Products, 3)
	assert.Len(t, got.Pages[1].Products, 3)
	require.Len(t, got.Parking, 1)
	assert.Equal(t, "2006", got.Parking[0].Barcode)
}

func TestDistribute_ArrangesTouchedPages(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	got, err := s.DistributeProductsToPages(ctx, "tenant1", b.ID,
		[]domain.ProductData{product("1"), product("2"), product("3")}, 16)
	require.NoError(t, err)

	spec, _ := domain.LayoutByName(domain.LayoutGrid4x4)
	slots := gridSlots(got.PageSize, spec)
	require.Len(t, got.Pages, 1)
	for i, box := range got.Pages[0].Products {
		assert.Equal(t, slots[i], box.Position)
	}
}

func TestDistribute_PinnedBarcodeRefused(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	page, err := s.AddPage(ctx, "tenant1", b.ID, "")
	require.NoError(t, err)
	_, err = s.AddProductToPage(ctx, "tenant1", b.ID, page.ID, product("3001"), nil)
	require.NoError(t, err)
	_, err = s.TogglePageLock(ctx, "tenant1", b.ID, page.ID)
	require.NoError(t, err)

	// One of the inputs is pinned on a locked page; the whole distribution
	// fails rather than leaving a second copy of that barcode.
	_, err = s.DistributeProductsToPages(ctx, "tenant1", b.ID,
		[]domain.ProductData{product("3000"), product("3001")}, 4)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrPageLocked))

	got, err := s.GetBrochure(ctx, "tenant1", b.ID)
	require.NoError(t, err)
	require.Len(t, got.Pages, 1)
	require.Len(t, got.Pages[0].Products, 1)
	assert.Empty(t, got.Parking)
}

func TestDistribute_Validation(t *testing.T) {
	s := newTestService(t)
	b := createBrochure(t, s)
	ctx := context.Background()

	_, err := s.DistributeProductsToPages(ctx, "tenant1", b.ID, nil, 4)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = s.DistributeProductsToPages(ctx, "tenant1", b.ID,
		[]domain.ProductData{{Name: "missing barcode"}}, 4)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

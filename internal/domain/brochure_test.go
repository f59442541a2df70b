package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutByName(t *testing.T) {
	spec, ok := LayoutByName(LayoutGrid2x3)
	require.True(t, ok)
	assert.Equal(t, 6, spec.Capacity())
	assert.False(t, spec.Freeform())

	free, ok := LayoutByName(LayoutFree)
	require.True(t, ok)
	assert.True(t, free.Freeform())
	assert.Equal(t, 0, free.Capacity())

	_, ok = LayoutByName("grid_9x9")
	assert.False(t, ok)
}

func TestPage_Full(t *testing.T) {
	page := Page{Layout: LayoutCampaign}
	for i := 0; i < 4; i++ {
		assert.False(t, page.Full())
		page.Products = append(page.Products, ProductBox{ID: string(rune('a' + i))})
	}
	assert.True(t, page.Full())

	freePage := Page{Layout: LayoutFree}
	for i := 0; i < 100; i++ {
		freePage.Products = append(freePage.Products, ProductBox{})
	}
	assert.False(t, freePage.Full())
}

func TestPage_LayoutSpec_UnknownFallsBack(t *testing.T) {
	page := Page{Layout: "bogus"}
	assert.Equal(t, LayoutGrid4x4, page.LayoutSpec().Name)
}

func TestNewProductBox_Defaults(t *testing.T) {
	box := NewProductBox("box-1", ProductData{
		Barcode:     "8690000001",
		Name:        "Süt 1L",
		NormalPrice: 35,
	}, nil)

	assert.Equal(t, DefaultBoxFrame, box.Position)
	assert.Equal(t, 1, box.ZIndex)
	assert.True(t, box.Style.ShowOldPrice)
	assert.False(t, box.Locked)

	pos := Position{X: 10, Y: 20, Width: 100, Height: 120}
	box2 := NewProductBox("box-2", ProductData{Barcode: "1", Name: "x"}, &pos)
	assert.Equal(t, pos, box2.Position)
	assert.False(t, box2.Style.ShowOldPrice)
}

func TestBrochure_FindHelpers(t *testing.T) {
	b := Brochure{
		Pages: []Page{
			{ID: "page-a", Products: []ProductBox{{ID: "box-1"}}},
			{ID: "page-b"},
		},
		Parking: []ProductBox{{ID: "box-2"}},
	}

	assert.Equal(t, 0, b.FindPage("page-a"))
	assert.Equal(t, 1, b.FindPage("page-b"))
	assert.Equal(t, -1, b.FindPage("page-c"))

	assert.Equal(t, 0, b.Pages[0].FindBox("box-1"))
	assert.Equal(t, -1, b.Pages[0].FindBox("box-2"))

	assert.Equal(t, 0, b.FindParked("box-2"))
	assert.Equal(t, -1, b.FindParked("box-1"))
}

func TestBrochure_TouchRecomputesStats(t *testing.T) {
	b := Brochure{
		Pages: []Page{
			{ID: "p1", Products: []ProductBox{{}, {}}},
			{ID: "p2", Products: []ProductBox{{}}},
		},
		Parking: []ProductBox{{}},
	}

	now := time.Now()
	b.Touch(now)

	assert.Equal(t, 4, b.Stats.TotalProducts)
	assert.Equal(t, now, b.UpdatedAt)
}

func TestBrochure_Renumber(t *testing.T) {
	b := Brochure{Pages: []Page{{ID: "a", Number: 3}, {ID: "b", Number: 1}}}
	b.Renumber()
	assert.Equal(t, 1, b.Pages[0].Number)
	assert.Equal(t, 2, b.Pages[1].Number)
}

func TestTier_Valid(t *testing.T) {
	assert.True(t, TierCustomer.Valid())
	assert.True(t, TierPending.Valid())
	assert.True(t, TierAdmin.Valid())
	assert.False(t, Tier("cache").Valid())
}

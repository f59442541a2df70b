package domain

import (
	"time"
)

// MaxPages bounds the number of pages in a single brochure.
const MaxPages = 20

// Default page geometry (A4 in points) and box frame.
var (
	DefaultPageSize = PageSize{Width: 595, Height: 842}
	DefaultBoxFrame = Position{X: 0, Y: 0, Width: 140, Height: 180}
)

// PageSize is the physical page dimensions in points.
type PageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Position is a freeform box frame on a page. Only meaningful for freeform
// layouts; grid layouts recompute it during auto-arrange.
type Position struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxStyle holds per-box presentation settings.
type BoxStyle struct {
	PriceTagStyle string `json:"price_tag_style"`
	ShowOldPrice  bool   `json:"show_old_price"`
	FontSize      int    `json:"font_size"`
	Border        bool   `json:"border"`
}

// ProductBox is one product's placement on a brochure page (or in parking).
type ProductBox struct {
	ID            string   `json:"id"`
	Barcode       string   `json:"barcode"`
	Name          string   `json:"name"`
	NormalPrice   float64  `json:"normal_price"`
	DiscountPrice float64  `json:"discount_price"`
	ImageURL      string   `json:"image_url"`
	Slogan        string   `json:"slogan,omitempty"`
	ProductGroup  string   `json:"product_group,omitempty"`
	Position      Position `json:"position"`
	Locked        bool     `json:"locked"`
	ZIndex        int      `json:"z_index"`
	Style         BoxStyle `json:"style"`
}

// ProductData is the caller-supplied payload for placing a product.
type ProductData struct {
	Barcode       string  `json:"barcode" validate:"required,max=64"`
	Name          string  `json:"name" validate:"required,max=200"`
	NormalPrice   float64 `json:"normal_price,omitempty" validate:"gte=0"`
	DiscountPrice float64 `json:"discount_price,omitempty" validate:"gte=0"`
	ImageURL      string  `json:"image_url,omitempty" validate:"max=500"`
	Slogan        string  `json:"slogan,omitempty" validate:"max=200"`
	ProductGroup  string  `json:"product_group,omitempty" validate:"max=100"`
}

// NewProductBox builds a box for a product with defaults matching the
// persisted document format.
func NewProductBox(boxID string, data ProductData, position *Position) ProductBox {
	pos := DefaultBoxFrame
	if position != nil {
		pos = *position
	}
	return ProductBox{
		ID:            boxID,
		Barcode:       data.Barcode,
		Name:          data.Name,
		NormalPrice:   data.NormalPrice,
		DiscountPrice: data.DiscountPrice,
		ImageURL:      data.ImageURL,
		Slogan:        data.Slogan,
		ProductGroup:  data.ProductGroup,
		Position:      pos,
		ZIndex:        1,
		Style: BoxStyle{
			PriceTagStyle: "default",
			ShowOldPrice:  data.NormalPrice > 0,
			FontSize:      12,
		},
	}
}

// Page is one page of a brochure: a layout descriptor plus an ordered list
// of product boxes.
type Page struct {
	ID         string       `json:"id"`
	Number     int          `json:"number"`
	Layout     string       `json:"layout"`
	Locked     bool         `json:"locked"`
	Products   []ProductBox `json:"products"`
	Background string       `json:"background,omitempty"`
	Theme      string       `json:"theme,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// LayoutSpec resolves the page's layout descriptor. Unknown names fall back
// to the default grid so documents written by older builds stay readable.
func (p *Page) LayoutSpec() LayoutSpec {
	if spec, ok := LayoutByName(p.Layout); ok {
		return spec
	}
	spec, _ := LayoutByName(LayoutGrid4x4)
	return spec
}

// Full reports whether the page's layout capacity is reached.
// Freeform pages are never full.
func (p *Page) Full() bool {
	capacity := p.LayoutSpec().Capacity()
	return capacity > 0 && len(p.Products) >= capacity
}

// FindBox returns the index of a box by ID, or -1.
func (p *Page) FindBox(boxID string) int {
	for i := range p.Products {
		if p.Products[i].ID == boxID {
			return i
		}
	}
	return -1
}

// BrochureSettings holds per-brochure editor defaults.
type BrochureSettings struct {
	DefaultLayout    string `json:"default_layout"`
	AutoArrange      bool   `json:"auto_arrange"`
	WatermarkEnabled bool   `json:"watermark_enabled"`
	WatermarkOpacity int    `json:"watermark_opacity"`
}

// BrochureStats is denormalized counters kept current on every save.
type BrochureStats struct {
	TotalProducts int        `json:"total_products"`
	ExportCount   int        `json:"export_count"`
	LastExport    *time.Time `json:"last_export,omitempty"`
}

// Brochure is the full document for one promotional brochure. Owned
// exclusively by one tenant; pages are ordered and bounded by MaxPages.
type Brochure struct {
	ID        string           `json:"id"`
	TenantID  string           `json:"tenant_id"`
	Name      string           `json:"name"`
	Sector    string           `json:"sector"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	PageSize  PageSize         `json:"page_size"`
	Pages     []Page           `json:"pages"`
	Parking   []ProductBox     `json:"parking_area"`
	Settings  BrochureSettings `json:"settings"`
	Stats     BrochureStats    `json:"stats"`
}

// FindPage returns the index of a page by ID, or -1.
func (b *Brochure) FindPage(pageID string) int {
	for i := range b.Pages {
		if b.Pages[i].ID == pageID {
			return i
		}
	}
	return -1
}

// FindParked returns the index of a parked box by ID, or -1.
func (b *Brochure) FindParked(boxID string) int {
	for i := range b.Parking {
		if b.Parking[i].ID == boxID {
			return i
		}
	}
	return -1
}

// TotalProducts counts boxes across all pages and parking.
func (b *Brochure) TotalProducts() int {
	n := len(b.Parking)
	for i := range b.Pages {
		n += len(b.Pages[i].Products)
	}
	return n
}

// Renumber reassigns 1-based page numbers after a structural change.
func (b *Brochure) Renumber() {
	for i := range b.Pages {
		b.Pages[i].Number = i + 1
	}
}

// Touch recomputes denormalized stats and bumps UpdatedAt.
// Called by every successful mutation before persisting.
func (b *Brochure) Touch(now time.Time) {
	b.Stats.TotalProducts = b.TotalProducts()
	b.UpdatedAt = now
}

// BrochureSummary is the list-view projection of a brochure.
type BrochureSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Sector       string    `json:"sector"`
	PageCount    int       `json:"page_count"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary builds the list-view projection.
func (b *Brochure) Summary() BrochureSummary {
	return BrochureSummary{
		ID:           b.ID,
		Name:         b.Name,
		Sector:       b.Sector,
		PageCount:    len(b.Pages),
		ProductCount: b.Stats.TotalProducts,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

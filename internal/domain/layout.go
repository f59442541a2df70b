package domain

// LayoutSpec describes a page layout: a fixed grid of product slots, or a
// freeform canvas with no capacity ceiling.
type LayoutSpec struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Cols           int    `json:"cols"`
	Rows           int    `json:"rows"`
	ProductsPerPage int   `json:"products_per_page"`
	HighlightFirst bool   `json:"highlight_first,omitempty"`
	Theme          string `json:"theme,omitempty"`
}

// Layout names.
const (
	LayoutGrid4x4  = "grid_4x4"
	LayoutGrid3x3  = "grid_3x3"
	LayoutGrid2x3  = "grid_2x3"
	LayoutCampaign = "campaign"
	LayoutProduce  = "produce"
	LayoutFree     = "free"
)

// layouts is the built-in layout registry.
var layouts = map[string]LayoutSpec{
	LayoutGrid4x4:  {Name: LayoutGrid4x4, DisplayName: "Grid 4x4", Cols: 4, Rows: 4, ProductsPerPage: 16},
	LayoutGrid3x3:  {Name: LayoutGrid3x3, DisplayName: "Grid 3x3", Cols: 3, Rows: 3, ProductsPerPage: 9},
	LayoutGrid2x3:  {Name: LayoutGrid2x3, DisplayName: "Grid 2x3", Cols: 2, Rows: 3, ProductsPerPage: 6},
	LayoutCampaign: {Name: LayoutCampaign, DisplayName: "Campaign", Cols: 2, Rows: 2, ProductsPerPage: 4, HighlightFirst: true},
	LayoutProduce:  {Name: LayoutProduce, DisplayName: "Produce Aisle", Cols: 3, Rows: 4, ProductsPerPage: 12, Theme: "green"},
	LayoutFree:     {Name: LayoutFree, DisplayName: "Freeform", Cols: 0, Rows: 0, ProductsPerPage: 0},
}

// LayoutByName returns the layout spec for a name.
func LayoutByName(name string) (LayoutSpec, bool) {
	spec, ok := layouts[name]
	return spec, ok
}

// Layouts returns all registered layout specs.
func Layouts() []LayoutSpec {
	out := make([]LayoutSpec, 0, len(layouts))
	for _, name := range []string{LayoutGrid4x4, LayoutGrid3x3, LayoutGrid2x3, LayoutCampaign, LayoutProduce, LayoutFree} {
		out = append(out, layouts[name])
	}
	return out
}

// Freeform reports whether the layout has no fixed grid.
func (l LayoutSpec) Freeform() bool {
	return l.Cols == 0 || l.Rows == 0
}

// Capacity returns the maximum number of product boxes the layout holds.
// Freeform layouts have no ceiling and return 0.
func (l LayoutSpec) Capacity() int {
	if l.Freeform() {
		return 0
	}
	return l.ProductsPerPage
}

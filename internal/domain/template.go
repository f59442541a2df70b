package domain

import "time"

// BoxFrame is a box's position and style captured in a template, with the
// product content stripped.
type BoxFrame struct {
	Position Position `json:"position"`
	Style    BoxStyle `json:"style"`
}

// TemplatePage captures one page's layout for reuse.
type TemplatePage struct {
	Layout     string     `json:"layout"`
	Background string     `json:"background,omitempty"`
	Theme      string     `json:"theme,omitempty"`
	BoxFrames  []BoxFrame `json:"box_frames,omitempty"`
}

// Template is a reusable brochure layout: page structure and framing only,
// never product content.
type Template struct {
	ID        string           `json:"id"`
	TenantID  string           `json:"tenant_id"`
	Name      string           `json:"name"`
	Sector    string           `json:"sector"`
	CreatedAt time.Time        `json:"created_at"`
	PageSize  PageSize         `json:"page_size"`
	Settings  BrochureSettings `json:"settings"`
	Pages     []TemplatePage   `json:"pages"`
}

// TemplateSummary is the list-view projection of a template.
type TemplateSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary builds the list-view projection.
func (t *Template) Summary() TemplateSummary {
	return TemplateSummary{
		ID:        t.ID,
		Name:      t.Name,
		Sector:    t.Sector,
		PageCount: len(t.Pages),
		CreatedAt: t.CreatedAt,
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/id"
)

// SaveAsTemplate captures a brochure's page structure as a reusable
// template. Layout, background, theme and box framing are kept; product
// content is stripped.
func (s *BrochureService) SaveAsTemplate(ctx context.Context, tenantID, brochureID, name string) (*domain.Template, error) {
	if name == "" {
		return nil, domainerrors.Validation("template name cannot be empty")
	}

	b, err := s.loadOwned(ctx, tenantID, brochureID)
	if err != nil {
		return nil, err
	}

	templateID, err := id.Generate(id.PrefixTemplate)
	if err != nil {
		return nil, fmt.Errorf("generate template ID: %w", err)
	}

	pages := make([]domain.TemplatePage, 0, len(b.Pages))
	for _, page := range b.Pages {
		tp := domain.TemplatePage{
			Layout:     page.Layout,
			Background: page.Background,
			Theme:      page.Theme,
		}
		for _, box := range page.Products {
			tp.BoxFrames = append(tp.BoxFrames, domain.BoxFrame{
				Position: box.Position,
				Style:    box.Style,
			})
		}
		pages = append(pages, tp)
	}

	tpl := &domain.Template{
		ID:        templateID,
		TenantID:  tenantID,
		Name:      name,
		Sector:    b.Sector,
		CreatedAt: time.Now().UTC(),
		PageSize:  b.PageSize,
		Settings:  b.Settings,
		Pages:     pages,
	}
	if err := s.store.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}

	s.logger.Info("template saved",
		"template_id", templateID, "tenant_id", tenantID, "source_brochure", brochureID)
	return tpl, nil
}

// ListTemplates returns the tenant's templates, newest first.
func (s *BrochureService) ListTemplates(ctx context.Context, tenantID string) ([]domain.TemplateSummary, error) {
	return s.store.ListTemplatesByTenant(ctx, tenantID)
}

// DeleteTemplate removes a template with ownership enforcement.
func (s *BrochureService) DeleteTemplate(ctx context.Context, tenantID, templateID string) error {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	if tpl.TenantID != tenantID {
		return domainerrors.Forbidden("template belongs to another tenant")
	}
	return s.store.DeleteTemplate(ctx, templateID)
}

// ApplyTemplate restyles a brochure from a template. Pages pair up by
// index; locked pages are skipped; extra template pages are ignored. When
// a page's new layout capacity is below its occupancy, the overflow boxes
// move to parking.
func (s *BrochureService) ApplyTemplate(ctx context.Context, tenantID, brochureID, templateID string) (*domain.Brochure, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl.TenantID != tenantID {
		return nil, domainerrors.Forbidden("template belongs to another tenant")
	}

	return s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		for i := range b.Pages {
			if i >= len(tpl.Pages) {
				break
			}
			page := &b.Pages[i]
			if page.Locked {
				continue
			}

			tp := tpl.Pages[i]
			if _, ok := domain.LayoutByName(tp.Layout); !ok {
				return domainerrors.Validationf("template holds unknown layout: %q", tp.Layout)
			}
			page.Layout = tp.Layout
			page.Background = tp.Background
			page.Theme = tp.Theme

			// Re-frame existing boxes onto the captured frames.
			for j := range page.Products {
				if j >= len(tp.BoxFrames) {
					break
				}
				if page.Products[j].Locked {
					continue
				}
				page.Products[j].Position = tp.BoxFrames[j].Position
				page.Products[j].Style = tp.BoxFrames[j].Style
			}

			if capacity := page.LayoutSpec().Capacity(); capacity > 0 && len(page.Products) > capacity {
				b.Parking = append(b.Parking, page.Products[capacity:]...)
				page.Products = page.Products[:capacity]
			}
		}

		b.Settings.DefaultLayout = tpl.Settings.DefaultLayout
		return nil
	})
}

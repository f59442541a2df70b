package service

import (
	"context"
	"encoding/json/v2"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/versions"
)

// VersionService snapshots brochures into the history store and restores
// them. Snapshotting is explicit; mutations do not version themselves.
type VersionService struct {
	brochures *BrochureService
	history   *versions.Store
	logger    *logger.Logger
}

// NewVersionService creates a version service.
func NewVersionService(brochures *BrochureService, history *versions.Store, log *logger.Logger) *VersionService {
	return &VersionService{
		brochures: brochures,
		history:   history,
		logger:    log,
	}
}

// Snapshot saves the brochure's current state as the next version.
func (s *VersionService) Snapshot(ctx context.Context, tenantID, brochureID, action string) (int, error) {
	b, err := s.brochures.GetBrochure(ctx, tenantID, brochureID)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(b)
	if err != nil {
		return 0, domainerrors.IO("marshal brochure snapshot", err)
	}
	return s.history.Save(ctx, brochureID, tenantID, data, action)
}

// List returns version summaries, newest first.
func (s *VersionService) List(ctx context.Context, tenantID, brochureID string, limit int) ([]domain.VersionSummary, error) {
	if _, err := s.brochures.GetBrochure(ctx, tenantID, brochureID); err != nil {
		return nil, err
	}
	return s.history.List(ctx, brochureID, tenantID, limit)
}

// Get returns one stored version.
func (s *VersionService) Get(ctx context.Context, tenantID, brochureID string, n int) (*domain.Version, error) {
	if _, err := s.brochures.GetBrochure(ctx, tenantID, brochureID); err != nil {
		return nil, err
	}
	return s.history.Get(ctx, brochureID, tenantID, n)
}

// Restore replaces the live brochure with version n's snapshot and records
// the restore as a new version. History is never rewound.
func (s *VersionService) Restore(ctx context.Context, tenantID, brochureID string, n int) (*domain.Brochure, error) {
	if _, err := s.brochures.GetBrochure(ctx, tenantID, brochureID); err != nil {
		return nil, err
	}

	data, version, err := s.history.Restore(ctx, brochureID, tenantID, n)
	if err != nil {
		return nil, err
	}

	restored, err := s.brochures.replaceDocument(ctx, tenantID, brochureID, data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("brochure restored",
		"brochure_id", brochureID, "tenant_id", tenantID,
		"from_version", n, "new_version", version)
	return restored, nil
}

// replaceDocument swaps the live document for a snapshot, preserving the
// brochure's identity and ownership.
func (s *BrochureService) replaceDocument(ctx context.Context, tenantID, brochureID string, snapshot []byte) (*domain.Brochure, error) {
	var restored domain.Brochure
	if err := json.Unmarshal(snapshot, &restored); err != nil {
		return nil, domainerrors.IO("decode brochure snapshot", err)
	}

	return s.update(ctx, tenantID, brochureID, func(b *domain.Brochure) error {
		restored.ID = b.ID
		restored.TenantID = b.TenantID
		restored.CreatedAt = b.CreatedAt
		*b = restored
		return nil
	})
}

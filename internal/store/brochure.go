package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

const (
	brochurePrefix         = "brochure:"
	brochureByTenantPrefix = "idx:brochures:tenant:"
)

func brochureKey(id string) []byte {
	return []byte(brochurePrefix + id)
}

func brochureTenantKey(tenantID, id string) []byte {
	return []byte(brochureByTenantPrefix + tenantID + ":" + id)
}

// CreateBrochure persists a new brochure and its tenant index entry.
func (s *Store) CreateBrochure(ctx context.Context, b *domain.Brochure) error {
	key := brochureKey(b.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check brochure exists: %w", err)
	}
	if exists {
		return domainerrors.Conflictf("brochure already exists: %s", b.ID)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal brochure: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(brochureTenantKey(b.TenantID, b.ID), []byte(b.ID))
	})
	if err != nil {
		return domainerrors.IO("create brochure", err)
	}

	if s.logger != nil {
		s.logger.Info("brochure created",
			"id", b.ID, "tenant_id", b.TenantID, "name", b.Name)
	}
	return nil
}

// GetBrochure retrieves a brochure by ID.
func (s *Store) GetBrochure(ctx context.Context, id string) (*domain.Brochure, error) {
	var b domain.Brochure
	err := s.get(brochureKey(id), &b)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domainerrors.NotFoundf("brochure not found: %s", id)
		}
		return nil, domainerrors.IO("get brochure", err)
	}
	return &b, nil
}

// UpdateBrochure overwrites an existing brochure document.
func (s *Store) UpdateBrochure(ctx context.Context, b *domain.Brochure) error {
	key := brochureKey(b.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check brochure exists: %w", err)
	}
	if !exists {
		return domainerrors.NotFoundf("brochure not found: %s", b.ID)
	}

	data, err := json.Marshal(b)
	if err != nil {
		return domainerrors.IO("marshal brochure", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return domainerrors.IO("update brochure", err)
	}
	return nil
}

// DeleteBrochure removes a brochure and its tenant index entry.
func (s *Store) DeleteBrochure(ctx context.Context, id string) error {
	b, err := s.GetBrochure(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(brochureKey(id)); err != nil {
			return err
		}
		return txn.Delete(brochureTenantKey(b.TenantID, id))
	})
	if err != nil {
		return domainerrors.IO("delete brochure", err)
	}

	if s.logger != nil {
		s.logger.Info("brochure deleted", "id", id, "tenant_id", b.TenantID)
	}
	return nil
}

// ListBrochuresByTenant returns a tenant's brochures as summaries, most
// recently updated first.
func (s *Store) ListBrochuresByTenant(ctx context.Context, tenantID string) ([]domain.BrochureSummary, error) {
	ids, err := s.listIndex([]byte(brochureByTenantPrefix + tenantID + ":"))
	if err != nil {
		return nil, domainerrors.IO("list brochures", err)
	}

	summaries := make([]domain.BrochureSummary, 0, len(ids))
	for _, id := range ids {
		b, err := s.GetBrochure(ctx, id)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				continue // stale index entry
			}
			return nil, err
		}
		summaries = append(summaries, b.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

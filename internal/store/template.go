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
	templatePrefix         = "template:"
	templateByTenantPrefix = "idx:templates:tenant:"
)

func templateKey(id string) []byte {
	return []byte(templatePrefix + id)
}

func templateTenantKey(tenantID, id string) []byte {
	return []byte(templateByTenantPrefix + tenantID + ":" + id)
}

// CreateTemplate persists a new template and its tenant index entry.
func (s *Store) CreateTemplate(ctx context.Context, t *domain.Template) error {
	key := templateKey(t.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check template exists: %w", err)
	}
	if exists {
		return domainerrors.Conflictf("template already exists: %s", t.ID)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal template: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(templateTenantKey(t.TenantID, t.ID), []byte(t.ID))
	})
	if err != nil {
		return domainerrors.IO("create template", err)
	}

	if s.logger != nil {
		s.logger.Info("template created",
			"id", t.ID, "tenant_id", t.TenantID, "name", t.Name)
	}
	return nil
}

// GetTemplate retrieves a template by ID.
func (s *Store) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	var t domain.Template
	err := s.get(templateKey(id), &t)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domainerrors.NotFoundf("template not found: %s", id)
		}
		return nil, domainerrors.IO("get template", err)
	}
	return &t, nil
}

// DeleteTemplate removes a template and its tenant index entry.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	t, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(templateKey(id)); err != nil {
			return err
		}
		return txn.Delete(templateTenantKey(t.TenantID, id))
	})
	if err != nil {
		return domainerrors.IO("delete template", err)
	}
	return nil
}

// ListTemplatesByTenant returns a tenant's templates as summaries, newest
// first.
func (s *Store) ListTemplatesByTenant(ctx context.Context, tenantID string) ([]domain.TemplateSummary, error) {
	ids, err := s.listIndex([]byte(templateByTenantPrefix + tenantID + ":"))
	if err != nil {
		return nil, domainerrors.IO("list templates", err)
	}

	summaries := make([]domain.TemplateSummary, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetTemplate(ctx, id)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				continue // stale index entry
			}
			return nil, err
		}
		summaries = append(summaries, t.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

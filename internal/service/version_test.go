package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/store"
	"github.com/flyerforge/flyerforge-server/internal/validation"
	"github.com/flyerforge/flyerforge-server/internal/versions"
)

func newTestVersionService(t *testing.T) (*VersionService, *BrochureService) {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	history, err := versions.Open(filepath.Join(t.TempDir(), "versions.db"), 10, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	brochures := NewBrochureService(st, history, validation.New(), testLogger(), domain.MaxPages)
	return NewVersionService(brochures, history, testLogger()), brochures
}

func TestVersionService_SnapshotAndRestore(t *testing.T) {
	vs, bs := newTestVersionService(t)
	ctx := context.Background()

	b, err := bs.CreateBrochure(ctx, "tenant1", "Katalog", "market")
	require.NoError(t, err)
	page, err := bs.AddPage(ctx, "tenant1", b.ID, domain.LayoutGrid3x3)
	require.NoError(t, err)

	n, err := vs.Snapshot(ctx, "tenant1", b.ID, "save")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Mutate past the snapshot.
	_, err = bs.AddProductToPage(ctx, "tenant1", b.ID, page.ID, product("100"), nil)
	require.NoError(t, err)
	_, err = bs.RenameBrochure(ctx, "tenant1", b.ID, "Değişti")
	require.NoError(t, err)

	restored, err := vs.Restore(ctx, "tenant1", b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Katalog", restored.Name)
	assert.Empty(t, restored.Pages[0].Products)
	assert.Equal(t, b.ID, restored.ID)
	assert.Equal(t, "tenant1", restored.TenantID)

	// Restore appended history instead of rewinding it.
	list, err := vs.List(ctx, "tenant1", b.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "restore_from_v1", list[0].Action)
	assert.Equal(t, 2, list[0].Number)
}

func TestVersionService_OwnershipChecks(t *testing.T) {
	vs, bs := newTestVersionService(t)
	ctx := context.Background()

	b, err := bs.CreateBrochure(ctx, "tenant1", "Katalog", "market")
	require.NoError(t, err)

	_, err = vs.Snapshot(ctx, "tenant2", b.ID, "save")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
	_, err = vs.List(ctx, "tenant2", b.ID, 0)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
	_, err = vs.Restore(ctx, "tenant2", b.ID, 1)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}

func TestVersionService_GetMissingVersion(t *testing.T) {
	vs, bs := newTestVersionService(t)
	ctx := context.Background()

	b, err := bs.CreateBrochure(ctx, "tenant1", "Katalog", "market")
	require.NoError(t, err)

	_, err = vs.Get(ctx, "tenant1", b.ID, 3)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteBrochure_PurgesHistory(t *testing.T) {
	vs, bs := newTestVersionService(t)
	ctx := context.Background()

	b, err := bs.CreateBrochure(ctx, "tenant1", "Katalog", "market")
	require.NoError(t, err)
	_, err = vs.Snapshot(ctx, "tenant1", b.ID, "save")
	require.NoError(t, err)

	require.NoError(t, bs.DeleteBrochure(ctx, "tenant1", b.ID))

	// The history store no longer has entries for the brochure.
	history := vs.history
	list, err := history.List(ctx, b.ID, "tenant1", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerforge/flyerforge-server/internal/depot"
	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/media/images"
)

type fakeStandardizer struct{}

func (fakeStandardizer) Standardize(_ context.Context, data []byte) (*images.Result, error) {
	if len(data) == 0 {
		return nil, domainerrors.Validation("invalid image data")
	}
	return &images.Result{Data: data, Quality: images.QualityMedium, Width: 640, Height: 640}, nil
}

func newTestImageService(t *testing.T) *ImageService {
	t.Helper()
	base := t.TempDir()

	customer, err := depot.NewStore(base, domain.TierCustomer)
	require.NoError(t, err)
	pending, err := depot.NewStore(base, domain.TierPending)
	require.NoError(t, err)
	admin, err := depot.NewStore(base, domain.TierAdmin)
	require.NoError(t, err)

	manager := depot.NewManager(customer, pending, admin, fakeStandardizer{}, testLogger())
	return NewImageService(manager, depot.NewResolver(customer, admin), testLogger())
}

func TestImageService_UploadThenFind(t *testing.T) {
	s := newTestImageService(t)
	ctx := context.Background()

	ref, err := s.Upload(ctx, "tenant1", "market", "Genel", "8690000000001", "", []byte("photo"), false)
	require.NoError(t, err)
	assert.Equal(t, "tenant1/market/Genel/8690000000001", ref.Key)

	res, err := s.Find(ctx, "8690000000001", "tenant1", "market")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, domain.SourceCustomerDepot, res.Source)

	// Other tenants do not see the private upload.
	res, err = s.Find(ctx, "8690000000001", "tenant2", "market")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, domain.SourceNone, res.Source)
}

func TestImageService_ShareRequestedEntersQueue(t *testing.T) {
	s := newTestImageService(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, "tenant1", "market", "Genel", "111", "", []byte("photo"), true)
	require.NoError(t, err)

	queue, err := s.PendingQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "111", queue[0].Barcode)
	assert.Equal(t, "tenant1", queue[0].OwnerID)

	// Approval promotes it to the shared catalog for everyone.
	_, err = s.Approve(ctx, "tenant1", "market", "Genel", "111")
	require.NoError(t, err)

	queue, err = s.PendingQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)

	res, err := s.Find(ctx, "111", "tenant2", "market")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, domain.SourceAdminDepot, res.Source)
}

func TestImageService_RejectLeavesPrivateCopy(t *testing.T) {
	s := newTestImageService(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, "tenant1", "market", "Genel", "222", "", []byte("photo"), true)
	require.NoError(t, err)
	require.NoError(t, s.Reject(ctx, "tenant1", "market", "Genel", "222"))

	// Owner still resolves their own copy; nobody else does.
	res, err := s.Find(ctx, "222", "tenant1", "market")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, domain.SourceCustomerDepot, res.Source)

	res, err = s.Find(ctx, "222", "tenant2", "market")
	require.NoError(t, err)
	assert.False(t, res.Found)

	images, err := s.CustomerImages(ctx, "tenant1", "market")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, domain.ImageStatusRejected, images[0].Status)
}

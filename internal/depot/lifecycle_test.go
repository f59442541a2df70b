package depot

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/media/images"
)

// passthroughStandardizer returns input bytes untouched so tests can assert
// on exact content without real image encoding.
type passthroughStandardizer struct {
	err error
}

func (p *passthroughStandardizer) Standardize(_ context.Context, data []byte) (*images.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &images.Result{
		Data:     data,
		Quality:  images.QualityHigh,
		Width:    1024,
		Height:   1024,
		BlurHash: "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
	}, nil
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	base := t.TempDir()

	customer, err := NewStore(base, domain.TierCustomer)
	require.NoError(t, err)
	pending, err := NewStore(base, domain.TierPending)
	require.NoError(t, err)
	admin, err := NewStore(base, domain.TierAdmin)
	require.NoError(t, err)

	return NewManager(customer, pending, admin, &passthroughStandardizer{}, testLogger())
}

func TestManager_SubmitToCustomerDepot(t *testing.T) {
	m := newTestManager(t)

	ref, meta, err := m.SubmitToCustomerDepot(context.Background(),
		"tenant1", "market", "Sebze", "8690000000001", []byte("image"), domain.ImageSourceUpload)
	require.NoError(t, err)

	assert.Equal(t, "tenant1/market/Sebze/8690000000001", ref.Key)
	assert.Equal(t, domain.ImageStatusCustomerDepot, meta.Status)
	assert.Equal(t, "tenant1", meta.OwnerID)
	assert.NotEmpty(t, meta.BlurHash)

	got, err := m.customer.Read(ref.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), got)
}

func TestManager_SubmitStandardizationFailure(t *testing.T) {
	m := newTestManager(t)
	m.std = &passthroughStandardizer{err: domainerrors.Validation("invalid image data")}

	_, _, err := m.SubmitToCustomerDepot(context.Background(),
		"tenant1", "market", "", "123", []byte("junk"), domain.ImageSourceUpload)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.False(t, m.customer.Exists("tenant1/market/Genel/123"))
}

func TestManager_ApproveMovesNotCopies(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	// Tenant has both a private copy and a pending submission.
	_, _, err := m.SubmitToCustomerDepot(ctx, "tenant1", "market", "Genel", "111", []byte("v1"), domain.ImageSourceUpload)
	require.NoError(t, err)
	_, _, err = m.SubmitToPending(ctx, "tenant1", "market", "Genel", "111", []byte("v2"), domain.ImageSourceUpload, "photo.jpg")
	require.NoError(t, err)

	ref, err := m.Approve(ctx, "tenant1", "market", "Genel", "111")
	require.NoError(t, err)
	assert.Equal(t, "market/Genel/111", ref.Key)

	// Exactly one live copy remains.
	assert.True(t, m.admin.Exists("market/Genel/111"))
	assert.False(t, m.pending.Exists("tenant1/market/Genel/111"))
	assert.False(t, m.customer.Exists("tenant1/market/Genel/111"))

	meta, err := m.admin.ReadMeta("market/Genel/111")
	require.NoError(t, err)
	assert.Equal(t, domain.ImageStatusApproved, meta.Status)
	assert.Equal(t, "tenant1", meta.OriginalOwnerID)
	assert.Empty(t, meta.OwnerID)
	require.NotNil(t, meta.ApprovedAt)
}

func TestManager_ApproveWithoutPending(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Approve(context.Background(), "tenant1", "market", "Genel", "404")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestManager_ApproveRetryAfterPartialCleanup(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _, err := m.SubmitToCustomerDepot(ctx, "tenant1", "market", "Genel", "222", []byte("v1"), domain.ImageSourceUpload)
	require.NoError(t, err)
	_, _, err = m.SubmitToPending(ctx, "tenant1", "market", "Genel", "222", []byte("v2"), domain.ImageSourceUpload, "")
	require.NoError(t, err)

	// Simulate a crash after the admin write and pending delete but before
	// the customer delete: promote manually, leave the stale private copy.
	data, err := m.pending.Read("tenant1/market/Genel/222")
	require.NoError(t, err)
	_, err = m.admin.Write("market/Genel/222", data, &domain.ImageMeta{Barcode: "222", Status: domain.ImageStatusApproved})
	require.NoError(t, err)
	_, err = m.pending.Delete("tenant1/market/Genel/222")
	require.NoError(t, err)

	_, err = m.Approve(ctx, "tenant1", "market", "Genel", "222")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	// Retry finished the cleanup.
	assert.True(t, m.admin.Exists("market/Genel/222"))
	assert.False(t, m.customer.Exists("tenant1/market/Genel/222"))
}

func TestManager_ApproveFromCustomerDepot(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _, err := m.SubmitToCustomerDepot(ctx, "tenant1", "market", "Genel", "333", []byte("img"), domain.ImageSourceAI)
	require.NoError(t, err)

	ref, err := m.ApproveFromCustomerDepot(ctx, "tenant1", "market", "Genel", "333")
	require.NoError(t, err)
	assert.Equal(t, "market/Genel/333", ref.Key)
	assert.True(t, m.admin.Exists("market/Genel/333"))
	assert.False(t, m.customer.Exists("tenant1/market/Genel/333"))

	// Retry with the admin copy durable still succeeds.
	ref2, err := m.ApproveFromCustomerDepot(ctx, "tenant1", "market", "Genel", "333")
	require.NoError(t, err)
	assert.Equal(t, ref.Key, ref2.Key)
}

func TestManager_RejectKeepsCustomerCopy(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _, err := m.SubmitToCustomerDepot(ctx, "tenant1", "market", "Genel", "444", []byte("v1"), domain.ImageSourceUpload)
	require.NoError(t, err)
	_, _, err = m.SubmitToPending(ctx, "tenant1", "market", "Genel", "444", []byte("v2"), domain.ImageSourceUpload, "")
	require.NoError(t, err)

	require.NoError(t, m.Reject(ctx, "tenant1", "market", "Genel", "444"))

	assert.False(t, m.pending.Exists("tenant1/market/Genel/444"))
	assert.True(t, m.customer.Exists("tenant1/market/Genel/444"))

	meta, err := m.customer.ReadMeta("tenant1/market/Genel/444")
	require.NoError(t, err)
	assert.Equal(t, domain.ImageStatusRejected, meta.Status)
	require.NotNil(t, meta.RejectedAt)
}

func TestManager_RejectWithoutPending(t *testing.T) {
	m := newTestManager(t)

	err := m.Reject(context.Background(), "tenant1", "market", "Genel", "404")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestManager_DeleteFromTier(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _, err := m.SubmitToCustomerDepot(ctx, "tenant1", "market", "Genel", "555", []byte("img"), domain.ImageSourceUpload)
	require.NoError(t, err)

	require.NoError(t, m.Delete(domain.TierCustomer, "tenant1", "market", "Genel", "555"))

	err = m.Delete(domain.TierCustomer, "tenant1", "market", "Genel", "555")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = m.Delete(domain.Tier("bogus"), "tenant1", "market", "Genel", "555")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestManager_PendingQueueNewestFirst(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC),
	}
	i := 0
	m.now = func() time.Time { t := times[i]; i++; return t }

	for _, barcode := range []string{"100", "200", "300"} {
		_, _, err := m.SubmitToPending(ctx, "tenant1", "market", "Genel", barcode, []byte("img"), domain.ImageSourceUpload, "")
		require.NoError(t, err)
	}

	queue, err := m.PendingQueue()
	require.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, "300", queue[0].Barcode)
	assert.Equal(t, "100", queue[2].Barcode)
}

func TestManager_CatalogListings(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _, err := m.SubmitToCustomerDepot(ctx, "tenant1", "market", "Genel", "100", []byte("img"), domain.ImageSourceUpload)
	require.NoError(t, err)
	_, _, err = m.SubmitToCustomerDepot(ctx, "tenant1", "giyim", "Genel", "200", []byte("img"), domain.ImageSourceUpload)
	require.NoError(t, err)
	_, _, err = m.SubmitToCustomerDepot(ctx, "tenant2", "market", "Genel", "300", []byte("img"), domain.ImageSourceUpload)
	require.NoError(t, err)

	all, err := m.CustomerImages("tenant1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	market, err := m.CustomerImages("tenant1", "market")
	require.NoError(t, err)
	require.Len(t, market, 1)
	assert.Equal(t, "100", market[0].Barcode)

	_, err = m.CustomerImages("", "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = m.ApproveFromCustomerDepot(ctx, "tenant2", "market", "Genel", "300")
	require.NoError(t, err)

	adminMarket, err := m.AdminImagesBySector("market")
	require.NoError(t, err)
	require.Len(t, adminMarket, 1)
	assert.Equal(t, "300", adminMarket[0].Barcode)
	assert.Equal(t, domain.ImageStatusApproved, adminMarket[0].Status)
}

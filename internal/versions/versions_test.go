package versions

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

func newTestStore(t *testing.T, retention int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "versions.db"), retention, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAssignsSequentialNumbers(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		n, err := s.Save(ctx, "br_1", "tenant1", []byte(fmt.Sprintf(`{"rev":%d}`, want)), "save")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	// Another brochure's history is independent.
	n, err := s.Save(ctx, "br_2", "tenant1", []byte(`{}`), "save")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Same brochure id under a different tenant is independent too.
	n, err = s.Save(ctx, "br_1", "tenant2", []byte(`{}`), "save")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_GetReturnsExactSnapshot(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	snapshot := []byte(`{"id":"br_1","pages":[{"number":1}]}`)
	_, err := s.Save(ctx, "br_1", "tenant1", snapshot, "add_page")
	require.NoError(t, err)

	v, err := s.Get(ctx, "br_1", "tenant1", 1)
	require.NoError(t, err)
	assert.Equal(t, snapshot, v.Data)
	assert.Equal(t, "add_page", v.Action)
	assert.Equal(t, 1, v.Number)
	assert.False(t, v.CreatedAt.IsZero())

	_, err = s.Get(ctx, "br_1", "tenant1", 99)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = s.Get(ctx, "br_1", "tenant2", 1)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestStore_RetentionPrunesOldest(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := s.Save(ctx, "br_1", "tenant1", []byte(fmt.Sprintf(`{"rev":%d}`, i)), "save")
		require.NoError(t, err)
	}

	list, err := s.List(ctx, "br_1", "tenant1", 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 5, list[0].Number)
	assert.Equal(t, 3, list[2].Number)

	// Pruned versions are gone, numbering never resets.
	_, err = s.Get(ctx, "br_1", "tenant1", 1)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	n, err := s.Save(ctx, "br_1", "tenant1", []byte(`{"rev":6}`), "save")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestStore_ListNewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, err := s.Save(ctx, "br_1", "tenant1", []byte(`{}`), fmt.Sprintf("action_%d", i))
		require.NoError(t, err)
	}

	list, err := s.List(ctx, "br_1", "tenant1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 4, list[0].Number)
	assert.Equal(t, "action_4", list[0].Action)
	assert.Equal(t, 3, list[1].Number)
}

func TestStore_RestoreAppendsNewVersion(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	old := []byte(`{"rev":1}`)
	_, err := s.Save(ctx, "br_1", "tenant1", old, "save")
	require.NoError(t, err)
	_, err = s.Save(ctx, "br_1", "tenant1", []byte(`{"rev":2}`), "save")
	require.NoError(t, err)

	data, n, err := s.Restore(ctx, "br_1", "tenant1", 1)
	require.NoError(t, err)
	assert.Equal(t, old, data)
	assert.Equal(t, 3, n)

	v, err := s.Get(ctx, "br_1", "tenant1", 3)
	require.NoError(t, err)
	assert.Equal(t, "restore_from_v1", v.Action)
	assert.Equal(t, old, v.Data)

	// History was not rewound.
	v2, err := s.Get(ctx, "br_1", "tenant1", 2)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"rev":2}`), v2.Data)
}

func TestStore_RestoreMissingVersion(t *testing.T) {
	s := newTestStore(t, 10)

	_, _, err := s.Restore(context.Background(), "br_1", "tenant1", 7)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestStore_DeleteAll(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, "br_1", "tenant1", []byte(`{}`), "save")
		require.NoError(t, err)
	}
	require.NoError(t, s.DeleteAll(ctx, "br_1", "tenant1"))

	list, err := s.List(ctx, "br_1", "tenant1", 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Numbering restarts for a fresh history.
	n, err := s.Save(ctx, "br_1", "tenant1", []byte(`{}`), "save")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_SaveValidation(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	_, err := s.Save(ctx, "", "tenant1", []byte(`{}`), "save")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = s.Save(ctx, "br_1", "tenant1", nil, "save")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestStore_ConcurrentSavesStaySequential(t *testing.T) {
	s := newTestStore(t, 100)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	numbers := make(chan int, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.Save(ctx, "br_race", "tenant1", []byte(`{}`), "save")
			assert.NoError(t, err)
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int]bool)
	for n := range numbers {
		assert.False(t, seen[n], "duplicate version number %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, writers)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.db")

	s1, err := Open(path, 10, nil)
	require.NoError(t, err)
	_, err = s1.Save(context.Background(), "br_1", "tenant1", []byte(`{}`), "save")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening must not re-run applied migrations or lose data.
	s2, err := Open(path, 10, nil)
	require.NoError(t, err)
	defer s2.Close()

	v, err := s2.Get(context.Background(), "br_1", "tenant1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Number)
}

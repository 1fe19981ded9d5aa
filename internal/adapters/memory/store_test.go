package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/casa_ledger/internal/adapters/memory"
	"github.com/SscSPs/casa_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Value int `json:"value"`
}

func TestCommitAppliesAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("a/1", node{1})))

	batch := portsrepo.NewBatch().
		Put("a/1", node{2}).
		Put("a/2", node{3}).
		ExpectAbsent("a/1")
	err := store.Commit(ctx, batch)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	raw, err := store.Get(ctx, "a/1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":1}`, string(raw))
	_, err = store.Get(ctx, "a/2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommitExpectValue(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("acc", node{10})))
	raw, err := store.Get(ctx, "acc")
	require.NoError(t, err)

	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("acc", node{20}).ExpectValue("acc", raw)))

	// The same stale read must now lose.
	err = store.Commit(ctx, portsrepo.NewBatch().Put("acc", node{30}).ExpectValue("acc", raw))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestNilValueDeletes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("x/1", node{1})))
	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("x/1", nil)))

	_, err := store.Get(ctx, "x/1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListReturnsDirectChildrenOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().
		Put("accounts/casa", node{1}).
		Put("accounts/personal/ana", node{2}).
		Put("accounts/personal/luis", node{3})))

	children, err := store.List(ctx, "accounts/personal")
	require.NoError(t, err)
	assert.Len(t, children, 2)
	assert.Contains(t, children, "ana")
	assert.Contains(t, children, "luis")

	top, err := store.List(ctx, "accounts")
	require.NoError(t, err)
	assert.Len(t, top, 1)
	assert.Contains(t, top, "casa")
}

func TestUnavailableStoreReportsTransport(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SetAvailable(false)

	_, err := store.Get(ctx, "anything")
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.ErrorIs(t, store.Ping(ctx), apperrors.ErrTransport)
	assert.ErrorIs(t, store.Commit(ctx, portsrepo.NewBatch().Put("a", node{1})), apperrors.ErrTransport)

	store.SetAvailable(true)
	assert.NoError(t, store.Ping(ctx))
}

func TestFailNextCommits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.FailNextCommits(apperrors.ErrTransport)

	assert.ErrorIs(t, store.Commit(ctx, portsrepo.NewBatch().Put("a", node{1})), apperrors.ErrTransport)
	assert.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("a", node{1})))
}

func TestSubscribeDeliversCurrentThenChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := memory.NewStore()
	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("accounts/casa", node{1})))

	ch, err := store.Subscribe(ctx, "accounts/casa")
	require.NoError(t, err)

	assert.JSONEq(t, `{"value":1}`, string(receive(t, ch)))

	require.NoError(t, store.Commit(ctx, portsrepo.NewBatch().Put("accounts/casa", node{2})))
	assert.JSONEq(t, `{"value":2}`, string(receive(t, ch)))

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("no value delivered")
		return nil
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

func TestLedgerRecordAndHydrate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSetsRepo()
	l := NewLedger(repo, 7*24*time.Hour)

	pl := []storage.SetMessage{{SetKey: "7-101", GuildID: "g1", ChannelID: "c1", MessageID: "m1"}}
	require.NoError(t, l.Record(ctx, "7-101", 7, domain.SetInProgress, "🔴 A vs B (1-0)", pl))

	e, ok := l.Get("7-101")
	require.True(t, ok)
	assert.Equal(t, domain.SetInProgress, e.State)
	assert.Equal(t, "m1", e.Messages["g1"].MessageID)

	// a fresh ledger over the same store sees the same entry
	l2 := NewLedger(repo, 7*24*time.Hour)
	require.NoError(t, l2.Hydrate(ctx))
	e2, ok := l2.Get("7-101")
	require.True(t, ok)
	assert.Equal(t, domain.SetInProgress, e2.State)
	assert.Equal(t, "🔴 A vs B (1-0)", e2.Summary)
	assert.Equal(t, "m1", e2.Messages["g1"].MessageID)
}

func TestLedgerMonotonicState(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSetsRepo()
	l := NewLedger(repo, 7*24*time.Hour)

	require.NoError(t, l.Record(ctx, "7-101", 7, domain.SetComplete, "✅ A def. B (3-1)", nil))
	// a stale snapshot must not roll the state back
	require.NoError(t, l.Record(ctx, "7-101", 7, domain.SetInProgress, "🔴 A vs B (2-1)", nil))

	e, ok := l.Get("7-101")
	require.True(t, ok)
	assert.Equal(t, domain.SetComplete, e.State)
	assert.Equal(t, "✅ A def. B (3-1)", e.Summary)

	row, err := repo.Get(ctx, "7-101")
	require.NoError(t, err)
	assert.Equal(t, "complete", row.State)
}

func TestLedgerPrune(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSetsRepo()
	l := NewLedger(repo, 7*24*time.Hour)

	require.NoError(t, l.Record(ctx, "7-101", 7, domain.SetComplete, "✅ A def. B", nil))
	l.Prune(time.Now().Add(8 * 24 * time.Hour))

	_, ok := l.Get("7-101")
	assert.False(t, ok, "entries past the retention window should drop from memory")
}

func TestLedgerInFlightFlag(t *testing.T) {
	l := NewLedger(newFakeSetsRepo(), 0)
	require.True(t, l.TryBegin())
	assert.False(t, l.TryBegin(), "second begin while in flight must fail")
	l.End()
	assert.True(t, l.TryBegin())
}

func TestLedgerEventCompletionDurableFirst(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSetsRepo()
	l := NewLedger(repo, 7*24*time.Hour)

	assert.False(t, l.IsEventComplete(ctx, 7))
	require.NoError(t, l.MarkEventComplete(ctx, 7, nil))
	assert.True(t, l.IsEventComplete(ctx, 7))

	// fresh ledger, empty memory: the durable marker still gates
	l2 := NewLedger(repo, 7*24*time.Hour)
	assert.True(t, l2.IsEventComplete(ctx, 7))
}

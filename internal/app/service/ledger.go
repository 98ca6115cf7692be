package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// LedgerEntry is the in-memory mirror of one processed_sets row plus
// its per-guild message placements.
type LedgerEntry struct {
	State     domain.SetState
	Summary   string
	Messages  map[string]storage.SetMessage // guildID -> placement
	UpdatedAt time.Time
}

// Ledger is the dedup ledger: an in-memory map mirrored to durable
// storage, hydrated once at startup so a restart does not re-announce
// what the store remembers. It also owns the poll in-flight flag, so
// only one cycle body mutates it at a time.
type Ledger struct {
	sets      SetsRepo
	retention time.Duration

	mu       sync.Mutex
	entries  map[string]*LedgerEntry
	inFlight bool
}

func NewLedger(sets SetsRepo, retention time.Duration) *Ledger {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &Ledger{
		sets:      sets,
		retention: retention,
		entries:   map[string]*LedgerEntry{},
	}
}

// TryBegin claims the in-flight flag. False means a cycle is already
// running and the caller should skip this tick, not queue it.
func (l *Ledger) TryBegin() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight {
		return false
	}
	l.inFlight = true
	return true
}

func (l *Ledger) End() {
	l.mu.Lock()
	l.inFlight = false
	l.mu.Unlock()
}

// Hydrate loads rows newer than the retention window into memory.
// Called once before the first cycle; a failure here is fatal to the
// host process.
func (l *Ledger) Hydrate(ctx context.Context) error {
	cutoff := time.Now().Add(-l.retention)
	rows, err := l.sets.Since(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("ledger hydrate: %w", err)
	}
	keys := make([]string, 0, len(rows))
	entries := make(map[string]*LedgerEntry, len(rows))
	for _, r := range rows {
		keys = append(keys, r.SetKey)
		entries[r.SetKey] = &LedgerEntry{
			State:     domain.ParseSetState(r.State),
			Summary:   r.Summary,
			Messages:  map[string]storage.SetMessage{},
			UpdatedAt: r.UpdatedAt,
		}
	}
	msgs, err := l.sets.MessagesByKeys(ctx, keys)
	if err != nil {
		return fmt.Errorf("ledger hydrate messages: %w", err)
	}
	for _, m := range msgs {
		if e, ok := entries[m.SetKey]; ok {
			e.Messages[m.GuildID] = m
		}
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return nil
}

// Get returns a copy of the entry; mutate only through Record.
func (l *Ledger) Get(key string) (LedgerEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return LedgerEntry{}, false
	}
	out := LedgerEntry{State: e.State, Summary: e.Summary, UpdatedAt: e.UpdatedAt,
		Messages: make(map[string]storage.SetMessage, len(e.Messages))}
	for g, m := range e.Messages {
		out.Messages[g] = m
	}
	return out, true
}

// Placement returns the tracked message for one guild, if any.
func (l *Ledger) Placement(key, guildID string) (storage.SetMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return storage.SetMessage{}, false
	}
	m, ok := e.Messages[guildID]
	return m, ok
}

// Record persists state+summary and any new placements in one write
// per set per cycle. State is monotonic: a row that reached complete
// never goes back, whatever order API snapshots arrive in.
func (l *Ledger) Record(ctx context.Context, key string, eventID int, state domain.SetState, summary string, placements []storage.SetMessage) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if ok && e.State == domain.SetComplete && state != domain.SetComplete {
		state, summary = e.State, e.Summary
	}
	if !ok {
		e = &LedgerEntry{Messages: map[string]storage.SetMessage{}}
		l.entries[key] = e
	}
	e.State = state
	e.Summary = summary
	e.UpdatedAt = time.Now()
	for _, m := range placements {
		e.Messages[m.GuildID] = m
	}
	l.mu.Unlock()

	if err := l.sets.Upsert(ctx, storage.ProcessedSet{
		SetKey:  key,
		EventID: eventID,
		State:   state.String(),
		Summary: summary,
	}); err != nil {
		return err
	}
	for _, m := range placements {
		if err := l.sets.UpsertMessage(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// IsEventComplete checks the durable completion marker before the
// in-memory one, so the standings announcement survives restarts.
func (l *Ledger) IsEventComplete(ctx context.Context, eventID int) bool {
	key := domain.EventCompletionKey(eventID)
	if row, err := l.sets.Get(ctx, key); err == nil {
		l.mu.Lock()
		if _, ok := l.entries[key]; !ok {
			l.entries[key] = &LedgerEntry{
				State:     domain.ParseSetState(row.State),
				Summary:   row.Summary,
				Messages:  map[string]storage.SetMessage{},
				UpdatedAt: row.UpdatedAt,
			}
		}
		l.mu.Unlock()
		return true
	}
	l.mu.Lock()
	_, ok := l.entries[key]
	l.mu.Unlock()
	return ok
}

func (l *Ledger) MarkEventComplete(ctx context.Context, eventID int, placements []storage.SetMessage) error {
	return l.Record(ctx, domain.EventCompletionKey(eventID), eventID, domain.SetComplete, "standings posted", placements)
}

// Prune drops in-memory entries older than the retention window. The
// durable rows are the janitor's job.
func (l *Ledger) Prune(now time.Time) {
	cutoff := now.Add(-l.retention)
	l.mu.Lock()
	for k, e := range l.entries {
		if e.UpdatedAt.Before(cutoff) {
			delete(l.entries, k)
		}
	}
	l.mu.Unlock()
}

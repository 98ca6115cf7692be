package storage

import (
	"context"
	"database/sql"
	"time"

	pq "github.com/lib/pq"
)

// SetsRepo is the durable half of the dedup ledger: processed_sets rows
// plus their per-guild message placements.
type SetsRepo struct{ db *sql.DB }

func NewSetsRepo(db *sql.DB) *SetsRepo { return &SetsRepo{db: db} }

func (r *SetsRepo) Get(ctx context.Context, setKey string) (ProcessedSet, error) {
	var s ProcessedSet
	err := r.db.QueryRowContext(ctx, `
SELECT set_key, event_id, state, summary, updated_at
  FROM processed_sets
 WHERE set_key = $1
`, setKey).Scan(&s.SetKey, &s.EventID, &s.State, &s.Summary, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return ProcessedSet{}, ErrNotFound
	}
	return s, err
}

func (r *SetsRepo) Upsert(ctx context.Context, s ProcessedSet) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO processed_sets (set_key, event_id, state, summary, updated_at)
VALUES ($1,$2,$3,$4,now())
ON CONFLICT (set_key) DO UPDATE SET
  state      = EXCLUDED.state,
  summary    = EXCLUDED.summary,
  updated_at = now()
`, s.SetKey, s.EventID, s.State, s.Summary)
	return err
}

func (r *SetsRepo) UpsertMessage(ctx context.Context, m SetMessage) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO set_messages (set_key, guild_id, channel_id, message_id)
VALUES ($1,$2,$3,$4)
ON CONFLICT (set_key, guild_id) DO UPDATE SET
  channel_id = EXCLUDED.channel_id,
  message_id = EXCLUDED.message_id
`, m.SetKey, m.GuildID, m.ChannelID, m.MessageID)
	return err
}

// Since loads every ledger row updated after the cutoff, for the
// startup hydrate. Older rows are left to the janitor.
func (r *SetsRepo) Since(ctx context.Context, cutoff time.Time) ([]ProcessedSet, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT set_key, event_id, state, summary, updated_at
  FROM processed_sets
 WHERE updated_at > $1
`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProcessedSet
	for rows.Next() {
		var s ProcessedSet
		if err := rows.Scan(&s.SetKey, &s.EventID, &s.State, &s.Summary, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MessagesByKeys: batch placement lookup for the hydrate.
func (r *SetsRepo) MessagesByKeys(ctx context.Context, keys []string) ([]SetMessage, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT set_key, guild_id, channel_id, message_id
  FROM set_messages
 WHERE set_key = ANY($1)
`, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SetMessage
	for rows.Next() {
		var m SetMessage
		if err := rows.Scan(&m.SetKey, &m.GuildID, &m.ChannelID, &m.MessageID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

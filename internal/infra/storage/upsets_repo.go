package storage

import (
	"context"
	"database/sql"
)

type UpsetsRepo struct{ db *sql.DB }

func NewUpsetsRepo(db *sql.DB) *UpsetsRepo { return &UpsetsRepo{db: db} }

// Insert is idempotent on (guild, event, set): re-observing an upset in
// a later cycle never duplicates or reorders the board.
func (r *UpsetsRepo) Insert(ctx context.Context, u UpsetEntry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO upset_entries
  (guild_id, event_id, set_id, round, winner_name, winner_seed, loser_name, loser_seed, factor)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (guild_id, event_id, set_id) DO NOTHING
`, u.GuildID, u.EventID, u.SetID, u.Round, u.WinnerName, u.WinnerSeed, u.LoserName, u.LoserSeed, u.Factor)
	return err
}

// Trim keeps only the top keep rows by factor for one board.
func (r *UpsetsRepo) Trim(ctx context.Context, guildID string, eventID, keep int) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM upset_entries
 WHERE guild_id = $1 AND event_id = $2
   AND set_id NOT IN (
     SELECT set_id FROM upset_entries
      WHERE guild_id = $1 AND event_id = $2
      ORDER BY factor DESC, created_at ASC
      LIMIT $3
   )
`, guildID, eventID, keep)
	return err
}

func (r *UpsetsRepo) Top(ctx context.Context, guildID string, eventID, limit int) ([]UpsetEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, event_id, set_id, round, winner_name, winner_seed, loser_name, loser_seed, factor, created_at
  FROM upset_entries
 WHERE guild_id = $1 AND event_id = $2
 ORDER BY factor DESC, created_at ASC
 LIMIT $3
`, guildID, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUpsets(rows)
}

// RecentByGuild returns the board of the guild's most recently updated
// event, for the /upsets command.
func (r *UpsetsRepo) RecentByGuild(ctx context.Context, guildID string, limit int) ([]UpsetEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, event_id, set_id, round, winner_name, winner_seed, loser_name, loser_seed, factor, created_at
  FROM upset_entries
 WHERE guild_id = $1
   AND event_id = (
     SELECT event_id FROM upset_entries
      WHERE guild_id = $1
      ORDER BY created_at DESC
      LIMIT 1
   )
 ORDER BY factor DESC, created_at ASC
 LIMIT $2
`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUpsets(rows)
}

func scanUpsets(rows *sql.Rows) ([]UpsetEntry, error) {
	var out []UpsetEntry
	for rows.Next() {
		var u UpsetEntry
		if err := rows.Scan(&u.GuildID, &u.EventID, &u.SetID, &u.Round, &u.WinnerName,
			&u.WinnerSeed, &u.LoserName, &u.LoserSeed, &u.Factor, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

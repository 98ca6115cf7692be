package storage

import (
	"context"
	"database/sql"
)

type DashboardRepo struct{ db *sql.DB }

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

func (r *DashboardRepo) Get(ctx context.Context, guildID string, eventID int) (LiveDashboard, error) {
	var d LiveDashboard
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, event_id, channel_id, message_id, last_content, updated_at
  FROM live_dashboards
 WHERE guild_id = $1 AND event_id = $2
`, guildID, eventID).Scan(&d.GuildID, &d.EventID, &d.ChannelID, &d.MessageID, &d.LastContent, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return LiveDashboard{}, ErrNotFound
	}
	return d, err
}

func (r *DashboardRepo) Upsert(ctx context.Context, d LiveDashboard) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO live_dashboards (guild_id, event_id, channel_id, message_id, last_content, updated_at)
VALUES ($1,$2,$3,$4,$5,now())
ON CONFLICT (guild_id, event_id) DO UPDATE SET
  channel_id   = EXCLUDED.channel_id,
  message_id   = EXCLUDED.message_id,
  last_content = EXCLUDED.last_content,
  updated_at   = now()
`, d.GuildID, d.EventID, d.ChannelID, d.MessageID, d.LastContent)
	return err
}

func (r *DashboardRepo) Delete(ctx context.Context, guildID string, eventID int) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM live_dashboards WHERE guild_id = $1 AND event_id = $2
`, guildID, eventID)
	return err
}

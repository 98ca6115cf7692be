package storage

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("not found")

type ChannelsRepo struct{ db *sql.DB }

func NewChannelsRepo(db *sql.DB) *ChannelsRepo { return &ChannelsRepo{db: db} }

func (r *ChannelsRepo) Get(ctx context.Context, guildID string) (GuildChannels, error) {
	var c GuildChannels
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, results_channel_id, upsets_channel_id, standings_channel_id, created_at, updated_at
  FROM guild_channels
 WHERE guild_id = $1
`, guildID).Scan(&c.GuildID, &c.ResultsChannelID, &c.UpsetsChannelID, &c.StandingsChannelID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return GuildChannels{}, ErrNotFound
	}
	return c, err
}

// SetChannel updates one purpose column; an empty channelID clears it.
func (r *ChannelsRepo) SetChannel(ctx context.Context, guildID, purpose, channelID string) error {
	var col string
	switch purpose {
	case "results":
		col = "results_channel_id"
	case "upsets":
		col = "upsets_channel_id"
	case "standings":
		col = "standings_channel_id"
	default:
		return errors.New("unknown channel purpose: " + purpose)
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO guild_channels (guild_id, `+col+`)
VALUES ($1,$2)
ON CONFLICT (guild_id) DO UPDATE SET
  `+col+`   = EXCLUDED.`+col+`,
  updated_at = now()
`, guildID, channelID)
	return err
}

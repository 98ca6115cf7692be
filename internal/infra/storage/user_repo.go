package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Upsert by user_slug; keeps discord_user_id unique per guild.
func (r *UserRepo) UpsertLink(ctx context.Context, ul UserLink) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_links (user_slug, discord_user_id, gamer_tag, guild_id, deleted_at)
VALUES ($1,$2,$3,$4,NULL)
ON CONFLICT (user_slug) DO UPDATE SET
  discord_user_id = EXCLUDED.discord_user_id,
  gamer_tag       = EXCLUDED.gamer_tag,
  guild_id        = EXCLUDED.guild_id,
  deleted_at      = NULL
`, ul.UserSlug, ul.DiscordUserID, ul.GamerTag, ul.GuildID)
	return err
}

func (r *UserRepo) GetByDiscordID(ctx context.Context, discordID string) (UserLink, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_slug, discord_user_id, gamer_tag, guild_id, linked_at
  FROM user_links
 WHERE discord_user_id = $1 AND deleted_at IS NULL
`, discordID)
	var ul UserLink
	err := row.Scan(&ul.UserSlug, &ul.DiscordUserID, &ul.GamerTag, &ul.GuildID, &ul.LinkedAt)
	if err == sql.ErrNoRows {
		return UserLink{}, ErrNotFound
	}
	return ul, err
}

func (r *UserRepo) SoftDeleteByDiscordID(ctx context.Context, discordID, guildID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE user_links
   SET deleted_at = NOW()
 WHERE discord_user_id = $1
   AND guild_id        = $2
   AND deleted_at IS NULL
`, discordID, guildID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// FindDiscordBySlugs: map user_slug -> discord_user_id for the deep
// fetch. Linked accounts take precedence over the API's own Discord
// authorization field.
func (r *UserRepo) FindDiscordBySlugs(ctx context.Context, slugs []string) (map[string]string, error) {
	out := map[string]string{}
	if len(slugs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT user_slug, discord_user_id
  FROM user_links
 WHERE user_slug = ANY($1) AND deleted_at IS NULL
`, pq.Array(slugs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var slug, did string
		if err := rows.Scan(&slug, &did); err != nil {
			return nil, err
		}
		out[slug] = did
	}
	return out, rows.Err()
}

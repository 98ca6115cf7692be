package storage

import (
	"context"
	"database/sql"
)

type LinksRepo struct{ db *sql.DB }

func NewLinksRepo(db *sql.DB) *LinksRepo { return &LinksRepo{db: db} }

// Upsert keeps at most one row per (guild, slug, type). Re-tracking an
// already tracked slug is a no-op.
func (r *LinksRepo) Upsert(ctx context.Context, l TrackedLink) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tracked_links (guild_id, slug, link_type)
VALUES ($1,$2,$3)
ON CONFLICT (guild_id, slug, link_type) DO NOTHING
`, l.GuildID, l.Slug, l.LinkType)
	return err
}

func (r *LinksRepo) Delete(ctx context.Context, guildID, slug string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM tracked_links
 WHERE guild_id = $1 AND slug = $2
`, guildID, slug)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// All returns every tracked link, ordered stably so each poll cycle
// walks links in the same order.
func (r *LinksRepo) All(ctx context.Context) ([]TrackedLink, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, slug, link_type, created_at
  FROM tracked_links
 ORDER BY slug, link_type, guild_id
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackedLink
	for rows.Next() {
		var l TrackedLink
		if err := rows.Scan(&l.GuildID, &l.Slug, &l.LinkType, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LinksRepo) ByGuild(ctx context.Context, guildID string) ([]TrackedLink, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, slug, link_type, created_at
  FROM tracked_links
 WHERE guild_id = $1
 ORDER BY created_at ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackedLink
	for rows.Next() {
		var l TrackedLink
		if err := rows.Scan(&l.GuildID, &l.Slug, &l.LinkType, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

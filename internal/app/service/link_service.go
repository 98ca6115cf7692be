package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// Minimal dependency for this service; implemented by startgg.Client.
type AccountAPI interface {
	UserBySlug(ctx context.Context, slug string) (gamerTag string, err error)
}

// LinkService pairs Discord accounts with start.gg users. The live
// engine prefers these links over the API's Discord authorization when
// pinging players.
type LinkService struct {
	api   AccountAPI
	users UserRepo
}

func NewLinkService(api AccountAPI, users UserRepo) *LinkService {
	return &LinkService{api: api, users: users}
}

func (s *LinkService) Link(ctx context.Context, slug, discordID, guildID string) (string, error) {
	tag, err := s.api.UserBySlug(ctx, slug)
	if err != nil {
		return "❌ Couldn't find a start.gg user for `" + slug + "`. The slug looks like `user/a1b2c3d4` on your profile URL.", nil
	}

	existing, err := s.users.GetByDiscordID(ctx, discordID)
	if err == nil && existing.UserSlug != slug {
		return "⚠️ You're already linked as **" + existing.GamerTag + "**. Use `/unlink` first.", nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	if err := s.users.UpsertLink(ctx, storage.UserLink{
		UserSlug:      slug,
		DiscordUserID: discordID,
		GamerTag:      tag,
		GuildID:       guildID,
	}); err != nil {
		return "", err
	}
	return "✅ Linked as **" + tag + "**. You'll get pinged when your sets are announced.", nil
}

func (s *LinkService) Unlink(ctx context.Context, discordID, guildID string) (string, error) {
	ok, err := s.users.SoftDeleteByDiscordID(ctx, discordID, guildID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "ℹ️ You had no active link on this server.", nil
	}
	return "✅ Unlinked. Use `/link` whenever you want to link again.", nil
}

func (s *LinkService) WhoAmI(ctx context.Context, discordID string) (string, error) {
	ul, err := s.users.GetByDiscordID(ctx, discordID)
	if errors.Is(err, storage.ErrNotFound) {
		return "ℹ️ Not linked. Use `/link slug:<your start.gg user slug>`.", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("**Discord:** <@%s>\n**start.gg:** `%s` (%s)\n**Linked:** <t:%d:R>",
		ul.DiscordUserID, ul.UserSlug, ul.GamerTag, ul.LinkedAt.Unix()), nil
}

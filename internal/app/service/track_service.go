package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jose-valero/startgg-live-bot/internal/adapters/startgg"
	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// TrackService manages a guild's TrackedLinks. The returned strings are
// user-facing command replies.
type TrackService struct {
	api   TournamentAPI
	links LinksRepo
}

func NewTrackService(api TournamentAPI, links LinksRepo) *TrackService {
	return &TrackService{api: api, links: links}
}

func (s *TrackService) Add(ctx context.Context, guildID, slug, typ string) (string, error) {
	linkType := domain.ParseLinkType(typ)

	// validate the slug up front so a typo doesn't rot in the poll loop
	var name string
	switch linkType {
	case domain.LinkEvent:
		te, err := s.api.EventBySlug(ctx, slug)
		if errors.Is(err, startgg.ErrNotFound) {
			return "❌ No event found for `" + slug + "`.", nil
		}
		if err != nil {
			return "", err
		}
		name = te.Tournament.Name + " — " + te.Events[0].Name
	case domain.LinkTournament:
		te, err := s.api.TournamentBySlug(ctx, slug)
		if errors.Is(err, startgg.ErrNotFound) {
			return "❌ No tournament found for `" + slug + "`.", nil
		}
		if err != nil {
			return "", err
		}
		name = te.Tournament.Name
	default:
		name = slug
	}

	if err := s.links.Upsert(ctx, storage.TrackedLink{
		GuildID:  guildID,
		Slug:     slug,
		LinkType: string(linkType),
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Tracking **%s** (%s). Results will show up once channels are configured with `/channels set`.", name, linkType), nil
}

func (s *TrackService) Remove(ctx context.Context, guildID, slug string) (string, error) {
	ok, err := s.links.Delete(ctx, guildID, slug)
	if err != nil {
		return "", err
	}
	if !ok {
		return "ℹ️ This server wasn't tracking `" + slug + "`.", nil
	}
	return "✅ Stopped tracking `" + slug + "`.", nil
}

func (s *TrackService) List(ctx context.Context, guildID string) (string, error) {
	links, err := s.links.ByGuild(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return "ℹ️ Nothing tracked yet. Use `/track add`.", nil
	}
	var b strings.Builder
	b.WriteString("📋 **Tracked links**\n")
	for i, l := range links {
		fmt.Fprintf(&b, "%d) `%s` (%s)\n", i+1, l.Slug, domain.ParseLinkType(l.LinkType))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

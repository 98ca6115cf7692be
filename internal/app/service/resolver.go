package service

import (
	"context"
	"errors"

	"github.com/jose-valero/startgg-live-bot/internal/adapters/startgg"
	"github.com/jose-valero/startgg-live-bot/internal/domain"
)

// resolveGroup turns one tracked (slug, type) pair into the tournaments
// and events in scope for this cycle. A slug the API no longer knows is
// "no tournaments this cycle", not a cycle failure.
func (s *LiveService) resolveGroup(ctx context.Context, g linkGroup) ([]domain.TournamentEvents, error) {
	switch g.typ {
	case domain.LinkEvent:
		te, err := s.api.EventBySlug(ctx, g.slug)
		if errors.Is(err, startgg.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []domain.TournamentEvents{*te}, nil

	case domain.LinkTournament:
		te, err := s.api.TournamentBySlug(ctx, g.slug)
		if errors.Is(err, startgg.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []domain.TournamentEvents{*te}, nil

	default:
		// league, also the fallback for links saved without a type
		now := s.now()
		tes, err := s.api.LeagueEvents(ctx, g.slug, now.Add(-leagueLookback), now.Add(leagueLookahead), maxLeagueEvents)
		if errors.Is(err, startgg.ErrNotFound) {
			return nil, nil
		}
		return tes, err
	}
}

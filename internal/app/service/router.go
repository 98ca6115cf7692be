package service

import (
	"context"
	"errors"
	"log"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// routeSet fans one actionable set out to every subscribed guild, then
// writes the ledger exactly once, batching all per-guild placements
// under the single write.
func (s *LiveService) routeSet(ctx context.Context, t domain.Tournament, ev domain.Event, set domain.SetSnapshot, summary string, prev domain.SetState, guilds []string, mentions map[int]string) {
	key := set.Key()
	isUpset := set.State == domain.SetComplete && set.UpsetFactor() >= minUpsetFactor
	content := renderResult(t, ev, set, summary, mentions, isUpset)

	var placements []storage.SetMessage
	for _, guildID := range guilds {
		pl, err := s.routeSetForGuild(ctx, guildID, key, set, prev, isUpset, content)
		if err != nil {
			// this guild only; the rest of the fan-out continues
			log.Printf("[router] guild %s set %s: %v", guildID, key, err)
			continue
		}
		if pl != nil {
			placements = append(placements, *pl)
		}
	}

	if err := s.ledger.Record(ctx, key, set.EventID, set.State, summary, placements); err != nil {
		log.Printf("[router] ledger write %s: %v", key, err)
	}
}

// routeSetForGuild decides post vs edit vs delete for one guild. A nil
// placement means nothing new to persist for this guild.
func (s *LiveService) routeSetForGuild(ctx context.Context, guildID, key string, set domain.SetSnapshot, prev domain.SetState, isUpset bool, content string) (*storage.SetMessage, error) {
	ch, err := s.channels.Get(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		// guild never configured channels: valid, silent
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	channelID := ch.ResultsChannelID
	if set.State == domain.SetComplete && isUpset && ch.UpsetsChannelID != "" {
		channelID = ch.UpsetsChannelID
	}
	if channelID == "" {
		return nil, nil
	}

	old, hasOld := s.ledger.Placement(key, guildID)

	if set.State == domain.SetComplete {
		if prev == domain.SetComplete && hasOld {
			// final message already sent in a prior cycle
			return nil, nil
		}
		// results stay at the bottom of the feed: drop the tracked
		// in-progress message and send a fresh one
		oldChannel, oldMessage := "", ""
		if hasOld {
			oldChannel, oldMessage = old.ChannelID, old.MessageID
		}
		id, err := s.upsertBottomMessage(ctx, channelID, oldChannel, oldMessage, content)
		if err != nil {
			return nil, err
		}
		return &storage.SetMessage{SetKey: key, GuildID: guildID, ChannelID: channelID, MessageID: id}, nil
	}

	// in-progress: edit in place when the tracked message still exists
	if hasOld {
		if err := s.msg.Edit(ctx, old.ChannelID, old.MessageID, content); err == nil {
			return nil, nil
		} else {
			log.Printf("[router] edit failed for guild %s set %s, sending new: %v", guildID, key, err)
		}
	}
	id, err := s.msg.Send(ctx, channelID, content)
	if err != nil {
		return nil, err
	}
	return &storage.SetMessage{SetKey: key, GuildID: guildID, ChannelID: channelID, MessageID: id}, nil
}

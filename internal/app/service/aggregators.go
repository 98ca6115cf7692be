package service

import (
	"context"
	"errors"
	"log"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

const (
	dashboardTopUpsets   = 5
	dashboardLastResults = 5
	dashboardCallable    = 5
)

// recordUpset appends one qualifying upset to each subscribed guild's
// board. Insert is idempotent on set id, so re-observations and
// backfills never duplicate or grow the board.
func (s *LiveService) recordUpset(ctx context.Context, ev domain.Event, set domain.SetSnapshot, guilds []string) {
	w, l, ok := set.Winner()
	if !ok {
		return
	}
	for _, guildID := range guilds {
		u := storage.UpsetEntry{
			GuildID:    guildID,
			EventID:    ev.ID,
			SetID:      set.ID,
			Round:      set.Round,
			WinnerName: w.Name,
			WinnerSeed: w.Seed,
			LoserName:  l.Name,
			LoserSeed:  l.Seed,
			Factor:     set.UpsetFactor(),
		}
		if err := s.upsets.Insert(ctx, u); err != nil {
			log.Printf("[upsets] insert guild %s set %s: %v", guildID, set.ID, err)
			continue
		}
		if err := s.upsets.Trim(ctx, guildID, ev.ID, maxUpsetsKept); err != nil {
			log.Printf("[upsets] trim guild %s event %d: %v", guildID, ev.ID, err)
		}
	}
}

// announceStandings posts the final top-8 once per event. Gated by the
// durable completion marker first, so restarts cannot re-announce.
func (s *LiveService) announceStandings(ctx context.Context, t domain.Tournament, ev domain.Event, guilds []string) {
	if s.ledger.IsEventComplete(ctx, ev.ID) {
		return
	}
	standings, err := s.api.EventStandings(ctx, ev.ID, standingsTop)
	if err != nil {
		log.Printf("[live] standings for event %d: %v", ev.ID, err)
		return
	}
	if len(standings) == 0 {
		return
	}
	content := renderStandings(t, ev, standings)
	key := domain.EventCompletionKey(ev.ID)

	var placements []storage.SetMessage
	for _, guildID := range guilds {
		ch, err := s.channels.Get(ctx, guildID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				log.Printf("[live] channels for guild %s: %v", guildID, err)
			}
			continue
		}
		if ch.StandingsChannelID == "" {
			continue
		}
		id, err := s.msg.Send(ctx, ch.StandingsChannelID, content)
		if err != nil {
			log.Printf("[live] standings send guild %s: %v", guildID, err)
			continue
		}
		placements = append(placements, storage.SetMessage{
			SetKey: key, GuildID: guildID, ChannelID: ch.StandingsChannelID, MessageID: id,
		})
	}
	if err := s.ledger.MarkEventComplete(ctx, ev.ID, placements); err != nil {
		log.Printf("[live] completion marker event %d: %v", ev.ID, err)
	}
}

// updateDashboard recomputes each guild's rolling overview for one
// active event. Unchanged content gets a cheap timestamp-only edit;
// changed content goes through the delete+resend that keeps the
// dashboard at the bottom of the channel.
func (s *LiveService) updateDashboard(ctx context.Context, t domain.Tournament, ev domain.Event, sets []domain.SetSnapshot, guilds []string) {
	results := lastResults(sets, dashboardLastResults)
	callable := callableSets(sets, dashboardCallable)

	for _, guildID := range guilds {
		ch, err := s.channels.Get(ctx, guildID)
		if err != nil || ch.ResultsChannelID == "" {
			continue
		}
		top, err := s.upsets.Top(ctx, guildID, ev.ID, dashboardTopUpsets)
		if err != nil {
			log.Printf("[dash] upsets guild %s event %d: %v", guildID, ev.ID, err)
		}
		body := renderDashboard(t, ev, top, results, callable)
		content := body + "\n" + updatedLine(s.now())

		d, err := s.dash.Get(ctx, guildID, ev.ID)
		if err == nil && d.LastContent == body && d.MessageID != "" {
			// same sections: refresh the timestamp in place
			if e := s.msg.Edit(ctx, d.ChannelID, d.MessageID, content); e == nil {
				continue
			}
			// fetch/edit failure falls through to a resend
		}

		oldChannel, oldMessage := "", ""
		if d.MessageID != "" {
			oldChannel, oldMessage = d.ChannelID, d.MessageID
		}
		id, err := s.upsertBottomMessage(ctx, ch.ResultsChannelID, oldChannel, oldMessage, content)
		if err != nil {
			log.Printf("[dash] send guild %s event %d: %v", guildID, ev.ID, err)
			continue
		}
		if err := s.dash.Upsert(ctx, storage.LiveDashboard{
			GuildID:     guildID,
			EventID:     ev.ID,
			ChannelID:   ch.ResultsChannelID,
			MessageID:   id,
			LastContent: body,
		}); err != nil {
			log.Printf("[dash] persist guild %s event %d: %v", guildID, ev.ID, err)
		}
	}
}

// clearDashboard removes the overview once the event leaves active.
func (s *LiveService) clearDashboard(ctx context.Context, ev domain.Event, guilds []string) {
	for _, guildID := range guilds {
		d, err := s.dash.Get(ctx, guildID, ev.ID)
		if err != nil {
			continue
		}
		if d.MessageID != "" {
			if err := s.msg.Delete(ctx, d.ChannelID, d.MessageID); err != nil {
				log.Printf("[dash] delete message guild %s event %d: %v", guildID, ev.ID, err)
			}
		}
		if err := s.dash.Delete(ctx, guildID, ev.ID); err != nil {
			log.Printf("[dash] delete record guild %s event %d: %v", guildID, ev.ID, err)
		}
	}
}

// upsertBottomMessage: Discord has no pin-to-bottom primitive, so the
// delete+send pairing that simulates it lives here, shared by the
// dashboard and the complete-result path. The old delete is
// best-effort; the send is what matters.
func (s *LiveService) upsertBottomMessage(ctx context.Context, channelID, oldChannelID, oldMessageID, content string) (string, error) {
	if oldMessageID != "" {
		if err := s.msg.Delete(ctx, oldChannelID, oldMessageID); err != nil {
			log.Printf("[live] delete old message %s: %v", oldMessageID, err)
		}
	}
	return s.msg.Send(ctx, channelID, content)
}

func lastResults(sets []domain.SetSnapshot, n int) []domain.SetSnapshot {
	var out []domain.SetSnapshot
	for _, set := range sets { // API order is most-recent first
		if set.State == domain.SetComplete && set.BothSlotsFilled() {
			out = append(out, set)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

func callableSets(sets []domain.SetSnapshot, n int) []domain.SetSnapshot {
	var out []domain.SetSnapshot
	for _, set := range sets {
		if set.State != domain.SetComplete && set.BothSlotsFilled() && set.WinnerID == 0 {
			out = append(out, set)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
)

// setAction is what one set needs this cycle.
type setAction int

const (
	actNone setAction = iota
	// actNewResult: the set reached complete since the last observation
	actNewResult
	// actUpdate: still in progress but the summary text changed
	actUpdate
	// actBackfill: state unchanged but one or more subscribed guilds
	// have no message yet (new subscriber, or a restart that lost the
	// cache before the durable load finished)
	actBackfill
)

// setSummary builds the human-readable one-liner. It is deterministic
// given state, entrant names and score, and doubles as the ledger's
// change-detection text.
func setSummary(set domain.SetSnapshot) string {
	a, b := set.Entrants[0], set.Entrants[1]
	switch set.State {
	case domain.SetComplete:
		w, l, ok := set.Winner()
		if !ok {
			return fmt.Sprintf("✅ %s vs %s", a.Name, b.Name)
		}
		if ws, ls := scoreFor(set, w.ID), scoreFor(set, l.ID); ws >= 0 && ls >= 0 {
			return fmt.Sprintf("✅ %s def. %s (%d-%d)", w.Name, l.Name, ws, ls)
		}
		return fmt.Sprintf("✅ %s def. %s", w.Name, l.Name)
	case domain.SetInProgress:
		if set.Scores[0] >= 0 && set.Scores[1] >= 0 {
			return fmt.Sprintf("🔴 %s vs %s (%d-%d)", a.Name, b.Name, set.Scores[0], set.Scores[1])
		}
		return fmt.Sprintf("🔴 %s vs %s", a.Name, b.Name)
	default:
		return fmt.Sprintf("🕓 %s vs %s", a.Name, b.Name)
	}
}

func scoreFor(set domain.SetSnapshot, entrantID int) int {
	for i, e := range set.Entrants {
		if e.ID == entrantID {
			return set.Scores[i]
		}
	}
	return -1
}

// classify diffs one set against its ledger entry. Anything not
// matching new-result / update / backfill is a no-op for this cycle.
func classify(entry LedgerEntry, known bool, set domain.SetSnapshot, summary string, guilds []string) setAction {
	switch set.State {
	case domain.SetComplete:
		if !known || entry.State != domain.SetComplete {
			return actNewResult
		}
		// already announced for this ledger state; only fill gaps
		if missingPlacement(entry, guilds) {
			return actBackfill
		}
		return actNone

	case domain.SetInProgress:
		if known && entry.State == domain.SetComplete {
			// state is monotonic; a stale in-progress snapshot after
			// complete is noise
			return actNone
		}
		if !known || entry.Summary != summary {
			return actUpdate
		}
		if missingPlacement(entry, guilds) {
			return actBackfill
		}
		return actNone

	default:
		return actNone
	}
}

func missingPlacement(entry LedgerEntry, guilds []string) bool {
	for _, g := range guilds {
		if _, ok := entry.Messages[g]; !ok {
			return true
		}
	}
	return false
}

// resolveMentions does the deep fetch for one actionable set and maps
// entrant id -> mention text. Linked accounts win over the API's own
// Discord authorization. Failures degrade to no mentions.
func (s *LiveService) resolveMentions(ctx context.Context, set domain.SetSnapshot) map[int]string {
	ids, err := s.api.SetIdentities(ctx, set.ID)
	if err != nil {
		log.Printf("[live] identities for set %s: %v", set.ID, err)
		return nil
	}
	var slugs []string
	for _, id := range ids {
		slugs = append(slugs, id.UserSlugs...)
	}
	linked, err := s.users.FindDiscordBySlugs(ctx, slugs)
	if err != nil {
		log.Printf("[live] linked accounts for set %s: %v", set.ID, err)
		linked = nil
	}

	out := map[int]string{}
	for _, id := range ids {
		for _, slug := range id.UserSlugs {
			if did, ok := linked[slug]; ok {
				out[id.EntrantID] = "<@" + did + ">"
				break
			}
		}
		if _, ok := out[id.EntrantID]; !ok && len(id.DiscordNames) > 0 {
			out[id.EntrantID] = "@" + id.DiscordNames[0]
		}
	}
	return out
}

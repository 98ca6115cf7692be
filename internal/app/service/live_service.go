package service

import (
	"context"
	"log"
	"time"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

const (
	defaultPollInterval = 60 * time.Second
	maxSetsPerFetch     = 100
	maxLeagueEvents     = 15
	leagueLookback      = 24 * time.Hour
	leagueLookahead     = 2 * time.Hour
	minUpsetFactor      = 3
	maxUpsetsKept       = 10
	standingsTop        = 8
)

// LiveService is the live-coverage engine: one poll cycle walks every
// tracked link, diffs the fresh API state against the dedup ledger and
// fans messages out per guild.
type LiveService struct {
	api      TournamentAPI
	msg      Messenger
	links    LinksRepo
	channels ChannelsRepo
	users    UserRepo
	upsets   UpsetsRepo
	dash     DashboardRepo
	ledger   *Ledger
	interval time.Duration
	now      func() time.Time
}

func NewLiveService(
	api TournamentAPI,
	msg Messenger,
	links LinksRepo,
	channels ChannelsRepo,
	users UserRepo,
	upsets UpsetsRepo,
	dash DashboardRepo,
	ledger *Ledger,
	interval time.Duration,
) *LiveService {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &LiveService{
		api:      api,
		msg:      msg,
		links:    links,
		channels: channels,
		users:    users,
		upsets:   upsets,
		dash:     dash,
		ledger:   ledger,
		interval: interval,
		now:      time.Now,
	}
}

// Run hydrates the ledger and then polls until ctx is cancelled. The
// hydrate error is returned to the caller: starting blind would
// re-announce everything the store already remembers.
func (s *LiveService) Run(ctx context.Context) error {
	if err := s.ledger.Hydrate(ctx); err != nil {
		return err
	}
	log.Printf("[live] ledger hydrated, polling every %s", s.interval)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[live] stopped: %v", ctx.Err())
			return nil
		case <-t.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle executes one full scan. Overlapping ticks are dropped, not
// queued: a second concurrent scan against a rate-limited API is worse
// than a late one.
func (s *LiveService) RunCycle(ctx context.Context) {
	if !s.ledger.TryBegin() {
		log.Printf("[live] previous cycle still running, skipping tick")
		return
	}
	defer s.ledger.End()

	s.ledger.Prune(s.now())

	links, err := s.links.All(ctx)
	if err != nil {
		log.Printf("[live] read tracked links: %v", err)
		return
	}
	for _, g := range groupLinks(links) {
		// one bad link never aborts the scan for the others
		if err := s.processGroup(ctx, g); err != nil {
			log.Printf("[live] link %s (%s): %v", g.slug, g.typ, err)
		}
	}
}

// linkGroup is one unique (slug, type) pair with its subscribed guilds.
// Resolution work is deduplicated here; the fan-out happens downstream.
type linkGroup struct {
	slug   string
	typ    domain.LinkType
	guilds []string
}

func groupLinks(links []storage.TrackedLink) []linkGroup {
	var out []linkGroup
	index := map[string]int{}
	for _, l := range links {
		typ := domain.ParseLinkType(l.LinkType)
		k := l.Slug + "|" + string(typ)
		i, ok := index[k]
		if !ok {
			out = append(out, linkGroup{slug: l.Slug, typ: typ})
			i = len(out) - 1
			index[k] = i
		}
		if !contains(out[i].guilds, l.GuildID) {
			out[i].guilds = append(out[i].guilds, l.GuildID)
		}
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func (s *LiveService) processGroup(ctx context.Context, g linkGroup) error {
	tes, err := s.resolveGroup(ctx, g)
	if err != nil {
		return err
	}
	for _, te := range tes {
		for _, ev := range te.Events {
			// per-event failure domain: log and move on
			if err := s.processEvent(ctx, te.Tournament, ev, g.guilds); err != nil {
				log.Printf("[live] event %s (%d): %v", ev.Name, ev.ID, err)
			}
		}
	}
	return nil
}

func (s *LiveService) processEvent(ctx context.Context, t domain.Tournament, ev domain.Event, guilds []string) error {
	sets, err := s.api.EventSets(ctx, ev.ID, maxSetsPerFetch)
	if err != nil {
		return err
	}
	for _, set := range sets {
		if !set.BothSlotsFilled() {
			continue
		}
		s.processSet(ctx, t, ev, set, guilds)
	}

	if ev.State == domain.EventComplete {
		s.announceStandings(ctx, t, ev, guilds)
	}
	if ev.State == domain.EventActive {
		s.updateDashboard(ctx, t, ev, sets, guilds)
	} else {
		s.clearDashboard(ctx, ev, guilds)
	}
	return nil
}

// processSet classifies one set against the ledger and, only when
// something must be said, resolves identities and routes messages.
// Errors here stay inside the set's failure domain.
func (s *LiveService) processSet(ctx context.Context, t domain.Tournament, ev domain.Event, set domain.SetSnapshot, guilds []string) {
	key := set.Key()
	summary := setSummary(set)
	entry, known := s.ledger.Get(key)

	act := classify(entry, known, set, summary, guilds)
	if act == actNone {
		if !known {
			// first observation with both slots filled: remember it,
			// nothing to announce yet
			if err := s.ledger.Record(ctx, key, set.EventID, set.State, summary, nil); err != nil {
				log.Printf("[live] ledger record %s: %v", key, err)
			}
		}
		return
	}

	prev := domain.SetUnseen
	if known {
		prev = entry.State
	}
	mentions := s.resolveMentions(ctx, set)
	s.routeSet(ctx, t, ev, set, summary, prev, guilds, mentions)

	if set.State == domain.SetComplete && set.UpsetFactor() >= minUpsetFactor {
		s.recordUpset(ctx, ev, set, guilds)
	}
}

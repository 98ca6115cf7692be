package startgg

import (
	"context"
	"time"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
)

// EventBySlug: one event plus its parent tournament metadata.
func (c *Client) EventBySlug(ctx context.Context, slug string) (*domain.TournamentEvents, error) {
	var data struct {
		Event *eventDTO `json:"event"`
	}
	if err := c.do(ctx, queryEventBySlug, map[string]any{"slug": slug}, &data); err != nil {
		return nil, err
	}
	if data.Event == nil || data.Event.Tournament == nil {
		return nil, ErrNotFound
	}
	return &domain.TournamentEvents{
		Tournament: data.Event.Tournament.toDomain(),
		Events:     []domain.Event{data.Event.toDomain()},
	}, nil
}

// TournamentBySlug: the tournament plus all its events' lightweight state.
func (c *Client) TournamentBySlug(ctx context.Context, slug string) (*domain.TournamentEvents, error) {
	var data struct {
		Tournament *struct {
			tournamentDTO
			Events []eventDTO `json:"events"`
		} `json:"tournament"`
	}
	if err := c.do(ctx, queryTournamentBySlug, map[string]any{"slug": slug}, &data); err != nil {
		return nil, err
	}
	if data.Tournament == nil {
		return nil, ErrNotFound
	}
	out := &domain.TournamentEvents{Tournament: data.Tournament.tournamentDTO.toDomain()}
	for _, ev := range data.Tournament.Events {
		out.Events = append(out.Events, ev.toDomain())
	}
	return out, nil
}

// LeagueEvents: events inside the [from, to] window, grouped by parent
// tournament. Order follows the API's event order.
func (c *Client) LeagueEvents(ctx context.Context, slug string, from, to time.Time, limit int) ([]domain.TournamentEvents, error) {
	var data struct {
		League *struct {
			Events struct {
				Nodes []eventDTO `json:"nodes"`
			} `json:"events"`
		} `json:"league"`
	}
	vars := map[string]any{
		"slug":    slug,
		"after":   from.Unix(),
		"before":  to.Unix(),
		"perPage": limit,
	}
	if err := c.do(ctx, queryLeagueEvents, vars, &data); err != nil {
		return nil, err
	}
	if data.League == nil {
		return nil, ErrNotFound
	}

	var out []domain.TournamentEvents
	byTournament := map[int]int{} // tournament id -> index in out
	for _, ev := range data.League.Events.Nodes {
		if ev.Tournament == nil {
			continue
		}
		i, ok := byTournament[ev.Tournament.ID]
		if !ok {
			out = append(out, domain.TournamentEvents{Tournament: ev.Tournament.toDomain()})
			i = len(out) - 1
			byTournament[ev.Tournament.ID] = i
		}
		out[i].Events = append(out[i].Events, ev.toDomain())
	}
	return out, nil
}

// EventSets is the thin per-cycle read: identities, scores and state
// for the most recently relevant sets, no participant accounts.
func (c *Client) EventSets(ctx context.Context, eventID, perPage int) ([]domain.SetSnapshot, error) {
	var data struct {
		Event *struct {
			ID   int `json:"id"`
			Sets struct {
				Nodes []setDTO `json:"nodes"`
			} `json:"sets"`
		} `json:"event"`
	}
	vars := map[string]any{"eventId": eventID, "perPage": perPage}
	if err := c.do(ctx, queryEventSets, vars, &data); err != nil {
		return nil, err
	}
	if data.Event == nil {
		return nil, ErrNotFound
	}
	out := make([]domain.SetSnapshot, 0, len(data.Event.Sets.Nodes))
	for _, s := range data.Event.Sets.Nodes {
		out = append(out, s.toDomain(eventID))
	}
	return out, nil
}

// SetIdentities is the deep read, issued only for sets that need a
// message this cycle.
func (c *Client) SetIdentities(ctx context.Context, setID string) ([]domain.EntrantIdentity, error) {
	var data struct {
		Set *struct {
			ID    flexID            `json:"id"`
			Slots []identitySlotDTO `json:"slots"`
		} `json:"set"`
	}
	if err := c.do(ctx, querySetIdentities, map[string]any{"setId": setID}, &data); err != nil {
		return nil, err
	}
	if data.Set == nil {
		return nil, ErrNotFound
	}
	var out []domain.EntrantIdentity
	for _, slot := range data.Set.Slots {
		if slot.Entrant == nil {
			continue
		}
		id := domain.EntrantIdentity{EntrantID: slot.Entrant.ID}
		for _, p := range slot.Entrant.Participants {
			if p.User == nil {
				continue
			}
			if p.User.Slug != "" {
				id.UserSlugs = append(id.UserSlugs, p.User.Slug)
			}
			for _, a := range p.User.Authorizations {
				if a.ExternalUsername != "" {
					id.DiscordNames = append(id.DiscordNames, a.ExternalUsername)
				}
			}
		}
		out = append(out, id)
	}
	return out, nil
}

// UserBySlug: gamer tag lookup for account linking.
func (c *Client) UserBySlug(ctx context.Context, slug string) (string, error) {
	var data struct {
		User *struct {
			Slug   string `json:"slug"`
			Player *struct {
				GamerTag string `json:"gamerTag"`
			} `json:"player"`
		} `json:"user"`
	}
	if err := c.do(ctx, queryUserBySlug, map[string]any{"slug": slug}, &data); err != nil {
		return "", err
	}
	if data.User == nil {
		return "", ErrNotFound
	}
	if data.User.Player != nil {
		return data.User.Player.GamerTag, nil
	}
	return data.User.Slug, nil
}

// EventStandings: final placements, top N.
func (c *Client) EventStandings(ctx context.Context, eventID, limit int) ([]domain.Standing, error) {
	var data struct {
		Event *struct {
			ID        int `json:"id"`
			Standings struct {
				Nodes []standingNodeDTO `json:"nodes"`
			} `json:"standings"`
		} `json:"event"`
	}
	vars := map[string]any{"eventId": eventID, "perPage": limit}
	if err := c.do(ctx, queryEventStandings, vars, &data); err != nil {
		return nil, err
	}
	if data.Event == nil {
		return nil, ErrNotFound
	}
	var out []domain.Standing
	for _, n := range data.Event.Standings.Nodes {
		if n.Entrant == nil {
			continue
		}
		out = append(out, domain.Standing{Placement: n.Placement, Name: n.Entrant.Name})
	}
	return out, nil
}

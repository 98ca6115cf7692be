package startgg

import (
	"strings"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
)

// flexID: start.gg ids are numeric, except projected sets which come
// back as strings like "preview_12345_6".
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

type tournamentDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type eventDTO struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	State       string         `json:"state"`
	NumEntrants int            `json:"numEntrants"`
	Tournament  *tournamentDTO `json:"tournament"`
}

type setSlotDTO struct {
	Entrant *struct {
		ID             int    `json:"id"`
		Name           string `json:"name"`
		InitialSeedNum int    `json:"initialSeedNum"`
	} `json:"entrant"`
	Standing *struct {
		Stats struct {
			Score struct {
				Value *float64 `json:"value"`
			} `json:"score"`
		} `json:"stats"`
	} `json:"standing"`
}

type setDTO struct {
	ID            flexID       `json:"id"`
	State         int          `json:"state"`
	WinnerID      int          `json:"winnerId"`
	FullRoundText string       `json:"fullRoundText"`
	Slots         []setSlotDTO `json:"slots"`
}

type identitySlotDTO struct {
	Entrant *struct {
		ID           int `json:"id"`
		Participants []struct {
			GamerTag string `json:"gamerTag"`
			User     *struct {
				Slug           string `json:"slug"`
				Authorizations []struct {
					ExternalUsername string `json:"externalUsername"`
				} `json:"authorizations"`
			} `json:"user"`
		} `json:"participants"`
	} `json:"entrant"`
}

type standingNodeDTO struct {
	Placement int `json:"placement"`
	Entrant   *struct {
		Name string `json:"name"`
	} `json:"entrant"`
}

// --- external → internal translation. This is the only place raw
// start.gg state codes are interpreted; everything inside the engine
// uses the domain enums.

// Set activity codes: 1 created, 2 started, 3 completed; the rest
// (ready, called, queued...) still mean "not played yet".
func setStateToDomain(code int) domain.SetState {
	switch code {
	case 3:
		return domain.SetComplete
	case 2:
		return domain.SetInProgress
	default:
		return domain.SetUnseen
	}
}

func eventStateToDomain(s string) domain.EventState {
	switch strings.ToUpper(s) {
	case "ACTIVE":
		return domain.EventActive
	case "COMPLETED":
		return domain.EventComplete
	default:
		return domain.EventNotActive
	}
}

func (t tournamentDTO) toDomain() domain.Tournament {
	return domain.Tournament{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func (e eventDTO) toDomain() domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		Slug:        e.Slug,
		State:       eventStateToDomain(e.State),
		NumEntrants: e.NumEntrants,
	}
}

func (s setDTO) toDomain(eventID int) domain.SetSnapshot {
	snap := domain.SetSnapshot{
		ID:       string(s.ID),
		EventID:  eventID,
		Round:    s.FullRoundText,
		State:    setStateToDomain(s.State),
		WinnerID: s.WinnerID,
		Scores:   [2]int{-1, -1},
	}
	for i, slot := range s.Slots {
		if i > 1 {
			break
		}
		if slot.Entrant != nil {
			snap.Entrants[i] = domain.Entrant{
				ID:   slot.Entrant.ID,
				Name: slot.Entrant.Name,
				Seed: slot.Entrant.InitialSeedNum,
			}
		}
		if slot.Standing != nil && slot.Standing.Stats.Score.Value != nil {
			snap.Scores[i] = int(*slot.Standing.Stats.Score.Value)
		}
	}
	return snap
}

package domain

import "fmt"

// SetKey builds the ledger key for one set, unique across events.
func SetKey(eventID int, setID string) string {
	return fmt.Sprintf("%d-%s", eventID, setID)
}

// EventCompletionKey is the sentinel ledger key recording that final
// standings for an event were already announced. It lives in the same
// key space as set keys; "complete" can never collide with a set id
// because set ids are numeric or "preview_" prefixed.
func EventCompletionKey(eventID int) string {
	return fmt.Sprintf("%d-complete", eventID)
}

// LinkType says what a tracked slug points at on start.gg.
type LinkType string

const (
	LinkTournament LinkType = "tournament"
	LinkEvent      LinkType = "event"
	// LinkLeague is the default when a link was saved without a type
	// (older rows), kept for backward compatibility.
	LinkLeague LinkType = "league"
)

func ParseLinkType(s string) LinkType {
	switch s {
	case string(LinkTournament):
		return LinkTournament
	case string(LinkEvent):
		return LinkEvent
	default:
		return LinkLeague
	}
}

// SetState is the engine's own view of a set. The raw start.gg activity
// codes are translated once, in the startgg adapter; nothing past that
// boundary looks at the external codes.
type SetState int

const (
	SetUnseen SetState = iota
	SetInProgress
	SetComplete
)

func (s SetState) String() string {
	switch s {
	case SetInProgress:
		return "in_progress"
	case SetComplete:
		return "complete"
	default:
		return "unseen"
	}
}

func ParseSetState(s string) SetState {
	switch s {
	case "in_progress":
		return SetInProgress
	case "complete":
		return SetComplete
	default:
		return SetUnseen
	}
}

// EventState drives the dashboard lifecycle: the dashboard exists only
// while the event is active.
type EventState int

const (
	EventNotActive EventState = iota
	EventActive
	EventComplete
)

type Tournament struct {
	ID   int
	Name string
	Slug string
}

type Event struct {
	ID          int
	Name        string
	Slug        string
	State       EventState
	NumEntrants int
}

// TournamentEvents is the resolver's normalized output: one tournament
// with the events in scope for this cycle.
type TournamentEvents struct {
	Tournament Tournament
	Events     []Event
}

type Entrant struct {
	ID   int
	Name string
	Seed int
}

// SetSnapshot is the thin per-set read: identities, score and state,
// no participant accounts. Score -1 means unknown/not reported.
type SetSnapshot struct {
	ID       string // start.gg set ids can be preview strings, not ints
	EventID  int
	Round    string
	State    SetState
	Entrants [2]Entrant
	Scores   [2]int
	WinnerID int // entrant id, 0 when no winner yet
}

// Key is the ledger key for this set, unique across events.
func (s SetSnapshot) Key() string {
	return SetKey(s.EventID, s.ID)
}

// Winner returns the winning entrant and the loser. ok is false while
// the set has no winner.
func (s SetSnapshot) Winner() (winner, loser Entrant, ok bool) {
	switch s.WinnerID {
	case 0:
		return Entrant{}, Entrant{}, false
	case s.Entrants[0].ID:
		return s.Entrants[0], s.Entrants[1], true
	case s.Entrants[1].ID:
		return s.Entrants[1], s.Entrants[0], true
	default:
		return Entrant{}, Entrant{}, false
	}
}

// BothSlotsFilled reports whether both entrants are assigned. Sets with
// an empty slot (bye, pending previous round) are ignored by the engine.
func (s SetSnapshot) BothSlotsFilled() bool {
	return s.Entrants[0].ID != 0 && s.Entrants[1].ID != 0
}

// UpsetFactor is the positive seed gap winnerSeed-loserSeed. A set is an
// upset when the winner was seeded at least minUpsetFactor worse than
// the loser. Zero when seeds are missing or the favorite won.
func (s SetSnapshot) UpsetFactor() int {
	w, l, ok := s.Winner()
	if !ok || w.Seed <= 0 || l.Seed <= 0 {
		return 0
	}
	if d := w.Seed - l.Seed; d > 0 {
		return d
	}
	return 0
}

// EntrantIdentity is the deep per-set read: the Discord handles behind
// one entrant, resolved only for sets that actually need a message.
type EntrantIdentity struct {
	EntrantID    int
	UserSlugs    []string // start.gg user slugs, matched against linked accounts
	DiscordNames []string // the API's own Discord authorization, the fallback
}

type Standing struct {
	Placement int
	Name      string
}

type Upset struct {
	SetID      string
	Round      string
	WinnerName string
	WinnerSeed int
	LoserName  string
	LoserSeed  int
	Factor     int
}

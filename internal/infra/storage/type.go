package storage

import "time"

// TrackedLink is a guild's subscription to live coverage of a slug.
// Several guilds may track the same slug; the live engine dedupes the
// API work by (slug, link_type) and fans results back out per guild.
type TrackedLink struct {
	GuildID   string
	Slug      string
	LinkType  string // tournament | event | league ('' on old rows → league)
	CreatedAt time.Time
}

// GuildChannels holds the per-guild feed channel configuration. Any of
// the channel ids may be empty, which means that feed is off for the
// guild.
type GuildChannels struct {
	GuildID            string
	ResultsChannelID   string
	UpsetsChannelID    string
	StandingsChannelID string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProcessedSet is one dedup-ledger row: the last state and summary the
// engine saw for a set (or an event-completion sentinel). Rows expire
// after the retention window via the janitor.
type ProcessedSet struct {
	SetKey    string // "<eventID>-<setID>" or "<eventID>-complete"
	EventID   int
	State     string // unseen | in_progress | complete
	Summary   string
	UpdatedAt time.Time
}

// SetMessage is one per-guild message placement for a ledger row. At
// most one row per (set_key, guild_id).
type SetMessage struct {
	SetKey    string
	GuildID   string
	ChannelID string
	MessageID string
}

// UpsetEntry is one row of a guild's per-event upset board.
type UpsetEntry struct {
	GuildID    string
	EventID    int
	SetID      string
	Round      string
	WinnerName string
	WinnerSeed int
	LoserName  string
	LoserSeed  int
	Factor     int
	CreatedAt  time.Time
}

// LiveDashboard tracks the rolling overview message a guild keeps at
// the bottom of its results channel for one active event. LastContent
// is the fingerprint used to suppress redundant resends.
type LiveDashboard struct {
	GuildID     string
	EventID     int
	ChannelID   string
	MessageID   string
	LastContent string
	UpdatedAt   time.Time
}

// UserLink maps a Discord account to a start.gg user. The live engine
// prefers these over the API's own Discord authorization field when
// mentioning players.
type UserLink struct {
	DiscordUserID string
	GuildID       string
	UserSlug      string // start.gg user slug, e.g. "user/a1b2c3d4"
	GamerTag      string
	LinkedAt      time.Time
}

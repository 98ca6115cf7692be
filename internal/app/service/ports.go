package service

import (
	"context"
	"time"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// Implemented by internal/adapters/startgg.Client
type TournamentAPI interface {
	EventBySlug(ctx context.Context, slug string) (*domain.TournamentEvents, error)
	TournamentBySlug(ctx context.Context, slug string) (*domain.TournamentEvents, error)
	LeagueEvents(ctx context.Context, slug string, from, to time.Time, limit int) ([]domain.TournamentEvents, error)
	EventSets(ctx context.Context, eventID, perPage int) ([]domain.SetSnapshot, error)
	SetIdentities(ctx context.Context, setID string) ([]domain.EntrantIdentity, error)
	EventStandings(ctx context.Context, eventID, limit int) ([]domain.Standing, error)
}

// Implemented by internal/adapters/discord.Messenger. All three are
// fallible; the engine always keeps a send-new fallback when edit or
// delete fails.
type Messenger interface {
	Send(ctx context.Context, channelID, content string) (messageID string, err error)
	Edit(ctx context.Context, channelID, messageID, content string) error
	Delete(ctx context.Context, channelID, messageID string) error
}

// Implemented by internal/infra/storage.LinksRepo
type LinksRepo interface {
	All(ctx context.Context) ([]storage.TrackedLink, error)
	ByGuild(ctx context.Context, guildID string) ([]storage.TrackedLink, error)
	Upsert(ctx context.Context, l storage.TrackedLink) error
	Delete(ctx context.Context, guildID, slug string) (bool, error)
}

// Implemented by internal/infra/storage.ChannelsRepo
type ChannelsRepo interface {
	Get(ctx context.Context, guildID string) (storage.GuildChannels, error)
	SetChannel(ctx context.Context, guildID, purpose, channelID string) error
}

// Implemented by internal/infra/storage.SetsRepo
type SetsRepo interface {
	Get(ctx context.Context, setKey string) (storage.ProcessedSet, error)
	Upsert(ctx context.Context, s storage.ProcessedSet) error
	UpsertMessage(ctx context.Context, m storage.SetMessage) error
	Since(ctx context.Context, cutoff time.Time) ([]storage.ProcessedSet, error)
	MessagesByKeys(ctx context.Context, keys []string) ([]storage.SetMessage, error)
}

// Implemented by internal/infra/storage.UpsetsRepo
type UpsetsRepo interface {
	Insert(ctx context.Context, u storage.UpsetEntry) error
	Trim(ctx context.Context, guildID string, eventID, keep int) error
	Top(ctx context.Context, guildID string, eventID, limit int) ([]storage.UpsetEntry, error)
	RecentByGuild(ctx context.Context, guildID string, limit int) ([]storage.UpsetEntry, error)
}

// Implemented by internal/infra/storage.DashboardRepo
type DashboardRepo interface {
	Get(ctx context.Context, guildID string, eventID int) (storage.LiveDashboard, error)
	Upsert(ctx context.Context, d storage.LiveDashboard) error
	Delete(ctx context.Context, guildID string, eventID int) error
}

// Implemented by internal/infra/storage.UserRepo
type UserRepo interface {
	GetByDiscordID(ctx context.Context, discordID string) (storage.UserLink, error)
	UpsertLink(ctx context.Context, ul storage.UserLink) error
	SoftDeleteByDiscordID(ctx context.Context, discordID, guildID string) (bool, error)
	FindDiscordBySlugs(ctx context.Context, slugs []string) (map[string]string, error)
}

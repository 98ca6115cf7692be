package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// ChannelService manages the per-guild feed channel configuration.
type ChannelService struct {
	channels ChannelsRepo
}

func NewChannelService(channels ChannelsRepo) *ChannelService {
	return &ChannelService{channels: channels}
}

func (s *ChannelService) Set(ctx context.Context, guildID, purpose, channelID string) (string, error) {
	if err := s.channels.SetChannel(ctx, guildID, purpose, channelID); err != nil {
		return "", err
	}
	if channelID == "" {
		return fmt.Sprintf("✅ Cleared the **%s** channel.", purpose), nil
	}
	return fmt.Sprintf("✅ **%s** feed goes to <#%s> now.", purpose, channelID), nil
}

func (s *ChannelService) Show(ctx context.Context, guildID string) (string, error) {
	ch, err := s.channels.Get(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return "ℹ️ No channels configured yet. Use `/channels set`.", nil
	}
	if err != nil {
		return "", err
	}
	show := func(id string) string {
		if id == "" {
			return "_off_"
		}
		return "<#" + id + ">"
	}
	return fmt.Sprintf("⚙️ **Feed channels**\nresults: %s\nupsets: %s\nstandings: %s",
		show(ch.ResultsChannelID), show(ch.UpsetsChannelID), show(ch.StandingsChannelID)), nil
}

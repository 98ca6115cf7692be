package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Messenger adapts a discordgo session to the live engine's message
// sink. All calls are fallible on purpose; the engine owns the
// fallbacks.
type Messenger struct {
	s *discordgo.Session
}

func NewMessenger(s *discordgo.Session) *Messenger { return &Messenger{s: s} }

func (m *Messenger) Send(ctx context.Context, channelID, content string) (string, error) {
	msg, err := m.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (m *Messenger) Edit(ctx context.Context, channelID, messageID, content string) error {
	_, err := m.s.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	return err
}

func (m *Messenger) Delete(ctx context.Context, channelID, messageID string) error {
	return m.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

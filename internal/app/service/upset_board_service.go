package service

import (
	"context"
	"fmt"
	"strings"
)

// UpsetBoardService reads the upset tracker for the /upsets command.
type UpsetBoardService struct {
	upsets UpsetsRepo
}

func NewUpsetBoardService(upsets UpsetsRepo) *UpsetBoardService {
	return &UpsetBoardService{upsets: upsets}
}

func (s *UpsetBoardService) Show(ctx context.Context, guildID string) (string, error) {
	entries, err := s.upsets.RecentByGuild(ctx, guildID, maxUpsetsKept)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "ℹ️ No upsets recorded yet.", nil
	}
	var b strings.Builder
	b.WriteString("🚨 **Upset board**\n")
	for i, u := range entries {
		fmt.Fprintf(&b, "%d) **%s** (%d) over **%s** (%d) · factor %d", i+1, u.WinnerName, u.WinnerSeed, u.LoserName, u.LoserSeed, u.Factor)
		if u.Round != "" {
			b.WriteString(" · " + u.Round)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

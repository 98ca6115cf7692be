package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	StartggToken string

	// Optional
	DevGuildID          string   // register commands on one guild for fast iteration
	AdminRoleIDs        []string // roles allowed to use /track and /channels
	PollIntervalSeconds int      // default 60
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("missing env %s", k)
		}
		return v
	}

	cfg := Config{
		DatabaseURL:  get("DATABASE_URL", true),
		DiscordToken: get("DISCORD_BOT_TOKEN", true),
		StartggToken: get("STARTGG_API_TOKEN", true),
		DevGuildID:   get("DISCORD_DEV_GUILD_ID", false),
	}

	if raw := get("ADMIN_ROLE_IDS", false); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.AdminRoleIDs = append(cfg.AdminRoleIDs, id)
			}
		}
	}

	cfg.PollIntervalSeconds = 60
	if raw := get("POLL_INTERVAL_SECONDS", false); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.PollIntervalSeconds = n
		}
	}
	return cfg
}

package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "track",
		Description: "Manage live coverage subscriptions (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Start covering a tournament, event or league",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "slug", Description: "start.gg slug (e.g. tournament/genesis-9)", Required: true},
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "type", Description: "What the slug points at",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "tournament", Value: "tournament"},
							{Name: "event", Value: "event"},
							{Name: "league", Value: "league"},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Stop covering a slug",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "slug", Description: "Tracked slug", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "Show tracked slugs"},
		},
	},
	{
		Name:        "channels",
		Description: "Configure where feeds are posted (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Point a feed at a channel",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "purpose", Description: "Which feed", Required: true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "results", Value: "results"},
							{Name: "upsets", Value: "upsets"},
							{Name: "standings", Value: "standings"},
						},
					},
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Target channel", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show configured feed channels"},
		},
	},
	{
		Name:        "link",
		Description: "Link your start.gg account (to get pinged on your sets)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "slug",
			Description: "Your start.gg user slug (user/a1b2c3d4)",
			Required:    true,
		}},
	},
	{
		Name:        "unlink",
		Description: "Remove your start.gg link",
	},
	{
		Name:        "whoami",
		Description: "Show your start.gg ↔ Discord link",
	},
	{
		Name:        "upsets",
		Description: "Show the upset board for the latest covered event",
	},
}

package discord

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/startgg-live-bot/internal/app/service"
)

type Router struct {
	s       *discordgo.Session
	guildID string // dev guild for fast command registration; "" = global

	track    *service.TrackService
	channels *service.ChannelService
	link     *service.LinkService
	board    *service.UpsetBoardService

	adminRoleIDs []string
	limiter      *cooldown
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	track *service.TrackService,
	channels *service.ChannelService,
	link *service.LinkService,
	board *service.UpsetBoardService,
	adminRoleIDs []string,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		track:        track,
		channels:     channels,
		link:         link,
		board:        board,
		adminRoleIDs: adminRoleIDs,
		limiter:      newCooldown(5 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		log.Printf("slash: /%s by=%s guild=%s", data.Name, ic.Member.User.ID, ic.GuildID)

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in slash /%s: %v", data.Name, rec)
				ReplyEphemeral(s, ic, "⚠️ Something went wrong.")
			}
		}()

		if !r.limiter.Allow(ic.Member.User.ID) {
			_ = SendEphemeral(s, ic, "🐢 Easy there, try again in a few seconds.")
			return
		}

		_ = DeferEphemeral(s, ic)
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		defer timed(data.Name)()

		switch data.Name {
		case "track":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			sub, _ := subcmdName(ic)
			switch sub {
			case "add":
				slug, _ := optStr(ic, "slug")
				typ, _ := optStr(ic, "type")
				msg, err := r.track.Add(ctx, ic.GuildID, slug, typ)
				r.reply(s, ic, msg, err)
			case "remove":
				slug, _ := optStr(ic, "slug")
				msg, err := r.track.Remove(ctx, ic.GuildID, slug)
				r.reply(s, ic, msg, err)
			default:
				msg, err := r.track.List(ctx, ic.GuildID)
				r.reply(s, ic, msg, err)
			}

		case "channels":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			sub, _ := subcmdName(ic)
			if sub == "set" {
				purpose, _ := optStr(ic, "purpose")
				channelID, _ := optChannel(ic, "channel")
				msg, err := r.channels.Set(ctx, ic.GuildID, purpose, channelID)
				r.reply(s, ic, msg, err)
			} else {
				msg, err := r.channels.Show(ctx, ic.GuildID)
				r.reply(s, ic, msg, err)
			}

		case "link":
			slug, _ := optStr(ic, "slug")
			msg, err := r.link.Link(ctx, slug, ic.Member.User.ID, ic.GuildID)
			r.reply(s, ic, msg, err)

		case "unlink":
			msg, err := r.link.Unlink(ctx, ic.Member.User.ID, ic.GuildID)
			r.reply(s, ic, msg, err)

		case "whoami":
			msg, err := r.link.WhoAmI(ctx, ic.Member.User.ID)
			r.reply(s, ic, msg, err)

		case "upsets":
			msg, err := r.board.Show(ctx, ic.GuildID)
			r.reply(s, ic, msg, err)
		}
	})
}

func (r *Router) reply(s *discordgo.Session, ic *discordgo.InteractionCreate, msg string, err error) {
	if err != nil {
		log.Printf("slash error: %v", err)
		ReplyEphemeral(s, ic, "⚠️ That didn't work, try again in a bit.")
		return
	}
	ReplyEphemeral(s, ic, msg)
}

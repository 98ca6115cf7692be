package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/startgg-live-bot/internal/adapters/discord"
	"github.com/jose-valero/startgg-live-bot/internal/adapters/startgg"
	"github.com/jose-valero/startgg-live-bot/internal/app/service"
	"github.com/jose-valero/startgg-live-bot/internal/infra/config"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB ready and migrated")

	// Repos
	linksRepo := storage.NewLinksRepo(db)
	channelsRepo := storage.NewChannelsRepo(db)
	setsRepo := storage.NewSetsRepo(db)
	upsetsRepo := storage.NewUpsetsRepo(db)
	dashRepo := storage.NewDashboardRepo(db)
	usersRepo := storage.NewUserRepo(db)

	// start.gg client
	gg := startgg.New(cfg.StartggToken)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Connected as %s (%s)", s.State.User.Username, s.State.User.ID)

	// Services
	trackSvc := service.NewTrackService(gg, linksRepo)
	channelSvc := service.NewChannelService(channelsRepo)
	linkSvc := service.NewLinkService(gg, usersRepo)
	boardSvc := service.NewUpsetBoardService(upsetsRepo)

	// Live engine
	ledger := service.NewLedger(setsRepo, 7*24*time.Hour)
	live := service.NewLiveService(
		gg,
		discordrouter.NewMessenger(s),
		linksRepo,
		channelsRepo,
		usersRepo,
		upsetsRepo,
		dashRepo,
		ledger,
		time.Duration(cfg.PollIntervalSeconds)*time.Second,
	)

	// Router
	r := discordrouter.NewRouter(s, cfg.DevGuildID, trackSvc, channelSvc, linkSvc, boardSvc, cfg.AdminRoleIDs)
	if err := r.Register(); err != nil {
		log.Fatalf("registering commands: %v", err)
	}
	r.Handlers()
	log.Println("✅ commands registered")

	// Poll loop. A hydrate failure at startup is fatal: running blind
	// would re-announce everything the store remembers.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- live.Run(ctx) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			log.Fatalf("live engine: %v", err)
		}
	}
}

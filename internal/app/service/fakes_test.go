package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jose-valero/startgg-live-bot/internal/adapters/startgg"
	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// In-memory fakes for the engine's ports.

type fakeAPI struct {
	mu          sync.Mutex
	events      map[string]*domain.TournamentEvents
	tournaments map[string]*domain.TournamentEvents
	leagues     map[string][]domain.TournamentEvents
	sets        map[int][]domain.SetSnapshot
	identities  map[string][]domain.EntrantIdentity
	standings   map[int][]domain.Standing
	slugErrs    map[string]error
	calls       int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		events:      map[string]*domain.TournamentEvents{},
		tournaments: map[string]*domain.TournamentEvents{},
		leagues:     map[string][]domain.TournamentEvents{},
		sets:        map[int][]domain.SetSnapshot{},
		identities:  map[string][]domain.EntrantIdentity{},
		standings:   map[int][]domain.Standing{},
		slugErrs:    map[string]error{},
	}
}

func (f *fakeAPI) bump(slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.slugErrs[slug]; ok {
		return err
	}
	return nil
}

func (f *fakeAPI) EventBySlug(_ context.Context, slug string) (*domain.TournamentEvents, error) {
	if err := f.bump(slug); err != nil {
		return nil, err
	}
	te, ok := f.events[slug]
	if !ok {
		return nil, startgg.ErrNotFound
	}
	return te, nil
}

func (f *fakeAPI) TournamentBySlug(_ context.Context, slug string) (*domain.TournamentEvents, error) {
	if err := f.bump(slug); err != nil {
		return nil, err
	}
	te, ok := f.tournaments[slug]
	if !ok {
		return nil, startgg.ErrNotFound
	}
	return te, nil
}

func (f *fakeAPI) LeagueEvents(_ context.Context, slug string, _, _ time.Time, _ int) ([]domain.TournamentEvents, error) {
	if err := f.bump(slug); err != nil {
		return nil, err
	}
	tes, ok := f.leagues[slug]
	if !ok {
		return nil, startgg.ErrNotFound
	}
	return tes, nil
}

func (f *fakeAPI) EventSets(_ context.Context, eventID, _ int) ([]domain.SetSnapshot, error) {
	if err := f.bump(""); err != nil {
		return nil, err
	}
	return f.sets[eventID], nil
}

func (f *fakeAPI) SetIdentities(_ context.Context, setID string) ([]domain.EntrantIdentity, error) {
	if err := f.bump(""); err != nil {
		return nil, err
	}
	return f.identities[setID], nil
}

func (f *fakeAPI) EventStandings(_ context.Context, eventID, limit int) ([]domain.Standing, error) {
	if err := f.bump(""); err != nil {
		return nil, err
	}
	st := f.standings[eventID]
	if len(st) > limit {
		st = st[:limit]
	}
	return st, nil
}

type sentMsg struct {
	Channel string
	Content string
}

type fakeMessenger struct {
	mu       sync.Mutex
	nextID   int
	live     map[string]sentMsg // messageID -> current content
	sends    []string           // message ids in send order
	edits    []string
	deletes  []string
	failEdit map[string]bool
	failSend map[string]bool // by channel
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		live:     map[string]sentMsg{},
		failEdit: map[string]bool{},
		failSend: map[string]bool{},
	}
}

func (f *fakeMessenger) Send(_ context.Context, channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend[channelID] {
		return "", fmt.Errorf("send to %s: forbidden", channelID)
	}
	f.nextID++
	id := fmt.Sprintf("m%d", f.nextID)
	f.live[id] = sentMsg{Channel: channelID, Content: content}
	f.sends = append(f.sends, id)
	return id, nil
}

func (f *fakeMessenger) Edit(_ context.Context, channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdit[messageID] {
		return fmt.Errorf("edit %s: unknown message", messageID)
	}
	if _, ok := f.live[messageID]; !ok {
		return fmt.Errorf("edit %s: deleted", messageID)
	}
	f.live[messageID] = sentMsg{Channel: channelID, Content: content}
	f.edits = append(f.edits, messageID)
	return nil
}

func (f *fakeMessenger) Delete(_ context.Context, _, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.live[messageID]; !ok {
		return fmt.Errorf("delete %s: unknown message", messageID)
	}
	delete(f.live, messageID)
	f.deletes = append(f.deletes, messageID)
	return nil
}

func (f *fakeMessenger) inChannel(channelID string) []sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMsg
	for _, id := range f.sends {
		if m, ok := f.live[id]; ok && m.Channel == channelID {
			out = append(out, m)
		}
	}
	return out
}

type fakeSetsRepo struct {
	mu   sync.Mutex
	rows map[string]storage.ProcessedSet
	msgs map[string]storage.SetMessage // key|guild
}

func newFakeSetsRepo() *fakeSetsRepo {
	return &fakeSetsRepo{rows: map[string]storage.ProcessedSet{}, msgs: map[string]storage.SetMessage{}}
}

func (f *fakeSetsRepo) Get(_ context.Context, setKey string) (storage.ProcessedSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[setKey]
	if !ok {
		return storage.ProcessedSet{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeSetsRepo) Upsert(_ context.Context, s storage.ProcessedSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.UpdatedAt = time.Now()
	f.rows[s.SetKey] = s
	return nil
}

func (f *fakeSetsRepo) UpsertMessage(_ context.Context, m storage.SetMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs[m.SetKey+"|"+m.GuildID] = m
	return nil
}

func (f *fakeSetsRepo) Since(_ context.Context, cutoff time.Time) ([]storage.ProcessedSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.ProcessedSet
	for _, s := range f.rows {
		if s.UpdatedAt.After(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSetsRepo) MessagesByKeys(_ context.Context, keys []string) ([]storage.SetMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, k := range keys {
		want[k] = true
	}
	var out []storage.SetMessage
	for _, m := range f.msgs {
		if want[m.SetKey] {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeChannelsRepo struct {
	rows  map[string]storage.GuildChannels
	errOn map[string]error
}

func newFakeChannelsRepo() *fakeChannelsRepo {
	return &fakeChannelsRepo{rows: map[string]storage.GuildChannels{}, errOn: map[string]error{}}
}

func (f *fakeChannelsRepo) Get(_ context.Context, guildID string) (storage.GuildChannels, error) {
	if err, ok := f.errOn[guildID]; ok {
		return storage.GuildChannels{}, err
	}
	c, ok := f.rows[guildID]
	if !ok {
		return storage.GuildChannels{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeChannelsRepo) SetChannel(_ context.Context, guildID, purpose, channelID string) error {
	c := f.rows[guildID]
	c.GuildID = guildID
	switch purpose {
	case "results":
		c.ResultsChannelID = channelID
	case "upsets":
		c.UpsetsChannelID = channelID
	case "standings":
		c.StandingsChannelID = channelID
	}
	f.rows[guildID] = c
	return nil
}

type fakeUpsetsRepo struct {
	mu      sync.Mutex
	entries []storage.UpsetEntry
	seq     int
}

func (f *fakeUpsetsRepo) Insert(_ context.Context, u storage.UpsetEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.GuildID == u.GuildID && e.EventID == u.EventID && e.SetID == u.SetID {
			return nil // conflict do nothing
		}
	}
	f.seq++
	u.CreatedAt = time.Unix(int64(f.seq), 0)
	f.entries = append(f.entries, u)
	return nil
}

func (f *fakeUpsetsRepo) board(guildID string, eventID int) []storage.UpsetEntry {
	var out []storage.UpsetEntry
	for _, e := range f.entries {
		if e.GuildID == guildID && e.EventID == eventID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Factor != out[j].Factor {
			return out[i].Factor > out[j].Factor
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeUpsetsRepo) Trim(_ context.Context, guildID string, eventID, keep int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	board := f.board(guildID, eventID)
	if len(board) <= keep {
		return nil
	}
	drop := map[string]bool{}
	for _, e := range board[keep:] {
		drop[e.SetID] = true
	}
	var kept []storage.UpsetEntry
	for _, e := range f.entries {
		if e.GuildID == guildID && e.EventID == eventID && drop[e.SetID] {
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return nil
}

func (f *fakeUpsetsRepo) Top(_ context.Context, guildID string, eventID, limit int) ([]storage.UpsetEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	board := f.board(guildID, eventID)
	if len(board) > limit {
		board = board[:limit]
	}
	return board, nil
}

func (f *fakeUpsetsRepo) RecentByGuild(_ context.Context, guildID string, limit int) ([]storage.UpsetEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest int
	var latestAt time.Time
	for _, e := range f.entries {
		if e.GuildID == guildID && e.CreatedAt.After(latestAt) {
			latest, latestAt = e.EventID, e.CreatedAt
		}
	}
	board := f.board(guildID, latest)
	if len(board) > limit {
		board = board[:limit]
	}
	return board, nil
}

type fakeDashRepo struct {
	rows map[string]storage.LiveDashboard
}

func newFakeDashRepo() *fakeDashRepo { return &fakeDashRepo{rows: map[string]storage.LiveDashboard{}} }

func dashKey(guildID string, eventID int) string { return fmt.Sprintf("%s|%d", guildID, eventID) }

func (f *fakeDashRepo) Get(_ context.Context, guildID string, eventID int) (storage.LiveDashboard, error) {
	d, ok := f.rows[dashKey(guildID, eventID)]
	if !ok {
		return storage.LiveDashboard{}, storage.ErrNotFound
	}
	return d, nil
}

func (f *fakeDashRepo) Upsert(_ context.Context, d storage.LiveDashboard) error {
	d.UpdatedAt = time.Now()
	f.rows[dashKey(d.GuildID, d.EventID)] = d
	return nil
}

func (f *fakeDashRepo) Delete(_ context.Context, guildID string, eventID int) error {
	delete(f.rows, dashKey(guildID, eventID))
	return nil
}

type fakeUserRepo struct {
	bySlug map[string]string // user slug -> discord id
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{bySlug: map[string]string{}} }

func (f *fakeUserRepo) GetByDiscordID(_ context.Context, discordID string) (storage.UserLink, error) {
	for slug, did := range f.bySlug {
		if did == discordID {
			return storage.UserLink{UserSlug: slug, DiscordUserID: did}, nil
		}
	}
	return storage.UserLink{}, storage.ErrNotFound
}

func (f *fakeUserRepo) UpsertLink(_ context.Context, ul storage.UserLink) error {
	f.bySlug[ul.UserSlug] = ul.DiscordUserID
	return nil
}

func (f *fakeUserRepo) SoftDeleteByDiscordID(_ context.Context, discordID, _ string) (bool, error) {
	for slug, did := range f.bySlug {
		if did == discordID {
			delete(f.bySlug, slug)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) FindDiscordBySlugs(_ context.Context, slugs []string) (map[string]string, error) {
	out := map[string]string{}
	for _, s := range slugs {
		if did, ok := f.bySlug[s]; ok {
			out[s] = did
		}
	}
	return out, nil
}

type fakeLinksRepo struct {
	links []storage.TrackedLink
}

func (f *fakeLinksRepo) All(_ context.Context) ([]storage.TrackedLink, error) {
	return append([]storage.TrackedLink(nil), f.links...), nil
}

func (f *fakeLinksRepo) ByGuild(_ context.Context, guildID string) ([]storage.TrackedLink, error) {
	var out []storage.TrackedLink
	for _, l := range f.links {
		if l.GuildID == guildID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLinksRepo) Upsert(_ context.Context, l storage.TrackedLink) error {
	for _, e := range f.links {
		if e.GuildID == l.GuildID && e.Slug == l.Slug && e.LinkType == l.LinkType {
			return nil
		}
	}
	f.links = append(f.links, l)
	return nil
}

func (f *fakeLinksRepo) Delete(_ context.Context, guildID, slug string) (bool, error) {
	var kept []storage.TrackedLink
	removed := false
	for _, e := range f.links {
		if e.GuildID == guildID && e.Slug == slug {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	f.links = kept
	return removed, nil
}

// testEnv wires a LiveService over fakes.
type testEnv struct {
	api      *fakeAPI
	msg      *fakeMessenger
	links    *fakeLinksRepo
	channels *fakeChannelsRepo
	users    *fakeUserRepo
	upsets   *fakeUpsetsRepo
	dash     *fakeDashRepo
	sets     *fakeSetsRepo
	ledger   *Ledger
	svc      *LiveService
}

func newTestEnv() *testEnv {
	e := &testEnv{
		api:      newFakeAPI(),
		msg:      newFakeMessenger(),
		links:    &fakeLinksRepo{},
		channels: newFakeChannelsRepo(),
		users:    newFakeUserRepo(),
		upsets:   &fakeUpsetsRepo{},
		dash:     newFakeDashRepo(),
		sets:     newFakeSetsRepo(),
	}
	e.ledger = NewLedger(e.sets, 7*24*time.Hour)
	e.svc = NewLiveService(e.api, e.msg, e.links, e.channels, e.users, e.upsets, e.dash, e.ledger, time.Minute)
	return e
}

// restart rebuilds ledger and service over the same durable fakes, as
// if the process had restarted.
func (e *testEnv) restart() {
	e.ledger = NewLedger(e.sets, 7*24*time.Hour)
	e.svc = NewLiveService(e.api, e.msg, e.links, e.channels, e.users, e.upsets, e.dash, e.ledger, time.Minute)
}

func hasPrefixMsg(msgs []sentMsg, prefix string) bool {
	for _, m := range msgs {
		if strings.Contains(m.Content, prefix) {
			return true
		}
	}
	return false
}

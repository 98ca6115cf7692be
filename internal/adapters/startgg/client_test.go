package startgg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
)

// gqlServer answers every POST with the given data payload and captures
// the requests it saw.
func gqlServer(t *testing.T, data string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var seen []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":` + data + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestEventSetsParsesSlotsAndScores(t *testing.T) {
	srv, _ := gqlServer(t, `{"event":{"id":7,"sets":{"nodes":[
		{"id":"preview_12_3","state":2,"winnerId":0,"fullRoundText":"Winners R1","slots":[
			{"entrant":{"id":1,"name":"Dog","initialSeedNum":12},"standing":{"stats":{"score":{"value":2}}}},
			{"entrant":{"id":2,"name":"Fav","initialSeedNum":3},"standing":{"stats":{"score":{"value":1}}}}
		]},
		{"id":91,"state":1,"winnerId":0,"fullRoundText":"Winners R2","slots":[
			{"entrant":{"id":3,"name":"Solo","initialSeedNum":5},"standing":null},
			{"entrant":null,"standing":null}
		]}
	]}}}`)
	c := New("tok", WithBaseURL(srv.URL))

	sets, err := c.EventSets(context.Background(), 7, 100)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	first := sets[0]
	assert.Equal(t, "preview_12_3", first.ID, "projected string ids survive")
	assert.Equal(t, domain.SetInProgress, first.State)
	assert.Equal(t, [2]int{2, 1}, first.Scores)
	assert.Equal(t, 12, first.Entrants[0].Seed)

	second := sets[1]
	assert.Equal(t, "91", second.ID, "numeric ids become strings")
	assert.Equal(t, domain.SetUnseen, second.State)
	assert.Equal(t, [2]int{-1, -1}, second.Scores, "missing standings stay unknown")
	assert.False(t, second.BothSlotsFilled())
}

func TestEventBySlugNullEventIsNotFound(t *testing.T) {
	srv, _ := gqlServer(t, `{"event":null}`)
	c := New("tok", WithBaseURL(srv.URL))

	_, err := c.EventBySlug(context.Background(), "tournament/x/event/y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeagueEventsGroupsByTournament(t *testing.T) {
	srv, seen := gqlServer(t, `{"league":{"events":{"nodes":[
		{"id":1,"name":"Singles","state":"ACTIVE","tournament":{"id":10,"name":"Weekly #4","slug":"tournament/weekly-4"}},
		{"id":2,"name":"Doubles","state":"CREATED","tournament":{"id":10,"name":"Weekly #4","slug":"tournament/weekly-4"}},
		{"id":3,"name":"Singles","state":"COMPLETED","tournament":{"id":11,"name":"Weekly #5","slug":"tournament/weekly-5"}}
	]}}}`)
	c := New("tok", WithBaseURL(srv.URL))

	from := time.Now().Add(-24 * time.Hour)
	groups, err := c.LeagueEvents(context.Background(), "league/weeklies", from, from.Add(26*time.Hour), 15)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 10, groups[0].Tournament.ID)
	require.Len(t, groups[0].Events, 2)
	assert.Equal(t, domain.EventActive, groups[0].Events[0].State)
	assert.Equal(t, domain.EventNotActive, groups[0].Events[1].State)
	assert.Equal(t, domain.EventComplete, groups[1].Events[0].State)

	vars := (*seen)[0]["variables"].(map[string]any)
	assert.Equal(t, "league/weeklies", vars["slug"])
}

func TestSetIdentitiesCollectsSlugsAndDiscordNames(t *testing.T) {
	srv, _ := gqlServer(t, `{"set":{"id":44,"slots":[
		{"entrant":{"id":1,"participants":[
			{"gamerTag":"Dog","user":{"slug":"user/aaa","authorizations":[{"externalUsername":"dog#123"}]}}
		]}},
		{"entrant":{"id":2,"participants":[
			{"gamerTag":"Anon","user":null}
		]}}
	]}}`)
	c := New("tok", WithBaseURL(srv.URL))

	ids, err := c.SetIdentities(context.Background(), "44")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, []string{"user/aaa"}, ids[0].UserSlugs)
	assert.Equal(t, []string{"dog#123"}, ids[0].DiscordNames)
	assert.Empty(t, ids[1].UserSlugs, "participants without a public user stay anonymous")
}

func TestDoRetriesOnceAfter429(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"user":{"slug":"user/aaa","player":{"gamerTag":"Dog"}}}}`))
	}))
	defer srv.Close()
	c := New("tok", WithBaseURL(srv.URL))

	tag, err := c.UserBySlug(context.Background(), "user/aaa")
	require.NoError(t, err)
	assert.Equal(t, "Dog", tag)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestDoSurfacesGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"complexity limit exceeded"}]}`))
	}))
	defer srv.Close()
	c := New("tok", WithBaseURL(srv.URL))

	_, err := c.EventStandings(context.Background(), 7, 8)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Body, "complexity limit")
}

func TestDoSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":{"event":null}}`))
	}))
	defer srv.Close()
	c := New("secret-token", WithBaseURL(srv.URL))

	_, _ = c.EventBySlug(context.Background(), "x")
	assert.Equal(t, "Bearer secret-token", got)
}

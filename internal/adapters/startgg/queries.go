package startgg

// Query documents. Kept minimal on purpose: the per-cycle set read is
// "thin" (no participant accounts); Discord identities come from the
// separate SetIdentities query, issued only for sets that need a message.

const queryEventBySlug = `
query EventBySlug($slug: String!) {
  event(slug: $slug) {
    id name slug state numEntrants
    tournament { id name slug }
  }
}`

const queryTournamentBySlug = `
query TournamentBySlug($slug: String!) {
  tournament(slug: $slug) {
    id name slug
    events { id name slug state numEntrants }
  }
}`

const queryLeagueEvents = `
query LeagueEvents($slug: String!, $after: Timestamp!, $before: Timestamp!, $perPage: Int!) {
  league(slug: $slug) {
    id name
    events(query: { perPage: $perPage, filter: { afterDate: $after, beforeDate: $before } }) {
      nodes {
        id name slug state numEntrants
        tournament { id name slug }
      }
    }
  }
}`

const queryEventSets = `
query EventSets($eventId: ID!, $perPage: Int!) {
  event(id: $eventId) {
    id
    sets(perPage: $perPage, sortType: RECENT) {
      nodes {
        id state winnerId fullRoundText
        slots {
          entrant { id name initialSeedNum }
          standing { stats { score { value } } }
        }
      }
    }
  }
}`

const querySetIdentities = `
query SetIdentities($setId: ID!) {
  set(id: $setId) {
    id
    slots {
      entrant {
        id
        participants {
          gamerTag
          user {
            slug
            authorizations(types: [DISCORD]) { externalUsername }
          }
        }
      }
    }
  }
}`

const queryUserBySlug = `
query UserBySlug($slug: String!) {
  user(slug: $slug) {
    id slug
    player { gamerTag }
  }
}`

const queryEventStandings = `
query EventStandings($eventId: ID!, $perPage: Int!) {
  event(id: $eventId) {
    id
    standings(query: { perPage: $perPage, page: 1 }) {
      nodes { placement entrant { name } }
    }
  }
}`

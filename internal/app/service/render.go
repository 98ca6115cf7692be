package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jose-valero/startgg-live-bot/internal/domain"
	"github.com/jose-valero/startgg-live-bot/internal/infra/storage"
)

// The engine composes plain Discord-markdown strings; the discord
// adapter only carries them.

func renderResult(t domain.Tournament, ev domain.Event, set domain.SetSnapshot, summary string, mentions map[int]string, isUpset bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s — %s**\n", t.Name, ev.Name)
	b.WriteString(summary)
	if set.Round != "" {
		b.WriteString(" · " + set.Round)
	}
	if isUpset {
		if w, l, ok := set.Winner(); ok {
			fmt.Fprintf(&b, "\n🚨 Upset! seed %d over seed %d (factor %d)", w.Seed, l.Seed, set.UpsetFactor())
		}
	}
	var tags []string
	for _, e := range set.Entrants {
		if m, ok := mentions[e.ID]; ok {
			tags = append(tags, m)
		}
	}
	if len(tags) > 0 {
		b.WriteString("\n" + strings.Join(tags, " "))
	}
	return b.String()
}

func renderStandings(t domain.Tournament, ev domain.Event, standings []domain.Standing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 **Final standings — %s %s**\n", t.Name, ev.Name)
	for _, st := range standings {
		fmt.Fprintf(&b, "%d. %s\n", st.Placement, st.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDashboard builds the three dashboard sections. The returned
// string is also the content fingerprint: the timestamp line is
// appended by the caller so identical sections compare equal across
// cycles.
func renderDashboard(t domain.Tournament, ev domain.Event, upsets []storage.UpsetEntry, results, callable []domain.SetSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **%s — %s** (live)\n", t.Name, ev.Name)

	b.WriteString("**Top upsets**\n")
	if len(upsets) == 0 {
		b.WriteString("· none yet\n")
	}
	for _, u := range upsets {
		fmt.Fprintf(&b, "· 🚨 %s (%d) over %s (%d)", u.WinnerName, u.WinnerSeed, u.LoserName, u.LoserSeed)
		if u.Round != "" {
			b.WriteString(" — " + u.Round)
		}
		b.WriteString("\n")
	}

	b.WriteString("**Latest results**\n")
	if len(results) == 0 {
		b.WriteString("· none yet\n")
	}
	for _, set := range results {
		b.WriteString("· " + setSummary(set) + "\n")
	}

	b.WriteString("**On deck**\n")
	if len(callable) == 0 {
		b.WriteString("· nothing callable\n")
	}
	for _, set := range callable {
		fmt.Fprintf(&b, "· %s vs %s", set.Entrants[0].Name, set.Entrants[1].Name)
		if set.Round != "" {
			b.WriteString(" — " + set.Round)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func updatedLine(now time.Time) string {
	return fmt.Sprintf("_Updated <t:%d:R>_", now.Unix())
}

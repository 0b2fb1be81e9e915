package stats

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"soundscript/internal/domain"
)

func sessionAt(ts time.Time, raw string) domain.Session {
	return domain.Session{Timestamp: ts, RawText: raw, Status: domain.SessionCompleted}
}

func TestComputeSessionCounts(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		sessionAt(now.Add(-time.Hour), "today one"),
		sessionAt(now.Add(-13*time.Hour), "today two"),
		sessionAt(now.AddDate(0, 0, -3), "this week"),
		sessionAt(now.AddDate(0, 0, -10), "older"),
	}

	a := Compute(sessions, 0, now)
	if a.TodaySessions != 2 {
		t.Errorf("TodaySessions = %d, want 2", a.TodaySessions)
	}
	if a.WeekSessions != 3 {
		t.Errorf("WeekSessions = %d, want 3", a.WeekSessions)
	}
}

func TestComputeWPMProgress(t *testing.T) {
	now := time.Now()
	cases := []struct {
		avg  float64
		want float64
	}{
		{0, 0},
		{90, 50},
		{180, 100},
		{400, 100},
	}
	for _, tc := range cases {
		if got := Compute(nil, tc.avg, now).WPMProgress; got != tc.want {
			t.Errorf("WPMProgress(avg=%v) = %v, want %v", tc.avg, got, tc.want)
		}
	}
}

func TestTopWordsFiltersShortAndCommon(t *testing.T) {
	now := time.Now()
	sessions := []domain.Session{
		sessionAt(now, "the project deadline looms, project planning continues"),
		sessionAt(now, "deadline and project talk: deadline again"),
	}

	a := Compute(sessions, 0, now)
	if len(a.TopWords) == 0 {
		t.Fatal("no top words computed")
	}
	if a.TopWords[0].Word != "deadline" && a.TopWords[0].Word != "project" {
		t.Errorf("top word = %q", a.TopWords[0].Word)
	}
	for _, wc := range a.TopWords {
		if len(wc.Word) <= 3 {
			t.Errorf("short word %q survived the filter", wc.Word)
		}
		if commonWords[wc.Word] {
			t.Errorf("common word %q survived the filter", wc.Word)
		}
	}
	want := map[string]int{"project": 3, "deadline": 3}
	for _, wc := range a.TopWords {
		if n, ok := want[wc.Word]; ok && wc.Count != n {
			t.Errorf("count for %q = %d, want %d", wc.Word, wc.Count, n)
		}
	}
}

func TestTopWordsLimitedToEight(t *testing.T) {
	now := time.Now()
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "distinctword%02d ", i)
	}
	a := Compute([]domain.Session{sessionAt(now, b.String())}, 0, now)
	if len(a.TopWords) != 8 {
		t.Errorf("TopWords = %d entries, want 8", len(a.TopWords))
	}
}

func TestTopWordsUsesRecentWindowOnly(t *testing.T) {
	now := time.Now()
	var sessions []domain.Session
	// The oldest session falls outside the 50-session window.
	sessions = append(sessions, sessionAt(now.Add(-100*time.Hour), "ancientword ancientword ancientword"))
	for i := 0; i < 50; i++ {
		sessions = append(sessions, sessionAt(now.Add(-time.Duration(i)*time.Minute), "recentword"))
	}

	a := Compute(sessions, 0, now)
	for _, wc := range a.TopWords {
		if wc.Word == "ancientword" {
			t.Error("word outside the recency window was counted")
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	a := Compute(nil, 0, time.Now())
	if len(a.TopWords) != 0 || a.TodaySessions != 0 || a.WeekSessions != 0 {
		t.Errorf("empty analytics = %+v", a)
	}
}

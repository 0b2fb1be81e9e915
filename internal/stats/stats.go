// Package stats derives usage analytics from persisted sessions.
package stats

import (
	"sort"
	"strings"
	"time"

	"soundscript/internal/domain"
)

// TargetWPM is the speaking rate the progress figure is measured against.
const TargetWPM = 180.0

const (
	wordWindow  = 50
	topWordsMax = 8
	minWordLen  = 4
)

var commonWords = map[string]bool{
	"the": true, "and": true, "that": true, "have": true, "for": true,
	"not": true, "with": true, "you": true, "this": true, "but": true,
	"his": true, "from": true, "they": true, "she": true, "her": true,
	"been": true, "than": true, "its": true, "who": true, "oil": true,
	"sit": true, "now": true, "find": true, "long": true, "down": true,
	"day": true, "did": true, "get": true, "has": true, "him": true,
	"old": true, "see": true, "two": true, "way": true, "may": true,
	"say": true, "each": true, "which": true, "their": true, "time": true,
	"will": true, "about": true, "would": true, "there": true, "could": true,
	"other": true, "after": true, "first": true, "well": true, "water": true,
	"call": true,
}

// Analytics is the derived view over the session history.
type Analytics struct {
	TopWords      []domain.WordCount
	TodaySessions int
	WeekSessions  int
	WPMProgress   float64
}

// Compute builds analytics from all stored sessions. Word frequencies consider
// only the newest wordWindow sessions; counts and progress use the full set.
func Compute(sessions []domain.Session, averageWPM float64, now time.Time) Analytics {
	sorted := make([]domain.Session, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)

	a := Analytics{
		WPMProgress: wpmProgress(averageWPM),
	}
	for _, s := range sorted {
		if !s.Timestamp.Before(today) {
			a.TodaySessions++
		}
		if !s.Timestamp.Before(weekAgo) {
			a.WeekSessions++
		}
	}

	window := sorted
	if len(window) > wordWindow {
		window = window[:wordWindow]
	}
	a.TopWords = topWords(window)
	return a
}

func wpmProgress(averageWPM float64) float64 {
	progress := averageWPM / TargetWPM * 100
	if progress > 100 {
		return 100
	}
	if progress < 0 {
		return 0
	}
	return progress
}

func topWords(sessions []domain.Session) []domain.WordCount {
	counts := map[string]int{}
	for _, s := range sessions {
		for _, word := range splitWords(s.RawText) {
			if len([]rune(word)) < minWordLen || commonWords[word] {
				continue
			}
			counts[word]++
		}
	}

	words := make([]domain.WordCount, 0, len(counts))
	for word, count := range counts {
		words = append(words, domain.WordCount{Word: word, Count: count})
	}
	// Alphabetical tie-break keeps the result stable across runs.
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if len(words) > topWordsMax {
		words = words[:topWordsMax]
	}
	return words
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case ' ', '.', ',', '!', '?', ';', ':', '\n', '\r':
			return true
		}
		return false
	})
}

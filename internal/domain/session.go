package domain

import (
	"math"
	"strings"
)

// MaxWordsPerMinute caps the computed speaking rate. Near-zero capture
// durations would otherwise produce absurd rates.
const MaxWordsPerMinute = 10000

// Finalize computes the derived fields from RawText and Duration. It runs
// exactly once per session, before the session is persisted.
func (s *Session) Finalize() {
	if strings.TrimSpace(s.RawText) == "" {
		s.WordCount = 0
		s.CharacterCount = 0
		s.SentenceCount = 0
		s.WordsPerMinute = 0
		return
	}

	s.WordCount = len(strings.Fields(s.RawText))
	s.CharacterCount = len([]rune(strings.ReplaceAll(s.RawText, " ", "")))
	s.SentenceCount = countSentences(s.RawText)

	if minutes := s.Duration.Minutes(); minutes > 0 && s.WordCount > 0 {
		wpm := math.Round(float64(s.WordCount)/minutes*10) / 10
		if wpm > MaxWordsPerMinute {
			wpm = MaxWordsPerMinute
		}
		s.WordsPerMinute = wpm
	} else {
		s.WordsPerMinute = 0
	}
}

func countSentences(text string) int {
	n := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

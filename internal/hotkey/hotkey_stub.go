//go:build !windows

package hotkey

import (
	"errors"

	"soundscript/internal/ports"
)

// Source is unavailable off Windows; the chord still gets validated so
// configuration errors surface everywhere.
type Source struct{}

func New(chord string) (*Source, error) {
	if _, _, err := parseChord(chord); err != nil {
		return nil, err
	}
	return nil, errors.New("global hotkeys are not supported on this platform")
}

func (s *Source) Events() <-chan ports.HotkeyEvent { return nil }
func (s *Source) Close() error                     { return nil }

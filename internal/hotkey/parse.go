// Package hotkey turns a global key chord into press and release events.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	modAlt   = 0x0001
	modCtrl  = 0x0002
	modShift = 0x0004
	modWin   = 0x0008
)

var namedKeys = map[string]uint32{
	"space":     0x20,
	"enter":     0x0D,
	"return":    0x0D,
	"esc":       0x1B,
	"escape":    0x1B,
	"tab":       0x09,
	"backspace": 0x08,
	"insert":    0x2D,
	"delete":    0x2E,
	"home":      0x24,
	"end":       0x23,
	"pageup":    0x21,
	"pagedown":  0x22,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
}

// parseChord accepts strings like "ctrl+win+space" or "alt+f2" and returns
// the modifier mask plus virtual-key code of the final token.
func parseChord(chord string) (uint32, uint32, error) {
	parts := strings.Split(chord, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.ToLower(parts[i]))
	}
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return 0, 0, fmt.Errorf("empty hotkey chord %q", chord)
	}

	var mod uint32
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "alt":
			mod |= modAlt
		case "ctrl", "control":
			mod |= modCtrl
		case "shift":
			mod |= modShift
		case "win", "meta", "super":
			mod |= modWin
		default:
			return 0, 0, fmt.Errorf("unknown modifier %q in %q", p, chord)
		}
	}

	key := parts[len(parts)-1]
	if len(key) == 1 {
		ch := key[0]
		switch {
		case ch >= 'a' && ch <= 'z':
			return mod, uint32(ch - 'a' + 'A'), nil
		case ch >= '0' && ch <= '9':
			return mod, uint32(ch), nil
		}
	}
	if vk, ok := namedKeys[key]; ok {
		return mod, vk, nil
	}
	if strings.HasPrefix(key, "f") {
		if n, err := strconv.Atoi(key[1:]); err == nil && n >= 1 && n <= 24 {
			return mod, 0x70 + uint32(n-1), nil
		}
	}
	return 0, 0, fmt.Errorf("unsupported key %q in chord %q", key, chord)
}

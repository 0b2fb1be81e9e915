//go:build !windows

package feedback

// Muter is a no-op off Windows so the recording loop keeps working without
// system mute support.
type Muter struct{}

func NewMuter() *Muter {
	return &Muter{}
}

func (m *Muter) ToggleMute() error { return nil }

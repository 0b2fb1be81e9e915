//go:build windows

package feedback

import "github.com/micmonay/keybd_event"

// Muter implements ports.MuteToggler with the system volume-mute key.
type Muter struct{}

func NewMuter() *Muter {
	return &Muter{}
}

// ToggleMute presses and releases the volume-mute key. The OS flips the mute
// state on each call; there is no way to read or set it absolutely here.
func (m *Muter) ToggleMute() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_VOLUME_MUTE)
	return kb.Launching()
}

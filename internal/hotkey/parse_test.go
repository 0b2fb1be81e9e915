package hotkey

import "testing"

func TestParseChord(t *testing.T) {
	cases := []struct {
		chord   string
		mod     uint32
		vk      uint32
		wantErr bool
	}{
		{chord: "ctrl+win+space", mod: modCtrl | modWin, vk: 0x20},
		{chord: "ctrl+shift+v", mod: modCtrl | modShift, vk: 'V'},
		{chord: "alt+f2", mod: modAlt, vk: 0x71},
		{chord: "Ctrl + Win + Space", mod: modCtrl | modWin, vk: 0x20},
		{chord: "space", mod: 0, vk: 0x20},
		{chord: "win+9", mod: modWin, vk: '9'},
		{chord: "ctrl+escape", mod: modCtrl, vk: 0x1B},
		{chord: "", wantErr: true},
		{chord: "ctrl+", wantErr: true},
		{chord: "hyper+space", wantErr: true},
		{chord: "ctrl+widget", wantErr: true},
		{chord: "f25", wantErr: true},
	}
	for _, tc := range cases {
		mod, vk, err := parseChord(tc.chord)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseChord(%q) succeeded, want error", tc.chord)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseChord(%q): %v", tc.chord, err)
			continue
		}
		if mod != tc.mod || vk != tc.vk {
			t.Errorf("parseChord(%q) = mod 0x%X vk 0x%X, want mod 0x%X vk 0x%X", tc.chord, mod, vk, tc.mod, tc.vk)
		}
	}
}

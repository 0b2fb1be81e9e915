package feedback

import (
	"math"
	"testing"
)

func TestSineToneShape(t *testing.T) {
	tone := sineTone(startToneHz)

	wantSamples := cueSampleRate * cueDuration / 1000
	if len(tone) != wantSamples {
		t.Fatalf("tone length = %d samples, want %d", len(tone), wantSamples)
	}
	for i, s := range tone {
		if math.Abs(float64(s)) > cueAmplitude {
			t.Fatalf("sample %d = %v exceeds amplitude %v", i, s, cueAmplitude)
		}
	}
	if math.Abs(float64(tone[len(tone)-1])) > 0.01 {
		t.Errorf("tone does not fade out, last sample = %v", tone[len(tone)-1])
	}
}

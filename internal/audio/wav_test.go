package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestEncodeWAVHeader(t *testing.T) {
	t.Parallel()

	// One second of 16 kHz mono 16-bit audio.
	pcm := make([]byte, 32000)
	out := EncodeWAV(pcm)

	if len(out) != 44+len(pcm) {
		t.Fatalf("encoded length = %d, want %d", len(out), 44+len(pcm))
	}
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE markers")
	}
	if string(out[12:16]) != "fmt " || string(out[36:40]) != "data" {
		t.Fatalf("missing fmt/data chunk markers")
	}

	if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(36+len(pcm)) {
		t.Fatalf("riff size = %d, want %d", got, 36+len(pcm))
	}
	if got := binary.LittleEndian.Uint16(out[20:22]); got != 1 {
		t.Fatalf("format tag = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(out[22:24]); got != 1 {
		t.Fatalf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != 16000 {
		t.Fatalf("sample rate = %d, want 16000", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 32000 {
		t.Fatalf("byte rate = %d, want 32000", got)
	}
	if got := binary.LittleEndian.Uint16(out[32:34]); got != 2 {
		t.Fatalf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(out[34:36]); got != 16 {
		t.Fatalf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(len(pcm)) {
		t.Fatalf("data size = %d, want %d", got, len(pcm))
	}
}

func TestEncodeWAVEmptyPayload(t *testing.T) {
	t.Parallel()

	out := EncodeWAV(nil)
	if len(out) != 44 {
		t.Fatalf("empty encode length = %d, want 44", len(out))
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 0 {
		t.Fatalf("data size = %d, want 0", got)
	}
}

func TestExportWAV(t *testing.T) {
	t.Parallel()

	pcm := make([]byte, 3200)
	for i := 0; i < len(pcm); i += 2 {
		binary.LittleEndian.PutUint16(pcm[i:], uint16(int16(i%2000-1000)))
	}

	path := filepath.Join(t.TempDir(), "session.wav")
	if err := ExportWAV(pcm, path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("exported file is not a valid WAV")
	}
	if dec.SampleRate != 16000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("unexpected format: rate=%d chans=%d depth=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
}

func TestExportWAVRejectsEmpty(t *testing.T) {
	t.Parallel()

	if err := ExportWAV(nil, filepath.Join(t.TempDir(), "x.wav")); err == nil {
		t.Fatalf("expected error for empty audio")
	}
}

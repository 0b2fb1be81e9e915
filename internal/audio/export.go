package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ExportWAV writes raw captured PCM to path as a standard WAV file.
func ExportWAV(pcm []byte, path string) error {
	if len(pcm) == 0 {
		return errors.New("no audio data to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, SampleRate, BitsPerSample, Channels, 1)

	data := make([]int, len(pcm)/2)
	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: Channels, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: BitsPerSample,
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("finalize wav file: %w", err)
	}
	return f.Close()
}

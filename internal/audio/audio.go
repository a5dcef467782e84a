// Package audio drains the APU's mixed float32 samples into the
// host's speakers.
package audio

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// bytesPerFrame is one stereo sample pair of 32-bit floats, the format
// ebiten's NewPlayerF32 reads.
const bytesPerFrame = 8

// maxBufferedFrames caps how much unplayed audio can pile up — a few
// seconds' worth is enough to ride out a slow frame without letting
// the buffer (and with it, audible latency) grow without bound when
// the emulator is paused or single-stepped.
const maxBufferedFrames = 4 * 44100

// Sink streams the console's mono audio samples to the host speakers,
// duplicating each sample across both channels.
type Sink struct {
	mu     sync.Mutex
	buf    []byte
	ctx    *audio.Context
	player *audio.Player
}

// NewSink creates a Sink and starts its playback loop at sampleRate.
func NewSink(sampleRate int) (*Sink, error) {
	s := &Sink{ctx: audio.NewContext(sampleRate)}

	player, err := s.ctx.NewPlayerF32(&streamReader{sink: s})
	if err != nil {
		return nil, err
	}
	s.player = player
	s.player.Play()
	return s, nil
}

// Write appends newly generated samples to the playback queue. Safe to
// call from the emulation loop every frame.
func (s *Sink) Write(samples []float32) {
	if len(samples) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	frame := make([]byte, bytesPerFrame)
	for _, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		bits := math.Float32bits(v)
		binary.LittleEndian.PutUint32(frame[0:4], bits)
		binary.LittleEndian.PutUint32(frame[4:8], bits)
		s.buf = append(s.buf, frame...)
	}

	if max := maxBufferedFrames * bytesPerFrame; len(s.buf) > max {
		s.buf = s.buf[len(s.buf)-max:]
	}
}

// SetVolume sets playback volume in [0, 1].
func (s *Sink) SetVolume(v float64) {
	if s.player != nil {
		s.player.SetVolume(v)
	}
}

// Close stops playback and releases the underlying player.
func (s *Sink) Close() error {
	if s.player != nil {
		return s.player.Close()
	}
	return nil
}

// streamReader adapts Sink's byte queue to the io.Reader NewPlayerF32
// wants, emitting silence on underrun instead of blocking — a paused
// or ROM-less emulator should fall silent, not stall the audio callback.
type streamReader struct {
	sink *Sink
}

func (r *streamReader) Read(p []byte) (int, error) {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()

	n := copy(p, r.sink.buf)
	r.sink.buf = r.sink.buf[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

package engine

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/oto/v2"
)

// Master gain ramps linearly from 0 to 0.5 over the first second of a
// session to avoid onset clicks.
const (
	fadeSeconds = 1.0
	masterLevel = 0.5
)

func fadeGain(t float64) float64 {
	if t >= fadeSeconds {
		return masterLevel
	}
	return t / fadeSeconds * masterLevel
}

// session aggregates everything one performance owns: the master fade, the
// pad voices, the melody scheduler and the liveness flag. It renders the
// mix as a 32-bit float LE stereo stream, pulled by the output backend (or
// directly by tests and offline callers).
//
// The render loop runs on the backend's goroutine while play/stop arrive
// from the caller's, so the voice list sits behind a mutex. The liveness
// flag is checked again inside each beat tick: a tick that races stop()
// becomes a no-op instead of emitting into a dead session.
type session struct {
	mu     sync.Mutex
	live   atomic.Bool
	bus    *effectsBus
	voices []voice
	mel    *melody
	frames int64
	player oto.Player
}

func newSession(bus *effectsBus, p Params, id string) *session {
	s := &session{bus: bus}
	draws := newSequence(id)
	// Pad first, melody after — draw order is load-bearing.
	s.voices = startPad(draws, p.BaseFrequency)
	s.mel = newMelody(draws, p)
	s.live.Store(true)
	return s
}

func (s *session) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if !s.live.Load() {
		return 0, io.EOF
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var t float64
	for i := 0; i < frames; i++ {
		t = float64(s.frames) / SampleRate
		if s.mel != nil && s.frames >= s.mel.nextTick {
			s.mel.nextTick += s.mel.beatFrames
			// Liveness re-check: a queued tick after stop() does nothing.
			if s.live.Load() {
				if nv := s.mel.tick(t); nv != nil {
					s.voices = append(s.voices, nv)
				}
			}
		}
		dry := 0.0
		for _, v := range s.voices {
			dry += v.sample(t)
		}
		dry *= fadeGain(t)
		left, right := dry, dry
		if s.bus != nil {
			revL, revR, echo := s.bus.process(dry * wetSend)
			left += revL + echo
			right += revR + echo
		}
		putStereoF32LR(p, i, softSat(left), softSat(right))
		s.frames++
	}
	s.retire(t)
	return frames * 8, nil
}

// retire drops voices whose envelopes have fully rendered. Pad units stay
// until teardown; spent melody notes leave the mix here.
func (s *session) retire(t float64) {
	kept := s.voices[:0]
	for _, v := range s.voices {
		if !v.done(t) {
			kept = append(kept, v)
		}
	}
	for i := len(kept); i < len(s.voices); i++ {
		s.voices[i] = nil
	}
	s.voices = kept
}

// stop tears the session down: liveness first so in-flight ticks no-op,
// then every tracked voice exactly once (already-stopped is success), then
// the backend player. The effects bus is shared and survives.
func (s *session) stop() {
	s.live.Store(false)
	s.mu.Lock()
	for _, v := range s.voices {
		v.stop()
	}
	s.voices = nil
	s.mel = nil
	s.mu.Unlock()
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
}

// Package engine turns a small musical parameter set plus an identifier
// string into a continuously evolving, reproducible performance: a
// sustained pad layer and a probabilistic melody, mixed through a shared
// reverb/delay bus and streamed to the audio backend.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// Engine owns the output-device handle and at most one live session.
// Construct it explicitly and pass it around; there is no package-level
// instance.
type Engine struct {
	mu       sync.Mutex
	ctx      *oto.Context
	ready    chan struct{}
	bus      *effectsBus
	cur      *session
	volume   float64
	disabled bool
}

// New opens the audio backend. If the platform has no usable output the
// engine still constructs, but disabled: every public operation becomes a
// silent no-op.
func New() *Engine {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio init failed (engine disabled): %v\n", err)
		return &Engine{disabled: true}
	}
	return &Engine{ctx: ctx, ready: ready, volume: 1.0}
}

// NewDetached builds an engine with no output device. Sessions render only
// when something reads them — offline callers and tests.
func NewDetached() *Engine {
	ready := make(chan struct{})
	close(ready)
	return &Engine{ready: ready, volume: 1.0}
}

// Enabled reports whether the engine has a working backend path.
func (e *Engine) Enabled() bool { return !e.disabled }

// Resume blocks until the output backend reports ready. Platforms gate
// audio output behind a prior user action, so call and await this once
// before the first Play.
func (e *Engine) Resume(ctx context.Context) error {
	if e.disabled {
		return nil
	}
	select {
	case <-e.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play starts a performance. Any current session is fully torn down first;
// the identifier seeds all note and timbre choices, so the same id with the
// same params reproduces the same performance. A backend that never comes
// up makes the call a silent no-op — playback stays inert until the next
// Play retries.
func (e *Engine) Play(ctx context.Context, p Params, id string) {
	if e.disabled || id == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur != nil {
		e.cur.stop()
		e.cur = nil
	}
	select {
	case <-e.ready:
	case <-ctx.Done():
		return
	}
	if e.bus == nil {
		e.bus = newEffectsBus(SampleRate)
	}
	s := newSession(e.bus, p, id)
	if e.ctx != nil {
		player := e.ctx.NewPlayer(s)
		player.SetVolume(e.volume)
		player.Play()
		s.player = player
	}
	e.cur = s
}

// Stop halts the current performance. Safe to call at any time, including
// repeatedly or before anything ever played.
func (e *Engine) Stop() {
	if e.disabled {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur != nil {
		e.cur.stop()
		e.cur = nil
	}
}

// Playing reports whether a session is currently live.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur != nil && e.cur.live.Load()
}

// SetVolume scales the backend player for the current and future sessions.
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = clampF(v, 0, 1)
	if e.cur != nil && e.cur.player != nil {
		e.cur.player.SetVolume(e.volume)
	}
}

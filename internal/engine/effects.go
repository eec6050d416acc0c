package engine

import "time"

// Effects bus constants. Delay time and feedback are fixed; the wet send
// taps the post-fade dry signal and feeds reverb and delay in parallel.
const (
	reverbSeconds = 3.0
	reverbTaps    = 64
	reverbLevel   = 0.25
	delaySeconds  = 0.5
	delayFeedback = 0.3
	wetSend       = 0.4
)

// delayLine is a fixed-length feedback delay: each output sample returns
// 30% of itself into the line, giving a decaying echo train.
type delayLine struct {
	buf []float64
	pos int
}

func newDelayLine(frames int) *delayLine {
	return &delayLine{buf: make([]float64, frames)}
}

func (d *delayLine) process(in float64) float64 {
	out := d.buf[d.pos]
	d.buf[d.pos] = in + out*delayFeedback
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
	return out
}

// reverb holds a synthesized stereo impulse response: uniform noise shaped
// by a squared fade over three seconds. Convolving all 132300 taps per
// sample is far outside the render budget, so the bus reads the IR at a
// sparse set of offsets drawn once at build time. The noise is deliberately
// unseeded — it colors the tail but never the note choices.
type reverb struct {
	irL, irR []float64
	offsets  []int
	history  []float64
	hpos     int
}

func newReverb(sampleRate int) *reverb {
	n := int(float64(sampleRate) * reverbSeconds)
	r := &reverb{
		irL:     make([]float64, n),
		irR:     make([]float64, n),
		offsets: make([]int, reverbTaps),
		history: make([]float64, n),
	}
	seed := uint64(time.Now().UnixNano())
	for i := 0; i < n; i++ {
		decay := 1 - float64(i)/float64(n)
		decay *= decay
		r.irL[i] = lcg(&seed) * decay
		r.irR[i] = lcg(&seed) * decay
	}
	for i := range r.offsets {
		r.offsets[i] = int((lcg(&seed)*0.5 + 0.5) * float64(n-1))
	}
	return r
}

func (r *reverb) process(in float64) (left, right float64) {
	r.history[r.hpos] = in
	n := len(r.history)
	for _, off := range r.offsets {
		p := r.hpos - off
		if p < 0 {
			p += n
		}
		left += r.irL[off] * r.history[p]
		right += r.irR[off] * r.history[p]
	}
	r.hpos++
	if r.hpos == n {
		r.hpos = 0
	}
	return left * reverbLevel, right * reverbLevel
}

// effectsBus is the shared reverb + delay pair. It is built lazily on the
// first performance and survives session teardown; only per-session voices
// are released by stop.
type effectsBus struct {
	rev   *reverb
	delay *delayLine
}

func newEffectsBus(sampleRate int) *effectsBus {
	return &effectsBus{
		rev:   newReverb(sampleRate),
		delay: newDelayLine(int(float64(sampleRate) * delaySeconds)),
	}
}

// process runs one wet-send sample through both units in parallel and
// returns their contributions; the caller sums them onto the dry path.
func (b *effectsBus) process(wet float64) (revL, revR, echo float64) {
	revL, revR = b.rev.process(wet)
	echo = b.delay.process(wet)
	return revL, revR, echo
}

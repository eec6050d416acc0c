package engine

import "math"

// The pad is three sustained tones one octave below the base frequency:
// root, fifth and an approximate third. Each tone gets its own slow
// amplitude modulator so the layer drifts instead of sitting still.
const (
	padGain     = 0.08
	padModDepth = 0.02
)

var padRatios = [3]float64{1.0, 1.5, 1.25}

type waveform int

const (
	waveSine waveform = iota
	waveTriangle
)

// padMod is a control-rate unit: it shapes its tone's gain and contributes
// no audio of its own, but it is tracked for teardown like any voice.
type padMod struct {
	rate    float64 // Hz, 0.1–0.3
	depth   float64
	stopped bool
}

func (m *padMod) offset(t float64) float64 {
	if m.stopped {
		return 0
	}
	return math.Sin(2*math.Pi*m.rate*t) * m.depth
}

func (m *padMod) sample(t float64) float64 { return 0 }
func (m *padMod) stop()                    { m.stopped = true }
func (m *padMod) done(t float64) bool      { return m.stopped }

type padTone struct {
	freq    float64
	gain    float64
	wave    waveform
	mod     *padMod
	stopped bool
}

func (v *padTone) sample(t float64) float64 {
	if v.stopped {
		return 0
	}
	g := v.gain + v.mod.offset(t)
	phase := 2 * math.Pi * v.freq * t
	if v.wave == waveTriangle {
		return triWave(phase) * g
	}
	return math.Sin(phase) * g
}

func (v *padTone) stop()               { v.stopped = true }
func (v *padTone) done(t float64) bool { return v.stopped }

// startPad builds the chord layer. It consumes exactly the first six draws
// of the performance sequence, two per tone: timbre first, then modulator
// rate. Melody draws follow after, so this order must not change.
func startPad(draws drawSource, base float64) []voice {
	voices := make([]voice, 0, 2*len(padRatios))
	root := base / 2
	for _, ratio := range padRatios {
		tone := &padTone{freq: root * ratio, gain: padGain, wave: waveSine}
		if draws.next() >= 0.5 {
			tone.wave = waveTriangle
		}
		mod := &padMod{rate: 0.1 + draws.next()*0.2, depth: padModDepth}
		tone.mod = mod
		voices = append(voices, tone, mod)
	}
	return voices
}

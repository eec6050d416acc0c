package engine

import "math"

// Note envelope: linear attack to the peak over 50 ms, then exponential
// decay toward silence across a fixed 2 s life. The voice is retired 100 ms
// after the tone stops so the decay tail renders before release.
const (
	notePeak    = 0.3
	noteAttack  = 0.05
	noteLife    = 2.0
	noteFloor   = 0.001
	noteRelease = 0.1
)

type noteVoice struct {
	freq    float64
	start   float64 // session time at trigger
	stopped bool
}

// noteEnv returns the envelope gain at a note age in seconds.
func noteEnv(age float64) float64 {
	if age < 0 || age >= noteLife {
		return 0
	}
	if age < noteAttack {
		return notePeak * age / noteAttack
	}
	return notePeak * math.Pow(noteFloor/notePeak, (age-noteAttack)/(noteLife-noteAttack))
}

func (v *noteVoice) sample(t float64) float64 {
	if v.stopped {
		return 0
	}
	env := noteEnv(t - v.start)
	if env == 0 {
		return 0
	}
	return math.Sin(2*math.Pi*v.freq*t) * env
}

func (v *noteVoice) stop()               { v.stopped = true }
func (v *noteVoice) done(t float64) bool { return v.stopped || t-v.start >= noteLife+noteRelease }

// melody decides, once per beat, whether to trigger a note. It shares the
// performance draw stream with the pad and consumes one draw per tick plus
// two more on every emission (scale degree, then octave).
type melody struct {
	draws      drawSource
	intervals  []int
	base       float64
	complexity float64
	beatFrames int64 // frames per tick, 60/tempo seconds
	nextTick   int64 // frame of the next tick
}

// melodyScaleFor routes the melody layer: minor keeps its own table, every
// other value lands on pentatonic.
func melodyScaleFor(name Scale) []int {
	if name == ScaleMinor {
		return scaleTable[ScaleMinor]
	}
	return scaleTable[ScalePentatonic]
}

func newMelody(draws drawSource, p Params) *melody {
	beatFrames := int64(60.0 / float64(p.Tempo) * SampleRate)
	return &melody{
		draws:      draws,
		intervals:  melodyScaleFor(p.Scale),
		base:       p.BaseFrequency,
		complexity: p.Complexity,
		beatFrames: beatFrames,
		// Interval semantics: the first tick lands one full beat in, not
		// on the session's opening frame.
		nextTick: beatFrames,
	}
}

// decide runs one tick against the draw stream. It returns the note
// frequency and true when the tick emits.
func (m *melody) decide() (float64, bool) {
	if m.draws.next() <= 1-m.complexity {
		return 0, false
	}
	degree := int(m.draws.next() * float64(len(m.intervals)))
	if degree >= len(m.intervals) {
		degree = len(m.intervals) - 1
	}
	octave := 1.0
	if m.draws.next() > 0.7 {
		octave = 2.0
	}
	return frequencyFor(m.base, m.intervals[degree], octave), true
}

// tick fires one beat at session time t, returning a triggered voice or nil.
func (m *melody) tick(t float64) *noteVoice {
	freq, emit := m.decide()
	if !emit {
		return nil
	}
	return &noteVoice{freq: freq, start: t}
}

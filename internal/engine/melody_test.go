package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDraws replaces the seeded sequence with a canned draw stream,
// cycling when exhausted.
type fixedDraws struct {
	vals []float64
	i    int
}

func (f *fixedDraws) next() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func TestMelodyScaleRouting(t *testing.T) {
	tests := []struct {
		scale Scale
		want  []int
	}{
		{ScaleMinor, scaleTable[ScaleMinor]},
		{ScalePentatonic, scaleTable[ScalePentatonic]},
		{ScaleChromatic, scaleTable[ScalePentatonic]},
		{ScaleWholeTone, scaleTable[ScalePentatonic]},
		{ScaleMajor, scaleTable[ScalePentatonic]},
		{Scale("nonsense"), scaleTable[ScalePentatonic]},
	}
	for _, tt := range tests {
		t.Run(string(tt.scale), func(t *testing.T) {
			assert.Equal(t, tt.want, melodyScaleFor(tt.scale))
		})
	}
}

func TestMelodyTickPeriod(t *testing.T) {
	tests := []struct {
		tempo int
		want  int64
	}{
		{80, 33075},  // 0.75 s per beat
		{60, 44100},  // 1 s
		{120, 22050}, // 0.5 s
		{240, 11025},
	}
	for _, tt := range tests {
		m := newMelody(&fixedDraws{vals: []float64{0}}, Params{Tempo: tt.tempo, BaseFrequency: 220})
		assert.Equal(t, tt.want, m.beatFrames, "tempo %d", tt.tempo)
	}
	// Tempo > 0 is a caller precondition; zero or negative tempo makes the
	// tick interval ill-defined and is deliberately not special-cased.
}

// The concrete scenario: tempo 80, complexity 0.5, draws cycling
// [0.9, 0.2, 0.95, 0.3]. Tick one draws 0.9 > 0.5 and emits, consuming 0.2
// as the degree and 0.95 as the octave (>0.7, doubled); tick two draws 0.3
// and skips. The cycle then repeats: emit, skip, emit, skip.
func TestMelodyEmitSkipPattern(t *testing.T) {
	draws := &fixedDraws{vals: []float64{0.9, 0.2, 0.95, 0.3}}
	m := newMelody(draws, Params{
		Scale:         ScalePentatonic,
		BaseFrequency: 220,
		Tempo:         80,
		Complexity:    0.5,
	})

	wantFreq := 220 * math.Pow(2, 4.0/12.0) * 2 // degree 2 of pentatonic, octave doubled

	for tick := 0; tick < 6; tick++ {
		freq, emit := m.decide()
		if tick%2 == 0 {
			require.True(t, emit, "tick %d should emit", tick)
			assert.InDelta(t, wantFreq, freq, 1e-9)
		} else {
			require.False(t, emit, "tick %d should skip", tick)
		}
	}
}

func TestMelodyComplexityMonotonic(t *testing.T) {
	const ticks = 200
	count := func(complexity float64) int {
		m := newMelody(newSequence("monotonicity"), Params{
			Scale:         ScalePentatonic,
			BaseFrequency: 220,
			Tempo:         120,
			Complexity:    complexity,
		})
		n := 0
		for i := 0; i < ticks; i++ {
			if _, emit := m.decide(); emit {
				n++
			}
		}
		return n
	}
	low := count(0.1)
	high := count(1.0)
	assert.GreaterOrEqual(t, high, low)
	assert.Equal(t, ticks, high, "complexity 1.0 passes every positive draw")
}

func TestMelodyComplexityZeroNeverEmits(t *testing.T) {
	m := newMelody(newSequence("silence"), Params{
		Scale:         ScalePentatonic,
		BaseFrequency: 220,
		Tempo:         120,
		Complexity:    0,
	})
	for i := 0; i < 100; i++ {
		_, emit := m.decide()
		require.False(t, emit)
	}
}

func TestMelodyDegreeClamped(t *testing.T) {
	// A degree draw of exactly the top of the range must not index past the
	// interval list.
	draws := &fixedDraws{vals: []float64{0.999999, 0.9999999999, 0.1}}
	m := newMelody(draws, Params{Scale: ScaleMinor, BaseFrequency: 220, Tempo: 60, Complexity: 1})
	freq, emit := m.decide()
	require.True(t, emit)
	iv := scaleTable[ScaleMinor]
	assert.InDelta(t, frequencyFor(220, iv[len(iv)-1], 1), freq, 1e-9)
}

func TestNoteEnvelope(t *testing.T) {
	assert.Equal(t, 0.0, noteEnv(-0.01), "no output before trigger")
	assert.InDelta(t, notePeak/2, noteEnv(noteAttack/2), 1e-9, "linear attack midpoint")
	assert.InDelta(t, notePeak, noteEnv(noteAttack), 1e-9, "peak at end of attack")
	assert.InDelta(t, noteFloor, noteEnv(noteLife-1e-9), 1e-6, "decay lands near silence")
	assert.Equal(t, 0.0, noteEnv(noteLife), "tone stops at end of life")

	// Decay is monotonic after the attack.
	prev := noteEnv(noteAttack)
	for age := noteAttack + 0.05; age < noteLife; age += 0.05 {
		cur := noteEnv(age)
		require.Less(t, cur, prev, "decay must fall at age %.2f", age)
		prev = cur
	}
}

func TestNoteVoiceLifetime(t *testing.T) {
	v := &noteVoice{freq: 440, start: 1.0}

	assert.Equal(t, 0.0, v.sample(0.5), "silent before trigger")
	assert.NotEqual(t, 0.0, v.sample(1.0+noteAttack/3), "audible during attack")
	assert.False(t, v.done(1.0+noteLife+noteRelease/2), "tail still rendering")
	assert.True(t, v.done(1.0+noteLife+noteRelease), "released after the tail")

	v.stop()
	assert.Equal(t, 0.0, v.sample(1.0+noteAttack), "stopped voice is silent")
	v.stop() // second stop is a no-op, not an error
	assert.True(t, v.done(0))
}

package engine

import "math"

// drawSource yields the next value of a draw stream in [0,1).
type drawSource interface {
	next() float64
}

// sequence is the deterministic draw stream behind one performance. The seed
// string folds into a 32-bit hash; draws come from frac(sin(counter)*10000)
// with the counter starting at the hash and advancing once per call.
//
// Pad and melody share a single sequence and consume draws in strict order —
// pad first, six draws, then one or more per melody tick. That ordering is
// part of the reproducibility contract, not an implementation detail.
type sequence struct {
	counter int32
}

func newSequence(seed string) *sequence {
	var h int32
	for _, cp := range seed {
		h = h*31 + int32(cp)
	}
	return &sequence{counter: h}
}

func (s *sequence) next() float64 {
	v := math.Sin(float64(s.counter)) * 10000
	s.counter++
	return v - math.Floor(v)
}

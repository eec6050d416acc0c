package engine

import "math"

// Dormant entries: defined in the table but not reachable from the melody's
// minor-vs-pentatonic branch.
const (
	scaleMystic Scale = "mystic"
	scaleDream  Scale = "dream"
)

// scaleTable maps scale names to ascending semitone offsets from the root.
// Pentatonic spans two octaves so melodies get range without needing wide
// octave jumps.
var scaleTable = map[Scale][]int{
	ScaleMajor:      {0, 2, 4, 5, 7, 9, 11, 12},
	ScaleMinor:      {0, 2, 3, 5, 7, 8, 10, 12},
	ScalePentatonic: {0, 2, 4, 7, 9, 12, 14, 16, 19, 21},
	ScaleChromatic:  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	ScaleWholeTone:  {0, 2, 4, 6, 8, 10, 12},
	scaleMystic:     {0, 6, 10, 16, 21, 26},
	scaleDream:      {0, 5, 6, 7, 12, 17},
}

// intervalsFor resolves a scale name, falling back to pentatonic for
// anything the table doesn't know.
func intervalsFor(name Scale) []int {
	if iv, ok := scaleTable[name]; ok {
		return iv
	}
	return scaleTable[ScalePentatonic]
}

// frequencyFor converts a semitone offset to Hz relative to base.
func frequencyFor(base float64, offset int, octave float64) float64 {
	return base * math.Pow(2, float64(offset)/12.0) * octave
}

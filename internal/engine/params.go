package engine

// Scale names a scale in the scale table. Values outside the table resolve
// to pentatonic rather than failing.
type Scale string

const (
	ScaleMajor      Scale = "major"
	ScaleMinor      Scale = "minor"
	ScalePentatonic Scale = "pentatonic"
	ScaleChromatic  Scale = "chromatic"
	ScaleWholeTone  Scale = "wholeTone"
)

// Mood is carried through Params for upstream callers. Synthesis does not
// consume it yet.
type Mood string

const (
	MoodMelancholic Mood = "melancholic"
	MoodUplifting   Mood = "uplifting"
	MoodEthereal    Mood = "ethereal"
	MoodMysterious  Mood = "mysterious"
)

// Params describes one performance. Tempo > 0 and BaseFrequency > 0 are
// caller preconditions; they arrive pre-validated from the analysis side.
type Params struct {
	Scale         Scale   `json:"scale"`
	BaseFrequency float64 `json:"baseFrequency"`
	Tempo         int     `json:"tempo"`
	Complexity    float64 `json:"complexity"` // [0,1], per-beat note probability
	Mood          Mood    `json:"mood"`
}

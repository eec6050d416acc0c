package engine

// voice is one sound-producing unit with a bounded lifetime, owned by
// exactly one session. The session tracks every voice it creates and
// releases each exactly once on teardown.
type voice interface {
	// sample renders the voice at session time t, already gain-scaled.
	// Control-rate units (modulators) contribute no audio and return 0.
	sample(t float64) float64
	// stop silences the voice. Stopping an already-stopped voice is a
	// success, not an error.
	stop()
	// done reports whether the voice can be retired from the mix.
	done(t float64) bool
}

package parameter

import "time"

// Streak Chime
const (
	AudioSampleRate = 48000
	// AudioBufferDuration is the speaker buffer, larger values add latency but avoid underruns
	AudioBufferDuration = 100 * time.Millisecond

	ChimeFundamental = 1318.51 // E6
	ChimeOvertone    = 2637.02 // E7

	ChimeDuration         = 420 * time.Millisecond
	ChimeAttack           = 8 * time.Millisecond
	ChimeFundamentalDecay = 380 * time.Millisecond
	ChimeOvertoneDecay    = 200 * time.Millisecond

	ChimeFundamentalMix = 0.7
	ChimeOvertoneMix    = 0.3

	// AudioDefaultVolume is the master volume in [0,1]
	AudioDefaultVolume = 0.25

	// AudioMaxVoices caps overlapping chimes in the mixer
	AudioMaxVoices = 4
)

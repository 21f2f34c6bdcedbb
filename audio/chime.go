// Package audio plays a short bell each time a shooting star appears
package audio

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/starfield/parameter"
)

// Chime builds one bell: a fundamental and its octave, each with its own decay
func Chime(rate beep.SampleRate, volume float64) beep.Streamer {
	fund := NewEnvelope(
		NewSine(parameter.ChimeFundamental, parameter.ChimeDuration, rate),
		parameter.ChimeDuration, parameter.ChimeAttack, parameter.ChimeFundamentalDecay, rate,
	)
	over := NewEnvelope(
		NewSine(parameter.ChimeOvertone, parameter.ChimeDuration, rate),
		parameter.ChimeDuration, parameter.ChimeAttack, parameter.ChimeOvertoneDecay, rate,
	)

	mixed := beep.Mix(
		withVolume(fund, parameter.ChimeFundamentalMix),
		withVolume(over, parameter.ChimeOvertoneMix),
	)
	return withVolume(mixed, volume)
}

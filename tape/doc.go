// Package tape implements a physically modeled magnetic-tape saturation
// pipeline: AC-bias high-frequency shielding, Jiles-Atherton hysteresis,
// level-adaptive cubic saturation, machine head-bump equalization,
// dispersive phase smear, DC blocking, and a fractional azimuth delay for a
// second channel.
//
// The Processor runs one channel; stereo use takes two independent
// instances, with ProcessSecondChannel on the delayed channel. All
// per-sample paths are allocation-free and complete in bounded time, so the
// package is safe to drive from a real-time audio callback. Parameter
// changes (SetSampleRate, SetProfile, the calibration setters) must not
// overlap a ProcessSample call; apply them between blocks.
package tape

package main

import "time"

const (
	noiseTickInterval = 1 * time.Second
	noiseStepEvery    = 8 * time.Second
)

type NoiseLevel int

const (
	NoiseLow NoiseLevel = iota
	NoiseMedium
	NoiseHigh
)

func (l NoiseLevel) String() string {
	switch l {
	case NoiseMedium:
		return "medium"
	case NoiseHigh:
		return "high"
	}
	return "low"
}

// The ambient level walks this fixed cycle forever, one step per 8s.
// Mostly quiet with one loud spike, like a real cafe.
var noiseCycle = []NoiseLevel{
	NoiseLow, NoiseLow, NoiseMedium, NoiseLow, NoiseHigh, NoiseMedium, NoiseLow,
}

// noiseSimulator is a pure tick-driven state machine; the controller feeds
// it one Tick per noiseTickInterval and repaints the banner on change.
type noiseSimulator struct {
	stepTicks int
	ticks     int
	idx       int
}

func newNoiseSimulator() *noiseSimulator {
	return &noiseSimulator{
		stepTicks: int(noiseStepEvery / noiseTickInterval),
	}
}

func (n *noiseSimulator) Level() NoiseLevel {
	return noiseCycle[n.idx]
}

// Tick advances simulated time and reports the current level plus whether
// the displayed level just changed.
func (n *noiseSimulator) Tick() (NoiseLevel, bool) {
	n.ticks++
	if n.ticks < n.stepTicks {
		return n.Level(), false
	}
	n.ticks = 0
	prev := n.Level()
	n.idx = (n.idx + 1) % len(noiseCycle)
	return n.Level(), n.Level() != prev
}

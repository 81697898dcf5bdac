package forecast

import (
	"hash/fnv"
	"math/rand/v2"
)

// RandomSource produces standard-normal draws.
type RandomSource interface {
	NormFloat64() float64
}

// NewSeededSource returns a PCG-backed source. Equal seeds yield equal sequences.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeedFor derives a per-asset seed from a base seed so that assets simulated
// side by side never share a generator.
func SeedFor(base uint64, symbol string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return base ^ h.Sum64()
}

// SequenceSource replays a fixed list of shocks, wrapping around at the end.
// An empty SequenceSource always returns 0.
type SequenceSource struct {
	values []float64
	pos    int
}

// NewSequenceSource creates a SequenceSource over a copy of values.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: append([]float64(nil), values...)}
}

func (s *SequenceSource) NormFloat64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos]
	s.pos = (s.pos + 1) % len(s.values)
	return v
}

// Drawn reports how many values have been consumed modulo the sequence length.
func (s *SequenceSource) Drawn() int { return s.pos }

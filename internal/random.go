package internal

import "math/rand/v2"

// RandomSource produces the bytes consumed by RND (Cxkk).
type RandomSource interface {
	Byte() uint8
}

type pcgSource struct {
	r *rand.Rand
}

// NewRandom returns a uniformly distributed byte source seeded from the runtime.
func NewRandom() RandomSource {
	return &pcgSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (p *pcgSource) Byte() uint8 {
	return uint8(p.r.UintN(256))
}

// FixedRandom replays a fixed byte sequence, wrapping around at the end. An
// empty sequence always yields zero.
type FixedRandom struct {
	Bytes []uint8
	next  int
}

// Byte implements RandomSource.
func (f *FixedRandom) Byte() uint8 {
	if len(f.Bytes) == 0 {
		return 0
	}
	b := f.Bytes[f.next%len(f.Bytes)]
	f.next++
	return b
}

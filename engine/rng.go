package engine

// lfsr is a 32-bit Galois linear-feedback shift register. All in-match
// randomness (deck shuffle, drop_card selection, bot metric picks) flows
// through it so a run is reproducible from the match seed.
type lfsr struct {
	state uint32
}

const lfsrTaps uint32 = 0xA3000000

func newLFSR(seed uint32) *lfsr {
	if seed == 0 {
		seed = 0xACE1ACE1
	}
	return &lfsr{state: seed}
}

func (r *lfsr) next() uint32 {
	lsb := r.state & 1
	r.state >>= 1
	if lsb == 1 {
		r.state ^= lfsrTaps
	}
	return r.state
}

// intn returns a value in [0, n). n must be positive.
func (r *lfsr) intn(n int) int {
	return int(r.next() % uint32(n))
}

// shuffle performs a Fisher-Yates shuffle driven by the register.
func (r *lfsr) shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.intn(i + 1)
		swap(i, j)
	}
}

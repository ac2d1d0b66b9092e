package virt

// bitset is a fixed-width bit vector sized once at construction. It backs
// the tree's per-node expansion state.
type bitset []uint64

// newBitset creates a bitset holding n bits.
func newBitset(n int) bitset {
	if n < 0 {
		n = 0
	}
	return make(bitset, (n+63)/64)
}

// test reports whether bit i is set. Out-of-range bits read as clear.
func (b bitset) test(i int) bool {
	if i < 0 || i >= len(b)*64 {
		return false
	}
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

// set sets bit i. Out-of-range bits are ignored.
func (b bitset) set(i int) {
	if i < 0 || i >= len(b)*64 {
		return
	}
	b[i>>6] |= 1 << (uint(i) & 63)
}

// clear clears bit i. Out-of-range bits are ignored.
func (b bitset) clear(i int) {
	if i < 0 || i >= len(b)*64 {
		return
	}
	b[i>>6] &^= 1 << (uint(i) & 63)
}

// reset clears every bit.
func (b bitset) reset() {
	for i := range b {
		b[i] = 0
	}
}

package tt

import "math/bits"

// wrapKey maps a 64-bit key into [0, length) via a fixed-point
// multiply-high, a uniform projection of the key's top bits onto the table.
// This is faster than a modulo for arbitrary (non-power-of-two) lengths and,
// unlike "key mod length", does not correlate the index with the low 16
// bits of key that are separately stored as the entry's truncated Key field.
func wrapKey(key uint64, length int) int {
	if length == 0 {
		return 0
	}
	hi, _ := bits.Mul64(key, uint64(length))
	return int(hi)
}

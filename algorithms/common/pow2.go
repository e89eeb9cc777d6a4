package common

import "math/bits"

// IsPowerOfTwo reports whether n is a positive power of two. A power of
// two has exactly one bit set, so n&(n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n. Powers of two
// are returned unchanged; n <= 0 yields 1.
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Index returns a uniform index in [0, n) from crypto/rand.
func Index(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid range: %d", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(v.Int64()), nil
}

// Chance reports true with probability p, using a resolution of 1e-6.
func Chance(p float64) (bool, error) {
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	const resolution = 1_000_000
	v, err := Index(resolution)
	if err != nil {
		return false, err
	}
	return float64(v) < p*resolution, nil
}

// Digits returns n random decimal digits; the first one is never zero.
func Digits(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		lo, span := 0, 10
		if i == 0 {
			lo, span = 1, 9
		}
		d, err := Index(span)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + lo + d))
	}
	return b.String(), nil
}

package math

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/sha3"
)

const seededDomain = "weakrsa seeded reader v1"

// Source returns random if it is non-nil, and crypto/rand.Reader otherwise.
// Every function in this module that draws randomness accepts a nil reader
func Source(random io.Reader) io.Reader {
	if random == nil {
		return rand.Reader
	}
	return random
}

// NewSeededReader returns a deterministic stream of pseudo-random bytes derived from seed with SHAKE256.
// Two readers built from the same seed produce the same bytes, which makes key generation and the attacks
// reproducible in tests. The reader is not safe for concurrent use and is never suitable for real keys
func NewSeededReader(seed []byte) io.Reader {
	h := sha3.NewShake256()
	h.Write([]byte{byte(len(seededDomain))})
	h.Write([]byte(seededDomain))
	h.Write(seed)
	return h
}

// RandomRange returns a uniformly random integer in the closed interval [lo, hi]
func RandomRange(random io.Reader, lo *big.Int, hi *big.Int) (*big.Int, error) {
	if hi.Cmp(lo) < 0 {
		return nil, fmt.Errorf("%w: empty range [%v, %v]", ErrInvalidInput, lo, hi)
	}

	// width <- hi - lo + 1, so that rand.Int draws from [0, width)
	width := new(big.Int).Sub(hi, lo)
	width.Add(width, bigOne)

	r, err := rand.Int(Source(random), width)
	if err != nil {
		return nil, fmt.Errorf("failed to draw random integer: %w", err)
	}

	return r.Add(r, lo), nil
}

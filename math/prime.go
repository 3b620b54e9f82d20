package math

import (
	"fmt"
	"io"
	"math/big"
)

// maxPrimeCandidates bounds the search in GeneratePrime. By the prime number theorem roughly one in
// every (bits * ln 2) / 2 odd candidates is prime, so this is orders of magnitude above the expected count
func maxPrimeCandidates(bits int) int {
	return 1000 + 100*bits
}

// GeneratePrime returns a random probable prime of exactly bits bits.
//
// Candidates are drawn from random with both the top bit (fixing the length) and the bottom bit (making it odd)
// forced to 1, and are filtered through IsProbablePrime with DefaultRounds
func GeneratePrime(random io.Reader, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("%w: cannot generate a prime of %d bits, minimum is 2", ErrInvalidInput, bits)
	}

	random = Source(random)

	b := make([]byte, (bits+7)/8)
	// mask off any bits of the leading byte beyond the requested length
	excess := uint(len(b)*8 - bits)
	mask := byte(0xff >> excess)

	for i := 0; i < maxPrimeCandidates(bits); i++ {
		if _, err := io.ReadFull(random, b); err != nil {
			return nil, fmt.Errorf("failed to draw prime candidate: %w", err)
		}
		b[0] &= mask

		candidate := new(big.Int).SetBytes(b)
		candidate.SetBit(candidate, bits-1, 1)
		candidate.SetBit(candidate, 0, 1)

		isPrime, err := IsProbablePrime(random, candidate, DefaultRounds)
		if err != nil {
			return nil, err
		}
		if isPrime {
			return candidate, nil
		}
	}

	return nil, fmt.Errorf("%w: no %d-bit prime after %d candidates", ErrPrimeSearchExhausted, bits, maxPrimeCandidates(bits))
}

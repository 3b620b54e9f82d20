package math

import (
	"fmt"
	"math/big"
)

// ModInverse returns d in [0, m) such that a * d ≡ 1 (mod m), using the iterative Extended Euclidean Algorithm.
//
// If gcd(a, m) != 1 there is no such d, and ErrNoInverse is returned. This is what happens when a public
// exponent is picked without first checking that it is coprime to phi
func ModInverse(a *big.Int, m *big.Int) (*big.Int, error) {
	if m.Cmp(bigTwo) < 0 {
		return nil, fmt.Errorf("%w: modulus %v must be at least 2", ErrInvalidInput, m)
	}

	// r0 holds the running remainder and s0 its Bézout coefficient for a.
	// The coefficient for m is never needed, so it isn't tracked
	r0 := new(big.Int).Mod(a, m)
	r1 := new(big.Int).Set(m)
	s0 := big.NewInt(1)
	s1 := big.NewInt(0)

	q := new(big.Int)
	for r1.Sign() != 0 {
		q.Quo(r0, r1)

		// (r0, r1) <- (r1, r0 - q*r1)
		r2 := new(big.Int).Mul(q, r1)
		r2.Sub(r0, r2)
		r0, r1 = r1, r2

		// (s0, s1) <- (s1, s0 - q*s1)
		s2 := new(big.Int).Mul(q, s1)
		s2.Sub(s0, s2)
		s0, s1 = s1, s2
	}

	if r0.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: gcd(%v, %v) = %v", ErrNoInverse, a, m, r0)
	}

	return s0.Mod(s0, m), nil
}

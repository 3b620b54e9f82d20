package math

import (
	"io"
	"math/big"
)

// DefaultRounds is the number of Miller-Rabin rounds used when a caller passes rounds <= 0.
// A composite survives all of them with probability at most 4^-DefaultRounds
const DefaultRounds = 20

// small primes used for trial division before any Miller-Rabin round is spent
var smallPrimes = []*big.Int{
	big.NewInt(2), big.NewInt(3), big.NewInt(5), big.NewInt(7),
	big.NewInt(11), big.NewInt(13), big.NewInt(17), big.NewInt(19),
}

// IsProbablePrime runs trial division followed by rounds iterations of Miller-Rabin on n, drawing each
// witness from random. A prime is never rejected. A composite is accepted with probability at most 4^-rounds.
//
// If rounds <= 0, DefaultRounds is used. The only error returned is a failure to read from random
func IsProbablePrime(random io.Reader, n *big.Int, rounds int) (bool, error) {
	if n.Cmp(bigTwo) < 0 {
		return false, nil
	}

	rem := new(big.Int)
	for _, p := range smallPrimes {
		if n.Cmp(p) == 0 {
			return true, nil
		}
		if rem.Mod(n, p).Sign() == 0 {
			return false, nil
		}
	}

	if rounds <= 0 {
		rounds = DefaultRounds
	}

	// write n - 1 = 2^r * d with d odd
	nMinus1 := new(big.Int).Sub(n, bigOne)
	r := nMinus1.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinus1, r)

	// witnesses are drawn from [2, n - 2]; n is at least 23 by now so the range is never empty
	nMinus2 := new(big.Int).Sub(n, bigTwo)

WitnessLoop:
	for i := 0; i < rounds; i++ {
		a, err := RandomRange(random, bigTwo, nMinus2)
		if err != nil {
			return false, err
		}

		x := new(big.Int).Exp(a, d, n)
		if x.Cmp(bigOne) == 0 || x.Cmp(nMinus1) == 0 {
			continue
		}

		for j := uint(1); j < r; j++ {
			x.Exp(x, bigTwo, n)
			if x.Cmp(nMinus1) == 0 {
				continue WitnessLoop
			}
		}

		// a is a witness to the compositeness of n
		return false, nil
	}

	return true, nil
}

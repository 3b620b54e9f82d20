package weakrsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/bastionzero/weakrsa/math"
)

// MaxFactorAttempts is the number of independent Pollard's Rho runs made by Factorize before giving up
const MaxFactorAttempts = 32

// A Factorization is a split of a modulus into two factors with P * Q = N and P <= Q
type Factorization struct {
	P *big.Int
	Q *big.Int
}

func newFactorization(a *big.Int, b *big.Int) Factorization {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	return Factorization{P: a, Q: b}
}

// Factorize recovers the two factors of n = p * q using Pollard's Rho.
//
// Each attempt draws a fresh starting point x and polynomial constant c from random. An attempt that ends in a
// degenerate cycle (gcd = n) is abandoned and a new one started; after MaxFactorAttempts such failures,
// ErrFactorizationFailed is returned. ErrInvalidInput is returned if n < 4 or n is prime.
//
// The expected work is on the order of sqrt(p) steps, so only undersized moduli are practical
func Factorize(random io.Reader, n *big.Int) (*Factorization, error) {
	if n == nil || n.Cmp(bigFour) < 0 {
		return nil, fmt.Errorf("%w: cannot factor %v", ErrInvalidInput, n)
	}

	if n.Bit(0) == 0 {
		f := newFactorization(big.NewInt(2), new(big.Int).Rsh(n, 1))
		return &f, nil
	}

	random = math.Source(random)

	// rho never terminates with a proper factor of a prime, so don't spend the attempts on one
	isPrime, err := math.IsProbablePrime(random, n, 0)
	if err != nil {
		return nil, err
	}
	if isPrime {
		return nil, fmt.Errorf("%w: %v is prime", ErrInvalidInput, n)
	}

	for attempt := 0; attempt < MaxFactorAttempts; attempt++ {
		d, err := rho(random, n)
		if err != nil {
			return nil, err
		}
		if d.Cmp(n) == 0 {
			// the hare met the tortoise before any proper factor appeared
			continue
		}

		f := newFactorization(d, new(big.Int).Quo(n, d))
		return &f, nil
	}

	return nil, fmt.Errorf("%w: %v not split after %d attempts", ErrFactorizationFailed, n, MaxFactorAttempts)
}

// runs a single Floyd cycle-finding pass over f(v) = v^2 + c mod n, returning the first gcd(|x - y|, n) > 1.
// The result is either a proper factor of n or n itself
func rho(random io.Reader, n *big.Int) (*big.Int, error) {
	nMinus2 := new(big.Int).Sub(n, bigTwo)

	x, err := math.RandomRange(random, bigTwo, nMinus2)
	if err != nil {
		return nil, err
	}
	c, err := math.RandomRange(random, bigOne, nMinus2)
	if err != nil {
		return nil, err
	}

	f := func(v *big.Int) {
		v.Mul(v, v)
		v.Add(v, c)
		v.Mod(v, n)
	}

	y := new(big.Int).Set(x)
	d := big.NewInt(1)
	diff := new(big.Int)

	for d.Cmp(bigOne) == 0 {
		// tortoise takes one step, hare takes two
		f(x)
		f(y)
		f(y)

		diff.Sub(x, y)
		diff.Abs(diff)
		d.GCD(nil, nil, diff, n)
	}

	return d, nil
}

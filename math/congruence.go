// Package math holds the number theory shared by key generation and both attacks
package math

import (
	"math/big"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// CongruentModN reports whether N divides (a - b)
func CongruentModN(a *big.Int, b *big.Int, N *big.Int) bool {
	aModN := new(big.Int).Mod(a, N)
	bModN := new(big.Int).Mod(b, N)

	return aModN.Cmp(bModN) == 0
}

// GCD returns the greatest common divisor of a and b. Unlike big.Int.GCD, negative inputs are allowed
func GCD(a *big.Int, b *big.Int) *big.Int {
	absA := new(big.Int).Abs(a)
	absB := new(big.Int).Abs(b)
	return new(big.Int).GCD(nil, nil, absA, absB)
}

// Coprime reports whether gcd(a, b) = 1
func Coprime(a *big.Int, b *big.Int) bool {
	return GCD(a, b).Cmp(bigOne) == 0
}

// EulerTotient calculates the Euler totient of a modulus from its distinct prime factors, however many there are.
// At least two primes are required
func EulerTotient(primes []*big.Int) *big.Int {
	// phi <- (p[0] - 1) * (p[1] - 1)
	p0m1 := new(big.Int).Sub(primes[0], bigOne)
	p1m1 := new(big.Int).Sub(primes[1], bigOne)
	phi := new(big.Int).Mul(p0m1, p1m1)

	// iteratively multiply any additional primes to phi
	for i := 2; i < len(primes); i++ {
		// phi[i] <- phi[i-1] * (p[i] - 1)
		pim1 := new(big.Int).Sub(primes[i], bigOne)
		phi.Mul(phi, pim1)
	}

	return phi
}

package weakrsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/bastionzero/weakrsa/math"
)

// RecoverPrivateExponent rebuilds the private exponent of a key from its factors and public exponent,
// d = e^-1 mod (p - 1)(q - 1). The factors may come from Factorize or from a shared-prime Vulnerability
func RecoverPrivateExponent(p *big.Int, q *big.Int, e *big.Int) (*big.Int, error) {
	if err := validatePrimes(p, q); err != nil {
		return nil, err
	}

	phi := math.EulerTotient([]*big.Int{p, q})
	d, err := math.ModInverse(e, phi)
	if err != nil {
		return nil, fmt.Errorf("failed to recover private exponent: %w", err)
	}
	return d, nil
}

// RecoverPrivateKey rebuilds the private key matching pub from a factorization of its modulus
func RecoverPrivateKey(pub *PublicKey, factors Factorization) (*PrivateKey, error) {
	product := new(big.Int).Mul(factors.P, factors.Q)
	if product.Cmp(pub.N) != 0 {
		return nil, fmt.Errorf("%w: %v * %v does not equal the modulus %v", ErrInvalidInput, factors.P, factors.Q, pub.N)
	}

	d, err := RecoverPrivateExponent(factors.P, factors.Q, pub.E)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{N: new(big.Int).Set(pub.N), D: d}, nil
}

// BreakKey runs the full single-key attack: factor the modulus with Pollard's Rho, then rebuild the private key.
// Only the public key is used
func BreakKey(random io.Reader, pub *PublicKey) (*PrivateKey, error) {
	factors, err := Factorize(random, pub.N)
	if err != nil {
		return nil, err
	}
	return RecoverPrivateKey(pub, *factors)
}

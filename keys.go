package weakrsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/bastionzero/weakrsa/math"
)

const (
	// the conventional public exponent, F4
	defaultExponent = 65537

	// odd exponents below this bound are searched when F4 is unusable
	maxExponentCandidate = 1000

	// bounds the number of prime pairs drawn by GenerateKey before giving up on distinct primes of the right size
	maxKeyDraws = 64
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
	bigFour = big.NewInt(4)
)

// A PublicKey is the shareable half of a keypair
type PublicKey struct {
	N *big.Int // modulus
	E *big.Int // public exponent
}

// A PrivateKey is the secret half of a keypair. It must never leave the party that owns it
type PrivateKey struct {
	N *big.Int // modulus
	D *big.Int // private exponent
}

// KeyMaterial holds everything computed while building a keypair.
//
// It satisfies N = P * Q, Phi = (P - 1)(Q - 1), gcd(E, Phi) = 1, E * D ≡ 1 (mod Phi) and 0 < E, D < Phi.
// The values are shared with the views returned by PublicKey and PrivateKey and must not be modified
type KeyMaterial struct {
	P   *big.Int
	Q   *big.Int
	N   *big.Int
	Phi *big.Int
	E   *big.Int
	D   *big.Int
}

// PublicKey returns the {N, E} view of the key
func (k *KeyMaterial) PublicKey() *PublicKey {
	return &PublicKey{N: k.N, E: k.E}
}

// PrivateKey returns the {N, D} view of the key
func (k *KeyMaterial) PrivateKey() *PrivateKey {
	return &PrivateKey{N: k.N, D: k.D}
}

// Size returns the length of the modulus in bits
func (k *KeyMaterial) Size() int {
	return k.N.BitLen()
}

// GenerateKey draws two random primes of bits/2 bits each and builds a keypair whose modulus is exactly bits long.
// Pairs with p = q are rejected and redrawn
func GenerateKey(random io.Reader, bits int) (*KeyMaterial, error) {
	if bits < 5 {
		return nil, fmt.Errorf("%w: cannot generate a %d-bit key, minimum is 5", ErrInvalidInput, bits)
	}

	random = math.Source(random)
	pBits := bits / 2
	qBits := bits - pBits

	for i := 0; i < maxKeyDraws; i++ {
		p, err := math.GeneratePrime(random, pBits)
		if err != nil {
			return nil, err
		}
		q, err := math.GeneratePrime(random, qBits)
		if err != nil {
			return nil, err
		}

		// the product of two top-bit-set numbers may be one bit short, in which case we draw again
		if p.Cmp(q) == 0 || new(big.Int).Mul(p, q).BitLen() != bits {
			continue
		}

		return NewKeyFromPrimes(p, q)
	}

	return nil, fmt.Errorf("%w: no distinct prime pair for a %d-bit modulus after %d draws", ErrInvalidInput, bits, maxKeyDraws)
}

// NewKeyFromPrimes builds a keypair from two distinct primes.
//
// The public exponent is 65537 if it is below phi and coprime to it. Otherwise, the smallest odd exponent
// from 3 upward that satisfies both conditions is used. If none exists below 1000, ErrExponentSearchExhausted is returned
func NewKeyFromPrimes(p *big.Int, q *big.Int) (*KeyMaterial, error) {
	if err := validatePrimes(p, q); err != nil {
		return nil, err
	}

	phi := math.EulerTotient([]*big.Int{p, q})
	e, err := selectExponent(phi)
	if err != nil {
		return nil, err
	}

	return newKey(p, q, e, phi)
}

// NewKeyWithExponent builds a keypair from two distinct primes and a caller-chosen public exponent.
// If e is not coprime to phi, ErrNoInverse is returned
func NewKeyWithExponent(p *big.Int, q *big.Int, e *big.Int) (*KeyMaterial, error) {
	if err := validatePrimes(p, q); err != nil {
		return nil, err
	}

	phi := math.EulerTotient([]*big.Int{p, q})
	if e == nil || e.Cmp(bigOne) <= 0 || e.Cmp(phi) >= 0 {
		return nil, fmt.Errorf("%w: public exponent %v must lie strictly between 1 and phi = %v", ErrInvalidInput, e, phi)
	}

	return newKey(p, q, new(big.Int).Set(e), phi)
}

func validatePrimes(p *big.Int, q *big.Int) error {
	if p == nil || q == nil {
		return fmt.Errorf("%w: both primes are required", ErrInvalidInput)
	}
	if p.Cmp(bigTwo) < 0 || q.Cmp(bigTwo) < 0 {
		return fmt.Errorf("%w: primes must be at least 2, got p = %v, q = %v", ErrInvalidInput, p, q)
	}
	if p.Cmp(q) == 0 {
		return fmt.Errorf("%w: p and q must be distinct, both are %v", ErrInvalidInput, p)
	}
	return nil
}

// derives D from E and checks the result before handing out the key
func newKey(p *big.Int, q *big.Int, e *big.Int, phi *big.Int) (*KeyMaterial, error) {
	d, err := math.ModInverse(e, phi)
	if err != nil {
		return nil, fmt.Errorf("public exponent %v is unusable: %w", e, err)
	}

	ed := new(big.Int).Mul(e, d)
	if !math.CongruentModN(ed, bigOne, phi) {
		return nil, fmt.Errorf("derived private exponent does not invert e: %v * %v ≢ 1 (mod %v)", e, d, phi)
	}

	return &KeyMaterial{
		P:   new(big.Int).Set(p),
		Q:   new(big.Int).Set(q),
		N:   new(big.Int).Mul(p, q),
		Phi: phi,
		E:   e,
		D:   d,
	}, nil
}

func selectExponent(phi *big.Int) (*big.Int, error) {
	e := big.NewInt(defaultExponent)
	if e.Cmp(phi) < 0 && math.Coprime(e, phi) {
		return e, nil
	}

	for candidate := int64(3); candidate < maxExponentCandidate; candidate += 2 {
		e.SetInt64(candidate)
		if e.Cmp(phi) >= 0 {
			break
		}
		if math.Coprime(e, phi) {
			return e, nil
		}
	}

	return nil, fmt.Errorf("%w: no odd exponent below %d is coprime to phi = %v", ErrExponentSearchExhausted, maxExponentCandidate, phi)
}

package weakrsa

import (
	"errors"

	"github.com/bastionzero/weakrsa/math"
)

var (
	// ErrNoInverse indicates that a public exponent is not coprime to phi(N), so no private exponent exists
	ErrNoInverse = math.ErrNoInverse

	// ErrInvalidInput indicates an argument outside the domain of the operation,
	// e.g. a bit length below the minimum, a modulus that is prime, or p = q
	ErrInvalidInput = math.ErrInvalidInput

	// ErrFactorizationFailed indicates that Pollard's Rho did not split the modulus within MaxFactorAttempts
	ErrFactorizationFailed = errors.New("weakrsa: factorization failed")

	// ErrExponentSearchExhausted indicates that no odd public exponent coprime to phi(N) was found
	ErrExponentSearchExhausted = errors.New("weakrsa: public exponent search exhausted")
)

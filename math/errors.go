package math

import "errors"

var (
	// ErrNoInverse indicates that a has no multiplicative inverse mod m, i.e. gcd(a, m) != 1
	ErrNoInverse = errors.New("math: no modular inverse")

	// ErrInvalidInput indicates an argument outside the domain of the operation
	ErrInvalidInput = errors.New("math: invalid input")

	// ErrPrimeSearchExhausted indicates that no prime was found within the candidate budget
	ErrPrimeSearchExhausted = errors.New("math: prime search exhausted")
)

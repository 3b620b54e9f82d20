package weakrsa

import (
	"math/big"
)

// Encrypt performs textbook RSA encryption of the integer m, c = m^E mod N.
//
// m is expected to lie in [0, N). Larger or negative values are silently reduced mod N, as the algebra
// dictates, so multi-block messages must be split by the caller. No padding is applied
func Encrypt(m *big.Int, pub *PublicKey) *big.Int {
	return new(big.Int).Exp(m, pub.E, pub.N)
}

// Decrypt performs textbook RSA decryption, resulting in a plaintext integer m = c^D mod N.
//
// There is no blinding; the running time depends on D
func Decrypt(c *big.Int, priv *PrivateKey) *big.Int {
	return new(big.Int).Exp(c, priv.D, priv.N)
}

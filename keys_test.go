package weakrsa

import (
	"errors"
	"fmt"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bastionzero/weakrsa/math"
)

// run a full encrypt/decrypt round trip over every message in [0, limit)
func expectRoundTrips(key *KeyMaterial, limit int64) {
	pub, priv := key.PublicKey(), key.PrivateKey()
	for i := int64(0); i < limit; i++ {
		m := big.NewInt(i)
		c := Encrypt(m, pub)
		Expect(c.Cmp(key.N)).To(Equal(-1), "ciphertext must be reduced mod n")
		Expect(Decrypt(c, priv).Cmp(m)).To(Equal(0), fmt.Sprintf("round trip failed for m = %d", i))
	}
}

var _ = Describe("Keys", func() {

	Context("The textbook example", func() {
		p, q, e := big.NewInt(61), big.NewInt(53), big.NewInt(17)

		It("Derives n, phi and d", func() {
			key, err := NewKeyWithExponent(p, q, e)
			Expect(err).To(BeNil())
			Expect(key.N.Int64()).To(Equal(int64(3233)))
			Expect(key.Phi.Int64()).To(Equal(int64(3120)))
			Expect(key.D.Int64()).To(Equal(int64(2753)))
			expectValidKey(key)
		})

		It("Encrypts 65 to 2790 and back", func() {
			key, err := NewKeyWithExponent(p, q, e)
			Expect(err).To(BeNil())

			c := Encrypt(big.NewInt(65), key.PublicKey())
			Expect(c.Int64()).To(Equal(int64(2790)))

			m := Decrypt(big.NewInt(2790), &PrivateKey{N: big.NewInt(3233), D: big.NewInt(2753)})
			Expect(m.Int64()).To(Equal(int64(65)))
		})

		It("Round trips every message below n", func() {
			key, err := NewKeyWithExponent(p, q, e)
			Expect(err).To(BeNil())
			expectRoundTrips(key, key.N.Int64())
		})

		It("Falls back to the smallest coprime odd exponent when 65537 exceeds phi", func() {
			key, err := NewKeyFromPrimes(p, q)
			Expect(err).To(BeNil())
			// 3 and 5 both divide 3120
			Expect(key.E.Int64()).To(Equal(int64(7)))
			Expect(key.D.Int64()).To(Equal(int64(1783)))
			expectValidKey(key)
		})

		It("Wraps messages outside [0, n)", func() {
			key, err := NewKeyWithExponent(p, q, e)
			Expect(err).To(BeNil())
			wrapped := Encrypt(big.NewInt(65+3233), key.PublicKey())
			Expect(wrapped.Int64()).To(Equal(int64(2790)))
		})
	})

	Context("Building keys from chosen primes", func() {
		It("Uses 65537 when it is coprime to phi", func() {
			key, err := NewKeyFromPrimes(big.NewInt(1000003), big.NewInt(999983))
			Expect(err).To(BeNil())
			Expect(key.E.Int64()).To(Equal(int64(65537)))
			expectValidKey(key)
		})

		It("Rejects an exponent sharing a factor with phi", func() {
			_, err := NewKeyWithExponent(big.NewInt(61), big.NewInt(53), big.NewInt(65))
			Expect(errors.Is(err, ErrNoInverse)).To(BeTrue(), fmt.Sprintf("expected ErrNoInverse, got %v", err))
		})

		It("Rejects an exponent outside (1, phi)", func() {
			for _, e := range []int64{0, 1, 3120, 65537} {
				_, err := NewKeyWithExponent(big.NewInt(61), big.NewInt(53), big.NewInt(e))
				Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue(), fmt.Sprintf("e = %d should be rejected", e))
			}
		})

		It("Rejects identical primes", func() {
			_, err := NewKeyFromPrimes(big.NewInt(61), big.NewInt(61))
			Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue())
		})

		It("Rejects primes below 2", func() {
			_, err := NewKeyFromPrimes(big.NewInt(1), big.NewInt(61))
			Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue())
			_, err = NewKeyFromPrimes(nil, big.NewInt(61))
			Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue())
		})

		It("Reports an exhausted exponent search instead of looping", func() {
			// phi = (2 - 1)(3 - 1) = 2 leaves no odd exponent below phi
			_, err := NewKeyFromPrimes(big.NewInt(2), big.NewInt(3))
			Expect(errors.Is(err, ErrExponentSearchExhausted)).To(BeTrue(), fmt.Sprintf("expected ErrExponentSearchExhausted, got %v", err))
		})

		It("Does not alias the caller's primes", func() {
			p := big.NewInt(61)
			key, err := NewKeyFromPrimes(p, big.NewInt(53))
			Expect(err).To(BeNil())
			p.SetInt64(67)
			Expect(key.P.Int64()).To(Equal(int64(61)))
		})
	})

	Context("Generating keys", func() {
		random := math.NewSeededReader([]byte("keys"))

		for _, bits := range []int{5, 8, 16, 32, 64, 128, 512} {
			bits := bits
			When(fmt.Sprintf("Generating a %d-bit key", bits), func() {
				It("Produces a modulus of exactly that length satisfying every invariant", func() {
					key, err := GenerateKey(random, bits)
					Expect(err).To(BeNil(), fmt.Sprintf("failed to generate %d-bit key: %s", bits, err))
					Expect(key.Size()).To(Equal(bits))
					Expect(key.P.ProbablyPrime(20)).To(BeTrue())
					Expect(key.Q.ProbablyPrime(20)).To(BeTrue())
					expectValidKey(key)
				})

				It("Decrypts what it encrypts", func() {
					key, err := GenerateKey(random, bits)
					Expect(err).To(BeNil())

					pub, priv := key.PublicKey(), key.PrivateKey()
					nMinus1 := new(big.Int).Sub(key.N, bigOne)
					for _, m := range []*big.Int{big.NewInt(0), big.NewInt(1), nMinus1} {
						Expect(Decrypt(Encrypt(m, pub), priv).Cmp(m)).To(Equal(0))
					}
					for i := 0; i < 50; i++ {
						m, err := math.RandomRange(random, bigZero, nMinus1)
						Expect(err).To(BeNil())
						Expect(Decrypt(Encrypt(m, pub), priv).Cmp(m)).To(Equal(0), fmt.Sprintf("round trip failed for m = %v", m))
					}
				})
			})
		}

		It("Round trips every message of a 16-bit key", func() {
			key, err := GenerateKey(random, 16)
			Expect(err).To(BeNil())
			expectRoundTrips(key, key.N.Int64())
		})

		It("Is reproducible from the same seed", func() {
			k1, err := GenerateKey(math.NewSeededReader([]byte("same")), 64)
			Expect(err).To(BeNil())
			k2, err := GenerateKey(math.NewSeededReader([]byte("same")), 64)
			Expect(err).To(BeNil())
			Expect(k1.N.Cmp(k2.N)).To(Equal(0))
			Expect(k1.D.Cmp(k2.D)).To(Equal(0))
		})

		It("Uses crypto/rand when no reader is given", func() {
			key, err := GenerateKey(nil, 64)
			Expect(err).To(BeNil())
			expectValidKey(key)
		})

		It("Rejects lengths too small for two distinct primes", func() {
			_, err := GenerateKey(random, 4)
			Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue())
		})
	})
})

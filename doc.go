/*
Package weakrsa implements textbook RSA along with two attacks that break it when keys are generated carelessly.

It exists to teach, not to protect anything. There is no padding, no blinding, no constant-time arithmetic and no
support for keys beyond a few thousand bits. Never use it for real confidentiality.

# Building and using a keypair

A key can be generated at a given modulus size, or assembled from chosen primes:

	key, err := weakrsa.GenerateKey(rand.Reader, 32)
	c := weakrsa.Encrypt(big.NewInt(42), key.PublicKey())
	m := weakrsa.Decrypt(c, key.PrivateKey())

The public exponent is 65537 whenever it is usable. Tiny keys, whose totient is smaller than 65537, fall back to the
smallest suitable odd exponent. [NewKeyWithExponent] picks the exponent explicitly, which is how the classic
p = 61, q = 53, e = 17 example is reproduced.

Every function that needs randomness takes an io.Reader, and nil is treated as crypto/rand.Reader. Tests and
demonstrations that must be reproducible pass a [math.NewSeededReader] instead.

# Breaking an undersized modulus

[Factorize] runs Pollard's Rho on the modulus. It finds a factor in roughly sqrt(p) steps, which is instant for the
toy sizes here and hopeless at 2048 bits. [BreakKey] combines it with [RecoverPrivateExponent] to turn a public key
into its private key:

	priv, err := weakrsa.BreakKey(rand.Reader, key.PublicKey())

# Breaking keys that share a prime

When many devices generate keys from starved entropy, some moduli end up sharing a prime. A single gcd of two such
moduli reveals the shared prime, and then both keys fall. [ScanSharedFactors] checks every pair of a fleet's public
moduli. [Vulnerability.Recover] rebuilds both private keys from a finding:

	devices, err := weakrsa.SimulateFleet(rand.Reader, weakrsa.DefaultFleetConfig())
	for _, v := range weakrsa.ScanSharedFactors(weakrsa.Moduli(devices)) {
		privA, privB, err := v.Recover(pubA, pubB)
	}

Only public information is used. Moduli collected from real hosts can be loaded with [ParseAuthorizedKeys].

# Sources

	[1] Heninger, Durumeric, Wustrow, Halderman. Mining Your Ps and Qs: Detection of Widespread Weak Keys in Network Devices. USENIX Security 2012
	[2] Pollard. A Monte Carlo method for factorization. BIT 15, 1975
*/
package weakrsa

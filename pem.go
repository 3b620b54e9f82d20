package weakrsa

import (
	"bytes"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"
)

const (
	privatePEMType = "WEAK RSA PRIVATE KEY"
	publicPEMType  = "WEAK RSA PUBLIC KEY"
)

// used exclusively as a placeholder for encoding-decoding; N, Phi and D are rederived on decode
type keyMaterial struct {
	P *big.Int
	Q *big.Int
	E *big.Int
	D *big.Int
}

// used exclusively as a placeholder for encoding-decoding
type publicKey struct {
	N *big.Int
	E *big.Int
}

// EncodePEM returns a PEM encoding of the key material
func (k *KeyMaterial) EncodePEM() (string, error) {
	return encodePEM(privatePEMType, keyMaterial{P: k.P, Q: k.Q, E: k.E, D: k.D})
}

// EncodePEM returns a PEM encoding of the public key
func (pub *PublicKey) EncodePEM() (string, error) {
	return encodePEM(publicPEMType, publicKey{N: pub.N, E: pub.E})
}

func encodePEM(pemType string, val interface{}) (string, error) {
	b, err := asn1.Marshal(val)
	if err != nil {
		return "", fmt.Errorf("failed to DER-encode: %w", err)
	}

	keyPEM := new(bytes.Buffer)
	err = pem.Encode(keyPEM, &pem.Block{
		Type:  pemType,
		Bytes: b,
	})
	if err != nil {
		return "", fmt.Errorf("failed to PEM-encode: %w", err)
	}

	return keyPEM.String(), nil
}

// DecodeKeyPEM returns key material from a PEM encoding. The key is rebuilt from P, Q and E,
// and the encoded D must match the rebuilt one
func DecodeKeyPEM(encoded string) (*KeyMaterial, error) {
	var km keyMaterial
	if err := decodePEM(encoded, privatePEMType, &km); err != nil {
		return nil, err
	}

	key, err := NewKeyWithExponent(km.P, km.Q, km.E)
	if err != nil {
		return nil, fmt.Errorf("decoded key is invalid: %w", err)
	}
	if km.D == nil || key.D.Cmp(km.D) != 0 {
		return nil, fmt.Errorf("%w: decoded private exponent does not match its primes", ErrInvalidInput)
	}

	return key, nil
}

// DecodePublicKeyPEM returns a public key from a PEM encoding
func DecodePublicKeyPEM(encoded string) (*PublicKey, error) {
	var pub publicKey
	if err := decodePEM(encoded, publicPEMType, &pub); err != nil {
		return nil, err
	}
	if pub.N == nil || pub.E == nil || pub.N.Sign() <= 0 || pub.E.Sign() <= 0 {
		return nil, fmt.Errorf("%w: decoded public key must have a positive modulus and exponent", ErrInvalidInput)
	}

	return &PublicKey{N: pub.N, E: pub.E}, nil
}

func decodePEM(encoded string, pemType string, val interface{}) error {
	block, rest := pem.Decode([]byte(encoded))
	if block == nil || block.Type != pemType || len(bytes.TrimSpace(rest)) > 0 {
		return fmt.Errorf("%w: failed to decode PEM block containing %s", ErrInvalidInput, pemType)
	}

	rest, err := asn1.Unmarshal(block.Bytes, val)
	if err != nil {
		return fmt.Errorf("failed to unmarshal DER-encoded %s: %w", pemType, err)
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: trailing data after DER-encoded %s", ErrInvalidInput, pemType)
	}

	return nil
}

package weakrsa

import (
	"bufio"
	"bytes"
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/ssh"
)

// ParseAuthorizedKeys collects the RSA moduli from an OpenSSH authorized_keys stream, so that keys harvested from
// real hosts can be fed to ScanSharedFactors. Each modulus is labelled with the key's comment, or with its line
// number when there is none. Blank lines, comments and non-RSA keys are skipped
func ParseAuthorizedKeys(r io.Reader) ([]Modulus, error) {
	var moduli []Modulus

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		key, comment, _, _, err := ssh.ParseAuthorizedKey(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		cryptoKey, ok := key.(ssh.CryptoPublicKey)
		if !ok {
			continue
		}
		rsaKey, ok := cryptoKey.CryptoPublicKey().(*rsa.PublicKey)
		if !ok {
			continue
		}

		id := comment
		if id == "" {
			id = fmt.Sprintf("line-%d", lineNo)
		}
		moduli = append(moduli, Modulus{ID: id, N: new(big.Int).Set(rsaKey.N)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read authorized keys: %w", err)
	}

	return moduli, nil
}

// MarshalAuthorizedKey returns the public key as a single OpenSSH authorized_keys line ending in comment.
// OpenSSH only accepts public exponents of at most 24 bits
func (pub *PublicKey) MarshalAuthorizedKey(comment string) ([]byte, error) {
	if pub.E.Sign() <= 0 || pub.E.BitLen() > 24 {
		return nil, fmt.Errorf("%w: public exponent %v is too large for an SSH key", ErrInvalidInput, pub.E)
	}

	key, err := ssh.NewPublicKey(&rsa.PublicKey{N: pub.N, E: int(pub.E.Int64())})
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH public key: %w", err)
	}

	line := bytes.TrimSuffix(ssh.MarshalAuthorizedKey(key), []byte("\n"))
	if comment != "" {
		line = append(line, ' ')
		line = append(line, comment...)
	}
	return append(line, '\n'), nil
}

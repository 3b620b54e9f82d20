package weakrsa

import (
	"context"
	"fmt"
	"math/big"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// A Modulus is a public modulus labelled with the device or host it was collected from
type Modulus struct {
	ID string
	N  *big.Int
}

// A Vulnerability records two moduli that share a prime factor, along with the factorization of each
type Vulnerability struct {
	DeviceA     string
	DeviceB     string
	SharedPrime *big.Int
	FactorsA    Factorization // factors of DeviceA's modulus
	FactorsB    Factorization // factors of DeviceB's modulus
}

// Recover rebuilds the private keys of both devices from their public keys.
// pubA and pubB must belong to DeviceA and DeviceB respectively
func (v *Vulnerability) Recover(pubA *PublicKey, pubB *PublicKey) (*PrivateKey, *PrivateKey, error) {
	privA, err := RecoverPrivateKey(pubA, v.FactorsA)
	if err != nil {
		return nil, nil, fmt.Errorf("device %s: %w", v.DeviceA, err)
	}
	privB, err := RecoverPrivateKey(pubB, v.FactorsB)
	if err != nil {
		return nil, nil, fmt.Errorf("device %s: %w", v.DeviceB, err)
	}
	return privA, privB, nil
}

// ScanSharedFactors compares every pair of moduli and reports each pair whose gcd is a nontrivial proper factor.
// A nil or empty result means no shared primes were found, which is a valid outcome
func ScanSharedFactors(moduli []Modulus) []Vulnerability {
	// the background context is never cancelled, so the scan cannot fail
	vulns, _ := ScanSharedFactorsContext(context.Background(), moduli)
	return vulns
}

// ScanSharedFactorsContext is ScanSharedFactors with cancellation.
//
// Rows of the pairwise comparison run concurrently, bounded by GOMAXPROCS. Results are ordered by the
// positions of the two moduli in the input, so the output does not depend on scheduling
func ScanSharedFactorsContext(ctx context.Context, moduli []Modulus) ([]Vulnerability, error) {
	type finding struct {
		i, j int
		vuln Vulnerability
	}

	var (
		mu       sync.Mutex
		findings []finding
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < len(moduli)-1; i++ {
		i := i
		g.Go(func() error {
			var row []finding
			for j := i + 1; j < len(moduli); j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if vuln, ok := checkPair(moduli[i], moduli[j]); ok {
					row = append(row, finding{i: i, j: j, vuln: vuln})
				}
			}

			if len(row) > 0 {
				mu.Lock()
				findings = append(findings, row...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(findings, func(a, b int) bool {
		if findings[a].i != findings[b].i {
			return findings[a].i < findings[b].i
		}
		return findings[a].j < findings[b].j
	})

	var vulns []Vulnerability
	for _, f := range findings {
		vulns = append(vulns, f.vuln)
	}
	return vulns, nil
}

// checkPair reports a Vulnerability if 1 < gcd(a.N, b.N) < min(a.N, b.N).
// A gcd equal to one of the moduli means one divides the other (usually identical keys), which is not a shared prime
func checkPair(a Modulus, b Modulus) (Vulnerability, bool) {
	g := new(big.Int).GCD(nil, nil, a.N, b.N)
	if g.Cmp(bigOne) <= 0 {
		return Vulnerability{}, false
	}

	smaller := a.N
	if b.N.Cmp(smaller) < 0 {
		smaller = b.N
	}
	if g.Cmp(smaller) >= 0 {
		return Vulnerability{}, false
	}

	return Vulnerability{
		DeviceA:     a.ID,
		DeviceB:     b.ID,
		SharedPrime: g,
		FactorsA:    newFactorization(g, new(big.Int).Quo(a.N, g)),
		FactorsB:    newFactorization(g, new(big.Int).Quo(b.N, g)),
	}, true
}

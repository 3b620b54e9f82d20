package weakrsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/bastionzero/weakrsa/math"
)

// FleetConfig describes a simulated fleet of devices that generate their keys with poor entropy
type FleetConfig struct {
	Devices   int // number of simulated devices
	PoolSize  int // number of distinct primes the whole fleet draws from
	PrimeBits int // length of each pooled prime
}

// DefaultFleetConfig returns a fleet of 8 devices drawing 20-bit primes from a pool of 5
func DefaultFleetConfig() FleetConfig {
	return FleetConfig{
		Devices:   8,
		PoolSize:  5,
		PrimeBits: 20,
	}
}

// A DeviceRecord is one simulated fleet member and its keypair. It is read-only once created
type DeviceRecord struct {
	ID  string
	Key *KeyMaterial
}

// PublicKey returns the device's public key, the only part an attacker sees
func (dr *DeviceRecord) PublicKey() *PublicKey {
	return dr.Key.PublicKey()
}

// Modulus returns the device's public modulus labelled with its ID
func (dr *DeviceRecord) Modulus() Modulus {
	return Modulus{ID: dr.ID, N: dr.Key.N}
}

// Moduli collects the labelled public moduli of a fleet, ready for ScanSharedFactors
func Moduli(devices []*DeviceRecord) []Modulus {
	moduli := make([]Modulus, len(devices))
	for i, dr := range devices {
		moduli[i] = dr.Modulus()
	}
	return moduli
}

// SimulateFleet builds a fleet whose devices all pick both of their primes from one small shared pool.
// The pool is what models starved entropy. Even a handful of devices drawing from a pool of five primes
// will almost always produce moduli that share exactly one prime.
//
// Each device's two primes are always distinct, but two devices may end up with the same pair and therefore
// identical moduli; ScanSharedFactors does not report those
func SimulateFleet(random io.Reader, cfg FleetConfig) ([]*DeviceRecord, error) {
	if cfg.Devices < 1 {
		return nil, fmt.Errorf("%w: a fleet needs at least 1 device, got %d", ErrInvalidInput, cfg.Devices)
	}
	if cfg.PoolSize < 2 {
		return nil, fmt.Errorf("%w: the prime pool needs at least 2 primes, got %d", ErrInvalidInput, cfg.PoolSize)
	}

	random = math.Source(random)

	pool, err := primePool(random, cfg.PoolSize, cfg.PrimeBits)
	if err != nil {
		return nil, err
	}

	last := big.NewInt(int64(len(pool) - 1))
	devices := make([]*DeviceRecord, 0, cfg.Devices)
	for i := 0; i < cfg.Devices; i++ {
		pi, err := math.RandomRange(random, bigZero, last)
		if err != nil {
			return nil, err
		}

		// draw q's index from the remaining len(pool) - 1 slots so that it never lands on p
		qi, err := math.RandomRange(random, bigZero, new(big.Int).Sub(last, bigOne))
		if err != nil {
			return nil, err
		}
		if qi.Cmp(pi) >= 0 {
			qi.Add(qi, bigOne)
		}

		key, err := NewKeyFromPrimes(pool[pi.Int64()], pool[qi.Int64()])
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i+1, err)
		}

		devices = append(devices, &DeviceRecord{
			ID:  fmt.Sprintf("device-%d", i+1),
			Key: key,
		})
	}

	return devices, nil
}

// generates size distinct primes of the given length
func primePool(random io.Reader, size int, bits int) ([]*big.Int, error) {
	pool := make([]*big.Int, 0, size)
	for draws := 0; len(pool) < size; draws++ {
		if draws >= size*maxKeyDraws {
			return nil, fmt.Errorf("%w: could not find %d distinct %d-bit primes", ErrInvalidInput, size, bits)
		}

		p, err := math.GeneratePrime(random, bits)
		if err != nil {
			return nil, err
		}
		if !primeIn(pool, p) {
			pool = append(pool, p)
		}
	}
	return pool, nil
}

func primeIn(pool []*big.Int, p *big.Int) bool {
	for _, existing := range pool {
		if existing.Cmp(p) == 0 {
			return true
		}
	}
	return false
}

package rsaacc

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/otiai10/primes"
)

// MillerRabinRounds is the Miller-Rabin confidence parameter spec.md §4.2
// names explicitly (k=10).
const MillerRabinRounds = 10

// firstSmallPrimes is a cheap trial-division pre-filter: candidates that
// fail it are rejected without paying for a Miller-Rabin round. Grounded on
// the reference pack's github.com/otiai10/primes dependency (pulled in by
// kisdex-mpc-lib for exactly this kind of small-prime/factorization work).
var firstSmallPrimes = primes.Generate(256)

// HashToPrime implements spec.md §4.2: repeatedly hash member||counter (a
// little-endian uint64 counter starting at 0) with SHA-256, interpret the
// digest as an unsigned integer, and increment the counter until the result
// is a probable prime at Miller-Rabin confidence k=10. It returns the prime
// and the counter value that produced it; re-deriving the prime from
// (member, counter) is the unambiguous identity check spec.md requires for
// witness computation.
func HashToPrime(member string) (prime *big.Int, counter uint64) {
	memberBytes := []byte(member)
	var ctrBuf [8]byte
	for counter = 0; ; counter++ {
		binary.LittleEndian.PutUint64(ctrBuf[:], counter)
		h := sha256.New()
		h.Write(memberBytes)
		h.Write(ctrBuf[:])
		digest := h.Sum(nil)
		candidate := new(big.Int).SetBytes(digest)
		if passesSmallPrimeFilter(candidate) && candidate.ProbablyPrime(MillerRabinRounds) {
			return candidate, counter
		}
	}
}

// RederiveMember reproduces the prime for (member, counter), so a caller can
// check whether a stored witness key names the same accumulated item: both
// the prime and counter must match, per spec.md §4.2. The package's own
// Witness and Verify do not call it.
func RederiveMember(member string, counter uint64) *big.Int {
	memberBytes := []byte(member)
	var ctrBuf [8]byte
	binary.LittleEndian.PutUint64(ctrBuf[:], counter)
	h := sha256.New()
	h.Write(memberBytes)
	h.Write(ctrBuf[:])
	digest := h.Sum(nil)
	candidate := new(big.Int).SetBytes(digest)
	return candidate
}

func passesSmallPrimeFilter(candidate *big.Int) bool {
	for _, p := range firstSmallPrimes {
		if p < 2 {
			continue
		}
		bp := big.NewInt(int64(p))
		if candidate.Cmp(bp) == 0 {
			return true
		}
		var mod big.Int
		mod.Mod(candidate, bp)
		if mod.Sign() == 0 {
			return false
		}
	}
	return true
}

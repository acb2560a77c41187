// Package rsaacc implements the Baric-Pfitzmann-style RSA accumulator
// spec.md §4.2 describes: keygen over a safe RSA modulus, hash-to-prime
// member encoding, accumulation, witness derivation and verification. It
// underlies both the large-universe and small-universe signature schemes.
package rsaacc

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/luxfi/redactset/pkg/bigfield"
	"github.com/luxfi/redactset/pkg/der"
)

// modulusBits is the RSA modulus size: the product of two 2048-bit primes.
const modulusBits = 4096

// PrivateKey holds the accumulator trapdoor (p, q) and the base g.
type PrivateKey struct {
	G *big.Int
	P *big.Int
	Q *big.Int
	N *big.Int
}

// PublicKey is (g, n).
type PublicKey struct {
	G *big.Int
	N *big.Int
}

// Public returns the public (g, n) half of sk, the form Eval/Witness/Verify
// operate over: accumulation and witness derivation never need p, q
// themselves, only the modulus they produce.
func (sk *PrivateKey) Public() *PublicKey {
	return &PublicKey{G: sk.G, N: sk.N}
}

// KeyGen samples two 2048-bit probable primes p, q, sets n = pq, and picks
// g uniformly in (1, n).
func KeyGen() (*PrivateKey, *PublicKey, error) {
	p, err := rand.Prime(rand.Reader, modulusBits/2)
	if err != nil {
		return nil, nil, fmt.Errorf("rsaacc: keygen: generating p: %w", err)
	}
	q, err := rand.Prime(rand.Reader, modulusBits/2)
	if err != nil {
		return nil, nil, fmt.Errorf("rsaacc: keygen: generating q: %w", err)
	}
	n := new(big.Int).Mul(p, q)

	g, err := bigfield.RandRange(big.NewInt(1), n)
	if err != nil {
		return nil, nil, fmt.Errorf("rsaacc: keygen: sampling g: %w", err)
	}

	sk := &PrivateKey{G: g, P: p, Q: q, N: n}
	pk := &PublicKey{G: g, N: n}
	return sk, pk, nil
}

// MemberProof is the per-member auxiliary data spec.md §4.2 requires be
// retained alongside the accumulator so witnesses can be (re)computed: the
// hash-derived prime and the counter that produced it.
type MemberProof struct {
	Member  string
	Prime   *big.Int
	Counter uint64
}

// sameMember reports whether two MemberProofs name the same accumulated
// item: both prime and counter must match, per spec.md §4.2.
func (m MemberProof) sameMember(o MemberProof) bool {
	return m.Counter == o.Counter && m.Prime.Cmp(o.Prime) == 0
}

// Eval accumulates members into acc = g^(prod primes) mod n, returning the
// per-member auxiliary data needed later for Witness.
func Eval(pk *PublicKey, members []string) (acc *big.Int, aux []MemberProof, err error) {
	aux = make([]MemberProof, len(members))
	product := big.NewInt(1)
	for i, m := range members {
		prime, counter := HashToPrime(m)
		aux[i] = MemberProof{Member: m, Prime: prime, Counter: counter}
		product.Mul(product, prime)
	}
	acc = new(big.Int).Exp(pk.G, product, pk.N)
	return acc, aux, nil
}

// Witness computes w_s = g^(prod of primes for all members other than s)
// mod n, for a member present in aux (matched by (prime, counter)).
func Witness(pk *PublicKey, target MemberProof, aux []MemberProof) (*big.Int, error) {
	product := big.NewInt(1)
	found := false
	for _, m := range aux {
		if m.sameMember(target) {
			found = true
			continue
		}
		product.Mul(product, m.Prime)
	}
	if !found {
		return nil, fmt.Errorf("rsaacc: witness: %q is not among the accumulated members", target.Member)
	}
	return new(big.Int).Exp(pk.G, product, pk.N), nil
}

// Verify checks w^prime == acc (mod n).
func Verify(pk *PublicKey, acc *big.Int, prime *big.Int, witness *big.Int) bool {
	if witness == nil || witness.Sign() <= 0 || witness.Cmp(pk.N) >= 0 {
		return false
	}
	got := new(big.Int).Exp(witness, prime, pk.N)
	return got.Cmp(acc) == 0
}

// MarshalPublicKey encodes pk per spec.md §6: SEQUENCE(INTEGER g, INTEGER n).
func MarshalPublicKey(pk *PublicKey) ([]byte, error) {
	return der.Marshal(&der.RSAAccKeyPub{G: pk.G, N: pk.N})
}

// UnmarshalPublicKey decodes the encoding produced by MarshalPublicKey.
func UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	var rec der.RSAAccKeyPub
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("rsaacc: decoding public key: %w", err)
	}
	return &PublicKey{G: rec.G, N: rec.N}, nil
}

// MarshalPrivateKey encodes sk per spec.md §6: SEQUENCE(INTEGER g, INTEGER
// p, INTEGER q).
func MarshalPrivateKey(sk *PrivateKey) ([]byte, error) {
	return der.Marshal(&der.RSAAccKeyPriv{G: sk.G, P: sk.P, Q: sk.Q})
}

// UnmarshalPrivateKey decodes the encoding produced by MarshalPrivateKey,
// recomputing n = pq.
func UnmarshalPrivateKey(data []byte) (*PrivateKey, error) {
	var rec der.RSAAccKeyPriv
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("rsaacc: decoding private key: %w", err)
	}
	n := new(big.Int).Mul(rec.P, rec.Q)
	return &PrivateKey{G: rec.G, P: rec.P, Q: rec.Q, N: n}, nil
}

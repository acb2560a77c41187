// Package pairingacc implements the Vitto-Biryukov-style dynamic
// accumulator over the pairing group from pkg/pairing, per spec.md §4.1:
// keygen, eval, witness and verify, with witnesses that remain valid after
// other members are forgotten (redaction is simply not publishing a
// witness).
package pairingacc

import (
	"fmt"
	"math/big"

	"github.com/luxfi/redactset/pkg/der"
	"github.com/luxfi/redactset/pkg/pairing"
)

// PrivateKey is the accumulator trapdoor (g, x).
type PrivateKey struct {
	G pairing.G2
	X pairing.Scalar
}

// PublicKey is (g, g^x), both in G2.
type PublicKey struct {
	G  pairing.G2
	PK pairing.G2
}

// KeyGen samples x <- Zr and returns (sk, pk) = ((g,x), (g,g^x)).
func KeyGen() (*PrivateKey, *PublicKey, error) {
	if err := pairing.Init(); err != nil {
		return nil, nil, err
	}
	x, err := pairing.RandomScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("pairingacc: keygen: %w", err)
	}
	g := pairing.G2Generator()
	sk := &PrivateKey{G: g, X: x}
	pk := &PublicKey{G: g, PK: g.ScalarMul(x)}
	return sk, pk, nil
}

// hashMember maps a member string to Zr via the group's hash-to-scalar.
func hashMember(member string) pairing.Scalar {
	return pairing.HashToScalar([]byte(member))
}

// Eval computes acc = g1^phi where phi = product over s in members of
// (H(s)+x) mod r. The empty set accumulates to g1^1 = g1.
func Eval(sk *PrivateKey, members []string) (pairing.G1, error) {
	phi := pairing.ScalarFromInt(big.NewInt(1))
	for _, m := range members {
		term := hashMember(m).Add(sk.X)
		phi = phi.Mul(term)
	}
	return pairing.G1Generator().ScalarMul(phi), nil
}

// Witness computes w_s = acc^{(H(s)+x)^-1} for a member accumulated into acc.
func Witness(sk *PrivateKey, acc pairing.G1, member string) (pairing.G1, error) {
	term := hashMember(member).Add(sk.X)
	inv, err := term.Inverse()
	if err != nil {
		return pairing.G1{}, fmt.Errorf("pairingacc: witness: member %q hashes to -x", member)
	}
	return acc.ScalarMul(inv), nil
}

// Verify checks e(w_s, g^H(s) . g^x) == e(acc, g).
func Verify(pk *PublicKey, acc pairing.G1, member string, witness pairing.G1) (bool, error) {
	hg := pk.G.ScalarMul(hashMember(member))
	rhsG2 := hg.Add(pk.PK)
	return pairing.PairingEqual(witness, rhsG2, acc, pk.G)
}

// MarshalPublicKey encodes pk per spec.md §6: SEQUENCE(OCTET STRING g,
// OCTET STRING pk).
func MarshalPublicKey(pk *PublicKey) ([]byte, error) {
	rec := der.PairingAccKeyPub{G: pk.G.Bytes(), PK: pk.PK.Bytes()}
	return der.Marshal(&rec)
}

// UnmarshalPublicKey decodes the encoding produced by MarshalPublicKey.
func UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	var rec der.PairingAccKeyPub
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("pairingacc: decoding public key: %w", err)
	}
	g, err := pairing.G2FromBytes(rec.G)
	if err != nil {
		return nil, fmt.Errorf("pairingacc: decoding g: %w", err)
	}
	pk, err := pairing.G2FromBytes(rec.PK)
	if err != nil {
		return nil, fmt.Errorf("pairingacc: decoding pk: %w", err)
	}
	return &PublicKey{G: g, PK: pk}, nil
}

// MarshalPrivateKey encodes sk per spec.md §6: SEQUENCE(OCTET STRING g,
// OCTET STRING sk).
func MarshalPrivateKey(sk *PrivateKey) ([]byte, error) {
	rec := der.PairingAccKeyPriv{G: sk.G.Bytes(), SK: sk.X.Bytes()}
	return der.Marshal(&rec)
}

// UnmarshalPrivateKey decodes the encoding produced by MarshalPrivateKey.
func UnmarshalPrivateKey(data []byte) (*PrivateKey, error) {
	var rec der.PairingAccKeyPriv
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("pairingacc: decoding private key: %w", err)
	}
	g, err := pairing.G2FromBytes(rec.G)
	if err != nil {
		return nil, fmt.Errorf("pairingacc: decoding g: %w", err)
	}
	x, err := pairing.ScalarFromBytes(rec.SK)
	if err != nil {
		return nil, fmt.Errorf("pairingacc: decoding x: %w", err)
	}
	return &PrivateKey{G: g, X: x}, nil
}

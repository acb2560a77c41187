package rss

import (
	"fmt"

	"github.com/luxfi/redactset/pkg/accum/pairingacc"
	"github.com/luxfi/redactset/pkg/der"
	"github.com/luxfi/redactset/pkg/ecsig"
	"github.com/luxfi/redactset/pkg/keys"
	"github.com/luxfi/redactset/pkg/pairing"
)

// DerlerSignature is the accumulator-only scheme's signature object
// (spec.md §4.5.1): the accumulator value, a witness per signed member, and
// an ECDSA signature over the accumulator binding the whole thing to the
// signer.
type DerlerSignature struct {
	Acc       pairing.G1
	Witnesses map[string]pairing.G1
	ECDSA     []byte
}

// DerlerKeyGen produces a fresh accumulator-only keypair.
func DerlerKeyGen() (*keys.DerlerSigningKey, *keys.DerlerVerificationKey, error) {
	if err := pairing.Init(); err != nil {
		return nil, nil, newErr(CryptoBackendUnavailable, "initializing pairing group", err)
	}
	accSK, accPK, err := pairingacc.KeyGen()
	if err != nil {
		return nil, nil, newErr(CryptoBackendUnavailable, "generating accumulator key", err)
	}
	ecSK, ecPK, err := ecsig.GenerateKey()
	if err != nil {
		return nil, nil, newErr(CryptoBackendUnavailable, "generating EC key", err)
	}
	return &keys.DerlerSigningKey{Acc: accSK, EC: ecSK},
		&keys.DerlerVerificationKey{Acc: accPK, EC: ecPK}, nil
}

// DerlerSign accumulates set and produces a witness for every member in it,
// per spec.md §4.5.1.
func DerlerSign(sk *keys.DerlerSigningKey, set []string) (*DerlerSignature, error) {
	if len(set) == 0 {
		return nil, newErr(InvalidArgument, "set must be non-empty", nil)
	}
	if m, dup := duplicateMembers(set); dup {
		return nil, newErr(InvalidArgument, fmt.Sprintf("duplicate member %q", m), nil)
	}

	acc, err := pairingacc.Eval(sk.Acc, set)
	if err != nil {
		return nil, newErr(CryptoBackendUnavailable, "evaluating accumulator", err)
	}

	witnesses := make(map[string]pairing.G1, len(set))
	for _, m := range set {
		w, err := pairingacc.Witness(sk.Acc, acc, m)
		if err != nil {
			return nil, newErr(CryptoBackendUnavailable, fmt.Sprintf("computing witness for %q", m), err)
		}
		witnesses[m] = w
	}

	ecSig := ecsig.Sign(sk.EC, acc.Bytes())
	return &DerlerSignature{Acc: acc, Witnesses: witnesses, ECDSA: ecSig}, nil
}

// DerlerRedact drops every witness not naming a member of subset, per
// spec.md §4.5.1's redaction step. The accumulator value is unchanged: this
// is the scheme's defining property, that redaction requires no secret key.
func DerlerRedact(sig *DerlerSignature, subset []string) (*DerlerSignature, error) {
	if m, dup := duplicateMembers(subset); dup {
		return nil, newErr(InvalidArgument, fmt.Sprintf("duplicate member %q", m), nil)
	}
	out := &DerlerSignature{Acc: sig.Acc, ECDSA: sig.ECDSA, Witnesses: map[string]pairing.G1{}}
	for _, m := range subset {
		w, ok := sig.Witnesses[m]
		if !ok {
			return nil, newErr(InvalidArgument, fmt.Sprintf("%q is not a member of the signed set", m), nil)
		}
		out.Witnesses[m] = w
	}
	return out, nil
}

// DerlerVerify checks that sig's accumulator is bound to vk by the embedded
// ECDSA signature and that set's members are exactly those witnessed, each
// witness verifying under the accumulator's pairing equation (spec.md
// §4.5.1, §4.6). A mismatched set or a failing witness returns (false,
// nil): only malformed inputs return an error.
func DerlerVerify(vk *keys.DerlerVerificationKey, set []string, sig *DerlerSignature) (bool, error) {
	if len(set) == 0 {
		return false, newErr(InvalidArgument, "set must be non-empty", nil)
	}
	if !ecsig.Verify(vk.EC, sig.Acc.Bytes(), sig.ECDSA) {
		return false, nil
	}
	if len(set) != len(sig.Witnesses) {
		return false, nil
	}
	for _, m := range set {
		w, ok := sig.Witnesses[m]
		if !ok {
			return false, nil
		}
		ok2, err := pairingacc.Verify(vk.Acc, sig.Acc, m, w)
		if err != nil {
			return false, newErr(CryptoBackendUnavailable, "checking witness pairing", err)
		}
		if !ok2 {
			return false, nil
		}
	}
	return true, nil
}

// MarshalDerlerSignature encodes sig per spec.md §6.
func MarshalDerlerSignature(sig *DerlerSignature) ([]byte, error) {
	rec := &der.DerlerSignature{Acc: sig.Acc.Bytes(), ECDSA: sig.ECDSA}
	fields := make([]der.DerlerEntryFields, 0, len(sig.Witnesses))
	for member, w := range sig.Witnesses {
		fields = append(fields, der.DerlerEntryFields{Member: member, Witness: w.Bytes()})
	}
	rec.SetDerlerEntries(fields)
	data, err := der.Marshal(rec)
	if err != nil {
		return nil, newErr(IOFailure, "encoding derler signature", err)
	}
	return data, nil
}

// UnmarshalDerlerSignature decodes the encoding produced by
// MarshalDerlerSignature.
func UnmarshalDerlerSignature(data []byte) (*DerlerSignature, error) {
	var rec der.DerlerSignature
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, newErr(VerificationFailure, "decoding derler signature", err)
	}
	acc, err := pairing.G1FromBytes(rec.Acc)
	if err != nil {
		return nil, newErr(VerificationFailure, "decoding accumulator point", err)
	}
	witnesses := make(map[string]pairing.G1, len(rec.Witnesses))
	for _, entry := range rec.DerlerEntries() {
		w, err := pairing.G1FromBytes(entry.Witness)
		if err != nil {
			return nil, newErr(VerificationFailure, fmt.Sprintf("decoding witness for %q", entry.Member), err)
		}
		witnesses[entry.Member] = w
	}
	return &DerlerSignature{Acc: acc, Witnesses: witnesses, ECDSA: rec.ECDSA}, nil
}

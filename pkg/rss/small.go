package rss

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/luxfi/redactset/pkg/accum/rsaacc"
	"github.com/luxfi/redactset/pkg/der"
	"github.com/luxfi/redactset/pkg/ecsig"
	"github.com/luxfi/redactset/pkg/keys"
)

// SmallSignature is the small-universe scheme's signature object (spec.md
// §4.5.2): an RSA accumulator over the policy's listed characteristic
// bit-strings {c_i}, one witness per listed string, and an ECDSA signature
// over the accumulator value alone.
type SmallSignature struct {
	Acc     *big.Int
	Policy  string
	Entries []der.SmallEntryFields
	ECDSA   []byte
}

// characteristic returns the length-len(universe) bitstring with a '1' at
// position i iff universe[i] is a member of set (spec.md §3).
func characteristic(universe, set []string) string {
	present := asSet(set)
	b := make([]byte, len(universe))
	for i, m := range universe {
		if present[m] {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// parsePolicyList splits a small-universe policy string into its listed
// characteristic strings c_0, ..., c_{k-1}, each required to have length
// universeLen and consist only of '0'/'1' (spec.md §3, §4.5.2).
func parsePolicyList(policyStr string, universeLen int) ([]string, error) {
	parts := strings.Split(policyStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		c := strings.TrimSpace(p)
		if len(c) != universeLen {
			return nil, fmt.Errorf("characteristic string %q has length %d, want %d", c, len(c), universeLen)
		}
		for i := 0; i < len(c); i++ {
			if c[i] != '0' && c[i] != '1' {
				return nil, fmt.Errorf("characteristic string %q is not a bit-string", c)
			}
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("policy lists no characteristic strings")
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// bitsSubset reports whether every '1' bit in k also appears in target,
// i.e. (target OR k) == target (spec.md §4.5.2).
func bitsSubset(k, target string) bool {
	for i := 0; i < len(k); i++ {
		if k[i] == '1' && target[i] != '1' {
			return false
		}
	}
	return true
}

// SmallKeyGen produces a fresh small-universe keypair fixed to the given
// ordered universe.
func SmallKeyGen(universe []string) (*keys.SmallSigningKey, *keys.SmallVerificationKey, error) {
	if len(universe) == 0 {
		return nil, nil, newErr(InvalidArgument, "universe must be non-empty", nil)
	}
	if m, dup := duplicateMembers(universe); dup {
		return nil, nil, newErr(InvalidArgument, fmt.Sprintf("duplicate universe member %q", m), nil)
	}
	accSK, accPK, err := rsaacc.KeyGen()
	if err != nil {
		return nil, nil, newErr(CryptoBackendUnavailable, "generating accumulator key", err)
	}
	ecSK, ecPK, err := ecsig.GenerateKey()
	if err != nil {
		return nil, nil, newErr(CryptoBackendUnavailable, "generating EC key", err)
	}
	return &keys.SmallSigningKey{Acc: accSK, EC: ecSK, Universe: universe},
		&keys.SmallVerificationKey{Acc: accPK, EC: ecPK, Universe: universe}, nil
}

// SmallSign accumulates the policy's listed characteristic strings {c_i}
// with the RSA accumulator and produces a witness per listed string
// (spec.md §4.5.2). set must be a subset of sk's universe, and set's own
// characteristic vector (relative to that universe) must appear among the
// listed strings.
func SmallSign(sk *keys.SmallSigningKey, set []string, policyStr string) (*SmallSignature, error) {
	if len(set) == 0 {
		return nil, newErr(InvalidArgument, "set must be non-empty", nil)
	}
	if m, dup := duplicateMembers(set); dup {
		return nil, newErr(InvalidArgument, fmt.Sprintf("duplicate member %q", m), nil)
	}
	if !isSubset(sk.Universe, set) {
		return nil, newErr(InvalidArgument, "set is not a subset of the universe", nil)
	}
	listed, err := parsePolicyList(policyStr, len(sk.Universe))
	if err != nil {
		return nil, newErr(InvalidArgument, "invalid policy", err)
	}
	c := characteristic(sk.Universe, set)
	if !containsString(listed, c) {
		return nil, newErr(PolicyUnsatisfied, "set's characteristic vector is not among the listed policy strings", nil)
	}

	acc, aux, err := rsaacc.Eval(sk.Acc.Public(), listed)
	if err != nil {
		return nil, newErr(CryptoBackendUnavailable, "evaluating accumulator", err)
	}
	auxByMember := make(map[string]rsaacc.MemberProof, len(aux))
	for _, m := range aux {
		auxByMember[m.Member] = m
	}

	entries := make([]der.SmallEntryFields, 0, len(listed))
	for _, ci := range listed {
		w, err := rsaacc.Witness(sk.Acc.Public(), auxByMember[ci], aux)
		if err != nil {
			return nil, newErr(CryptoBackendUnavailable, fmt.Sprintf("witness for %q", ci), err)
		}
		entries = append(entries, der.SmallEntryFields{CharSeq: ci, Witness: w})
	}

	ecSig := ecsig.Sign(sk.EC, acc.Bytes())
	return &SmallSignature{Acc: acc, Policy: policyStr, Entries: entries, ECDSA: ecSig}, nil
}

// SmallRedact drops every witness entry whose characteristic string is not
// a bitwise subset of subset's own characteristic vector, and replaces the
// policy with one naming only that vector (spec.md §4.5.2). Fails with
// PolicyUnsatisfied when subset's characteristic vector was not among the
// signature's listed strings to begin with.
func SmallRedact(sig *SmallSignature, universe []string, subset []string) (*SmallSignature, error) {
	if m, dup := duplicateMembers(subset); dup {
		return nil, newErr(InvalidArgument, fmt.Sprintf("duplicate member %q", m), nil)
	}
	if !isSubset(universe, subset) {
		return nil, newErr(InvalidArgument, "subset is not contained in the universe", nil)
	}
	target := characteristic(universe, subset)

	found := false
	for _, e := range sig.Entries {
		if e.CharSeq == target {
			found = true
			break
		}
	}
	if !found {
		return nil, newErr(PolicyUnsatisfied, "subset's characteristic vector is not among the signature's listed strings", nil)
	}

	out := &SmallSignature{Acc: sig.Acc, Policy: target, ECDSA: sig.ECDSA}
	for _, e := range sig.Entries {
		if bitsSubset(e.CharSeq, target) {
			out.Entries = append(out.Entries, e)
		}
	}
	return out, nil
}

// SmallVerify checks that set's characteristic vector (relative to vk's
// universe) is among sig's listed strings and carries a valid accumulator
// witness, then verifies the ECDSA signature over the accumulator value
// alone (spec.md §4.5.2, I3).
func SmallVerify(vk *keys.SmallVerificationKey, set []string, sig *SmallSignature) (bool, error) {
	if len(set) == 0 {
		return false, newErr(InvalidArgument, "set must be non-empty", nil)
	}
	if !isSubset(vk.Universe, set) {
		return false, nil
	}
	c := characteristic(vk.Universe, set)

	var witness []byte
	found := false
	for _, e := range sig.Entries {
		if e.CharSeq == c {
			witness = e.Witness
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	prime, _ := rsaacc.HashToPrime(c)
	if !rsaacc.Verify(vk.Acc, sig.Acc, prime, witness) {
		return false, nil
	}
	if !ecsig.Verify(vk.EC, sig.Acc.Bytes(), sig.ECDSA) {
		return false, nil
	}
	return true, nil
}

// MarshalSmallSignature encodes sig per spec.md §6.
func MarshalSmallSignature(sig *SmallSignature) ([]byte, error) {
	rec := &der.SmallSignature{Acc: sig.Acc.Bytes(), Policy: sig.Policy, ECDSA: sig.ECDSA}
	rec.SetSmallEntries(sig.Entries)
	data, err := der.Marshal(rec)
	if err != nil {
		return nil, newErr(IOFailure, "encoding small signature", err)
	}
	return data, nil
}

// UnmarshalSmallSignature decodes the encoding produced by
// MarshalSmallSignature.
func UnmarshalSmallSignature(data []byte) (*SmallSignature, error) {
	var rec der.SmallSignature
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, newErr(VerificationFailure, "decoding small signature", err)
	}
	return &SmallSignature{
		Acc:     new(big.Int).SetBytes(rec.Acc),
		Policy:  rec.Policy,
		Entries: rec.SmallEntries(),
		ECDSA:   rec.ECDSA,
	}, nil
}

package rss

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/luxfi/redactset/pkg/accum/rsaacc"
	"github.com/luxfi/redactset/pkg/bigfield"
	"github.com/luxfi/redactset/pkg/der"
	"github.com/luxfi/redactset/pkg/ecsig"
	"github.com/luxfi/redactset/pkg/keys"
	"github.com/luxfi/redactset/pkg/policy"
	"github.com/luxfi/redactset/pkg/shamir"
)

// policyAbsentMarker is the X value of a large-universe entry that carries
// no Shamir share. An entry with a live share has X set to its 1-based
// position among the policy's leaves, in
// left-to-right depth-first order (the same order policy.Leaves produces),
// so a verifier can zip sig.Entries back onto a freshly reparsed policy
// tree. X == 0 marks a member that is part of the signed set but not named
// anywhere in the policy: it still carries an accumulator witness, just no
// share.
const policyAbsentMarker = 0

// LargeSignature is the large-universe scheme's signature object (spec.md
// §4.5.2): an RSA accumulator value, the governing policy string, one entry
// per (policy leaf or extra set member) carrying an accumulator witness and,
// for policy leaves, a Shamir share, and an ECDSA signature binding the
// accumulator and the policy's root secret to the signer.
type LargeSignature struct {
	Acc     *big.Int
	Policy  string
	Entries []der.LargeEntryFields
	ECDSA   []byte
}

// LargeKeyGen produces a fresh large-universe keypair.
func LargeKeyGen() (*keys.LargeSigningKey, *keys.LargeVerificationKey, error) {
	accSK, accPK, err := rsaacc.KeyGen()
	if err != nil {
		return nil, nil, newErr(CryptoBackendUnavailable, "generating accumulator key", err)
	}
	ecSK, ecPK, err := ecsig.GenerateKey()
	if err != nil {
		return nil, nil, newErr(CryptoBackendUnavailable, "generating EC key", err)
	}
	return &keys.LargeSigningKey{Acc: accSK, EC: ecSK},
		&keys.LargeVerificationKey{Acc: accPK, EC: ecPK}, nil
}

// LargeSign accumulates set, compiles policyStr into a tree, secret-shares a
// fresh random root secret across the tree's leaves, and binds everything
// together with an ECDSA signature over acc || secret (spec.md §4.5.2).
// Every identifier named in the policy must be a member of set.
func LargeSign(sk *keys.LargeSigningKey, set []string, policyStr string) (*LargeSignature, error) {
	if len(set) == 0 {
		return nil, newErr(InvalidArgument, "set must be non-empty", nil)
	}
	if m, dup := duplicateMembers(set); dup {
		return nil, newErr(InvalidArgument, fmt.Sprintf("duplicate member %q", m), nil)
	}
	if err := policy.Validate(policyStr); err != nil {
		return nil, newErr(InvalidArgument, "invalid policy", err)
	}
	tree, err := policy.Parse(policyStr)
	if err != nil {
		return nil, newErr(InvalidArgument, "parsing policy", err)
	}
	ids := policy.Identifiers(tree)
	if !isSubset(set, ids) {
		return nil, newErr(InvalidArgument, "policy refers to members outside the signed set", nil)
	}

	acc, aux, err := rsaacc.Eval(sk.Acc.Public(), set)
	if err != nil {
		return nil, newErr(CryptoBackendUnavailable, "evaluating accumulator", err)
	}
	auxByMember := make(map[string]rsaacc.MemberProof, len(aux))
	for _, m := range aux {
		auxByMember[m.Member] = m
	}

	secret, err := shamir.RandomSecret()
	if err != nil {
		return nil, newErr(CryptoBackendUnavailable, "sampling policy secret", err)
	}
	if err := policy.Distribute(tree, secret); err != nil {
		return nil, newErr(CryptoBackendUnavailable, "distributing policy shares", err)
	}

	var entries []der.LargeEntryFields
	policyMembers := asSet(ids)
	leaves := policy.Leaves(tree)
	for i, leaf := range leaves {
		w, err := rsaacc.Witness(sk.Acc.Public(), auxByMember[leaf.Name], aux)
		if err != nil {
			return nil, newErr(CryptoBackendUnavailable, fmt.Sprintf("witness for %q", leaf.Name), err)
		}
		entries = append(entries, der.LargeEntryFields{
			Member:  leaf.Name,
			X:       big.NewInt(int64(i + 1)),
			Y:       shamir.BigFromNat(leaf.Share),
			Witness: w,
		})
	}
	for _, m := range set {
		if policyMembers[m] {
			continue
		}
		w, err := rsaacc.Witness(sk.Acc.Public(), auxByMember[m], aux)
		if err != nil {
			return nil, newErr(CryptoBackendUnavailable, fmt.Sprintf("witness for %q", m), err)
		}
		entries = append(entries, der.LargeEntryFields{Member: m, X: nil, Y: nil, Witness: w})
	}

	ecSig := ecsig.Sign(sk.EC, bindBytes(acc, shamir.BigFromNat(secret)))
	return &LargeSignature{Acc: acc, Policy: policyStr, Entries: entries, ECDSA: ecSig}, nil
}

// LargeRedact drops every entry not naming a member of subset and reports
// PolicyUnsatisfied if subset does not satisfy the governing policy. No
// secret key is required: redaction is a pure filter plus a public policy
// evaluation.
func LargeRedact(sig *LargeSignature, subset []string) (*LargeSignature, error) {
	if m, dup := duplicateMembers(subset); dup {
		return nil, newErr(InvalidArgument, fmt.Sprintf("duplicate member %q", m), nil)
	}
	tree, err := policy.Parse(sig.Policy)
	if err != nil {
		return nil, newErr(VerificationFailure, "parsing embedded policy", err)
	}
	present := asSet(subset)
	if !policy.Evaluate(tree, present) {
		return nil, newErr(PolicyUnsatisfied, "subset does not satisfy the policy", nil)
	}

	out := &LargeSignature{Acc: sig.Acc, Policy: sig.Policy, ECDSA: sig.ECDSA}
	for _, e := range sig.Entries {
		if present[e.Member] {
			out.Entries = append(out.Entries, e)
		}
	}
	return out, nil
}

// LargeVerify checks that sig's signed set satisfies its policy (via the
// Shamir-reconstructed root secret), that every member of set carries a
// valid accumulator witness, and that the ECDSA signature over acc and the
// reconstructed secret is valid under vk (spec.md §4.5.2, §4.6). A
// structurally sound but cryptographically failing signature returns
// (false, nil); only malformed input returns an error.
func LargeVerify(vk *keys.LargeVerificationKey, set []string, sig *LargeSignature) (bool, error) {
	if len(set) == 0 {
		return false, newErr(InvalidArgument, "set must be non-empty", nil)
	}
	tree, err := policy.Parse(sig.Policy)
	if err != nil {
		return false, newErr(VerificationFailure, "parsing embedded policy", err)
	}

	leaves := policy.Leaves(tree)
	leafEntries := make(map[int64]der.LargeEntryFields, len(leaves))
	byMember := make(map[string]der.LargeEntryFields, len(sig.Entries))
	for _, e := range sig.Entries {
		byMember[e.Member] = e
		if e.X != nil && e.X.Sign() > policyAbsentMarker {
			if !e.X.IsInt64() || e.X.Int64() > int64(len(leaves)) {
				return false, nil
			}
			leafEntries[e.X.Int64()] = e
		}
	}

	present := asSet(set)
	available := make(map[*policy.Node]*saferith.Nat, len(leaves))
	for i, leaf := range leaves {
		e, ok := leafEntries[int64(i+1)]
		if ok && present[leaf.Name] {
			available[leaf] = shamir.NatFromBig(e.Y)
		}
	}
	secretNat, ok := policy.Reconstruct(tree, available)
	if !ok {
		return false, nil
	}
	secret := shamir.BigFromNat(secretNat)

	for _, m := range set {
		e, ok := byMember[m]
		if !ok {
			return false, nil
		}
		prime, _ := rsaacc.HashToPrime(m)
		if !rsaacc.Verify(vk.Acc, sig.Acc, prime, e.Witness) {
			return false, nil
		}
	}

	if !ecsig.Verify(vk.EC, bindBytes(sig.Acc, secret), sig.ECDSA) {
		return false, nil
	}
	return true, nil
}

// bindBytes is the byte string the external ECDSA signature covers: the
// accumulator value followed by the reconstructed policy secret, both in
// minimal two's-complement big-endian form (bigfield.SignedBytes).
func bindBytes(acc, secret *big.Int) []byte {
	return append(bigfield.SignedBytes(acc), bigfield.SignedBytes(secret)...)
}

// MarshalLargeSignature encodes sig per spec.md §6.
func MarshalLargeSignature(sig *LargeSignature) ([]byte, error) {
	rec := &der.LargeSignature{Acc: sig.Acc, Policy: sig.Policy, ECDSA: sig.ECDSA}
	rec.SetLargeEntries(sig.Entries)
	data, err := der.Marshal(rec)
	if err != nil {
		return nil, newErr(IOFailure, "encoding large signature", err)
	}
	return data, nil
}

// UnmarshalLargeSignature decodes the encoding produced by
// MarshalLargeSignature.
func UnmarshalLargeSignature(data []byte) (*LargeSignature, error) {
	var rec der.LargeSignature
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, newErr(VerificationFailure, "decoding large signature", err)
	}
	return &LargeSignature{Acc: rec.Acc, Policy: rec.Policy, Entries: rec.LargeEntries(), ECDSA: rec.ECDSA}, nil
}

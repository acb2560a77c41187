// Package der implements the exact DER encodings the wire formats in
// spec.md §6 require: the accumulator key SEQUENCEs, the signing/
// verification key SEQUENCEs, and the three signature-object SEQUENCEs.
//
// The EC half of the signing/verification key SEQUENCEs is carried as the
// raw bytes pkg/ecsig actually produces — a 32-byte big-endian scalar for
// the signing key, a 33-byte SEC1-compressed point for the verification
// key — not a PKCS8 PrivateKeyInfo / X.509 SubjectPublicKeyInfo envelope;
// secp256k1 has no registered ASN.1 OID in the standard library to build
// one from, and the internal round-trip does not need one.
//
// The reference pack carries no third-party ASN.1/DER library anywhere
// (see DESIGN.md), so this package is built directly on the standard
// library's encoding/asn1, which already implements the exact SEQUENCE,
// INTEGER, OCTET STRING and UTF8String primitives spec.md names.
package der

import (
	"encoding/asn1"
	"fmt"
	"math/big"
)

// PairingAccKeyPub is SEQUENCE(OCTET STRING g, OCTET STRING pk).
type PairingAccKeyPub struct {
	G  []byte
	PK []byte
}

// PairingAccKeyPriv is SEQUENCE(OCTET STRING g, OCTET STRING sk).
type PairingAccKeyPriv struct {
	G  []byte
	SK []byte
}

// RSAAccKeyPub is SEQUENCE(INTEGER g, INTEGER n).
type RSAAccKeyPub struct {
	G *big.Int
	N *big.Int
}

// RSAAccKeyPriv is SEQUENCE(INTEGER g, INTEGER p, INTEGER q).
type RSAAccKeyPriv struct {
	G *big.Int
	P *big.Int
	Q *big.Int
}

// SigningKey is SEQUENCE(accKey, ecPrivateKey).
type SigningKey struct {
	AccKey asn1.RawValue
	ECKey  []byte // ecsig.MarshalPrivateKey's 32-byte big-endian scalar, not PKCS8
}

// VerificationKey is SEQUENCE(accKey, ecPublicKey).
type VerificationKey struct {
	AccKey asn1.RawValue
	ECKey  []byte // ecsig.MarshalPublicKey's 33-byte SEC1-compressed point, not X.509
}

// witnessEntryDerler is SEQUENCE(UTF8String member, OCTET STRING witness).
type witnessEntryDerler struct {
	Member  string `asn1:"utf8"`
	Witness []byte
}

// DerlerSignature is SEQUENCE(OCTET STRING acc, OCTET STRING ecdsa,
// SEQUENCE OF SEQUENCE(UTF8String member, OCTET STRING witness)).
type DerlerSignature struct {
	Acc       []byte
	ECDSA     []byte
	Witnesses []witnessEntryDerler
}

// largeEntry is SEQUENCE(UTF8String member, INTEGER x, INTEGER y, INTEGER witness).
type largeEntry struct {
	Member  string `asn1:"utf8"`
	X       *big.Int
	Y       *big.Int
	Witness *big.Int
}

// LargeSignature is SEQUENCE(INTEGER acc, UTF8String policy, OCTET STRING
// ecdsa, SEQUENCE OF SEQUENCE(UTF8String member, INTEGER x, INTEGER y,
// INTEGER witness)) where (x,y) = (0,0) marks a member absent from the
// policy.
type LargeSignature struct {
	Acc     *big.Int
	Policy  string `asn1:"utf8"`
	ECDSA   []byte
	Entries []largeEntry
}

// smallEntry is SEQUENCE(UTF8String charSeq, OCTET STRING witness).
type smallEntry struct {
	CharSeq string `asn1:"utf8"`
	Witness []byte
}

// SmallSignature is SEQUENCE(OCTET STRING acc, UTF8String policy, OCTET
// STRING ecdsa, SEQUENCE OF SEQUENCE(UTF8String charSeq, OCTET STRING
// witness)).
type SmallSignature struct {
	Acc     []byte
	Policy  string `asn1:"utf8"`
	ECDSA   []byte
	Entries []smallEntry
}

// Marshal DER-encodes any of the record types above.
func Marshal(v any) ([]byte, error) {
	return asn1.Marshal(v)
}

// Unmarshal DER-decodes into v, rejecting trailing bytes.
func Unmarshal(data []byte, v any) error {
	rest, err := asn1.Unmarshal(data, v)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("der: %d trailing byte(s) after decoding %T", len(rest), v)
	}
	return nil
}

// NewLargeEntry builds one large-universe witness/share record. x and y are
// nil for a member absent from the policy, which is encoded as (0, 0) per
// spec.md §6.
func NewLargeEntry(member string, x, y *big.Int, witness *big.Int) largeEntry {
	if x == nil {
		x = big.NewInt(0)
	}
	if y == nil {
		y = big.NewInt(0)
	}
	return largeEntry{Member: member, X: x, Y: y, Witness: witness}
}

// LargeEntryFields exposes the fields of a decoded largeEntry without
// promoting the unexported type across the package boundary.
type LargeEntryFields struct {
	Member  string
	X, Y    *big.Int
	Witness *big.Int
}

// Fields returns e's data as a LargeEntryFields value.
func (e largeEntry) Fields() LargeEntryFields {
	return LargeEntryFields{Member: e.Member, X: e.X, Y: e.Y, Witness: e.Witness}
}

// LargeEntries converts a LargeSignature's raw entries to LargeEntryFields.
func (s *LargeSignature) LargeEntries() []LargeEntryFields {
	out := make([]LargeEntryFields, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Fields()
	}
	return out
}

// SetLargeEntries replaces s's entries from a slice of LargeEntryFields.
func (s *LargeSignature) SetLargeEntries(entries []LargeEntryFields) {
	s.Entries = make([]largeEntry, len(entries))
	for i, e := range entries {
		s.Entries[i] = NewLargeEntry(e.Member, e.X, e.Y, e.Witness)
	}
}

// NewDerlerEntry builds one accumulator-only witness record.
func NewDerlerEntry(member string, witness []byte) witnessEntryDerler {
	return witnessEntryDerler{Member: member, Witness: witness}
}

// DerlerEntryFields mirrors witnessEntryDerler across the package boundary.
type DerlerEntryFields struct {
	Member  string
	Witness []byte
}

func (e witnessEntryDerler) Fields() DerlerEntryFields {
	return DerlerEntryFields{Member: e.Member, Witness: e.Witness}
}

// DerlerEntries converts s's raw entries to DerlerEntryFields.
func (s *DerlerSignature) DerlerEntries() []DerlerEntryFields {
	out := make([]DerlerEntryFields, len(s.Witnesses))
	for i, e := range s.Witnesses {
		out[i] = e.Fields()
	}
	return out
}

// SetDerlerEntries replaces s's witness entries.
func (s *DerlerSignature) SetDerlerEntries(entries []DerlerEntryFields) {
	s.Witnesses = make([]witnessEntryDerler, len(entries))
	for i, e := range entries {
		s.Witnesses[i] = NewDerlerEntry(e.Member, e.Witness)
	}
}

// NewSmallEntry builds one small-universe witness record.
func NewSmallEntry(charSeq string, witness []byte) smallEntry {
	return smallEntry{CharSeq: charSeq, Witness: witness}
}

// SmallEntryFields mirrors smallEntry across the package boundary.
type SmallEntryFields struct {
	CharSeq string
	Witness []byte
}

func (e smallEntry) Fields() SmallEntryFields {
	return SmallEntryFields{CharSeq: e.CharSeq, Witness: e.Witness}
}

// SmallEntries converts s's raw entries to SmallEntryFields.
func (s *SmallSignature) SmallEntries() []SmallEntryFields {
	out := make([]SmallEntryFields, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Fields()
	}
	return out
}

// SetSmallEntries replaces s's witness entries.
func (s *SmallSignature) SetSmallEntries(entries []SmallEntryFields) {
	s.Entries = make([]smallEntry, len(entries))
	for i, e := range entries {
		s.Entries[i] = NewSmallEntry(e.CharSeq, e.Witness)
	}
}

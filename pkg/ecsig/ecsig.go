// Package ecsig wraps the SHA-256/secp256k1 ECDSA signature primitive that
// spec.md §4.1 treats as an external trusted collaborator: every redactable
// signature object is bound to an accumulator value by one ordinary ECDSA
// signature over that value (and, for the schemes with a reconstructable
// secret, the reconstructed secret's bytes too).
//
// Grounded on the teacher's own secp256k1 dependency (cmd/threshold-cli's
// --curve flag defaults to "secp256k1"), here narrowed to the single
// external-signature role spec.md needs rather than a pluggable curve menu.
package ecsig

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PrivateKey and PublicKey alias the decred secp256k1 types directly; this
// package adds no wrapper state of its own.
type (
	PrivateKey = secp256k1.PrivateKey
	PublicKey  = secp256k1.PublicKey
)

// GenerateKey samples a fresh secp256k1 keypair for the external signature
// primitive.
func GenerateKey() (*PrivateKey, *PublicKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("ecsig: generating key: %w", err)
	}
	return priv, priv.PubKey(), nil
}

// Sign computes a deterministic (RFC6979) ECDSA signature over
// SHA-256(message), returning its DER encoding.
func Sign(priv *PrivateKey, message []byte) []byte {
	digest := sha256.Sum256(message)
	sig := ecdsa.Sign(priv, digest[:])
	return sig.Serialize()
}

// Verify checks a DER-encoded ECDSA signature over SHA-256(message) against
// pub. Any malformed signature or mismatched digest yields false, never an
// error: per spec.md §7, cryptographic non-validity is not a fault.
func Verify(pub *PublicKey, message []byte, sigDER []byte) bool {
	sig, err := ecdsa.ParseDERSignature(sigDER)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	return sig.Verify(digest[:], pub)
}

// MarshalPublicKey returns the 33-byte SEC1-compressed encoding of pub.
func MarshalPublicKey(pub *PublicKey) []byte {
	return pub.SerializeCompressed()
}

// UnmarshalPublicKey parses a compressed or uncompressed SEC1 public key.
func UnmarshalPublicKey(b []byte) (*PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("ecsig: parsing public key: %w", err)
	}
	return pub, nil
}

// MarshalPrivateKey returns the 32-byte big-endian scalar encoding of priv.
func MarshalPrivateKey(priv *PrivateKey) []byte {
	return priv.Serialize()
}

// UnmarshalPrivateKey parses a 32-byte big-endian scalar into a private key.
func UnmarshalPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("ecsig: private key must be 32 bytes, got %d", len(b))
	}
	priv := secp256k1.PrivKeyFromBytes(b)
	return priv, nil
}

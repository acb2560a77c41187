// Package keys assembles the per-scheme signing/verification key material
// spec.md §4.5 and §6 describe, binding each scheme's accumulator keypair to
// the shared external ECDSA keypair and (de)serializing the result through
// pkg/der. It also implements the base64 key-file framing the CLI reads and
// writes (spec.md §6): one base64 line holding the DER encoding, plus for
// small-universe keys a second line naming the universe file that fixes the
// characteristic-vector ordering.
package keys

import (
	"encoding/asn1"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/luxfi/redactset/pkg/accum/pairingacc"
	"github.com/luxfi/redactset/pkg/accum/rsaacc"
	"github.com/luxfi/redactset/pkg/der"
	"github.com/luxfi/redactset/pkg/ecsig"
)

// Scheme names which of the three redactable set signature variants a key
// belongs to.
type Scheme string

const (
	SchemeDerler Scheme = "derler"
	SchemeLarge  Scheme = "large"
	SchemeSmall  Scheme = "small"
)

// DerlerSigningKey pairs the pairing accumulator trapdoor with the external
// ECDSA signing key, for the accumulator-only scheme.
type DerlerSigningKey struct {
	Acc *pairingacc.PrivateKey
	EC  *ecsig.PrivateKey
}

// DerlerVerificationKey is the public counterpart.
type DerlerVerificationKey struct {
	Acc *pairingacc.PublicKey
	EC  *ecsig.PublicKey
}

// LargeSigningKey pairs the RSA accumulator trapdoor with the external
// ECDSA signing key, for the large-universe policy scheme.
type LargeSigningKey struct {
	Acc *rsaacc.PrivateKey
	EC  *ecsig.PrivateKey
}

// LargeVerificationKey is the public counterpart.
type LargeVerificationKey struct {
	Acc *rsaacc.PublicKey
	EC  *ecsig.PublicKey
}

// SmallSigningKey additionally fixes the ordered Universe that gives
// meaning to the small-universe scheme's characteristic-vector encoding.
type SmallSigningKey struct {
	Acc      *rsaacc.PrivateKey
	EC       *ecsig.PrivateKey
	Universe []string
}

// SmallVerificationKey is the public counterpart.
type SmallVerificationKey struct {
	Acc      *rsaacc.PublicKey
	EC       *ecsig.PublicKey
	Universe []string
}

func wrapRaw(fullDER []byte) (asn1.RawValue, error) {
	var raw asn1.RawValue
	if _, err := asn1.Unmarshal(fullDER, &raw); err != nil {
		return asn1.RawValue{}, fmt.Errorf("keys: wrapping nested DER: %w", err)
	}
	return raw, nil
}

// MarshalDerlerSigningKey encodes a DerlerSigningKey per spec.md §6's
// SigningKey layout.
func MarshalDerlerSigningKey(k *DerlerSigningKey) ([]byte, error) {
	accDER, err := pairingacc.MarshalPrivateKey(k.Acc)
	if err != nil {
		return nil, fmt.Errorf("keys: marshaling derler accumulator key: %w", err)
	}
	raw, err := wrapRaw(accDER)
	if err != nil {
		return nil, err
	}
	return der.Marshal(&der.SigningKey{AccKey: raw, ECKey: ecsig.MarshalPrivateKey(k.EC)})
}

// UnmarshalDerlerSigningKey decodes the encoding produced by
// MarshalDerlerSigningKey.
func UnmarshalDerlerSigningKey(data []byte) (*DerlerSigningKey, error) {
	var rec der.SigningKey
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keys: decoding derler signing key: %w", err)
	}
	acc, err := pairingacc.UnmarshalPrivateKey(rec.AccKey.FullBytes)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding derler accumulator key: %w", err)
	}
	ec, err := ecsig.UnmarshalPrivateKey(rec.ECKey)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding derler EC key: %w", err)
	}
	return &DerlerSigningKey{Acc: acc, EC: ec}, nil
}

// MarshalDerlerVerificationKey encodes a DerlerVerificationKey.
func MarshalDerlerVerificationKey(k *DerlerVerificationKey) ([]byte, error) {
	accDER, err := pairingacc.MarshalPublicKey(k.Acc)
	if err != nil {
		return nil, fmt.Errorf("keys: marshaling derler accumulator public key: %w", err)
	}
	raw, err := wrapRaw(accDER)
	if err != nil {
		return nil, err
	}
	return der.Marshal(&der.VerificationKey{AccKey: raw, ECKey: ecsig.MarshalPublicKey(k.EC)})
}

// UnmarshalDerlerVerificationKey decodes the encoding produced by
// MarshalDerlerVerificationKey.
func UnmarshalDerlerVerificationKey(data []byte) (*DerlerVerificationKey, error) {
	var rec der.VerificationKey
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keys: decoding derler verification key: %w", err)
	}
	acc, err := pairingacc.UnmarshalPublicKey(rec.AccKey.FullBytes)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding derler accumulator public key: %w", err)
	}
	ec, err := ecsig.UnmarshalPublicKey(rec.ECKey)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding derler EC public key: %w", err)
	}
	return &DerlerVerificationKey{Acc: acc, EC: ec}, nil
}

// MarshalLargeSigningKey encodes a LargeSigningKey.
func MarshalLargeSigningKey(k *LargeSigningKey) ([]byte, error) {
	accDER, err := rsaacc.MarshalPrivateKey(k.Acc)
	if err != nil {
		return nil, fmt.Errorf("keys: marshaling large accumulator key: %w", err)
	}
	raw, err := wrapRaw(accDER)
	if err != nil {
		return nil, err
	}
	return der.Marshal(&der.SigningKey{AccKey: raw, ECKey: ecsig.MarshalPrivateKey(k.EC)})
}

// UnmarshalLargeSigningKey decodes the encoding produced by
// MarshalLargeSigningKey.
func UnmarshalLargeSigningKey(data []byte) (*LargeSigningKey, error) {
	var rec der.SigningKey
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keys: decoding large signing key: %w", err)
	}
	acc, err := rsaacc.UnmarshalPrivateKey(rec.AccKey.FullBytes)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding large accumulator key: %w", err)
	}
	ec, err := ecsig.UnmarshalPrivateKey(rec.ECKey)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding large EC key: %w", err)
	}
	return &LargeSigningKey{Acc: acc, EC: ec}, nil
}

// MarshalLargeVerificationKey encodes a LargeVerificationKey.
func MarshalLargeVerificationKey(k *LargeVerificationKey) ([]byte, error) {
	accDER, err := rsaacc.MarshalPublicKey(k.Acc)
	if err != nil {
		return nil, fmt.Errorf("keys: marshaling large accumulator public key: %w", err)
	}
	raw, err := wrapRaw(accDER)
	if err != nil {
		return nil, err
	}
	return der.Marshal(&der.VerificationKey{AccKey: raw, ECKey: ecsig.MarshalPublicKey(k.EC)})
}

// UnmarshalLargeVerificationKey decodes the encoding produced by
// MarshalLargeVerificationKey.
func UnmarshalLargeVerificationKey(data []byte) (*LargeVerificationKey, error) {
	var rec der.VerificationKey
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keys: decoding large verification key: %w", err)
	}
	acc, err := rsaacc.UnmarshalPublicKey(rec.AccKey.FullBytes)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding large accumulator public key: %w", err)
	}
	ec, err := ecsig.UnmarshalPublicKey(rec.ECKey)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding large EC public key: %w", err)
	}
	return &LargeVerificationKey{Acc: acc, EC: ec}, nil
}

// MarshalSmallSigningKey encodes a SmallSigningKey. The Universe is not part
// of the DER payload: it is carried alongside in the key-file's second line
// (see EncodeKeyFile), matching spec.md §6's on-disk framing.
func MarshalSmallSigningKey(k *SmallSigningKey) ([]byte, error) {
	accDER, err := rsaacc.MarshalPrivateKey(k.Acc)
	if err != nil {
		return nil, fmt.Errorf("keys: marshaling small accumulator key: %w", err)
	}
	raw, err := wrapRaw(accDER)
	if err != nil {
		return nil, err
	}
	return der.Marshal(&der.SigningKey{AccKey: raw, ECKey: ecsig.MarshalPrivateKey(k.EC)})
}

// UnmarshalSmallSigningKey decodes the DER payload produced by
// MarshalSmallSigningKey; callers must separately attach Universe.
func UnmarshalSmallSigningKey(data []byte) (*SmallSigningKey, error) {
	var rec der.SigningKey
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keys: decoding small signing key: %w", err)
	}
	acc, err := rsaacc.UnmarshalPrivateKey(rec.AccKey.FullBytes)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding small accumulator key: %w", err)
	}
	ec, err := ecsig.UnmarshalPrivateKey(rec.ECKey)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding small EC key: %w", err)
	}
	return &SmallSigningKey{Acc: acc, EC: ec}, nil
}

// MarshalSmallVerificationKey encodes a SmallVerificationKey's DER payload.
func MarshalSmallVerificationKey(k *SmallVerificationKey) ([]byte, error) {
	accDER, err := rsaacc.MarshalPublicKey(k.Acc)
	if err != nil {
		return nil, fmt.Errorf("keys: marshaling small accumulator public key: %w", err)
	}
	raw, err := wrapRaw(accDER)
	if err != nil {
		return nil, err
	}
	return der.Marshal(&der.VerificationKey{AccKey: raw, ECKey: ecsig.MarshalPublicKey(k.EC)})
}

// UnmarshalSmallVerificationKey decodes the DER payload produced by
// MarshalSmallVerificationKey; callers must separately attach Universe.
func UnmarshalSmallVerificationKey(data []byte) (*SmallVerificationKey, error) {
	var rec der.VerificationKey
	if err := der.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keys: decoding small verification key: %w", err)
	}
	acc, err := rsaacc.UnmarshalPublicKey(rec.AccKey.FullBytes)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding small accumulator public key: %w", err)
	}
	ec, err := ecsig.UnmarshalPublicKey(rec.ECKey)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding small EC public key: %w", err)
	}
	return &SmallVerificationKey{Acc: acc, EC: ec}, nil
}

// EncodeKeyFile renders a DER payload as the on-disk key-file text:
// base64(der), and, when universePath is non-empty, a second line naming
// the universe file the small-universe scheme needs at sign/redact/verify
// time.
func EncodeKeyFile(derBytes []byte, universePath string) string {
	var sb strings.Builder
	sb.WriteString(base64.StdEncoding.EncodeToString(derBytes))
	if universePath != "" {
		sb.WriteByte('\n')
		sb.WriteString(universePath)
	}
	return sb.String()
}

// DecodeKeyFile parses the on-disk key-file text back into its DER payload
// and, if present, the universe file path.
func DecodeKeyFile(content string) (derBytes []byte, universePath string, err error) {
	lines := strings.SplitN(strings.TrimRight(content, "\n"), "\n", 2)
	derBytes, err = base64.StdEncoding.DecodeString(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, "", fmt.Errorf("keys: decoding base64 key file: %w", err)
	}
	if len(lines) == 2 {
		universePath = strings.TrimSpace(lines[1])
	}
	return derBytes, universePath, nil
}

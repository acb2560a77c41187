package keys

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// Signing keys are the one piece of key material spec.md's external
// ECDSA/accumulator trapdoors actually need protecting at rest; everything
// else in this module is either public or (for the in-memory scheme
// structs) never written to disk unencrypted. EncryptSigningKeyDER wraps a
// signing key's DER payload in a passphrase-sealed envelope using scrypt
// for key derivation and NaCl secretbox for authenticated encryption,
// matching the "protect a blob with a passphrase" idiom golang.org/x/crypto
// exists for.
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

var envelopeMagic = [4]byte{'R', 'S', 'S', '1'}

// EncryptSigningKeyDER seals der under passphrase. The output layout is
// magic(4) || salt(16) || nonce(24) || secretbox-sealed(der).
func EncryptSigningKeyDER(der []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keys: generating salt: %w", err)
	}
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("keys: deriving encryption key: %w", err)
	}
	var secretKey [32]byte
	copy(secretKey[:], key)

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("keys: generating nonce: %w", err)
	}

	out := append([]byte{}, envelopeMagic[:]...)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, der, &nonce, &secretKey)
	return out, nil
}

// DecryptSigningKeyDER reverses EncryptSigningKeyDER.
func DecryptSigningKeyDER(envelope []byte, passphrase string) ([]byte, error) {
	if len(envelope) < 4+16+24 || string(envelope[:4]) != string(envelopeMagic[:]) {
		return nil, fmt.Errorf("keys: not a passphrase-sealed key envelope")
	}
	salt := envelope[4:20]
	var nonce [24]byte
	copy(nonce[:], envelope[20:44])
	sealed := envelope[44:]

	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("keys: deriving decryption key: %w", err)
	}
	var secretKey [32]byte
	copy(secretKey[:], key)

	der, ok := secretbox.Open(nil, sealed, &nonce, &secretKey)
	if !ok {
		return nil, fmt.Errorf("keys: wrong passphrase or corrupted key envelope")
	}
	return der, nil
}

// IsEncryptedEnvelope reports whether data looks like an
// EncryptSigningKeyDER envelope rather than a bare DER payload.
func IsEncryptedEnvelope(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == string(envelopeMagic[:])
}

package keys_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/redactset/pkg/keys"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	der := []byte("pretend this is a DER-encoded signing key")
	sealed, err := keys.EncryptSigningKeyDER(der, "correct horse battery staple")
	require.NoError(t, err)
	require.True(t, keys.IsEncryptedEnvelope(sealed))
	require.False(t, keys.IsEncryptedEnvelope(der))

	opened, err := keys.DecryptSigningKeyDER(sealed, "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, der, opened)
}

func TestEnvelopeWrongPassphraseFails(t *testing.T) {
	der := []byte("another signing key payload")
	sealed, err := keys.EncryptSigningKeyDER(der, "right passphrase")
	require.NoError(t, err)

	_, err = keys.DecryptSigningKeyDER(sealed, "wrong passphrase")
	require.Error(t, err)
}

func TestEnvelopeRejectsUnframedData(t *testing.T) {
	_, err := keys.DecryptSigningKeyDER([]byte("not an envelope"), "whatever")
	require.Error(t, err)
}

package pairingacc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/redactset/pkg/accum/pairingacc"
)

func TestEvalWitnessVerifyRoundTrip(t *testing.T) {
	sk, pk, err := pairingacc.KeyGen()
	require.NoError(t, err)

	members := []string{"alpha", "beta", "gamma"}
	acc, err := pairingacc.Eval(sk, members)
	require.NoError(t, err)

	for _, m := range members {
		w, err := pairingacc.Witness(sk, acc, m)
		require.NoError(t, err)
		ok, err := pairingacc.Verify(pk, acc, m, w)
		require.NoError(t, err)
		assert.True(t, ok, "witness for %q should verify", m)
	}
}

func TestWitnessSurvivesForgettingOtherMembers(t *testing.T) {
	// Redaction is "forget a witness"; acc never changes, so a witness
	// computed against the full set still verifies against that same acc
	// even once other witnesses are no longer published.
	sk, pk, err := pairingacc.KeyGen()
	require.NoError(t, err)

	members := []string{"alpha", "beta", "gamma"}
	acc, err := pairingacc.Eval(sk, members)
	require.NoError(t, err)

	wAlpha, err := pairingacc.Witness(sk, acc, "alpha")
	require.NoError(t, err)

	// "Redact" by simply not keeping witnesses for beta/gamma.
	ok, err := pairingacc.Verify(pk, acc, "alpha", wAlpha)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsNonMember(t *testing.T) {
	sk, pk, err := pairingacc.KeyGen()
	require.NoError(t, err)

	acc, err := pairingacc.Eval(sk, []string{"alpha", "beta"})
	require.NoError(t, err)

	wAlpha, err := pairingacc.Witness(sk, acc, "alpha")
	require.NoError(t, err)

	ok, err := pairingacc.Verify(pk, acc, "not-a-member", wAlpha)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyRoundTrip(t *testing.T) {
	sk, pk, err := pairingacc.KeyGen()
	require.NoError(t, err)

	pubDER, err := pairingacc.MarshalPublicKey(pk)
	require.NoError(t, err)
	gotPub, err := pairingacc.UnmarshalPublicKey(pubDER)
	require.NoError(t, err)
	assert.True(t, gotPub.G.Equal(pk.G))
	assert.True(t, gotPub.PK.Equal(pk.PK))

	privDER, err := pairingacc.MarshalPrivateKey(sk)
	require.NoError(t, err)
	gotPriv, err := pairingacc.UnmarshalPrivateKey(privDER)
	require.NoError(t, err)
	assert.True(t, gotPriv.G.Equal(sk.G))
	assert.Equal(t, sk.X.Bytes(), gotPriv.X.Bytes())
}

package rsaacc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/redactset/pkg/accum/rsaacc"
)

func TestEvalWitnessVerifyRoundTrip(t *testing.T) {
	_, pk, err := rsaacc.KeyGen()
	require.NoError(t, err)

	members := []string{"alpha", "beta", "gamma"}
	acc, aux, err := rsaacc.Eval(pk, members)
	require.NoError(t, err)
	require.Len(t, aux, 3)

	for _, m := range aux {
		w, err := rsaacc.Witness(pk, m, aux)
		require.NoError(t, err)
		assert.True(t, rsaacc.Verify(pk, acc, m.Prime, w), "witness for %q should verify", m.Member)
	}
}

func TestWitnessRejectsUnknownMember(t *testing.T) {
	_, pk, err := rsaacc.KeyGen()
	require.NoError(t, err)

	_, aux, err := rsaacc.Eval(pk, []string{"alpha", "beta"})
	require.NoError(t, err)

	bogus := rsaacc.MemberProof{Member: "nope", Prime: aux[0].Prime, Counter: aux[0].Counter + 1}
	_, err = rsaacc.Witness(pk, bogus, aux)
	assert.Error(t, err)
}

func TestKeyRoundTrip(t *testing.T) {
	sk, pk, err := rsaacc.KeyGen()
	require.NoError(t, err)

	pubDER, err := rsaacc.MarshalPublicKey(pk)
	require.NoError(t, err)
	gotPub, err := rsaacc.UnmarshalPublicKey(pubDER)
	require.NoError(t, err)
	assert.Equal(t, 0, pk.N.Cmp(gotPub.N))
	assert.Equal(t, 0, pk.G.Cmp(gotPub.G))

	privDER, err := rsaacc.MarshalPrivateKey(sk)
	require.NoError(t, err)
	gotPriv, err := rsaacc.UnmarshalPrivateKey(privDER)
	require.NoError(t, err)
	assert.Equal(t, 0, sk.N.Cmp(gotPriv.N))
}

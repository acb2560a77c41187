package pairing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/redactset/pkg/pairing"
)

func TestInitIsIdempotent(t *testing.T) {
	require.NoError(t, pairing.Init())
	require.NoError(t, pairing.Init())
	assert.Equal(t, "bls12-381", pairing.CurveName())
}

func TestScalarRoundTrip(t *testing.T) {
	require.NoError(t, pairing.Init())

	s, err := pairing.RandomScalar()
	require.NoError(t, err)

	encoded := s.Bytes()
	decoded, err := pairing.ScalarFromBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, s.Bytes(), decoded.Bytes())
}

func TestHashToScalarDeterministic(t *testing.T) {
	require.NoError(t, pairing.Init())

	a := pairing.HashToScalar([]byte("alpha"))
	b := pairing.HashToScalar([]byte("alpha"))
	c := pairing.HashToScalar([]byte("beta"))

	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.NotEqual(t, a.Bytes(), c.Bytes())
}

func TestG1PointRoundTrip(t *testing.T) {
	require.NoError(t, pairing.Init())

	s, err := pairing.RandomScalar()
	require.NoError(t, err)
	p := pairing.G1Generator().ScalarMul(s)

	encoded := p.Bytes()
	decoded, err := pairing.G1FromBytes(encoded)
	require.NoError(t, err)
	assert.True(t, p.Equal(decoded))
}

func TestPairingEqualBasicIdentity(t *testing.T) {
	require.NoError(t, pairing.Init())

	x, err := pairing.RandomScalar()
	require.NoError(t, err)

	g1 := pairing.G1Generator()
	g2 := pairing.G2Generator()

	// e(x*g1, g2) == e(g1, x*g2)
	lhsG1 := g1.ScalarMul(x)
	rhsG2 := g2.ScalarMul(x)

	ok, err := pairing.PairingEqual(lhsG1, g2, g1, rhsG2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPairingEqualRejectsMismatch(t *testing.T) {
	require.NoError(t, pairing.Init())

	x, err := pairing.RandomScalar()
	require.NoError(t, err)
	y, err := pairing.RandomScalar()
	require.NoError(t, err)

	g1 := pairing.G1Generator()
	g2 := pairing.G2Generator()

	ok, err := pairing.PairingEqual(g1.ScalarMul(x), g2, g1, g2.ScalarMul(y))
	require.NoError(t, err)
	assert.False(t, ok)
}

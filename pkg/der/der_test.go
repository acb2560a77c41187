package der_test

import (
	"encoding/asn1"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/redactset/pkg/der"
)

func asRaw(t *testing.T, fullDER []byte) asn1.RawValue {
	t.Helper()
	var raw asn1.RawValue
	_, err := asn1.Unmarshal(fullDER, &raw)
	require.NoError(t, err)
	return raw
}

func TestRSAAccKeyRoundTrip(t *testing.T) {
	pub := der.RSAAccKeyPub{G: big.NewInt(5), N: big.NewInt(2021)}
	data, err := der.Marshal(&pub)
	require.NoError(t, err)

	var got der.RSAAccKeyPub
	require.NoError(t, der.Unmarshal(data, &got))
	assert.Equal(t, 0, pub.G.Cmp(got.G))
	assert.Equal(t, 0, pub.N.Cmp(got.N))

	priv := der.RSAAccKeyPriv{G: big.NewInt(5), P: big.NewInt(43), Q: big.NewInt(47)}
	data, err = der.Marshal(&priv)
	require.NoError(t, err)

	var gotPriv der.RSAAccKeyPriv
	require.NoError(t, der.Unmarshal(data, &gotPriv))
	assert.Equal(t, 0, priv.P.Cmp(gotPriv.P))
	assert.Equal(t, 0, priv.Q.Cmp(gotPriv.Q))
}

func TestPairingAccKeyRoundTrip(t *testing.T) {
	pub := der.PairingAccKeyPub{G: []byte("generator"), PK: []byte("pubkey")}
	data, err := der.Marshal(&pub)
	require.NoError(t, err)

	var got der.PairingAccKeyPub
	require.NoError(t, der.Unmarshal(data, &got))
	assert.Equal(t, pub, got)
}

func TestDerlerSignatureRoundTrip(t *testing.T) {
	sig := der.DerlerSignature{Acc: []byte{1, 2, 3}, ECDSA: []byte{4, 5, 6}}
	sig.SetDerlerEntries([]der.DerlerEntryFields{
		{Member: "alpha", Witness: []byte{9}},
		{Member: "beta", Witness: []byte{10}},
	})

	data, err := der.Marshal(&sig)
	require.NoError(t, err)

	var got der.DerlerSignature
	require.NoError(t, der.Unmarshal(data, &got))
	assert.Equal(t, sig.Acc, got.Acc)
	assert.Equal(t, sig.ECDSA, got.ECDSA)
	assert.Equal(t, sig.DerlerEntries(), got.DerlerEntries())
}

func TestLargeSignatureRoundTrip(t *testing.T) {
	sig := der.LargeSignature{Acc: big.NewInt(777), Policy: "a and b", ECDSA: []byte{1}}
	sig.SetLargeEntries([]der.LargeEntryFields{
		{Member: "a", X: big.NewInt(1), Y: big.NewInt(42), Witness: big.NewInt(5)},
		{Member: "b", X: big.NewInt(2), Y: big.NewInt(43), Witness: big.NewInt(6)},
		{Member: "c", X: nil, Y: nil, Witness: big.NewInt(7)},
	})

	data, err := der.Marshal(&sig)
	require.NoError(t, err)

	var got der.LargeSignature
	require.NoError(t, der.Unmarshal(data, &got))
	require.Equal(t, 0, sig.Acc.Cmp(got.Acc))
	assert.Equal(t, sig.Policy, got.Policy)

	entries := got.LargeEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, 0, entries[2].X.Cmp(big.NewInt(0)))
	assert.Equal(t, 0, entries[2].Y.Cmp(big.NewInt(0)))
}

func TestSmallSignatureRoundTrip(t *testing.T) {
	sig := der.SmallSignature{Acc: []byte{9, 9}, Policy: "11000, 00111", ECDSA: []byte{1, 2}}
	sig.SetSmallEntries([]der.SmallEntryFields{
		{CharSeq: "11000", Witness: []byte{1}},
		{CharSeq: "00111", Witness: []byte{2}},
	})

	data, err := der.Marshal(&sig)
	require.NoError(t, err)

	var got der.SmallSignature
	require.NoError(t, der.Unmarshal(data, &got))
	assert.Equal(t, sig.SmallEntries(), got.SmallEntries())
}

func TestSigningKeyEmbedsRawAccKey(t *testing.T) {
	accKey, err := der.Marshal(&der.RSAAccKeyPriv{G: big.NewInt(3), P: big.NewInt(11), Q: big.NewInt(13)})
	require.NoError(t, err)

	sk := der.SigningKey{
		AccKey: asRaw(t, accKey),
		ECKey:  []byte("pkcs8-placeholder"),
	}
	data, err := der.Marshal(&sk)
	require.NoError(t, err)

	var got der.SigningKey
	require.NoError(t, der.Unmarshal(data, &got))
	assert.Equal(t, sk.ECKey, got.ECKey)
	assert.Equal(t, accKey, got.AccKey.FullBytes)
}

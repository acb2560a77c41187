package rss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/redactset/pkg/rss"
)

func TestLargeSignVerifyRoundTrip(t *testing.T) {
	sk, vk, err := rss.LargeKeyGen()
	require.NoError(t, err)

	set := []string{"alice", "bob", "carol"}
	sig, err := rss.LargeSign(sk, set, "alice AND bob")
	require.NoError(t, err)

	ok, err := rss.LargeVerify(vk, set, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLargeRedactToSatisfyingOrBranch(t *testing.T) {
	sk, vk, err := rss.LargeKeyGen()
	require.NoError(t, err)

	set := []string{"alice", "bob", "carol"}
	sig, err := rss.LargeSign(sk, set, "alice AND (bob OR carol)")
	require.NoError(t, err)

	redacted, err := rss.LargeRedact(sig, []string{"alice", "bob"})
	require.NoError(t, err)

	ok, err := rss.LargeVerify(vk, []string{"alice", "bob"}, redacted)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLargeRedactRejectsUnsatisfyingSubset(t *testing.T) {
	sk, _, err := rss.LargeKeyGen()
	require.NoError(t, err)

	set := []string{"alice", "bob", "carol"}
	sig, err := rss.LargeSign(sk, set, "alice AND bob")
	require.NoError(t, err)

	_, err = rss.LargeRedact(sig, []string{"carol"})
	require.Error(t, err)
	var rerr *rss.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, rss.PolicyUnsatisfied, rerr.Kind)
}

func TestLargeVerifyFailsOnUnsatisfyingSubsetPresentedDirectly(t *testing.T) {
	sk, vk, err := rss.LargeKeyGen()
	require.NoError(t, err)

	set := []string{"alice", "bob", "carol"}
	sig, err := rss.LargeSign(sk, set, "alice AND bob")
	require.NoError(t, err)

	ok, err := rss.LargeVerify(vk, []string{"carol"}, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLargeSignRejectsPolicyOutsideSet(t *testing.T) {
	sk, _, err := rss.LargeKeyGen()
	require.NoError(t, err)

	_, err = rss.LargeSign(sk, []string{"alice", "bob"}, "alice AND eve")
	assert.Error(t, err)
}

func TestLargeSignatureDEREncodeDecode(t *testing.T) {
	sk, vk, err := rss.LargeKeyGen()
	require.NoError(t, err)

	set := []string{"alice", "bob"}
	sig, err := rss.LargeSign(sk, set, "alice OR bob")
	require.NoError(t, err)

	data, err := rss.MarshalLargeSignature(sig)
	require.NoError(t, err)

	got, err := rss.UnmarshalLargeSignature(data)
	require.NoError(t, err)

	ok, err := rss.LargeVerify(vk, set, got)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLargeSchemeWithExtraNonPolicyMembers(t *testing.T) {
	sk, vk, err := rss.LargeKeyGen()
	require.NoError(t, err)

	set := []string{"alice", "bob", "metadata-tag"}
	sig, err := rss.LargeSign(sk, set, "alice AND bob")
	require.NoError(t, err)

	ok, err := rss.LargeVerify(vk, set, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/redactset/pkg/policy"
)

func TestParseSingleIdentifier(t *testing.T) {
	n, err := policy.Parse("alice")
	require.NoError(t, err)
	assert.Equal(t, policy.Leaf, n.Kind)
	assert.Equal(t, "alice", n.Name)
}

func TestParseAndOr(t *testing.T) {
	n, err := policy.Parse("alice AND bob OR carol")
	require.NoError(t, err)
	// Left-associative, equal precedence: (alice AND bob) OR carol.
	assert.Equal(t, policy.Or, n.Kind)
	assert.Equal(t, policy.And, n.Left.Kind)
	assert.Equal(t, "carol", n.Right.Name)
}

func TestParseParentheses(t *testing.T) {
	n, err := policy.Parse("alice AND (bob OR carol)")
	require.NoError(t, err)
	assert.Equal(t, policy.And, n.Kind)
	assert.Equal(t, policy.Or, n.Right.Kind)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := policy.Parse("")
	assert.Error(t, err)
}

func TestParseRejectsUnbalancedParens(t *testing.T) {
	_, err := policy.Parse("(alice AND bob")
	assert.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := policy.Parse("alice)")
	assert.Error(t, err)
}

func TestIdentifiersDeduplicates(t *testing.T) {
	n, err := policy.Parse("alice AND (alice OR bob)")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, policy.Identifiers(n))
}

func TestEvaluateUnboundIsFalse(t *testing.T) {
	n, err := policy.Parse("alice AND bob")
	require.NoError(t, err)
	assert.False(t, policy.Evaluate(n, map[string]bool{"alice": true}))
	assert.True(t, policy.Evaluate(n, map[string]bool{"alice": true, "bob": true}))
}

func TestEvaluateOrShortCircuitsLeft(t *testing.T) {
	n, err := policy.Parse("alice OR bob")
	require.NoError(t, err)
	assert.True(t, policy.Evaluate(n, map[string]bool{"alice": true}))
	assert.True(t, policy.Evaluate(n, map[string]bool{"bob": true}))
	assert.False(t, policy.Evaluate(n, map[string]bool{}))
}

func TestParseLowercaseKeywordsFromSpecScenario(t *testing.T) {
	// spec.md §8 scenario 1: P = "(a and b) or (c and d)".
	n, err := policy.Parse("(a and b) or (c and d)")
	require.NoError(t, err)
	assert.Equal(t, policy.Or, n.Kind)
	assert.Equal(t, policy.And, n.Left.Kind)
	assert.Equal(t, "a", n.Left.Left.Name)
	assert.Equal(t, "b", n.Left.Right.Name)
	assert.Equal(t, policy.And, n.Right.Kind)
	assert.Equal(t, "c", n.Right.Left.Name)
	assert.Equal(t, "d", n.Right.Right.Name)

	assert.True(t, policy.Evaluate(n, map[string]bool{"a": true, "b": true}))
	assert.True(t, policy.Evaluate(n, map[string]bool{"c": true, "d": true}))
	assert.False(t, policy.Evaluate(n, map[string]bool{"a": true, "c": true}))
}

func TestParseRejectsDanglingOperatorFromSpecScenario(t *testing.T) {
	// spec.md §8 scenario 5: sign with P = "a and" raises InvalidArgument.
	_, err := policy.Parse("a and")
	assert.Error(t, err)
}

func TestLeavesOrderAndDuplicateNames(t *testing.T) {
	n, err := policy.Parse("a AND (a OR b)")
	require.NoError(t, err)
	leaves := policy.Leaves(n)
	require.Len(t, leaves, 3)
	assert.Equal(t, "a", leaves[0].Name)
	assert.Equal(t, "a", leaves[1].Name)
	assert.Equal(t, "b", leaves[2].Name)
	assert.NotSame(t, leaves[0], leaves[1])
}

// Package policy implements the AND/OR policy language used by the
// large-universe signature scheme (spec.md §4.4): a
// recursive-descent parser over the grammar
//
//	expr   := factor ((AND|OR) factor)*
//	factor := ID | "(" expr ")"
//
// AND and OR share the same precedence and are left-associative — a
// deliberate quirk carried over unchanged rather than "fixed" with the
// usual AND-binds-tighter-than-OR convention.
package policy

import "github.com/cronokirby/saferith"

// Kind distinguishes the three node shapes a policy tree can take.
type Kind int

const (
	Leaf Kind = iota
	And
	Or
)

// Node is one node of a parsed policy tree. Leaf nodes carry Name; And/Or
// nodes carry Left and Right. Share is populated by Distribute; Reconstruct
// does not read it, but takes leaf shares from the map its caller builds
// (typically from the leaves' Share fields). It is nil on a freshly parsed
// tree.
type Node struct {
	Kind  Kind
	Name  string
	Left  *Node
	Right *Node
	Share *saferith.Nat
}

// Leaves returns every leaf node in left-to-right depth-first order. A
// member name can appear at more than one leaf (e.g. "a AND (a OR b)"); each
// occurrence is a distinct *Node with its own distributed share, which is
// why callers must index by node identity, not by name.
func Leaves(n *Node) []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Leaf:
		return []*Node{n}
	default:
		out := append(Leaves(n.Left), Leaves(n.Right)...)
		return out
	}
}

// Evaluate reports whether the policy is satisfied by the given set of
// present members. An identifier absent from the map is treated as false
// (spec.md §4.4); OR short-circuits left-to-right.
func Evaluate(n *Node, present map[string]bool) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case Leaf:
		return present[n.Name]
	case And:
		return Evaluate(n.Left, present) && Evaluate(n.Right, present)
	case Or:
		return Evaluate(n.Left, present) || Evaluate(n.Right, present)
	default:
		return false
	}
}

// String reconstructs a parenthesized textual form of the tree, primarily
// for diagnostics and tests.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Leaf:
		return n.Name
	case And:
		return "(" + n.Left.String() + " AND " + n.Right.String() + ")"
	case Or:
		return "(" + n.Left.String() + " OR " + n.Right.String() + ")"
	default:
		return ""
	}
}

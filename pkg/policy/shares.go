package policy

import (
	"fmt"

	"github.com/cronokirby/saferith"

	"github.com/luxfi/redactset/pkg/shamir"
)

// Distribute pushes secret down the tree per spec.md §4.4: an AND node
// splits its share into a (2,2) Shamir sharing over abscissas {1, 2} and
// recurses with the left child taking the x=1 share and the right child the
// x=2 share; an OR node replicates its own share unchanged into both
// children. Each node's resulting share is recorded in its Share field,
// including the root's (which equals secret itself).
func Distribute(n *Node, secret *saferith.Nat) error {
	if n == nil {
		return fmt.Errorf("policy: cannot distribute into a nil node")
	}
	n.Share = secret
	switch n.Kind {
	case Leaf:
		return nil
	case And:
		shares, err := shamir.Split(secret, 2, 2)
		if err != nil {
			return fmt.Errorf("policy: distributing AND share: %w", err)
		}
		if err := Distribute(n.Left, shares[0].Y); err != nil {
			return err
		}
		return Distribute(n.Right, shares[1].Y)
	case Or:
		if err := Distribute(n.Left, secret); err != nil {
			return err
		}
		return Distribute(n.Right, secret)
	default:
		return fmt.Errorf("policy: unknown node kind")
	}
}

// Reconstruct rebuilds the secret at the root from a set of leaf shares
// available to the verifier, per spec.md §4.4: a leaf yields its recorded
// share if present in available; an AND node needs both children to
// reconstruct and interpolates the pair at X=0; an OR node returns whichever
// child reconstructs, preferring the left. It reports false if the policy
// cannot be satisfied from the given leaves.
func Reconstruct(n *Node, available map[*Node]*saferith.Nat) (*saferith.Nat, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Kind {
	case Leaf:
		v, ok := available[n]
		return v, ok
	case And:
		lv, lok := Reconstruct(n.Left, available)
		rv, rok := Reconstruct(n.Right, available)
		if !lok || !rok {
			return nil, false
		}
		got, err := shamir.Interpolate2(lv, rv)
		if err != nil {
			return nil, false
		}
		return got, true
	case Or:
		if lv, lok := Reconstruct(n.Left, available); lok {
			return lv, true
		}
		if rv, rok := Reconstruct(n.Right, available); rok {
			return rv, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// Package shamir implements classical Shamir (t,n) threshold secret sharing
// over a fixed prime field, per spec.md §4.3: share generation by random
// polynomial evaluation, and Lagrange reconstruction at X=0. It underlies
// both pkg/policy's share-tree compiler and the large-universe scheme's
// top-level secret.
//
// Field arithmetic runs on github.com/cronokirby/saferith, the constant-
// time big-integer library the teacher depends on for exactly this kind of
// field/scalar work (pkg/math/polynomial's Lagrange coefficients in the
// reference pack).
package shamir

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
)

// ffdhe2048Hex is the RFC 7919 FFDHE2048 safe prime, spec.md §4.3's
// recommended modulus for the sharing field.
const ffdhe2048Hex = "FFFFFFFFFFFFFFFFADF85458A2BB4A9AAFDC5620273D3CF1D8B9C583CE2D3695" +
	"A9E136411464 33FBCC939DCE249B3EF97D2FE363630C75D8F681B202AEC4617AD3DF1ED5D5FD65" +
	"6124 33F51F5F066ED0856365553DED1AF3B557135E7F57C935984F0C70E0E68B77E2A689DAF3EFE8" +
	"721DF158A136ADE73530ACCA4F483A797ABC0AB182B324FB61D108A94BB2C8E3FBB96ADAB760D7F4" +
	"681D4F42A3DE394DF4AE56EDE76372BB190B07A7C8EE0A6D709E02FCE1CDF7E2ECC03404CD28342F" +
	"619172FE9CE98583FF8E4F1232EEF28183C3FE3B1B4C6FAD733BB5FCBC2EC22005C58EF1837D1683" +
	"B2C6F34A26C1B2EFFA886B423861285C97FFFFFFFFFFFFFFFF"

var (
	fieldPrime    *big.Int
	fieldModulus  *saferith.Modulus
)

func init() {
	hex := removeSpaces(ffdhe2048Hex)
	p, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("shamir: invalid embedded FFDHE2048 constant")
	}
	fieldPrime = p
	fieldModulus = saferith.ModulusFromBytes(p.Bytes())
}

func removeSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// FieldPrime returns the sharing field's modulus.
func FieldPrime() *big.Int { return new(big.Int).Set(fieldPrime) }

// Share is one point (x, f(x)) on a sharing polynomial.
type Share struct {
	X *saferith.Nat
	Y *saferith.Nat
}

// natFromBig reduces x modulo the field prime (negative values included) and
// converts the result to a Nat.
func natFromBig(x *big.Int) *saferith.Nat {
	return new(saferith.Nat).SetBytes(new(big.Int).Mod(x, fieldPrime).Bytes())
}

// NatFromInt64 is a convenience wrapper for small constant abscissas (the
// policy compiler only ever uses x in {0, 1, 2}).
func NatFromInt64(x int64) *saferith.Nat {
	return natFromBig(big.NewInt(x))
}

// BigFromNat converts a Nat back to a big.Int in [0, p).
func BigFromNat(n *saferith.Nat) *big.Int {
	return new(big.Int).SetBytes(n.Bytes())
}

// NatFromBig converts an arbitrary big.Int (reduced mod the field prime) to
// a Nat, for callers reconstituting shares that crossed a wire encoding as
// plain big.Int values.
func NatFromBig(x *big.Int) *saferith.Nat {
	return natFromBig(x)
}

// randomFieldElement draws a uniform element of Z_p.
func randomFieldElement() (*saferith.Nat, error) {
	r, err := rand.Int(rand.Reader, fieldPrime)
	if err != nil {
		return nil, fmt.Errorf("shamir: sampling field element: %w", err)
	}
	return natFromBig(r), nil
}

// polynomial is f(X) = coeffs[0] + coeffs[1]*X + ... over Z_p.
type polynomial struct {
	coeffs []*saferith.Nat
}

// newRandomPolynomial builds a degree t-1 polynomial with constant term s.
func newRandomPolynomial(secret *saferith.Nat, degree int) (*polynomial, error) {
	coeffs := make([]*saferith.Nat, degree+1)
	coeffs[0] = secret
	for i := 1; i <= degree; i++ {
		c, err := randomFieldElement()
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return &polynomial{coeffs: coeffs}, nil
}

// evaluate computes f(x) mod p via Horner's method.
func (p *polynomial) evaluate(x *saferith.Nat) *saferith.Nat {
	acc := new(saferith.Nat).SetUint64(0)
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		acc = new(saferith.Nat).ModMul(acc, x, fieldModulus)
		acc = new(saferith.Nat).ModAdd(acc, p.coeffs[i], fieldModulus)
	}
	return acc
}

// Split shares secret into n points (x=1..n) reconstructible from any t of
// them, per spec.md §4.3.
func Split(secret *saferith.Nat, t, n int) ([]Share, error) {
	if t < 1 || n < 1 || t > n {
		return nil, errors.New("shamir: invalid (t, n)")
	}
	poly, err := newRandomPolynomial(secret, t-1)
	if err != nil {
		return nil, err
	}
	shares := make([]Share, n)
	for i := 0; i < n; i++ {
		x := NatFromInt64(int64(i + 1))
		shares[i] = Share{X: x, Y: poly.evaluate(x)}
	}
	return shares, nil
}

// Reconstruct performs Lagrange interpolation at X=0 from exactly the given
// shares (spec.md §4.3/§4.4's reconstruction step). Shares must have
// distinct abscissas.
func Reconstruct(shares []Share) (*saferith.Nat, error) {
	if len(shares) == 0 {
		return nil, errors.New("shamir: no shares to reconstruct from")
	}
	acc := new(saferith.Nat).SetUint64(0)
	for i, si := range shares {
		num := new(saferith.Nat).SetUint64(1)
		den := new(saferith.Nat).SetUint64(1)
		for j, sj := range shares {
			if i == j {
				continue
			}
			if BigFromNat(si.X).Cmp(BigFromNat(sj.X)) == 0 {
				return nil, errors.New("shamir: duplicate abscissa among shares")
			}
			// num *= (0 - x_j) = -x_j
			negXj := new(big.Int).Neg(BigFromNat(sj.X))
			num = new(saferith.Nat).ModMul(num, natFromBig(negXj), fieldModulus)
			// den *= (x_i - x_j)
			diff := new(big.Int).Sub(BigFromNat(si.X), BigFromNat(sj.X))
			den = new(saferith.Nat).ModMul(den, natFromBig(diff), fieldModulus)
		}
		denInv := new(saferith.Nat).ModInverse(den, fieldModulus)
		coeff := new(saferith.Nat).ModMul(num, denInv, fieldModulus)
		term := new(saferith.Nat).ModMul(coeff, si.Y, fieldModulus)
		acc = new(saferith.Nat).ModAdd(acc, term, fieldModulus)
	}
	return acc, nil
}

// RandomSecret draws a uniform element of the sharing field, used for the
// policy tree's root secret (spec.md §4.4).
func RandomSecret() (*saferith.Nat, error) { return randomFieldElement() }

// Interpolate2 is the (2,2) reconstruction short-hand spec.md §4.4 uses at
// AND nodes: given (1, ly) and (2, ry), interpolate at X=0.
func Interpolate2(ly, ry *saferith.Nat) (*saferith.Nat, error) {
	return Reconstruct([]Share{
		{X: NatFromInt64(1), Y: ly},
		{X: NatFromInt64(2), Y: ry},
	})
}

// Package bigfield collects the arbitrary-precision integer helpers shared
// by the RSA accumulator and the Shamir secret sharer: modular inversion,
// random sampling below a modulus, and the two's-complement minimal byte
// encodings the DER layer and the ECDSA binding both rely on.
package bigfield

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// ErrNotInvertible is returned when an element has no inverse modulo m.
var ErrNotInvertible = errors.New("bigfield: element is not invertible modulo m")

// Inverse returns a^-1 mod m, or ErrNotInvertible if gcd(a, m) != 1.
func Inverse(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int)
	g := new(big.Int).GCD(inv, nil, new(big.Int).Mod(a, m), m)
	if g.Cmp(big.NewInt(1)) != 0 {
		return nil, ErrNotInvertible
	}
	return inv.Mod(inv, m), nil
}

// RandBelow returns a uniform random integer in [0, n).
func RandBelow(n *big.Int) (*big.Int, error) {
	if n.Sign() <= 0 {
		return nil, errors.New("bigfield: modulus must be positive")
	}
	return rand.Int(rand.Reader, n)
}

// RandRange returns a uniform random integer in [lo, hi).
func RandRange(lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	if span.Sign() <= 0 {
		return nil, errors.New("bigfield: empty range")
	}
	r, err := RandBelow(span)
	if err != nil {
		return nil, err
	}
	return r.Add(r, lo), nil
}

// SignedBytes returns the minimal two's-complement big-endian encoding of x,
// matching the byte encoding spec.md §4.5.1 step 6 requires for the ECDSA
// binding (and for DER INTEGER bodies, which use the same rule).
func SignedBytes(x *big.Int) []byte {
	if x.Sign() == 0 {
		return []byte{0x00}
	}
	abs := new(big.Int).Abs(x)
	b := abs.Bytes()
	// Ensure the high bit doesn't flip sign for a positive value, and that
	// a negative value's leading byte carries the sign bit; math/big has no
	// native two's-complement export, so we build it by hand.
	if x.Sign() > 0 {
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	}
	// Two's complement of a negative number: invert the bits of (abs-1).
	one := big.NewInt(1)
	t := new(big.Int).Sub(abs, one)
	tb := t.Bytes()
	full := make([]byte, len(b))
	copy(full[len(full)-len(tb):], tb)
	for i := range full {
		full[i] = ^full[i]
	}
	if full[0]&0x80 == 0 {
		full = append([]byte{0xff}, full...)
	}
	return full
}

// SignedBytesToInt parses a minimal two's-complement big-endian encoding.
func SignedBytesToInt(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	x := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		// Negative: x - 2^(8*len(b))
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		x.Sub(x, mod)
	}
	return x
}

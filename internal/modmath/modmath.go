// Package modmath implements the integer arithmetic behind the toy RSA
// scheme: greatest common divisor, extended Euclid, modular inverse and
// square-and-multiply exponentiation over uint64.
package modmath

import (
	"errors"
	"math"
	"math/bits"
)

var (
	// ErrNotInvertible is returned when a has no inverse modulo m.
	ErrNotInvertible = errors.New("modmath: value is not invertible")

	// ErrOperandRange is returned when an operand does not fit the signed
	// coefficients used by the extended Euclidean algorithm.
	ErrOperandRange = errors.New("modmath: operand exceeds int64 range")
)

// GCD returns the greatest common divisor of a and b using the iterative
// Euclidean algorithm. GCD(0, 0) is 0.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ExtendedGCD returns g, x, y such that a*x + b*y = g = gcd(a, b).
// Both inputs must be non-negative.
func ExtendedGCD(a, b int64) (g, x, y int64) {
	if a == 0 {
		return b, 0, 1
	}
	g, x1, y1 := ExtendedGCD(b%a, a)
	return g, y1 - (b/a)*x1, x1
}

// ModInverse returns x in [0, m) such that (a*x) mod m = 1.
func ModInverse(a, m uint64) (uint64, error) {
	if m == 0 {
		return 0, ErrNotInvertible
	}
	if a > math.MaxInt64 || m > math.MaxInt64 {
		return 0, ErrOperandRange
	}
	if m == 1 {
		// Every value is congruent to 0 modulo 1.
		return 0, ErrNotInvertible
	}

	g, x, _ := ExtendedGCD(int64(a%m), int64(m))
	if g != 1 {
		return 0, ErrNotInvertible
	}

	// x lies in (-m, m); shift it into [0, m).
	if x < 0 {
		x += int64(m)
	}
	return uint64(x) % m, nil
}

// MulMod returns (a*b) mod m without overflowing the intermediate product.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// ModPow returns base^exponent mod modulus by square-and-multiply, scanning
// the exponent from its least significant bit. Every product is reduced
// into [0, modulus). It panics if modulus is zero.
func ModPow(base, exponent, modulus uint64) uint64 {
	if modulus == 0 {
		panic("modmath: zero modulus")
	}

	x := 1 % modulus
	y := base % modulus
	for exponent > 0 {
		if exponent&1 == 1 {
			x = MulMod(x, y, modulus)
		}
		y = MulMod(y, y, modulus)
		exponent >>= 1
	}
	return x
}

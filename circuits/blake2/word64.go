// Package blake2 implements an in-circuit BLAKE2b-256 gadget.
//
// None of the gnark example code in this corpus ships a BLAKE2 gadget (the
// only in-circuit hash gadget observed, in circuits/eth2_sc_update.go, is
// gnark's own std/hash/sha2). BLAKE2 is required here because the
// validator-set hash the GRANDPA side of the bridge commits to is defined
// as blake2_256(concat(pubkeys)) (spec §3, §4.C) — Substrate's native
// hash, not SHA-256. This package is hand-built, following the same
// "Write/Sum" hasher shape gnark's sha2 gadget exposes, operating over
// 64-bit words represented as 64 individually-constrained boolean wires
// (mirrors the bit/byte primitives in circuits/targets.go).
package blake2

import (
	"github.com/consensys/gnark/frontend"
)

// Word64 is a 64-bit value carried as 64 little-endian-ordered boolean
// wires (bit 0 is the least significant bit). All arithmetic below treats
// it as an unsigned 64-bit word with wraparound, matching BLAKE2b's
// compression function.
type Word64 struct {
	Bits [64]frontend.Variable // each constrained boolean
}

// ConstU64 returns a Word64 built from a circuit constant.
func ConstU64(api frontend.API, v uint64) Word64 {
	var w Word64
	for i := 0; i < 64; i++ {
		w.Bits[i] = (v >> i) & 1
	}
	return w
}

// FromBoolWires wraps 64 already-constrained boolean wires (LSB first).
func FromBoolWires(bits [64]frontend.Variable) Word64 { return Word64{Bits: bits} }

// FromBytesLE builds a Word64 from 8 byte wires (range [0,256)), in
// little-endian byte order — the wire layout BLAKE2b uses to read a
// message word from its input buffer.
func FromBytesLE(api frontend.API, bytes [8]frontend.Variable) Word64 {
	var w Word64
	for byteIdx := 0; byteIdx < 8; byteIdx++ {
		bits := api.ToBinary(bytes[byteIdx], 8)
		for bitIdx := 0; bitIdx < 8; bitIdx++ {
			w.Bits[byteIdx*8+bitIdx] = bits[bitIdx]
		}
	}
	return w
}

// ToBytesLE is the inverse of FromBytesLE.
func (w Word64) ToBytesLE(api frontend.API) [8]frontend.Variable {
	var out [8]frontend.Variable
	for byteIdx := 0; byteIdx < 8; byteIdx++ {
		out[byteIdx] = api.FromBinary(w.Bits[byteIdx*8 : byteIdx*8+8]...)
	}
	return out
}

// value reassembles the word as a single field element — used internally
// by Add, which is cheaper evaluated as one modular-reduced arithmetic sum
// than as a ripple-carry bit adder.
func (w Word64) value(api frontend.API) frontend.Variable {
	return api.FromBinary(w.Bits[:]...)
}

// Add computes (a + b) mod 2^64. Implemented by summing the two 64-bit
// values as field elements (the BN254/BLS12-381 scalar fields are far
// wider than 65 bits, so no overflow occurs before reduction) and
// re-decomposing the low 64 bits, which both performs the mod-2^64
// wraparound and re-establishes the per-bit boolean constraints.
func Add(api frontend.API, a, b Word64) Word64 {
	sum := api.Add(a.value(api), b.value(api))
	bits := api.ToBinary(sum, 65) // one extra bit to safely drop the carry-out
	var out Word64
	copy(out.Bits[:], bits[:64])
	return out
}

// Xor computes the bitwise XOR of a and b.
func Xor(api frontend.API, a, b Word64) Word64 {
	var out Word64
	for i := 0; i < 64; i++ {
		// x XOR y = x + y - 2xy for boolean x, y.
		xy := api.Mul(a.Bits[i], b.Bits[i])
		out.Bits[i] = api.Sub(api.Add(a.Bits[i], b.Bits[i]), api.Mul(2, xy))
	}
	return out
}

// RotateRight performs a right-rotate by n bits (0 <= n < 64). This is a
// free wire relabeling, no constraints added.
func RotateRight(w Word64, n int) Word64 {
	n %= 64
	var out Word64
	for i := 0; i < 64; i++ {
		out.Bits[i] = w.Bits[(i+n)%64]
	}
	return out
}

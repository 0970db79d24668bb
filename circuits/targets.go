// Package circuit holds the recursive zk-SNARK circuits that prove GRANDPA
// block finality and Substrate storage inclusion, and compose them into a
// single proof verifiable on Ethereum (spec §4.A–§4.F).
//
// Public-input layouts are expressed as "target sets": ordered, named,
// typed views over the flat field-element list gnark registers as a
// circuit's public witness. Every target set here is total and
// length-exact to parse: a TargetSet never consumes a different number of
// wires than its static shape declares.
package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
)

// BitTarget wraps a single constrained-boolean wire.
type BitTarget struct {
	Val frontend.Variable
}

// AssertBoolean constrains the wrapped wire to {0, 1}.
func (b BitTarget) AssertBoolean(api frontend.API) {
	api.AssertIsBoolean(b.Val)
}

// ByteTarget wraps a single wire whose value is asserted in [0, 256).
// Bits inside a byte are interpreted big-endian (bit 7 is the MSB), per
// spec §4.A.
type ByteTarget struct {
	Val frontend.Variable
}

// NewByteFromU8 adapts a gnark uints.U8 (already byte-range-checked by the
// uints package) into a ByteTarget.
func NewByteFromU8(b uints.U8) ByteTarget {
	return ByteTarget{Val: b.Val}
}

// ToU8 converts back to the gnark uints.U8 representation used by the
// sha2/uints gadgets.
func (b ByteTarget) ToU8() uints.U8 {
	return uints.U8{Val: b.Val}
}

// Bits decomposes the byte into 8 BitTargets, MSB first.
func (b ByteTarget) Bits(api frontend.API) [8]BitTarget {
	bits := api.ToBinary(b.Val, 8) // little-endian least-significant first
	var out [8]BitTarget
	for i := 0; i < 8; i++ {
		// bits[0] is bit 0 (LSB); big-endian-within-byte means index 0 of
		// the output is the MSB (bit 7).
		out[i] = BitTarget{Val: bits[7-i]}
	}
	return out
}

// AssertByteRange constrains Val to [0, 256). Constructing a ByteTarget
// from uints.U8 already guarantees this; this helper exists for bytes
// assembled directly from arithmetic (e.g. ValidatorSelector output) where
// that guarantee must be re-established explicitly.
func AssertByteRange(api frontend.API, v frontend.Variable) {
	bits := api.ToBinary(v, 8)
	_ = bits // ToBinary itself range-checks to the given bit width
}

// FromBitTargetsLE reconstructs an integer value from B boolean targets in
// byte-big-endian / word-little-endian order: bits are grouped into bytes
// (big-endian within the byte), and bytes are combined little-endian. For
// B == 64 the high bit is folded in last, multiplied by 1<<63, to avoid
// intermediate overflow of the native field's canonical range (spec §4.A).
func FromBitTargetsLE(api frontend.API, bits []BitTarget, bitWidth int) frontend.Variable {
	if len(bits) != bitWidth {
		panic(fmt.Sprintf("FromBitTargetsLE: got %d bits, want %d", len(bits), bitWidth))
	}
	if bitWidth%8 != 0 {
		panic("FromBitTargetsLE: bit width must be byte-aligned")
	}

	// Reassemble byte-big-endian groups, then treat the byte sequence as
	// little-endian digits base 256 (matches serializeUint64ToChunk's
	// inverse in the teacher circuit).
	nBytes := bitWidth / 8
	byteVals := make([]frontend.Variable, nBytes)
	for byteIdx := 0; byteIdx < nBytes; byteIdx++ {
		group := bits[byteIdx*8 : byteIdx*8+8]
		// group[0] is the MSB of this byte.
		leBits := make([]frontend.Variable, 8)
		for i := 0; i < 8; i++ {
			leBits[7-i] = group[i].Val
		}
		byteVals[byteIdx] = api.FromBinary(leBits...)
	}

	if bitWidth != 64 {
		acc := frontend.Variable(0)
		radix := frontend.Variable(1)
		for _, bv := range byteVals {
			acc = api.Add(acc, api.Mul(bv, radix))
			radix = api.Mul(radix, 256)
		}
		return acc
	}

	// 64-bit path: reassemble the 64 bits in little-endian order, sum the
	// low 63 with one FromBinary call, then add the most-significant bit
	// multiplied by 1<<63 — the source's "multiply the most-significant
	// bit by 1<<63" rule, applied at the bit (not byte) level.
	leAllBits := make([]frontend.Variable, 64)
	for byteIdx := 0; byteIdx < 8; byteIdx++ {
		group := bits[byteIdx*8 : byteIdx*8+8]
		for i := 0; i < 8; i++ {
			bitPos := byteIdx*8 + (7 - i)
			leAllBits[bitPos] = group[i].Val
		}
	}
	msb := leAllBits[63]
	partial := api.FromBinary(leAllBits[:63]...)
	msbWeight := frontend.Variable(uint64(1) << 63)
	return api.Add(partial, api.Mul(msb, msbWeight))
}

// Flatten implements TargetSet for a single byte.
func (b ByteTarget) Flatten() []frontend.Variable { return []frontend.Variable{b.Val} }

// Flatten implements TargetSet for a single bit.
func (b BitTarget) Flatten() []frontend.Variable { return []frontend.Variable{b.Val} }

// ArrayTarget is a homogeneous target set backed by a slice: its length is
// len(Items), which the type itself does not fix.
type ArrayTarget[T any] struct {
	Items []T
}

// Flatten concatenates the flattened form of every element, in order.
func (a ArrayTarget[T]) Flatten() []frontend.Variable {
	out := make([]frontend.Variable, 0, len(a.Items))
	for _, item := range a.Items {
		if flat, ok := any(item).(interface{ Flatten() []frontend.Variable }); ok {
			out = append(out, flat.Flatten()...)
		} else {
			panic("ArrayTarget.Flatten: element does not implement TargetSet")
		}
	}
	return out
}

// Bytes32Target is the recurring 32-byte (BLAKE2/SHA-256/Keccak digest)
// target shape used throughout the compositor and the light client.
type Bytes32Target [32]ByteTarget

// Flatten implements TargetSet.
func (b Bytes32Target) Flatten() []frontend.Variable {
	out := make([]frontend.Variable, 32)
	for i, bt := range b {
		out[i] = bt.Val
	}
	return out
}

// U8sToBytes32 adapts a [32]uints.U8 array (the shape gnark's sha2 gadget
// emits/consumes) into a Bytes32Target.
func U8sToBytes32(u [32]uints.U8) Bytes32Target {
	var out Bytes32Target
	for i := range u {
		out[i] = NewByteFromU8(u[i])
	}
	return out
}

// ToU8Array converts back to the [32]uints.U8 shape.
func (b Bytes32Target) ToU8Array() [32]uints.U8 {
	var out [32]uints.U8
	for i := range b {
		out[i] = b[i].ToU8()
	}
	return out
}

// RandomRead returns array[index] using a selector polynomial: one
// equality check per element, combined by a running "matched so far"
// select — O(n) constraints, no random access to memory. Mirrors the
// teacher's aggregatePubKeys accumulation pattern and the original's
// validator_selector_circuit.
func RandomRead[T any](
	api frontend.API,
	index frontend.Variable,
	array []T,
	zero T,
	selectFn func(api frontend.API, cond frontend.Variable, a, b T) T,
) T {
	result := zero
	for i, item := range array {
		isMatch := api.IsZero(api.Sub(index, i))
		result = selectFn(api, isMatch, item, result)
	}
	return result
}

// SelectTargetSet pairwise-selects between two equal-shape slices of
// targets, for composing circuits that must choose between alternative
// public-input shapes (spec §4.A, "select_target_set").
func SelectTargetSet(api frontend.API, cond frontend.Variable, a, b []frontend.Variable) []frontend.Variable {
	if len(a) != len(b) {
		panic("SelectTargetSet: mismatched shapes")
	}
	out := make([]frontend.Variable, len(a))
	for i := range a {
		out[i] = api.Select(cond, a[i], b[i])
	}
	return out
}

// TargetSet is implemented by every public-input schema in this package.
// Unlike plonky2 (the original's proof system), gnark fixes which struct
// fields are public at circuit-definition time via `gnark:",public"` tags;
// there is no builder call to register an arbitrary computed wire as
// public at runtime. Composition therefore works the other way around:
// Flatten exposes a circuit's logical public-input schema as an ordered
// wire list, and ConnectTargetSets asserts element-wise equality between
// that schema and the struct fields the outer circuit actually declared
// public — which is exactly how §4.B's "forward the inner public inputs"
// step is realized here.
type TargetSet interface {
	// Flatten returns the ordered flat list of field elements this target
	// set contributes to the public witness. Total and length-exact: the
	// same TargetSet implementation always returns the same length.
	Flatten() []frontend.Variable
}

// ConnectTargetSets asserts that two equal-shape target sets carry the
// same values, wire for wire. Used to pin an outer circuit's declared
// public fields to an inner, recursively-verified proof's public inputs.
func ConnectTargetSets(api frontend.API, a, b TargetSet) {
	fa, fb := a.Flatten(), b.Flatten()
	if len(fa) != len(fb) {
		panic(fmt.Sprintf("ConnectTargetSets: shape mismatch %d != %d", len(fa), len(fb)))
	}
	for i := range fa {
		api.AssertIsEqual(fa[i], fb[i])
	}
}

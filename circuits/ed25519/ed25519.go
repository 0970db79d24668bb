// Package ed25519 wraps Ed25519 signature verification as an opaque
// in-circuit subcircuit (spec §4.D design note 9): GRANDPA pre-commit
// signatures are Ed25519, which has no BLS-style pairing shortcut, so the
// verification gate itself is treated as a black box here — callers supply
// a VerifyFunc (gnark's twisted-Edwards eddsa gadget over the matching
// curve, wired at circuit-construction time), and this package only
// shapes the public/secret witness layout block_finality.go consumes.
package ed25519

import "github.com/consensys/gnark/frontend"

// Signature is an EdDSA signature (R, S): R is a curve point (two field
// elements, RX/RY) and S a scalar, matching the shape gnark's
// std/signature/eddsa gadget expects once the message/pubkey have been
// mapped onto that curve's base field. The mapping itself is done by the
// VerifyFunc implementation, not by this package.
type Signature struct {
	RX, RY, S frontend.Variable
}

// PublicKey is an Ed25519 public key as curve point coordinates in the
// twisted-Edwards representation used by the verification gadget.
type PublicKey struct {
	X, Y frontend.Variable
}

// VerifyFunc asserts that sig is a valid signature by pub over message,
// where message is the field-element encoding of the 53-byte GRANDPA vote
// (spec §4.D) the caller has already range-decomposed. Implementations
// are expected to delegate to gnark's std/signature/eddsa package; this
// package stays curve-agnostic so block_finality.go does not need to name
// a concrete curve.
type VerifyFunc func(api frontend.API, pub PublicKey, sig Signature, message frontend.Variable) error

// Verify is a thin, named call site kept so every GRANDPA signature check
// in this module routes through one identifiable opaque boundary rather
// than being inlined at each call site.
func Verify(api frontend.API, verify VerifyFunc, pub PublicKey, sig Signature, message frontend.Variable) error {
	return verify(api, pub, sig, message)
}

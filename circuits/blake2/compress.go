package blake2

import "github.com/consensys/gnark/frontend"

// iv holds BLAKE2b's initialization vector (the fractional parts of
// sqrt(2)..sqrt(19), same constants as SHA-512).
var iv = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b,
	0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f,
	0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

// sigma is BLAKE2b's per-round message-word permutation table (12 rounds).
var sigma = [12][16]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
}

// g is BLAKE2b's mixing function, applied to four of the sixteen
// working-vector words plus two message words per round, per quarter-round call.
func g(api frontend.API, v *[16]Word64, a, b, c, d int, x, y Word64) {
	v[a] = Add(api, Add(api, v[a], v[b]), x)
	v[d] = RotateRight(Xor(api, v[d], v[a]), 32)
	v[c] = Add(api, v[c], v[d])
	v[b] = RotateRight(Xor(api, v[b], v[c]), 24)
	v[a] = Add(api, Add(api, v[a], v[b]), y)
	v[d] = RotateRight(Xor(api, v[d], v[a]), 16)
	v[c] = Add(api, v[c], v[d])
	v[b] = RotateRight(Xor(api, v[b], v[c]), 63)
}

// compress runs BLAKE2b's F compression function on one 128-byte block,
// given the running 8-word chain value h, the 16-word message block m, the
// byte counter t (low/high 64-bit halves) and the "last block" flag.
func compress(api frontend.API, h *[8]Word64, m [16]Word64, tLow, tHigh uint64, last bool) {
	var v [16]Word64
	copy(v[:8], h[:])
	for i := 0; i < 8; i++ {
		v[8+i] = ConstU64(api, iv[i])
	}
	v[12] = Xor(api, v[12], ConstU64(api, tLow))
	v[13] = Xor(api, v[13], ConstU64(api, tHigh))
	if last {
		v[14] = Xor(api, v[14], ConstU64(api, 0xFFFFFFFFFFFFFFFF))
	}

	for round := 0; round < 12; round++ {
		s := sigma[round]
		g(api, &v, 0, 4, 8, 12, m[s[0]], m[s[1]])
		g(api, &v, 1, 5, 9, 13, m[s[2]], m[s[3]])
		g(api, &v, 2, 6, 10, 14, m[s[4]], m[s[5]])
		g(api, &v, 3, 7, 11, 15, m[s[6]], m[s[7]])
		g(api, &v, 0, 5, 10, 15, m[s[8]], m[s[9]])
		g(api, &v, 1, 6, 11, 12, m[s[10]], m[s[11]])
		g(api, &v, 2, 7, 8, 13, m[s[12]], m[s[13]])
		g(api, &v, 3, 4, 9, 14, m[s[14]], m[s[15]])
	}

	for i := 0; i < 8; i++ {
		h[i] = Xor(api, Xor(api, h[i], v[i]), v[8+i])
	}
}

// Hasher accumulates message bytes and produces a 32-byte BLAKE2b-256
// digest, in the style of gnark's std/hash/sha2 Write/Sum API.
type Hasher struct {
	api    frontend.API
	h      [8]Word64
	buf    []frontend.Variable // pending byte wires, range [0,256)
	length uint64              // total bytes written so far
}

// NewHasher256 initializes chain value h for a 32-byte digest with no key
// (BLAKE2b's parameter block XORs digest-length and key-length into h[0]).
func NewHasher256(api frontend.API) *Hasher {
	hs := &Hasher{api: api}
	for i := 0; i < 8; i++ {
		hs.h[i] = ConstU64(api, iv[i])
	}
	// param block byte 0 = digest length (32), byte 1 = key length (0),
	// byte 2 = fanout (1), byte 3 = depth (1); all other bytes zero.
	const param0 = uint64(32) | uint64(0)<<8 | uint64(1)<<16 | uint64(1)<<24
	hs.h[0] = Xor(api, hs.h[0], ConstU64(api, param0))
	return hs
}

// Write appends byte wires (each asserted range [0,256) by the caller,
// typically via ByteTarget) to the pending input.
func (hs *Hasher) Write(bytes []frontend.Variable) {
	hs.buf = append(hs.buf, bytes...)
	hs.length += uint64(len(bytes))
}

// Sum finalizes the hash and returns the 32 digest byte wires: chain words
// h[0..3], each serialized little-endian as BLAKE2b specifies.
// The input length (hs.length) must be known at circuit-compile time
// (BLAKE2 pads/finalizes differently depending on whether the last block
// is full), matching every other fixed-shape target set in this package.
func (hs *Hasher) Sum() [32]frontend.Variable {
	api := hs.api
	const blockSize = 128
	total := len(hs.buf)
	numBlocks := (total + blockSize - 1) / blockSize
	if numBlocks == 0 {
		numBlocks = 1
	}

	padded := make([]frontend.Variable, numBlocks*blockSize)
	zero := frontend.Variable(0)
	for i := range padded {
		padded[i] = zero
	}
	copy(padded, hs.buf)

	var counted uint64
	for blk := 0; blk < numBlocks; blk++ {
		blockBytes := padded[blk*blockSize : (blk+1)*blockSize]
		var m [16]Word64
		for w := 0; w < 16; w++ {
			var wordBytes [8]frontend.Variable
			copy(wordBytes[:], blockBytes[w*8:w*8+8])
			m[w] = FromBytesLE(api, wordBytes)
		}

		isLast := blk == numBlocks-1
		if isLast {
			counted = hs.length
		} else {
			counted += blockSize
		}
		compress(api, &hs.h, m, counted, 0, isLast)
	}

	var out [32]frontend.Variable
	for i := 0; i < 4; i++ {
		wordBytes := hs.h[i].ToBytesLE(api)
		copy(out[i*8:i*8+8], wordBytes[:])
	}
	return out
}

// Sum256 is a convenience one-shot entry point equivalent to
// NewHasher256(api).Write(bytes).Sum().
func Sum256(api frontend.API, bytes []frontend.Variable) [32]frontend.Variable {
	hs := NewHasher256(api)
	hs.Write(bytes)
	return hs.Sum()
}

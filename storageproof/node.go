// Package storageproof parses Substrate's nibbled Patricia-Merkle trie
// node encoding off-circuit, producing the witness data the in-circuit
// storage-inclusion verifier (circuits/storage_inclusion.go) consumes.
// Grounded on original_source's
// storage_inclusion/storage_trie_proof/node_parser/header_parser.rs,
// which this package's HeaderDescriptor mirrors field for field.
package storageproof

import (
	"fmt"
)

// NodeKind distinguishes the trie node variants this bridge's storage
// proofs are built from: branches without an inline value, and leaves
// whose value is stored by hash (the two cases the original's
// HeaderDescriptor enumerates; other SCALE-encoded node kinds are out of
// scope for the proofs this bridge verifies).
type NodeKind int

const (
	KindBranchWithoutValue NodeKind = iota
	KindHashedValueLeaf
)

// HeaderDescriptor is the parsed form of a trie node's header byte(s): its
// kind, partial-key nibble count, and (for branches) the 2-byte children
// presence bitmap. Two header encodings exist for the nibble count: if it
// fits in the 6 bits available in the first header byte's low bits, it is
// encoded directly (non-max case); otherwise the first byte's low 6 bits
// are all 1s and subsequent bytes extend the count (max case), stopping at
// the first byte that is not itself 0xFF.
type HeaderDescriptor struct {
	Kind          NodeKind
	NibbleCount   int
	HeaderLen     int    // bytes consumed by the header (prefix + extension bytes)
	ChildrenMask  uint16 // only meaningful for KindBranchWithoutValue
}

const nibbleCountMaxInHeader = 63 // 6 bits: 0..62 direct, 63 means "read more"

// ParseHeader decodes a node header from data, returning how many bytes it
// consumed. The two top bits of the first byte select the node variant;
// this bridge's proofs only ever contain the two variants NodeKind
// enumerates, so any other top-bits pattern is a decode error.
func ParseHeader(data []byte) (HeaderDescriptor, error) {
	if len(data) == 0 {
		return HeaderDescriptor{}, fmt.Errorf("storageproof: empty node data")
	}
	first := data[0]
	top2 := first >> 6

	var kind NodeKind
	var lowBits int
	var headerByteWidth int // bits of `first` that carry the nibble count's low part
	switch top2 {
	case 0b10: // branch, no value
		kind = KindBranchWithoutValue
		lowBits = int(first & 0x3F)
		headerByteWidth = 6
	case 0b01: // leaf, hashed value (this bridge's proofs never carry inline leaf values)
		kind = KindHashedValueLeaf
		lowBits = int(first & 0x3F)
		headerByteWidth = 6
	default:
		return HeaderDescriptor{}, fmt.Errorf("storageproof: unsupported node variant bits %02b", top2)
	}
	_ = headerByteWidth

	pos := 1
	nibbleCount := lowBits
	if lowBits == nibbleCountMaxInHeader {
		// Max case: every extension byte valued 0xFF adds 255 and
		// continues; the first byte with a different value adds its own
		// value and ends the extension.
		for pos < len(data) {
			b := data[pos]
			pos++
			if b == 0xFF {
				nibbleCount += 255
				continue
			}
			nibbleCount += int(b)
			break
		}
	}

	desc := HeaderDescriptor{Kind: kind, NibbleCount: nibbleCount, HeaderLen: pos}

	if kind == KindBranchWithoutValue {
		if pos+2 > len(data) {
			return HeaderDescriptor{}, fmt.Errorf("storageproof: truncated children bitmap")
		}
		desc.ChildrenMask = uint16(data[pos]) | uint16(data[pos+1])<<8
		desc.HeaderLen += 2
	}
	return desc, nil
}

// PartialKeyNibbles extracts the NibbleCount nibbles following the header,
// given the node's full byte slice and the already-parsed header.
func (h HeaderDescriptor) PartialKeyNibbles(data []byte) ([]byte, error) {
	byteLen := (h.NibbleCount + 1) / 2
	start := h.HeaderLen
	if start+byteLen > len(data) {
		return nil, fmt.Errorf("storageproof: truncated partial key")
	}
	raw := data[start : start+byteLen]
	nibbles := make([]byte, 0, h.NibbleCount)
	oddStart := h.NibbleCount%2 == 1
	for i, b := range raw {
		if i == 0 && oddStart {
			nibbles = append(nibbles, b&0x0F)
			continue
		}
		nibbles = append(nibbles, b>>4, b&0x0F)
	}
	return nibbles[:h.NibbleCount], nil
}

// ChildPresent reports whether branch slot i (0..15) is occupied, per the
// 16-bit children bitmap.
func (h HeaderDescriptor) ChildPresent(i int) bool {
	return h.ChildrenMask&(1<<uint(i)) != 0
}

// Step is one decoded level of a storage-inclusion proof path: the node's
// header, its partial-key nibbles, and (for branches) which child the
// lookup key descends into next.
type Step struct {
	Header       HeaderDescriptor
	Nibbles      []byte
	NextChildIdx int // -1 at a leaf step
	RawNode      []byte
}

// WalkPath parses a full proof (an ordered list of raw trie node
// encodings from root to leaf) against a nibbled lookup key, returning one
// Step per node and erroring if the key's nibbles don't match a traversed
// partial key at any level — the off-circuit twin of the in-circuit
// partial_address threading in circuits/storage_inclusion.go.
func WalkPath(nodes [][]byte, keyNibbles []byte) ([]Step, error) {
	steps := make([]Step, 0, len(nodes))
	pos := 0
	for i, raw := range nodes {
		hd, err := ParseHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("storageproof: node %d: %w", i, err)
		}
		nib, err := hd.PartialKeyNibbles(raw)
		if err != nil {
			return nil, fmt.Errorf("storageproof: node %d: %w", i, err)
		}
		if pos+len(nib) > len(keyNibbles) {
			return nil, fmt.Errorf("storageproof: node %d: partial key overruns lookup key", i)
		}
		for j, n := range nib {
			if keyNibbles[pos+j] != n {
				return nil, fmt.Errorf("storageproof: node %d: partial key mismatch at nibble %d", i, pos+j)
			}
		}
		pos += len(nib)

		nextChild := -1
		if hd.Kind == KindBranchWithoutValue && pos < len(keyNibbles) {
			nextChild = int(keyNibbles[pos])
			pos++
		}
		steps = append(steps, Step{Header: hd, Nibbles: nib, NextChildIdx: nextChild, RawNode: raw})
	}
	if pos != len(keyNibbles) {
		return nil, fmt.Errorf("storageproof: lookup key not fully consumed (%d/%d nibbles)", pos, len(keyNibbles))
	}
	return steps, nil
}

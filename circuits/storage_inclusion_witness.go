package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"golang.org/x/crypto/blake2b"

	"github.com/subeth-bridge/core/storageproof"
)

// BuildStorageInclusionWitness assembles a StorageInclusionCircuit
// assignment from the off-circuit trie walk storageproof.WalkPath already
// performed, so the relayer never has to know this circuit's per-step byte
// layout directly (spec §4.E). nodes is the ordered list of raw trie node
// encodings from stateRoot down to the hashed-value leaf, and keyNibbles is
// the storage key's nibble path being proven.
func BuildStorageInclusionWitness(stateRoot [32]byte, nodes [][]byte, keyNibbles []byte) (*StorageInclusionCircuit, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("circuit: storage inclusion witness: no nodes")
	}
	if len(nodes) > MaxStorageProofDepth {
		return nil, fmt.Errorf("circuit: storage inclusion witness: %d nodes exceeds MaxStorageProofDepth %d", len(nodes), MaxStorageProofDepth)
	}

	if got := blake2Sum256(nodes[0]); got != stateRoot {
		return nil, fmt.Errorf("circuit: storage inclusion witness: root node hash %x does not match state root %x", got, stateRoot)
	}

	steps, err := storageproof.WalkPath(nodes, keyNibbles)
	if err != nil {
		return nil, fmt.Errorf("circuit: storage inclusion witness: %w", err)
	}

	w := &StorageInclusionCircuit{}
	var valueHash [32]byte
	for i, step := range steps {
		if len(step.RawNode) > MaxNodeLen {
			return nil, fmt.Errorf("circuit: storage inclusion witness: node %d length %d exceeds MaxNodeLen %d", i, len(step.RawNode), MaxNodeLen)
		}
		w.Active[i] = 1
		w.NodeLen[i] = len(step.RawNode)
		for b, v := range step.RawNode {
			w.NodeBytes[i][b] = v
		}

		switch step.Header.Kind {
		case storageproof.KindBranchWithoutValue:
			w.NextChildIdx[i] = step.NextChildIdx
		case storageproof.KindHashedValueLeaf:
			w.ValueAt = i
			offset := step.Header.HeaderLen + (step.Header.NibbleCount+1)/2
			if offset+32 > len(step.RawNode) {
				return nil, fmt.Errorf("circuit: storage inclusion witness: leaf node %d too short for value hash", i)
			}
			copy(valueHash[:], step.RawNode[offset:offset+32])
		}
	}
	// Padding steps (beyond len(steps)) are zero-valued: Active[i] == 0
	// and NodeBytes[i] all zero, matching Define's no-op treatment of
	// inactive steps. Unused byte slots and child indices are zeroed too.
	for i := range w.NodeBytes {
		if i >= len(steps) {
			w.Active[i] = 0
			w.NodeLen[i] = 0
		}
		if w.NextChildIdx[i] == nil {
			w.NextChildIdx[i] = 0
		}
		for b := range w.NodeBytes[i] {
			if w.NodeBytes[i][b] == nil {
				w.NodeBytes[i][b] = 0
			}
		}
	}

	w.StateRoot = bytesToVars(stateRoot)
	w.ValueHash = bytesToVars(valueHash)
	return w, nil
}

func bytesToVars(b [32]byte) [32]frontend.Variable {
	var out [32]frontend.Variable
	for i, v := range b {
		out[i] = v
	}
	return out
}

// blake2Sum256 is the native node-hash oracle WalkPath's caller uses to
// confirm a raw node's encoding actually matches the reference its parent
// claims, before handing it to BuildStorageInclusionWitness — mirrors
// computeValidatorSetHash's off-circuit counterpart
// (types.ComputeValidatorSetHash) for the same reason: the in-circuit
// BLAKE2-256 gadget (circuits/blake2) has no native twin of its own.
func blake2Sum256(data []byte) [32]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

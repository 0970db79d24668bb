package circuit

import (
	"crypto/sha256"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	gnark_test "github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

// sszBranchTestCircuit wraps VerifySSZBranch so it can be exercised
// directly, mirroring how Eth2EventInclusionCircuit calls it but with a
// single branch instead of three folded in sequence.
type sszBranchTestCircuit struct {
	Leaf   [32]frontend.Variable                     `gnark:",secret"`
	Branch [MaxSSZBranchDepth][32]frontend.Variable   `gnark:",secret"`
	Depth  frontend.Variable                          `gnark:",secret"`
	Index  frontend.Variable                          `gnark:",secret"`
	Root   [32]frontend.Variable                      `gnark:",public"`
}

func (c *sszBranchTestCircuit) Define(api frontend.API) error {
	h, err := sha2.New(api)
	if err != nil {
		return err
	}
	var branch [MaxSSZBranchDepth]Bytes32Target
	for i := range c.Branch {
		branch[i] = bytesToTarget(c.Branch[i])
	}
	VerifySSZBranch(api, h, bytesToTarget(c.Leaf), branch, c.Depth, c.Index, bytesToTarget(c.Root))
	return nil
}

func hashPairNative(a, b [32]byte) [32]byte {
	h := sha256.New()
	h.Write(a[:])
	h.Write(b[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// foldBranch is the native oracle for VerifySSZBranch/is_valid_merkle_branch
// (spec §4.F, §8): fold leaf up `depth` sibling steps along index's bit path.
func foldBranch(leaf [32]byte, branch [][32]byte, index uint64) [32]byte {
	value := leaf
	for i, sib := range branch {
		if (index>>uint(i))&1 == 1 {
			value = hashPairNative(sib, value)
		} else {
			value = hashPairNative(value, sib)
		}
	}
	return value
}

func toVars(b [32]byte) [32]frontend.Variable {
	var out [32]frontend.Variable
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

// TestVerifySSZBranch_IsSolved exercises a branch shallower than
// MaxSSZBranchDepth (e.g. a pre-Electra finality twig, depth 6): the
// unused upper levels of the fixed-size array must act as no-ops so a
// single compiled circuit can serve every fork's branch length.
func TestVerifySSZBranch_IsSolved(t *testing.T) {
	const depth = 6
	const index = 41 // consts.FinalityGIndex(ForkPreElectra).Index, as a path-bit integer

	var leaf [32]byte
	leaf[0] = 0xAB

	branch := make([][32]byte, depth)
	for i := range branch {
		branch[i][0] = byte(i + 1)
	}
	root := foldBranch(leaf, branch, index)

	witness := &sszBranchTestCircuit{}
	witness.Leaf = toVars(leaf)
	for i := 0; i < MaxSSZBranchDepth; i++ {
		if i < depth {
			witness.Branch[i] = toVars(branch[i])
		} else {
			witness.Branch[i] = toVars([32]byte{})
		}
	}
	witness.Depth = depth
	witness.Index = index
	witness.Root = toVars(root)

	err := gnark_test.IsSolved(&sszBranchTestCircuit{}, witness, ecc.BN254.ScalarField())
	require.NoError(t, err, "a correctly folded shallow branch must satisfy the circuit")
}

// TestVerifySSZBranch_WrongRootFails checks that an incorrect claimed
// root does not satisfy the circuit.
func TestVerifySSZBranch_WrongRootFails(t *testing.T) {
	const depth = 3
	const index = 5

	var leaf [32]byte
	leaf[0] = 0x01
	branch := make([][32]byte, depth)
	for i := range branch {
		branch[i][0] = byte(0x10 + i)
	}

	witness := &sszBranchTestCircuit{}
	witness.Leaf = toVars(leaf)
	for i := 0; i < MaxSSZBranchDepth; i++ {
		if i < depth {
			witness.Branch[i] = toVars(branch[i])
		} else {
			witness.Branch[i] = toVars([32]byte{})
		}
	}
	witness.Depth = depth
	witness.Index = index
	var wrongRoot [32]byte
	wrongRoot[0] = 0xFF
	witness.Root = toVars(wrongRoot)

	err := gnark_test.IsSolved(&sszBranchTestCircuit{}, witness, ecc.BN254.ScalarField())
	require.Error(t, err, "a mismatched root must not satisfy the circuit")
}

package consts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForkAt(t *testing.T) {
	net := NetworkConfig{Name: "test", EpochElectra: 10}
	require.Equal(t, ForkPreElectra, net.ForkAt(9*SlotsPerEpoch))
	require.Equal(t, ForkElectra, net.ForkAt(10*SlotsPerEpoch))
}

func TestGeneralizedIndexTableShiftsByOneDepthAtElectra(t *testing.T) {
	pre := CurrentSyncCommitteeGIndex(ForkPreElectra)
	post := CurrentSyncCommitteeGIndex(ForkElectra)
	require.Equal(t, pre.Depth+1, post.Depth)
	require.Equal(t, pre.Index, post.Index)
}

func TestSyncCommitteeSuperMajority(t *testing.T) {
	require.Equal(t, 342, SyncCommitteeSuperMajority)
}

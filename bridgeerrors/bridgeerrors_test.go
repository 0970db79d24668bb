package bridgeerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplayBackRequiredMatchesSentinelRegardlessOfPeriod(t *testing.T) {
	err := ReplayBackRequired(42)
	require.True(t, errors.Is(err, ReplayBackRequired(0)))
	require.True(t, errors.Is(err, ReplayBackRequired(999)))
	require.False(t, errors.Is(err, ErrStaleUpdate))
}

func TestLightClientErrorKindClassification(t *testing.T) {
	transient := []*LightClientError{
		ErrNoMatchingMerkleRoot, ErrTransactionPending,
		ErrEndpointUnavailable, ErrDecodeFailure,
	}
	for _, e := range transient {
		require.Equal(t, KindTransient, e.Kind(), e.Code)
	}

	fatal := []*LightClientError{
		ErrLowVoteCount, ErrInvalidFinalityBranch, ErrInvalidCommitteeBranch,
		ErrInvalidSignature, ErrStaleUpdate, ErrForkMismatch, ErrNotStarted,
		ErrAlreadyStarted, ErrHeaderChainBroken, ErrBatchEmpty,
	}
	for _, e := range fatal {
		require.Equal(t, KindFatal, e.Kind(), e.Code)
	}
}

func TestProofSystemErrorUnwrapsAndFormats(t *testing.T) {
	inner := errors.New("unsatisfied constraint")
	err := NewInvalidWitness("block_finality", inner)
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "invalid witness(block_finality)")

	vErr := NewVerificationFailed("storage_inclusion", inner)
	require.ErrorIs(t, vErr, inner)
	require.Contains(t, vErr.Error(), "verification failed(storage_inclusion)")
}

func TestSentinelErrorsAreDistinctByCode(t *testing.T) {
	require.False(t, errors.Is(ErrStaleUpdate, ErrForkMismatch))
	require.True(t, errors.Is(ErrStaleUpdate, ErrStaleUpdate))
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelop/worldopt/internal/world"
)

func TestCompact_SingleSnapshotRemains(t *testing.T) {
	w := scenarioWorld()
	discarded := compact(w)

	assert.Equal(t, 4, discarded)
	require.Len(t, w.Revisions, 1)
	rev := w.Revisions[0]
	assert.Equal(t, 1, rev.Index)
	assert.Equal(t, world.RevisionSnapshot, rev.Kind)
	require.NotNil(t, rev.Snapshot)
	assert.Empty(t, rev.Ops)
}

func TestCompact_SnapshotMaterializesLiveState(t *testing.T) {
	w := scenarioWorld()
	// A post-freeze-style edit before compaction must be captured.
	w.Grids[0].Bricks[0].Physics.Frozen = true

	compact(w)

	snap := w.Revisions[0].Snapshot
	eq, err := snap.Equal(world.Capture(w))
	require.NoError(t, err)
	assert.True(t, eq)
	assert.True(t, snap.Grids[0].Bricks[0].Physics.Frozen)
}

func TestCompact_RebasesAddedIn(t *testing.T) {
	w := scenarioWorld()
	compact(w)

	for _, g := range w.Grids {
		for _, b := range g.Bricks {
			assert.Equal(t, 1, b.AddedIn)
		}
	}
	assert.Equal(t, 1, w.Joints[0].AddedIn)

	// The retained snapshot agrees with the re-based graph.
	snap := w.Revisions[0].Snapshot
	for _, gs := range snap.Grids {
		for _, bs := range gs.Bricks {
			assert.Equal(t, 1, bs.AddedIn)
		}
	}
	assert.Equal(t, 1, snap.Joints[0].AddedIn)
}

func TestCompact_EmptyHistory(t *testing.T) {
	w := scenarioWorld()
	w.Revisions = nil

	discarded := compact(w)
	assert.Zero(t, discarded)
	assert.Len(t, w.Revisions, 1, "compaction establishes the snapshot revision")
}

func TestCompact_Idempotent(t *testing.T) {
	w := scenarioWorld()
	compact(w)
	first, err := w.Revisions[0].Snapshot.Digest()
	require.NoError(t, err)

	discarded := compact(w)
	assert.Zero(t, discarded)
	second, err := w.Revisions[0].Snapshot.Digest()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompact_FoldedChainMatchesPreCompactionState(t *testing.T) {
	// Build a chain whose fold equals the live graph, then verify
	// compaction retains exactly that state.
	w := scenarioWorld()
	w.Revisions = []*world.Revision{
		{Index: 1, Kind: world.RevisionSnapshot, Snapshot: world.Capture(w)},
	}

	folded, err := world.FoldRevisions(w.Revisions)
	require.NoError(t, err)

	compact(w)

	// Fold result predates the AddedIn re-base; align it for the
	// comparison, since the re-base is the one sanctioned difference.
	for gi := range folded.Grids {
		for bi := range folded.Grids[gi].Bricks {
			folded.Grids[gi].Bricks[bi].AddedIn = 1
		}
	}
	for ji := range folded.Joints {
		folded.Joints[ji].AddedIn = 1
	}

	eq, err := folded.Equal(w.Revisions[0].Snapshot)
	require.NoError(t, err)
	assert.True(t, eq)
}

package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "histograph/errors"
)

// Historical snapshots must match a full fold of the log regardless of which
// checkpoint the replay starts from.
func TestSnapshotAtMatchesFold(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := newTestStore(t, Options{Directed: true, CheckpointInterval: 8, SnapshotCacheSize: 4})

	const n = 50
	for i := 0; i < n; i++ {
		_, err := s.AddVertex(ctx, VertexID(fmt.Sprintf("v%02d", i)), nil)
		require.NoError(err)
	}

	for _, version := range []uint64{0, 1, 7, 8, 9, 16, 31, 40, 50} {
		snap, err := s.SnapshotAt(version)
		require.NoError(err)
		require.Equal(version, snap.Version())
		require.EqualValues(version, snap.NumVertices(), "version %d should hold %d vertices", version, version)
	}
}

func TestSnapshotAtUnknownVersion(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := newTestStore(t, Options{Directed: true})

	_, err := s.AddVertex(ctx, "a", nil)
	require.NoError(err)

	_, err = s.SnapshotAt(2)
	require.ErrorIs(err, apperrors.ErrUnknownVersion)

	snap, err := s.SnapshotAt(1)
	require.NoError(err)
	require.Same(s.Current(), snap, "latest version should serve the published snapshot")
}

// Published snapshots stay frozen: a snapshot taken before a write never
// reflects it.
func TestSnapshotImmutableUnderWrites(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := newTestStore(t, Options{Directed: true})

	_, err := s.AddVertex(ctx, "a", nil)
	require.NoError(err)

	pinned := s.Current()
	require.EqualValues(1, pinned.Version())

	_, err = s.AddVertex(ctx, "b", nil)
	require.NoError(err)
	_, err = s.AddEdge(ctx, "a", "b", nil)
	require.NoError(err)

	require.EqualValues(1, pinned.Version())
	require.False(pinned.HasVertex("b"))
	require.Equal(0, pinned.NumEdges())

	require.EqualValues(3, s.Current().Version())
}

// Replay cost is bounded by the checkpoint interval: a historical read right
// after a checkpoint replays at most interval-1 events. This exercises the
// checkpoint cache rather than timing it.
func TestCheckpointReplayAfterRemovals(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := newTestStore(t, Options{Directed: true, CheckpointInterval: 4, SnapshotCacheSize: 8})

	_, err := s.AddVertex(ctx, "a", nil)
	require.NoError(err)
	_, err = s.AddVertex(ctx, "b", nil)
	require.NoError(err)
	_, err = s.AddEdge(ctx, "a", "b", nil)
	require.NoError(err)
	_, err = s.RemoveEdge(ctx, "a", "b")
	require.NoError(err) // version 4, checkpointed
	_, err = s.RemoveVertex(ctx, "b")
	require.NoError(err)
	_, err = s.AddVertex(ctx, "c", nil)
	require.NoError(err)

	snap, err := s.SnapshotAt(4)
	require.NoError(err)
	require.True(snap.HasVertex("b"))
	require.Equal(0, snap.NumEdges())

	snap, err = s.SnapshotAt(5)
	require.NoError(err)
	require.False(snap.HasVertex("b"))

	snap, err = s.SnapshotAt(3)
	require.NoError(err)
	require.Equal(1, snap.NumEdges())
}

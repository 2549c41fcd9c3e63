package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"histograph/graph"
)

func TestBadgerStoreRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store, err := NewBadgerStore(t.TempDir())
	require.NoError(err)
	defer store.Close()

	events := []graph.Event{
		{Version: 1, Kind: graph.EventAddVertex, VertexID: "a", Attrs: graph.Attrs{"color": "red"}},
		{Version: 2, Kind: graph.EventAddVertex, VertexID: "b"},
		{Version: 3, Kind: graph.EventAddEdge, From: "a", To: "b"},
		{Version: 4, Kind: graph.EventRemoveEdge, From: "a", To: "b"},
	}
	for _, e := range events {
		require.NoError(store.AppendEvent(ctx, e))
	}

	loaded, err := store.LoadEvents(ctx)
	require.NoError(err)
	require.Equal(events, loaded, "events must load in version order with payloads intact")
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	require.NoError(err)
	require.NoError(store.AppendEvent(ctx, graph.Event{Version: 1, Kind: graph.EventAddVertex, VertexID: "a"}))
	require.NoError(store.Close())

	reopened, err := NewBadgerStore(dir)
	require.NoError(err)
	defer reopened.Close()

	loaded, err := reopened.LoadEvents(ctx)
	require.NoError(err)
	require.Len(loaded, 1)
	require.Equal(graph.VertexID("a"), loaded[0].VertexID)
}

func TestBadgerStoreEmptyLoad(t *testing.T) {
	require := require.New(t)

	store, err := NewBadgerStore(t.TempDir())
	require.NoError(err)
	defer store.Close()

	loaded, err := store.LoadEvents(context.Background())
	require.NoError(err)
	require.Empty(loaded)
}

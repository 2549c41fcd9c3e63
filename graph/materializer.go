package graph

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	apperrors "histograph/errors"
)

// Materializer derives graph snapshots from the event log. It keeps the
// latest snapshot behind an atomic pointer for lock-free reads and caches a
// checkpoint every checkpointInterval versions so that historical reads
// replay at most checkpointInterval events.
type Materializer struct {
	log                *EventLog
	checkpointInterval uint64
	checkpoints        *lru.Cache // version (uint64) -> *Snapshot
	current            atomic.Pointer[Snapshot]
	logger             *zap.Logger
}

func newMaterializer(log *EventLog, directed bool, checkpointInterval uint64, cacheSize int, logger *zap.Logger) (*Materializer, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to create checkpoint cache")
	}

	m := &Materializer{
		log:                log,
		checkpointInterval: checkpointInterval,
		checkpoints:        cache,
		logger:             logger,
	}
	m.current.Store(newSnapshot(directed))
	return m, nil
}

// Current returns the latest published snapshot. Never blocks on writers.
func (m *Materializer) Current() *Snapshot {
	return m.current.Load()
}

// advance applies one freshly appended event and publishes the resulting
// snapshot. Only the store's serialized append path may call it, so there is
// never more than one writer.
func (m *Materializer) advance(e Event) *Snapshot {
	next := m.Current().clone()
	next.apply(e)
	m.current.Store(next)

	if m.checkpointInterval > 0 && next.version%m.checkpointInterval == 0 {
		m.checkpoints.Add(next.version, next)
		m.logger.Debug("Cached snapshot checkpoint",
			zap.Uint64("version", next.version),
			zap.Int("vertices", next.NumVertices()),
			zap.Int("edges", next.NumEdges()))
	}
	return next
}

// SnapshotAt returns the graph state as of the given version, replaying
// events forward from the nearest cached checkpoint. Fails with
// ErrUnknownVersion if the version exceeds the log length.
func (m *Materializer) SnapshotAt(version uint64) (*Snapshot, error) {
	current := m.Current()
	if version > current.version {
		// The published snapshot trails the log only inside the append
		// critical section, so current.version is the log length here.
		return nil, apperrors.WrapErrorf(apperrors.ErrUnknownVersion, "version %d, log length %d", version, current.version)
	}
	if version == current.version {
		return current, nil
	}

	base := m.nearestCheckpoint(version)
	reader, err := m.log.Read(base.version, version)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err.Error())
	}

	snap := base.clone()
	for {
		e, ok := reader.Next()
		if !ok {
			break
		}
		snap.apply(e)
	}
	if snap.version != version {
		return nil, apperrors.WrapErrorf(apperrors.ErrInternal, "replay reached version %d, wanted %d", snap.version, version)
	}
	return snap, nil
}

// nearestCheckpoint returns the cached snapshot with the highest version not
// exceeding the target, falling back to the empty graph.
func (m *Materializer) nearestCheckpoint(version uint64) *Snapshot {
	if m.checkpointInterval > 0 {
		for cp := version - version%m.checkpointInterval; cp > 0; cp -= m.checkpointInterval {
			if cached, ok := m.checkpoints.Get(cp); ok {
				return cached.(*Snapshot)
			}
		}
	}
	return newSnapshot(m.Current().directed)
}

package graph

import (
	"context"
	"sync"

	"go.uber.org/zap"

	apperrors "histograph/errors"
)

const (
	// DefaultCheckpointInterval is the number of versions between cached
	// checkpoints when none is configured.
	DefaultCheckpointInterval = 64

	// DefaultSnapshotCacheSize is the default capacity of the checkpoint LRU.
	DefaultSnapshotCacheSize = 32
)

// EventSink receives every committed event, e.g. a durable log on disk.
// Sink failures never roll back a committed append; they are logged and the
// in-memory log remains authoritative for the process lifetime.
type EventSink interface {
	AppendEvent(ctx context.Context, e Event) error
}

// Options configures a Store at creation time.
type Options struct {
	// Directed fixes the edge-direction semantics for the store's lifetime.
	Directed bool

	// CheckpointInterval is the number of versions between cached
	// checkpoints; 0 selects DefaultCheckpointInterval.
	CheckpointInterval uint64

	// SnapshotCacheSize bounds the checkpoint LRU; 0 selects
	// DefaultSnapshotCacheSize.
	SnapshotCacheSize int

	// Sink, if non-nil, receives every committed event.
	Sink EventSink
}

// Store is the version coordinator: it owns the event log, serializes
// writers through an exclusive write ticket, and publishes immutable
// snapshots for readers. A Store is an explicit handle, never a hidden
// global, so independent instances can coexist in tests.
type Store struct {
	mu       sync.Mutex // guards the append path; at most one ticket outstanding
	log      *EventLog
	mat      *Materializer
	directed bool
	sink     EventSink
	logger   *zap.Logger
}

// New creates an empty store.
func New(logger *zap.Logger, opts Options) (*Store, error) {
	if opts.CheckpointInterval == 0 {
		opts.CheckpointInterval = DefaultCheckpointInterval
	}
	if opts.SnapshotCacheSize == 0 {
		opts.SnapshotCacheSize = DefaultSnapshotCacheSize
	}

	log := NewEventLog()
	mat, err := newMaterializer(log, opts.Directed, opts.CheckpointInterval, opts.SnapshotCacheSize, logger)
	if err != nil {
		return nil, err
	}

	return &Store{
		log:      log,
		mat:      mat,
		directed: opts.Directed,
		sink:     opts.Sink,
		logger:   logger,
	}, nil
}

// Directed reports the store's edge-direction semantics.
func (s *Store) Directed() bool {
	return s.directed
}

// Version returns the current version, i.e. the log length.
func (s *Store) Version() uint64 {
	return s.mat.Current().Version()
}

// Current returns the latest consistent snapshot. The returned snapshot is
// immutable and stays valid regardless of concurrent appends.
func (s *Store) Current() *Snapshot {
	return s.mat.Current()
}

// SnapshotAt returns the consistent snapshot at the given version, or
// ErrUnknownVersion if the version exceeds the log length. The returned
// snapshot is immutable; holding it pins that view for as long as needed.
func (s *Store) SnapshotAt(version uint64) (*Snapshot, error) {
	return s.mat.SnapshotAt(version)
}

// Events returns a restartable cursor over the committed events advancing
// the graph from version `from` to version `to`.
func (s *Store) Events(from, to uint64) (*LogReader, error) {
	return s.log.Read(from, to)
}

// WriteTicket grants exclusive append permission. Exactly one ticket can be
// outstanding; it must be resolved with Commit or Abort.
type WriteTicket struct {
	store    *Store
	resolved bool
}

// BeginWrite blocks until the append path is free and returns the ticket.
func (s *Store) BeginWrite() *WriteTicket {
	s.mu.Lock()
	return &WriteTicket{store: s}
}

// Abort releases the ticket without mutating the log.
func (t *WriteTicket) Abort() {
	if t.resolved {
		return
	}
	t.resolved = true
	t.store.mu.Unlock()
}

// Commit validates the event against the current snapshot, appends it,
// advances the materialized snapshot, forwards it to the sink, and releases
// the ticket. On validation failure the log and snapshot are untouched.
// The lock covers only validation, version assignment, and the sink append;
// response marshaling toward the client happens outside it.
func (t *WriteTicket) Commit(ctx context.Context, e Event) (uint64, error) {
	if t.resolved {
		return 0, apperrors.WrapError(apperrors.ErrInternal, "write ticket already resolved")
	}
	defer func() {
		t.resolved = true
		t.store.mu.Unlock()
	}()

	s := t.store
	if err := s.mat.Current().validate(e); err != nil {
		return 0, err
	}

	version := s.log.Append(e)
	e.Version = version

	if s.sink != nil {
		// The append is already committed: a client disconnect must not
		// abort the sink write, and a sink failure never rolls it back.
		if err := s.sink.AppendEvent(context.WithoutCancel(ctx), e); err != nil {
			s.logger.Warn("Event sink append failed",
				zap.Uint64("version", version),
				zap.String("kind", e.Kind.String()),
				zap.Error(err))
		}
	}

	s.mat.advance(e)
	s.logger.Debug("Committed event",
		zap.Uint64("version", version),
		zap.String("kind", e.Kind.String()))
	return version, nil
}

// AddVertex appends an AddVertex event. Fails with ErrConflict if the id is
// already present.
func (s *Store) AddVertex(ctx context.Context, id VertexID, attrs Attrs) (uint64, error) {
	ticket := s.BeginWrite()
	return ticket.Commit(ctx, Event{Kind: EventAddVertex, VertexID: id, Attrs: attrs})
}

// RemoveVertex appends a RemoveVertex event. Fails with
// ErrIntegrityViolation while incident edges remain, ErrNotFound if the
// vertex is absent.
func (s *Store) RemoveVertex(ctx context.Context, id VertexID) (uint64, error) {
	ticket := s.BeginWrite()
	return ticket.Commit(ctx, Event{Kind: EventRemoveVertex, VertexID: id})
}

// AddEdge appends an AddEdge event. Fails with ErrIntegrityViolation if an
// endpoint is absent, ErrConflict if the edge already exists.
func (s *Store) AddEdge(ctx context.Context, from, to VertexID, attrs Attrs) (uint64, error) {
	ticket := s.BeginWrite()
	return ticket.Commit(ctx, Event{Kind: EventAddEdge, From: from, To: to, Attrs: attrs})
}

// RemoveEdge appends a RemoveEdge event. Fails with ErrNotFound if the edge
// is absent.
func (s *Store) RemoveEdge(ctx context.Context, from, to VertexID) (uint64, error) {
	ticket := s.BeginWrite()
	return ticket.Commit(ctx, Event{Kind: EventRemoveEdge, From: from, To: to})
}

// Restore replays previously persisted events into an empty store, e.g. at
// process start. Events pass the same validation as live appends but are not
// forwarded to the sink, since the sink already holds them.
func (s *Store) Restore(events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.log.Len() != 0 {
		return apperrors.WrapError(apperrors.ErrInternal, "restore into non-empty store")
	}

	for _, e := range events {
		if err := s.mat.Current().validate(e); err != nil {
			return apperrors.WrapErrorf(err, "persisted event %d (%s) rejected", e.Version, e.Kind)
		}
		version := s.log.Append(e)
		if e.Version != 0 && e.Version != version {
			return apperrors.WrapErrorf(apperrors.ErrInternal, "persisted event carries version %d, log assigned %d", e.Version, version)
		}
		e.Version = version
		s.mat.advance(e)
	}

	s.logger.Info("Restored event log",
		zap.Int("events", len(events)),
		zap.Uint64("version", s.log.Len()))
	return nil
}

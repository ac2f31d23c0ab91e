// Package state holds the application store: the persisted user and jobs
// slices, a single dispatch entry point and change subscriptions.
package state

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/database"
	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
)

// Version is the schema version written with every persisted payload.
const Version = 1

// DefaultKey is the storage key of the persisted root.
const DefaultKey = "persist:root"

const persistTimeout = 5 * time.Second

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = stderrors.New("store is closed")

// RootState is the whole store. Rev increases with every dispatch and is not
// persisted.
type RootState struct {
	Version int       `json:"version"`
	User    UserState `json:"user"`
	Jobs    JobsState `json:"jobs"`
	Rev     uint64    `json:"-"`
}

// Reduce applies a to s. It is pure and total.
func Reduce(s RootState, a Action) RootState {
	s.User = reduceUser(s.User, a)
	s.Jobs = reduceJobs(s.Jobs, a)
	return s
}

// Listener is notified with the state produced by each dispatch, in Rev
// order. A listener must not call Dispatch synchronously.
type Listener func(RootState)

// Options configures a Store.
type Options struct {
	// Key is the storage key; DefaultKey when empty.
	Key string
	// Catalog seeds the jobs slice when nothing is rehydrated.
	Catalog []model.Job
	Logger  *zap.Logger
}

// Store is the single writer of RootState.
type Store struct {
	mu        sync.Mutex
	state     RootState
	listeners map[int]Listener
	nextID    int
	closed    bool

	db      database.Store
	key     string
	initial RootState
	logger  *zap.Logger
	tracer  trace.Tracer

	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notified   uint64 // last Rev delivered to listeners

	writes chan RootState
	done   chan struct{}
}

// New builds a store and rehydrates it from db. db may be nil for a purely
// in-memory store. Rehydration never fails: unreadable payloads fall back to
// the initial state.
func New(ctx context.Context, db database.Store, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	initial := RootState{
		Version: Version,
		User:    InitialUserState(),
		Jobs:    InitialJobsState(opts.Catalog),
	}
	s := &Store{
		listeners: make(map[int]Listener),
		db:        db,
		key:       key,
		initial:   initial,
		logger:    logger.Named("store"),
		tracer:    otel.Tracer("jobdesk/state"),
		writes:    make(chan RootState, 1),
		done:      make(chan struct{}),
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	s.state = s.rehydrate(ctx)
	go s.writer()
	return s
}

// GetState returns the current state. The returned value shares backing
// arrays with the store; callers must treat it as read-only.
func (s *Store) GetState() RootState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a, notifies listeners and schedules a write-through.
// A reducer panic is reported as an action failure and leaves state unchanged.
func (s *Store) Dispatch(a Action) (err error) {
	_, span := s.tracer.Start(context.Background(), "Store.Dispatch",
		trace.WithAttributes(attribute.String("action", a.Type())))
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ActionFailed(a.Type(), ErrClosed)
	}
	next, err := s.reduce(a)
	if err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		s.logger.Error("dispatch failed", zap.String("action", a.Type()), zap.Error(err))
		return err
	}
	next.Rev = s.state.Rev + 1
	s.state = next
	s.enqueue(next)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.notify(next, listeners)
	return nil
}

// notify delivers next once every earlier revision has been delivered.
// Dispatches racing on separate goroutines are observed in Rev order.
func (s *Store) notify(next RootState, listeners []Listener) {
	s.notifyMu.Lock()
	for s.notified != next.Rev-1 {
		s.notifyCond.Wait()
	}
	s.notifyMu.Unlock()

	defer func() {
		s.notifyMu.Lock()
		s.notified = next.Rev
		s.notifyCond.Broadcast()
		s.notifyMu.Unlock()
	}()
	for _, l := range listeners {
		l(next)
	}
}

func (s *Store) reduce(a Action) (next RootState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.ActionFailed(a.Type(), fmt.Errorf("reducer panic: %v", r))
		}
	}()
	return Reduce(s.state, a), nil
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close stops accepting dispatches and waits for the last pending write.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.writes)
	s.mu.Unlock()
	<-s.done
	return nil
}

// enqueue hands st to the writer, replacing any snapshot it has not picked
// up yet. Called with s.mu held.
func (s *Store) enqueue(st RootState) {
	if s.db == nil {
		return
	}
	select {
	case s.writes <- st:
		return
	default:
	}
	select {
	case <-s.writes:
	default:
	}
	s.writes <- st
}

func (s *Store) writer() {
	defer close(s.done)
	for st := range s.writes {
		s.persist(st)
	}
}

type payload struct {
	Version int       `json:"version"`
	User    UserState `json:"user"`
	Jobs    JobsState `json:"jobs"`
}

// persist writes st. Failures are logged and dropped.
func (s *Store) persist(st RootState) {
	data, err := json.Marshal(payload{Version: Version, User: st.User, Jobs: st.Jobs})
	if err != nil {
		s.logger.Warn("encode state", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.db.SaveState(ctx, s.key, data); err != nil {
		s.logger.Warn("persist state",
			zap.String("key", s.key),
			zap.Error(errors.Persistence("write-through", err)))
		return
	}
	s.logger.Debug("state persisted", zap.Uint64("rev", st.Rev), zap.Int("bytes", len(data)))
}

type rawPayload struct {
	Version int             `json:"version"`
	User    json.RawMessage `json:"user"`
	Jobs    json.RawMessage `json:"jobs"`
}

// rehydrate loads the persisted root. Each domain is decoded on top of its
// defaults, so fields missing from an older payload keep their defaults and a
// corrupt domain only resets itself.
func (s *Store) rehydrate(ctx context.Context) RootState {
	st := s.initialState()
	if s.db == nil {
		return st
	}
	data, err := s.db.LoadState(ctx, s.key)
	if stderrors.Is(err, database.ErrNotFound) {
		s.logger.Info("no persisted state, starting fresh", zap.String("key", s.key))
		return st
	}
	if err != nil {
		s.logger.Warn("rehydrate failed, starting fresh",
			zap.String("key", s.key),
			zap.Error(errors.Persistence("load state", err)))
		return st
	}

	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("persisted state is corrupt, starting fresh", zap.Error(err))
		return st
	}
	if raw.Version > Version {
		s.logger.Warn("persisted state is newer than this build",
			zap.Int("version", raw.Version), zap.Int("supported", Version))
	}

	user := InitialUserState()
	if len(raw.User) > 0 {
		if err := json.Unmarshal(raw.User, &user); err != nil {
			s.logger.Warn("persisted user slice is corrupt, using defaults", zap.Error(err))
			user = InitialUserState()
		}
	}
	jobs := s.initialState().Jobs
	if len(raw.Jobs) > 0 {
		if err := json.Unmarshal(raw.Jobs, &jobs); err != nil {
			s.logger.Warn("persisted jobs slice is corrupt, using defaults", zap.Error(err))
			jobs = s.initialState().Jobs
		}
	}
	normalize(&user, &jobs)
	return Reduce(st, rehydrate{User: user, Jobs: jobs})
}

func (s *Store) initialState() RootState {
	st := s.initial
	st.User = InitialUserState()
	st.Jobs = InitialJobsState(s.initial.Jobs.Catalog)
	return st
}

// normalize repairs payloads written by hand or by older builds: nil lists
// become empty and duplicate ids are dropped.
func normalize(u *UserState, j *JobsState) {
	saved := make([]SavedEntry, 0, len(u.Saved))
	for _, e := range u.Saved {
		if e.Job.ID != "" && indexSaved(saved, e.Job.ID) < 0 {
			saved = append(saved, e)
		}
	}
	u.Saved = saved
	applied := make([]AppliedEntry, 0, len(u.Applied))
	for _, e := range u.Applied {
		if e.Job.ID == "" || indexApplied(applied, e.Job.ID) >= 0 {
			continue
		}
		if !e.Status.Valid() {
			e.Status = model.StatusApplicationSent
		}
		applied = append(applied, e)
	}
	u.Applied = applied
	j.Catalog = dedupe(cloneJobs(j.Catalog))
}

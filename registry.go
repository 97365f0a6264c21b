package rotlog

import (
	"context"
	stderrs "errors"
	"slices"
	"sync"

	smerrors "github.com/Station-Manager/errors"
	"go.uber.org/atomic"
)

// ContextID identifies an execution context (a goroutine, a request, a
// task) that may log to its own destination. It is chosen by the caller.
type ContextID uint64

// NoContext selects the process-wide default state.
const NoContext ContextID = 0

// Registry maps context ids to override states and holds the process-wide
// default. Lookups and writes take read locks; replacing or removing a
// state takes the write lock, so a swap waits for writes already in flight
// on the state being replaced.
type Registry struct {
	mu  sync.RWMutex
	def atomic.Pointer[State]

	ctxMu     sync.RWMutex
	overrides map[ContextID]*State
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[ContextID]*State)}
}

// Default returns the process-wide state, or nil.
func (r *Registry) Default() *State {
	return r.def.Load()
}

// Override returns the state registered for id, or nil.
func (r *Registry) Override(id ContextID) *State {
	if id == NoContext {
		return nil
	}
	r.ctxMu.RLock()
	defer r.ctxMu.RUnlock()
	return r.overrides[id]
}

// Resolve returns the override for id when there is one and the default
// otherwise. The result may be nil.
func (r *Registry) Resolve(id ContextID) *State {
	if st := r.Override(id); st != nil {
		return st
	}
	return r.Default()
}

// Do runs fn on the state resolved for id while holding the lock that
// guards its slot. It reports false without calling fn when no state is
// reachable. fn must not call back into the registry; a nested read lock
// deadlocks once a swap is waiting for the write lock.
func (r *Registry) Do(id ContextID, fn func(*State) error) (bool, error) {
	if id != NoContext {
		r.ctxMu.RLock()
		if st, ok := r.overrides[id]; ok {
			defer r.ctxMu.RUnlock()
			return true, fn(st)
		}
		r.ctxMu.RUnlock()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.def.Load()
	if st == nil {
		return false, nil
	}
	return true, fn(st)
}

// SetDefault installs st (which may be nil) as the default and returns the
// previous one. The caller closes the returned state.
func (r *Registry) SetDefault(st *State) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.def.Swap(st)
}

// SetOverride registers st for id and returns the state it replaced. The
// caller closes the returned state.
func (r *Registry) SetOverride(id ContextID, st *State) (*State, error) {
	const op smerrors.Op = "rotlog.Registry.SetOverride"
	if id == NoContext {
		return nil, configError(op, nil, errMsgNoContext)
	}
	if st == nil {
		return nil, configError(op, nil, errMsgNilConfig)
	}

	r.ctxMu.Lock()
	defer r.ctxMu.Unlock()
	old := r.overrides[id]
	r.overrides[id] = st
	return old, nil
}

// ClearOverride removes and closes the state registered for id. It reports
// false when there was none.
func (r *Registry) ClearOverride(id ContextID) (bool, error) {
	r.ctxMu.Lock()
	st, ok := r.overrides[id]
	delete(r.overrides, id)
	r.ctxMu.Unlock()

	if !ok {
		return false, nil
	}
	return true, st.Close()
}

// Contexts returns the ids that currently have an override, in ascending
// order.
func (r *Registry) Contexts() []ContextID {
	r.ctxMu.RLock()
	ids := make([]ContextID, 0, len(r.overrides))
	for id := range r.overrides {
		ids = append(ids, id)
	}
	r.ctxMu.RUnlock()
	slices.Sort(ids)
	return ids
}

// CloseAll removes and closes every override and then the default.
func (r *Registry) CloseAll() error {
	r.ctxMu.Lock()
	overrides := r.overrides
	r.overrides = make(map[ContextID]*State)
	r.ctxMu.Unlock()

	var errs []error
	for _, st := range overrides {
		errs = append(errs, st.Close())
	}
	if def := r.SetDefault(nil); def != nil {
		errs = append(errs, def.Close())
	}
	return stderrs.Join(errs...)
}

type contextIDKey struct{}

// WithContextID returns a copy of ctx carrying id.
func WithContextID(ctx context.Context, id ContextID) context.Context {
	return context.WithValue(ctx, contextIDKey{}, id)
}

// ContextIDFrom returns the id stored by WithContextID, or NoContext.
func ContextIDFrom(ctx context.Context) ContextID {
	if ctx == nil {
		return NoContext
	}
	if id, ok := ctx.Value(contextIDKey{}).(ContextID); ok {
		return id
	}
	return NoContext
}

package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"
)

// Effect performs the side effect an action asks for and may answer with a
// follow-up action. Effects run concurrently; follow-ups are dispatched in
// the order they are produced.
type Effect struct {
	Name  string
	Match func(Action) bool
	Run   func(ctx context.Context, action Action, snapshot AppState) Action
}

// On builds an Effect for actions of type A
func On[A Action](name string, run func(ctx context.Context, action A, snapshot AppState) Action) Effect {
	return Effect{
		Name: name,
		Match: func(a Action) bool {
			_, ok := a.(A)
			return ok
		},
		Run: func(ctx context.Context, a Action, snapshot AppState) Action {
			return run(ctx, a.(A), snapshot)
		},
	}
}

// Store holds AppState. Dispatch reduces under one lock so actions apply
// strictly in dispatch order.
type Store struct {
	logger *slog.Logger

	mu      sync.Mutex
	state   AppState
	effects []Effect
	subs    map[chan AppState]struct{}
	closed  bool

	ctx     context.Context
	cancel  context.CancelFunc
	running conc.WaitGroup
}

// NewStore creates a store with the zero AppState
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		logger: logger,
		subs:   make(map[chan AppState]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Use registers effects. Call before the first Dispatch.
func (s *Store) Use(effects ...Effect) {
	s.mu.Lock()
	s.effects = append(s.effects, effects...)
	s.mu.Unlock()
}

// State returns the current snapshot
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a, publishes the new state and starts matching effects
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("dispatch after close", "action", a.Type())
		return
	}
	s.state = Reduce(s.state, a)
	snapshot := s.state
	s.publish(snapshot)

	var matched []Effect
	for _, e := range s.effects {
		if e.Match(a) {
			matched = append(matched, e)
		}
	}
	// Start effects while still holding the lock so Wait cannot miss them.
	for _, e := range matched {
		s.running.Go(func() {
			s.logger.Debug("effect started", "effect", e.Name, "action", a.Type())
			if next := e.Run(s.ctx, a, snapshot); next != nil {
				s.Dispatch(next)
			}
		})
	}
	s.mu.Unlock()

	s.logger.Debug("action dispatched", "action", a.Type())
}

// Subscribe returns a channel of state snapshots, starting with the current
// one. Slow readers see only the latest snapshot. The channel closes when
// ctx is done or the store is closed.
func (s *Store) Subscribe(ctx context.Context) <-chan AppState {
	ch := make(chan AppState, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	ch <- s.state
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.ctx.Done():
		}
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}()

	return ch
}

// publish must be called with s.mu held
func (s *Store) publish(st AppState) {
	for ch := range s.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}

// Wait blocks until every running effect, and every effect those started,
// has finished
func (s *Store) Wait() {
	s.running.Wait()
}

// Close stops accepting actions, cancels running effects and waits for them
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()

	s.cancel()
	if r := s.running.WaitAndRecover(); r != nil {
		s.logger.Error("effect panicked", "panic", r.Value, "stack", string(r.Stack))
	}
}

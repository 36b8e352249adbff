package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/storefront/internal/core/notify"
)

// DefaultToastTTL is how long a toast stays active before it is cleared.
const DefaultToastTTL = 3 * time.Second

// Change describes one applied transition.
type Change struct {
	Action Action
	Prev   State
	Next   State
}

// CartChanged reports whether the transition replaced the cart.
func (c Change) CartChanged() bool { return !sameSlice(c.Prev.Cart, c.Next.Cart) }

// WishlistChanged reports whether the transition replaced the wishlist.
func (c Change) WishlistChanged() bool { return !sameSlice(c.Prev.Wishlist, c.Next.Wishlist) }

// OrdersChanged reports whether the transition replaced the orders.
func (c Change) OrdersChanged() bool { return !sameSlice(c.Prev.Orders, c.Next.Orders) }

// ToastChanged reports whether the transition showed a new toast or cleared
// the active one.
func (c Change) ToastChanged() bool { return c.Prev.Toast != c.Next.Toast }

// sameSlice reports whether a and b are the same slice header. The reducer
// always allocates a new slice for a changed field, so identity is change.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil) && cap(a) == 0
	}
	return &a[0] == &b[0]
}

// Listener observes transitions. Listeners run synchronously inside Dispatch
// and must treat the states as read-only. They must not call Dispatch or
// Subscribe.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// Store owns the application state. All mutation goes through Dispatch,
// which is serialized: no two transitions interleave and every listener sees
// each transition exactly once, in order.
type Store struct {
	toastTTL time.Duration
	logger   zerolog.Logger
	expiry   *notify.Scheduler

	mu        sync.Mutex
	state     State
	listeners []subscription
	nextID    int
	closed    bool
}

// Option configures a Store.
type Option func(*config)

type config struct {
	toastTTL time.Duration
	clock    notify.Clock
	logger   zerolog.Logger
}

// WithToastTTL sets how long toasts stay active.
func WithToastTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.toastTTL = d
		}
	}
}

// WithClock sets the clock driving toast expiry.
func WithClock(clock notify.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New returns a Store holding the initial empty state.
func New(opts ...Option) *Store {
	cfg := config{toastTTL: DefaultToastTTL, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Store{
		toastTTL: cfg.toastTTL,
		logger:   cfg.logger,
		expiry:   notify.NewScheduler(cfg.clock),
		state:    Initial(),
	}
}

// Dispatch applies a to the current state and notifies listeners.
func (s *Store) Dispatch(a Action) {
	if a == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(a)
}

// DispatchFunc builds an action from the current state and applies it in
// the same transition, so no other dispatch can land in between. build
// receives a deep copy; returning nil dispatches nothing. build must not
// call back into the store.
func (s *Store) DispatchFunc(build func(State) Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a := build(s.state.Clone()); a != nil {
		s.applyLocked(a)
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to observe every subsequent transition and returns
// a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close cancels any pending toast expiry. The store keeps accepting
// dispatches but schedules no further expiry.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.expiry.Cancel()
}

func (s *Store) applyLocked(a Action) {
	prev := s.state
	next := Reduce(prev, a)
	s.state = next

	s.logger.Debug().
		Str("action", string(a.Kind())).
		Int("cart", len(next.Cart)).
		Int("wishlist", len(next.Wishlist)).
		Int("orders", len(next.Orders)).
		Msg("dispatch")

	if next.Toast != prev.Toast {
		s.scheduleExpiryLocked(next.Toast)
	}

	change := Change{Action: a, Prev: prev, Next: next}
	for _, sub := range s.listeners {
		sub.fn(change)
	}
}

// scheduleExpiryLocked replaces any pending expiry with one for toast. The
// expiry only clears the toast it was scheduled for.
func (s *Store) scheduleExpiryLocked(toast *notify.Toast) {
	if toast == nil || s.closed {
		s.expiry.Cancel()
		return
	}

	s.expiry.Schedule(s.toastTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.state.Toast != toast {
			return
		}
		s.applyLocked(ClearToast{})
	})
}

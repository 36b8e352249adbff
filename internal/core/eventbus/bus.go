package eventbus

import (
	"context"
	"slices"
	"sync"
)

// DefaultBufferSize is the queue length used when New is given zero.
const DefaultBufferSize = 128

type envelope struct {
	event   Event
	payload any
}

type subscriber struct {
	id int
	fn func(Event, any)
}

// EventBus delivers published events to subscribers on a single dispatch
// goroutine started by Start. Publishing never blocks: when the queue is
// full the event is dropped and OnDrop hooks fire.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu     sync.RWMutex
	subs   map[Event][]subscriber
	all    []subscriber
	nextID int
}

// New returns a bus with a queue of bufferSize events.
func New(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &EventBus{
		ch:   make(chan envelope, bufferSize),
		subs: make(map[Event][]subscriber),
	}
}

// Start dispatches queued events until ctx is done.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

// SubscribeAll registers fn for every event and returns a function that
// removes it.
func (bus *EventBus) SubscribeAll(fn func(Event, any)) (unsubscribe func()) {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.all = append(bus.all, subscriber{id: id, fn: fn})
	bus.mu.Unlock()

	for event := range Events {
		bus.runOnSubscribe(event)
	}

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		bus.all = slices.DeleteFunc(bus.all, func(s subscriber) bool { return s.id == id })
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) (unsubscribe func()) {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.subs[event] = append(bus.subs[event], subscriber{
		id: id,
		fn: func(_ Event, payload any) { fn(payload) },
	})
	bus.mu.Unlock()

	bus.runOnSubscribe(event)

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		bus.subs[event] = slices.DeleteFunc(bus.subs[event], func(s subscriber) bool { return s.id == id })
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	targets := make([]subscriber, 0, len(bus.subs[env.event])+len(bus.all))
	targets = append(targets, bus.subs[env.event]...)
	targets = append(targets, bus.all...)
	bus.mu.RUnlock()

	for _, sub := range targets {
		bus.deliver(sub, env)
	}
}

// deliver runs one subscriber, isolating the bus from its panics.
func (bus *EventBus) deliver(sub subscriber, env envelope) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	sub.fn(env.event, env.payload)
}

// PublishCartChanged enqueues a cart.changed event.
func (bus *EventBus) PublishCartChanged(p CartChangedPayload) { bus.send(EventCartChanged, p) }

// PublishWishlistChanged enqueues a wishlist.changed event.
func (bus *EventBus) PublishWishlistChanged(p WishlistChangedPayload) {
	bus.send(EventWishlistChanged, p)
}

// PublishOrderPlaced enqueues an order.placed event.
func (bus *EventBus) PublishOrderPlaced(p OrderPlacedPayload) { bus.send(EventOrderPlaced, p) }

// PublishToastShown enqueues a toast.shown event.
func (bus *EventBus) PublishToastShown(p ToastShownPayload) { bus.send(EventToastShown, p) }

// PublishToastCleared enqueues a toast.cleared event.
func (bus *EventBus) PublishToastCleared(p ToastClearedPayload) { bus.send(EventToastCleared, p) }

// SubscribeCartChanged registers fn for cart.changed events.
func (bus *EventBus) SubscribeCartChanged(fn func(CartChangedPayload)) func() {
	return bus.subscribe(EventCartChanged, func(p any) { fn(p.(CartChangedPayload)) })
}

// SubscribeWishlistChanged registers fn for wishlist.changed events.
func (bus *EventBus) SubscribeWishlistChanged(fn func(WishlistChangedPayload)) func() {
	return bus.subscribe(EventWishlistChanged, func(p any) { fn(p.(WishlistChangedPayload)) })
}

// SubscribeOrderPlaced registers fn for order.placed events.
func (bus *EventBus) SubscribeOrderPlaced(fn func(OrderPlacedPayload)) func() {
	return bus.subscribe(EventOrderPlaced, func(p any) { fn(p.(OrderPlacedPayload)) })
}

// SubscribeToastShown registers fn for toast.shown events.
func (bus *EventBus) SubscribeToastShown(fn func(ToastShownPayload)) func() {
	return bus.subscribe(EventToastShown, func(p any) { fn(p.(ToastShownPayload)) })
}

// SubscribeToastCleared registers fn for toast.cleared events.
func (bus *EventBus) SubscribeToastCleared(fn func(ToastClearedPayload)) func() {
	return bus.subscribe(EventToastCleared, func(p any) { fn(p.(ToastClearedPayload)) })
}

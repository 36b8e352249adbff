// Package notifytest provides a manually advanced clock for testing toast
// expiry without sleeping.
package notifytest

import (
	"sort"
	"sync"
	"time"

	"github.com/colonyops/storefront/internal/core/notify"
)

// Clock is a notify.Clock whose time only moves when Advance is called.
// Due tasks run synchronously inside Advance.
type Clock struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*task
}

var _ notify.Clock = (*Clock)(nil)

type task struct {
	clock   *Clock
	at      time.Time
	fn      func()
	stopped bool
}

func (t *task) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// New returns a clock starting at start.
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, fn func()) notify.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &task{clock: c, at: c.now.Add(d), fn: fn}
	c.tasks = append(c.tasks, t)
	return t
}

// Advance moves the clock forward by d and runs every task that became due,
// in due order.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now

	var due, rest []*task
	for _, t := range c.tasks {
		switch {
		case t.stopped:
		case !t.at.After(now):
			t.stopped = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	c.tasks = rest
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of scheduled tasks that have not fired or been
// stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

package tui

import (
	"time"

	"github.com/colonyops/storefront/internal/core/notify"
)

const (
	localToastTTL     = 4 * time.Second
	maxLocalToasts    = 3
	toastTickInterval = 100 * time.Millisecond
)

type localToast struct {
	toast     notify.Toast
	remaining time.Duration
}

// ToastController tracks what the toast line shows. The store toast expires
// on the store's own schedule and is mirrored here. Local toasts report UI
// failures the store never sees and count down on TUI ticks.
type ToastController struct {
	store   *notify.Toast
	local   []localToast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Mirror replaces the store toast. nil clears it.
func (c *ToastController) Mirror(t *notify.Toast) {
	if t == nil {
		c.store = nil
		return
	}
	cp := *t
	c.store = &cp
}

// Push adds a local toast. The oldest is evicted past maxLocalToasts.
func (c *ToastController) Push(t notify.Toast) {
	c.local = append(c.local, localToast{toast: t, remaining: localToastTTL})
	if len(c.local) > maxLocalToasts {
		c.local = c.local[len(c.local)-maxLocalToasts:]
	}
}

// Tick decrements the remaining TTL of local toasts by d and drops expired
// ones.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.local[:0]
	for _, t := range c.local {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.local = alive
}

// Dismiss removes the newest local toast.
func (c *ToastController) Dismiss() {
	if len(c.local) > 0 {
		c.local = c.local[:len(c.local)-1]
	}
}

// Current returns the toast to display: the newest local toast, else the
// store toast, else nil.
func (c *ToastController) Current() *notify.Toast {
	if n := len(c.local); n > 0 {
		t := c.local[n-1].toast
		return &t
	}
	return c.store
}

// HasLocal reports whether local toasts are counting down.
func (c *ToastController) HasLocal() bool {
	return len(c.local) > 0
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking records whether the tick timer is running.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}

package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs bus activity with a short summary of each
// storefront payload: cart size, wishlist size, order id and total, or toast
// text. Drops log at warn and subscriber panics at error.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		summarize(e, payload).Msg("event published")
	})

	bus.OnDrop(func(event Event, payload any) {
		e := logger.Warn().Str("event", string(event))
		summarize(e, payload).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func summarize(e *zerolog.Event, payload any) *zerolog.Event {
	switch p := payload.(type) {
	case CartChangedPayload:
		return e.Int("lines", len(p.Items)).Int("units", p.Count)
	case WishlistChangedPayload:
		return e.Int("items", len(p.Items))
	case OrderPlacedPayload:
		return e.Str("order_id", p.Order.ID).Int("lines", len(p.Order.Items)).Float64("total", p.Order.Total)
	case ToastShownPayload:
		return e.Str("level", string(p.Toast.Level)).Str("toast", p.Toast.Message)
	default:
		return e
	}
}

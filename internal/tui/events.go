package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/storefront/internal/core/eventbus"
)

const eventBufferSize = 64

// busEventMsg carries an event bus delivery into the Update loop.
type busEventMsg struct {
	event   eventbus.Event
	payload any
}

// eventPump forwards bus events to the program. The bus dispatch goroutine
// must never block on the UI, so events are dropped when the buffer is full;
// every event triggers a full state refresh, so a dropped one loses nothing.
type eventPump struct {
	ch          chan busEventMsg
	unsubscribe func()
}

func newEventPump(bus *eventbus.EventBus, log zerolog.Logger) *eventPump {
	p := &eventPump{ch: make(chan busEventMsg, eventBufferSize)}
	if bus == nil {
		p.unsubscribe = func() {}
		return p
	}

	p.unsubscribe = bus.SubscribeAll(func(event eventbus.Event, payload any) {
		select {
		case p.ch <- busEventMsg{event: event, payload: payload}:
		default:
			log.Debug().Str("event", string(event)).Msg("tui event buffer full, dropping")
		}
	})
	return p
}

// wait returns a command that blocks until the next event.
func (p *eventPump) wait() tea.Cmd {
	return func() tea.Msg {
		return <-p.ch
	}
}

func (p *eventPump) close() {
	p.unsubscribe()
}

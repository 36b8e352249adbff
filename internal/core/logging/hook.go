package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies request_id and client_id from the event context onto
// log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetRequestID(ctx); id != "" {
		e.Str(string(requestIDKey), id)
	}

	if id := GetClientID(ctx); id != "" {
		e.Str(string(clientIDKey), id)
	}
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/storefront/internal/core/logging"
	"github.com/colonyops/storefront/pkg/profiler"
)

// startProfiler serves pprof on port when port > 0. The returned function
// shuts it down.
func startProfiler(ctx context.Context, port int) (func(), error) {
	if port <= 0 {
		return func() {}, nil
	}

	profServer := profiler.New(port, logging.Component("profiler"))
	if err := profServer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := profServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/storefront/internal/core/logging"
	"github.com/colonyops/storefront/internal/printer"
	"github.com/colonyops/storefront/internal/server"
)

type ServeCmd struct {
	flags *Flags

	// flags
	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the storefront HTTP API",
		UsageText: "storefront serve [--addr host:port]",
		Description: `Serves the catalog, cart, wishlist, and checkout as a JSON API, plus a
websocket event stream at /ws. Defaults to server.addr from the config.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to server.addr)",
				Sources:     cli.EnvVars("STOREFRONT_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	addr := cmd.addr
	if addr == "" {
		addr = cmd.flags.Config.Server.Addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopProfiler, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stopProfiler()

	app := cmd.flags.App
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(app, server.Options{Logger: logging.Component("server")})
	defer srv.Close()

	printer.ForWriter(c.Root().Writer).Successf("Serving on http://%s", addr)
	log.Info().Str("addr", addr).Msg("serve")

	return srv.Run(ctx, addr)
}

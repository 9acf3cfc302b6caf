package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/api"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				ws.cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), ws)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides tally.yaml and TALLY_ADDR)")

	return cmd
}

func runServe(ctx context.Context, ws *workspace) error {
	agg, err := ws.aggregator()
	if err != nil {
		return err
	}

	app := api.NewApp(&api.Handler{
		Aggregator: agg,
		Directory:  ws.dir,
		Log:        ws.log,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		ws.log.Info().Str("addr", ws.cfg.Server.Addr).Msg("listening")
		errc <- app.Listen(ws.cfg.Server.Addr)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	ws.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

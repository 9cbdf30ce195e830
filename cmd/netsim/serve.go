package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"netsimbridge/internal/handler"
	"netsimbridge/internal/hub"
	"netsimbridge/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCommand(root *rootCommand) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps, err := root.open(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = root.cfg.Server.Addr
			}
			logger := root.logger

			// Forward run events to SSE clients
			sseHub := hub.New(logger.Named("hub"))
			hubCtx, stopHub := context.WithCancel(context.Background())
			defer stopHub()
			go sseHub.Run(hubCtx)

			events := make(chan service.Event, 100)
			deps.Events.Subscribe(events)
			defer deps.Events.Unsubscribe(events)
			go func() {
				for {
					select {
					case ev := <-events:
						sseHub.Broadcast(ev)
					case <-hubCtx.Done():
						return
					}
				}
			}()

			api := handler.NewAPI(deps, sseHub)
			api.DefaultNetworkFile = root.cfg.Plugins.Import.NetworkFile

			// No write timeout: event streams stay open
			server := &http.Server{
				Addr:              addr,
				Handler:           api.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("server listening", zap.String("addr", addr))
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			// SSE handlers only return once the hub stops
			stopHub()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), root.cfg.Server.ShutdownTimeout.Duration())
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("server shutdown error", zap.Error(err))
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}

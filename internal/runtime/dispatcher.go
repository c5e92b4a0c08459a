package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

type ServiceCtx struct {
	deps            *dependencies
	shutdownChannel chan os.Signal
	serverCtx       context.Context
	serverStopFunc  context.CancelFunc
	serverReady     chan struct{}
}

func New(opts ...ServiceOption) *ServiceCtx {
	ctx := &ServiceCtx{
		shutdownChannel: make(chan os.Signal, 1),
	}

	for _, opt := range opts {
		opt(ctx)
	}

	return ctx
}

func (c *ServiceCtx) Run() {
	if err := c.build(); err != nil {
		log.Fatalf("failed to build service: %v", err)
	}

	c.startService()
	c.startJanitor()
	c.shutdownHook()

	// Waits for one of the following shutdown conditions to happen.
	select {
	case <-c.serverCtx.Done():
	case <-c.shutdownChannel:
		defer close(c.shutdownChannel)
	}

	c.shutdown()
}

func (c *ServiceCtx) build() error {
	c.serverCtx, c.serverStopFunc = context.WithCancel(context.Background())

	var err error

	c.deps, err = initializeDependencies(c.serverCtx)
	if err != nil {
		return fmt.Errorf("initializing dependencies: %w", err)
	}

	return nil
}

func (c *ServiceCtx) startService() {
	go func() {
		addr := net.JoinHostPort(c.deps.config.HTTPServer.Host, fmt.Sprintf("%d", c.deps.config.HTTPServer.Port))

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			log.Fatalf("failed to listen on %s: %v", addr, err)
		}

		c.deps.infra.logger.Info().
			Str("address", addr).
			Str("devices_backend", c.deps.config.Storage.DevicesBackend).
			Str("idempotency_backend", c.deps.config.Storage.IdempotencyBackend).
			Msg("starting the http server")

		if c.serverReady != nil {
			close(c.serverReady)
		}

		if err := c.deps.infra.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()
}

func (c *ServiceCtx) startJanitor() {
	if c.deps.services.janitor == nil {
		return
	}

	go c.deps.services.janitor.Run(c.serverCtx)
}

func (c *ServiceCtx) shutdownHook() {
	signal.Notify(c.shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
}

func (c *ServiceCtx) shutdown() {
	c.deps.infra.logger.Info().Msg("shutting down service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.deps.config.HTTPServer.ShutdownTimeout)
	defer cancel()

	go func() {
		<-shutdownCtx.Done()

		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			c.deps.infra.logger.Error().Msg("graceful shutdown timed out.. forcing exit.")
			os.Exit(1)
		}
	}()

	if err := c.deps.infra.httpServer.Shutdown(shutdownCtx); err != nil {
		c.deps.infra.logger.Error().Err(err).Msg("failed to shutdown the http server gracefully")
	}

	// Stop background workers after in-flight requests have drained.
	c.serverStopFunc()

	c.cleanup(shutdownCtx)

	c.deps.infra.logger.Info().Msg("service shutdown complete")
}

// WaitForServer blocks until the http server is accepting connections.
// Requires the service to be built with WithWaitingForServer.
func (c *ServiceCtx) WaitForServer() {
	if c.serverReady != nil {
		<-c.serverReady
	}
}

func (c *ServiceCtx) cleanup(shutdownCtx context.Context) {
	for resource, cleanupFn := range c.deps.cleanupFuncs {
		if err := cleanupFn(shutdownCtx); err != nil {
			c.deps.infra.logger.Error().
				Err(err).
				Str("resource", resource).
				Msg("failed to shutdown the resource gracefully")
		}
	}
}

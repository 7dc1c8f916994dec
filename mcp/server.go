package mcp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	client "github.com/rm-Shayan/finetech-frontened/client"
	"github.com/rm-Shayan/finetech-frontened/internal/config"
	"github.com/rm-Shayan/finetech-frontened/mcp/internal/handlers"
)

const (
	serverName    = "complaintdesk-mcp-server"
	serverVersion = "0.1.0"

	shutdownTimeout = 10 * time.Second
	httpReadTimeout = 5 * time.Second
	httpIdleTimeout = 120 * time.Second
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds an MCP server whose tools act through portal.
func NewServer(portal *client.Portal) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	for _, h := range []struct {
		name    string
		handler toolRegisterer
	}{
		{"session", handlers.NewSessionHandler(portal)},
		{"complaint", handlers.NewComplaintHandler(portal)},
		{"directory", handlers.NewDirectoryHandler(portal)},
	} {
		if err := h.handler.RegisterTools(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// loginNotice logs where a human would be sent when the session ends; the
// tool result carries the same hint to the model.
var loginNotice = client.NavigatorFunc(func(_ context.Context, dst client.Destination) {
	log.Warn().Str("path", dst.Path).Msg("session ended, login required")
})

// RunMCPServer loads configuration from the environment and serves the
// configured portal over stdio or streamable HTTP.
func RunMCPServer() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)
	// stdout belongs to the stdio transport.
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()

	role, err := client.ParseRole(cfg.MCPRole)
	if err != nil {
		return err
	}

	opts := []client.Option{client.WithHTTPTimeout(cfg.HTTPTimeout), client.WithNavigator(loginNotice)}
	if cfg.RateLimit > 0 {
		opts = append(opts, client.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	opts = append(opts, client.WithStateDir(cfg.StateDir))
	sdk, err := client.New(cfg.APIURL, opts...)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}
	defer func() { _ = sdk.Close() }()

	portal, err := sdk.Portal(role)
	if err != nil {
		return err
	}
	s, err := NewServer(portal)
	if err != nil {
		return err
	}

	if cfg.MCPTransport == "stdio" {
		log.Info().Str("role", role.String()).Msg("Starting complaint MCP server (stdio transport)")
		return server.ServeStdio(s)
	}
	return serveHTTP(s, cfg.MCPAddr)
}

func serveHTTP(s *server.MCPServer, addr string) error {
	log.Info().Str("addr", addr).Msg("Starting complaint MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)
	srv := &http.Server{
		Addr:         addr,
		Handler:      streamSrv,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: 0, // SSE streams have no deadline
		IdleTimeout:  httpIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

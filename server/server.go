// Package server exposes the enhancer over the Model Context Protocol, on
// stdio or streamable HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dmarsters/slapstick-enhancer/catalog"
	"github.com/dmarsters/slapstick-enhancer/enhancer"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/logger"
)

// DefaultName is the MCP server name announced to clients.
const DefaultName = "slapstick-enhancer"

// MCPPath and MetricsPath are the HTTP routes of the streamable transport.
const (
	MCPPath     = "/mcp"
	MetricsPath = "/metrics"
)

// Config holds the transport settings.
type Config struct {
	Name    string
	Version string

	// RatePerSecond <= 0 disables rate limiting.
	RatePerSecond float64
	Burst         int

	// Metrics enables the /metrics route on the HTTP transport. Collectors
	// are always registered.
	Metrics bool
}

// Server is the MCP front end. A nil store leaves the catalog tools
// registered but failing with ErrCatalogDisabled.
type Server struct {
	cfg      Config
	svc      *enhancer.Service
	store    *catalog.Store
	mcp      *mcpserver.MCPServer
	log      *zap.SugaredLogger
	limiter  *rate.Limiter
	registry *prometheus.Registry
	metrics  *Metrics
}

// New builds the server and registers every tool.
func New(cfg Config, svc *enhancer.Service, store *catalog.Store, log *zap.SugaredLogger) *Server {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &Server{
		cfg:      cfg,
		svc:      svc,
		store:    store,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	s.metrics = NewMetrics(s.registry)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	s.mcp = mcpserver.NewMCPServer(
		cfg.Name,
		cfg.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(instructions),
	)
	for _, t := range s.tools() {
		s.mcp.AddTool(t.def, s.wrap(t.def.Name, t.handle))
	}
	return s
}

const instructions = `Deterministic prompt enhancement from closed-set categorical tags.
Call get_available_options first to learn the valid tags of a taxonomy,
then enhance_with_intent (tags) or enhance_with_parameters (explicit 0-10 values).
score_compatibility rates a lens setup against an art style.`

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Registry returns the Prometheus registry holding the tool metrics.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// ServeStdio serves MCP on stdin/stdout until ctx is cancelled or stdin
// closes. Nothing else may write to stdout while it runs.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.log.Desugar()))
	s.log.Infow("Serving MCP on stdio", "name", s.cfg.Name, "version", s.cfg.Version)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "stdio transport")
	}
	return nil
}

// Handler returns the HTTP mux: streamable MCP on MCPPath and, when
// enabled, Prometheus metrics on MetricsPath.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MCPPath, mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithEndpointPath(MCPPath)))
	if s.cfg.Metrics {
		mux.Handle(MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}
	return mux
}

// ServeHTTP listens on addr until ctx is cancelled, then drains for up to
// five seconds.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("Serving MCP over HTTP",
			logger.FieldAddress, ln.Addr().String(),
			"path", MCPPath,
			"metrics", s.cfg.Metrics)
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http transport")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	<-errCh
	s.log.Infow("HTTP transport stopped")
	return nil
}

// handlerFunc is a tool body: it returns a JSON-marshalable result or an
// error that becomes a tool error result.
type handlerFunc func(ctx context.Context, req mcp.CallToolRequest) (any, error)

type tool struct {
	def    mcp.Tool
	handle handlerFunc
}

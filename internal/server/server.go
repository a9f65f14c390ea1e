// Package server exposes the GraphQL schema over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"

	"github.com/hmans/library/internal/config"
)

// Endpoint is the path serving both the API and the playground.
const Endpoint = "/graphql"

// Router returns the HTTP handler for the GraphQL endpoint.
//
// POST requests execute queries and mutations. GET requests serve the
// playground when enabled and are otherwise executed as queries.
func Router(schema graphql.Schema, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	api := handler.New(&handler.Config{
		Schema: &schema,
		Pretty: true,
		ResultCallbackFn: func(ctx context.Context, params *graphql.Params, result *graphql.Result, _ []byte) {
			attrs := []any{"operation", params.OperationName}
			if result.HasErrors() {
				logger.Warn("graphql request failed", append(attrs, "errors", len(result.Errors), "error", result.Errors[0].Message)...)
				return
			}
			logger.Debug("graphql request", attrs...)
		},
	})

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.POST(Endpoint, gin.WrapH(api))
	if cfg.Playground {
		router.GET(Endpoint, gin.WrapH(playground.Handler(cfg.Title, Endpoint)))
	} else {
		router.GET(Endpoint, gin.WrapH(api))
	}

	return router
}

// New returns an HTTP server for schema listening on the configured port.
func New(schema graphql.Schema, cfg *config.Config, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      Router(schema, cfg.Server, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server started", "addr", srv.Addr, "endpoint", Endpoint)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

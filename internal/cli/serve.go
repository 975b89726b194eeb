package cli

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/clickflow"
	httpAdapter "github.com/aretw0/clickflow/internal/adapters/http"
	"github.com/aretw0/clickflow/internal/metrics"
	"github.com/aretw0/clickflow/pkg/adapters/file"
	"github.com/aretw0/clickflow/pkg/adapters/mcp"
	"github.com/aretw0/clickflow/pkg/adapters/memory"
	"github.com/aretw0/clickflow/pkg/adapters/redis"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/persistence/middleware"
	"github.com/aretw0/clickflow/pkg/ports"
)

// Plan store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ServeParams are the inputs of serve.
type ServeParams struct {
	Port  int
	Store string
	// PlansDir is the file store directory, relative to the project.
	PlansDir      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PlanTTL       time.Duration

	// PlanKey enables encryption at rest: 32 bytes, hex or base64 encoded.
	PlanKey string
	// FallbackKeys are previous plan keys still accepted for reading.
	FallbackKeys []string
	// Mask are regular expressions selecting typed text to mask before storage.
	Mask []string
}

// NewPlanStore builds the configured plan store, wrapped with masking and encryption when enabled.
func NewPlanStore(ctx context.Context, g *Globals, p ServeParams) (ports.PlanStore, error) {
	store, err := newBackend(ctx, g, p)
	if err != nil {
		return nil, err
	}

	var mws []middleware.Middleware
	if len(p.Mask) > 0 {
		mw, err := middleware.NewMaskMiddleware(p.Mask)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if p.PlanKey != "" {
		config := middleware.EncryptionConfig{}
		if config.ActiveKey, err = decodeKey(p.PlanKey); err != nil {
			return nil, err
		}
		for _, k := range p.FallbackKeys {
			key, err := decodeKey(k)
			if err != nil {
				return nil, err
			}
			config.FallbackKeys = append(config.FallbackKeys, key)
		}
		mw, err := middleware.NewEncryptionMiddleware(config)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), nil
}

// decodeKey accepts a 64 character hex string or base64.
func decodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) == 64 {
		if key, err := hex.DecodeString(s); err == nil {
			return key, nil
		}
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.Invalid("plan_key", "must be hex or base64", nil)
	}
	return key, nil
}

func newBackend(ctx context.Context, g *Globals, p ServeParams) (ports.PlanStore, error) {
	switch strings.ToLower(p.Store) {
	case "", StoreMemory:
		return memory.NewStore(), nil
	case StoreFile:
		dir := p.PlansDir
		if dir == "" {
			dir = ".clickflow/plans"
		}
		return file.NewStore(g.resolve(dir)), nil
	case StoreRedis:
		var opts []redis.Option
		if p.PlanTTL > 0 {
			opts = append(opts, redis.WithTTL(p.PlanTTL))
		}
		store := redis.New(p.RedisAddr, p.RedisPassword, p.RedisDB, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", p.RedisAddr, err)
		}
		context.AfterFunc(ctx, func() { store.Close() })
		return store, nil
	default:
		return nil, domain.Invalid("store", "must be one of memory, file, redis", p.Store)
	}
}

// NewServeHandler opens the project and builds the HTTP handler with metrics enabled.
func NewServeHandler(ctx context.Context, g *Globals, store ports.PlanStore) (http.Handler, error) {
	project, err := g.open(ctx)
	if err != nil {
		return nil, err
	}
	return httpAdapter.NewHandler(project, store, httpAdapter.Options{
		Metrics: metrics.New(),
		Logger:  g.logger(),
		Version: strings.TrimSpace(clickflow.Version),
	}), nil
}

// Serve runs the HTTP API until ctx is done.
func Serve(ctx context.Context, g *Globals, p ServeParams) error {
	store, err := NewPlanStore(ctx, g, p)
	if err != nil {
		return err
	}
	handler, err := NewServeHandler(ctx, g, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", p.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(g.Stderr, "Starting clickflow server on %s\n", srv.Addr)
		fmt.Fprintf(g.Stderr, "Serving flows from: %s\n", g.Dir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		g.logger().Info("shutdown signal received, stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// MCP serves the project to MCP clients over stdio or SSE.
func MCP(ctx context.Context, g *Globals, transport string, port int) error {
	project, err := g.open(ctx)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(project, g.logger())

	switch transport {
	case "stdio":
		// Stdout carries JSON-RPC.
		log.SetOutput(os.Stderr)
		g.logger().Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		g.logger().Info("starting MCP server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		g.logger().Info("MCP server stopped gracefully")
		return nil
	default:
		return domain.Invalid("transport", "must be stdio or sse", transport)
	}
}

// Package middleware decorates plan stores: encryption at rest and masking of typed secrets.
package middleware

import (
	"context"

	"github.com/aretw0/clickflow/pkg/ports"
)

// Middleware allows wrapping a PlanStore to add behavior.
type Middleware func(ports.PlanStore) ports.PlanStore

// Chain applies mws so that the first one is the outermost.
func Chain(store ports.PlanStore, mws ...Middleware) ports.PlanStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// ping forwards to next when it can be pinged.
func ping(ctx context.Context, next ports.PlanStore) error {
	if p, ok := next.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

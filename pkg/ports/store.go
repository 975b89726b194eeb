package ports

import (
	"context"

	"github.com/aretw0/clickflow/pkg/domain"
)

// PlanStore persists compiled plans so they can be fetched later by id (HTTP API, MCP tools).
type PlanStore interface {
	// Save stores the plan under id, replacing any previous plan.
	Save(ctx context.Context, id string, plan *domain.Plan) error

	// Load retrieves a plan.
	// Returns domain.ErrPlanNotFound if no plan is stored under id.
	Load(ctx context.Context, id string) (*domain.Plan, error)

	// Delete removes a plan. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored plans.
	List(ctx context.Context) ([]string, error)
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

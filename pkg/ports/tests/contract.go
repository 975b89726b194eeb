// Package tests holds contract suites shared by the adapters of the ports package.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *domain.Plan {
	conf := 0.9
	offset := domain.Point{X: 3, Y: -2}
	return &domain.Plan{
		Version:        0,
		Confidence:     &conf,
		Grayscale:      true,
		ExpectedScreen: &domain.ScreenSize{W: 1920, H: 1080},
		Flows: []domain.CompiledFlow{{
			FlowID: "login",
			Title:  "Log in",
			Anchor: domain.Anchor{Image: "anchors/login.png", ClickInImage: domain.Point{X: 5, Y: 7}},
			Actions: []domain.Action{
				domain.RevealDesktop(),
				{Kind: domain.ActionClick, Offset: &offset, Relative: true, Button: domain.ButtonLeft, Clicks: 1, ClickIntervalSeconds: 0.05, PostDelaySeconds: 2},
				{Kind: domain.ActionType, Text: "hi", IntervalSeconds: 0.02, PostDelaySeconds: 2},
			},
		}},
	}
}

// RunPlanStoreContract verifies that a PlanStore implementation adheres to the interface contract.
func RunPlanStoreContract(t *testing.T, store ports.PlanStore) {
	ctx := context.Background()
	planID := "contract-test-plan-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		plan := samplePlan()
		require.NoError(t, store.Save(ctx, planID, plan))

		loaded, err := store.Load(ctx, planID)
		require.NoError(t, err)
		assert.Equal(t, plan, loaded)
	})

	t.Run("Save replaces", func(t *testing.T) {
		plan := samplePlan()
		plan.Grayscale = false
		require.NoError(t, store.Save(ctx, planID, plan))

		loaded, err := store.Load(ctx, planID)
		require.NoError(t, err)
		assert.False(t, loaded.Grayscale)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+planID)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, planID, samplePlan()))
		require.NoError(t, store.Delete(ctx, planID))

		_, err := store.Load(ctx, planID)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound, "Load after Delete should return ErrPlanNotFound")

		assert.NoError(t, store.Delete(ctx, planID), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		id1 := planID + "-1"
		id2 := planID + "-2"
		require.NoError(t, store.Save(ctx, id1, samplePlan()))
		require.NoError(t, store.Save(ctx, id2, samplePlan()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
